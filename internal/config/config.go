package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Port                int      `yaml:"port"`
	LogLevel            string   `yaml:"log_level"`
	LogJSON             bool     `yaml:"log_json"`
	BaseURL             string   `yaml:"base_url"` // used to build magic links
	AllowedDomains      []string `yaml:"allowed_domains"`
	JwtTTLHours         int      `yaml:"jwt_ttl_hours"`
	MagicLinkTTLMinutes int      `yaml:"magic_link_ttl_minutes"`
	SecureCookies       bool     `yaml:"secure_cookies"`
	CORSAllowedOrigins  []string `yaml:"cors_allowed_origins"`
	MaxUploadSizeMB     int64    `yaml:"max_upload_size_mb"`
}

type Private struct {
	Pg     Pg     `yaml:"pg"`
	JwtKey string `yaml:"jwt_key"`
	Email  Email  `yaml:"email"`
	LLM    LLM    `yaml:"llm"`
	S3     S3     `yaml:"s3"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Email struct {
	// Mode selects the delivery path: "api" for the transactional HTTP
	// provider, "smtp" for direct SMTP.
	Mode       string `yaml:"mode"`
	APIBaseURL string `yaml:"api_base_url"`
	APIKey     string `yaml:"api_key"`
	From       string `yaml:"from"`
	SenderName string `yaml:"sender_name"`
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	Timeout    int    `yaml:"timeout"` // seconds
}

type LLM struct {
	BaseURL         string  `yaml:"base_url"` // OpenAI-compatible endpoint
	APIKey          string  `yaml:"api_key"`
	Model           string  `yaml:"model"`
	Temperature     float64 `yaml:"temperature"`
	MaxTokens       int     `yaml:"max_tokens"`
	MaxRetries      int     `yaml:"max_retries"`
	GeminiAPIKey    string  `yaml:"gemini_api_key"` // embeddings
	EmbedModel      string  `yaml:"embed_model"`
	TranscribeModel string  `yaml:"transcribe_model"`
	ImageModel      string  `yaml:"image_model"`
}

type S3 struct {
	Endpoint      string `yaml:"endpoint"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	Bucket        string `yaml:"bucket"`
	UseSSL        bool   `yaml:"use_ssl"`
	PublicBaseURL string `yaml:"public_base_url"`
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) JwtTTL() time.Duration {
	return time.Duration(c.Public.JwtTTLHours) * time.Hour
}

func (c *Config) MagicLinkTTL() time.Duration {
	return time.Duration(c.Public.MagicLinkTTLMinutes) * time.Minute
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	cfg.applyEnvOverrides()
	cfg.mustValidate()
	return cfg
}

// applyEnvOverrides lets secrets come from the environment (a local .env
// is loaded by cmd before MustLoad) so private.yaml can stay out of
// production deployments entirely.
func (c *Config) applyEnvOverrides() {
	overrideString(&c.Private.JwtKey, "OPSGATE_JWT_KEY")
	overrideString(&c.Private.Pg.Password, "OPSGATE_PG_PASSWORD")
	overrideString(&c.Private.Email.APIKey, "OPSGATE_EMAIL_API_KEY")
	overrideString(&c.Private.Email.Password, "OPSGATE_SMTP_PASSWORD")
	overrideString(&c.Private.LLM.APIKey, "OPSGATE_LLM_API_KEY")
	overrideString(&c.Private.LLM.GeminiAPIKey, "OPSGATE_GEMINI_API_KEY")
	overrideString(&c.Private.S3.AccessKey, "OPSGATE_S3_ACCESS_KEY")
	overrideString(&c.Private.S3.SecretKey, "OPSGATE_S3_SECRET_KEY")
}

func overrideString(target *string, envKey string) {
	if v := os.Getenv(envKey); v != "" {
		*target = v
	}
}

func (c *Config) mustValidate() {
	if c.Private.JwtKey == "" {
		panic("config: jwt_key is required")
	}
	if c.Public.JwtTTLHours <= 0 {
		panic("config: jwt_ttl_hours must be positive")
	}
	if c.Public.MagicLinkTTLMinutes <= 0 {
		panic("config: magic_link_ttl_minutes must be positive")
	}
	if c.Public.BaseURL == "" {
		panic("config: base_url is required")
	}
}
