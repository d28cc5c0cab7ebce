package handler

import (
	"net/http"

	"github.com/opsgate/opsgate/internal/llm"
	"github.com/opsgate/opsgate/internal/utils"
)

type extractBody struct {
	System string      `json:"system"`
	User   string      `validate:"required" json:"user"`
	Schema *llm.Schema `validate:"required" json:"schema"`
}

// Extract runs a structured-output generation against the configured
// model and returns the schema-validated JSON object.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	var body extractBody
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	result, err := llm.AnswerStructured(r.Context(), h.llm, llm.Request{
		System:      body.System,
		User:        body.User,
		Schema:      body.Schema,
		Model:       h.cfg.Private.LLM.Model,
		Temperature: h.cfg.Private.LLM.Temperature,
		MaxTokens:   h.cfg.Private.LLM.MaxTokens,
		MaxRetries:  h.cfg.Private.LLM.MaxRetries,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	utils.WriteJSON(w, result)
}

type embedBody struct {
	Texts []string `validate:"required,min=1" json:"texts"`
}

func (h *Handler) Embed(w http.ResponseWriter, r *http.Request) {
	var body embedBody
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	embeddings, err := h.embedder.EmbedBatch(r.Context(), body.Texts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	utils.WriteJSON(w, map[string]any{"embeddings": embeddings})
}

type rerankBody struct {
	Query      string   `validate:"required" json:"query"`
	Candidates []string `validate:"required,min=1" json:"candidates"`
}

func (h *Handler) Rerank(w http.ResponseWriter, r *http.Request) {
	var body rerankBody
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	ranked, err := llm.Rerank(r.Context(), h.embedder, body.Query, body.Candidates)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	utils.WriteJSON(w, map[string]any{"results": ranked})
}

// Transcribe forwards one multipart audio file to the provider.
func (h *Handler) Transcribe(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.cfg.Public.MaxUploadSizeMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		http.Error(w, "File too large or malformed form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	text, err := h.llm.Transcribe(r.Context(), header.Filename, file, h.cfg.Private.LLM.TranscribeModel)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	utils.WriteJSON(w, map[string]string{"text": text})
}

type imageBody struct {
	Prompt string `validate:"required" json:"prompt"`
	Size   string `json:"size"`
}

func (h *Handler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var body imageBody
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	image, err := h.llm.GenerateImage(r.Context(), body.Prompt, h.cfg.Private.LLM.ImageModel, body.Size)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	utils.WriteJSON(w, image)
}
