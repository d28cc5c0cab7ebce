package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opsgate/opsgate/internal/domain"
	"github.com/opsgate/opsgate/internal/llm"
	"github.com/opsgate/opsgate/internal/middleware"
	"github.com/opsgate/opsgate/internal/objstore"
)

func createRequest(t *testing.T, method, target string, body []byte) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	return req
}

func withUser(req *http.Request, user *domain.User) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserClaimsKey, user)
	return req.WithContext(ctx)
}

func serve(handlerFunc http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handlerFunc(rr, req)
	return rr
}

// --- Shared mocks ---

type MockAuthService struct {
	RequestLinkFunc func(email domain.Email) error
	VerifyFunc      func(email domain.Email, token string) (string, domain.User, error)
	UsersFunc       func() ([]domain.User, error)
	SetAdminFunc    func(actingId, targetId domain.UserId, admin bool) error
	DeleteUserFunc  func(targetId domain.UserId) error
}

func (m *MockAuthService) RequestLink(email domain.Email) error {
	if m.RequestLinkFunc != nil {
		return m.RequestLinkFunc(email)
	}
	return nil
}

func (m *MockAuthService) Verify(email domain.Email, token string) (string, domain.User, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(email, token)
	}
	return "test_token", domain.User{Id: 1, Email: email}, nil
}

func (m *MockAuthService) Users() ([]domain.User, error) {
	if m.UsersFunc != nil {
		return m.UsersFunc()
	}
	return nil, nil
}

func (m *MockAuthService) SetAdmin(actingId, targetId domain.UserId, admin bool) error {
	if m.SetAdminFunc != nil {
		return m.SetAdminFunc(actingId, targetId, admin)
	}
	return nil
}

func (m *MockAuthService) DeleteUser(targetId domain.UserId) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(targetId)
	}
	return nil
}

type MockWhitelistService struct {
	AddFunc         func(email domain.Email, notes *string, createdBy domain.UserId) (domain.WhitelistEntry, error)
	ListFunc        func() ([]domain.WhitelistEntry, error)
	DeleteFunc      func(id string) error
	UpdateNotesFunc func(id string, notes *string) error
}

func (m *MockWhitelistService) Add(email domain.Email, notes *string, createdBy domain.UserId) (domain.WhitelistEntry, error) {
	if m.AddFunc != nil {
		return m.AddFunc(email, notes, createdBy)
	}
	return domain.WhitelistEntry{Id: "id", Email: email, CreatedBy: &createdBy, Notes: notes}, nil
}

func (m *MockWhitelistService) List() ([]domain.WhitelistEntry, error) {
	if m.ListFunc != nil {
		return m.ListFunc()
	}
	return nil, nil
}

func (m *MockWhitelistService) Delete(id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(id)
	}
	return nil
}

func (m *MockWhitelistService) UpdateNotes(id string, notes *string) error {
	if m.UpdateNotesFunc != nil {
		return m.UpdateNotesFunc(id, notes)
	}
	return nil
}

type MockUploader struct {
	UploadFunc func(ctx context.Context, reader io.Reader, size int64, contentType, filename string) (objstore.Upload, error)
}

func (m *MockUploader) Upload(ctx context.Context, reader io.Reader, size int64, contentType, filename string) (objstore.Upload, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, reader, size, contentType, filename)
	}
	return objstore.Upload{Key: "uploads/test", URL: "https://cdn.example.com/uploads/test"}, nil
}

type MockLLM struct {
	CompleteFunc      func(ctx context.Context, system, user string, opts llm.CompleteOptions) (string, error)
	TranscribeFunc    func(ctx context.Context, filename string, audio io.Reader, model string) (string, error)
	GenerateImageFunc func(ctx context.Context, prompt, model, size string) (llm.GeneratedImage, error)
}

func (m *MockLLM) Complete(ctx context.Context, system, user string, opts llm.CompleteOptions) (string, error) {
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, system, user, opts)
	}
	return "{}", nil
}

func (m *MockLLM) Transcribe(ctx context.Context, filename string, audio io.Reader, model string) (string, error) {
	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, filename, audio, model)
	}
	return "", nil
}

func (m *MockLLM) GenerateImage(ctx context.Context, prompt, model, size string) (llm.GeneratedImage, error) {
	if m.GenerateImageFunc != nil {
		return m.GenerateImageFunc(ctx, prompt, model, size)
	}
	return llm.GeneratedImage{}, nil
}

type MockEmbedder struct {
	EmbedBatchFunc func(ctx context.Context, texts []string) ([][]float32, error)
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (m *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if m.EmbedBatchFunc != nil {
		return m.EmbedBatchFunc(ctx, texts)
	}
	return nil, nil
}
