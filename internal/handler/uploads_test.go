package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsgate/opsgate/internal/objstore"
)

func TestUploadHandler(t *testing.T) {
	t.Run("successful upload", func(t *testing.T) {
		var gotContentType, gotFilename string
		var gotSize int64
		h := &Handler{
			uploader: &MockUploader{
				UploadFunc: func(ctx context.Context, reader io.Reader, size int64, contentType, filename string) (objstore.Upload, error) {
					gotContentType, gotFilename, gotSize = contentType, filename, size
					data, err := io.ReadAll(reader)
					require.NoError(t, err)
					assert.Equal(t, "file contents", string(data))
					return objstore.Upload{Key: "uploads/abc.pdf", URL: "https://cdn.example.com/uploads/abc.pdf"}, nil
				},
			},
			cfg: testConfig(),
		}

		body := new(bytes.Buffer)
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile("file", "report.pdf")
		require.NoError(t, err)
		_, err = io.WriteString(part, "file contents")
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		req, err := http.NewRequest(http.MethodPost, "/v1/admin/uploads", body)
		require.NoError(t, err)
		req.Header.Set("Content-Type", writer.FormDataContentType())

		rr := serve(h.Upload, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var upload objstore.Upload
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &upload))
		assert.Equal(t, "uploads/abc.pdf", upload.Key)
		assert.Equal(t, "https://cdn.example.com/uploads/abc.pdf", upload.URL)

		assert.Equal(t, "report.pdf", gotFilename)
		assert.Equal(t, int64(len("file contents")), gotSize)
		assert.NotEmpty(t, gotContentType)
	})

	t.Run("missing file field is 400", func(t *testing.T) {
		h := &Handler{uploader: &MockUploader{}, cfg: testConfig()}

		body := new(bytes.Buffer)
		writer := multipart.NewWriter(body)
		require.NoError(t, writer.WriteField("other", "x"))
		require.NoError(t, writer.Close())

		req, err := http.NewRequest(http.MethodPost, "/v1/admin/uploads", body)
		require.NoError(t, err)
		req.Header.Set("Content-Type", writer.FormDataContentType())

		rr := serve(h.Upload, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("not multipart is 400", func(t *testing.T) {
		h := &Handler{uploader: &MockUploader{}, cfg: testConfig()}

		rr := serve(h.Upload, createRequest(t, http.MethodPost, "/v1/admin/uploads", []byte("raw body")))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
