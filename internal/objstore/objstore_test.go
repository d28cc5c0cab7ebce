package objstore

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	key := objectKey("Report FINAL.PDF")

	require.True(t, strings.HasPrefix(key, "uploads/"))
	require.True(t, strings.HasSuffix(key, ".pdf"), "extension must be kept, lowercased")

	id := strings.TrimSuffix(strings.TrimPrefix(key, "uploads/"), ".pdf")
	_, err := uuid.Parse(id)
	assert.NoError(t, err, "key body must be a uuid")
}

func TestObjectKey_StripsClientPath(t *testing.T) {
	key := objectKey("../../etc/passwd")
	assert.True(t, strings.HasPrefix(key, "uploads/"))
	assert.NotContains(t, key, "..")
	assert.NotContains(t, strings.TrimPrefix(key, "uploads/"), "/")
}

func TestObjectKey_NoExtension(t *testing.T) {
	key := objectKey("README")
	assert.True(t, strings.HasPrefix(key, "uploads/"))
	assert.NotContains(t, key, ".")
}

func TestObjectKey_Unique(t *testing.T) {
	assert.NotEqual(t, objectKey("a.png"), objectKey("a.png"))
}

func TestPublicURL(t *testing.T) {
	s := &S3Store{publicBaseURL: "https://cdn.example.com"}
	assert.Equal(t, "https://cdn.example.com/uploads/x.png", s.publicURL("uploads/x.png"))
}
