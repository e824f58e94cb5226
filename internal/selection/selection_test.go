package selection

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func TestNew_FreshIDs(t *testing.T) {
	f := &File{Name: "a.png", MIMEType: "image/png", Data: pngHeader}
	a := New(f)
	b := New(f)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.True(t, a.HasFile())
	assert.Empty(t, a.PreviewDataURI)
	assert.False(t, Selection{}.HasFile())
}

func TestWithPreview_IgnoresOtherSelection(t *testing.T) {
	f := &File{Name: "a.png", MIMEType: "image/png", Data: pngHeader}
	old := New(f)
	cur := New(f)

	got := cur.WithPreview(old.ID, "data:image/png;base64,AAAA")
	assert.Empty(t, got.PreviewDataURI)

	got = cur.WithPreview(cur.ID, "data:image/png;base64,AAAA")
	assert.Equal(t, "data:image/png;base64,AAAA", got.PreviewDataURI)
}

func TestReadPreview(t *testing.T) {
	f := &File{Name: "a.png", MIMEType: "image/png", Data: pngHeader}
	uri, err := ReadPreview(context.Background(), f)
	require.NoError(t, err)

	prefix := "data:image/png;base64,"
	require.True(t, strings.HasPrefix(uri, prefix))
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, decoded)
}

func TestReadPreview_Errors(t *testing.T) {
	_, err := ReadPreview(context.Background(), nil)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ReadPreview(ctx, &File{Name: "a", Data: []byte("x")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpen_DetectsMIME(t *testing.T) {
	dir := t.TempDir()

	pngPath := filepath.Join(dir, "scan.png")
	require.NoError(t, os.WriteFile(pngPath, pngHeader, 0o644))
	f, err := Open(pngPath)
	require.NoError(t, err)
	assert.Equal(t, "scan.png", f.Name)
	assert.Equal(t, "image/png", f.MIMEType)
	assert.True(t, IsImage(f))

	// No extension: fall back to sniffing.
	rawPath := filepath.Join(dir, "scan")
	require.NoError(t, os.WriteFile(rawPath, pngHeader, 0o644))
	f, err = Open(rawPath)
	require.NoError(t, err)
	assert.Equal(t, "image/png", f.MIMEType)

	// Non-images are accepted, just not flagged as images.
	txtPath := filepath.Join(dir, "notes")
	require.NoError(t, os.WriteFile(txtPath, []byte("plain words"), 0o644))
	f, err = Open(txtPath)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", f.MIMEType)
	assert.False(t, IsImage(f))

	_, err = Open(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}
