package web

import (
	"io/fs"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readIndex(t *testing.T) string {
	t.Helper()
	dist, err := DistFS()
	require.NoError(t, err)
	data, err := fs.ReadFile(dist, "index.html")
	require.NoError(t, err)
	return string(data)
}

// Every request leaves the page through one queued sender, so draft
// updates and saves reach the server in the order the user made them.
func TestIndex_RequestsAreSerialized(t *testing.T) {
	page := readIndex(t)

	assert.Equal(t, 1, strings.Count(page, "fetch("), "only send() may call fetch")
	assert.Regexp(t, regexp.MustCompile(`queue\.then\(\(\) => send\(`), page)
	assert.Contains(t, page, "queue = next.catch(")

	direct := regexp.MustCompile(`(?m)^\s*send\(`)
	assert.False(t, direct.MatchString(page), "handlers must go through call(), not send()")
}

func TestIndex_SaveFlushesDraftFirst(t *testing.T) {
	page := readIndex(t)

	start := strings.Index(page, `$("save").onclick`)
	require.NotEqual(t, -1, start)
	handler := page[start:]
	handler = handler[:strings.Index(handler, "};")]

	put := strings.Index(handler, `call("PUT", "/api/edit"`)
	save := strings.Index(handler, `call("POST", "/api/edit/save")`)
	require.NotEqual(t, -1, put, "save must send the current draft")
	require.NotEqual(t, -1, save)
	assert.Less(t, put, save)
}
