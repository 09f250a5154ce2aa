package remote

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"rock'n'roll", `rock\'n\'roll`},
		{`back\slash`, `back\\slash`},
		{`trail\'`, `trail\\\'`},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeLiteral(tt.in))
		})
	}
}

func TestChildFoldersQuery(t *testing.T) {
	assert.Equal(t,
		"'abc' in parents and mimeType = 'application/vnd.google-apps.folder' and trashed = false",
		ChildFoldersQuery("abc"))
}

func TestDocumentsQuery(t *testing.T) {
	t.Run("without condition", func(t *testing.T) {
		assert.Equal(t,
			"'f1' in parents and mimeType = 'application/pdf' and trashed = false",
			DocumentsQuery("f1", "application/pdf", ""))
	})

	t.Run("with condition", func(t *testing.T) {
		assert.Equal(t,
			"'f1' in parents and mimeType = 'application/pdf' and trashed = false and (name contains 'a' or name contains 'b')",
			DocumentsQuery("f1", "application/pdf", "name contains 'a' or name contains 'b'"))
	})
}

func TestChildrenQuery(t *testing.T) {
	assert.Equal(t, "'root' in parents and trashed = false", ChildrenQuery("root"))
}
