package remote

import (
	"fmt"
	"strings"

	"github.com/dshills/drivesearch-mcp/pkg/types"
)

var literalEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// EscapeLiteral escapes a value for embedding inside a quoted query literal
func EscapeLiteral(s string) string {
	return literalEscaper.Replace(s)
}

// ChildFoldersQuery selects the non-trashed folders directly under parentID
func ChildFoldersQuery(parentID string) string {
	return fmt.Sprintf("'%s' in parents and mimeType = '%s' and trashed = false",
		EscapeLiteral(parentID), types.FolderMimeType)
}

// ChildrenQuery selects every non-trashed item directly under folderID
func ChildrenQuery(folderID string) string {
	return fmt.Sprintf("'%s' in parents and trashed = false", EscapeLiteral(folderID))
}

// DocumentsQuery selects non-trashed documents of mimeType directly under
// folderID. A non-empty condition is ANDed in as a parenthesized group.
func DocumentsQuery(folderID, mimeType, condition string) string {
	q := fmt.Sprintf("'%s' in parents and mimeType = '%s' and trashed = false",
		EscapeLiteral(folderID), EscapeLiteral(mimeType))
	if condition != "" {
		q += " and (" + condition + ")"
	}
	return q
}
