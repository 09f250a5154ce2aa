// Package query turns free-text search input into a remote name condition.
//
// Keywords are ANDed; the variants of each keyword are ORed:
//
//	happy birthday
//	→ (name contains 'happy' or name contains 'ハッピー' ...) and (name contains 'birthday' or ...)
package query

import (
	"context"
	"strings"

	"github.com/dshills/drivesearch-mcp/internal/remote"
)

// SynonymSource expands a keyword to the spellings it should match
type SynonymSource interface {
	GetSynonyms(ctx context.Context, word string) []string
}

// Composer builds name conditions from query text
type Composer struct {
	synonyms SynonymSource
}

// NewComposer creates a composer that expands keywords with synonyms
func NewComposer(synonyms SynonymSource) *Composer {
	return &Composer{synonyms: synonyms}
}

// Keywords splits text on whitespace, including the ideographic space
func Keywords(text string) []string {
	return strings.Fields(strings.ReplaceAll(text, "　", " "))
}

// Compose returns the condition for text, or "" when text has no keywords
func (c *Composer) Compose(ctx context.Context, text string) string {
	keywords := Keywords(text)
	if len(keywords) == 0 {
		return ""
	}

	groups := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		variants := c.synonyms.GetSynonyms(ctx, kw)
		if len(variants) == 0 {
			variants = []string{kw}
		}

		clauses := make([]string, 0, len(variants))
		for _, v := range variants {
			clauses = append(clauses, "name contains '"+remote.EscapeLiteral(v)+"'")
		}

		if len(clauses) == 1 {
			groups = append(groups, clauses[0])
		} else {
			groups = append(groups, "("+strings.Join(clauses, " or ")+")")
		}
	}
	return strings.Join(groups, " and ")
}
