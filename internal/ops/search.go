package ops

import (
	"context"
	"database/sql"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/hpungsan/subloop/internal/db"
	"github.com/hpungsan/subloop/internal/errors"
	"github.com/hpungsan/subloop/internal/phrase"
)

// Search limits
const (
	DefaultSearchLimit  = 20
	MaxSearchLimit      = 100
	MaxQueryLength      = 200
	SnippetContextChars = 120
)

// SearchInput contains parameters for the Search operation.
type SearchInput struct {
	Query          string  // required
	VideoID        *string // optional filter
	Group          *string // optional filter by group name
	Limit          int     // default: 20, max: 100
	Offset         int     // default: 0
	IncludeDeleted bool
}

// SearchResultItem wraps a phrase summary with a match snippet.
type SearchResultItem struct {
	phrase.PhraseSummary
	// Snippet is HTML-safe: phrase content is escaped; only <b>...</b>
	// highlight tags are present.
	Snippet string `json:"snippet"`
}

// SearchOutput contains the result of the Search operation.
type SearchOutput struct {
	Items      []SearchResultItem `json:"items"`
	Pagination Pagination         `json:"pagination"`
	Sort       string             `json:"sort"`
}

// Search performs a substring search across phrase text and notes.
func Search(ctx context.Context, database *sql.DB, input SearchInput) (*SearchOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, errors.NewInvalidRequest("query is required")
	}
	if utf8.RuneCountInString(query) > MaxQueryLength {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("query exceeds maximum length of %d characters", MaxQueryLength))
	}

	filters, err := buildFilters(ctx, database, input.VideoID, input.Group)
	if err != nil {
		return nil, err
	}

	limit := clampLimit(input.Limit, DefaultSearchLimit, MaxSearchLimit)
	offset := max(input.Offset, 0)

	results, total, err := db.SearchPhrases(ctx, database, query, filters, limit, offset, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}

	items := make([]SearchResultItem, len(results))
	for i, p := range results {
		items[i] = SearchResultItem{
			PhraseSummary: p.ToSummary(),
			Snippet:       buildSnippet(&p, query),
		}
	}

	return &SearchOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < total,
			Total:   total,
		},
		Sort: "updated_at_desc",
	}, nil
}

// buildSnippet extracts a context window around the first match and wraps
// the matched run in <b> tags. Phrase content is HTML-escaped; the match
// is located in the text first, then the note.
func buildSnippet(p *phrase.Phrase, query string) string {
	if s, ok := highlightMatch(p.Text, query); ok {
		return s
	}
	if p.Note != nil {
		if s, ok := highlightMatch(*p.Note, query); ok {
			return s
		}
	}
	// Shouldn't happen for rows the LIKE filter returned, but degrade
	// to a plain escaped prefix of the text.
	return html.EscapeString(truncateRunes(p.Text, SnippetContextChars))
}

func highlightMatch(content, query string) (string, bool) {
	idx := strings.Index(strings.ToLower(content), strings.ToLower(query))
	if idx < 0 {
		return "", false
	}
	end := idx + len(query)

	// Expand to rune boundaries in case the lowered fold shifted offsets
	for idx > 0 && !utf8.RuneStart(content[idx]) {
		idx--
	}
	for end < len(content) && !utf8.RuneStart(content[end]) {
		end++
	}

	pre := content[:idx]
	post := content[end:]

	prefixTruncated := false
	if len(pre) > SnippetContextChars {
		pre = truncateRunesLeft(pre, SnippetContextChars)
		prefixTruncated = true
	}
	suffixTruncated := len(post) > SnippetContextChars
	if suffixTruncated {
		post = truncateRunes(post, SnippetContextChars)
	}

	var b strings.Builder
	if prefixTruncated {
		b.WriteString("...")
	}
	b.WriteString(html.EscapeString(pre))
	b.WriteString("<b>")
	b.WriteString(html.EscapeString(content[idx:end]))
	b.WriteString("</b>")
	b.WriteString(html.EscapeString(post))
	if suffixTruncated {
		b.WriteString("...")
	}
	return b.String(), true
}

// truncateRunes trims s to at most maxBytes without splitting a rune.
func truncateRunes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// truncateRunesLeft keeps the trailing maxBytes of s without splitting a rune.
func truncateRunesLeft(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := len(s) - maxBytes
	for cut < len(s) && !utf8.RuneStart(s[cut]) {
		cut++
	}
	return s[cut:]
}
