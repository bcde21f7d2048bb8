package web

import (
	"database/sql"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/hpungsan/subloop/internal/config"
	"github.com/hpungsan/subloop/internal/errors"
	"github.com/hpungsan/subloop/internal/ops"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	renderer *Renderer
}

// HandleList handles GET /phrases — list saved phrases.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	videoID := r.URL.Query().Get("video_id")
	group := r.URL.Query().Get("group")

	input := ops.ListInput{
		VideoID:        ptrString(videoID),
		Group:          ptrString(group),
		Limit:          parseIntParam(r, "limit", 20),
		Offset:         parseIntParam(r, "offset", 0),
		IncludeDeleted: parseBoolParam(r, "include_deleted"),
	}

	result, err := ops.List(r.Context(), h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "list", ListPageData{
		PageData: PageData{
			Title:   "Phrases",
			Version: h.renderer.version,
			Nav:     "phrases",
		},
		Items:      result.Items,
		Pagination: result.Pagination,
		VideoID:    videoID,
		Group:      group,
		Deleted:    input.IncludeDeleted,
	})
}

// HandleSearch handles GET /phrases/search — substring search over text and notes.
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	videoID := r.URL.Query().Get("video_id")
	group := r.URL.Query().Get("group")

	data := SearchPageData{
		PageData: PageData{
			Title:   "Search",
			Version: h.renderer.version,
			Nav:     "search",
		},
		Query:    query,
		VideoID:  videoID,
		Group:    group,
		Deleted:  parseBoolParam(r, "include_deleted"),
		HasQuery: query != "",
	}

	if query == "" {
		h.renderer.renderPage(w, r, "search", data)
		return
	}

	input := ops.SearchInput{
		Query:          query,
		VideoID:        ptrString(videoID),
		Group:          ptrString(group),
		Limit:          parseIntParam(r, "limit", 20),
		Offset:         parseIntParam(r, "offset", 0),
		IncludeDeleted: data.Deleted,
	}

	result, err := ops.Search(r.Context(), h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	data.Items = result.Items
	data.Pagination = result.Pagination

	h.renderer.renderPage(w, r, "search", data)
}

// HandleDetail handles GET /phrases/{id} — view a single phrase.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("phrase ID is required"))
		return
	}

	input := ops.FetchInput{
		ID:             id,
		IncludeDeleted: parseBoolParam(r, "include_deleted"),
	}

	p, err := ops.Fetch(r.Context(), h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	var rendered template.HTML
	if p.Note != nil {
		rendered = renderMarkdown(*p.Note)
	}

	h.renderer.renderPage(w, r, "detail", DetailPageData{
		PageData: PageData{
			Title:   p.Span,
			Version: h.renderer.version,
			Nav:     "phrases",
		},
		Phrase:       p,
		RenderedNote: rendered,
	})
}

// HandleDelete handles DELETE /phrases/{id} and the POST form fallback —
// soft-delete a phrase.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("phrase ID is required"))
		return
	}

	result, err := ops.Delete(r.Context(), h.db, ops.DeleteInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// JSON request
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, map[string]any{
			"deleted": result.Deleted,
			"id":      result.ID,
		})
		return
	}

	// Default: redirect
	http.Redirect(w, r, "/phrases", http.StatusFound)
}

// HandlePurge handles POST /phrases/purge — permanently delete soft-deleted phrases.
func (h *Handlers) HandlePurge(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	if r.FormValue("confirm") != "true" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("confirm parameter must be \"true\""))
		return
	}

	var input ops.PurgeInput
	if days := r.FormValue("older_than_days"); days != "" {
		d, err := strconv.Atoi(days)
		if err != nil {
			h.renderer.renderError(w, r, errors.NewInvalidRequest("older_than_days must be an integer"))
			return
		}
		input.OlderThanDays = &d
	}

	result, err := ops.Purge(r.Context(), h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// JSON request
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, map[string]any{
			"purged":  result.Purged,
			"message": result.Message,
		})
		return
	}

	// Default: redirect
	http.Redirect(w, r, "/phrases?include_deleted=true", http.StatusFound)
}

// HandleGroups handles GET /groups — list groups with phrase counts.
func (h *Handlers) HandleGroups(w http.ResponseWriter, r *http.Request) {
	result, err := ops.ListGroups(r.Context(), h.db)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "groups", GroupsPageData{
		PageData: PageData{
			Title:   "Groups",
			Version: h.renderer.version,
			Nav:     "groups",
		},
		Items: result.Items,
	})
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string) bool {
	s := r.URL.Query().Get(name)
	return s == "true" || s == "1"
}

// ptrString returns a pointer to s if non-empty, nil otherwise.
func ptrString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
