package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/subloop/internal/config"
	"github.com/hpungsan/subloop/internal/errors"
	"github.com/hpungsan/subloop/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db  *sql.DB
	cfg *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config) *Handlers {
	return &Handlers{db: db, cfg: cfg}
}

// Request types for each tool

// SaveRequest represents the arguments for phrase_save.
type SaveRequest struct {
	VideoID     string  `json:"video_id"`
	VideoURL    *string `json:"video_url,omitempty"`
	VideoTitle  *string `json:"video_title,omitempty"`
	Start       float64 `json:"start_time"`
	End         float64 `json:"end_time"`
	Text        string  `json:"text"`
	Note        *string `json:"note,omitempty"`
	Group       *string `json:"group,omitempty"`
	CreateGroup bool    `json:"create_group,omitempty"`
}

// FetchRequest represents the arguments for phrase_fetch.
type FetchRequest struct {
	ID             string `json:"id"`
	IncludeDeleted bool   `json:"include_deleted,omitempty"`
}

// ListRequest represents the arguments for phrase_list.
type ListRequest struct {
	VideoID        *string `json:"video_id,omitempty"`
	Group          *string `json:"group,omitempty"`
	Limit          int     `json:"limit,omitempty"`
	Offset         int     `json:"offset,omitempty"`
	IncludeDeleted bool    `json:"include_deleted,omitempty"`
}

// RecentRequest represents the arguments for phrase_recent.
type RecentRequest struct {
	Limit int `json:"limit,omitempty"`
}

// UpdateRequest represents the arguments for phrase_update.
type UpdateRequest struct {
	ID          string   `json:"id"`
	Start       *float64 `json:"start_time,omitempty"`
	End         *float64 `json:"end_time,omitempty"`
	Text        *string  `json:"text,omitempty"`
	Note        *string  `json:"note,omitempty"`
	VideoTitle  *string  `json:"video_title,omitempty"`
	Group       *string  `json:"group,omitempty"`
	CreateGroup bool     `json:"create_group,omitempty"`
}

// DeleteRequest represents the arguments for phrase_delete.
type DeleteRequest struct {
	ID string `json:"id"`
}

// SearchRequest represents the arguments for phrase_search.
type SearchRequest struct {
	Query          string  `json:"query"`
	VideoID        *string `json:"video_id,omitempty"`
	Group          *string `json:"group,omitempty"`
	Limit          int     `json:"limit,omitempty"`
	Offset         int     `json:"offset,omitempty"`
	IncludeDeleted bool    `json:"include_deleted,omitempty"`
}

// PurgeRequest represents the arguments for phrase_purge.
type PurgeRequest struct {
	OlderThanDays *int `json:"older_than_days,omitempty"`
}

// ExportRequest represents the arguments for phrase_export.
type ExportRequest struct {
	Path           string  `json:"path,omitempty"`
	Group          *string `json:"group,omitempty"`
	IncludeDeleted bool    `json:"include_deleted,omitempty"`
}

// ImportRequest represents the arguments for phrase_import.
type ImportRequest struct {
	Path string `json:"path"`
	Mode string `json:"mode,omitempty"`
}

// GroupCreateRequest represents the arguments for group_create.
type GroupCreateRequest struct {
	Name string `json:"name"`
}

// GroupRenameRequest represents the arguments for group_rename.
type GroupRenameRequest struct {
	Name    string `json:"name"`
	NewName string `json:"new_name"`
}

// GroupDeleteRequest represents the arguments for group_delete.
type GroupDeleteRequest struct {
	Name string `json:"name"`
}

// Handler implementations

// HandleSave handles the phrase_save tool call.
func (h *Handlers) HandleSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SaveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Save(ctx, h.db, ops.SaveInput{
		VideoID:            input.VideoID,
		VideoURL:           input.VideoURL,
		VideoTitle:         input.VideoTitle,
		Start:              input.Start,
		End:                input.End,
		Text:               input.Text,
		Note:               input.Note,
		Group:              input.Group,
		CreateMissingGroup: input.CreateGroup,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFetch handles the phrase_fetch tool call.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Fetch(ctx, h.db, ops.FetchInput{
		ID:             input.ID,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the phrase_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(ctx, h.db, ops.ListInput{
		VideoID:        input.VideoID,
		Group:          input.Group,
		Limit:          input.Limit,
		Offset:         input.Offset,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleRecent handles the phrase_recent tool call.
func (h *Handlers) HandleRecent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RecentRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Recent(ctx, h.db, ops.RecentInput{Limit: input.Limit})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleUpdate handles the phrase_update tool call.
func (h *Handlers) HandleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[UpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Update(ctx, h.db, ops.UpdateInput{
		ID:                 input.ID,
		Start:              input.Start,
		End:                input.End,
		Text:               input.Text,
		Note:               input.Note,
		VideoTitle:         input.VideoTitle,
		Group:              input.Group,
		CreateMissingGroup: input.CreateGroup,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDelete handles the phrase_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Delete(ctx, h.db, ops.DeleteInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSearch handles the phrase_search tool call.
func (h *Handlers) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SearchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Search(ctx, h.db, ops.SearchInput{
		Query:          input.Query,
		VideoID:        input.VideoID,
		Group:          input.Group,
		Limit:          input.Limit,
		Offset:         input.Offset,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandlePurge handles the phrase_purge tool call.
func (h *Handlers) HandlePurge(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PurgeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Purge(ctx, h.db, ops.PurgeInput{OlderThanDays: input.OlderThanDays})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleExport handles the phrase_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(ctx, h.db, h.cfg, ops.ExportInput{
		Path:           input.Path,
		Group:          input.Group,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleImport handles the phrase_import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Import(ctx, h.db, h.cfg, ops.ImportInput{
		Path: input.Path,
		Mode: ops.ImportMode(input.Mode),
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleGroupCreate handles the group_create tool call.
func (h *Handlers) HandleGroupCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GroupCreateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.CreateGroup(ctx, h.db, ops.CreateGroupInput{Name: input.Name})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleGroupList handles the group_list tool call.
func (h *Handlers) HandleGroupList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.ListGroups(ctx, h.db)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleGroupRename handles the group_rename tool call.
func (h *Handlers) HandleGroupRename(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GroupRenameRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.RenameGroup(ctx, h.db, ops.RenameGroupInput{
		Name:    input.Name,
		NewName: input.NewName,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleGroupDelete handles the group_delete tool call.
func (h *Handlers) HandleGroupDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GroupDeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.DeleteGroup(ctx, h.db, ops.DeleteGroupInput{Name: input.Name})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if subloopErr, ok := err.(*errors.SubloopError); ok {
		errorObj := map[string]any{
			"code":    subloopErr.Code,
			"message": subloopErr.Message,
			"status":  subloopErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if subloopErr.Code != errors.ErrInternal && subloopErr.Details != nil {
			errorObj["details"] = subloopErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
