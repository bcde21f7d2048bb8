package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool definitions. Descriptions are what an MCP client shows the model,
// so they lead with the verb and name the required fields.

var saveToolDef = mcp.NewTool("phrase_save",
	mcp.WithDescription("Save a transcript excerpt as a phrase. Requires video_id, start_time, end_time, and text. Times are seconds; a swapped range is normalized."),
	mcp.WithString("video_id", mcp.Required(), mcp.Description("Source video identifier")),
	mcp.WithString("video_url", mcp.Description("Source video URL")),
	mcp.WithString("video_title", mcp.Description("Source video title")),
	mcp.WithNumber("start_time", mcp.Required(), mcp.Description("Excerpt start in seconds")),
	mcp.WithNumber("end_time", mcp.Required(), mcp.Description("Excerpt end in seconds")),
	mcp.WithString("text", mcp.Required(), mcp.Description("Transcript text covered by the range")),
	mcp.WithString("note", mcp.Description("Free-form study note")),
	mcp.WithString("group", mcp.Description("Group name to file the phrase under")),
	mcp.WithBoolean("create_group", mcp.Description("Create the group if it does not exist")),
)

var fetchToolDef = mcp.NewTool("phrase_fetch",
	mcp.WithDescription("Fetch a phrase by id, including its note and group name."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Phrase ULID")),
	mcp.WithBoolean("include_deleted", mcp.Description("Also match soft-deleted phrases")),
)

var listToolDef = mcp.NewTool("phrase_list",
	mcp.WithDescription("List phrase summaries, optionally filtered by video_id or group name. Video-filtered results sort by start time."),
	mcp.WithString("video_id", mcp.Description("Filter to a single video")),
	mcp.WithString("group", mcp.Description("Filter to a group by name")),
	mcp.WithNumber("limit", mcp.Description("Page size (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Page offset")),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted phrases")),
)

var recentToolDef = mcp.NewTool("phrase_recent",
	mcp.WithDescription("List the most recently updated phrases across all videos."),
	mcp.WithNumber("limit", mcp.Description("Item count (default 10, max 50)")),
)

var updateToolDef = mcp.NewTool("phrase_update",
	mcp.WithDescription("Update fields of an existing phrase. At least one editable field is required; an empty group detaches, an empty note clears."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Phrase ULID")),
	mcp.WithNumber("start_time", mcp.Description("New start in seconds")),
	mcp.WithNumber("end_time", mcp.Description("New end in seconds")),
	mcp.WithString("text", mcp.Description("New transcript text")),
	mcp.WithString("note", mcp.Description("New note; empty string clears it")),
	mcp.WithString("video_title", mcp.Description("New video title")),
	mcp.WithString("group", mcp.Description("New group name; empty string detaches")),
	mcp.WithBoolean("create_group", mcp.Description("Create the group if it does not exist")),
)

var deleteToolDef = mcp.NewTool("phrase_delete",
	mcp.WithDescription("Soft-delete a phrase by id. Deleted phrases are recoverable until purged."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Phrase ULID")),
)

var searchToolDef = mcp.NewTool("phrase_search",
	mcp.WithDescription("Search phrase text and notes for a substring. Returns summaries with highlighted snippets."),
	mcp.WithString("query", mcp.Required(), mcp.Description("Substring to search for")),
	mcp.WithString("video_id", mcp.Description("Filter to a single video")),
	mcp.WithString("group", mcp.Description("Filter to a group by name")),
	mcp.WithNumber("limit", mcp.Description("Page size (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Page offset")),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted phrases")),
)

var purgeToolDef = mcp.NewTool("phrase_purge",
	mcp.WithDescription("Permanently remove soft-deleted phrases. Irreversible."),
	mcp.WithNumber("older_than_days", mcp.Description("Only purge phrases deleted more than N days ago")),
)

var exportToolDef = mcp.NewTool("phrase_export",
	mcp.WithDescription("Export phrases to a JSONL file. Files must sit directly in the exports directory or a configured allowed path."),
	mcp.WithString("path", mcp.Description("Destination .jsonl path (default: exports directory)")),
	mcp.WithString("group", mcp.Description("Only export phrases in this group")),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted phrases")),
)

var importToolDef = mcp.NewTool("phrase_import",
	mcp.WithDescription("Import phrases from a JSONL export file. Missing groups are created by name."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Source .jsonl path")),
	mcp.WithString("mode", mcp.Description("Collision handling: error (default), replace, or rename")),
)

var groupCreateToolDef = mcp.NewTool("group_create",
	mcp.WithDescription("Create a phrase group. Names are unique case-insensitively."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Group name")),
)

var groupListToolDef = mcp.NewTool("group_list",
	mcp.WithDescription("List all groups with their active phrase counts, ordered by name."),
)

var groupRenameToolDef = mcp.NewTool("group_rename",
	mcp.WithDescription("Rename a group. The new name must not collide with an existing group."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Current group name")),
	mcp.WithString("new_name", mcp.Required(), mcp.Description("New group name")),
)

var groupDeleteToolDef = mcp.NewTool("group_delete",
	mcp.WithDescription("Delete a group. Member phrases survive with their group reference cleared."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Group name")),
)
