package phrase

// ExportRecord represents a phrase record in JSONL export format.
// It is used for parsing export files during import.
type ExportRecord struct {
	// Header detection field - true only for header line
	SubloopExport bool `json:"_subloop_export,omitempty"`

	// Header fields (only present in header line)
	SchemaVersion string `json:"schema_version,omitempty"`
	ExportedAt    int64  `json:"exported_at,omitempty"`

	// Phrase fields
	ID         string   `json:"id"`
	VideoID    string   `json:"video_id"`
	VideoURL   *string  `json:"video_url"`
	VideoTitle *string  `json:"video_title"`
	Start      float64  `json:"start_time"`
	End        float64  `json:"end_time"`
	Text       string   `json:"text"`
	Note       *string  `json:"note"`
	Group      *string  `json:"group"` // group name, resolved to an id on import
	CreatedAt  int64    `json:"created_at"`
	UpdatedAt  int64    `json:"updated_at"`
	DeletedAt  *int64   `json:"deleted_at"`
}

// ToPhrase converts an ExportRecord to a Phrase. The group reference is left
// unset; import resolves the group name against the destination database.
func (r *ExportRecord) ToPhrase() *Phrase {
	return &Phrase{
		ID:         r.ID,
		VideoID:    r.VideoID,
		VideoURL:   r.VideoURL,
		VideoTitle: r.VideoTitle,
		Start:      r.Start,
		End:        r.End,
		Text:       r.Text,
		Note:       r.Note,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
		DeletedAt:  r.DeletedAt,
	}
}

// ToExportRecord converts a Phrase to an ExportRecord for export.
// groupName is the resolved group name, or nil for ungrouped phrases.
func ToExportRecord(p *Phrase, groupName *string) *ExportRecord {
	return &ExportRecord{
		ID:         p.ID,
		VideoID:    p.VideoID,
		VideoURL:   p.VideoURL,
		VideoTitle: p.VideoTitle,
		Start:      p.Start,
		End:        p.End,
		Text:       p.Text,
		Note:       p.Note,
		Group:      groupName,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
		DeletedAt:  p.DeletedAt,
	}
}
