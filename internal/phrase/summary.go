package phrase

// PhraseSummary represents a phrase's metadata without the user note.
// Used for browse operations (list, recent, search) to reduce data transfer.
type PhraseSummary struct {
	// ID is a ULID that uniquely identifies this phrase
	ID string `json:"id"`

	// VideoID identifies the source video
	VideoID string `json:"video_id"`

	// VideoTitle is the source video title (nullable)
	VideoTitle *string `json:"video_title,omitempty"`

	// Start is the excerpt start time in seconds
	Start float64 `json:"start_time"`

	// End is the excerpt end time in seconds
	End float64 `json:"end_time"`

	// Text is the transcript text covered by [Start, End)
	Text string `json:"text"`

	// GroupID references the phrase's group (nullable)
	GroupID *string `json:"group_id,omitempty"`

	// GroupName is the group's original name when GroupID is set (nullable)
	GroupName *string `json:"group_name,omitempty"`

	// CreatedAt is the Unix timestamp when the phrase was created
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the Unix timestamp when the phrase was last updated
	UpdatedAt int64 `json:"updated_at"`

	// DeletedAt is the Unix timestamp for soft delete (nullable)
	DeletedAt *int64 `json:"deleted_at,omitempty"`
}

// ToSummary converts a Phrase to a PhraseSummary by stripping the note.
func (p *Phrase) ToSummary() PhraseSummary {
	return PhraseSummary{
		ID:         p.ID,
		VideoID:    p.VideoID,
		VideoTitle: p.VideoTitle,
		Start:      p.Start,
		End:        p.End,
		Text:       p.Text,
		GroupID:    p.GroupID,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
		DeletedAt:  p.DeletedAt,
	}
}
