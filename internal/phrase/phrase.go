package phrase

// Phrase represents a saved excerpt of a video: a time range, the transcript
// text that falls inside it, and user metadata.
type Phrase struct {
	// ID is a ULID that uniquely identifies this phrase
	ID string

	// VideoID identifies the source video (e.g. a YouTube video id)
	VideoID string

	// VideoURL is the source video URL (nullable)
	VideoURL *string

	// VideoTitle is the source video title (nullable)
	VideoTitle *string

	// Start is the excerpt start time in seconds
	Start float64

	// End is the excerpt end time in seconds; always greater than Start
	End float64

	// Text is the transcript text covered by [Start, End)
	Text string

	// Note is an optional user note in markdown (nullable)
	Note *string

	// GroupID references the phrase's group (nullable)
	GroupID *string

	// CreatedAt is the Unix timestamp when the phrase was created
	CreatedAt int64

	// UpdatedAt is the Unix timestamp when the phrase was last updated
	UpdatedAt int64

	// DeletedAt is the Unix timestamp for soft delete (nullable)
	DeletedAt *int64
}

// Group represents a user-defined grouping of phrases.
type Group struct {
	// ID is a ULID that uniquely identifies this group
	ID string

	// NameRaw is the original name as provided by the user
	NameRaw string

	// NameNorm is the normalized name; unique across groups
	NameNorm string

	// CreatedAt is the Unix timestamp when the group was created
	CreatedAt int64

	// UpdatedAt is the Unix timestamp when the group was last updated
	UpdatedAt int64
}
