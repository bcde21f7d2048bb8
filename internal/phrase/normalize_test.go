package phrase

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Verbs", "verbs"},
		{"trims whitespace", "  daily phrases  ", "daily phrases"},
		{"collapses internal whitespace", "daily   \t phrases", "daily phrases"},
		{"already normalized", "idioms", "idioms"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"mixed case", "Business English", "business english"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestToSummary(t *testing.T) {
	note := "a **note**"
	p := &Phrase{
		ID:      "01ABC",
		VideoID: "dQw4w9WgXcQ",
		Start:   10,
		End:     15.5,
		Text:    "never gonna give you up",
		Note:    &note,
	}

	s := p.ToSummary()
	if s.ID != p.ID || s.VideoID != p.VideoID || s.Text != p.Text {
		t.Errorf("ToSummary lost fields: %+v", s)
	}
	if s.Start != 10 || s.End != 15.5 {
		t.Errorf("ToSummary times = [%v, %v), want [10, 15.5)", s.Start, s.End)
	}
}

func TestExportRecordRoundTrip(t *testing.T) {
	url := "https://youtu.be/abc"
	p := &Phrase{
		ID:       "01DEF",
		VideoID:  "abc",
		VideoURL: &url,
		Start:    1,
		End:      3,
		Text:     "hello",
	}
	group := "greetings"

	r := ToExportRecord(p, &group)
	if r.Group == nil || *r.Group != "greetings" {
		t.Errorf("Group = %v, want greetings", r.Group)
	}

	back := r.ToPhrase()
	if back.ID != p.ID || back.VideoID != p.VideoID || back.Text != p.Text {
		t.Errorf("ToPhrase lost fields: %+v", back)
	}
	// Group reference is resolved at import time, not carried on the struct
	if back.GroupID != nil {
		t.Errorf("GroupID = %v, want nil", back.GroupID)
	}
}
