package notes

import (
	"strings"
	"unicode/utf8"

	"github.com/oliverisaac/notehub/types"
)

// Lengths are in characters.
const (
	MaxTitleLength   = 200
	MaxSubjectLength = 100
)

// Input is the editable part of a note.
type Input struct {
	Title   string
	Subject string
	Content string
}

func (in Input) Normalize() Input {
	return Input{
		Title:   strings.TrimSpace(in.Title),
		Subject: strings.TrimSpace(in.Subject),
		Content: strings.TrimSpace(in.Content),
	}
}

// Validate requires every field to be non-empty once trimmed.
func (in Input) Validate() error {
	in = in.Normalize()
	verr := types.NewValidationError()
	if in.Title == "" {
		verr.Add("title", "Title is required")
	} else if utf8.RuneCountInString(in.Title) > MaxTitleLength {
		verr.Add("title", "Title is too long")
	}
	if in.Subject == "" {
		verr.Add("subject", "Subject is required")
	} else if utf8.RuneCountInString(in.Subject) > MaxSubjectLength {
		verr.Add("subject", "Subject is too long")
	}
	if in.Content == "" {
		verr.Add("content", "Content is required")
	}
	return verr.OrNil()
}

func (in Input) Values() map[string]string {
	return map[string]string{
		"title":   in.Title,
		"subject": in.Subject,
		"content": in.Content,
	}
}

func InputFromNote(n types.Note) Input {
	return Input{Title: n.Title, Subject: n.Subject, Content: n.Content}
}
