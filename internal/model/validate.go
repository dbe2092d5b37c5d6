package model

import (
	"strings"
	"unicode/utf8"
)

const (
	// MaxTitleLength is the longest accepted title, in characters.
	MaxTitleLength = 100
	// MaxDescriptionLength is the longest accepted description, in characters.
	MaxDescriptionLength = 500
)

// ValidationError is a user-facing message describing rejected input.
type ValidationError struct {
	Text string `json:"text"`
}

func (e ValidationError) Error() string {
	return e.Text
}

var (
	ErrTitleRequired      = ValidationError{Text: "Title is required"}
	ErrTitleTooLong       = ValidationError{Text: "Title must be 100 characters or less"}
	ErrDescriptionTooLong = ValidationError{Text: "Description must be 500 characters or less"}
)

// ValidateTask checks the task fields and returns every violation found,
// title errors first. An empty result means the task is valid.
func ValidateTask(t TaskInput) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(t.Title) == "" {
		errs = append(errs, ErrTitleRequired)
	} else if utf8.RuneCountInString(t.Title) > MaxTitleLength {
		errs = append(errs, ErrTitleTooLong)
	}

	if utf8.RuneCountInString(t.Description) > MaxDescriptionLength {
		errs = append(errs, ErrDescriptionTooLong)
	}

	return errs
}

// IsValidTask reports whether ValidateTask finds no errors.
func IsValidTask(t TaskInput) bool {
	return len(ValidateTask(t)) == 0
}
