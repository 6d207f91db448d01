package task

import (
	"fmt"
	"unicode/utf8"

	domain "github.com/example/task-tracker/domain/task"
)

// Validate checks the title and description of a sanitized payload and
// returns every failure message. A value that is not a string is treated as
// missing. Lengths are counted in characters.
func Validate(p Payload) []string {
	var errs []string
	errs = appendFieldErrors(errs, p, "title", "Title", domain.MaxTitleLength)
	errs = appendFieldErrors(errs, p, "description", "Description", domain.MaxDescriptionLength)
	return errs
}

func appendFieldErrors(errs []string, p Payload, key, label string, max int) []string {
	v, ok := p.String(key)
	switch {
	case !ok || v == "":
		return append(errs, label+" is required")
	case utf8.RuneCountInString(v) > max:
		return append(errs, fmt.Sprintf("%s cannot exceed %d characters", label, max))
	}
	return errs
}
