// Package submission normalizes and validates free-text story submissions
// before they enter the evaluation pipeline.
package submission

import (
	"regexp"
	"strings"
)

// Transport shims append an "[Additional Context]" block and XML-like
// metadata tags to the user's text; neither may reach moderation,
// scoring, or storage.
const contextMarker = "[Additional Context]"

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	emailPattern      = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
)

// Blocked terms that reject a submission outright regardless of score.
var blockedTerms = []string{"spam", "test123", "asdf"}

// Validator applies length bounds and content screening to cleaned submissions.
type Validator struct {
	minLength int
	maxLength int
}

// NewValidator creates a Validator with the given length bounds.
func NewValidator(minLength, maxLength int) *Validator {
	return &Validator{
		minLength: minLength,
		maxLength: maxLength,
	}
}

// MinLength returns the configured minimum submission length.
func (v *Validator) MinLength() int {
	return v.minLength
}

// MaxLength returns the configured maximum submission length.
func (v *Validator) MaxLength() int {
	return v.maxLength
}

// Clean strips transport metadata and normalizes whitespace: everything
// from the additional-context marker onward is dropped, XML-like tags
// are removed, and whitespace runs collapse to single spaces. The result
// is the only form used for moderation, scoring, and storage.
func Clean(text string) string {
	if idx := strings.Index(text, contextMarker); idx >= 0 {
		text = text[:idx]
	}
	text = tagPattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}

// ExtractEmail returns the first email address found in the raw text, or
// empty when none is present. Extraction runs on the raw message because
// addresses often arrive inside the metadata Clean removes.
func ExtractEmail(text string) string {
	return emailPattern.FindString(text)
}

// Validate checks a cleaned submission against length bounds and blocked terms.
func (v *Validator) Validate(cleaned string) error {
	if cleaned == "" {
		return ErrEmpty
	}
	if len(cleaned) < v.minLength {
		return ErrTooShort
	}
	if len(cleaned) > v.maxLength {
		return ErrTooLong
	}
	lowered := strings.ToLower(cleaned)
	for _, term := range blockedTerms {
		if strings.Contains(lowered, term) {
			return ErrBlocked
		}
	}
	return nil
}
