// Package moderation screens free-text user input for profanity before
// it reaches other students.
package moderation

import (
	"fmt"
	"sort"

	goaway "github.com/TwiN/go-away"
	"github.com/studybuddy/backend/internal/domain"
)

// Checker screens user-supplied text. A zero Checker is not usable; use
// NewChecker.
type Checker struct {
	detector *goaway.ProfanityDetector
}

func NewChecker() *Checker {
	return &Checker{detector: goaway.NewProfanityDetector()}
}

// Check reports whether text contains inappropriate content, along with
// the extracted offending segment when it does.
func (c *Checker) Check(text string) (bool, string) {
	if text == "" {
		return false, ""
	}
	if !c.detector.IsProfane(text) {
		return false, ""
	}
	return true, c.detector.ExtractProfanity(text)
}

// ValidateField returns domain.ErrInappropriateText with a
// user-presentable message when the field's text fails screening.
func (c *Checker) ValidateField(fieldName, text string) error {
	if flagged, _ := c.Check(text); flagged {
		return fmt.Errorf("%w: %s contains inappropriate content, please use respectful language",
			domain.ErrInappropriateText, fieldName)
	}
	return nil
}

// ValidateFields screens several named fields at once and reports the
// first offender. Fields are checked in name order so the same input
// always produces the same error.
func (c *Checker) ValidateFields(fields map[string]string) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := c.ValidateField(name, fields[name]); err != nil {
			return err
		}
	}
	return nil
}
