// Package contact validates and submits the contact form.
package contact

import (
	"errors"
	"regexp"
	"sort"
	"strings"
)

// ErrInvalid is returned when a form fails validation.
var ErrInvalid = errors.New("contact: invalid form")

// MinMessageLen is the shortest accepted message, after trimming.
const MinMessageLen = 10

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Field names used as FieldErrors keys.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldMessage = "message"
)

// Form is a contact submission.
type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// FieldErrors maps a field name to its validation message.
type FieldErrors map[string]string

// Error implements error.
func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + fe[k]
	}
	return "contact: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(fe, ErrInvalid) true.
func (fe FieldErrors) Is(target error) bool {
	return target == ErrInvalid
}

// Trimmed returns the form with surrounding whitespace removed.
func (f Form) Trimmed() Form {
	return Form{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Message: strings.TrimSpace(f.Message),
	}
}

// Validate checks every field and returns nil when the form is valid.
func (f Form) Validate() FieldErrors {
	f = f.Trimmed()
	errs := FieldErrors{}
	if f.Name == "" {
		errs[FieldName] = "Name is required"
	}
	if msg := ValidateEmail(f.Email); msg != "" {
		errs[FieldEmail] = msg
	}
	switch {
	case f.Message == "":
		errs[FieldMessage] = "Message is required"
	case len([]rune(f.Message)) < MinMessageLen:
		errs[FieldMessage] = "Message must be at least 10 characters"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateEmail returns the validation message for email, or "".
func ValidateEmail(email string) string {
	email = strings.TrimSpace(email)
	switch {
	case email == "":
		return "Email is required"
	case !emailPattern.MatchString(email):
		return "Please enter a valid email"
	}
	return ""
}
