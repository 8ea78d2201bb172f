// Package validate holds the declarative field checks shared by the sign-up,
// profile and note forms.
package validate

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var ErrValidation = errors.New("validation error")

const (
	UsernameMin = 3
	UsernameMax = 20
	NameMax     = 40
	EmailMax    = 254
	PasswordMin = 6
	// PasswordMax is in bytes, bcrypt rejects longer input.
	PasswordMax = 72
	TitleMax    = 100
	ContentMax  = 10000
)

var usernameRe = regexp.MustCompile(`^[a-z0-9_]+$`)

// Errors maps a form field to its message. A non-empty Errors is an error
// matching ErrValidation.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}

	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}

	return "validation error: " + strings.Join(parts, "; ")
}

func (e Errors) Is(target error) bool {
	return target == ErrValidation //nolint:errorlint
}

// Add keeps the first message reported for a field.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Err returns nil when no field failed.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}

	return e
}

func Username(errs Errors, field, v string) string {
	v = strings.ToLower(strings.TrimSpace(v))

	switch n := utf8.RuneCountInString(v); {
	case n < UsernameMin:
		errs.Add(field, "Username is too short")
	case n > UsernameMax:
		errs.Add(field, "Username is too long")
	case !usernameRe.MatchString(v):
		errs.Add(field, "Username can only include letters, numbers, and underscores")
	}

	return v
}

func Email(errs Errors, field, v string) string {
	v = strings.ToLower(strings.TrimSpace(v))

	if v == "" {
		errs.Add(field, "Email is required")

		return v
	}

	if len(v) > EmailMax {
		errs.Add(field, "Email is too long")

		return v
	}

	local, domain, ok := strings.Cut(v, "@")
	if !ok || local == "" || strings.Contains(domain, "@") ||
		!strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") ||
		strings.ContainsAny(v, " \t\r\n") {
		errs.Add(field, "Email is invalid")
	}

	return v
}

func Name(errs Errors, field, v string) string {
	v = strings.TrimSpace(v)

	switch n := utf8.RuneCountInString(v); {
	case n == 0:
		errs.Add(field, "Name is required")
	case n > NameMax:
		errs.Add(field, "Name is too long")
	}

	return v
}

func Password(errs Errors, field, v string) {
	switch {
	case utf8.RuneCountInString(v) < PasswordMin:
		errs.Add(field, "Password is too short")
	case len(v) > PasswordMax:
		errs.Add(field, "Password is too long")
	}
}

func Confirm(errs Errors, field, password, confirm string) {
	if password != confirm {
		errs.Add(field, "The passwords must match")
	}
}

// Text checks a required free-text field; label starts the messages.
func Text(errs Errors, field, label, v string, maxLen int) string {
	v = strings.TrimSpace(v)

	switch n := utf8.RuneCountInString(v); {
	case n == 0:
		errs.Add(field, label+" is required")
	case n > maxLen:
		errs.Add(field, label+" is too long")
	}

	return v
}
