package service

import (
	"regexp"
	"strings"
	"time"

	"github.com/kmareda/regdesk/internal/domain"
)

// UserInput carries the raw field values of a submission or edit, before
// validation. Fields are strings because they arrive from forms and JSON
// bodies alike.
type UserInput struct {
	Name    string
	Email   string
	DOB     string
	Contact string
	State   string
	Country string
}

const dobLayout = "2006-01-02"

var (
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	contactPattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// Validate checks every field and returns all violation messages in field
// order; an empty result means the input is accepted. In partial mode,
// empty fields mean "unchanged" and are skipped; present fields are
// revalidated.
func (in UserInput) Validate(partial bool) []string {
	var errs []string

	check := func(value string, rule func(string) string) {
		if partial && strings.TrimSpace(value) == "" {
			return
		}
		if msg := rule(value); msg != "" {
			errs = append(errs, msg)
		}
	}

	check(in.Name, func(v string) string {
		if n := len(strings.TrimSpace(v)); n < 2 || n > 50 {
			return "Name must be between 2 and 50 characters"
		}
		return ""
	})
	check(in.Email, func(v string) string {
		if !emailPattern.MatchString(strings.TrimSpace(v)) {
			return "A valid email address is required"
		}
		return ""
	})
	check(in.DOB, func(v string) string {
		dob, err := time.Parse(dobLayout, strings.TrimSpace(v))
		if err != nil {
			return "A valid date of birth is required"
		}
		now := time.Now()
		if dob.After(now) {
			return "Date of birth cannot be in the future"
		}
		if dob.Before(now.AddDate(-120, 0, 0)) {
			return "Date of birth cannot be more than 120 years ago"
		}
		return ""
	})
	check(in.Contact, func(v string) string {
		if !contactPattern.MatchString(strings.TrimSpace(v)) {
			return "Contact number must be exactly 10 digits"
		}
		return ""
	})
	check(in.State, func(v string) string {
		if n := len(strings.TrimSpace(v)); n < 2 || n > 50 {
			return "State must be between 2 and 50 characters"
		}
		return ""
	})
	check(in.Country, func(v string) string {
		if n := len(strings.TrimSpace(v)); n < 2 || n > 50 {
			return "Country must be between 2 and 50 characters"
		}
		return ""
	})

	return errs
}

// Apply merges the input's non-empty, already-validated fields onto the
// record: values are trimmed, the email lowercased, and the date of birth
// parsed. Empty fields leave the record untouched.
func (in UserInput) Apply(user *domain.User) {
	if v := strings.TrimSpace(in.Name); v != "" {
		user.Name = v
	}
	if v := strings.TrimSpace(in.Email); v != "" {
		user.Email = strings.ToLower(v)
	}
	if v := strings.TrimSpace(in.DOB); v != "" {
		if dob, err := time.Parse(dobLayout, v); err == nil {
			user.DOB = dob
		}
	}
	if v := strings.TrimSpace(in.Contact); v != "" {
		user.Contact = v
	}
	if v := strings.TrimSpace(in.State); v != "" {
		user.State = v
	}
	if v := strings.TrimSpace(in.Country); v != "" {
		user.Country = v
	}
}
