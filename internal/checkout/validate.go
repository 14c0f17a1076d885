package checkout

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// MinAmount is the smallest accepted charge, in RWF.
const MinAmount = 100

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// Rwandan mobile numbers: 072/073/078/079 followed by seven digits.
	phoneRegex = regexp.MustCompile(`^07[2389]\d{7}$`)
)

// Form is the customer input for one checkout attempt.
type Form struct {
	Name   string
	Email  string
	Phone  string
	Amount float64
}

// FieldErrors maps a form field to its validation message. It implements
// error so a failed validation can travel up the call chain.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// ValidateForm runs the synchronous field checks. A non-empty result means
// the submission must not go any further; no network call is made for
// invalid input.
func ValidateForm(form Form) FieldErrors {
	errs := FieldErrors{}

	if len(strings.TrimSpace(form.Name)) < 2 {
		errs["name"] = "Please enter your full name (minimum 2 characters)"
	}
	if !emailRegex.MatchString(form.Email) {
		errs["email"] = "Please enter a valid email address"
	}
	if !phoneRegex.MatchString(form.Phone) {
		errs["phone"] = "Please enter a valid Rwandan phone number (078XXXXXXX or 079XXXXXXX)"
	}
	if form.Amount < MinAmount {
		errs["amount"] = fmt.Sprintf("Minimum amount is %d RWF", MinAmount)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
