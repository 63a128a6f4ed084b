package username

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
)

var (
	sqliPatterns = []string{"' OR '1'='1", "' OR 1=1", "--", "; DROP TABLE"}
	specialChar  = regexp.MustCompile(`[^a-zA-Z0-9 ]`)
	alphanumeric = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
)

// Validator is the username field detector. It is stateless.
type Validator struct {
	scenario.Base
}

// New creates a Validator.
func New(clock scenario.Clock) *Validator {
	return &Validator{Base: scenario.NewBase(Definition(), clock)}
}

// Factory adapts New to scenario.Factory.
func Factory(clock scenario.Clock) scenario.Detector {
	return New(clock)
}

// Check classifies a candidate username. SQL injection short
// circuits; the remaining checks are independent.
func (v *Validator) Check(name string) scenario.Events {
	r := v.Recorder()

	if strings.TrimSpace(name) == "" {
		r.ErrorFor(Empty, "Username is empty.")
		return r.Events()
	}

	upper := strings.ToUpper(name)
	for _, p := range sqliPatterns {
		if strings.Contains(upper, strings.ToUpper(p)) {
			r.Success(SQLi, "Security Alert: SQL Injection pattern detected!")
			return r.Events()
		}
	}

	if strings.HasPrefix(name, " ") || strings.HasSuffix(name, " ") {
		r.Success(Spaces, "Edge case: Input has un-trimmed whitespace.")
	}

	length := utf8.RuneCountInString(name)
	if length < MinLength {
		r.Success(Short, "Validation: Username too short.")
	} else if length > MaxLength {
		r.Success(Long, "Validation: Username too long.")
	}

	if specialChar.MatchString(name) {
		r.Success(Special, "Validation: Contains special characters.")
	}

	reserved := strings.EqualFold(name, "admin")
	if reserved {
		r.Success(Admin, "Business Logic: Restricted username.")
	}

	if length >= MinLength && length <= MaxLength &&
		alphanumeric.MatchString(strings.TrimSpace(name)) && !reserved {
		r.Info("Username appears valid.")
	}
	return r.Events()
}

// Handle dispatches "check" (input "username").
func (v *Validator) Handle(a scenario.Action) scenario.Events {
	if a.Name != "check" {
		return v.Unknown(a)
	}
	return v.Check(a.Get("username"))
}
