package email

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const (
	maxTemplateNameLength = 100
	maxEmailLength        = 254
)

// Template types form a closed set: "user" templates address customers,
// "admin" templates address the configured admin contact.
const (
	TemplateTypeUser  = "user"
	TemplateTypeAdmin = "admin"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var templateNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// InvalidArgumentError reports a malformed caller-supplied value. It is
// the only error class the email service propagates; delivery failures
// are folded into boolean results instead.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalidArgument(field, reason string) *InvalidArgumentError {
	return &InvalidArgumentError{Field: field, Reason: reason}
}

// ValidateTemplateName gates template names against a restricted charset.
// The name is returned unchanged on success; this is a gate, not a
// normalizer.
func ValidateTemplateName(name string) (string, error) {
	if name == "" {
		return "", invalidArgument("template name", "cannot be empty")
	}

	if len(name) > maxTemplateNameLength {
		return "", invalidArgument("template name", fmt.Sprintf("exceeds %d characters", maxTemplateNameLength))
	}

	if strings.Contains(name, "..") || strings.ContainsAny(name, "/\\") {
		return "", invalidArgument("template name", "contains path traversal sequences")
	}

	if !templateNamePattern.MatchString(name) {
		return "", invalidArgument("template name", "contains invalid characters")
	}

	return name, nil
}

// ValidateEmail checks address syntax and returns the address trimmed of
// leading and trailing whitespace.
func ValidateEmail(email string) (string, error) {
	trimmed := strings.TrimSpace(email)

	if trimmed == "" {
		return "", invalidArgument("email", "cannot be empty")
	}

	if len(trimmed) > maxEmailLength {
		return "", invalidArgument("email", fmt.Sprintf("exceeds %d characters", maxEmailLength))
	}

	for _, r := range trimmed {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return "", invalidArgument("email", "contains whitespace or control characters")
		}
	}

	at := strings.LastIndex(trimmed, "@")
	if at <= 0 || at == len(trimmed)-1 {
		return "", invalidArgument("email", "must be in local-part@domain form")
	}

	if !strings.Contains(trimmed[at+1:], ".") {
		return "", invalidArgument("email", "domain must contain at least one dot")
	}

	if err := validate.Var(trimmed, "email"); err != nil {
		return "", invalidArgument("email", "malformed address")
	}

	return trimmed, nil
}

// ValidateTemplateType accepts only values from the closed template type
// set.
func ValidateTemplateType(tmplType string) (string, error) {
	switch tmplType {
	case TemplateTypeUser, TemplateTypeAdmin:
		return tmplType, nil
	}

	return "", invalidArgument("template type",
		fmt.Sprintf("allowed values: %s, %s", TemplateTypeUser, TemplateTypeAdmin))
}

// ValidateHTTPURL rejects anything that is not an absolute http(s) URL.
// Verification and reset links land in raw href attributes, so schemes
// like javascript: must never reach the renderer.
func ValidateHTTPURL(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)

	if trimmed == "" {
		return "", invalidArgument("url", "cannot be empty")
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", invalidArgument("url", "malformed URL")
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", invalidArgument("url", "scheme must be http or https")
	}

	if parsed.Host == "" {
		return "", invalidArgument("url", "missing host")
	}

	return trimmed, nil
}
