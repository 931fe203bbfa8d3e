package email

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Placeholder tokens use the {{name}} syntax, matching what template
// authors write in the admin UI. Surrounding whitespace inside the
// braces is tolerated.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// RenderPreview is the result of a dry-run render. MissingPlaceholders
// lists tokens present in the template that had no corresponding data
// key, so template authors can catch typos.
type RenderPreview struct {
	Subject             string   `json:"subject"`
	Body                string   `json:"body"`
	MissingPlaceholders []string `json:"missing_placeholders"`
}

// renderPattern substitutes every placeholder token with its data value.
// Missing placeholders render as an empty string; that is documented
// behavior, not an error.
func renderPattern(pattern string, data Data) string {
	return placeholderPattern.ReplaceAllStringFunc(pattern, func(token string) string {
		key := placeholderKey(token)

		value, ok := data[key]
		if !ok {
			return ""
		}

		return formatValue(value)
	})
}

// missingPlaceholders returns the tokens in the pattern with no data
// key, deduplicated, in order of first appearance.
func missingPlaceholders(pattern string, data Data) []string {
	var missing []string
	seen := make(map[string]struct{})

	for _, match := range placeholderPattern.FindAllString(pattern, -1) {
		key := placeholderKey(match)

		if _, ok := data[key]; ok {
			continue
		}

		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		missing = append(missing, key)
	}

	return missing
}

func placeholderKey(token string) string {
	return strings.TrimSpace(strings.Trim(token, "{}"))
}

func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
