package email

import (
	"html"
	"strings"
)

// Data carries the placeholder values for a single render. Values are a
// closed set of kinds: string, number, bool, nil, nested Data (or plain
// map[string]any) and slices of those. It is built fresh per send and
// never retained.
type Data map[string]any

// SanitizeString HTML-escapes the five XSS-significant characters and
// trims surrounding whitespace. A nil input passes through as nil, not
// as an empty string.
func SanitizeString(input *string) *string {
	if input == nil {
		return nil
	}

	escaped := html.EscapeString(strings.TrimSpace(*input))
	return &escaped
}

func sanitizeString(input string) string {
	return html.EscapeString(strings.TrimSpace(input))
}

// SanitizeData walks the structure and escapes every string leaf.
// Non-string leaves pass through unchanged. Keys are trusted (they come
// from call sites, not end users) and are preserved as-is.
func SanitizeData(data Data) Data {
	if data == nil {
		return nil
	}

	sanitized := make(Data, len(data))

	for key, value := range data {
		sanitized[key] = sanitizeValue(value)
	}

	return sanitized
}

func sanitizeValue(value any) any {
	switch v := value.(type) {
	case string:
		return sanitizeString(v)
	case Data:
		return SanitizeData(v)
	case map[string]any:
		return SanitizeData(Data(v))
	case []any:
		sanitized := make([]any, len(v))
		for i, item := range v {
			sanitized[i] = sanitizeValue(item)
		}
		return sanitized
	default:
		return v
	}
}
