package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderPattern(t *testing.T) {
	t.Run("substitutes placeholders", func(t *testing.T) {
		got := renderPattern("Hello {{name}}, welcome to {{site_name}}!", Data{
			"name":      "Alice",
			"site_name": "LicenseHub",
		})

		assert.Equal(t, "Hello Alice, welcome to LicenseHub!", got)
	})

	t.Run("tolerates whitespace inside braces", func(t *testing.T) {
		got := renderPattern("Hi {{ name }}", Data{"name": "Bob"})

		assert.Equal(t, "Hi Bob", got)
	})

	t.Run("missing placeholders render empty", func(t *testing.T) {
		got := renderPattern("Hello {{name}}, your code is {{code}}.", Data{"name": "Alice"})

		assert.Equal(t, "Hello Alice, your code is .", got)
	})

	t.Run("repeated placeholders all substitute", func(t *testing.T) {
		got := renderPattern("{{x}} and {{x}}", Data{"x": "y"})

		assert.Equal(t, "y and y", got)
	})

	t.Run("non-string values format sensibly", func(t *testing.T) {
		got := renderPattern("{{count}} items, {{price}} total, active={{active}}, note={{note}}", Data{
			"count":  3,
			"price":  19.5,
			"active": true,
			"note":   nil,
		})

		assert.Equal(t, "3 items, 19.5 total, active=true, note=", got)
	})

	t.Run("text without placeholders passes through", func(t *testing.T) {
		got := renderPattern("plain text, no tokens", nil)

		assert.Equal(t, "plain text, no tokens", got)
	})
}

func TestMissingPlaceholders(t *testing.T) {
	t.Run("reports missing keys deduplicated in first-appearance order", func(t *testing.T) {
		got := missingPlaceholders("{{a}} {{b}} {{a}} {{c}} {{b}}", Data{"b": "present"})

		assert.Equal(t, []string{"a", "c"}, got)
	})

	t.Run("fully satisfied pattern has no missing keys", func(t *testing.T) {
		got := missingPlaceholders("Hello {{name}}", Data{"name": "Alice"})

		assert.Empty(t, got)
	})

	t.Run("nil valued keys count as present", func(t *testing.T) {
		got := missingPlaceholders("{{gone}}", Data{"gone": nil})

		assert.Empty(t, got)
	})
}
