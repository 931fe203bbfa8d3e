package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeString(t *testing.T) {
	t.Run("escapes the XSS-significant characters", func(t *testing.T) {
		input := `<script>alert("x") & 'y'</script>`
		got := SanitizeString(&input)

		require.NotNil(t, got)
		assert.Equal(t, "&lt;script&gt;alert(&#34;x&#34;) &amp; &#39;y&#39;&lt;/script&gt;", *got)
	})

	t.Run("nil passes through as nil", func(t *testing.T) {
		assert.Nil(t, SanitizeString(nil))
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		input := "  hello  "
		got := SanitizeString(&input)

		require.NotNil(t, got)
		assert.Equal(t, "hello", *got)
	})

	t.Run("clean strings come back unchanged", func(t *testing.T) {
		input := "Alice Smith"
		got := SanitizeString(&input)

		require.NotNil(t, got)
		assert.Equal(t, "Alice Smith", *got)
	})
}

func TestSanitizeData(t *testing.T) {
	t.Run("escapes string leaves at every depth", func(t *testing.T) {
		data := Data{
			"name": "<b>Alice</b>",
			"nested": Data{
				"note": "a & b",
			},
			"plain_map": map[string]any{
				"quote": `"hi"`,
			},
			"list": []any{"<i>", Data{"deep": "'x'"}},
		}

		got := SanitizeData(data)

		assert.Equal(t, "&lt;b&gt;Alice&lt;/b&gt;", got["name"])
		assert.Equal(t, "a &amp; b", got["nested"].(Data)["note"])
		assert.Equal(t, "&#34;hi&#34;", got["plain_map"].(Data)["quote"])

		list := got["list"].([]any)
		assert.Equal(t, "&lt;i&gt;", list[0])
		assert.Equal(t, "&#39;x&#39;", list[1].(Data)["deep"])
	})

	t.Run("non-string leaves pass through unchanged", func(t *testing.T) {
		data := Data{
			"count":  42,
			"ratio":  1.5,
			"active": true,
			"gone":   nil,
		}

		got := SanitizeData(data)

		assert.Equal(t, 42, got["count"])
		assert.Equal(t, 1.5, got["ratio"])
		assert.Equal(t, true, got["active"])
		assert.Nil(t, got["gone"])
	})

	t.Run("nil data stays nil", func(t *testing.T) {
		assert.Nil(t, SanitizeData(nil))
	})

	t.Run("input map is not mutated", func(t *testing.T) {
		data := Data{"name": "<x>"}
		_ = SanitizeData(data)

		assert.Equal(t, "<x>", data["name"])
	})
}
