package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTemplateName(t *testing.T) {
	t.Run("accepts names in the allowed charset", func(t *testing.T) {
		for _, name := range []string{"user_welcome", "admin.payment-v2", "Reminder_01"} {
			got, err := ValidateTemplateName(name)
			require.NoError(t, err)
			assert.Equal(t, name, got)
		}
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := ValidateTemplateName("")
		require.Error(t, err)

		var invalidArg *InvalidArgumentError
		require.ErrorAs(t, err, &invalidArg)
		assert.Equal(t, "template name", invalidArg.Field)
	})

	t.Run("rejects names over the length cap", func(t *testing.T) {
		_, err := ValidateTemplateName(strings.Repeat("a", 101))
		assert.Error(t, err)

		_, err = ValidateTemplateName(strings.Repeat("a", 100))
		assert.NoError(t, err)
	})

	t.Run("rejects path traversal sequences", func(t *testing.T) {
		for _, name := range []string{"../etc/passwd", "a..b", "foo/bar", `foo\bar`} {
			_, err := ValidateTemplateName(name)
			assert.Error(t, err, "name %q should be rejected", name)
		}
	})

	t.Run("rejects characters outside the charset", func(t *testing.T) {
		for _, name := range []string{"user welcome", "tmpl!", "name{{x}}", "café"} {
			_, err := ValidateTemplateName(name)
			assert.Error(t, err, "name %q should be rejected", name)
		}
	})
}

func TestValidateEmail(t *testing.T) {
	t.Run("accepts well-formed addresses and trims whitespace", func(t *testing.T) {
		got, err := ValidateEmail("  alice@example.com  ")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", got)
	})

	t.Run("rejects malformed addresses", func(t *testing.T) {
		cases := []string{
			"",
			"   ",
			"no-at-sign",
			"@example.com",
			"alice@",
			"alice@localhost",
			"ali ce@example.com",
			"alice@exam ple.com",
			strings.Repeat("a", 250) + "@x.com",
		}

		for _, input := range cases {
			_, err := ValidateEmail(input)
			assert.Error(t, err, "address %q should be rejected", input)
		}
	})

	t.Run("rejects control characters", func(t *testing.T) {
		_, err := ValidateEmail("alice\x00@example.com")
		assert.Error(t, err)
	})
}

func TestValidateTemplateType(t *testing.T) {
	for _, tmplType := range []string{TemplateTypeUser, TemplateTypeAdmin} {
		got, err := ValidateTemplateType(tmplType)
		require.NoError(t, err)
		assert.Equal(t, tmplType, got)
	}

	for _, tmplType := range []string{"", "marketing", "USER", "Admin"} {
		_, err := ValidateTemplateType(tmplType)
		assert.Error(t, err, "type %q should be rejected", tmplType)
	}
}

func TestValidateHTTPURL(t *testing.T) {
	t.Run("accepts http and https", func(t *testing.T) {
		for _, rawURL := range []string{"https://example.com/verify/abc", "http://localhost:3000/reset"} {
			got, err := ValidateHTTPURL(rawURL)
			require.NoError(t, err)
			assert.Equal(t, rawURL, got)
		}
	})

	t.Run("rejects dangerous or malformed URLs", func(t *testing.T) {
		cases := []string{
			"",
			"javascript:alert(1)",
			"data:text/html,<script>alert(1)</script>",
			"ftp://example.com/file",
			"//example.com/protocol-relative",
			"https://",
		}

		for _, rawURL := range cases {
			_, err := ValidateHTTPURL(rawURL)
			assert.Error(t, err, "url %q should be rejected", rawURL)
		}
	})
}
