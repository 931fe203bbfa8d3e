package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleForm struct {
	Email        string `json:"email" validate:"required,email"`
	TemplateName string `json:"template_name" validate:"required,template_name"`
}

func TestStruct(t *testing.T) {
	v := New()

	t.Run("valid input returns nil", func(t *testing.T) {
		err := v.Struct(sampleForm{
			Email:        "alice@example.com",
			TemplateName: "user_welcome",
		})

		assert.Nil(t, err)
	})

	t.Run("errors are keyed by json tag with translated messages", func(t *testing.T) {
		err := v.Struct(sampleForm{
			Email:        "not-an-email",
			TemplateName: "",
		})

		require.NotNil(t, err)

		fieldErrors := err.FieldErrors()
		assert.Equal(t, "email must be a valid email address", fieldErrors["email"])
		assert.Equal(t, "template_name is a required field", fieldErrors["template_name"])
	})

	t.Run("template_name rejects traversal and bad charset", func(t *testing.T) {
		for _, name := range []string{"../secrets", "has space", "a..b"} {
			err := v.Struct(sampleForm{
				Email:        "alice@example.com",
				TemplateName: name,
			})

			require.NotNil(t, err, "name %q should fail validation", name)
			assert.Equal(t, "template_name must be a valid template name", err.FieldErrors()["template_name"])
		}
	})
}

func TestValidationErrorsAddFieldError(t *testing.T) {
	var ve ValidationErrors

	ve.AddFieldError("email", "first message")
	ve.AddFieldError("email", "second message")

	assert.Equal(t, FieldErrors{"email": "first message"}, ve.FieldErrors())
}
