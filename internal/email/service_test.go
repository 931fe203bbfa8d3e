package email

import (
	"context"
	"errors"
	"testing"

	"licensehub/internal/mailer"
	"licensehub/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTemplateStore struct {
	templates map[string]*store.EmailTemplate
}

func (f *fakeTemplateStore) GetByName(ctx context.Context, name string) (*store.EmailTemplate, error) {
	template, ok := f.templates[name]

	if !ok {
		return nil, store.ErrRecordNotFound
	}

	return template, nil
}

func (f *fakeTemplateStore) GetByType(ctx context.Context, tmplType, category string) ([]*store.EmailTemplate, error) {
	var matches []*store.EmailTemplate

	for _, template := range f.templates {
		if template.Type != tmplType {
			continue
		}
		if category != "" && template.Category != category {
			continue
		}
		matches = append(matches, template)
	}

	return matches, nil
}

func (f *fakeTemplateStore) Upsert(ctx context.Context, template *store.EmailTemplate) error {
	f.templates[template.Name] = template
	return nil
}

type fakeTransport struct {
	sent    []*mailer.Message
	failFor map[string]error
	sendErr error
}

func (f *fakeTransport) Send(ctx context.Context, msg *mailer.Message) error {
	if f.sendErr != nil {
		return f.sendErr
	}

	if err, ok := f.failFor[msg.ToEmail]; ok {
		return err
	}

	f.sent = append(f.sent, msg)
	return nil
}

func newTestService(t *testing.T, transport *fakeTransport) (*Service, *fakeTemplateStore) {
	t.Helper()

	templates := &fakeTemplateStore{templates: map[string]*store.EmailTemplate{
		"greeting": {
			Name:    "greeting",
			Type:    TemplateTypeUser,
			Subject: "Hello {{recipient_name}}",
			Body:    "Welcome to {{site_name}}, {{recipient_name}}! Visit {{site_url}}.",
		},
		TemplateUserWelcome: {
			Name:    TemplateUserWelcome,
			Type:    TemplateTypeUser,
			Subject: "Welcome {{user_name}}",
			Body:    "Glad to have you, {{user_name}}. Registered {{registration_date}}.",
		},
		TemplateAdminNewUser: {
			Name:    TemplateAdminNewUser,
			Type:    TemplateTypeAdmin,
			Subject: "New registration on {{site_name}}",
			Body:    "Hello {{admin_name}}: {{user_name}} ({{user_email}}) just signed up.",
		},
	}}

	service := NewService(
		templates,
		transport,
		AdminContact{Email: "admin@example.com", Name: "Ops"},
		"LicenseHub",
		"https://licensehub.dev",
		zap.NewNop().Sugar(),
	)

	return service, templates
}

func testUser(id, email, firstName string) *store.User {
	return &store.User{ID: id, Email: email, FirstName: firstName, LastName: "Tester"}
}

func TestSendEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("renders and sends through the transport", func(t *testing.T) {
		transport := &fakeTransport{}
		service, _ := newTestService(t, transport)

		sent, err := service.SendEmail(ctx, "greeting", "alice@example.com", nil, "Alice")

		require.NoError(t, err)
		assert.True(t, sent)
		require.Len(t, transport.sent, 1)

		msg := transport.sent[0]
		assert.Equal(t, "alice@example.com", msg.ToEmail)
		assert.Equal(t, "Hello Alice", msg.Subject)
		assert.Equal(t, "Welcome to LicenseHub, Alice! Visit https://licensehub.dev.", msg.HTMLBody)
	})

	t.Run("invalid email propagates as InvalidArgumentError", func(t *testing.T) {
		transport := &fakeTransport{}
		service, _ := newTestService(t, transport)

		sent, err := service.SendEmail(ctx, "greeting", "not-an-email", nil, "Alice")

		assert.False(t, sent)

		var invalidArg *InvalidArgumentError
		require.ErrorAs(t, err, &invalidArg)
		assert.Empty(t, transport.sent)
	})

	t.Run("invalid template name propagates as InvalidArgumentError", func(t *testing.T) {
		transport := &fakeTransport{}
		service, _ := newTestService(t, transport)

		sent, err := service.SendEmail(ctx, "../../etc/passwd", "alice@example.com", nil, "Alice")

		assert.False(t, sent)

		var invalidArg *InvalidArgumentError
		require.ErrorAs(t, err, &invalidArg)
	})

	t.Run("unknown template is false without error", func(t *testing.T) {
		transport := &fakeTransport{}
		service, _ := newTestService(t, transport)

		sent, err := service.SendEmail(ctx, "no_such_template", "alice@example.com", nil, "Alice")

		require.NoError(t, err)
		assert.False(t, sent)
		assert.Empty(t, transport.sent)
	})

	t.Run("transport failure is false without error", func(t *testing.T) {
		transport := &fakeTransport{sendErr: errors.New("smtp connection refused")}
		service, _ := newTestService(t, transport)

		sent, err := service.SendEmail(ctx, "greeting", "alice@example.com", nil, "Alice")

		require.NoError(t, err)
		assert.False(t, sent)
	})

	t.Run("caller data is escaped before rendering", func(t *testing.T) {
		transport := &fakeTransport{}
		service, templates := newTestService(t, transport)

		templates.templates["note"] = &store.EmailTemplate{
			Name:    "note",
			Type:    TemplateTypeUser,
			Subject: "Note",
			Body:    "Message: {{message}}",
		}

		sent, err := service.SendEmail(ctx, "note", "alice@example.com",
			Data{"message": "<script>alert(1)</script>"}, "Alice")

		require.NoError(t, err)
		assert.True(t, sent)
		require.Len(t, transport.sent, 1)
		assert.Equal(t, "Message: &lt;script&gt;alert(1)&lt;/script&gt;", transport.sent[0].HTMLBody)
	})

	t.Run("caller data overrides the base context", func(t *testing.T) {
		transport := &fakeTransport{}
		service, _ := newTestService(t, transport)

		sent, err := service.SendEmail(ctx, "greeting", "alice@example.com",
			Data{"site_name": "Acme"}, "Alice")

		require.NoError(t, err)
		assert.True(t, sent)
		require.Len(t, transport.sent, 1)
		assert.Contains(t, transport.sent[0].HTMLBody, "Welcome to Acme, Alice!")
	})
}

func TestSendToUser(t *testing.T) {
	ctx := context.Background()

	t.Run("merges user fields into the render data", func(t *testing.T) {
		transport := &fakeTransport{}
		service, _ := newTestService(t, transport)

		user := testUser("01ARZ3NDEKTSV4RRFFQ69G5FAV", "bob@example.com", "Bob")

		sent, err := service.SendToUser(ctx, user, TemplateUserWelcome, nil)

		require.NoError(t, err)
		assert.True(t, sent)
		require.Len(t, transport.sent, 1)
		assert.Equal(t, "Welcome Bob Tester", transport.sent[0].Subject)
		assert.Equal(t, "Bob Tester", transport.sent[0].ToName)
	})

	t.Run("caller data wins over derived user fields", func(t *testing.T) {
		transport := &fakeTransport{}
		service, _ := newTestService(t, transport)

		user := testUser("01ARZ3NDEKTSV4RRFFQ69G5FAV", "bob@example.com", "Bob")

		sent, err := service.SendToUser(ctx, user, TemplateUserWelcome, Data{"user_name": "Override"})

		require.NoError(t, err)
		assert.True(t, sent)
		require.Len(t, transport.sent, 1)
		assert.Equal(t, "Welcome Override", transport.sent[0].Subject)
	})

	t.Run("nil user is false without error", func(t *testing.T) {
		transport := &fakeTransport{}
		service, _ := newTestService(t, transport)

		sent, err := service.SendToUser(ctx, nil, TemplateUserWelcome, nil)

		require.NoError(t, err)
		assert.False(t, sent)
		assert.Empty(t, transport.sent)
	})

	t.Run("user without email is false without error", func(t *testing.T) {
		transport := &fakeTransport{}
		service, _ := newTestService(t, transport)

		sent, err := service.SendToUser(ctx, testUser("id", "", "Bob"), TemplateUserWelcome, nil)

		require.NoError(t, err)
		assert.False(t, sent)
	})
}

func TestSendToAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("sends to the configured admin contact", func(t *testing.T) {
		transport := &fakeTransport{}
		service, _ := newTestService(t, transport)

		sent, err := service.SendToAdmin(ctx, TemplateAdminNewUser, Data{
			"user_name":  "Bob Tester",
			"user_email": "bob@example.com",
		})

		require.NoError(t, err)
		assert.True(t, sent)
		require.Len(t, transport.sent, 1)
		assert.Equal(t, "admin@example.com", transport.sent[0].ToEmail)
		assert.Contains(t, transport.sent[0].HTMLBody, "Hello Ops")
	})

	t.Run("missing admin email is false without error", func(t *testing.T) {
		transport := &fakeTransport{}
		templates := &fakeTemplateStore{templates: map[string]*store.EmailTemplate{}}

		service := NewService(templates, transport, AdminContact{}, "LicenseHub",
			"https://licensehub.dev", zap.NewNop().Sugar())

		sent, err := service.SendToAdmin(ctx, TemplateAdminNewUser, nil)

		require.NoError(t, err)
		assert.False(t, sent)
		assert.Empty(t, transport.sent)
	})
}

func TestSendBulkEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("one failing recipient does not stop the rest", func(t *testing.T) {
		transport := &fakeTransport{failFor: map[string]error{
			"second@example.com": errors.New("mailbox unavailable"),
		}}
		service, _ := newTestService(t, transport)

		users := []*store.User{
			testUser("u1", "first@example.com", "First"),
			testUser("u2", "second@example.com", "Second"),
			testUser("u3", "third@example.com", "Third"),
		}

		results := service.SendBulkEmail(ctx, users, TemplateUserWelcome, nil)

		require.Len(t, results, 3)
		assert.True(t, results["first@example.com"])
		assert.False(t, results["second@example.com"])
		assert.True(t, results["third@example.com"])
		assert.Len(t, transport.sent, 2)
	})

	t.Run("users without an email key by ID", func(t *testing.T) {
		transport := &fakeTransport{}
		service, _ := newTestService(t, transport)

		users := []*store.User{testUser("u9", "", "Ghost")}

		results := service.SendBulkEmail(ctx, users, TemplateUserWelcome, nil)

		require.Len(t, results, 1)
		assert.False(t, results["u9"])
	})

	t.Run("empty user list yields an empty result map", func(t *testing.T) {
		transport := &fakeTransport{}
		service, _ := newTestService(t, transport)

		results := service.SendBulkEmail(ctx, nil, TemplateUserWelcome, nil)

		assert.Empty(t, results)
	})
}

func TestGetTemplates(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects unknown types before hitting the store", func(t *testing.T) {
		service, _ := newTestService(t, &fakeTransport{})

		_, err := service.GetTemplates(ctx, "marketing", "")

		var invalidArg *InvalidArgumentError
		require.ErrorAs(t, err, &invalidArg)
	})

	t.Run("filters by type", func(t *testing.T) {
		service, _ := newTestService(t, &fakeTransport{})

		templates, err := service.GetTemplates(ctx, TemplateTypeAdmin, "")

		require.NoError(t, err)
		require.Len(t, templates, 1)
		assert.Equal(t, TemplateAdminNewUser, templates[0].Name)
	})
}

func TestTestTemplate(t *testing.T) {
	ctx := context.Background()

	t.Run("renders without sending", func(t *testing.T) {
		transport := &fakeTransport{}
		service, _ := newTestService(t, transport)

		preview, err := service.TestTemplate(ctx, "greeting", Data{"recipient_name": "Preview"})

		require.NoError(t, err)
		assert.Equal(t, "Hello Preview", preview.Subject)
		assert.Empty(t, preview.MissingPlaceholders)
		assert.Empty(t, transport.sent)
	})

	t.Run("reports missing placeholders", func(t *testing.T) {
		service, templates := newTestService(t, &fakeTransport{})

		templates.templates["partial"] = &store.EmailTemplate{
			Name:    "partial",
			Type:    TemplateTypeUser,
			Subject: "Your code {{code}}",
			Body:    "Use {{code}} before {{deadline}}.",
		}

		preview, err := service.TestTemplate(ctx, "partial", nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"code", "deadline"}, preview.MissingPlaceholders)
		assert.Equal(t, "Your code ", preview.Subject)
	})

	t.Run("unknown template is an error", func(t *testing.T) {
		service, _ := newTestService(t, &fakeTransport{})

		_, err := service.TestTemplate(ctx, "no_such_template", nil)

		require.ErrorIs(t, err, store.ErrRecordNotFound)
	})
}

func TestSendEmailVerification(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects non-http schemes", func(t *testing.T) {
		transport := &fakeTransport{}
		service, _ := newTestService(t, transport)

		user := testUser("u1", "bob@example.com", "Bob")

		sent, err := service.SendEmailVerification(ctx, user, "javascript:alert(1)")

		assert.False(t, sent)

		var invalidArg *InvalidArgumentError
		require.ErrorAs(t, err, &invalidArg)
		assert.Empty(t, transport.sent)
	})

	t.Run("sends with a valid link", func(t *testing.T) {
		transport := &fakeTransport{}
		service, templates := newTestService(t, transport)

		templates.templates[TemplateUserEmailVerification] = &store.EmailTemplate{
			Name:    TemplateUserEmailVerification,
			Type:    TemplateTypeUser,
			Subject: "Verify your email",
			Body:    `<a href="{{verification_url}}">Verify</a>`,
		}

		user := testUser("u1", "bob@example.com", "Bob")

		sent, err := service.SendEmailVerification(ctx, user, "https://licensehub.dev/verify/abc123")

		require.NoError(t, err)
		assert.True(t, sent)
		require.Len(t, transport.sent, 1)
		assert.Contains(t, transport.sent[0].HTMLBody, "https://licensehub.dev/verify/abc123")
	})
}
