package email

import (
	"context"
	"errors"
	"time"

	"licensehub/internal/mailer"
	"licensehub/internal/store"

	"go.uber.org/zap"
)

// AdminContact is the recipient for admin-facing notifications. It is
// injected at construction so tests can substitute fixtures without
// touching process-wide state.
type AdminContact struct {
	Email string
	Name  string
}

// Service is the single orchestration point all sends pass through. It
// holds no mutable state of its own and is safe for concurrent use.
type Service struct {
	templates store.EmailTemplateStorage
	transport mailer.Client
	admin     AdminContact
	siteName  string
	siteURL   string
	logger    *zap.SugaredLogger
}

func NewService(templates store.EmailTemplateStorage, transport mailer.Client,
	admin AdminContact, siteName, siteURL string, logger *zap.SugaredLogger) *Service {
	return &Service{
		templates: templates,
		transport: transport,
		admin:     admin,
		siteName:  siteName,
		siteURL:   siteURL,
		logger:    logger,
	}
}

// SendEmail renders the named template with the given data and hands the
// result to the transport. It returns true only if the transport accepted
// the message. Validation failures come back as an InvalidArgumentError;
// a missing template or a transport failure is logged and reported as a
// plain false, since notification delivery must never fail the business
// operation it is attached to.
func (s *Service) SendEmail(ctx context.Context, templateName, recipientEmail string,
	data Data, recipientName string) (bool, error) {
	templateName, err := ValidateTemplateName(templateName)
	if err != nil {
		return false, err
	}

	recipientEmail, err = ValidateEmail(recipientEmail)
	if err != nil {
		return false, err
	}

	recipientName = sanitizeString(recipientName)
	data = SanitizeData(data)

	template, err := s.templates.GetByName(ctx, templateName)

	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			s.logger.Errorw("email template not found", "template", templateName)
		} else {
			s.logger.Errorw("failed to load email template", "template", templateName, "error", err)
		}
		return false, nil
	}

	renderData := s.baseContext(recipientEmail, recipientName)

	for key, value := range data {
		renderData[key] = value
	}

	msg := &mailer.Message{
		ToEmail:  recipientEmail,
		ToName:   recipientName,
		Subject:  renderPattern(template.Subject, renderData),
		HTMLBody: renderPattern(template.Body, renderData),
	}

	if err := s.transport.Send(ctx, msg); err != nil {
		s.logger.Errorw("failed to send email",
			"template", templateName,
			"recipient", recipientEmail,
			"error", err,
		)
		return false, nil
	}

	return true, nil
}

// SendToUser resolves the recipient from the user record and merges the
// user's public fields into the render data. Caller-supplied keys win on
// conflict.
func (s *Service) SendToUser(ctx context.Context, user *store.User, templateName string, data Data) (bool, error) {
	if user == nil || user.Email == "" {
		s.logger.Errorw("invalid user provided for email sending", "template", templateName)
		return false, nil
	}

	merged := Data{
		"user_name":      user.DisplayName(),
		"user_firstname": user.FirstName,
		"user_lastname":  user.LastName,
		"user_id":        user.ID,
	}

	for key, value := range data {
		merged[key] = value
	}

	return s.SendEmail(ctx, templateName, user.Email, merged, user.DisplayName())
}

// SendToAdmin sends to the injected admin contact.
func (s *Service) SendToAdmin(ctx context.Context, templateName string, data Data) (bool, error) {
	if s.admin.Email == "" {
		s.logger.Errorw("admin email not configured for email sending", "template", templateName)
		return false, nil
	}

	adminName := s.admin.Name

	if adminName == "" {
		adminName = "Administrator"
	}

	merged := Data{
		"admin_name": adminName,
		"site_name":  s.siteName,
	}

	for key, value := range data {
		merged[key] = value
	}

	return s.SendEmail(ctx, templateName, s.admin.Email, merged, adminName)
}

// SendBulkEmail attempts delivery to every user independently; one
// recipient failing never short-circuits the rest. The result map is
// keyed by the user's email (falling back to ID for records without
// one) and always has exactly one entry per requested user.
func (s *Service) SendBulkEmail(ctx context.Context, users []*store.User, templateName string, data Data) map[string]bool {
	results := make(map[string]bool, len(users))

	for _, user := range users {
		key := user.Email

		if key == "" {
			key = user.ID
		}

		sent, err := s.SendToUser(ctx, user, templateName, data)

		if err != nil {
			s.logger.Errorw("failed to send bulk email",
				"template", templateName,
				"recipient", key,
				"error", err,
			)
			sent = false
		}

		results[key] = sent
	}

	return results
}

// GetTemplates is a read-only passthrough query to the template store.
func (s *Service) GetTemplates(ctx context.Context, tmplType, category string) ([]*store.EmailTemplate, error) {
	tmplType, err := ValidateTemplateType(tmplType)
	if err != nil {
		return nil, err
	}

	return s.templates.GetByType(ctx, tmplType, sanitizeString(category))
}

// TestTemplate renders without sending, reporting which placeholders in
// the template had no corresponding data key. Used by the admin preview
// to verify a template before it goes live.
func (s *Service) TestTemplate(ctx context.Context, templateName string, data Data) (*RenderPreview, error) {
	templateName, err := ValidateTemplateName(templateName)
	if err != nil {
		return nil, err
	}

	data = SanitizeData(data)

	template, err := s.templates.GetByName(ctx, templateName)
	if err != nil {
		return nil, err
	}

	renderData := s.baseContext("", "")

	for key, value := range data {
		renderData[key] = value
	}

	missing := missingPlaceholders(template.Subject, renderData)

	for _, key := range missingPlaceholders(template.Body, renderData) {
		found := false
		for _, existing := range missing {
			if existing == key {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, key)
		}
	}

	return &RenderPreview{
		Subject:             renderPattern(template.Subject, renderData),
		Body:                renderPattern(template.Body, renderData),
		MissingPlaceholders: missing,
	}, nil
}

func (s *Service) baseContext(recipientEmail, recipientName string) Data {
	if recipientName == "" {
		recipientName = "User"
	}

	return Data{
		"recipient_email": recipientEmail,
		"recipient_name":  recipientName,
		"site_name":       s.siteName,
		"site_url":        s.siteURL,
		"current_year":    time.Now().Year(),
	}
}
