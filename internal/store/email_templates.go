package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"licensehub/internal/db"

	"github.com/lib/pq"
)

// EmailTemplate is an admin-authored subject/body pattern stored in the
// database. Placeholders use the {{name}} token syntax and are filled in
// by the email service at send time.
type EmailTemplate struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Category  string    `json:"category"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type EmailTemplateStorage interface {
	GetByName(ctx context.Context, name string) (*EmailTemplate, error)
	GetByType(ctx context.Context, tmplType, category string) ([]*EmailTemplate, error)
	Upsert(ctx context.Context, template *EmailTemplate) error
}

type EmailTemplateModel struct {
	db *sql.DB
}

func NewEmailTemplateModel(db *sql.DB) *EmailTemplateModel {
	return &EmailTemplateModel{db}
}

func (m *EmailTemplateModel) GetByName(ctx context.Context, name string) (*EmailTemplate, error) {
	query := `
		SELECT id, name, type, category, subject, body, is_active, created_at, updated_at
		FROM email_templates
		WHERE name = $1 AND is_active = TRUE
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	template := &EmailTemplate{}
	err := m.db.QueryRowContext(ctx, query, name).Scan(
		&template.ID,
		&template.Name,
		&template.Type,
		&template.Category,
		&template.Subject,
		&template.Body,
		&template.IsActive,
		&template.CreatedAt,
		&template.UpdatedAt,
	)

	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return template, nil
}

func (m *EmailTemplateModel) GetByType(ctx context.Context, tmplType, category string) ([]*EmailTemplate, error) {
	query := `
		SELECT id, name, type, category, subject, body, is_active, created_at, updated_at
		FROM email_templates
		WHERE type = $1
		  AND is_active = TRUE
		  AND ($2 = '' OR category = $2)
		ORDER BY name
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := m.db.QueryContext(ctx, query, tmplType, category)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*EmailTemplate

	for rows.Next() {
		template := &EmailTemplate{}
		err := rows.Scan(
			&template.ID,
			&template.Name,
			&template.Type,
			&template.Category,
			&template.Subject,
			&template.Body,
			&template.IsActive,
			&template.CreatedAt,
			&template.UpdatedAt,
		)

		if err != nil {
			return nil, err
		}

		templates = append(templates, template)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return templates, nil
}

func (m *EmailTemplateModel) Upsert(ctx context.Context, template *EmailTemplate) error {
	query := `
		INSERT INTO email_templates(id, name, type, category, subject, body, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (name) DO UPDATE
		SET type = EXCLUDED.type,
			category = EXCLUDED.category,
			subject = EXCLUDED.subject,
			body = EXCLUDED.body,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	if template.ID == "" {
		template.ID = db.GenerateULID()
	}

	args := []any{template.ID, template.Name, template.Type, template.Category,
		template.Subject, template.Body, template.IsActive}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&template.ID, &template.CreatedAt, &template.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateName
		}
		return err
	}

	return nil
}
