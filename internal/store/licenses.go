package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"licensehub/internal/db"
)

// License represents a purchased product license. A nil LicenseExpiresAt
// means the license never expires.
type License struct {
	ID                   string     `json:"id"`
	UserID               string     `json:"user_id"`
	ProductName          string     `json:"product_name"`
	LicenseKey           string     `json:"license_key"`
	LicenseType          string     `json:"license_type"`
	MaxDomains           int        `json:"max_domains"`
	LicenseExpiresAt     *time.Time `json:"license_expires_at"`
	SupportExpiresAt     *time.Time `json:"support_expires_at"`
	ExpiryReminderSentAt *time.Time `json:"expiry_reminder_sent_at"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

type LicenseStorage interface {
	Create(ctx context.Context, license *License) error
	GetByID(ctx context.Context, licenseID string) (*License, error)
	GetExpiringWithin(ctx context.Context, window time.Duration) ([]*License, error)
	MarkExpiryReminderSent(ctx context.Context, licenseID string) error
}

type LicenseModel struct {
	db *sql.DB
}

func NewLicenseModel(db *sql.DB) *LicenseModel {
	return &LicenseModel{db}
}

func (m *LicenseModel) Create(ctx context.Context, license *License) error {
	query := `
		INSERT INTO licenses(id, user_id, product_name, license_key, license_type,
							 max_domains, license_expires_at, support_expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	license.ID = db.GenerateULID()
	args := []any{license.ID, license.UserID, license.ProductName, license.LicenseKey,
		license.LicenseType, license.MaxDomains, license.LicenseExpiresAt, license.SupportExpiresAt}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return m.db.QueryRowContext(ctx, query, args...).Scan(&license.CreatedAt, &license.UpdatedAt)
}

func (m *LicenseModel) GetByID(ctx context.Context, licenseID string) (*License, error) {
	query := `
		SELECT id, user_id, product_name, license_key, license_type, max_domains,
			   license_expires_at, support_expires_at, expiry_reminder_sent_at,
			   created_at, updated_at
		FROM licenses
		WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	license := &License{}
	err := m.db.QueryRowContext(ctx, query, licenseID).Scan(
		&license.ID,
		&license.UserID,
		&license.ProductName,
		&license.LicenseKey,
		&license.LicenseType,
		&license.MaxDomains,
		&license.LicenseExpiresAt,
		&license.SupportExpiresAt,
		&license.ExpiryReminderSentAt,
		&license.CreatedAt,
		&license.UpdatedAt,
	)

	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return license, nil
}

// GetExpiringWithin returns licenses whose expiry falls inside the window
// and that have not had a reminder sent since entering it.
func (m *LicenseModel) GetExpiringWithin(ctx context.Context, window time.Duration) ([]*License, error) {
	query := `
		SELECT id, user_id, product_name, license_key, license_type, max_domains,
			   license_expires_at, support_expires_at, expiry_reminder_sent_at,
			   created_at, updated_at
		FROM licenses
		WHERE license_expires_at IS NOT NULL
		  AND license_expires_at > NOW()
		  AND license_expires_at <= NOW() + $1::interval
		  AND (expiry_reminder_sent_at IS NULL
			   OR expiry_reminder_sent_at < license_expires_at - $1::interval)
		ORDER BY license_expires_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := m.db.QueryContext(ctx, query, window.String())

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var licenses []*License

	for rows.Next() {
		license := &License{}
		err := rows.Scan(
			&license.ID,
			&license.UserID,
			&license.ProductName,
			&license.LicenseKey,
			&license.LicenseType,
			&license.MaxDomains,
			&license.LicenseExpiresAt,
			&license.SupportExpiresAt,
			&license.ExpiryReminderSentAt,
			&license.CreatedAt,
			&license.UpdatedAt,
		)

		if err != nil {
			return nil, err
		}

		licenses = append(licenses, license)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return licenses, nil
}

func (m *LicenseModel) MarkExpiryReminderSent(ctx context.Context, licenseID string) error {
	query := `
		UPDATE licenses
		SET expiry_reminder_sent_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := m.db.ExecContext(ctx, query, licenseID)

	return err
}
