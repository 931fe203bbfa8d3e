package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"licensehub/internal/db"
)

const (
	InvoiceStatusPending   = "pending"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"
)

// Invoice amounts are stored in the currency's minor unit (cents).
type Invoice struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	LicenseID     string     `json:"license_id"`
	InvoiceNumber string     `json:"invoice_number"`
	Amount        int64      `json:"amount"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	Gateway       string     `json:"gateway"`
	TransactionID string     `json:"transaction_id"`
	DueDate       *time.Time `json:"due_date"`
	PaidAt        *time.Time `json:"paid_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type InvoiceStorage interface {
	Create(ctx context.Context, invoice *Invoice) error
	GetByID(ctx context.Context, invoiceID string) (*Invoice, error)
	GetPendingByLicenseID(ctx context.Context, licenseID string) (*Invoice, error)
	MarkPaid(ctx context.Context, invoiceID, gateway, transactionID string) (*Invoice, error)
}

type InvoiceModel struct {
	db *sql.DB
}

func NewInvoiceModel(db *sql.DB) *InvoiceModel {
	return &InvoiceModel{db}
}

func (m *InvoiceModel) Create(ctx context.Context, invoice *Invoice) error {
	query := `
		INSERT INTO invoices(id, user_id, license_id, invoice_number, amount,
							 currency, status, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	invoice.ID = db.GenerateULID()

	if invoice.Status == "" {
		invoice.Status = InvoiceStatusPending
	}

	args := []any{invoice.ID, invoice.UserID, invoice.LicenseID, invoice.InvoiceNumber,
		invoice.Amount, invoice.Currency, invoice.Status, invoice.DueDate}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return m.db.QueryRowContext(ctx, query, args...).Scan(&invoice.CreatedAt, &invoice.UpdatedAt)
}

func (m *InvoiceModel) GetByID(ctx context.Context, invoiceID string) (*Invoice, error) {
	query := `
		SELECT id, user_id, license_id, invoice_number, amount, currency, status,
			   gateway, transaction_id, due_date, paid_at, created_at, updated_at
		FROM invoices
		WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	invoice := &Invoice{}
	err := m.db.QueryRowContext(ctx, query, invoiceID).Scan(
		&invoice.ID,
		&invoice.UserID,
		&invoice.LicenseID,
		&invoice.InvoiceNumber,
		&invoice.Amount,
		&invoice.Currency,
		&invoice.Status,
		&invoice.Gateway,
		&invoice.TransactionID,
		&invoice.DueDate,
		&invoice.PaidAt,
		&invoice.CreatedAt,
		&invoice.UpdatedAt,
	)

	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return invoice, nil
}

// GetPendingByLicenseID returns the open renewal invoice for a license,
// if one has been raised.
func (m *InvoiceModel) GetPendingByLicenseID(ctx context.Context, licenseID string) (*Invoice, error) {
	query := `
		SELECT id, user_id, license_id, invoice_number, amount, currency, status,
			   gateway, transaction_id, due_date, paid_at, created_at, updated_at
		FROM invoices
		WHERE license_id = $1 AND status = $2
		ORDER BY due_date NULLS LAST
		LIMIT 1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	invoice := &Invoice{}
	err := m.db.QueryRowContext(ctx, query, licenseID, InvoiceStatusPending).Scan(
		&invoice.ID,
		&invoice.UserID,
		&invoice.LicenseID,
		&invoice.InvoiceNumber,
		&invoice.Amount,
		&invoice.Currency,
		&invoice.Status,
		&invoice.Gateway,
		&invoice.TransactionID,
		&invoice.DueDate,
		&invoice.PaidAt,
		&invoice.CreatedAt,
		&invoice.UpdatedAt,
	)

	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return invoice, nil
}

func (m *InvoiceModel) MarkPaid(ctx context.Context, invoiceID, gateway, transactionID string) (*Invoice, error) {
	query := `
		UPDATE invoices
		SET status = $2, gateway = $3, transaction_id = $4, paid_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = $5
		RETURNING id, user_id, license_id, invoice_number, amount, currency, status,
				  gateway, transaction_id, due_date, paid_at, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	invoice := &Invoice{}
	err := m.db.QueryRowContext(ctx, query, invoiceID, InvoiceStatusPaid,
		gateway, transactionID, InvoiceStatusPending).Scan(
		&invoice.ID,
		&invoice.UserID,
		&invoice.LicenseID,
		&invoice.InvoiceNumber,
		&invoice.Amount,
		&invoice.Currency,
		&invoice.Status,
		&invoice.Gateway,
		&invoice.TransactionID,
		&invoice.DueDate,
		&invoice.PaidAt,
		&invoice.CreatedAt,
		&invoice.UpdatedAt,
	)

	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return invoice, nil
}
