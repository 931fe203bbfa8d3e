package store

import (
	"database/sql"
	"errors"
	"time"
)

const QueryTimeoutDuration = time.Second * 5

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateEmail = errors.New("a user with that email address already exists")
	ErrDuplicateName  = errors.New("a template with that name already exists")
)

type Storage struct {
	Users          UserStorage
	EmailTemplates EmailTemplateStorage
	Licenses       LicenseStorage
	Invoices       InvoiceStorage
}

func NewStorage(db *sql.DB) *Storage {
	return &Storage{
		Users:          NewUserModel(db),
		EmailTemplates: NewEmailTemplateModel(db),
		Licenses:       NewLicenseModel(db),
		Invoices:       NewInvoiceModel(db),
	}
}
