package email

import (
	"context"
	"fmt"
	"time"

	"licensehub/internal/store"
)

// Canonical template names, matching the rows installed by cmd/seed.
const (
	TemplateUserWelcome           = "user_welcome"
	TemplateUserEmailVerification = "user_email_verification"
	TemplateUserPasswordReset     = "user_password_reset"
	TemplateAdminNewUser          = "admin_new_user_registration"
	TemplatePaymentConfirmation   = "payment_confirmation"
	TemplateAdminPaymentLicense   = "admin_payment_license_created"
	TemplateUserLicenseExpiring   = "user_license_expiring"
	TemplateAdminLicenseExpiring  = "admin_license_expiring"
	TemplateUserRenewalReminder   = "user_renewal_reminder"
)

const (
	dateLayout     = "Jan 02, 2006"
	dateTimeLayout = "Jan 02, 2006 at 3:04 PM"
)

// SendUserWelcome sends the post-registration welcome email.
func (s *Service) SendUserWelcome(ctx context.Context, user *store.User) (bool, error) {
	if user == nil {
		s.logger.Errorw("invalid user provided for welcome email")
		return false, nil
	}

	return s.SendToUser(ctx, user, TemplateUserWelcome, Data{
		"registration_date": user.CreatedAt.Format(dateLayout),
	})
}

// SendEmailVerification sends the address-verification email. The URL is
// whitelisted to http(s) before interpolation since it lands in a raw
// href.
func (s *Service) SendEmailVerification(ctx context.Context, user *store.User, verificationURL string) (bool, error) {
	verificationURL, err := ValidateHTTPURL(verificationURL)
	if err != nil {
		return false, err
	}

	return s.SendToUser(ctx, user, TemplateUserEmailVerification, Data{
		"verification_url":     verificationURL,
		"verification_expires": time.Now().Add(24 * time.Hour).Format(dateTimeLayout),
	})
}

// SendPasswordReset sends the password-reset email. Same URL-scheme
// whitelist as verification.
func (s *Service) SendPasswordReset(ctx context.Context, user *store.User, resetURL string) (bool, error) {
	resetURL, err := ValidateHTTPURL(resetURL)
	if err != nil {
		return false, err
	}

	return s.SendToUser(ctx, user, TemplateUserPasswordReset, Data{
		"reset_url":     resetURL,
		"reset_expires": time.Now().Add(time.Hour).Format(dateTimeLayout),
	})
}

// SendNewUserNotification tells the admin contact about a new
// registration.
func (s *Service) SendNewUserNotification(ctx context.Context, user *store.User) (bool, error) {
	if user == nil {
		s.logger.Errorw("invalid user provided for new user notification")
		return false, nil
	}

	return s.SendToAdmin(ctx, TemplateAdminNewUser, Data{
		"user_name":         user.DisplayName(),
		"user_email":        user.Email,
		"user_firstname":    user.FirstName,
		"user_lastname":     user.LastName,
		"user_phone":        orDefault(user.PhoneNumber, "Not provided"),
		"user_country":      orDefault(user.Country, "Not provided"),
		"registration_date": user.CreatedAt.Format(dateTimeLayout),
	})
}

// SendPaymentConfirmation confirms a paid invoice and the license it
// covers.
func (s *Service) SendPaymentConfirmation(ctx context.Context, user *store.User,
	license *store.License, invoice *store.Invoice) (bool, error) {
	return s.SendToUser(ctx, user, TemplatePaymentConfirmation, Data{
		"product_name":       license.ProductName,
		"license_key":        license.LicenseKey,
		"license_type":       license.LicenseType,
		"license_expires_at": formatExpiry(license.LicenseExpiresAt),
		"invoice_number":     invoice.InvoiceNumber,
		"amount":             formatAmount(invoice.Amount),
		"currency":           invoice.Currency,
		"payment_method":     orDefault(invoice.Gateway, "Unknown"),
		"payment_date":       formatPaidAt(invoice.PaidAt),
	})
}

// SendAdminPaymentNotification is the admin counterpart of the payment
// confirmation.
func (s *Service) SendAdminPaymentNotification(ctx context.Context, user *store.User,
	license *store.License, invoice *store.Invoice) (bool, error) {
	return s.SendToAdmin(ctx, TemplateAdminPaymentLicense, Data{
		"customer_name":  user.DisplayName(),
		"customer_email": user.Email,
		"product_name":   license.ProductName,
		"license_key":    license.LicenseKey,
		"license_type":   license.LicenseType,
		"max_domains":    license.MaxDomains,
		"invoice_number": invoice.InvoiceNumber,
		"amount":         formatAmount(invoice.Amount),
		"currency":       invoice.Currency,
		"payment_method": orDefault(invoice.Gateway, "Unknown"),
		"transaction_id": orDefault(invoice.TransactionID, "N/A"),
		"payment_date":   formatPaidAt(invoice.PaidAt),
	})
}

// SendLicenseExpiring warns a user their license is about to lapse.
func (s *Service) SendLicenseExpiring(ctx context.Context, user *store.User,
	license *store.License, daysRemaining int) (bool, error) {
	return s.SendToUser(ctx, user, TemplateUserLicenseExpiring, Data{
		"product_name":   license.ProductName,
		"license_key":    license.LicenseKey,
		"expires_at":     formatExpiry(license.LicenseExpiresAt),
		"days_remaining": daysRemaining,
	})
}

// SendAdminLicenseExpiring is the admin counterpart of the expiry
// warning.
func (s *Service) SendAdminLicenseExpiring(ctx context.Context, user *store.User,
	license *store.License, daysRemaining int) (bool, error) {
	return s.SendToAdmin(ctx, TemplateAdminLicenseExpiring, Data{
		"customer_name":  user.DisplayName(),
		"customer_email": user.Email,
		"product_name":   license.ProductName,
		"license_key":    license.LicenseKey,
		"expires_at":     formatExpiry(license.LicenseExpiresAt),
		"days_remaining": daysRemaining,
	})
}

// SendRenewalReminder points a user at the renewal invoice raised for an
// expiring license.
func (s *Service) SendRenewalReminder(ctx context.Context, user *store.User,
	license *store.License, invoice *store.Invoice) (bool, error) {
	return s.SendToUser(ctx, user, TemplateUserRenewalReminder, Data{
		"product_name":     license.ProductName,
		"license_key":      license.LicenseKey,
		"expires_at":       formatExpiry(license.LicenseExpiresAt),
		"invoice_number":   invoice.InvoiceNumber,
		"invoice_amount":   formatAmount(invoice.Amount),
		"invoice_due_date": formatDueDate(invoice.DueDate),
	})
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func formatAmount(minorUnits int64) string {
	return fmt.Sprintf("%.2f", float64(minorUnits)/100)
}

func formatExpiry(expiresAt *time.Time) string {
	if expiresAt == nil {
		return "Never"
	}
	return expiresAt.Format(dateLayout)
}

func formatPaidAt(paidAt *time.Time) string {
	if paidAt == nil {
		return "Unknown"
	}
	return paidAt.Format(dateTimeLayout)
}

func formatDueDate(dueDate *time.Time) string {
	if dueDate == nil {
		return "Unknown"
	}
	return dueDate.Format(dateLayout)
}
