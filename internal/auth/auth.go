package auth

import (
	"errors"
	"time"
)

var (
	ErrExpiredToken = errors.New("token has expired")
	ErrInvalidToken = errors.New("token not valid")
)

// AuthToken issues and validates the bearer tokens that guard the admin
// API surface (template listing, previews, bulk sends).
type AuthToken interface {
	GenerateAdminToken(adminID string, expiry time.Duration) (string, error)
	ValidateAdminToken(tokenString string) (*AdminPayload, error)
}

type AdminPayload struct {
	AdminID   string    `json:"admin_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewAdminPayload(adminID string, expiry time.Duration) *AdminPayload {
	return &AdminPayload{
		AdminID:   adminID,
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(expiry),
	}
}

func (p *AdminPayload) Valid() error {
	if time.Now().After(p.ExpiresAt) {
		return ErrExpiredToken
	}

	return nil
}
