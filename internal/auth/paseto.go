package auth

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/aead/chacha20poly1305"
	"github.com/o1egl/paseto"
)

type PasetoToken struct {
	paseto *paseto.V2
	key    []byte
}

func NewPasetoToken(secret string) (*PasetoToken, error) {
	secretByte, err := base64.StdEncoding.DecodeString(secret)

	if err != nil {
		return nil, fmt.Errorf("failed to decode secret base64 key: %w", err)
	}

	if len(secretByte) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("invalid key size: must be exactly %d bytes", chacha20poly1305.KeySize)
	}

	return &PasetoToken{
		paseto: paseto.NewV2(),
		key:    secretByte,
	}, nil
}

func (t *PasetoToken) GenerateAdminToken(adminID string, expiry time.Duration) (string, error) {
	payload := NewAdminPayload(adminID, expiry)

	token, err := t.paseto.Encrypt(t.key, payload, nil)
	if err != nil {
		return "", err
	}

	return token, nil
}

func (t *PasetoToken) ValidateAdminToken(tokenString string) (*AdminPayload, error) {
	payload := &AdminPayload{}

	err := t.paseto.Decrypt(tokenString, t.key, payload, nil)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if err := payload.Valid(); err != nil {
		return nil, err
	}

	return payload, nil
}
