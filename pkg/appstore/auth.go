package appstore

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	audience      = "appstoreconnect-v1"
	tokenLifetime = 19 * time.Minute
	// Tokens are renewed this long before they expire.
	tokenLeeway = time.Minute
)

/*
KeyTokenSource signs App Store Connect API tokens (ES256 JWTs) with an API
key. Tokens are cached and reused until shortly before they expire.

	tokens, err := appstore.NewKeyTokenSource(issuerId, keyId, privateKeyPEM)
	client := appstore.NewClient("", tokens, time.Minute)
*/
type KeyTokenSource struct {
	IssuerId      string
	KeyIdentifier string
	privateKey    *ecdsa.PrivateKey
	now           func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func NewKeyTokenSource(
	issuerId, keyIdentifier, privateKeyPEM string,
) (*KeyTokenSource, error) {
	if strings.TrimSpace(issuerId) == "" {
		return nil, errors.New("issuer id is missing")
	}
	if strings.TrimSpace(keyIdentifier) == "" {
		return nil, errors.New("key identifier is missing")
	}
	privateKey, err := jwt.ParseECPrivateKeyFromPEM([]byte(privateKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("invalid App Store Connect API private key: %w", err)
	}
	return &KeyTokenSource{
		IssuerId:      issuerId,
		KeyIdentifier: keyIdentifier,
		privateKey:    privateKey,
		now:           time.Now,
	}, nil
}

func (s *KeyTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	if s.token != "" && now.Before(s.expiresAt.Add(-tokenLeeway)) {
		return s.token, nil
	}

	expiresAt := now.Add(tokenLifetime)
	token := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.RegisteredClaims{
		Issuer:    s.IssuerId,
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	token.Header["kid"] = s.KeyIdentifier

	signed, err := token.SignedString(s.privateKey)
	if err != nil {
		return "", fmt.Errorf("cannot sign App Store Connect token: %w", err)
	}
	s.token = signed
	s.expiresAt = expiresAt
	return signed, nil
}
