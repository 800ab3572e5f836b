package utils

import (
	"errors"
	"fmt"
	"time"

	appErrors "job-board/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenPurpose scopes a token to a single use. A token signed for one purpose
// never verifies for another.
type TokenPurpose string

const (
	PurposeActivation TokenPurpose = "activation"
	PurposeAccess     TokenPurpose = "access"
	PurposeRefresh    TokenPurpose = "refresh"
	PurposeReset      TokenPurpose = "reset"
)

const tokenIssuer = "job-board"

type Claims struct {
	UserID  uuid.UUID    `json:"user_id"`
	Email   string       `json:"email,omitempty"`
	Role    string       `json:"role,omitempty"`
	Purpose TokenPurpose `json:"purpose"`
	jwt.RegisteredClaims
}

// Subject is the identity a token is bound to.
type Subject struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

type TokenPair struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	ExpiresAt        int64  `json:"expires_at"`
	RefreshExpiresAt int64  `json:"refresh_expires_at"`
}

// TokenIssuer signs and verifies HS256 tokens with one secret per purpose.
type TokenIssuer struct {
	secrets map[TokenPurpose][]byte
	now     func() time.Time
}

func NewTokenIssuer(secrets map[TokenPurpose]string) (*TokenIssuer, error) {
	issuer := &TokenIssuer{
		secrets: make(map[TokenPurpose][]byte, len(secrets)),
		now:     time.Now,
	}
	for purpose, secret := range secrets {
		if secret == "" {
			return nil, fmt.Errorf("empty signing secret for %s tokens", purpose)
		}
		issuer.secrets[purpose] = []byte(secret)
	}
	return issuer, nil
}

// WithClock replaces the time source, used by tests.
func (i *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	if now != nil {
		i.now = now
	}
	return i
}

func (i *TokenIssuer) Issue(subject Subject, purpose TokenPurpose, ttl time.Duration) (string, time.Time, error) {
	secret, ok := i.secrets[purpose]
	if !ok {
		return "", time.Time{}, fmt.Errorf("no signing secret configured for %s tokens", purpose)
	}

	issuedAt := i.now()
	expiresAt := issuedAt.Add(ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:  subject.UserID,
		Email:   subject.Email,
		Role:    subject.Role,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.UserID.String(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign %s token: %w", purpose, err)
	}

	return signed, expiresAt, nil
}

// Verify returns the claims of a token issued for purpose, or ErrTokenExpired /
// ErrTokenInvalid.
func (i *TokenIssuer) Verify(tokenString string, purpose TokenPurpose) (*Claims, error) {
	secret, ok := i.secrets[purpose]
	if !ok || tokenString == "" {
		return nil, appErrors.ErrTokenInvalid
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, appErrors.ErrTokenExpired
		}
		return nil, appErrors.ErrTokenInvalid
	}

	if !token.Valid || claims.Purpose != purpose || claims.UserID == uuid.Nil {
		return nil, appErrors.ErrTokenInvalid
	}

	return claims, nil
}

func (i *TokenIssuer) GenerateTokenPair(subject Subject, accessTTL, refreshTTL time.Duration) (*TokenPair, error) {
	accessToken, accessExp, err := i.Issue(subject, PurposeAccess, accessTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, refreshExp, err := i.Issue(subject, PurposeRefresh, refreshTTL)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresAt:        accessExp.Unix(),
		RefreshExpiresAt: refreshExp.Unix(),
	}, nil
}
