package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jtdaniels/QA3/internal/quiz"
)

const tokenTTL = 12 * time.Hour

type AuthService interface {
	Login(ctx context.Context, password string) (string, error)
	ChangePassword(ctx context.Context, current, next string) error
	ParseToken(token string) error
}

type authService struct {
	creds  storageCredentials
	secret []byte
}

// storageCredentials is the slice of the store this service needs.
type storageCredentials interface {
	GetAdminDigest(ctx context.Context) (string, error)
	UpdateAdminDigest(ctx context.Context, digest string) error
}

func NewAuthService(creds storageCredentials, jwtSecret string) AuthService {
	return &authService{creds: creds, secret: []byte(jwtSecret)}
}

// Digest computes the stored form of a password: a sha256 hexdigest.
func Digest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// VerifyDigest compares a submitted password against a stored digest
// byte-for-byte in constant time.
func VerifyDigest(submitted, storedDigest string) bool {
	return subtle.ConstantTimeCompare([]byte(Digest(submitted)), []byte(storedDigest)) == 1
}

// Login verifies the password against the stored digest; on success it
// issues a signed token the admin endpoints accept.
func (a *authService) Login(ctx context.Context, password string) (string, error) {
	stored, err := a.creds.GetAdminDigest(ctx)
	if err != nil {
		return "", fmt.Errorf("load admin digest: %w", err)
	}
	if !VerifyDigest(password, stored) {
		return "", quiz.ErrAuthentication
	}

	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

func (a *authService) ChangePassword(ctx context.Context, current, next string) error {
	if strings.TrimSpace(next) == "" {
		return fmt.Errorf("%w: new password is empty", quiz.ErrValidation)
	}

	stored, err := a.creds.GetAdminDigest(ctx)
	if err != nil {
		return fmt.Errorf("load admin digest: %w", err)
	}
	if !VerifyDigest(current, stored) {
		return quiz.ErrAuthentication
	}
	return a.creds.UpdateAdminDigest(ctx, Digest(next))
}

func (a *authService) ParseToken(token string) error {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !parsed.Valid {
		return quiz.ErrAuthentication
	}
	return nil
}
