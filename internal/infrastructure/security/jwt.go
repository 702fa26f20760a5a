package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/saveplate/backend/internal/domain"
)

// MinSecretLength is the shortest HMAC secret accepted.
const MinSecretLength = 32

// Claims is the payload of access and refresh tokens
type Claims struct {
	Type domain.TokenKind `json:"typ"`
	jwt.RegisteredClaims
}

// TokenConfig configures a JWTIssuer
type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Now        func() time.Time
}

// JWTIssuer signs and validates HS256 tokens whose subject is the user email
type JWTIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewJWTIssuer creates an issuer. The secret must be at least MinSecretLength bytes.
func NewJWTIssuer(cfg TokenConfig) (*JWTIssuer, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, fmt.Errorf("token secret must be at least %d characters", MinSecretLength)
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 30 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 30 * 24 * time.Hour
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &JWTIssuer{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        cfg.Now,
	}, nil
}

// Issue signs a token of the given kind for subject
func (j *JWTIssuer) Issue(subject string, kind domain.TokenKind) (string, error) {
	ttl, err := j.ttl(kind)
	if err != nil {
		return "", err
	}

	now := j.now()
	claims := &Claims{
		Type: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate checks signature, expiry and kind, and returns the subject.
// Every failure wraps domain.ErrInvalidToken.
func (j *JWTIssuer) Validate(token string, kind domain.TokenKind) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return "", domain.ErrInvalidToken
	}
	if claims.Type != kind {
		return "", fmt.Errorf("%w: got %s token, want %s", domain.ErrInvalidToken, claims.Type, kind)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", domain.ErrInvalidToken)
	}
	return claims.Subject, nil
}

func (j *JWTIssuer) ttl(kind domain.TokenKind) (time.Duration, error) {
	switch kind {
	case domain.AccessToken:
		return j.accessTTL, nil
	case domain.RefreshToken:
		return j.refreshTTL, nil
	default:
		return 0, errors.New("unknown token kind: " + string(kind))
	}
}
