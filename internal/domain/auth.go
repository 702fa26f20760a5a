package domain

// TokenKind distinguishes access tokens from refresh tokens
type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

// PasswordHasher hashes and verifies user passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenIssuer signs and validates bearer tokens whose subject is the user's email
type TokenIssuer interface {
	Issue(subject string, kind TokenKind) (string, error)
	Validate(token string, kind TokenKind) (subject string, err error)
}
