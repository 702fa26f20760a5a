package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/saveplate/backend/internal/domain"
	"github.com/saveplate/backend/internal/infrastructure/graph"
	"github.com/saveplate/backend/internal/logging"
)

const tokenTypeBearer = "bearer"

// AuthServiceConfig holds configuration for the auth service
type AuthServiceConfig struct {
	// Now stamps the join date of new users; defaults to time.Now.
	Now func() time.Time
}

// AuthService registers users and issues their tokens
type AuthService struct {
	provider graph.SessionProvider
	hasher   domain.PasswordHasher
	tokens   domain.TokenIssuer
	now      func() time.Time
}

// NewAuthService creates an auth service
func NewAuthService(
	provider graph.SessionProvider,
	hasher domain.PasswordHasher,
	tokens domain.TokenIssuer,
	config AuthServiceConfig,
) *AuthService {
	now := config.Now
	if now == nil {
		now = time.Now
	}
	return &AuthService{provider: provider, hasher: hasher, tokens: tokens, now: now}
}

// Register creates a user and signs them in.
// An email already in use yields domain.ErrUserExists.
func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.TokenPair, error) {
	email := strings.TrimSpace(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || name == "" || req.Password == "" {
		return nil, domain.ErrInvalidRequest
	}

	var birthDate *time.Time
	if req.BirthDate != "" {
		d, err := time.Parse(time.DateOnly, req.BirthDate)
		if err != nil {
			return nil, fmt.Errorf("%w: birth_date: %v", domain.ErrInvalidRequest, err)
		}
		birthDate = &d
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	pair, err := s.issuePair(email)
	if err != nil {
		return nil, err
	}

	record := domain.UserRecord{
		User: domain.User{
			Email:     email,
			Name:      name,
			Gender:    req.Gender,
			BirthDate: birthDate,
			JoinDate:  s.now(),
		},
		HashedPassword: hash,
	}

	_, err = graph.ExecuteInTransaction(ctx, s.provider, graph.Write, func(ctx context.Context, tx graph.Tx) (*domain.UserRecord, error) {
		created, err := graph.CreateUser(ctx, tx, record)
		if err != nil {
			return nil, err
		}
		return created, graph.SaveRefreshToken(ctx, tx, email, pair.RefreshToken)
	})
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().Str("email", email).Msg("user registered")
	return pair, nil
}

// Login checks the password and issues a new token pair. Unknown users and
// wrong passwords both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	user, err := graph.ExecuteInTransaction(ctx, s.provider, graph.Read, func(ctx context.Context, tx graph.Tx) (*domain.UserRecord, error) {
		return graph.FindUserByEmail(ctx, tx, email)
	})
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !s.hasher.Verify(password, user.HashedPassword) {
		return nil, domain.ErrInvalidCredentials
	}
	if user.Disabled {
		return nil, domain.ErrInactiveUser
	}

	return s.rotate(ctx, user.Email)
}

// Refresh exchanges a stored refresh token for a new pair. The old refresh
// token stops working.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	subject, err := s.tokens.Validate(refreshToken, domain.RefreshToken)
	if err != nil {
		return nil, err
	}

	pair, err := s.issuePair(subject)
	if err != nil {
		return nil, err
	}

	_, err = graph.ExecuteInTransaction(ctx, s.provider, graph.Write, func(ctx context.Context, tx graph.Tx) (struct{}, error) {
		user, err := graph.FindUserByRefreshToken(ctx, tx, refreshToken)
		if errors.Is(err, domain.ErrUserNotFound) {
			return struct{}{}, domain.ErrInvalidToken
		}
		if err != nil {
			return struct{}{}, err
		}
		if user.Email != subject {
			return struct{}{}, domain.ErrInvalidToken
		}
		if user.Disabled {
			return struct{}{}, domain.ErrInactiveUser
		}
		return struct{}{}, graph.SaveRefreshToken(ctx, tx, subject, pair.RefreshToken)
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// CurrentUser resolves an access token to an active user.
func (s *AuthService) CurrentUser(ctx context.Context, accessToken string) (*domain.User, error) {
	email, err := s.tokens.Validate(accessToken, domain.AccessToken)
	if err != nil {
		return nil, err
	}

	user, err := graph.ExecuteInTransaction(ctx, s.provider, graph.Read, func(ctx context.Context, tx graph.Tx) (*domain.UserRecord, error) {
		return graph.FindUserByEmail(ctx, tx, email)
	})
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	if user.Disabled {
		return nil, domain.ErrInactiveUser
	}
	return &user.User, nil
}

func (s *AuthService) rotate(ctx context.Context, email string) (*domain.TokenPair, error) {
	pair, err := s.issuePair(email)
	if err != nil {
		return nil, err
	}

	_, err = graph.ExecuteInTransaction(ctx, s.provider, graph.Write, func(ctx context.Context, tx graph.Tx) (struct{}, error) {
		return struct{}{}, graph.SaveRefreshToken(ctx, tx, email, pair.RefreshToken)
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *AuthService) issuePair(email string) (*domain.TokenPair, error) {
	access, err := s.tokens.Issue(email, domain.AccessToken)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.Issue(email, domain.RefreshToken)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    tokenTypeBearer,
	}, nil
}
