package graph

import (
	"context"
	"fmt"

	"github.com/saveplate/backend/internal/domain"
)

const (
	userByEmailQuery        = `MATCH (u:User {email: $email}) RETURN u`
	userByRefreshTokenQuery = `MATCH (u:User {refresh_token: $refresh_token}) RETURN u`

	createUserQuery = `
CREATE (u:User {
	email: $email,
	hashed_password: $hashed_password,
	name: $name,
	gender: $gender,
	birth_date: $birth_date,
	join_date: $join_date,
	disabled: false
})
RETURN u`

	saveRefreshTokenQuery = `
MATCH (u:User {email: $email})
SET u.refresh_token = $refresh_token
RETURN u.email AS email`
)

// FindUserByEmail loads a user, or returns domain.ErrUserNotFound.
func FindUserByEmail(ctx context.Context, tx Tx, email string) (*domain.UserRecord, error) {
	rec, err := tx.Single(ctx, userByEmailQuery, map[string]any{"email": email})
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return userFromRecord(rec)
}

// FindUserByRefreshToken loads the user holding the refresh token, or returns domain.ErrUserNotFound.
func FindUserByRefreshToken(ctx context.Context, tx Tx, token string) (*domain.UserRecord, error) {
	rec, err := tx.Single(ctx, userByRefreshTokenQuery, map[string]any{"refresh_token": token})
	if err != nil {
		return nil, fmt.Errorf("query user by refresh token: %w", err)
	}
	return userFromRecord(rec)
}

// CreateUser stores a new user. It must run in a write transaction; the
// existence check and the insert share it.
func CreateUser(ctx context.Context, tx Tx, user domain.UserRecord) (*domain.UserRecord, error) {
	existing, err := tx.Single(ctx, userByEmailQuery, map[string]any{"email": user.Email})
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrUserExists
	}

	var birthDate any
	if user.BirthDate != nil {
		birthDate = dateOf(*user.BirthDate)
	}
	var gender any
	if user.Gender != "" {
		gender = user.Gender
	}

	rec, err := tx.Single(ctx, createUserQuery, map[string]any{
		"email":           user.Email,
		"hashed_password": user.HashedPassword,
		"name":            user.Name,
		"gender":          gender,
		"birth_date":      birthDate,
		"join_date":       dateOf(user.JoinDate),
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("create user: no record returned")
	}
	return userFromRecord(rec)
}

// SaveRefreshToken replaces the refresh token stored on the user.
func SaveRefreshToken(ctx context.Context, tx Tx, email, token string) error {
	rec, err := tx.Single(ctx, saveRefreshTokenQuery, map[string]any{
		"email":         email,
		"refresh_token": token,
	})
	if err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	if rec == nil {
		return domain.ErrUserNotFound
	}
	return nil
}

func userFromRecord(rec *Record) (*domain.UserRecord, error) {
	if rec == nil {
		return nil, domain.ErrUserNotFound
	}
	node, err := nodeField(rec, "u")
	if err != nil {
		return nil, err
	}

	props := node.Props
	user := &domain.UserRecord{
		User: domain.User{
			Email:     propString(props, "email"),
			Name:      propString(props, "name"),
			Gender:    propString(props, "gender"),
			BirthDate: propDate(props, "birth_date"),
			Disabled:  propBool(props, "disabled"),
		},
		HashedPassword: propString(props, "hashed_password"),
		RefreshToken:   propString(props, "refresh_token"),
	}
	if joined := propDate(props, "join_date"); joined != nil {
		user.JoinDate = *joined
	}
	return user, nil
}
