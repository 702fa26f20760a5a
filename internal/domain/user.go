package domain

import "time"

// User is the public view of an account
type User struct {
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Gender    string     `json:"gender,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	JoinDate  time.Time  `json:"join_date"`
	Disabled  bool       `json:"disabled"`
}

// UserRecord is a User as stored, including its credentials
type UserRecord struct {
	User
	HashedPassword string
	RefreshToken   string
}

// RegisterRequest is the body of the registration endpoint
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Name      string `json:"name" binding:"required,notblank"`
	Gender    string `json:"gender" binding:"omitempty,oneof=male female other"`
	BirthDate string `json:"birth_date" binding:"omitempty,datetime=2006-01-02"`
}

// TokenPair is returned on login, refresh and registration
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// OwnedIngredient is an ingredient or sauce held by a user
type OwnedIngredient struct {
	Name   string         `json:"name"`
	Kind   IngredientKind `json:"kind"`
	Amount float64        `json:"amount"`
}

// IngredientAmount is one entry of an add-ingredients request
type IngredientAmount struct {
	Name   string  `json:"name" binding:"required,notblank"`
	Amount float64 `json:"amount" binding:"gte=0"`
}

// AddIngredientsRequest is the body of the add-ingredients endpoint
type AddIngredientsRequest struct {
	Ingredients []IngredientAmount `json:"ingredients" binding:"required,min=1,dive"`
}
