package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/saveplate/backend/internal/domain"
	"github.com/saveplate/backend/internal/infrastructure/graph"
	"github.com/saveplate/backend/internal/infrastructure/graph/graphtest"
)

// fakeHasher "hashes" by prefixing.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (fakeHasher) Verify(password, hash string) bool   { return hash == "hashed:"+password }

// fakeTokens issues readable tokens of the form kind:subject:serial.
type fakeTokens struct {
	serial int
}

func (f *fakeTokens) Issue(subject string, kind domain.TokenKind) (string, error) {
	f.serial++
	return fmt.Sprintf("%s:%s:%d", kind, subject, f.serial), nil
}

func (f *fakeTokens) Validate(token string, kind domain.TokenKind) (string, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 || parts[0] != string(kind) {
		return "", domain.ErrInvalidToken
	}
	return parts[1], nil
}

func userRow(props map[string]any) *graph.Record {
	return graphtest.Row("u", neo4j.Node{Labels: []string{"User"}, Props: props})
}

var errStoreDown = errors.New("store down")
