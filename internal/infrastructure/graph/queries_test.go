package graph_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saveplate/backend/internal/domain"
	"github.com/saveplate/backend/internal/infrastructure/graph"
	"github.com/saveplate/backend/internal/infrastructure/graph/graphtest"
)

func readTx[R any](t *testing.T, p *graphtest.Provider, work func(ctx context.Context, tx graph.Tx) (R, error)) (R, error) {
	t.Helper()
	return graph.ExecuteInTransaction(context.Background(), p, graph.Read, work)
}

func writeTx[R any](t *testing.T, p *graphtest.Provider, work func(ctx context.Context, tx graph.Tx) (R, error)) (R, error) {
	t.Helper()
	return graph.ExecuteInTransaction(context.Background(), p, graph.Write, work)
}

func userNode(props map[string]any) neo4j.Node {
	return neo4j.Node{Labels: []string{"User"}, Props: props}
}

func TestRecipeCandidates(t *testing.T) {
	t.Run("decodes rows", func(t *testing.T) {
		p := graphtest.NewProvider().OnRows("RECIPE_OF",
			graphtest.Row("food", "Salad", "recipe", "R1", "required", graphtest.List("tomato", "onion")),
			graphtest.Row("food", "Soup", "recipe", "R2", "required", graphtest.List("tomato")),
		)

		got, err := readTx(t, p, func(ctx context.Context, tx graph.Tx) ([]domain.RecipeRequirement, error) {
			return graph.RecipeCandidates(ctx, tx, []string{"tomato"})
		})

		require.NoError(t, err)
		assert.Equal(t, []domain.RecipeRequirement{
			{Food: "Salad", Recipe: "R1", Required: []string{"tomato", "onion"}},
			{Food: "Soup", Recipe: "R2", Required: []string{"tomato"}},
		}, got)
		assert.Equal(t, []string{"tomato"}, p.Executed()[0].Params["ingredients"])
	})

	t.Run("empty input skips the query", func(t *testing.T) {
		p := graphtest.NewProvider()

		got, err := readTx(t, p, func(ctx context.Context, tx graph.Tx) ([]domain.RecipeRequirement, error) {
			return graph.RecipeCandidates(ctx, tx, nil)
		})

		require.NoError(t, err)
		assert.Empty(t, got)
		assert.Empty(t, p.Executed())
	})

	t.Run("store error is wrapped", func(t *testing.T) {
		errStore := errors.New("connection reset")
		p := graphtest.NewProvider().OnError("RECIPE_OF", errStore)

		_, err := readTx(t, p, func(ctx context.Context, tx graph.Tx) ([]domain.RecipeRequirement, error) {
			return graph.RecipeCandidates(ctx, tx, []string{"tomato"})
		})

		assert.ErrorIs(t, err, errStore)
	})
}

func TestFindUserByEmail(t *testing.T) {
	joined := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		p := graphtest.NewProvider().OnRows("MATCH (u:User {email: $email})",
			graphtest.Row("u", userNode(map[string]any{
				"email":           "cook@example.com",
				"name":            "Cook",
				"hashed_password": "$2a$10$hash",
				"join_date":       neo4j.Date(joined),
				"disabled":        false,
			})),
		)

		got, err := readTx(t, p, func(ctx context.Context, tx graph.Tx) (*domain.UserRecord, error) {
			return graph.FindUserByEmail(ctx, tx, "cook@example.com")
		})

		require.NoError(t, err)
		assert.Equal(t, "cook@example.com", got.Email)
		assert.Equal(t, "Cook", got.Name)
		assert.Equal(t, "$2a$10$hash", got.HashedPassword)
		assert.True(t, joined.Equal(got.JoinDate))
		assert.Nil(t, got.BirthDate)
		assert.False(t, got.Disabled)
	})

	t.Run("missing", func(t *testing.T) {
		p := graphtest.NewProvider()

		_, err := readTx(t, p, func(ctx context.Context, tx graph.Tx) (*domain.UserRecord, error) {
			return graph.FindUserByEmail(ctx, tx, "nobody@example.com")
		})

		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestCreateUser(t *testing.T) {
	birth := time.Date(1990, time.May, 17, 0, 0, 0, 0, time.UTC)
	record := domain.UserRecord{
		User: domain.User{
			Email:     "cook@example.com",
			Name:      "Cook",
			BirthDate: &birth,
			JoinDate:  time.Date(2024, time.January, 2, 10, 30, 0, 0, time.UTC),
		},
		HashedPassword: "$2a$10$hash",
	}

	t.Run("creates", func(t *testing.T) {
		p := graphtest.NewProvider().On("CREATE (u:User", func(q graphtest.Query) ([]*graph.Record, error) {
			return []*graph.Record{graphtest.Row("u", userNode(map[string]any{
				"email":     q.Params["email"],
				"name":      q.Params["name"],
				"join_date": q.Params["join_date"],
			}))}, nil
		})

		got, err := writeTx(t, p, func(ctx context.Context, tx graph.Tx) (*domain.UserRecord, error) {
			return graph.CreateUser(ctx, tx, record)
		})

		require.NoError(t, err)
		assert.Equal(t, "cook@example.com", got.Email)

		committed := p.Committed()
		require.Len(t, committed, 1)
		params := committed[0].Params
		assert.Nil(t, params["gender"])
		assert.Equal(t, neo4j.Date(birth), params["birth_date"])
		assert.Equal(t, neo4j.Date(time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)), params["join_date"])
	})

	t.Run("duplicate email", func(t *testing.T) {
		p := graphtest.NewProvider().OnRows("MATCH (u:User {email: $email})",
			graphtest.Row("u", userNode(map[string]any{"email": "cook@example.com"})))

		_, err := writeTx(t, p, func(ctx context.Context, tx graph.Tx) (*domain.UserRecord, error) {
			return graph.CreateUser(ctx, tx, record)
		})

		assert.ErrorIs(t, err, domain.ErrUserExists)
		assert.Empty(t, p.Committed())
	})

	t.Run("rejected in read mode", func(t *testing.T) {
		p := graphtest.NewProvider()

		_, err := readTx(t, p, func(ctx context.Context, tx graph.Tx) (*domain.UserRecord, error) {
			return graph.CreateUser(ctx, tx, record)
		})

		assert.ErrorIs(t, err, graphtest.ErrWriteInReadMode)
	})
}

func TestSaveRefreshToken(t *testing.T) {
	t.Run("stored", func(t *testing.T) {
		p := graphtest.NewProvider().OnRows("SET u.refresh_token", graphtest.Row("email", "cook@example.com"))

		_, err := writeTx(t, p, func(ctx context.Context, tx graph.Tx) (struct{}, error) {
			return struct{}{}, graph.SaveRefreshToken(ctx, tx, "cook@example.com", "tok")
		})

		require.NoError(t, err)
		require.Len(t, p.Committed(), 1)
		assert.Equal(t, "tok", p.Committed()[0].Params["refresh_token"])
	})

	t.Run("unknown user", func(t *testing.T) {
		p := graphtest.NewProvider()

		_, err := writeTx(t, p, func(ctx context.Context, tx graph.Tx) (struct{}, error) {
			return struct{}{}, graph.SaveRefreshToken(ctx, tx, "nobody@example.com", "tok")
		})

		assert.ErrorIs(t, err, domain.ErrUserNotFound)
		assert.Empty(t, p.Committed())
	})
}

func TestOwnedIngredients(t *testing.T) {
	p := graphtest.NewProvider().
		OnRows("collect(DISTINCT i.name) AS names", graphtest.Row("names", graphtest.List("egg", "ketchup"))).
		OnRows("coalesce(h.amount, 0)",
			graphtest.Row("name", "egg", "labels", graphtest.List("Ingredient"), "amount", int64(2)),
			graphtest.Row("name", "ketchup", "labels", graphtest.List("Sauce"), "amount", 0.5),
		)

	owned, err := readTx(t, p, func(ctx context.Context, tx graph.Tx) ([]domain.OwnedIngredient, error) {
		return graph.ListOwnedIngredients(ctx, tx, "cook@example.com")
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.OwnedIngredient{
		{Name: "egg", Kind: domain.KindIngredient, Amount: 2},
		{Name: "ketchup", Kind: domain.KindSauce, Amount: 0.5},
	}, owned)

	names, err := readTx(t, p, func(ctx context.Context, tx graph.Tx) ([]string, error) {
		return graph.OwnedIngredientNames(ctx, tx, "cook@example.com")
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"egg", "ketchup"}, names)
}

func TestAddOwnedIngredients(t *testing.T) {
	p := graphtest.NewProvider().On("MERGE (u)-[h:HAS]->(i)", func(q graphtest.Query) ([]*graph.Record, error) {
		var rows []*graph.Record
		for _, e := range q.Params["ingredients"].([]any) {
			entry := e.(map[string]any)
			if entry["name"] == "unicorn" {
				continue
			}
			rows = append(rows, graphtest.Row("name", entry["name"], "labels", graphtest.List("Ingredient"), "amount", entry["amount"]))
		}
		return rows, nil
	})

	got, err := writeTx(t, p, func(ctx context.Context, tx graph.Tx) ([]domain.OwnedIngredient, error) {
		return graph.AddOwnedIngredients(ctx, tx, "cook@example.com", []domain.IngredientAmount{
			{Name: "egg", Amount: 3},
			{Name: "unicorn", Amount: 1},
		})
	})

	require.NoError(t, err)
	assert.Equal(t, []domain.OwnedIngredient{{Name: "egg", Kind: domain.KindIngredient, Amount: 3}}, got)
	assert.Len(t, p.Committed(), 1)
}

func TestAutocomplete(t *testing.T) {
	t.Run("label and limit", func(t *testing.T) {
		p := graphtest.NewProvider().OnRows("MATCH (n:Sauce)", graphtest.Row("name", "ketchup"), graphtest.Row("name", "kimchi sauce"))

		got, err := readTx(t, p, func(ctx context.Context, tx graph.Tx) ([]string, error) {
			return graph.Autocomplete(ctx, tx, domain.AutocompleteQuery{Kind: domain.KindSauce, Prefix: "k", Limit: 5})
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"ketchup", "kimchi sauce"}, got)
		params := p.Executed()[0].Params
		assert.Equal(t, "k", params["prefix"])
		assert.Equal(t, int64(5), params["limit"])
	})

	tests := []struct {
		name string
		q    domain.AutocompleteQuery
	}{
		{name: "unknown kind", q: domain.AutocompleteQuery{Kind: "Recipe) DETACH DELETE (n", Limit: 5}},
		{name: "zero limit", q: domain.AutocompleteQuery{Kind: domain.KindIngredient}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := graphtest.NewProvider()

			_, err := readTx(t, p, func(ctx context.Context, tx graph.Tx) ([]string, error) {
				return graph.Autocomplete(ctx, tx, tt.q)
			})

			assert.ErrorIs(t, err, domain.ErrInvalidRequest)
			assert.Empty(t, p.Executed())
		})
	}
}
