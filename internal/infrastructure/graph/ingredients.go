package graph

import (
	"context"
	"fmt"

	"github.com/saveplate/backend/internal/domain"
)

const (
	ownedIngredientsQuery = `
MATCH (u:User {email: $email})-[h:HAS]->(i)
WHERE i:Ingredient OR i:Sauce
RETURN i.name AS name, labels(i) AS labels, coalesce(h.amount, 0) AS amount
ORDER BY name`

	ownedIngredientNamesQuery = `
MATCH (u:User {email: $email})-[:HAS]->(i)
WHERE i:Ingredient OR i:Sauce
RETURN collect(DISTINCT i.name) AS names`

	addIngredientsQuery = `
MATCH (u:User {email: $email})
UNWIND $ingredients AS e
MATCH (i {name: e.name})
WHERE i:Ingredient OR i:Sauce
MERGE (u)-[h:HAS]->(i)
SET h.amount = e.amount
RETURN i.name AS name, labels(i) AS labels, h.amount AS amount`
)

// ListOwnedIngredients returns what the user holds, ordered by name.
func ListOwnedIngredients(ctx context.Context, tx Tx, email string) ([]domain.OwnedIngredient, error) {
	records, err := tx.Collect(ctx, ownedIngredientsQuery, map[string]any{"email": email})
	if err != nil {
		return nil, fmt.Errorf("query owned ingredients: %w", err)
	}
	return ownedFromRecords(records)
}

// OwnedIngredientNames returns the names of every ingredient and sauce the user holds.
func OwnedIngredientNames(ctx context.Context, tx Tx, email string) ([]string, error) {
	rec, err := tx.Single(ctx, ownedIngredientNamesQuery, map[string]any{"email": email})
	if err != nil {
		return nil, fmt.Errorf("query owned ingredient names: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	return stringsField(rec, "names")
}

// AddOwnedIngredients links the user to each named ingredient or sauce, setting
// the amount. Names that match no node are skipped; the linked items are returned.
func AddOwnedIngredients(ctx context.Context, tx Tx, email string, items []domain.IngredientAmount) ([]domain.OwnedIngredient, error) {
	param := make([]any, 0, len(items))
	for _, item := range items {
		param = append(param, map[string]any{"name": item.Name, "amount": item.Amount})
	}

	records, err := tx.Collect(ctx, addIngredientsQuery, map[string]any{
		"email":       email,
		"ingredients": param,
	})
	if err != nil {
		return nil, fmt.Errorf("add owned ingredients: %w", err)
	}
	return ownedFromRecords(records)
}

func ownedFromRecords(records []*Record) ([]domain.OwnedIngredient, error) {
	owned := make([]domain.OwnedIngredient, 0, len(records))
	for _, rec := range records {
		name, err := stringField(rec, "name")
		if err != nil {
			return nil, err
		}
		labels, err := stringsField(rec, "labels")
		if err != nil {
			return nil, err
		}
		amount, err := floatField(rec, "amount")
		if err != nil {
			return nil, err
		}
		owned = append(owned, domain.OwnedIngredient{
			Name:   name,
			Kind:   kindFromLabels(labels),
			Amount: amount,
		})
	}
	return owned, nil
}
