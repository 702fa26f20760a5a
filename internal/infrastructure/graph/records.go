package graph

import (
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/saveplate/backend/internal/domain"
)

func field(rec *Record, key string) (any, error) {
	v, ok := rec.Get(key)
	if !ok {
		return nil, fmt.Errorf("graph: record has no field %q", key)
	}
	return v, nil
}

func stringField(rec *Record, key string) (string, error) {
	v, err := field(rec, key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("graph: field %q is %T, want string", key, v)
	}
	return s, nil
}

func floatField(rec *Record, key string) (float64, error) {
	v, err := field(rec, key)
	if err != nil {
		return 0, err
	}
	return toFloat(key, v)
}

func toFloat(key string, v any) (float64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("graph: field %q is %T, want number", key, v)
	}
}

// stringsField reads a list of strings, skipping nulls.
func stringsField(rec *Record, key string) ([]string, error) {
	v, err := field(rec, key)
	if err != nil {
		return nil, err
	}
	switch list := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return list, nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if item == nil {
				continue
			}
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("graph: field %q holds %T, want string", key, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("graph: field %q is %T, want list", key, v)
	}
}

func nodeField(rec *Record, key string) (neo4j.Node, error) {
	v, err := field(rec, key)
	if err != nil {
		return neo4j.Node{}, err
	}
	node, ok := v.(neo4j.Node)
	if !ok {
		return neo4j.Node{}, fmt.Errorf("graph: field %q is %T, want node", key, v)
	}
	return node, nil
}

func propString(props map[string]any, key string) string {
	s, _ := props[key].(string)
	return s
}

func propBool(props map[string]any, key string) bool {
	b, _ := props[key].(bool)
	return b
}

func propDate(props map[string]any, key string) *time.Time {
	var t time.Time
	switch d := props[key].(type) {
	case neo4j.Date:
		t = time.Time(d)
	case time.Time:
		t = d
	default:
		return nil
	}
	return &t
}

// kindFromLabels picks the ingredient kind from a node's labels.
func kindFromLabels(labels []string) domain.IngredientKind {
	for _, l := range labels {
		switch l {
		case "Sauce":
			return domain.KindSauce
		case "Ingredient":
			return domain.KindIngredient
		}
	}
	return ""
}

// dateOf truncates t to a calendar date in UTC.
func dateOf(t time.Time) neo4j.Date {
	return neo4j.Date(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
}
