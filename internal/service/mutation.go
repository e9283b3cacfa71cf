package service

import (
	apperrors "taskscope/internal/errors"
	"taskscope/internal/pipeline"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mutation is the result of a committed write. Warnings carry side-effect failures
// that happened after the commit; the write itself succeeded.
type Mutation[T any] struct {
	Entity   T        `json:"entity"`
	Warnings []string `json:"warnings,omitempty"`
}

func committed[T any](entity T, out *pipeline.Outcome) *Mutation[T] {
	return &Mutation[T]{Entity: entity, Warnings: out.Warnings()}
}

// parseIDs converts validated hex ids, dropping duplicates.
func parseIDs(hexes []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexes))
	seen := make(map[primitive.ObjectID]bool, len(hexes))
	for _, h := range hexes {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return nil, apperrors.ErrInvalidID
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}
