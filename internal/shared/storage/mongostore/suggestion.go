package mongostore

import (
	"context"

	"village-admin/internal/shared/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ============================================================================
// SuggestionStore
// ============================================================================

func (s *Store) CreateSuggestion(ctx context.Context, sg *model.Suggestion) error {
	return insertOne(ctx, s.col(ColSuggestions), sg)
}

func (s *Store) ListSuggestions(ctx context.Context) ([]*model.Suggestion, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findMany[model.Suggestion](ctx, s.col(ColSuggestions), bson.D{}, opts)
}

func (s *Store) RespondSuggestion(ctx context.Context, id int64, response string) error {
	return updateFields(ctx, s.col(ColSuggestions), id, bson.D{
		{Key: "response", Value: response},
	})
}
