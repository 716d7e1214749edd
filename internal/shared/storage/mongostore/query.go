package mongostore

import (
	"context"

	"village-admin/internal/shared/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ============================================================================
// QueryStore
// ============================================================================

func (s *Store) CreateQuery(ctx context.Context, q *model.Query) error {
	return insertOne(ctx, s.col(ColQueries), q)
}

func (s *Store) ListQueries(ctx context.Context) ([]*model.Query, error) {
	opts := options.Find().SetSort(bson.D{{Key: "time", Value: -1}})
	return findMany[model.Query](ctx, s.col(ColQueries), bson.D{}, opts)
}

func (s *Store) ListQueriesByUsername(ctx context.Context, username string) ([]*model.Query, error) {
	opts := options.Find().SetSort(bson.D{{Key: "time", Value: -1}})
	return findMany[model.Query](ctx, s.col(ColQueries),
		bson.D{{Key: "username", Value: username}}, opts)
}

func (s *Store) RespondQuery(ctx context.Context, id int64, response string) error {
	return updateFields(ctx, s.col(ColQueries), id, bson.D{
		{Key: "admin_response", Value: response},
	})
}
