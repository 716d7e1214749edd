package mongostore

import (
	"context"

	"village-admin/internal/shared/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ============================================================================
// AnnouncementStore
// ============================================================================

func (s *Store) CreateAnnouncement(ctx context.Context, a *model.Announcement) error {
	return insertOne(ctx, s.col(ColAnnouncements), a)
}

func (s *Store) ListAnnouncements(ctx context.Context) ([]*model.Announcement, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findMany[model.Announcement](ctx, s.col(ColAnnouncements), bson.D{}, opts)
}

func (s *Store) UpdateAnnouncement(ctx context.Context, id int64, title, content string) error {
	return updateFields(ctx, s.col(ColAnnouncements), id, bson.D{
		{Key: "title", Value: title},
		{Key: "content", Value: content},
	})
}

func (s *Store) DeleteAnnouncement(ctx context.Context, id int64) error {
	return deleteByFilter(ctx, s.col(ColAnnouncements), bson.D{{Key: "id", Value: id}})
}
