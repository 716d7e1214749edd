package mongostore

import (
	"context"

	"village-admin/internal/shared/model"
	"village-admin/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ============================================================================
// UserStore
// ============================================================================

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	return insertOne(ctx, s.col(ColUsers), user)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return findOne[model.User](ctx, s.col(ColUsers), bson.D{{Key: "username", Value: username}})
}

func (s *Store) UpdateUserActivation(ctx context.Context, id int64, activation int) error {
	return updateFields(ctx, s.col(ColUsers), id, bson.D{
		{Key: "activation", Value: activation},
	})
}

func (s *Store) UpdateUserProfile(ctx context.Context, username string, p model.ProfileUpdate) error {
	res, err := s.col(ColUsers).UpdateOne(ctx,
		bson.D{{Key: "username", Value: username}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "name", Value: p.Name},
			{Key: "phone", Value: p.Phone},
			{Key: "address", Value: p.Address},
			{Key: "job_title", Value: p.JobTitle},
			{Key: "email", Value: p.Email},
		}}},
	)
	if err != nil {
		return wrapError(err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id int64, userType model.UserType) error {
	filter := bson.D{{Key: "id", Value: id}}
	if userType != "" {
		filter = append(filter, bson.E{Key: "user_type", Value: userType})
	}
	return deleteByFilter(ctx, s.col(ColUsers), filter)
}

func (s *Store) ListPendingUsers(ctx context.Context) ([]*model.User, error) {
	return findMany[model.User](ctx, s.col(ColUsers),
		bson.D{{Key: "activation", Value: model.ActivationPending}})
}

func (s *Store) ListActiveUsers(ctx context.Context) ([]*model.User, error) {
	return findMany[model.User](ctx, s.col(ColUsers), bson.D{
		{Key: "user_type", Value: model.UserTypeUser},
		{Key: "activation", Value: model.ActivationActive},
	})
}

func (s *Store) ListAdmins(ctx context.Context, excludeID int64) ([]*model.User, error) {
	filter := bson.D{{Key: "user_type", Value: model.UserTypeAdmin}}
	if excludeID > 0 {
		filter = append(filter, bson.E{Key: "id", Value: bson.D{{Key: "$ne", Value: excludeID}}})
	}
	return findMany[model.User](ctx, s.col(ColUsers), filter)
}

func (s *Store) ListAdminContacts(ctx context.Context) ([]*model.AdminContact, error) {
	return findMany[model.AdminContact](ctx, s.col(ColUsers),
		bson.D{{Key: "user_type", Value: model.UserTypeAdmin}})
}
