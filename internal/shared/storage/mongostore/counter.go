package mongostore

import (
	"context"
	"errors"

	"village-admin/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// counterDoc counters 集合中的计数器文档
type counterDoc struct {
	ID            string `bson:"_id"`
	SequenceValue int64  `bson:"sequence_value"`
}

// NextSequence 原子地自增并返回序列的下一个值
//
// 用单条 findOneAndUpdate($inc, ReturnDocument=After) 完成 increment-and-fetch，
// 并发调用由存储端文档级原子性串行化，不会出现重复或丢失自增。
// 计数器未预置时返回 ErrSequenceNotInitialized，从不 upsert。
func (s *Store) NextSequence(ctx context.Context, name string) (int64, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc counterDoc
	err := s.col(ColCounters).FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: name}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "sequence_value", Value: int64(1)}}}},
		opts,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, storage.ErrSequenceNotInitialized
		}
		return 0, wrapError(err)
	}

	return doc.SequenceValue, nil
}

// EnsureSequence 预置计数器，已存在时不改动当前值
func (s *Store) EnsureSequence(ctx context.Context, name string, start int64) error {
	opts := options.UpdateOne().SetUpsert(true)

	_, err := s.col(ColCounters).UpdateOne(ctx,
		bson.D{{Key: "_id", Value: name}},
		bson.D{{Key: "$setOnInsert", Value: bson.D{{Key: "sequence_value", Value: start}}}},
		opts,
	)
	return wrapError(err)
}
