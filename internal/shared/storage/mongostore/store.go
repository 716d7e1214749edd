// Package mongostore 实现基于 MongoDB 的 PersistentStore
//
// 使用 mongo-go-driver v2，通过 bson tag 实现 model 结构体的序列化/反序列化。
// 所有 Collection 名称和索引在 ensureIndexes 中统一管理。
//
// 唯一性约束（username、crop_name、(place_id, crop_id)）全部落在唯一索引上，
// 而不是应用层 check-then-insert —— 并发插入时后者会漏判。
package mongostore

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection 名称常量
const (
	ColUsers         = "users"
	ColAnnouncements = "announcements"
	ColSuggestions   = "suggestions"
	ColQueries       = "queries"
	ColPlaces        = "places"
	ColCrops         = "crops"
	ColPrices        = "prices"
	ColCounters      = "counters"
)

// Store 实现 storage.PersistentStore 接口的 MongoDB 驱动
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore 创建 MongoDB 存储实例
//
// uri: MongoDB 连接 URI，如 "mongodb://localhost:27017"
// dbName: 数据库名称，如 "village_app"
func NewStore(uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect failed: %w", err)
	}

	// 验证连接
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongostore: ping failed: %w", err)
	}

	db := client.Database(dbName)
	s := &Store{client: client, db: db}

	// 创建索引
	if err := s.ensureIndexes(ctx); err != nil {
		log.Printf("WARNING: mongostore: ensure indexes failed: %v", err)
	}

	return s, nil
}

// Close 关闭 MongoDB 连接
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// col 获取指定 Collection
func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// ensureIndexes 创建所有必要的索引
func (s *Store) ensureIndexes(ctx context.Context) error {
	type idx struct {
		col    string
		keys   bson.D
		unique bool
	}

	indexes := []idx{
		// 业务主键 id 每个集合唯一
		{ColUsers, bson.D{{Key: "id", Value: 1}}, true},
		{ColAnnouncements, bson.D{{Key: "id", Value: 1}}, true},
		{ColSuggestions, bson.D{{Key: "id", Value: 1}}, true},
		{ColQueries, bson.D{{Key: "id", Value: 1}}, true},
		{ColPlaces, bson.D{{Key: "id", Value: 1}}, true},
		{ColCrops, bson.D{{Key: "id", Value: 1}}, true},
		{ColPrices, bson.D{{Key: "id", Value: 1}}, true},

		// users
		{ColUsers, bson.D{{Key: "username", Value: 1}}, true},
		{ColUsers, bson.D{{Key: "user_type", Value: 1}, {Key: "activation", Value: 1}}, false},

		// announcements / suggestions / queries 列表按时间倒序
		{ColAnnouncements, bson.D{{Key: "created_at", Value: -1}}, false},
		{ColSuggestions, bson.D{{Key: "created_at", Value: -1}}, false},
		{ColQueries, bson.D{{Key: "time", Value: -1}}, false},
		{ColQueries, bson.D{{Key: "username", Value: 1}}, false},

		// crops
		{ColCrops, bson.D{{Key: "crop_name", Value: 1}}, true},

		// prices：同一地点同一作物至多一条现价记录
		{ColPrices, bson.D{{Key: "place_id", Value: 1}, {Key: "crop_id", Value: 1}}, true},
	}

	for _, i := range indexes {
		model := mongo.IndexModel{Keys: i.keys}
		if i.unique {
			model.Options = options.Index().SetUnique(true)
		}
		if _, err := s.col(i.col).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", i.col, err)
		}
	}

	return nil
}
