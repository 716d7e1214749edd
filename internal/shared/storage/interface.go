// Package storage 持久化存储层抽象接口
//
// 设计原则：依赖倒置 (DIP)
//   - Handler 只依赖这里的窄接口，不知道具体实现
//   - 具体实现在子包中：mongostore/（生产）、memstore/（测试）
//   - 初始化时通过依赖注入传入实现
package storage

import (
	"context"

	"village-admin/internal/shared/model"
)

// ============================================================================
// 序列
// ============================================================================

// SequenceStore 命名自增序列
//
// NextSequence 必须是存储端的单条原子自增（increment-and-fetch），
// 并发调用同一序列名时不得出现重复值或丢失自增。
// 自增成功后实体插入失败造成的 id 空洞是可接受的，无补偿回滚。
type SequenceStore interface {
	// NextSequence 返回序列的下一个值；计数器未预置时返回 ErrSequenceNotInitialized
	NextSequence(ctx context.Context, name string) (int64, error)

	// EnsureSequence 预置计数器（已存在则不动），仅供启动引导使用
	EnsureSequence(ctx context.Context, name string, start int64) error
}

// ============================================================================
// 用户
// ============================================================================

// UserStore 用户存储
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error

	// GetUserByUsername 不存在时返回 (nil, nil)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)

	// UpdateUserActivation 不存在时返回 ErrNotFound
	UpdateUserActivation(ctx context.Context, id int64, activation int) error

	// UpdateUserProfile 按 username 更新资料字段，不存在时返回 ErrNotFound
	UpdateUserProfile(ctx context.Context, username string, p model.ProfileUpdate) error

	// DeleteUser 删除用户；userType 为空表示不限类型。
	// 无匹配时返回 ErrNotFound（调用方可以选择忽略）。
	DeleteUser(ctx context.Context, id int64, userType model.UserType) error

	ListPendingUsers(ctx context.Context) ([]*model.User, error)
	ListActiveUsers(ctx context.Context) ([]*model.User, error)

	// ListAdmins 列出管理员，excludeID > 0 时排除该 id（种子管理员）
	ListAdmins(ctx context.Context, excludeID int64) ([]*model.User, error)

	ListAdminContacts(ctx context.Context) ([]*model.AdminContact, error)
}

// ============================================================================
// 公告
// ============================================================================

// AnnouncementStore 公告存储
type AnnouncementStore interface {
	CreateAnnouncement(ctx context.Context, a *model.Announcement) error
	ListAnnouncements(ctx context.Context) ([]*model.Announcement, error)
	UpdateAnnouncement(ctx context.Context, id int64, title, content string) error
	DeleteAnnouncement(ctx context.Context, id int64) error
}

// ============================================================================
// 建议与咨询
// ============================================================================

// SuggestionStore 建议存储
type SuggestionStore interface {
	CreateSuggestion(ctx context.Context, s *model.Suggestion) error
	ListSuggestions(ctx context.Context) ([]*model.Suggestion, error)
	RespondSuggestion(ctx context.Context, id int64, response string) error
}

// QueryStore 咨询存储
type QueryStore interface {
	CreateQuery(ctx context.Context, q *model.Query) error
	ListQueries(ctx context.Context) ([]*model.Query, error)
	ListQueriesByUsername(ctx context.Context, username string) ([]*model.Query, error)
	RespondQuery(ctx context.Context, id int64, response string) error
}

// ============================================================================
// 行情（地点/作物/价格）
// ============================================================================

// MarketStore 行情参考数据存储
type MarketStore interface {
	ListPlaces(ctx context.Context) ([]*model.Place, error)

	CreateCrop(ctx context.Context, c *model.Crop) error
	ListCrops(ctx context.Context) ([]*model.Crop, error)
	UpdateCrop(ctx context.Context, id int64, cropName string, avgPrice model.FlexValue) error
	UpdateCropAvgPrice(ctx context.Context, id int64, avgPrice model.FlexValue) error

	CreatePrice(ctx context.Context, p *model.Price) error
	UpdatePrice(ctx context.Context, id int64, price model.FlexValue, monthYear string) error

	// CropsForPlace 价格记录左连接作物参考数据；无记录时返回空切片而非错误，
	// 作物引用悬空时以 crop_name="Unknown"、avg_price=0 兜底
	CropsForPlace(ctx context.Context, placeID int64) ([]*model.CropPriceRow, error)
}

// ============================================================================
// 聚合接口
// ============================================================================

// PersistentStore 持久化存储的完整能力集
type PersistentStore interface {
	SequenceStore
	UserStore
	AnnouncementStore
	SuggestionStore
	QueryStore
	MarketStore

	Close() error
}
