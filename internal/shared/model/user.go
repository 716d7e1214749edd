package model

// UserType 用户类型
type UserType string

const (
	UserTypeAdmin UserType = "admin"
	UserTypeUser  UserType = "user"
)

// 激活状态：0=待激活，1=已激活
const (
	ActivationPending = 0
	ActivationActive  = 1
)

// User 村民/管理员账号
//
// ID 是应用层自增主键（由 counters 序列分配），与 MongoDB 的 _id 无关。
// Username 全局唯一，由存储层唯一索引保证。
type User struct {
	ID         int64    `bson:"id" json:"id"`
	Username   string   `bson:"username" json:"username"`
	Name       string   `bson:"name" json:"name"`
	Phone      string   `bson:"phone" json:"phone"`
	Address    string   `bson:"address" json:"address"`
	JobTitle   string   `bson:"job_title" json:"job_title"`
	Email      string   `bson:"email" json:"email"`
	Password   string   `bson:"password" json:"-"` // bcrypt 哈希，不出现在 JSON 中
	Activation int      `bson:"activation" json:"activation"`
	UserType   UserType `bson:"user_type" json:"user_type"`
}

// ProfileUpdate 村民可自助修改的资料字段
type ProfileUpdate struct {
	Name     string
	Phone    string
	Address  string
	JobTitle string
	Email    string
}

// AdminContact 管理员联系方式（/admins 接口的投影）
type AdminContact struct {
	Name     string `bson:"name" json:"name"`
	Phone    string `bson:"phone" json:"phone"`
	JobTitle string `bson:"job_title" json:"job_title"`
}
