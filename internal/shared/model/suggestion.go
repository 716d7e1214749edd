package model

import "time"

// Suggestion 村民建议
//
// Response 为管理员答复，未答复时为空字符串且不出现在 JSON 中。
type Suggestion struct {
	ID        int64     `bson:"id" json:"id"`
	Title     string    `bson:"title" json:"title"`
	Content   string    `bson:"content" json:"content"`
	Username  string    `bson:"username" json:"username"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	Response  string    `bson:"response,omitempty" json:"response,omitempty"`
}
