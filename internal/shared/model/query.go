package model

import "time"

// Query 村民咨询
//
// 与 Suggestion 的区别：咨询按提交人过滤查询，且提交时间由调用方传入
// （缺省为服务端当前时间）。AdminResponse 未答复时不出现在 JSON 中。
type Query struct {
	ID            int64     `bson:"id" json:"id"`
	Username      string    `bson:"username" json:"username"`
	Matter        string    `bson:"matter" json:"matter"`
	Time          time.Time `bson:"time" json:"time"`
	AdminResponse string    `bson:"admin_response,omitempty" json:"admin_response,omitempty"`
}
