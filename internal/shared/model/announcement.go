package model

import "time"

// Announcement 村务公告
type Announcement struct {
	ID        int64     `bson:"id" json:"id"`
	Title     string    `bson:"title" json:"title"`
	Content   string    `bson:"content" json:"content"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
