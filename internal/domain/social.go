package domain

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	Username  string    `gorm:"column:username;not null;uniqueIndex" json:"username"`
	Nickname  string    `gorm:"column:nickname;not null" json:"nickname"`
	Avatar    *string   `gorm:"column:avatar" json:"avatar"`
	Bio       string    `gorm:"column:bio;type:text" json:"bio"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

func (User) TableName() string { return "users" }

type Post struct {
	ID        string                      `gorm:"primaryKey;column:id" json:"id"`
	UserID    string                      `gorm:"column:user_id;not null;index" json:"user_id"`
	Content   string                      `gorm:"column:content;type:text;not null" json:"content"`
	Images    datatypes.JSONSlice[string] `gorm:"column:images" json:"images"`
	CreatedAt time.Time                   `gorm:"column:created_at;not null;index" json:"created_at"`
}

func (Post) TableName() string { return "posts" }

type Comment struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	PostID    string    `gorm:"column:post_id;not null;index" json:"post_id"`
	UserID    string    `gorm:"column:user_id;not null" json:"user_id"`
	Content   string    `gorm:"column:content;type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

func (Comment) TableName() string { return "comments" }

// Like is a presence-only edge: the row existing is the whole state.
type Like struct {
	UserID string `gorm:"primaryKey;column:user_id" json:"user_id"`
	PostID string `gorm:"primaryKey;column:post_id;index" json:"post_id"`
}

func (Like) TableName() string { return "likes" }

func (l Like) EdgeKey() (subject, object string) { return l.UserID, l.PostID }

// Follow is a presence-only edge from UserID to TargetUserID.
type Follow struct {
	UserID       string `gorm:"primaryKey;column:user_id" json:"user_id"`
	TargetUserID string `gorm:"primaryKey;column:target_user_id;index" json:"target_user_id"`
}

func (Follow) TableName() string { return "follows" }

func (f Follow) EdgeKey() (subject, object string) { return f.UserID, f.TargetUserID }
