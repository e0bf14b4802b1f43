package model

import (
	"fmt"
	"time"
)

// Post 帖子表
type Post struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	AuthorID   int64     `json:"author_id" gorm:"not null;index"`
	Title      string    `json:"title" gorm:"type:varchar(255);not null"`
	Content    string    `json:"content" gorm:"type:text"`
	Visibility string    `json:"visibility" gorm:"type:varchar(16);not null;index"`
	LikeCount  int64     `json:"like_count" gorm:"default:0"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName .
func (Post) TableName() string {
	return "posts"
}

// Comment 评论表
// 可见性跟随所属帖子，自身不携带可见性字段
type Comment struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	PostID    int64     `json:"post_id" gorm:"not null;index"`
	AuthorID  int64     `json:"author_id" gorm:"not null;index"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	LikeCount int64     `json:"like_count" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName .
func (Comment) TableName() string {
	return "comments"
}

// Like 点赞记录表
// 唯一索引保证同一用户对同一目标只有一条记录
type Like struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	UserID     int64     `json:"user_id" gorm:"not null;uniqueIndex:idx_like_unique"`
	TargetKind string    `json:"target_kind" gorm:"type:varchar(16);not null;uniqueIndex:idx_like_unique"`
	TargetID   int64     `json:"target_id" gorm:"not null;uniqueIndex:idx_like_unique;index"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName .
func (Like) TableName() string {
	return "likes"
}

// Chat 两人会话表
type Chat struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	MemberAID int64     `json:"member_a_id" gorm:"not null;index"`
	MemberBID int64     `json:"member_b_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName .
func (Chat) TableName() string {
	return "chats"
}

// HasMember 判断用户是否为会话成员
func (c *Chat) HasMember(userID int64) bool {
	return c.MemberAID == userID || c.MemberBID == userID
}

// OtherMember 获取会话中的另一方
func (c *Chat) OtherMember(userID int64) int64 {
	if c.MemberAID == userID {
		return c.MemberBID
	}
	return c.MemberAID
}

// GetLikeCacheKey 生成点赞状态缓存键
func GetLikeCacheKey(userID int64, targetKind string, targetID int64) string {
	return fmt.Sprintf("%s:%d:%s:%d", CacheKeyLike, userID, targetKind, targetID)
}

// ContentEvent 内容事件（用于消息队列）
type ContentEvent struct {
	EventType  string    `json:"event_type"`
	ActorID    int64     `json:"actor_id"`
	PostID     int64     `json:"post_id,omitempty"`
	ChatID     int64     `json:"chat_id,omitempty"`
	TargetKind string    `json:"target_kind,omitempty"`
	TargetID   int64     `json:"target_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
