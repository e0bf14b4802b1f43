package model

import (
	"fmt"
	"time"
)

// Friendship 好友关系表
// 无序对以(pair_min_id, pair_max_id)规范化存储，唯一索引保证
// 任意两人之间最多存在一条记录，查询无需OR两个方向
type Friendship struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	PairMinID   int64     `json:"pair_min_id" gorm:"not null;uniqueIndex:idx_friendship_pair;index:idx_friendship_min_status"`
	PairMaxID   int64     `json:"pair_max_id" gorm:"not null;uniqueIndex:idx_friendship_pair;index:idx_friendship_max_status"`
	RequesterID int64     `json:"requester_id" gorm:"not null"`
	ReceiverID  int64     `json:"receiver_id" gorm:"not null;index"`
	Status      string    `json:"status" gorm:"type:varchar(16);not null;index:idx_friendship_min_status;index:idx_friendship_max_status"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName .
func (Friendship) TableName() string {
	return "friendships"
}

// Involves 判断用户是否为关系的一方
func (f *Friendship) Involves(userID int64) bool {
	return f.RequesterID == userID || f.ReceiverID == userID
}

// Block 拉黑记录表
// 单向事实：blocker_id 拉黑 blocked_id，反方向是独立的另一条记录
type Block struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	BlockerID int64     `json:"blocker_id" gorm:"not null;uniqueIndex:idx_block_pair"`
	BlockedID int64     `json:"blocked_id" gorm:"not null;uniqueIndex:idx_block_pair;index"`
	Reason    string    `json:"reason" gorm:"type:varchar(32);not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName .
func (Block) TableName() string {
	return "blocks"
}

// NotificationPreference 通知偏好（MongoDB文档）
// Notifications缺失的类型按开启处理（未迁移的历史数据默认开启）
type NotificationPreference struct {
	UserID               int64           `json:"user_id" bson:"user_id"`
	Notifications        map[string]bool `json:"notifications" bson:"notifications"`
	MessagePrivacy       string          `json:"message_privacy" bson:"message_privacy"`
	FriendRequestPrivacy string          `json:"friend_request_privacy" bson:"friend_request_privacy"`
	UpdatedAt            int64           `json:"updated_at" bson:"updated_at"`
}

// DefaultNotificationPreference 注册时的全开启默认偏好
func DefaultNotificationPreference(userID int64) *NotificationPreference {
	notifications := make(map[string]bool, len(ValidNotificationKinds))
	for _, kind := range ValidNotificationKinds {
		notifications[kind] = true
	}
	return &NotificationPreference{
		UserID:               userID,
		Notifications:        notifications,
		MessagePrivacy:       MessagePrivacyEveryone,
		FriendRequestPrivacy: FriendRequestPrivacyEveryone,
		UpdatedAt:            time.Now().Unix(),
	}
}

// CanonicalPair 将无序对规范化为(min, max)
func CanonicalPair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}

// GetFriendshipCacheKey 生成好友关系缓存键
func GetFriendshipCacheKey(a, b int64) string {
	minID, maxID := CanonicalPair(a, b)
	return fmt.Sprintf("%s:%d:%d", CacheKeyFriendship, minID, maxID)
}

// GetBlockedCacheKey 生成拉黑关系缓存键
func GetBlockedCacheKey(a, b int64) string {
	minID, maxID := CanonicalPair(a, b)
	return fmt.Sprintf("%s:%d:%d", CacheKeyBlocked, minID, maxID)
}

// RelationEvent 关系事件（用于消息队列）
type RelationEvent struct {
	EventType    string    `json:"event_type"`
	FriendshipID int64     `json:"friendship_id,omitempty"`
	BlockID      int64     `json:"block_id,omitempty"`
	ActorID      int64     `json:"actor_id"`
	TargetID     int64     `json:"target_id"`
	Timestamp    time.Time `json:"timestamp"`
}
