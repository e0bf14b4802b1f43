package dao

import (
	"context"

	"orbit-social/apps/relation-service/model"
)

// FriendshipDAO 好友关系数据访问接口
type FriendshipDAO interface {
	CreateFriendship(ctx context.Context, friendship *model.Friendship) error
	GetFriendship(ctx context.Context, friendshipID int64) (*model.Friendship, error)
	GetFriendshipByPair(ctx context.Context, a, b int64) (*model.Friendship, error)
	// UpdateStatusCAS 按当前状态条件更新，返回是否命中（并发转换只有一个赢家）
	UpdateStatusCAS(ctx context.Context, friendshipID int64, fromStatus, toStatus string) (bool, error)
	// DeleteFriendshipCAS 按当前状态条件删除，返回是否命中
	DeleteFriendshipCAS(ctx context.Context, friendshipID int64, status string) (bool, error)
	ListFriends(ctx context.Context, userID int64) ([]*model.Friendship, error)
	ListPendingRequests(ctx context.Context, receiverID int64) ([]*model.Friendship, error)
	ListSentRequests(ctx context.Context, requesterID int64) ([]*model.Friendship, error)
	IsFriend(ctx context.Context, a, b int64) (bool, error)
}

// BlockDAO 拉黑数据访问接口
type BlockDAO interface {
	CreateBlock(ctx context.Context, block *model.Block) error
	GetBlock(ctx context.Context, blockerID, blockedID int64) (*model.Block, error)
	// DeleteBlock 删除拉黑记录，返回是否存在
	DeleteBlock(ctx context.Context, blockerID, blockedID int64) (bool, error)
	ListBlocks(ctx context.Context, blockerID int64) ([]*model.Block, error)
	IsBlocked(ctx context.Context, blockerID, blockedID int64) (bool, error)
	EitherBlocked(ctx context.Context, a, b int64) (bool, error)
}

// PreferenceDAO 通知偏好数据访问接口
type PreferenceDAO interface {
	GetPreference(ctx context.Context, userID int64) (*model.NotificationPreference, error)
	UpsertPreference(ctx context.Context, pref *model.NotificationPreference) error
}
