package dao

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"orbit-social/apps/relation-service/model"
	"orbit-social/pkg/database"
)

// friendshipDAO 好友关系数据访问对象
type friendshipDAO struct {
	db *database.PostgreSQL
}

// NewFriendshipDAO 创建好友关系DAO实例
func NewFriendshipDAO(db *database.PostgreSQL) FriendshipDAO {
	return &friendshipDAO{db: db}
}

// CreateFriendship 创建好友关系记录
// 规范化无序对上的唯一索引兜底并发重复创建
func (d *friendshipDAO) CreateFriendship(ctx context.Context, friendship *model.Friendship) error {
	friendship.PairMinID, friendship.PairMaxID = model.CanonicalPair(friendship.RequesterID, friendship.ReceiverID)
	if err := d.db.WithContext(ctx).Create(friendship).Error; err != nil {
		return fmt.Errorf("创建好友关系失败: %v", err)
	}
	return nil
}

// GetFriendship 按ID获取好友关系，不存在返回nil
func (d *friendshipDAO) GetFriendship(ctx context.Context, friendshipID int64) (*model.Friendship, error) {
	var friendship model.Friendship
	err := d.db.WithContext(ctx).Where("id = ?", friendshipID).First(&friendship).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询好友关系失败: %v", err)
	}
	return &friendship, nil
}

// GetFriendshipByPair 按无序对获取好友关系，任意方向视为同一对
func (d *friendshipDAO) GetFriendshipByPair(ctx context.Context, a, b int64) (*model.Friendship, error) {
	minID, maxID := model.CanonicalPair(a, b)

	var friendship model.Friendship
	err := d.db.WithContext(ctx).
		Where("pair_min_id = ? AND pair_max_id = ?", minID, maxID).
		First(&friendship).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询好友关系失败: %v", err)
	}
	return &friendship, nil
}

// UpdateStatusCAS 按当前状态条件更新状态
func (d *friendshipDAO) UpdateStatusCAS(ctx context.Context, friendshipID int64, fromStatus, toStatus string) (bool, error) {
	result := d.db.WithContext(ctx).Model(&model.Friendship{}).
		Where("id = ? AND status = ?", friendshipID, fromStatus).
		Update("status", toStatus)
	if result.Error != nil {
		return false, fmt.Errorf("更新好友关系状态失败: %v", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DeleteFriendshipCAS 按当前状态条件删除记录
func (d *friendshipDAO) DeleteFriendshipCAS(ctx context.Context, friendshipID int64, status string) (bool, error) {
	result := d.db.WithContext(ctx).
		Where("id = ? AND status = ?", friendshipID, status).
		Delete(&model.Friendship{})
	if result.Error != nil {
		return false, fmt.Errorf("删除好友关系失败: %v", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListFriends 获取用户的全部已接受好友关系
func (d *friendshipDAO) ListFriends(ctx context.Context, userID int64) ([]*model.Friendship, error) {
	var friendships []*model.Friendship
	err := d.db.WithContext(ctx).
		Where("(pair_min_id = ? OR pair_max_id = ?) AND status = ?",
			userID, userID, model.FriendshipStatusAccepted).
		Order("created_at DESC").
		Find(&friendships).Error
	if err != nil {
		return nil, fmt.Errorf("查询好友列表失败: %v", err)
	}
	return friendships, nil
}

// ListPendingRequests 获取用户收到的待处理申请
func (d *friendshipDAO) ListPendingRequests(ctx context.Context, receiverID int64) ([]*model.Friendship, error) {
	var friendships []*model.Friendship
	err := d.db.WithContext(ctx).
		Where("receiver_id = ? AND status = ?", receiverID, model.FriendshipStatusPending).
		Order("created_at DESC").
		Find(&friendships).Error
	if err != nil {
		return nil, fmt.Errorf("查询好友申请列表失败: %v", err)
	}
	return friendships, nil
}

// ListSentRequests 获取用户发出的待处理申请
func (d *friendshipDAO) ListSentRequests(ctx context.Context, requesterID int64) ([]*model.Friendship, error) {
	var friendships []*model.Friendship
	err := d.db.WithContext(ctx).
		Where("requester_id = ? AND status = ?", requesterID, model.FriendshipStatusPending).
		Order("created_at DESC").
		Find(&friendships).Error
	if err != nil {
		return nil, fmt.Errorf("查询已发出申请列表失败: %v", err)
	}
	return friendships, nil
}

// IsFriend 检查两人是否为已接受的好友，单次索引查询
func (d *friendshipDAO) IsFriend(ctx context.Context, a, b int64) (bool, error) {
	minID, maxID := model.CanonicalPair(a, b)

	var count int64
	err := d.db.WithContext(ctx).Model(&model.Friendship{}).
		Where("pair_min_id = ? AND pair_max_id = ? AND status = ?",
			minID, maxID, model.FriendshipStatusAccepted).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("检查好友关系失败: %v", err)
	}
	return count > 0, nil
}
