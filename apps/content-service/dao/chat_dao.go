package dao

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"orbit-social/apps/content-service/model"
	"orbit-social/pkg/database"
)

// chatDAO 会话数据访问对象
type chatDAO struct {
	db *database.PostgreSQL
}

// NewChatDAO 创建会话DAO实例
func NewChatDAO(db *database.PostgreSQL) ChatDAO {
	return &chatDAO{db: db}
}

// CreateChat 创建会话
func (d *chatDAO) CreateChat(ctx context.Context, chat *model.Chat) error {
	if err := d.db.WithContext(ctx).Create(chat).Error; err != nil {
		return fmt.Errorf("创建会话失败: %v", err)
	}
	return nil
}

// GetChat 按ID获取会话，不存在返回nil
func (d *chatDAO) GetChat(ctx context.Context, chatID int64) (*model.Chat, error) {
	var chat model.Chat
	err := d.db.WithContext(ctx).Where("id = ?", chatID).First(&chat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询会话失败: %v", err)
	}
	return &chat, nil
}

// GetChatByMembers 按成员无序对获取会话，不存在返回nil
func (d *chatDAO) GetChatByMembers(ctx context.Context, a, b int64) (*model.Chat, error) {
	var chat model.Chat
	err := d.db.WithContext(ctx).
		Where("(member_a_id = ? AND member_b_id = ?) OR (member_a_id = ? AND member_b_id = ?)",
			a, b, b, a).
		First(&chat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询会话失败: %v", err)
	}
	return &chat, nil
}

// ListChats 获取用户参与的全部会话
func (d *chatDAO) ListChats(ctx context.Context, userID int64) ([]*model.Chat, error) {
	var chats []*model.Chat
	err := d.db.WithContext(ctx).
		Where("member_a_id = ? OR member_b_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&chats).Error
	if err != nil {
		return nil, fmt.Errorf("查询会话列表失败: %v", err)
	}
	return chats, nil
}
