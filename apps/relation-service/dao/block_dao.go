package dao

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"orbit-social/apps/relation-service/model"
	"orbit-social/pkg/database"
)

// blockDAO 拉黑数据访问对象
type blockDAO struct {
	db *database.PostgreSQL
}

// NewBlockDAO 创建拉黑DAO实例
func NewBlockDAO(db *database.PostgreSQL) BlockDAO {
	return &blockDAO{db: db}
}

// CreateBlock 创建拉黑记录
func (d *blockDAO) CreateBlock(ctx context.Context, block *model.Block) error {
	if err := d.db.WithContext(ctx).Create(block).Error; err != nil {
		return fmt.Errorf("创建拉黑记录失败: %v", err)
	}
	return nil
}

// GetBlock 获取指定方向的拉黑记录，不存在返回nil
func (d *blockDAO) GetBlock(ctx context.Context, blockerID, blockedID int64) (*model.Block, error) {
	var block model.Block
	err := d.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		First(&block).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询拉黑记录失败: %v", err)
	}
	return &block, nil
}

// DeleteBlock 删除拉黑记录，返回是否存在
func (d *blockDAO) DeleteBlock(ctx context.Context, blockerID, blockedID int64) (bool, error) {
	result := d.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&model.Block{})
	if result.Error != nil {
		return false, fmt.Errorf("删除拉黑记录失败: %v", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListBlocks 获取用户发起的全部拉黑记录
func (d *blockDAO) ListBlocks(ctx context.Context, blockerID int64) ([]*model.Block, error) {
	var blocks []*model.Block
	err := d.db.WithContext(ctx).
		Where("blocker_id = ?", blockerID).
		Order("created_at DESC").
		Find(&blocks).Error
	if err != nil {
		return nil, fmt.Errorf("查询拉黑列表失败: %v", err)
	}
	return blocks, nil
}

// IsBlocked 检查a是否拉黑了b（单方向）
func (d *blockDAO) IsBlocked(ctx context.Context, blockerID, blockedID int64) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&model.Block{}).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("检查拉黑关系失败: %v", err)
	}
	return count > 0, nil
}

// EitherBlocked 检查任一方向是否存在拉黑，单次查询覆盖两个方向
func (d *blockDAO) EitherBlocked(ctx context.Context, a, b int64) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&model.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)",
			a, b, b, a).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("检查拉黑关系失败: %v", err)
	}
	return count > 0, nil
}
