package dao

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"orbit-social/apps/content-service/model"
	"orbit-social/pkg/apperr"
	"orbit-social/pkg/database"
)

// likeDAO 点赞数据访问对象
type likeDAO struct {
	db *database.PostgreSQL
}

// NewLikeDAO 创建点赞DAO实例
func NewLikeDAO(db *database.PostgreSQL) LikeDAO {
	return &likeDAO{db: db}
}

// counterModel 按目标类型分发计数所在的表（封闭集合）
func counterModel(targetKind string) (interface{}, error) {
	switch targetKind {
	case model.TargetKindPost:
		return &model.Post{}, nil
	case model.TargetKindComment:
		return &model.Comment{}, nil
	default:
		return nil, fmt.Errorf("点赞目标类型无效: %s", targetKind)
	}
}

// CreateLike 创建点赞记录并在同一事务内维护计数
// 事务内重查兜底并发重复点赞，唯一索引是最后一道防线
func (d *likeDAO) CreateLike(ctx context.Context, like *model.Like) error {
	target, err := counterModel(like.TargetKind)
	if err != nil {
		return err
	}

	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&model.Like{}).
			Where("user_id = ? AND target_kind = ? AND target_id = ?",
				like.UserID, like.TargetKind, like.TargetID).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("检查点赞记录失败: %v", err)
		}
		if count > 0 {
			return apperr.AlreadyLiked("已点赞过该内容")
		}

		if err := tx.Create(like).Error; err != nil {
			return fmt.Errorf("创建点赞记录失败: %v", err)
		}

		result := tx.Model(target).
			Where("id = ?", like.TargetID).
			Update("like_count", gorm.Expr("like_count + 1"))
		if result.Error != nil {
			return fmt.Errorf("更新点赞计数失败: %v", result.Error)
		}
		return nil
	})
}

// DeleteLike 删除点赞记录并在同一事务内维护计数
func (d *likeDAO) DeleteLike(ctx context.Context, userID int64, targetKind string, targetID int64) (bool, error) {
	target, err := counterModel(targetKind)
	if err != nil {
		return false, err
	}

	var deleted bool
	err = d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND target_kind = ? AND target_id = ?",
			userID, targetKind, targetID).
			Delete(&model.Like{})
		if result.Error != nil {
			return fmt.Errorf("删除点赞记录失败: %v", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil
		}
		deleted = true

		updateResult := tx.Model(target).
			Where("id = ? AND like_count > 0", targetID).
			Update("like_count", gorm.Expr("like_count - 1"))
		if updateResult.Error != nil {
			return fmt.Errorf("更新点赞计数失败: %v", updateResult.Error)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// HasLiked 检查用户是否已点赞目标
func (d *likeDAO) HasLiked(ctx context.Context, userID int64, targetKind string, targetID int64) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND target_kind = ? AND target_id = ?", userID, targetKind, targetID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("检查点赞记录失败: %v", err)
	}
	return count > 0, nil
}

// DeleteLikesByTarget 删除目标下的全部点赞记录（内容删除时的清理）
func (d *likeDAO) DeleteLikesByTarget(ctx context.Context, targetKind string, targetID int64) error {
	if err := d.db.WithContext(ctx).
		Where("target_kind = ? AND target_id = ?", targetKind, targetID).
		Delete(&model.Like{}).Error; err != nil {
		return fmt.Errorf("删除目标点赞记录失败: %v", err)
	}
	return nil
}
