package dao

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"orbit-social/apps/content-service/model"
	"orbit-social/pkg/database"
)

// postDAO 帖子数据访问对象
type postDAO struct {
	db *database.PostgreSQL
}

// NewPostDAO 创建帖子DAO实例
func NewPostDAO(db *database.PostgreSQL) PostDAO {
	return &postDAO{db: db}
}

// CreatePost 创建帖子
func (d *postDAO) CreatePost(ctx context.Context, post *model.Post) error {
	if err := d.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("创建帖子失败: %v", err)
	}
	return nil
}

// GetPost 按ID获取帖子，不存在返回nil
func (d *postDAO) GetPost(ctx context.Context, postID int64) (*model.Post, error) {
	var post model.Post
	err := d.db.WithContext(ctx).Where("id = ?", postID).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询帖子失败: %v", err)
	}
	return &post, nil
}

// DeletePost 删除作者本人的帖子
func (d *postDAO) DeletePost(ctx context.Context, postID, authorID int64) (bool, error) {
	result := d.db.WithContext(ctx).
		Where("id = ? AND author_id = ?", postID, authorID).
		Delete(&model.Post{})
	if result.Error != nil {
		return false, fmt.Errorf("删除帖子失败: %v", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListPosts 按可见性过滤器列出帖子
// 过滤器编译为查询条件下推到存储层，与单条判定等价
func (d *postDAO) ListPosts(ctx context.Context, filter *model.QueryFilter, authorID int64, page, pageSize int32) ([]*model.Post, int64, error) {
	query := d.db.WithContext(ctx).Model(&model.Post{}).Scopes(filter.Scope())
	if authorID > 0 {
		query = query.Where("posts.author_id = ?", authorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计帖子数量失败: %v", err)
	}

	var posts []*model.Post
	offset := (page - 1) * pageSize
	err := query.Order("posts.created_at DESC").
		Offset(int(offset)).Limit(int(pageSize)).
		Find(&posts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询帖子列表失败: %v", err)
	}

	return posts, total, nil
}

// CreateComment 创建评论
func (d *postDAO) CreateComment(ctx context.Context, comment *model.Comment) error {
	if err := d.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("创建评论失败: %v", err)
	}
	return nil
}

// GetComment 按ID获取评论，不存在返回nil
func (d *postDAO) GetComment(ctx context.Context, commentID int64) (*model.Comment, error) {
	var comment model.Comment
	err := d.db.WithContext(ctx).Where("id = ?", commentID).First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询评论失败: %v", err)
	}
	return &comment, nil
}

// ListComments 获取帖子的评论列表
func (d *postDAO) ListComments(ctx context.Context, postID int64, page, pageSize int32) ([]*model.Comment, int64, error) {
	query := d.db.WithContext(ctx).Model(&model.Comment{}).Where("post_id = ?", postID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计评论数量失败: %v", err)
	}

	var comments []*model.Comment
	offset := (page - 1) * pageSize
	err := query.Order("created_at ASC").
		Offset(int(offset)).Limit(int(pageSize)).
		Find(&comments).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询评论列表失败: %v", err)
	}

	return comments, total, nil
}

// DeleteCommentsByPost 删除帖子下的全部评论
func (d *postDAO) DeleteCommentsByPost(ctx context.Context, postID int64) error {
	if err := d.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&model.Comment{}).Error; err != nil {
		return fmt.Errorf("删除帖子评论失败: %v", err)
	}
	return nil
}
