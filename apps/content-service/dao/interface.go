package dao

import (
	"context"

	"orbit-social/apps/content-service/model"
)

// PostDAO 帖子数据访问接口
type PostDAO interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPost(ctx context.Context, postID int64) (*model.Post, error)
	// DeletePost 仅删除作者本人的帖子，返回是否命中
	DeletePost(ctx context.Context, postID, authorID int64) (bool, error)
	// ListPosts 按可见性过滤器列出帖子，过滤条件在存储层求值
	ListPosts(ctx context.Context, filter *model.QueryFilter, authorID int64, page, pageSize int32) ([]*model.Post, int64, error)
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetComment(ctx context.Context, commentID int64) (*model.Comment, error)
	ListComments(ctx context.Context, postID int64, page, pageSize int32) ([]*model.Comment, int64, error)
	DeleteCommentsByPost(ctx context.Context, postID int64) error
}

// LikeDAO 点赞数据访问接口
type LikeDAO interface {
	// CreateLike 创建点赞并维护目标计数，重复点赞返回ALREADY_LIKED
	CreateLike(ctx context.Context, like *model.Like) error
	// DeleteLike 删除点赞并维护目标计数，返回是否存在
	DeleteLike(ctx context.Context, userID int64, targetKind string, targetID int64) (bool, error)
	HasLiked(ctx context.Context, userID int64, targetKind string, targetID int64) (bool, error)
	DeleteLikesByTarget(ctx context.Context, targetKind string, targetID int64) error
}

// ChatDAO 会话数据访问接口
type ChatDAO interface {
	CreateChat(ctx context.Context, chat *model.Chat) error
	GetChat(ctx context.Context, chatID int64) (*model.Chat, error)
	GetChatByMembers(ctx context.Context, a, b int64) (*model.Chat, error)
	ListChats(ctx context.Context, userID int64) ([]*model.Chat, error)
}
