package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"orbit-social/apps/content-service/model"
	"orbit-social/pkg/apperr"
	tracecontext "orbit-social/pkg/context"
	"orbit-social/pkg/logger"
	"orbit-social/pkg/snowflake"
	"orbit-social/pkg/telemetry"
)

// CreatePost 发布帖子
func (s *Service) CreatePost(ctx context.Context, authorID int64, title, content, visibility string) (*model.Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "content.service.CreatePost")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("post.author_id", authorID),
		attribute.String("post.visibility", visibility),
	)
	ctx = tracecontext.WithUserID(ctx, authorID)

	if authorID <= 0 {
		span.SetStatus(codes.Error, "invalid user id")
		return nil, fmt.Errorf("用户ID无效")
	}
	if title == "" {
		span.SetStatus(codes.Error, "empty title")
		return nil, fmt.Errorf("标题不能为空")
	}
	if visibility == "" {
		visibility = model.VisibilityPublic
	}
	if !model.ValidateVisibility(visibility) {
		span.SetStatus(codes.Error, "invalid visibility")
		return nil, fmt.Errorf("可见性无效: %s", visibility)
	}

	post := &model.Post{
		ID:         snowflake.GenerateID(),
		AuthorID:   authorID,
		Title:      title,
		Content:    content,
		Visibility: visibility,
		CreatedAt:  time.Now(),
	}
	if err := s.postDAO.CreatePost(ctx, post); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create post")
		return nil, err
	}

	s.publishContentEvent(ctx, &model.ContentEvent{
		EventType: model.EventTypePostCreated,
		ActorID:   authorID,
		PostID:    post.ID,
	})

	s.logger.Info(ctx, "Post created successfully",
		logger.F("postID", post.ID),
		logger.F("authorID", authorID),
		logger.F("visibility", visibility))

	span.SetAttributes(attribute.Int64("post.id", post.ID))
	span.SetStatus(codes.Ok, "post created successfully")
	return post, nil
}

// GetPost 获取帖子（带可见性判定）
// viewerID为nil表示匿名访问
func (s *Service) GetPost(ctx context.Context, viewerID *int64, postID int64) (*model.Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "content.service.GetPost")
	defer span.End()

	span.SetAttributes(attribute.Int64("post.id", postID))
	ctx = tracecontext.WithPostID(ctx, postID)

	if postID <= 0 {
		span.SetStatus(codes.Error, "invalid post id")
		return nil, fmt.Errorf("帖子ID无效")
	}

	post, err := s.postDAO.GetPost(ctx, postID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get post")
		return nil, err
	}
	if post == nil {
		span.SetStatus(codes.Error, "post not found")
		return nil, apperr.NotFound("帖子不存在")
	}

	if err := s.CanViewPost(ctx, viewerID, post); err != nil {
		span.SetAttributes(attribute.String("post.deny_reason", apperr.Reason(err)))
		span.SetStatus(codes.Error, "post not visible")
		return nil, err
	}

	span.SetStatus(codes.Ok, "post retrieved successfully")
	return post, nil
}

// ListPosts 按访问者可见性列出帖子
// authorID大于0时限定作者，过滤条件下推到存储层
func (s *Service) ListPosts(ctx context.Context, viewerID *int64, authorID int64, page, pageSize int32) ([]*model.Post, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "content.service.ListPosts")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("post.author_id", authorID),
		attribute.Int("page", int(page)),
		attribute.Int("page_size", int(pageSize)),
	)

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = model.DefaultPageSize
	}
	if pageSize > model.MaxPageSize {
		pageSize = model.MaxPageSize
	}

	posts, total, err := s.postDAO.ListPosts(ctx, s.Predicate(viewerID), authorID, page, pageSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list posts")
		return nil, 0, err
	}

	span.SetAttributes(attribute.Int("post.count", len(posts)))
	span.SetStatus(codes.Ok, "posts listed successfully")
	return posts, total, nil
}

// DeletePost 删除帖子，仅作者本人可操作
// 删除提交后执行注册的清理回调（评论、点赞等附属数据）
func (s *Service) DeletePost(ctx context.Context, actorID, postID int64) error {
	ctx, span := telemetry.StartSpan(ctx, "content.service.DeletePost")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("post.id", postID),
		attribute.Int64("post.actor_id", actorID),
	)
	ctx = tracecontext.WithUserID(ctx, actorID)

	if actorID <= 0 || postID <= 0 {
		span.SetStatus(codes.Error, "invalid id")
		return fmt.Errorf("参数无效")
	}

	post, err := s.postDAO.GetPost(ctx, postID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get post")
		return err
	}
	if post == nil {
		span.SetStatus(codes.Error, "post not found")
		return apperr.NotFound("帖子不存在")
	}
	if post.AuthorID != actorID {
		span.SetStatus(codes.Error, "not author")
		return apperr.NotAuthorized("仅作者可删除帖子")
	}

	ok, err := s.postDAO.DeletePost(ctx, postID, actorID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to delete post")
		return err
	}
	if !ok {
		span.SetStatus(codes.Error, "post not found")
		return apperr.NotFound("帖子不存在")
	}

	s.runCleanupHooks(ctx, post)
	s.publishContentEvent(ctx, &model.ContentEvent{
		EventType: model.EventTypePostDeleted,
		ActorID:   actorID,
		PostID:    postID,
	})

	s.logger.Info(ctx, "Post deleted successfully",
		logger.F("postID", postID),
		logger.F("actorID", actorID))

	span.SetStatus(codes.Ok, "post deleted successfully")
	return nil
}

// CreateComment 发表评论
// 评论需能看见所属帖子，且与作者之间无拉黑关系
func (s *Service) CreateComment(ctx context.Context, authorID, postID int64, content string) (*model.Comment, error) {
	ctx, span := telemetry.StartSpan(ctx, "content.service.CreateComment")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("comment.author_id", authorID),
		attribute.Int64("post.id", postID),
	)
	ctx = tracecontext.WithUserID(ctx, authorID)

	if authorID <= 0 || postID <= 0 {
		span.SetStatus(codes.Error, "invalid id")
		return nil, fmt.Errorf("参数无效")
	}
	if content == "" {
		span.SetStatus(codes.Error, "empty content")
		return nil, fmt.Errorf("评论内容不能为空")
	}

	post, err := s.postDAO.GetPost(ctx, postID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get post")
		return nil, err
	}
	if post == nil {
		span.SetStatus(codes.Error, "post not found")
		return nil, apperr.NotFound("帖子不存在")
	}

	if err := s.CanViewPost(ctx, &authorID, post); err != nil {
		span.SetStatus(codes.Error, "post not visible")
		return nil, err
	}

	if authorID != post.AuthorID {
		blocked, err := s.relation.EitherBlocked(ctx, authorID, post.AuthorID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to check block")
			return nil, fmt.Errorf("查询拉黑状态失败: %v", err)
		}
		if blocked {
			span.SetStatus(codes.Error, "blocked")
			return nil, apperr.Blocked("存在拉黑关系，无法评论")
		}
	}

	comment := &model.Comment{
		ID:        snowflake.GenerateID(),
		PostID:    postID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.postDAO.CreateComment(ctx, comment); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create comment")
		return nil, err
	}

	s.logger.Info(ctx, "Comment created successfully",
		logger.F("commentID", comment.ID),
		logger.F("postID", postID),
		logger.F("authorID", authorID))

	span.SetAttributes(attribute.Int64("comment.id", comment.ID))
	span.SetStatus(codes.Ok, "comment created successfully")
	return comment, nil
}

// ListComments 获取帖子评论列表
// 能看见帖子即可看见其评论
func (s *Service) ListComments(ctx context.Context, viewerID *int64, postID int64, page, pageSize int32) ([]*model.Comment, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "content.service.ListComments")
	defer span.End()

	span.SetAttributes(attribute.Int64("post.id", postID))

	if _, err := s.GetPost(ctx, viewerID, postID); err != nil {
		span.SetStatus(codes.Error, "post not accessible")
		return nil, 0, err
	}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = model.DefaultPageSize
	}
	if pageSize > model.MaxPageSize {
		pageSize = model.MaxPageSize
	}

	comments, total, err := s.postDAO.ListComments(ctx, postID, page, pageSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list comments")
		return nil, 0, err
	}

	span.SetAttributes(attribute.Int("comment.count", len(comments)))
	span.SetStatus(codes.Ok, "comments listed successfully")
	return comments, total, nil
}

// LikeTarget 点赞帖子或评论
// 前置检查通过后创建记录并在同一事务内维护计数
func (s *Service) LikeTarget(ctx context.Context, actorID int64, targetKind string, targetID int64) (*model.Like, error) {
	ctx, span := telemetry.StartSpan(ctx, "content.service.LikeTarget")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("like.actor_id", actorID),
		attribute.String("like.target_kind", targetKind),
		attribute.Int64("like.target_id", targetID),
	)
	ctx = tracecontext.WithUserID(ctx, actorID)

	if err := s.CanLike(ctx, actorID, targetKind, targetID); err != nil {
		span.SetAttributes(attribute.String("like.deny_reason", apperr.Reason(err)))
		span.SetStatus(codes.Error, "like denied")
		return nil, err
	}

	like := &model.Like{
		ID:         snowflake.GenerateID(),
		UserID:     actorID,
		TargetKind: targetKind,
		TargetID:   targetID,
		CreatedAt:  time.Now(),
	}
	if err := s.likeDAO.CreateLike(ctx, like); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create like")
		return nil, err
	}

	if s.redis != nil {
		cacheKey := model.GetLikeCacheKey(actorID, targetKind, targetID)
		s.redis.Set(ctx, cacheKey, "1", time.Duration(model.CacheExpireLike)*time.Second)
	}

	s.publishContentEvent(ctx, &model.ContentEvent{
		EventType:  model.EventTypeLikeCreated,
		ActorID:    actorID,
		TargetKind: targetKind,
		TargetID:   targetID,
	})

	s.logger.Info(ctx, "Like created successfully",
		logger.F("userID", actorID),
		logger.F("targetKind", targetKind),
		logger.F("targetID", targetID))

	span.SetStatus(codes.Ok, "like created successfully")
	return like, nil
}

// UnlikeTarget 取消点赞
func (s *Service) UnlikeTarget(ctx context.Context, actorID int64, targetKind string, targetID int64) error {
	ctx, span := telemetry.StartSpan(ctx, "content.service.UnlikeTarget")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("like.actor_id", actorID),
		attribute.String("like.target_kind", targetKind),
		attribute.Int64("like.target_id", targetID),
	)
	ctx = tracecontext.WithUserID(ctx, actorID)

	if actorID <= 0 || targetID <= 0 {
		span.SetStatus(codes.Error, "invalid id")
		return fmt.Errorf("参数无效")
	}
	if !model.ValidateTargetKind(targetKind) {
		span.SetStatus(codes.Error, "invalid target kind")
		return fmt.Errorf("点赞目标类型无效: %s", targetKind)
	}

	ok, err := s.likeDAO.DeleteLike(ctx, actorID, targetKind, targetID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to delete like")
		return err
	}
	if !ok {
		span.SetStatus(codes.Error, "like not found")
		return apperr.NotFound("点赞记录不存在")
	}

	if s.redis != nil {
		cacheKey := model.GetLikeCacheKey(actorID, targetKind, targetID)
		s.redis.Del(ctx, cacheKey)
	}

	s.publishContentEvent(ctx, &model.ContentEvent{
		EventType:  model.EventTypeLikeDeleted,
		ActorID:    actorID,
		TargetKind: targetKind,
		TargetID:   targetID,
	})

	span.SetStatus(codes.Ok, "like deleted successfully")
	return nil
}

// CreateChat 建立两人会话
// 通过守门检查后创建；已存在的会话直接返回，保证幂等
func (s *Service) CreateChat(ctx context.Context, creatorID, otherID int64) (*model.Chat, error) {
	ctx, span := telemetry.StartSpan(ctx, "content.service.CreateChat")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("chat.creator_id", creatorID),
		attribute.Int64("chat.other_id", otherID),
	)
	ctx = tracecontext.WithUserID(ctx, creatorID)

	if err := s.CanStartChat(ctx, creatorID, otherID); err != nil {
		span.SetAttributes(attribute.String("chat.deny_reason", apperr.Reason(err)))
		span.SetStatus(codes.Error, "chat denied")
		return nil, err
	}

	existing, err := s.chatDAO.GetChatByMembers(ctx, creatorID, otherID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to check existing chat")
		return nil, err
	}
	if existing != nil {
		span.SetAttributes(attribute.Int64("chat.id", existing.ID))
		span.SetStatus(codes.Ok, "existing chat returned")
		return existing, nil
	}

	chat := &model.Chat{
		ID:        snowflake.GenerateID(),
		MemberAID: creatorID,
		MemberBID: otherID,
		CreatedAt: time.Now(),
	}
	if err := s.chatDAO.CreateChat(ctx, chat); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create chat")
		return nil, err
	}

	s.publishContentEvent(ctx, &model.ContentEvent{
		EventType: model.EventTypeChatCreated,
		ActorID:   creatorID,
		ChatID:    chat.ID,
	})

	s.logger.Info(ctx, "Chat created successfully",
		logger.F("chatID", chat.ID),
		logger.F("creatorID", creatorID),
		logger.F("otherID", otherID))

	span.SetAttributes(attribute.Int64("chat.id", chat.ID))
	span.SetStatus(codes.Ok, "chat created successfully")
	return chat, nil
}

// ListChats 获取用户参与的会话列表
func (s *Service) ListChats(ctx context.Context, userID int64) ([]*model.Chat, error) {
	ctx, span := telemetry.StartSpan(ctx, "content.service.ListChats")
	defer span.End()

	span.SetAttributes(attribute.Int64("chat.user_id", userID))

	if userID <= 0 {
		span.SetStatus(codes.Error, "invalid user id")
		return nil, fmt.Errorf("用户ID无效")
	}

	chats, err := s.chatDAO.ListChats(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list chats")
		return nil, err
	}

	span.SetAttributes(attribute.Int("chat.count", len(chats)))
	span.SetStatus(codes.Ok, "chats listed successfully")
	return chats, nil
}
