package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"orbit-social/apps/content-service/model"
	"orbit-social/pkg/apperr"
	"orbit-social/pkg/telemetry"
)

// CanView 单条可见性判定
// 好友关系只查询一次，整个判定基于同一个快照
func (s *Service) CanView(ctx context.Context, viewerID *int64, ownerID int64, visibility string) error {
	ctx, span := telemetry.StartSpan(ctx, "content.service.CanView")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("content.owner_id", ownerID),
		attribute.String("content.visibility", visibility),
	)

	isFriend := false
	if viewerID != nil && *viewerID != ownerID && visibility == model.VisibilityFriends {
		var err error
		isFriend, err = s.relation.IsFriend(ctx, *viewerID, ownerID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to check friendship")
			return fmt.Errorf("查询好友关系失败: %v", err)
		}
	}

	allowed, reason := model.DecideVisibility(viewerID, ownerID, visibility, isFriend)
	if allowed {
		span.SetStatus(codes.Ok, "visible")
		return nil
	}

	span.SetAttributes(attribute.String("content.deny_reason", reason))
	span.SetStatus(codes.Error, "not visible")
	switch reason {
	case model.DenyReasonFriendsOnly:
		return apperr.FriendsOnly("该内容仅好友可见")
	default:
		return apperr.OwnerOnly("该内容仅作者可见")
	}
}

// CanViewPost 判定帖子对访问者是否可见
func (s *Service) CanViewPost(ctx context.Context, viewerID *int64, post *model.Post) error {
	return s.CanView(ctx, viewerID, post.AuthorID, post.Visibility)
}

// Predicate 构造访问者的可见性过滤器
// 过滤器下推到存储层做批量过滤，与CanView逐条判定等价
func (s *Service) Predicate(viewerID *int64) *model.QueryFilter {
	return &model.QueryFilter{ViewerID: viewerID}
}
