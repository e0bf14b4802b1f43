package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"orbit-social/apps/content-service/model"
	relationmodel "orbit-social/apps/relation-service/model"
	"orbit-social/pkg/apperr"
	"orbit-social/pkg/telemetry"
)

// CanSendFriendRequest 检查发起好友申请的全部前置条件，不产生任何写入
// 检查顺序：自指 -> 拉黑 -> 对方隐私设置 -> 已有关系
func (s *Service) CanSendFriendRequest(ctx context.Context, requesterID, receiverID int64) error {
	ctx, span := telemetry.StartSpan(ctx, "content.service.CanSendFriendRequest")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("gate.requester_id", requesterID),
		attribute.Int64("gate.receiver_id", receiverID),
	)

	if requesterID <= 0 || receiverID <= 0 {
		span.SetStatus(codes.Error, "invalid user id")
		return fmt.Errorf("用户ID无效")
	}

	if err := s.relation.CheckFriendRequest(ctx, requesterID, receiverID); err != nil {
		span.SetAttributes(attribute.String("gate.deny_reason", apperr.Reason(err)))
		span.SetStatus(codes.Error, "friend request denied")
		return err
	}

	span.SetStatus(codes.Ok, "friend request allowed")
	return nil
}

// CanStartChat 检查能否与对方建立会话
// 拉黑优先于隐私设置：任一方向拉黑即拒绝，与对方设置无关
func (s *Service) CanStartChat(ctx context.Context, senderID, recipientID int64) error {
	ctx, span := telemetry.StartSpan(ctx, "content.service.CanStartChat")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("gate.sender_id", senderID),
		attribute.Int64("gate.recipient_id", recipientID),
	)

	if senderID <= 0 || recipientID <= 0 {
		span.SetStatus(codes.Error, "invalid user id")
		return fmt.Errorf("用户ID无效")
	}
	if senderID == recipientID {
		span.SetStatus(codes.Error, "self chat")
		return apperr.SelfReference("不能与自己建立会话")
	}

	blocked, err := s.relation.EitherBlocked(ctx, senderID, recipientID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to check block")
		return fmt.Errorf("查询拉黑状态失败: %v", err)
	}
	if blocked {
		span.SetStatus(codes.Error, "blocked")
		return apperr.Blocked("存在拉黑关系，无法建立会话")
	}

	privacy, err := s.preferences.MessagePrivacy(ctx, recipientID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get message privacy")
		return fmt.Errorf("查询消息隐私设置失败: %v", err)
	}

	switch privacy {
	case relationmodel.MessagePrivacyEveryone:
	case relationmodel.MessagePrivacyFriendsOnly:
		isFriend, err := s.relation.IsFriend(ctx, senderID, recipientID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to check friendship")
			return fmt.Errorf("查询好友关系失败: %v", err)
		}
		if !isFriend {
			span.SetStatus(codes.Error, "privacy disabled")
			return apperr.PrivacyDisabled("对方仅接收好友的消息")
		}
	case relationmodel.MessagePrivacyNoOne:
		span.SetStatus(codes.Error, "privacy disabled")
		return apperr.PrivacyDisabled("对方关闭了私信")
	default:
		// 未知设置按最严格处理
		span.SetStatus(codes.Error, "privacy disabled")
		return apperr.PrivacyDisabled("对方关闭了私信")
	}

	span.SetStatus(codes.Ok, "chat allowed")
	return nil
}

// CanMessage 检查能否在已有会话中发消息
// 成员资格先于拉黑检查；会话在拉黑后保留，但消息被切断
func (s *Service) CanMessage(ctx context.Context, senderID, chatID int64) error {
	ctx, span := telemetry.StartSpan(ctx, "content.service.CanMessage")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("gate.sender_id", senderID),
		attribute.Int64("chat.id", chatID),
	)

	if senderID <= 0 || chatID <= 0 {
		span.SetStatus(codes.Error, "invalid id")
		return fmt.Errorf("参数无效")
	}

	chat, err := s.chatDAO.GetChat(ctx, chatID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get chat")
		return err
	}
	if chat == nil {
		span.SetStatus(codes.Error, "chat not found")
		return apperr.NotFound("会话不存在")
	}
	if !chat.HasMember(senderID) {
		span.SetStatus(codes.Error, "not participant")
		return apperr.NotParticipant("不是该会话的成员")
	}

	blocked, err := s.relation.EitherBlocked(ctx, senderID, chat.OtherMember(senderID))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to check block")
		return fmt.Errorf("查询拉黑状态失败: %v", err)
	}
	if blocked {
		span.SetStatus(codes.Error, "blocked")
		return apperr.Blocked("存在拉黑关系，无法发送消息")
	}

	span.SetStatus(codes.Ok, "message allowed")
	return nil
}

// CanLike 检查能否点赞目标
// 目标类型是封闭集合：评论的可见性跟随所属帖子
func (s *Service) CanLike(ctx context.Context, actorID int64, targetKind string, targetID int64) error {
	ctx, span := telemetry.StartSpan(ctx, "content.service.CanLike")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("gate.actor_id", actorID),
		attribute.String("like.target_kind", targetKind),
		attribute.Int64("like.target_id", targetID),
	)

	if actorID <= 0 || targetID <= 0 {
		span.SetStatus(codes.Error, "invalid id")
		return fmt.Errorf("参数无效")
	}
	if !model.ValidateTargetKind(targetKind) {
		span.SetStatus(codes.Error, "invalid target kind")
		return fmt.Errorf("点赞目标类型无效: %s", targetKind)
	}

	post, err := s.resolveTargetPost(ctx, targetKind, targetID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to resolve target")
		return err
	}

	if err := s.CanViewPost(ctx, &actorID, post); err != nil {
		span.SetAttributes(attribute.String("gate.deny_reason", apperr.Reason(err)))
		span.SetStatus(codes.Error, "target not visible")
		return err
	}

	liked, err := s.likeDAO.HasLiked(ctx, actorID, targetKind, targetID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to check like")
		return err
	}
	if liked {
		span.SetStatus(codes.Error, "already liked")
		return apperr.AlreadyLiked("已点赞过该内容")
	}

	span.SetStatus(codes.Ok, "like allowed")
	return nil
}

// resolveTargetPost 解析点赞目标所属的帖子（可见性判定的锚点）
func (s *Service) resolveTargetPost(ctx context.Context, targetKind string, targetID int64) (*model.Post, error) {
	switch targetKind {
	case model.TargetKindPost:
		post, err := s.postDAO.GetPost(ctx, targetID)
		if err != nil {
			return nil, err
		}
		if post == nil {
			return nil, apperr.NotFound("帖子不存在")
		}
		return post, nil
	case model.TargetKindComment:
		comment, err := s.postDAO.GetComment(ctx, targetID)
		if err != nil {
			return nil, err
		}
		if comment == nil {
			return nil, apperr.NotFound("评论不存在")
		}
		post, err := s.postDAO.GetPost(ctx, comment.PostID)
		if err != nil {
			return nil, err
		}
		if post == nil {
			return nil, apperr.NotFound("评论所属帖子不存在")
		}
		return post, nil
	default:
		return nil, fmt.Errorf("点赞目标类型无效: %s", targetKind)
	}
}
