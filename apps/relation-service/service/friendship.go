package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"orbit-social/apps/relation-service/model"
	"orbit-social/pkg/apperr"
	tracecontext "orbit-social/pkg/context"
	"orbit-social/pkg/logger"
	"orbit-social/pkg/snowflake"
	"orbit-social/pkg/telemetry"
)

// CheckFriendRequest 校验发送好友申请的全部前置条件，不做任何变更
// 自己对自己、存在任一方向拉黑、对方关闭申请、该无序对已有记录时拒绝
func (s *Service) CheckFriendRequest(ctx context.Context, requesterID, receiverID int64) error {
	if requesterID <= 0 || receiverID <= 0 {
		return fmt.Errorf("用户ID无效")
	}
	if requesterID == receiverID {
		return apperr.SelfReference("不能向自己发送好友申请")
	}

	// 任一方向的拉黑都阻断申请，优先于隐私设置检查
	blocked, err := s.EitherBlocked(ctx, requesterID, receiverID)
	if err != nil {
		return err
	}
	if blocked {
		return apperr.Blocked("存在拉黑关系，无法发送好友申请")
	}

	// 对方关闭了好友申请
	pref, err := s.preferenceDAO.GetPreference(ctx, receiverID)
	if err != nil {
		return err
	}
	if pref != nil && pref.FriendRequestPrivacy == model.FriendRequestPrivacyNoOne {
		return apperr.RequestsDisabled("对方关闭了好友申请")
	}

	// 无序对上已有记录（任意方向、任意状态）都视为重复
	existing, err := s.friendshipDAO.GetFriendshipByPair(ctx, requesterID, receiverID)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperr.DuplicateRequest("该用户之间已存在好友申请或好友关系")
	}
	return nil
}

// SendFriendRequest 发送好友申请
func (s *Service) SendFriendRequest(ctx context.Context, requesterID, receiverID int64) (*model.Friendship, error) {
	ctx, span := telemetry.StartSpan(ctx, "relation.service.SendFriendRequest")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("friendship.requester_id", requesterID),
		attribute.Int64("friendship.receiver_id", receiverID),
	)
	ctx = tracecontext.WithUserID(ctx, requesterID)

	if err := s.CheckFriendRequest(ctx, requesterID, receiverID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "friend request precondition failed")
		return nil, err
	}

	friendship := &model.Friendship{
		ID:          snowflake.GenerateID(),
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		Status:      model.FriendshipStatusPending,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.friendshipDAO.CreateFriendship(ctx, friendship); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create friendship")
		return nil, err
	}

	s.invalidatePairCache(ctx, requesterID, receiverID)

	s.logger.Info(ctx, "Friend request sent successfully",
		logger.F("friendshipID", friendship.ID),
		logger.F("requesterID", requesterID),
		logger.F("receiverID", receiverID))

	span.SetStatus(codes.Ok, "friend request sent successfully")
	return friendship, nil
}

// AcceptFriendRequest 接受好友申请
// 仅接收方可接受，仅pending可接受；状态条件更新保证并发下只有一个赢家
func (s *Service) AcceptFriendRequest(ctx context.Context, friendshipID, actorID int64) (*model.Friendship, error) {
	ctx, span := telemetry.StartSpan(ctx, "relation.service.AcceptFriendRequest")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("friendship.id", friendshipID),
		attribute.Int64("friendship.actor_id", actorID),
	)
	ctx = tracecontext.WithUserID(ctx, actorID)

	friendship, err := s.friendshipDAO.GetFriendship(ctx, friendshipID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get friendship")
		return nil, err
	}
	if friendship == nil {
		span.SetStatus(codes.Error, "friendship not found")
		return nil, apperr.NotFound("好友申请不存在")
	}
	if friendship.ReceiverID != actorID {
		span.SetStatus(codes.Error, "actor is not receiver")
		return nil, apperr.NotAuthorized("只有接收方可以接受好友申请")
	}
	if friendship.Status != model.FriendshipStatusPending {
		span.SetStatus(codes.Error, "friendship not pending")
		return nil, apperr.InvalidState("该申请不在待处理状态")
	}

	ok, err := s.friendshipDAO.UpdateStatusCAS(ctx, friendshipID,
		model.FriendshipStatusPending, model.FriendshipStatusAccepted)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to update status")
		return nil, err
	}
	if !ok {
		// 并发的Accept/Reject抢先完成了转换
		span.SetStatus(codes.Error, "lost transition race")
		return nil, apperr.InvalidState("该申请不在待处理状态")
	}

	friendship.Status = model.FriendshipStatusAccepted
	friendship.UpdatedAt = time.Now()

	s.invalidatePairCache(ctx, friendship.RequesterID, friendship.ReceiverID)
	s.publishRelationEvent(ctx, &model.RelationEvent{
		EventType:    model.EventTypeFriendshipAccepted,
		FriendshipID: friendship.ID,
		ActorID:      actorID,
		TargetID:     friendship.RequesterID,
	})

	s.logger.Info(ctx, "Friend request accepted successfully",
		logger.F("friendshipID", friendshipID),
		logger.F("actorID", actorID))

	span.SetStatus(codes.Ok, "friend request accepted successfully")
	return friendship, nil
}

// RejectFriendRequest 拒绝好友申请
// 仅接收方可拒绝，仅pending可拒绝；记录直接删除，不保留rejected状态
func (s *Service) RejectFriendRequest(ctx context.Context, friendshipID, actorID int64) error {
	ctx, span := telemetry.StartSpan(ctx, "relation.service.RejectFriendRequest")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("friendship.id", friendshipID),
		attribute.Int64("friendship.actor_id", actorID),
	)
	ctx = tracecontext.WithUserID(ctx, actorID)

	friendship, err := s.friendshipDAO.GetFriendship(ctx, friendshipID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get friendship")
		return err
	}
	if friendship == nil {
		span.SetStatus(codes.Error, "friendship not found")
		return apperr.NotFound("好友申请不存在")
	}
	if friendship.ReceiverID != actorID {
		span.SetStatus(codes.Error, "actor is not receiver")
		return apperr.NotAuthorized("只有接收方可以拒绝好友申请")
	}
	if friendship.Status != model.FriendshipStatusPending {
		span.SetStatus(codes.Error, "friendship not pending")
		return apperr.InvalidState("该申请不在待处理状态")
	}

	ok, err := s.friendshipDAO.DeleteFriendshipCAS(ctx, friendshipID, model.FriendshipStatusPending)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to delete friendship")
		return err
	}
	if !ok {
		span.SetStatus(codes.Error, "lost transition race")
		return apperr.InvalidState("该申请不在待处理状态")
	}

	s.invalidatePairCache(ctx, friendship.RequesterID, friendship.ReceiverID)

	s.logger.Info(ctx, "Friend request rejected successfully",
		logger.F("friendshipID", friendshipID),
		logger.F("actorID", actorID))

	span.SetStatus(codes.Ok, "friend request rejected successfully")
	return nil
}

// CancelFriendRequest 撤回好友申请
// 仅申请方可撤回，仅pending可撤回；记录直接删除
func (s *Service) CancelFriendRequest(ctx context.Context, friendshipID, actorID int64) error {
	ctx, span := telemetry.StartSpan(ctx, "relation.service.CancelFriendRequest")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("friendship.id", friendshipID),
		attribute.Int64("friendship.actor_id", actorID),
	)
	ctx = tracecontext.WithUserID(ctx, actorID)

	friendship, err := s.friendshipDAO.GetFriendship(ctx, friendshipID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get friendship")
		return err
	}
	if friendship == nil {
		span.SetStatus(codes.Error, "friendship not found")
		return apperr.NotFound("好友申请不存在")
	}
	if friendship.RequesterID != actorID {
		span.SetStatus(codes.Error, "actor is not requester")
		return apperr.NotAuthorized("只有申请方可以撤回好友申请")
	}
	if friendship.Status != model.FriendshipStatusPending {
		span.SetStatus(codes.Error, "friendship not pending")
		return apperr.InvalidState("该申请不在待处理状态")
	}

	ok, err := s.friendshipDAO.DeleteFriendshipCAS(ctx, friendshipID, model.FriendshipStatusPending)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to delete friendship")
		return err
	}
	if !ok {
		span.SetStatus(codes.Error, "lost transition race")
		return apperr.InvalidState("该申请不在待处理状态")
	}

	s.invalidatePairCache(ctx, friendship.RequesterID, friendship.ReceiverID)

	s.logger.Info(ctx, "Friend request cancelled successfully",
		logger.F("friendshipID", friendshipID),
		logger.F("actorID", actorID))

	span.SetStatus(codes.Ok, "friend request cancelled successfully")
	return nil
}

// RemoveFriend 删除好友
// 双方任一人可删除，仅accepted可删除；记录直接删除
func (s *Service) RemoveFriend(ctx context.Context, friendshipID, actorID int64) error {
	ctx, span := telemetry.StartSpan(ctx, "relation.service.RemoveFriend")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("friendship.id", friendshipID),
		attribute.Int64("friendship.actor_id", actorID),
	)
	ctx = tracecontext.WithUserID(ctx, actorID)

	friendship, err := s.friendshipDAO.GetFriendship(ctx, friendshipID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get friendship")
		return err
	}
	if friendship == nil {
		span.SetStatus(codes.Error, "friendship not found")
		return apperr.NotFound("好友关系不存在")
	}
	if !friendship.Involves(actorID) {
		span.SetStatus(codes.Error, "actor is not a party")
		return apperr.NotAuthorized("只有好友关系双方可以删除好友")
	}
	if friendship.Status != model.FriendshipStatusAccepted {
		span.SetStatus(codes.Error, "friendship not accepted")
		return apperr.InvalidState("该关系不是已接受的好友关系")
	}

	ok, err := s.friendshipDAO.DeleteFriendshipCAS(ctx, friendshipID, model.FriendshipStatusAccepted)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to delete friendship")
		return err
	}
	if !ok {
		span.SetStatus(codes.Error, "lost transition race")
		return apperr.InvalidState("该关系不是已接受的好友关系")
	}

	otherID := friendship.RequesterID
	if otherID == actorID {
		otherID = friendship.ReceiverID
	}

	s.invalidatePairCache(ctx, friendship.RequesterID, friendship.ReceiverID)
	s.publishRelationEvent(ctx, &model.RelationEvent{
		EventType:    model.EventTypeFriendshipRemoved,
		FriendshipID: friendship.ID,
		ActorID:      actorID,
		TargetID:     otherID,
	})

	s.logger.Info(ctx, "Friend removed successfully",
		logger.F("friendshipID", friendshipID),
		logger.F("actorID", actorID))

	span.SetStatus(codes.Ok, "friend removed successfully")
	return nil
}

// IsFriend 检查两人是否为好友，无序对对称
func (s *Service) IsFriend(ctx context.Context, a, b int64) (bool, error) {
	if a <= 0 || b <= 0 {
		return false, nil
	}
	if a == b {
		return false, nil
	}

	cacheKey := model.GetFriendshipCacheKey(a, b)
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey); err == nil && cached != "" {
			return cached == "1", nil
		}
	}

	isFriend, err := s.friendshipDAO.IsFriend(ctx, a, b)
	if err != nil {
		return false, err
	}

	if s.redis != nil {
		value := "0"
		if isFriend {
			value = "1"
		}
		s.redis.Set(ctx, cacheKey, value, time.Duration(model.CacheExpireFriendship)*time.Second)
	}

	return isFriend, nil
}

// GetFriendList 获取好友列表
func (s *Service) GetFriendList(ctx context.Context, userID int64) ([]*model.Friendship, error) {
	ctx, span := telemetry.StartSpan(ctx, "relation.service.GetFriendList")
	defer span.End()

	span.SetAttributes(attribute.Int64("friendship.user_id", userID))

	if userID <= 0 {
		span.SetStatus(codes.Error, "invalid user id")
		return nil, fmt.Errorf("用户ID无效")
	}

	friendships, err := s.friendshipDAO.ListFriends(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list friends")
		return nil, err
	}

	span.SetAttributes(attribute.Int("friendship.count", len(friendships)))
	span.SetStatus(codes.Ok, "friend list retrieved successfully")
	return friendships, nil
}

// GetPendingRequests 获取收到的待处理好友申请
func (s *Service) GetPendingRequests(ctx context.Context, userID int64) ([]*model.Friendship, error) {
	ctx, span := telemetry.StartSpan(ctx, "relation.service.GetPendingRequests")
	defer span.End()

	span.SetAttributes(attribute.Int64("friendship.user_id", userID))

	if userID <= 0 {
		span.SetStatus(codes.Error, "invalid user id")
		return nil, fmt.Errorf("用户ID无效")
	}

	friendships, err := s.friendshipDAO.ListPendingRequests(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list pending requests")
		return nil, err
	}

	span.SetStatus(codes.Ok, "pending requests retrieved successfully")
	return friendships, nil
}

// GetSentRequests 获取发出的待处理好友申请
func (s *Service) GetSentRequests(ctx context.Context, userID int64) ([]*model.Friendship, error) {
	ctx, span := telemetry.StartSpan(ctx, "relation.service.GetSentRequests")
	defer span.End()

	span.SetAttributes(attribute.Int64("friendship.user_id", userID))

	if userID <= 0 {
		span.SetStatus(codes.Error, "invalid user id")
		return nil, fmt.Errorf("用户ID无效")
	}

	friendships, err := s.friendshipDAO.ListSentRequests(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list sent requests")
		return nil, err
	}

	span.SetStatus(codes.Ok, "sent requests retrieved successfully")
	return friendships, nil
}
