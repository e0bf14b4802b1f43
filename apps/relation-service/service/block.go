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

// CreateBlock 创建拉黑记录
// 同方向重复拒绝；反方向是独立事实，不受影响
func (s *Service) CreateBlock(ctx context.Context, blockerID, blockedID int64, reason string) (*model.Block, error) {
	ctx, span := telemetry.StartSpan(ctx, "relation.service.CreateBlock")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("block.blocker_id", blockerID),
		attribute.Int64("block.blocked_id", blockedID),
	)
	ctx = tracecontext.WithUserID(ctx, blockerID)

	if blockerID <= 0 || blockedID <= 0 {
		span.SetStatus(codes.Error, "invalid user id")
		return nil, fmt.Errorf("用户ID无效")
	}
	if blockerID == blockedID {
		span.SetStatus(codes.Error, "self block")
		return nil, apperr.SelfReference("不能拉黑自己")
	}
	if reason == "" {
		reason = model.BlockReasonOther
	}
	if !model.ValidateBlockReason(reason) {
		span.SetStatus(codes.Error, "invalid block reason")
		return nil, fmt.Errorf("拉黑原因无效: %s", reason)
	}

	existing, err := s.blockDAO.GetBlock(ctx, blockerID, blockedID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to check existing block")
		return nil, err
	}
	if existing != nil {
		span.SetStatus(codes.Error, "already blocked")
		return nil, apperr.AlreadyBlocked("已拉黑该用户")
	}

	block := &model.Block{
		ID:        snowflake.GenerateID(),
		BlockerID: blockerID,
		BlockedID: blockedID,
		Reason:    reason,
		CreatedAt: time.Now(),
	}
	if err := s.blockDAO.CreateBlock(ctx, block); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create block")
		return nil, err
	}

	s.invalidatePairCache(ctx, blockerID, blockedID)
	s.publishRelationEvent(ctx, &model.RelationEvent{
		EventType: model.EventTypeBlockCreated,
		BlockID:   block.ID,
		ActorID:   blockerID,
		TargetID:  blockedID,
	})

	s.logger.Info(ctx, "Block created successfully",
		logger.F("blockID", block.ID),
		logger.F("blockerID", blockerID),
		logger.F("blockedID", blockedID),
		logger.F("reason", reason))

	span.SetStatus(codes.Ok, "block created successfully")
	return block, nil
}

// DeleteBlock 解除拉黑
// 仅拉黑发起方可解除，按调用方向删除
func (s *Service) DeleteBlock(ctx context.Context, blockerID, blockedID int64) error {
	ctx, span := telemetry.StartSpan(ctx, "relation.service.DeleteBlock")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("block.blocker_id", blockerID),
		attribute.Int64("block.blocked_id", blockedID),
	)
	ctx = tracecontext.WithUserID(ctx, blockerID)

	if blockerID <= 0 || blockedID <= 0 {
		span.SetStatus(codes.Error, "invalid user id")
		return fmt.Errorf("用户ID无效")
	}

	ok, err := s.blockDAO.DeleteBlock(ctx, blockerID, blockedID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to delete block")
		return err
	}
	if !ok {
		span.SetStatus(codes.Error, "block not found")
		return apperr.NotFound("拉黑记录不存在")
	}

	s.invalidatePairCache(ctx, blockerID, blockedID)
	s.publishRelationEvent(ctx, &model.RelationEvent{
		EventType: model.EventTypeBlockDeleted,
		ActorID:   blockerID,
		TargetID:  blockedID,
	})

	s.logger.Info(ctx, "Block deleted successfully",
		logger.F("blockerID", blockerID),
		logger.F("blockedID", blockedID))

	span.SetStatus(codes.Ok, "block deleted successfully")
	return nil
}

// IsBlocked 检查a是否拉黑了b（单方向）
func (s *Service) IsBlocked(ctx context.Context, blockerID, blockedID int64) (bool, error) {
	if blockerID <= 0 || blockedID <= 0 || blockerID == blockedID {
		return false, nil
	}
	return s.blockDAO.IsBlocked(ctx, blockerID, blockedID)
}

// EitherBlocked 检查任一方向是否存在拉黑
// 所有交互检查走这个对称形式：任一方拉黑即切断双向交互
func (s *Service) EitherBlocked(ctx context.Context, a, b int64) (bool, error) {
	if a <= 0 || b <= 0 || a == b {
		return false, nil
	}

	cacheKey := model.GetBlockedCacheKey(a, b)
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey); err == nil && cached != "" {
			return cached == "1", nil
		}
	}

	blocked, err := s.blockDAO.EitherBlocked(ctx, a, b)
	if err != nil {
		return false, err
	}

	if s.redis != nil {
		value := "0"
		if blocked {
			value = "1"
		}
		s.redis.Set(ctx, cacheKey, value, time.Duration(model.CacheExpireBlocked)*time.Second)
	}

	return blocked, nil
}

// GetBlockList 获取用户发起的拉黑列表
func (s *Service) GetBlockList(ctx context.Context, blockerID int64) ([]*model.Block, error) {
	ctx, span := telemetry.StartSpan(ctx, "relation.service.GetBlockList")
	defer span.End()

	span.SetAttributes(attribute.Int64("block.blocker_id", blockerID))

	if blockerID <= 0 {
		span.SetStatus(codes.Error, "invalid user id")
		return nil, fmt.Errorf("用户ID无效")
	}

	blocks, err := s.blockDAO.ListBlocks(ctx, blockerID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list blocks")
		return nil, err
	}

	span.SetAttributes(attribute.Int("block.count", len(blocks)))
	span.SetStatus(codes.Ok, "block list retrieved successfully")
	return blocks, nil
}
