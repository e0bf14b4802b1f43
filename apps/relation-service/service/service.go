package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"orbit-social/apps/relation-service/dao"
	"orbit-social/apps/relation-service/model"
	"orbit-social/pkg/kafka"
	"orbit-social/pkg/logger"
	"orbit-social/pkg/redis"
)

// Service 关系服务
type Service struct {
	friendshipDAO dao.FriendshipDAO
	blockDAO      dao.BlockDAO
	preferenceDAO dao.PreferenceDAO
	redis         *redis.RedisClient
	kafka         *kafka.Producer
	logger        logger.Logger
}

// NewService 创建关系服务实例
func NewService(friendshipDAO dao.FriendshipDAO, blockDAO dao.BlockDAO, preferenceDAO dao.PreferenceDAO,
	redis *redis.RedisClient, kafka *kafka.Producer, log logger.Logger) *Service {
	return &Service{
		friendshipDAO: friendshipDAO,
		blockDAO:      blockDAO,
		preferenceDAO: preferenceDAO,
		redis:         redis,
		kafka:         kafka,
		logger:        log,
	}
}

// invalidatePairCache 清除无序对的关系缓存
func (s *Service) invalidatePairCache(ctx context.Context, a, b int64) {
	if s.redis == nil {
		return
	}
	s.redis.Del(ctx, model.GetFriendshipCacheKey(a, b))
	s.redis.Del(ctx, model.GetBlockedCacheKey(a, b))
}

// publishRelationEvent 发布关系事件到消息队列
func (s *Service) publishRelationEvent(ctx context.Context, event *model.RelationEvent) {
	if s.kafka == nil {
		return
	}

	event.Timestamp = time.Now()
	eventData, err := json.Marshal(event)
	if err != nil {
		s.logger.Error(ctx, "Failed to marshal relation event",
			logger.F("error", err.Error()),
			logger.F("eventType", event.EventType))
		return
	}

	// 异步发送事件
	go func() {
		topic := "relation-events"
		key := fmt.Sprintf("%d:%d", event.ActorID, event.TargetID)

		if err := s.kafka.SendMessage(topic, []byte(key), eventData); err != nil {
			s.logger.Error(context.Background(), "Failed to send relation event",
				logger.F("error", err.Error()),
				logger.F("topic", topic),
				logger.F("key", key))
		}
	}()
}
