package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"orbit-social/apps/content-service/dao"
	"orbit-social/apps/content-service/model"
	"orbit-social/pkg/kafka"
	"orbit-social/pkg/logger"
	"orbit-social/pkg/redis"
)

// RelationChecker 关系查询接口，由relation-service的Service满足
type RelationChecker interface {
	IsFriend(ctx context.Context, a, b int64) (bool, error)
	EitherBlocked(ctx context.Context, a, b int64) (bool, error)
	CheckFriendRequest(ctx context.Context, requesterID, receiverID int64) error
}

// PreferenceReader 隐私偏好查询接口，由relation-service的Service满足
type PreferenceReader interface {
	MessagePrivacy(ctx context.Context, userID int64) (string, error)
}

// CleanupHook 内容删除后的清理回调
// 在删除决策通过并提交后显式调用，不挂在ORM生命周期上
type CleanupHook func(ctx context.Context, post *model.Post) error

// Service 内容服务
type Service struct {
	postDAO      dao.PostDAO
	likeDAO      dao.LikeDAO
	chatDAO      dao.ChatDAO
	relation     RelationChecker
	preferences  PreferenceReader
	redis        *redis.RedisClient
	kafka        *kafka.Producer
	logger       logger.Logger
	cleanupHooks []CleanupHook
}

// NewService 创建内容服务实例
func NewService(postDAO dao.PostDAO, likeDAO dao.LikeDAO, chatDAO dao.ChatDAO,
	relation RelationChecker, preferences PreferenceReader,
	redis *redis.RedisClient, kafka *kafka.Producer, log logger.Logger) *Service {
	return &Service{
		postDAO:     postDAO,
		likeDAO:     likeDAO,
		chatDAO:     chatDAO,
		relation:    relation,
		preferences: preferences,
		redis:       redis,
		kafka:       kafka,
		logger:      log,
	}
}

// RegisterCleanupHook 注册内容删除后的清理回调
func (s *Service) RegisterCleanupHook(hook CleanupHook) {
	s.cleanupHooks = append(s.cleanupHooks, hook)
}

// runCleanupHooks 执行删除后的清理回调，单个失败不阻断其余回调
func (s *Service) runCleanupHooks(ctx context.Context, post *model.Post) {
	for _, hook := range s.cleanupHooks {
		if err := hook(ctx, post); err != nil {
			s.logger.Error(ctx, "Cleanup hook failed",
				logger.F("error", err.Error()),
				logger.F("postID", post.ID))
		}
	}
}

// publishContentEvent 发布内容事件到消息队列
func (s *Service) publishContentEvent(ctx context.Context, event *model.ContentEvent) {
	if s.kafka == nil {
		return
	}

	event.Timestamp = time.Now()
	eventData, err := json.Marshal(event)
	if err != nil {
		s.logger.Error(ctx, "Failed to marshal content event",
			logger.F("error", err.Error()),
			logger.F("eventType", event.EventType))
		return
	}

	// 异步发送事件
	go func() {
		topic := "content-events"
		key := fmt.Sprintf("%d:%s", event.ActorID, event.EventType)

		if err := s.kafka.SendMessage(topic, []byte(key), eventData); err != nil {
			s.logger.Error(context.Background(), "Failed to send content event",
				logger.F("error", err.Error()),
				logger.F("topic", topic),
				logger.F("key", key))
		}
	}()
}
