package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"orbit-social/apps/relation-service/model"
	tracecontext "orbit-social/pkg/context"
	"orbit-social/pkg/logger"
	"orbit-social/pkg/telemetry"
)

// EnsureDefaultPreference 确保用户存在通知偏好，缺失时写入全开启默认值
// 注册流程调用，重复调用无副作用
func (s *Service) EnsureDefaultPreference(ctx context.Context, userID int64) (*model.NotificationPreference, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("用户ID无效")
	}

	pref, err := s.preferenceDAO.GetPreference(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pref != nil {
		return pref, nil
	}

	pref = model.DefaultNotificationPreference(userID)
	if err := s.preferenceDAO.UpsertPreference(ctx, pref); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "Default notification preference created",
		logger.F("userID", userID))
	return pref, nil
}

// GetPreference 获取用户的通知偏好，缺失时返回默认值（不落库）
func (s *Service) GetPreference(ctx context.Context, userID int64) (*model.NotificationPreference, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("用户ID无效")
	}

	pref, err := s.preferenceDAO.GetPreference(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		return model.DefaultNotificationPreference(userID), nil
	}
	return pref, nil
}

// UpdatePreference 更新用户的通知偏好，仅本人可改
func (s *Service) UpdatePreference(ctx context.Context, userID int64, notifications map[string]bool,
	messagePrivacy, friendRequestPrivacy string) (*model.NotificationPreference, error) {
	ctx, span := telemetry.StartSpan(ctx, "relation.service.UpdatePreference")
	defer span.End()

	span.SetAttributes(attribute.Int64("preference.user_id", userID))
	ctx = tracecontext.WithUserID(ctx, userID)

	if userID <= 0 {
		span.SetStatus(codes.Error, "invalid user id")
		return nil, fmt.Errorf("用户ID无效")
	}
	for kind := range notifications {
		if !model.ValidateNotificationKind(kind) {
			span.SetStatus(codes.Error, "invalid notification kind")
			return nil, fmt.Errorf("通知类型无效: %s", kind)
		}
	}
	if messagePrivacy != "" && !model.ValidateMessagePrivacy(messagePrivacy) {
		span.SetStatus(codes.Error, "invalid message privacy")
		return nil, fmt.Errorf("消息隐私设置无效: %s", messagePrivacy)
	}
	if friendRequestPrivacy != "" && !model.ValidateFriendRequestPrivacy(friendRequestPrivacy) {
		span.SetStatus(codes.Error, "invalid friend request privacy")
		return nil, fmt.Errorf("好友申请隐私设置无效: %s", friendRequestPrivacy)
	}

	// 以现有偏好为基底做增量更新
	pref, err := s.GetPreference(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get preference")
		return nil, err
	}
	if pref.Notifications == nil {
		pref.Notifications = make(map[string]bool)
	}
	for kind, enabled := range notifications {
		pref.Notifications[kind] = enabled
	}
	if messagePrivacy != "" {
		pref.MessagePrivacy = messagePrivacy
	}
	if friendRequestPrivacy != "" {
		pref.FriendRequestPrivacy = friendRequestPrivacy
	}
	pref.UpdatedAt = time.Now().Unix()

	if err := s.preferenceDAO.UpsertPreference(ctx, pref); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to upsert preference")
		return nil, err
	}

	s.logger.Info(ctx, "Notification preference updated",
		logger.F("userID", userID),
		logger.F("messagePrivacy", pref.MessagePrivacy),
		logger.F("friendRequestPrivacy", pref.FriendRequestPrivacy))

	span.SetStatus(codes.Ok, "preference updated successfully")
	return pref, nil
}

// ShouldNotify 检查指定类型的通知是否允许发送给用户
// 纯查询：偏好缺失或类型缺失都按开启处理
func (s *Service) ShouldNotify(ctx context.Context, userID int64, kind string) (bool, error) {
	if userID <= 0 {
		return false, fmt.Errorf("用户ID无效")
	}
	if !model.ValidateNotificationKind(kind) {
		return false, fmt.Errorf("通知类型无效: %s", kind)
	}

	pref, err := s.preferenceDAO.GetPreference(ctx, userID)
	if err != nil {
		return false, err
	}
	if pref == nil {
		return true, nil
	}

	enabled, exists := pref.Notifications[kind]
	if !exists {
		return true, nil
	}
	return enabled, nil
}

// MessagePrivacy 获取用户的消息隐私设置，偏好缺失时为everyone
func (s *Service) MessagePrivacy(ctx context.Context, userID int64) (string, error) {
	pref, err := s.GetPreference(ctx, userID)
	if err != nil {
		return "", err
	}
	if pref.MessagePrivacy == "" {
		return model.MessagePrivacyEveryone, nil
	}
	return pref.MessagePrivacy, nil
}
