package service

import (
	"context"
	"testing"

	"orbit-social/apps/relation-service/model"
)

func TestShouldNotifyDefaults(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	// 偏好文档缺失时按开启处理
	should, err := env.svc.ShouldNotify(ctx, 1, model.NotificationKindFriendRequest)
	if err != nil {
		t.Fatalf("ShouldNotify failed: %v", err)
	}
	if !should {
		t.Error("expected missing preference to default to notify")
	}

	// 文档存在但类型缺失同样按开启处理
	env.preferenceDAO.UpsertPreference(ctx, &model.NotificationPreference{
		UserID:        1,
		Notifications: map[string]bool{model.NotificationKindNewMessage: false},
	})
	should, _ = env.svc.ShouldNotify(ctx, 1, model.NotificationKindPostLike)
	if !should {
		t.Error("expected missing kind to default to notify")
	}

	should, _ = env.svc.ShouldNotify(ctx, 1, model.NotificationKindNewMessage)
	if should {
		t.Error("expected explicitly disabled kind not to notify")
	}
}

func TestShouldNotifyInvalidKind(t *testing.T) {
	env := newTestService()

	if _, err := env.svc.ShouldNotify(context.Background(), 1, "carrier_pigeon"); err == nil {
		t.Error("expected invalid notification kind to be rejected")
	}
}

func TestEnsureDefaultPreference(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	pref, err := env.svc.EnsureDefaultPreference(ctx, 1)
	if err != nil {
		t.Fatalf("EnsureDefaultPreference failed: %v", err)
	}
	for _, kind := range model.ValidNotificationKinds {
		if !pref.Notifications[kind] {
			t.Errorf("expected kind %s enabled by default", kind)
		}
	}
	if pref.MessagePrivacy != model.MessagePrivacyEveryone {
		t.Errorf("expected default message privacy %s, got %s", model.MessagePrivacyEveryone, pref.MessagePrivacy)
	}

	// 重复调用不覆盖已有设置
	env.svc.UpdatePreference(ctx, 1, map[string]bool{model.NotificationKindPostLike: false}, "", "")
	again, _ := env.svc.EnsureDefaultPreference(ctx, 1)
	if again.Notifications[model.NotificationKindPostLike] {
		t.Error("expected ensure to keep existing settings")
	}
}

func TestUpdatePreferenceIncremental(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	if _, err := env.svc.UpdatePreference(ctx, 1,
		map[string]bool{model.NotificationKindFriendRequest: false},
		model.MessagePrivacyFriendsOnly, ""); err != nil {
		t.Fatalf("UpdatePreference failed: %v", err)
	}

	// 第二次只改消息隐私，通知开关保持
	pref, err := env.svc.UpdatePreference(ctx, 1, nil, model.MessagePrivacyNoOne, "")
	if err != nil {
		t.Fatalf("UpdatePreference failed: %v", err)
	}
	if pref.Notifications[model.NotificationKindFriendRequest] {
		t.Error("expected earlier notification setting to survive")
	}
	if pref.MessagePrivacy != model.MessagePrivacyNoOne {
		t.Errorf("expected message privacy %s, got %s", model.MessagePrivacyNoOne, pref.MessagePrivacy)
	}
}

func TestUpdatePreferenceValidation(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	if _, err := env.svc.UpdatePreference(ctx, 1, map[string]bool{"smoke_signal": true}, "", ""); err == nil {
		t.Error("expected invalid notification kind to be rejected")
	}
	if _, err := env.svc.UpdatePreference(ctx, 1, nil, "whisper", ""); err == nil {
		t.Error("expected invalid message privacy to be rejected")
	}
	if _, err := env.svc.UpdatePreference(ctx, 1, nil, "", "friends_of_friends"); err == nil {
		t.Error("expected invalid friend request privacy to be rejected")
	}
}

func TestMessagePrivacyDefault(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	privacy, err := env.svc.MessagePrivacy(ctx, 1)
	if err != nil {
		t.Fatalf("MessagePrivacy failed: %v", err)
	}
	if privacy != model.MessagePrivacyEveryone {
		t.Errorf("expected default privacy %s, got %s", model.MessagePrivacyEveryone, privacy)
	}

	env.svc.UpdatePreference(ctx, 1, nil, model.MessagePrivacyFriendsOnly, "")
	privacy, _ = env.svc.MessagePrivacy(ctx, 1)
	if privacy != model.MessagePrivacyFriendsOnly {
		t.Errorf("expected privacy %s, got %s", model.MessagePrivacyFriendsOnly, privacy)
	}
}
