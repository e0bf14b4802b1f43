package service

import (
	"context"
	"testing"

	"orbit-social/apps/content-service/model"
	relationmodel "orbit-social/apps/relation-service/model"
	"orbit-social/pkg/apperr"
)

func TestCanSendFriendRequest(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	if err := env.svc.CanSendFriendRequest(ctx, 1, 2); err != nil {
		t.Errorf("expected clean pair to pass, got %v", err)
	}

	err := env.svc.CanSendFriendRequest(ctx, 1, 1)
	if !apperr.IsReason(err, apperr.ReasonSelfReference) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonSelfReference, err)
	}
}

// 拉黑优先于隐私设置：对方既关闭申请又拉黑时返回BLOCKED
func TestCanSendFriendRequestBlockedBeforePrivacy(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	env.relation.noOne[2] = true
	env.relation.setBlocked(2, 1)

	err := env.svc.CanSendFriendRequest(ctx, 1, 2)
	if !apperr.IsReason(err, apperr.ReasonBlocked) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonBlocked, err)
	}

	// 仅关闭申请时才是REQUESTS_DISABLED
	delete(env.relation.blocks, "2:1")
	err = env.svc.CanSendFriendRequest(ctx, 1, 2)
	if !apperr.IsReason(err, apperr.ReasonRequestsDisabled) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonRequestsDisabled, err)
	}
}

func TestCanSendFriendRequestDuplicate(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	env.relation.setFriends(1, 2)
	err := env.svc.CanSendFriendRequest(ctx, 1, 2)
	if !apperr.IsReason(err, apperr.ReasonDuplicateRequest) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonDuplicateRequest, err)
	}
}

func TestCanStartChat(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	if err := env.svc.CanStartChat(ctx, 1, 2); err != nil {
		t.Errorf("expected default privacy to allow chat, got %v", err)
	}

	err := env.svc.CanStartChat(ctx, 1, 1)
	if !apperr.IsReason(err, apperr.ReasonSelfReference) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonSelfReference, err)
	}
}

func TestCanStartChatBlocked(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	env.relation.setBlocked(1, 2)
	err := env.svc.CanStartChat(ctx, 1, 2)
	if !apperr.IsReason(err, apperr.ReasonBlocked) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonBlocked, err)
	}

	// 被对方拉黑同样阻断
	env2 := newTestService()
	env2.relation.setBlocked(2, 1)
	err = env2.svc.CanStartChat(ctx, 1, 2)
	if !apperr.IsReason(err, apperr.ReasonBlocked) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonBlocked, err)
	}
}

func TestCanStartChatPrivacy(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	// 对方关闭私信，即使是好友也拒绝
	env.relation.setFriends(1, 2)
	env.relation.privacy[2] = relationmodel.MessagePrivacyNoOne
	err := env.svc.CanStartChat(ctx, 1, 2)
	if !apperr.IsReason(err, apperr.ReasonPrivacyDisabled) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonPrivacyDisabled, err)
	}

	// 仅好友可发：陌生人拒绝，好友放行
	env.relation.privacy[3] = relationmodel.MessagePrivacyFriendsOnly
	err = env.svc.CanStartChat(ctx, 1, 3)
	if !apperr.IsReason(err, apperr.ReasonPrivacyDisabled) {
		t.Errorf("expected reason %s for stranger, got %v", apperr.ReasonPrivacyDisabled, err)
	}

	env.relation.setFriends(1, 3)
	if err := env.svc.CanStartChat(ctx, 1, 3); err != nil {
		t.Errorf("expected friend to pass friends_only privacy, got %v", err)
	}
}

// 拉黑不删除已有会话，但切断其中的消息
func TestCanMessageBlockedInExistingChat(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	env.relation.setFriends(1, 2)
	chat, err := env.svc.CreateChat(ctx, 1, 2)
	if err != nil {
		t.Fatalf("CreateChat failed: %v", err)
	}

	if err := env.svc.CanMessage(ctx, 1, chat.ID); err != nil {
		t.Fatalf("expected message allowed before block, got %v", err)
	}

	env.relation.setBlocked(2, 1)

	// 会话还在
	if got, _ := env.chatDAO.GetChat(ctx, chat.ID); got == nil {
		t.Fatal("expected chat to survive the block")
	}

	// 双方都发不出消息
	err = env.svc.CanMessage(ctx, 1, chat.ID)
	if !apperr.IsReason(err, apperr.ReasonBlocked) {
		t.Errorf("expected reason %s for blocked sender, got %v", apperr.ReasonBlocked, err)
	}
	err = env.svc.CanMessage(ctx, 2, chat.ID)
	if !apperr.IsReason(err, apperr.ReasonBlocked) {
		t.Errorf("expected reason %s for blocker, got %v", apperr.ReasonBlocked, err)
	}
}

func TestCanMessageParticipantOnly(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	chat, err := env.svc.CreateChat(ctx, 1, 2)
	if err != nil {
		t.Fatalf("CreateChat failed: %v", err)
	}

	err = env.svc.CanMessage(ctx, 3, chat.ID)
	if !apperr.IsReason(err, apperr.ReasonNotParticipant) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonNotParticipant, err)
	}

	err = env.svc.CanMessage(ctx, 1, 99999)
	if !apperr.IsReason(err, apperr.ReasonNotFound) {
		t.Errorf("expected reason %s for missing chat, got %v", apperr.ReasonNotFound, err)
	}
}

func TestCanLike(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	post := env.mustCreatePost(t, 10, model.VisibilityPublic)
	if err := env.svc.CanLike(ctx, 20, model.TargetKindPost, post.ID); err != nil {
		t.Errorf("expected like on public post allowed, got %v", err)
	}

	if err := env.svc.CanLike(ctx, 20, "story", post.ID); err == nil {
		t.Error("expected unknown target kind to be rejected")
	}

	err := env.svc.CanLike(ctx, 20, model.TargetKindPost, 99999)
	if !apperr.IsReason(err, apperr.ReasonNotFound) {
		t.Errorf("expected reason %s for missing target, got %v", apperr.ReasonNotFound, err)
	}
}

func TestCanLikeVisibility(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	private := env.mustCreatePost(t, 10, model.VisibilityPrivate)
	err := env.svc.CanLike(ctx, 20, model.TargetKindPost, private.ID)
	if !apperr.IsReason(err, apperr.ReasonOwnerOnly) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonOwnerOnly, err)
	}

	// 作者本人可以点赞自己的private帖
	if err := env.svc.CanLike(ctx, 10, model.TargetKindPost, private.ID); err != nil {
		t.Errorf("expected owner to like own private post, got %v", err)
	}

	friendsOnly := env.mustCreatePost(t, 10, model.VisibilityFriends)
	err = env.svc.CanLike(ctx, 20, model.TargetKindPost, friendsOnly.ID)
	if !apperr.IsReason(err, apperr.ReasonFriendsOnly) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonFriendsOnly, err)
	}

	env.relation.setFriends(10, 20)
	if err := env.svc.CanLike(ctx, 20, model.TargetKindPost, friendsOnly.ID); err != nil {
		t.Errorf("expected friend to like friends-only post, got %v", err)
	}
}

// 评论的可见性跟随所属帖子
func TestCanLikeCommentInheritsPostVisibility(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	env.relation.setFriends(10, 20)
	post := env.mustCreatePost(t, 10, model.VisibilityFriends)
	comment, err := env.svc.CreateComment(ctx, 20, post.ID, "nice")
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}

	// 好友能点赞评论
	if err := env.svc.CanLike(ctx, 20, model.TargetKindComment, comment.ID); err != nil {
		t.Errorf("expected friend to like comment, got %v", err)
	}

	// 陌生人看不见帖子，也就不能点赞其下的评论
	err = env.svc.CanLike(ctx, 30, model.TargetKindComment, comment.ID)
	if !apperr.IsReason(err, apperr.ReasonFriendsOnly) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonFriendsOnly, err)
	}
}

func TestCanLikeAlreadyLiked(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	post := env.mustCreatePost(t, 10, model.VisibilityPublic)
	if _, err := env.svc.LikeTarget(ctx, 20, model.TargetKindPost, post.ID); err != nil {
		t.Fatalf("LikeTarget failed: %v", err)
	}

	err := env.svc.CanLike(ctx, 20, model.TargetKindPost, post.ID)
	if !apperr.IsReason(err, apperr.ReasonAlreadyLiked) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonAlreadyLiked, err)
	}
}
