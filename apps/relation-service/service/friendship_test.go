package service

import (
	"context"
	"testing"

	"orbit-social/apps/relation-service/model"
	"orbit-social/pkg/apperr"
)

func TestSendFriendRequest(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	friendship, err := env.svc.SendFriendRequest(ctx, 1, 2)
	if err != nil {
		t.Fatalf("SendFriendRequest failed: %v", err)
	}
	if friendship.Status != model.FriendshipStatusPending {
		t.Errorf("expected status %s, got %s", model.FriendshipStatusPending, friendship.Status)
	}
	if friendship.PairMinID != 1 || friendship.PairMaxID != 2 {
		t.Errorf("expected canonical pair (1,2), got (%d,%d)", friendship.PairMinID, friendship.PairMaxID)
	}
}

func TestSendFriendRequestToSelf(t *testing.T) {
	env := newTestService()

	_, err := env.svc.SendFriendRequest(context.Background(), 1, 1)
	if !apperr.IsReason(err, apperr.ReasonSelfReference) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonSelfReference, err)
	}
}

func TestSendFriendRequestDuplicate(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	if _, err := env.svc.SendFriendRequest(ctx, 1, 2); err != nil {
		t.Fatalf("first request failed: %v", err)
	}

	// 同方向重复
	_, err := env.svc.SendFriendRequest(ctx, 1, 2)
	if !apperr.IsReason(err, apperr.ReasonDuplicateRequest) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonDuplicateRequest, err)
	}

	// 反方向同样算重复：无序对上最多一条记录
	_, err = env.svc.SendFriendRequest(ctx, 2, 1)
	if !apperr.IsReason(err, apperr.ReasonDuplicateRequest) {
		t.Errorf("expected reason %s for reversed pair, got %v", apperr.ReasonDuplicateRequest, err)
	}
}

func TestSendFriendRequestWhenBlocked(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	// 接收方拉黑了申请方
	if _, err := env.svc.CreateBlock(ctx, 2, 1, model.BlockReasonSpam); err != nil {
		t.Fatalf("CreateBlock failed: %v", err)
	}

	_, err := env.svc.SendFriendRequest(ctx, 1, 2)
	if !apperr.IsReason(err, apperr.ReasonBlocked) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonBlocked, err)
	}

	// 申请方拉黑了接收方，同样阻断
	env2 := newTestService()
	if _, err := env2.svc.CreateBlock(ctx, 1, 2, model.BlockReasonSpam); err != nil {
		t.Fatalf("CreateBlock failed: %v", err)
	}
	_, err = env2.svc.SendFriendRequest(ctx, 1, 2)
	if !apperr.IsReason(err, apperr.ReasonBlocked) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonBlocked, err)
	}
}

func TestSendFriendRequestBlockedTakesPrecedenceOverPrivacy(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	// 对方既关闭了申请又拉黑了申请方：拉黑优先
	if _, err := env.svc.UpdatePreference(ctx, 2, nil, "", model.FriendRequestPrivacyNoOne); err != nil {
		t.Fatalf("UpdatePreference failed: %v", err)
	}
	if _, err := env.svc.CreateBlock(ctx, 2, 1, model.BlockReasonHarassment); err != nil {
		t.Fatalf("CreateBlock failed: %v", err)
	}

	_, err := env.svc.SendFriendRequest(ctx, 1, 2)
	if !apperr.IsReason(err, apperr.ReasonBlocked) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonBlocked, err)
	}
}

func TestSendFriendRequestRequestsDisabled(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	if _, err := env.svc.UpdatePreference(ctx, 2, nil, "", model.FriendRequestPrivacyNoOne); err != nil {
		t.Fatalf("UpdatePreference failed: %v", err)
	}

	_, err := env.svc.SendFriendRequest(ctx, 1, 2)
	if !apperr.IsReason(err, apperr.ReasonRequestsDisabled) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonRequestsDisabled, err)
	}
}

func TestAcceptFriendRequest(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	friendship, err := env.svc.SendFriendRequest(ctx, 1, 2)
	if err != nil {
		t.Fatalf("SendFriendRequest failed: %v", err)
	}

	accepted, err := env.svc.AcceptFriendRequest(ctx, friendship.ID, 2)
	if err != nil {
		t.Fatalf("AcceptFriendRequest failed: %v", err)
	}
	if accepted.Status != model.FriendshipStatusAccepted {
		t.Errorf("expected status %s, got %s", model.FriendshipStatusAccepted, accepted.Status)
	}

	isFriend, err := env.svc.IsFriend(ctx, 1, 2)
	if err != nil {
		t.Fatalf("IsFriend failed: %v", err)
	}
	if !isFriend {
		t.Error("expected users to be friends after accept")
	}
}

func TestAcceptFriendRequestOnlyReceiver(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	friendship, _ := env.svc.SendFriendRequest(ctx, 1, 2)

	// 申请方不能替接收方接受
	_, err := env.svc.AcceptFriendRequest(ctx, friendship.ID, 1)
	if !apperr.IsReason(err, apperr.ReasonNotAuthorized) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonNotAuthorized, err)
	}

	// 无关第三人同样不行
	_, err = env.svc.AcceptFriendRequest(ctx, friendship.ID, 3)
	if !apperr.IsReason(err, apperr.ReasonNotAuthorized) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonNotAuthorized, err)
	}
}

func TestAcceptFriendRequestNotFound(t *testing.T) {
	env := newTestService()

	_, err := env.svc.AcceptFriendRequest(context.Background(), 99999, 2)
	if !apperr.IsReason(err, apperr.ReasonNotFound) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonNotFound, err)
	}
}

func TestAcceptFriendRequestAlreadyAccepted(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	friendship, _ := env.svc.SendFriendRequest(ctx, 1, 2)
	if _, err := env.svc.AcceptFriendRequest(ctx, friendship.ID, 2); err != nil {
		t.Fatalf("AcceptFriendRequest failed: %v", err)
	}

	_, err := env.svc.AcceptFriendRequest(ctx, friendship.ID, 2)
	if !apperr.IsReason(err, apperr.ReasonInvalidState) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonInvalidState, err)
	}
}

func TestRejectFriendRequest(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	friendship, _ := env.svc.SendFriendRequest(ctx, 1, 2)
	if err := env.svc.RejectFriendRequest(ctx, friendship.ID, 2); err != nil {
		t.Fatalf("RejectFriendRequest failed: %v", err)
	}

	// 拒绝后记录删除，可以重新申请
	if _, err := env.svc.SendFriendRequest(ctx, 1, 2); err != nil {
		t.Errorf("expected re-request after reject to succeed, got %v", err)
	}
}

func TestRejectFriendRequestOnlyReceiver(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	friendship, _ := env.svc.SendFriendRequest(ctx, 1, 2)
	err := env.svc.RejectFriendRequest(ctx, friendship.ID, 1)
	if !apperr.IsReason(err, apperr.ReasonNotAuthorized) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonNotAuthorized, err)
	}
}

func TestCancelFriendRequest(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	friendship, _ := env.svc.SendFriendRequest(ctx, 1, 2)

	// 接收方不能撤回
	err := env.svc.CancelFriendRequest(ctx, friendship.ID, 2)
	if !apperr.IsReason(err, apperr.ReasonNotAuthorized) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonNotAuthorized, err)
	}

	if err := env.svc.CancelFriendRequest(ctx, friendship.ID, 1); err != nil {
		t.Fatalf("CancelFriendRequest failed: %v", err)
	}

	// 撤回后记录删除
	pending, _ := env.svc.GetPendingRequests(ctx, 2)
	if len(pending) != 0 {
		t.Errorf("expected no pending requests after cancel, got %d", len(pending))
	}
}

func TestRemoveFriend(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	friendship, _ := env.svc.SendFriendRequest(ctx, 1, 2)
	if _, err := env.svc.AcceptFriendRequest(ctx, friendship.ID, 2); err != nil {
		t.Fatalf("AcceptFriendRequest failed: %v", err)
	}

	// 双方任一人都可删除，这里用申请方
	if err := env.svc.RemoveFriend(ctx, friendship.ID, 1); err != nil {
		t.Fatalf("RemoveFriend failed: %v", err)
	}

	isFriend, _ := env.svc.IsFriend(ctx, 1, 2)
	if isFriend {
		t.Error("expected users not to be friends after remove")
	}
}

func TestRemoveFriendAbsentNotFound(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	// 不存在的关系ID，删除应返回未找到而非静默成功
	err := env.svc.RemoveFriend(ctx, 424242, 1)
	if !apperr.IsReason(err, apperr.ReasonNotFound) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonNotFound, err)
	}

	// 删除后再次删除同样返回未找到
	friendship, _ := env.svc.SendFriendRequest(ctx, 1, 2)
	env.svc.AcceptFriendRequest(ctx, friendship.ID, 2)
	if err := env.svc.RemoveFriend(ctx, friendship.ID, 1); err != nil {
		t.Fatalf("RemoveFriend failed: %v", err)
	}
	err = env.svc.RemoveFriend(ctx, friendship.ID, 1)
	if !apperr.IsReason(err, apperr.ReasonNotFound) {
		t.Errorf("expected reason %s after repeat remove, got %v", apperr.ReasonNotFound, err)
	}
}

func TestRemoveFriendPendingRejected(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	friendship, _ := env.svc.SendFriendRequest(ctx, 1, 2)

	// pending状态不能走删除好友
	err := env.svc.RemoveFriend(ctx, friendship.ID, 1)
	if !apperr.IsReason(err, apperr.ReasonInvalidState) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonInvalidState, err)
	}
}

func TestRemoveFriendOnlyParty(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	friendship, _ := env.svc.SendFriendRequest(ctx, 1, 2)
	env.svc.AcceptFriendRequest(ctx, friendship.ID, 2)

	err := env.svc.RemoveFriend(ctx, friendship.ID, 3)
	if !apperr.IsReason(err, apperr.ReasonNotAuthorized) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonNotAuthorized, err)
	}
}

func TestConcurrentTransitionSingleWinner(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	friendship, _ := env.svc.SendFriendRequest(ctx, 1, 2)

	// 模拟并发：第一个转换命中后，后续转换都输掉条件更新
	if _, err := env.svc.AcceptFriendRequest(ctx, friendship.ID, 2); err != nil {
		t.Fatalf("first transition failed: %v", err)
	}
	err := env.svc.RejectFriendRequest(ctx, friendship.ID, 2)
	if !apperr.IsReason(err, apperr.ReasonInvalidState) {
		t.Errorf("expected losing transition to get %s, got %v", apperr.ReasonInvalidState, err)
	}
}

func TestIsFriendSymmetric(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	friendship, _ := env.svc.SendFriendRequest(ctx, 5, 3)
	env.svc.AcceptFriendRequest(ctx, friendship.ID, 3)

	forward, _ := env.svc.IsFriend(ctx, 5, 3)
	backward, _ := env.svc.IsFriend(ctx, 3, 5)
	if !forward || !backward {
		t.Errorf("expected symmetric friendship, got forward=%v backward=%v", forward, backward)
	}

	self, _ := env.svc.IsFriend(ctx, 5, 5)
	if self {
		t.Error("expected IsFriend to be false for identical users")
	}
}

func TestGetFriendListAndPending(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	f1, _ := env.svc.SendFriendRequest(ctx, 1, 2)
	env.svc.AcceptFriendRequest(ctx, f1.ID, 2)
	env.svc.SendFriendRequest(ctx, 3, 1)

	friends, err := env.svc.GetFriendList(ctx, 1)
	if err != nil {
		t.Fatalf("GetFriendList failed: %v", err)
	}
	if len(friends) != 1 {
		t.Errorf("expected 1 friend, got %d", len(friends))
	}

	pending, err := env.svc.GetPendingRequests(ctx, 1)
	if err != nil {
		t.Fatalf("GetPendingRequests failed: %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("expected 1 pending request, got %d", len(pending))
	}

	sent, err := env.svc.GetSentRequests(ctx, 3)
	if err != nil {
		t.Fatalf("GetSentRequests failed: %v", err)
	}
	if len(sent) != 1 {
		t.Errorf("expected 1 sent request, got %d", len(sent))
	}
}
