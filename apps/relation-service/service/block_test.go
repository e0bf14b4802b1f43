package service

import (
	"context"
	"testing"

	"orbit-social/apps/relation-service/model"
	"orbit-social/pkg/apperr"
)

func TestCreateBlock(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	block, err := env.svc.CreateBlock(ctx, 1, 2, model.BlockReasonSpam)
	if err != nil {
		t.Fatalf("CreateBlock failed: %v", err)
	}
	if block.BlockerID != 1 || block.BlockedID != 2 {
		t.Errorf("unexpected block direction: %d -> %d", block.BlockerID, block.BlockedID)
	}

	blocked, _ := env.svc.IsBlocked(ctx, 1, 2)
	if !blocked {
		t.Error("expected 1 to block 2")
	}

	// 反方向是独立事实
	reverse, _ := env.svc.IsBlocked(ctx, 2, 1)
	if reverse {
		t.Error("expected reverse direction to be unaffected")
	}
}

func TestCreateBlockSelf(t *testing.T) {
	env := newTestService()

	_, err := env.svc.CreateBlock(context.Background(), 1, 1, model.BlockReasonOther)
	if !apperr.IsReason(err, apperr.ReasonSelfReference) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonSelfReference, err)
	}
}

func TestCreateBlockDuplicate(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	if _, err := env.svc.CreateBlock(ctx, 1, 2, model.BlockReasonSpam); err != nil {
		t.Fatalf("first block failed: %v", err)
	}

	_, err := env.svc.CreateBlock(ctx, 1, 2, model.BlockReasonHarassment)
	if !apperr.IsReason(err, apperr.ReasonAlreadyBlocked) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonAlreadyBlocked, err)
	}

	// 反方向可以独立创建
	if _, err := env.svc.CreateBlock(ctx, 2, 1, model.BlockReasonOther); err != nil {
		t.Errorf("expected reverse block to succeed, got %v", err)
	}
}

func TestCreateBlockDefaultReason(t *testing.T) {
	env := newTestService()

	block, err := env.svc.CreateBlock(context.Background(), 1, 2, "")
	if err != nil {
		t.Fatalf("CreateBlock failed: %v", err)
	}
	if block.Reason != model.BlockReasonOther {
		t.Errorf("expected default reason %s, got %s", model.BlockReasonOther, block.Reason)
	}
}

func TestCreateBlockInvalidReason(t *testing.T) {
	env := newTestService()

	if _, err := env.svc.CreateBlock(context.Background(), 1, 2, "grudge"); err == nil {
		t.Error("expected invalid reason to be rejected")
	}
}

func TestDeleteBlock(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	env.svc.CreateBlock(ctx, 1, 2, model.BlockReasonSpam)
	if err := env.svc.DeleteBlock(ctx, 1, 2); err != nil {
		t.Fatalf("DeleteBlock failed: %v", err)
	}

	blocked, _ := env.svc.IsBlocked(ctx, 1, 2)
	if blocked {
		t.Error("expected block to be removed")
	}
}

func TestDeleteBlockNotFound(t *testing.T) {
	env := newTestService()

	err := env.svc.DeleteBlock(context.Background(), 1, 2)
	if !apperr.IsReason(err, apperr.ReasonNotFound) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonNotFound, err)
	}
}

func TestEitherBlocked(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	env.svc.CreateBlock(ctx, 2, 1, model.BlockReasonHarassment)

	// 无论从哪个方向看，任一方向的拉黑都命中
	forward, _ := env.svc.EitherBlocked(ctx, 1, 2)
	backward, _ := env.svc.EitherBlocked(ctx, 2, 1)
	if !forward || !backward {
		t.Errorf("expected either-blocked to be symmetric, got forward=%v backward=%v", forward, backward)
	}

	clean, _ := env.svc.EitherBlocked(ctx, 1, 3)
	if clean {
		t.Error("expected unrelated pair not to be blocked")
	}
}

func TestBlockDoesNotRemoveFriendship(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	friendship, _ := env.svc.SendFriendRequest(ctx, 1, 2)
	env.svc.AcceptFriendRequest(ctx, friendship.ID, 2)

	// 拉黑后好友关系保留，但交互被切断
	if _, err := env.svc.CreateBlock(ctx, 1, 2, model.BlockReasonOther); err != nil {
		t.Fatalf("CreateBlock failed: %v", err)
	}

	isFriend, _ := env.svc.IsFriend(ctx, 1, 2)
	if !isFriend {
		t.Error("expected friendship record to survive the block")
	}

	blocked, _ := env.svc.EitherBlocked(ctx, 1, 2)
	if !blocked {
		t.Error("expected interaction to be severed")
	}
}

func TestGetBlockList(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	env.svc.CreateBlock(ctx, 1, 2, model.BlockReasonSpam)
	env.svc.CreateBlock(ctx, 1, 3, model.BlockReasonOther)
	env.svc.CreateBlock(ctx, 4, 1, model.BlockReasonOther)

	blocks, err := env.svc.GetBlockList(ctx, 1)
	if err != nil {
		t.Fatalf("GetBlockList failed: %v", err)
	}
	if len(blocks) != 2 {
		t.Errorf("expected 2 blocks initiated by user 1, got %d", len(blocks))
	}
}
