package service

import (
	"context"
	"math/rand"
	"testing"

	"orbit-social/apps/content-service/model"
	"orbit-social/pkg/apperr"
)

func int64Ptr(v int64) *int64 { return &v }

func TestCanViewPublic(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	if err := env.svc.CanView(ctx, nil, 10, model.VisibilityPublic); err != nil {
		t.Errorf("expected public content visible to anonymous viewer, got %v", err)
	}
	if err := env.svc.CanView(ctx, int64Ptr(20), 10, model.VisibilityPublic); err != nil {
		t.Errorf("expected public content visible to stranger, got %v", err)
	}
}

func TestCanViewPrivate(t *testing.T) {
	env := newTestService()
	ctx := context.Background()
	env.relation.setFriends(10, 20)

	if err := env.svc.CanView(ctx, int64Ptr(10), 10, model.VisibilityPrivate); err != nil {
		t.Errorf("expected private content visible to owner, got %v", err)
	}

	// 好友也不能看private
	err := env.svc.CanView(ctx, int64Ptr(20), 10, model.VisibilityPrivate)
	if !apperr.IsReason(err, apperr.ReasonOwnerOnly) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonOwnerOnly, err)
	}

	err = env.svc.CanView(ctx, nil, 10, model.VisibilityPrivate)
	if !apperr.IsReason(err, apperr.ReasonOwnerOnly) {
		t.Errorf("expected reason %s for anonymous, got %v", apperr.ReasonOwnerOnly, err)
	}
}

func TestCanViewFriends(t *testing.T) {
	env := newTestService()
	ctx := context.Background()
	env.relation.setFriends(10, 20)

	if err := env.svc.CanView(ctx, int64Ptr(20), 10, model.VisibilityFriends); err != nil {
		t.Errorf("expected friends content visible to friend, got %v", err)
	}
	if err := env.svc.CanView(ctx, int64Ptr(10), 10, model.VisibilityFriends); err != nil {
		t.Errorf("expected friends content visible to owner, got %v", err)
	}

	err := env.svc.CanView(ctx, int64Ptr(30), 10, model.VisibilityFriends)
	if !apperr.IsReason(err, apperr.ReasonFriendsOnly) {
		t.Errorf("expected reason %s for stranger, got %v", apperr.ReasonFriendsOnly, err)
	}

	err = env.svc.CanView(ctx, nil, 10, model.VisibilityFriends)
	if !apperr.IsReason(err, apperr.ReasonFriendsOnly) {
		t.Errorf("expected reason %s for anonymous, got %v", apperr.ReasonFriendsOnly, err)
	}
}

// 好友关系解除后friends内容立即不可见
func TestCanViewFriendsAfterUnfriend(t *testing.T) {
	env := newTestService()
	ctx := context.Background()
	env.relation.setFriends(10, 20)

	if err := env.svc.CanView(ctx, int64Ptr(20), 10, model.VisibilityFriends); err != nil {
		t.Fatalf("expected friend to see content, got %v", err)
	}

	delete(env.relation.friends, pairKey(10, 20))
	err := env.svc.CanView(ctx, int64Ptr(20), 10, model.VisibilityFriends)
	if !apperr.IsReason(err, apperr.ReasonFriendsOnly) {
		t.Errorf("expected visibility to drop after unfriend, got %v", err)
	}
}

// 列表过滤与逐条判定必须选出同一集合
func TestListPostsMatchesCanView(t *testing.T) {
	env := newTestService()
	ctx := context.Background()
	rng := rand.New(rand.NewSource(7))

	env.relation.setFriends(1, 2)
	env.relation.setFriends(2, 3)

	visibilities := []string{model.VisibilityPublic, model.VisibilityPrivate, model.VisibilityFriends}
	for i := 0; i < 30; i++ {
		authorID := int64(rng.Intn(4) + 1)
		env.mustCreatePost(t, authorID, visibilities[rng.Intn(len(visibilities))])
	}

	viewers := []*int64{nil, int64Ptr(1), int64Ptr(2), int64Ptr(3), int64Ptr(4)}
	for _, viewerID := range viewers {
		posts, _, err := env.svc.ListPosts(ctx, viewerID, 0, 1, 100)
		if err != nil {
			t.Fatalf("ListPosts failed: %v", err)
		}

		listed := make(map[int64]bool, len(posts))
		for _, post := range posts {
			listed[post.ID] = true
		}

		for _, post := range env.postDAO.posts {
			visible := env.svc.CanViewPost(ctx, viewerID, post) == nil
			if visible != listed[post.ID] {
				t.Errorf("viewer %v: post %d visible=%v but listed=%v (visibility=%s author=%d)",
					viewerID, post.ID, visible, listed[post.ID], post.Visibility, post.AuthorID)
			}
		}
	}
}

func TestGetPostAppliesVisibility(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	post := env.mustCreatePost(t, 10, model.VisibilityPrivate)

	if _, err := env.svc.GetPost(ctx, int64Ptr(10), post.ID); err != nil {
		t.Errorf("expected owner to read own private post, got %v", err)
	}

	_, err := env.svc.GetPost(ctx, int64Ptr(20), post.ID)
	if !apperr.IsReason(err, apperr.ReasonOwnerOnly) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonOwnerOnly, err)
	}

	_, err = env.svc.GetPost(ctx, int64Ptr(20), 99999)
	if !apperr.IsReason(err, apperr.ReasonNotFound) {
		t.Errorf("expected reason %s for missing post, got %v", apperr.ReasonNotFound, err)
	}
}
