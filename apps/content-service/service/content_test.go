package service

import (
	"context"
	"testing"

	"orbit-social/apps/content-service/model"
	"orbit-social/pkg/apperr"
)

func TestCreatePost(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	post, err := env.svc.CreatePost(ctx, 10, "hello", "world", "")
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if post.Visibility != model.VisibilityPublic {
		t.Errorf("expected default visibility %s, got %s", model.VisibilityPublic, post.Visibility)
	}

	if _, err := env.svc.CreatePost(ctx, 10, "hello", "world", "limited"); err == nil {
		t.Error("expected invalid visibility to be rejected")
	}
	if _, err := env.svc.CreatePost(ctx, 10, "", "world", ""); err == nil {
		t.Error("expected empty title to be rejected")
	}
}

func TestDeletePostAuthorOnly(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	post := env.mustCreatePost(t, 10, model.VisibilityPublic)

	err := env.svc.DeletePost(ctx, 20, post.ID)
	if !apperr.IsReason(err, apperr.ReasonNotAuthorized) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonNotAuthorized, err)
	}

	if err := env.svc.DeletePost(ctx, 10, post.ID); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}

	err = env.svc.DeletePost(ctx, 10, post.ID)
	if !apperr.IsReason(err, apperr.ReasonNotFound) {
		t.Errorf("expected reason %s after delete, got %v", apperr.ReasonNotFound, err)
	}
}

// 帖子删除后附属的评论和点赞一并清理
func TestDeletePostRunsCleanupHooks(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	post := env.mustCreatePost(t, 10, model.VisibilityPublic)
	comment, err := env.svc.CreateComment(ctx, 20, post.ID, "first")
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}
	if _, err := env.svc.LikeTarget(ctx, 20, model.TargetKindPost, post.ID); err != nil {
		t.Fatalf("LikeTarget failed: %v", err)
	}

	if err := env.svc.DeletePost(ctx, 10, post.ID); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}

	if got, _ := env.postDAO.GetComment(ctx, comment.ID); got != nil {
		t.Error("expected comments to be cleaned up with the post")
	}
	if liked, _ := env.likeDAO.HasLiked(ctx, 20, model.TargetKindPost, post.ID); liked {
		t.Error("expected likes to be cleaned up with the post")
	}
}

func TestCreateCommentRequiresVisibility(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	post := env.mustCreatePost(t, 10, model.VisibilityFriends)

	_, err := env.svc.CreateComment(ctx, 20, post.ID, "hi")
	if !apperr.IsReason(err, apperr.ReasonFriendsOnly) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonFriendsOnly, err)
	}

	env.relation.setFriends(10, 20)
	if _, err := env.svc.CreateComment(ctx, 20, post.ID, "hi"); err != nil {
		t.Errorf("expected friend to comment, got %v", err)
	}
}

func TestCreateCommentBlocked(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	post := env.mustCreatePost(t, 10, model.VisibilityPublic)
	env.relation.setBlocked(10, 20)

	_, err := env.svc.CreateComment(ctx, 20, post.ID, "hi")
	if !apperr.IsReason(err, apperr.ReasonBlocked) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonBlocked, err)
	}

	// 作者给自己的帖子评论不过拉黑检查
	if _, err := env.svc.CreateComment(ctx, 10, post.ID, "note to self"); err != nil {
		t.Errorf("expected author comment to succeed, got %v", err)
	}
}

func TestListCommentsRequiresPostVisible(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	post := env.mustCreatePost(t, 10, model.VisibilityPrivate)
	if _, err := env.svc.CreateComment(ctx, 10, post.ID, "draft"); err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}

	_, _, err := env.svc.ListComments(ctx, int64Ptr(20), post.ID, 1, 20)
	if !apperr.IsReason(err, apperr.ReasonOwnerOnly) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonOwnerOnly, err)
	}

	comments, total, err := env.svc.ListComments(ctx, int64Ptr(10), post.ID, 1, 20)
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}
	if total != 1 || len(comments) != 1 {
		t.Errorf("expected 1 comment, got %d (total %d)", len(comments), total)
	}
}

func TestLikeAndUnlike(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	post := env.mustCreatePost(t, 10, model.VisibilityPublic)

	like, err := env.svc.LikeTarget(ctx, 20, model.TargetKindPost, post.ID)
	if err != nil {
		t.Fatalf("LikeTarget failed: %v", err)
	}
	if like.UserID != 20 || like.TargetID != post.ID {
		t.Errorf("unexpected like record: %+v", like)
	}

	// 重复点赞
	_, err = env.svc.LikeTarget(ctx, 20, model.TargetKindPost, post.ID)
	if !apperr.IsReason(err, apperr.ReasonAlreadyLiked) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonAlreadyLiked, err)
	}

	if err := env.svc.UnlikeTarget(ctx, 20, model.TargetKindPost, post.ID); err != nil {
		t.Fatalf("UnlikeTarget failed: %v", err)
	}

	// 取消后可以再点
	if _, err := env.svc.LikeTarget(ctx, 20, model.TargetKindPost, post.ID); err != nil {
		t.Errorf("expected re-like after unlike to succeed, got %v", err)
	}
}

func TestUnlikeNotFound(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	post := env.mustCreatePost(t, 10, model.VisibilityPublic)
	err := env.svc.UnlikeTarget(ctx, 20, model.TargetKindPost, post.ID)
	if !apperr.IsReason(err, apperr.ReasonNotFound) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonNotFound, err)
	}
}

func TestCreateChatIdempotent(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	chat, err := env.svc.CreateChat(ctx, 1, 2)
	if err != nil {
		t.Fatalf("CreateChat failed: %v", err)
	}

	// 反方向再建返回同一会话
	again, err := env.svc.CreateChat(ctx, 2, 1)
	if err != nil {
		t.Fatalf("second CreateChat failed: %v", err)
	}
	if again.ID != chat.ID {
		t.Errorf("expected same chat, got %d and %d", chat.ID, again.ID)
	}

	chats, err := env.svc.ListChats(ctx, 1)
	if err != nil {
		t.Fatalf("ListChats failed: %v", err)
	}
	if len(chats) != 1 {
		t.Errorf("expected 1 chat, got %d", len(chats))
	}
}

func TestCreateChatBlocked(t *testing.T) {
	env := newTestService()
	ctx := context.Background()

	env.relation.setBlocked(2, 1)
	_, err := env.svc.CreateChat(ctx, 1, 2)
	if !apperr.IsReason(err, apperr.ReasonBlocked) {
		t.Errorf("expected reason %s, got %v", apperr.ReasonBlocked, err)
	}
}
