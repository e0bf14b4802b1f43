package service

import (
	"context"
	"fmt"
	"os"
	"testing"

	"orbit-social/apps/content-service/model"
	relationmodel "orbit-social/apps/relation-service/model"
	"orbit-social/pkg/apperr"
	"orbit-social/pkg/logger"
	"orbit-social/pkg/snowflake"
)

func TestMain(m *testing.M) {
	if err := snowflake.InitGlobalSnowflake(2); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// fakeRelation 内存版关系检查器，同时充当隐私偏好读取方
type fakeRelation struct {
	friends map[string]bool // 规范化无序对 -> 已接受好友
	blocks  map[string]bool // "blocker:blocked" -> 拉黑
	pairs   map[string]bool // 无序对上已存在申请或关系
	privacy map[int64]string
	noOne   map[int64]bool // 关闭好友申请的用户
}

func newFakeRelation() *fakeRelation {
	return &fakeRelation{
		friends: make(map[string]bool),
		blocks:  make(map[string]bool),
		pairs:   make(map[string]bool),
		privacy: make(map[int64]string),
		noOne:   make(map[int64]bool),
	}
}

func pairKey(a, b int64) string {
	minID, maxID := relationmodel.CanonicalPair(a, b)
	return fmt.Sprintf("%d:%d", minID, maxID)
}

func (f *fakeRelation) setFriends(a, b int64) {
	f.friends[pairKey(a, b)] = true
	f.pairs[pairKey(a, b)] = true
}

func (f *fakeRelation) setBlocked(blockerID, blockedID int64) {
	f.blocks[fmt.Sprintf("%d:%d", blockerID, blockedID)] = true
}

func (f *fakeRelation) IsFriend(ctx context.Context, a, b int64) (bool, error) {
	return f.friends[pairKey(a, b)], nil
}

func (f *fakeRelation) EitherBlocked(ctx context.Context, a, b int64) (bool, error) {
	return f.blocks[fmt.Sprintf("%d:%d", a, b)] || f.blocks[fmt.Sprintf("%d:%d", b, a)], nil
}

func (f *fakeRelation) CheckFriendRequest(ctx context.Context, requesterID, receiverID int64) error {
	if requesterID == receiverID {
		return apperr.SelfReference("不能向自己发送好友申请")
	}
	if blocked, _ := f.EitherBlocked(ctx, requesterID, receiverID); blocked {
		return apperr.Blocked("存在拉黑关系，无法发送好友申请")
	}
	if f.noOne[receiverID] {
		return apperr.RequestsDisabled("对方关闭了好友申请")
	}
	if f.pairs[pairKey(requesterID, receiverID)] {
		return apperr.DuplicateRequest("该用户之间已存在好友申请或好友关系")
	}
	return nil
}

func (f *fakeRelation) MessagePrivacy(ctx context.Context, userID int64) (string, error) {
	if privacy, ok := f.privacy[userID]; ok {
		return privacy, nil
	}
	return relationmodel.MessagePrivacyEveryone, nil
}

// fakePostDAO 内存版帖子DAO
// 列表过滤直接用过滤器的逐行谓词，与存储层下推语义等价
type fakePostDAO struct {
	posts    map[int64]*model.Post
	comments map[int64]*model.Comment
	relation *fakeRelation
}

func newFakePostDAO(relation *fakeRelation) *fakePostDAO {
	return &fakePostDAO{
		posts:    make(map[int64]*model.Post),
		comments: make(map[int64]*model.Comment),
		relation: relation,
	}
}

func (f *fakePostDAO) CreatePost(ctx context.Context, post *model.Post) error {
	f.posts[post.ID] = post
	return nil
}

func (f *fakePostDAO) GetPost(ctx context.Context, postID int64) (*model.Post, error) {
	return f.posts[postID], nil
}

func (f *fakePostDAO) DeletePost(ctx context.Context, postID, authorID int64) (bool, error) {
	post, ok := f.posts[postID]
	if !ok || post.AuthorID != authorID {
		return false, nil
	}
	delete(f.posts, postID)
	return true, nil
}

func (f *fakePostDAO) ListPosts(ctx context.Context, filter *model.QueryFilter, authorID int64, page, pageSize int32) ([]*model.Post, int64, error) {
	var result []*model.Post
	for _, post := range f.posts {
		if authorID > 0 && post.AuthorID != authorID {
			continue
		}
		isFriend := false
		if filter.ViewerID != nil {
			isFriend, _ = f.relation.IsFriend(ctx, *filter.ViewerID, post.AuthorID)
		}
		if filter.Allows(post.AuthorID, post.Visibility, isFriend) {
			result = append(result, post)
		}
	}
	return result, int64(len(result)), nil
}

func (f *fakePostDAO) CreateComment(ctx context.Context, comment *model.Comment) error {
	f.comments[comment.ID] = comment
	return nil
}

func (f *fakePostDAO) GetComment(ctx context.Context, commentID int64) (*model.Comment, error) {
	return f.comments[commentID], nil
}

func (f *fakePostDAO) ListComments(ctx context.Context, postID int64, page, pageSize int32) ([]*model.Comment, int64, error) {
	var result []*model.Comment
	for _, comment := range f.comments {
		if comment.PostID == postID {
			result = append(result, comment)
		}
	}
	return result, int64(len(result)), nil
}

func (f *fakePostDAO) DeleteCommentsByPost(ctx context.Context, postID int64) error {
	for id, comment := range f.comments {
		if comment.PostID == postID {
			delete(f.comments, id)
		}
	}
	return nil
}

// fakeLikeDAO 内存版点赞DAO
type fakeLikeDAO struct {
	likes map[string]*model.Like
}

func newFakeLikeDAO() *fakeLikeDAO {
	return &fakeLikeDAO{likes: make(map[string]*model.Like)}
}

func likeKey(userID int64, targetKind string, targetID int64) string {
	return fmt.Sprintf("%d:%s:%d", userID, targetKind, targetID)
}

func (f *fakeLikeDAO) CreateLike(ctx context.Context, like *model.Like) error {
	key := likeKey(like.UserID, like.TargetKind, like.TargetID)
	if _, exists := f.likes[key]; exists {
		return apperr.AlreadyLiked("已点赞过该内容")
	}
	f.likes[key] = like
	return nil
}

func (f *fakeLikeDAO) DeleteLike(ctx context.Context, userID int64, targetKind string, targetID int64) (bool, error) {
	key := likeKey(userID, targetKind, targetID)
	if _, exists := f.likes[key]; !exists {
		return false, nil
	}
	delete(f.likes, key)
	return true, nil
}

func (f *fakeLikeDAO) HasLiked(ctx context.Context, userID int64, targetKind string, targetID int64) (bool, error) {
	_, exists := f.likes[likeKey(userID, targetKind, targetID)]
	return exists, nil
}

func (f *fakeLikeDAO) DeleteLikesByTarget(ctx context.Context, targetKind string, targetID int64) error {
	for key, like := range f.likes {
		if like.TargetKind == targetKind && like.TargetID == targetID {
			delete(f.likes, key)
		}
	}
	return nil
}

// fakeChatDAO 内存版会话DAO
type fakeChatDAO struct {
	chats map[int64]*model.Chat
}

func newFakeChatDAO() *fakeChatDAO {
	return &fakeChatDAO{chats: make(map[int64]*model.Chat)}
}

func (f *fakeChatDAO) CreateChat(ctx context.Context, chat *model.Chat) error {
	f.chats[chat.ID] = chat
	return nil
}

func (f *fakeChatDAO) GetChat(ctx context.Context, chatID int64) (*model.Chat, error) {
	return f.chats[chatID], nil
}

func (f *fakeChatDAO) GetChatByMembers(ctx context.Context, a, b int64) (*model.Chat, error) {
	for _, chat := range f.chats {
		if (chat.MemberAID == a && chat.MemberBID == b) || (chat.MemberAID == b && chat.MemberBID == a) {
			return chat, nil
		}
	}
	return nil, nil
}

func (f *fakeChatDAO) ListChats(ctx context.Context, userID int64) ([]*model.Chat, error) {
	var result []*model.Chat
	for _, chat := range f.chats {
		if chat.HasMember(userID) {
			result = append(result, chat)
		}
	}
	return result, nil
}

type testEnv struct {
	svc      *Service
	postDAO  *fakePostDAO
	likeDAO  *fakeLikeDAO
	chatDAO  *fakeChatDAO
	relation *fakeRelation
}

func newTestService() *testEnv {
	relation := newFakeRelation()
	postDAO := newFakePostDAO(relation)
	likeDAO := newFakeLikeDAO()
	chatDAO := newFakeChatDAO()
	svc := NewService(postDAO, likeDAO, chatDAO, relation, relation, nil, nil, logger.GetLogger())
	svc.RegisterCleanupHook(func(ctx context.Context, post *model.Post) error {
		return postDAO.DeleteCommentsByPost(ctx, post.ID)
	})
	svc.RegisterCleanupHook(func(ctx context.Context, post *model.Post) error {
		return likeDAO.DeleteLikesByTarget(ctx, model.TargetKindPost, post.ID)
	})
	return &testEnv{
		svc:      svc,
		postDAO:  postDAO,
		likeDAO:  likeDAO,
		chatDAO:  chatDAO,
		relation: relation,
	}
}

func (e *testEnv) mustCreatePost(t *testing.T, authorID int64, visibility string) *model.Post {
	t.Helper()
	post, err := e.svc.CreatePost(context.Background(), authorID, "title", "body", visibility)
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	return post
}
