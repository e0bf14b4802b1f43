package model

// 默认配置
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// 内容可见性
const (
	VisibilityPublic  = "public"  // 所有人可见
	VisibilityPrivate = "private" // 仅作者可见
	VisibilityFriends = "friends" // 仅好友可见
)

// 点赞目标类型（封闭集合，按能力接口分发，不做运行时列探测）
const (
	TargetKindPost    = "post"    // 帖子
	TargetKindComment = "comment" // 评论
)

// 拒绝原因码（与pkg/apperr保持一致，供纯函数形式的可见性判定使用）
const (
	DenyReasonOwnerOnly   = "OWNER_ONLY"
	DenyReasonFriendsOnly = "FRIENDS_ONLY"
)

// Redis缓存键前缀
const (
	CacheKeyPost = "content:post" // 帖子缓存
	CacheKeyLike = "content:like" // 点赞状态缓存
)

// 缓存过期时间（秒）
const (
	CacheExpirePost = 300  // 帖子缓存5分钟
	CacheExpireLike = 3600 // 点赞状态缓存1小时
)

// Kafka事件类型
const (
	EventTypePostCreated = "post_created"
	EventTypePostDeleted = "post_deleted"
	EventTypeLikeCreated = "like_created"
	EventTypeLikeDeleted = "like_deleted"
	EventTypeChatCreated = "chat_created"
)

// 有效的可见性列表
var ValidVisibilities = []string{
	VisibilityPublic,
	VisibilityPrivate,
	VisibilityFriends,
}

// 有效的点赞目标类型列表
var ValidTargetKinds = []string{
	TargetKindPost,
	TargetKindComment,
}

// ValidateVisibility 验证可见性
func ValidateVisibility(visibility string) bool {
	for _, v := range ValidVisibilities {
		if v == visibility {
			return true
		}
	}
	return false
}

// ValidateTargetKind 验证点赞目标类型
func ValidateTargetKind(kind string) bool {
	for _, k := range ValidTargetKinds {
		if k == kind {
			return true
		}
	}
	return false
}
