package model

// 好友关系状态
const (
	FriendshipStatusPending  = "pending"  // 待处理
	FriendshipStatusAccepted = "accepted" // 已接受
)

// 拉黑原因
const (
	BlockReasonHarassment    = "harassment"    // 骚扰
	BlockReasonSpam          = "spam"          // 垃圾信息
	BlockReasonInappropriate = "inappropriate" // 不当内容
	BlockReasonOther         = "other"         // 其他
)

// 通知类型
const (
	NotificationKindFriendRequest = "friend_request" // 好友申请
	NotificationKindNewMessage    = "new_message"    // 新消息
	NotificationKindPostComment   = "post_comment"   // 帖子评论
	NotificationKindPostLike      = "post_like"      // 帖子点赞
	NotificationKindCommentReply  = "comment_reply"  // 评论回复
)

// 消息隐私设置
const (
	MessagePrivacyEveryone    = "everyone"     // 任何人可发消息
	MessagePrivacyFriendsOnly = "friends_only" // 仅好友可发消息
	MessagePrivacyNoOne       = "no_one"       // 禁止任何人发消息
)

// 好友申请隐私设置
const (
	FriendRequestPrivacyEveryone = "everyone" // 任何人可发申请
	FriendRequestPrivacyNoOne    = "no_one"   // 关闭好友申请
)

// Redis缓存键前缀
const (
	CacheKeyFriendship = "relation:friendship" // 好友关系缓存
	CacheKeyBlocked    = "relation:blocked"    // 拉黑关系缓存
)

// 缓存过期时间（秒）
const (
	CacheExpireFriendship = 300 // 好友关系缓存5分钟
	CacheExpireBlocked    = 300 // 拉黑关系缓存5分钟
)

// Kafka事件类型
const (
	EventTypeFriendshipAccepted = "friendship_accepted"
	EventTypeFriendshipRemoved  = "friendship_removed"
	EventTypeBlockCreated       = "block_created"
	EventTypeBlockDeleted       = "block_deleted"
)

// 有效的拉黑原因列表
var ValidBlockReasons = []string{
	BlockReasonHarassment,
	BlockReasonSpam,
	BlockReasonInappropriate,
	BlockReasonOther,
}

// 有效的通知类型列表
var ValidNotificationKinds = []string{
	NotificationKindFriendRequest,
	NotificationKindNewMessage,
	NotificationKindPostComment,
	NotificationKindPostLike,
	NotificationKindCommentReply,
}

// 有效的消息隐私设置列表
var ValidMessagePrivacies = []string{
	MessagePrivacyEveryone,
	MessagePrivacyFriendsOnly,
	MessagePrivacyNoOne,
}

// 有效的好友申请隐私设置列表
var ValidFriendRequestPrivacies = []string{
	FriendRequestPrivacyEveryone,
	FriendRequestPrivacyNoOne,
}

// ValidateBlockReason 验证拉黑原因
func ValidateBlockReason(reason string) bool {
	for _, r := range ValidBlockReasons {
		if r == reason {
			return true
		}
	}
	return false
}

// ValidateNotificationKind 验证通知类型
func ValidateNotificationKind(kind string) bool {
	for _, k := range ValidNotificationKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// ValidateMessagePrivacy 验证消息隐私设置
func ValidateMessagePrivacy(privacy string) bool {
	for _, p := range ValidMessagePrivacies {
		if p == privacy {
			return true
		}
	}
	return false
}

// ValidateFriendRequestPrivacy 验证好友申请隐私设置
func ValidateFriendRequestPrivacy(privacy string) bool {
	for _, p := range ValidFriendRequestPrivacies {
		if p == privacy {
			return true
		}
	}
	return false
}
