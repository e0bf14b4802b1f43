package apperr

import (
	"github.com/go-kratos/kratos/v2/errors"
)

// 拒绝原因码
// 对外契约的一部分：调用方按原因码映射用户文案，禁止匹配错误消息文本
const (
	ReasonSelfReference    = "SELF_REFERENCE"    // 不允许对自己执行该操作
	ReasonDuplicateRequest = "DUPLICATE_REQUEST" // 该用户对已存在好友申请或好友关系
	ReasonRequestsDisabled = "REQUESTS_DISABLED" // 对方关闭了好友申请
	ReasonInvalidState     = "INVALID_STATE"     // 当前状态不允许该转换
	ReasonNotAuthorized    = "NOT_AUTHORIZED"    // 操作者不是该转换要求的一方
	ReasonAlreadyBlocked   = "ALREADY_BLOCKED"   // 同方向拉黑记录已存在
	ReasonAlreadyLiked     = "ALREADY_LIKED"     // 重复点赞
	ReasonBlocked          = "BLOCKED"           // 任一方向的拉黑阻断了交互
	ReasonOwnerOnly        = "OWNER_ONLY"        // 仅作者可见
	ReasonFriendsOnly      = "FRIENDS_ONLY"      // 仅好友可见
	ReasonPrivacyDisabled  = "PRIVACY_DISABLED"  // 对方的隐私设置禁止该类操作
	ReasonNotParticipant   = "NOT_PARTICIPANT"   // 发送者不是会话成员
	ReasonNotFound         = "NOT_FOUND"         // 引用的记录不存在
)

// SelfReference 对自己执行不允许的操作
func SelfReference(message string) *errors.Error {
	return errors.BadRequest(ReasonSelfReference, message)
}

// DuplicateRequest 重复的好友申请
func DuplicateRequest(message string) *errors.Error {
	return errors.Conflict(ReasonDuplicateRequest, message)
}

// RequestsDisabled 对方关闭好友申请
func RequestsDisabled(message string) *errors.Error {
	return errors.Forbidden(ReasonRequestsDisabled, message)
}

// InvalidState 非法状态转换
func InvalidState(message string) *errors.Error {
	return errors.Conflict(ReasonInvalidState, message)
}

// NotAuthorized 操作者身份不符
func NotAuthorized(message string) *errors.Error {
	return errors.Forbidden(ReasonNotAuthorized, message)
}

// AlreadyBlocked 重复拉黑
func AlreadyBlocked(message string) *errors.Error {
	return errors.Conflict(ReasonAlreadyBlocked, message)
}

// AlreadyLiked 重复点赞
func AlreadyLiked(message string) *errors.Error {
	return errors.Conflict(ReasonAlreadyLiked, message)
}

// Blocked 拉黑阻断交互
func Blocked(message string) *errors.Error {
	return errors.Forbidden(ReasonBlocked, message)
}

// OwnerOnly 私密内容仅作者可见
func OwnerOnly(message string) *errors.Error {
	return errors.Forbidden(ReasonOwnerOnly, message)
}

// FriendsOnly 内容仅好友可见
func FriendsOnly(message string) *errors.Error {
	return errors.Forbidden(ReasonFriendsOnly, message)
}

// PrivacyDisabled 隐私设置禁止该类操作
func PrivacyDisabled(message string) *errors.Error {
	return errors.Forbidden(ReasonPrivacyDisabled, message)
}

// NotParticipant 不是会话成员
func NotParticipant(message string) *errors.Error {
	return errors.Forbidden(ReasonNotParticipant, message)
}

// NotFound 记录不存在
func NotFound(message string) *errors.Error {
	return errors.NotFound(ReasonNotFound, message)
}

// Reason 提取错误的原因码，非业务错误返回空串
func Reason(err error) string {
	if err == nil {
		return ""
	}
	return errors.FromError(err).Reason
}

// IsReason 判断错误是否携带指定原因码
func IsReason(err error, reason string) bool {
	return Reason(err) == reason
}

// IsDeny 判断是否为业务拒绝（而非基础设施故障）
func IsDeny(err error) bool {
	return Reason(err) != ""
}
