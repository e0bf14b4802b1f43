package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"orbit-social/apps/relation-service/service"
	"orbit-social/pkg/httpx"
	"orbit-social/pkg/logger"
)

// HTTPHandler HTTP处理器
type HTTPHandler struct {
	svc    *service.Service
	logger logger.Logger
}

// NewHTTPHandler 创建HTTP处理器
func NewHTTPHandler(svc *service.Service, log logger.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		logger: log,
	}
}

// RegisterRoutes 注册HTTP路由
func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1/relation")
	{
		// 好友关系管理
		api.POST("/friend/send", h.SendFriendRequest)     // 发送好友申请
		api.POST("/friend/accept", h.AcceptFriendRequest) // 接受好友申请
		api.POST("/friend/reject", h.RejectFriendRequest) // 拒绝好友申请
		api.POST("/friend/cancel", h.CancelFriendRequest) // 撤回好友申请
		api.POST("/friend/remove", h.RemoveFriend)        // 删除好友
		api.POST("/friend/list", h.GetFriendList)         // 获取好友列表
		api.POST("/friend/requests", h.GetPendingRequests) // 获取待处理申请
		api.POST("/friend/sent", h.GetSentRequests)       // 获取已发出申请
		api.POST("/friend/check", h.CheckFriend)          // 检查好友关系

		// 拉黑管理
		api.POST("/block/create", h.CreateBlock) // 拉黑用户
		api.POST("/block/delete", h.DeleteBlock) // 解除拉黑
		api.POST("/block/list", h.GetBlockList)  // 获取拉黑列表
		api.POST("/block/check", h.CheckBlocked) // 检查拉黑关系

		// 通知偏好
		api.POST("/preference/get", h.GetPreference)       // 获取通知偏好
		api.POST("/preference/update", h.UpdatePreference) // 更新通知偏好
		api.POST("/preference/ensure", h.EnsurePreference) // 初始化默认偏好
		api.POST("/notify/check", h.ShouldNotify)          // 检查通知开关
	}
}

// writeError 输出错误响应，业务拒绝按原因码映射HTTP状态
func (h *HTTPHandler) writeError(c *gin.Context, err error) {
	httpx.WriteError(c, err)
}

// SendFriendRequestRequest 发送好友申请请求
type SendFriendRequestRequest struct {
	RequesterID int64 `json:"requester_id" binding:"required"`
	ReceiverID  int64 `json:"receiver_id" binding:"required"`
}

// SendFriendRequest 发送好友申请
func (h *HTTPHandler) SendFriendRequest(c *gin.Context) {
	var req SendFriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBadRequest(c, err)
		return
	}

	friendship, err := h.svc.SendFriendRequest(c.Request.Context(), req.RequesterID, req.ReceiverID)
	if err != nil {
		h.logger.Error(c.Request.Context(), "Failed to send friend request",
			logger.F("error", err.Error()),
			logger.F("requesterID", req.RequesterID),
			logger.F("receiverID", req.ReceiverID))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "申请已发送",
		"data":    friendship,
	})
}

// FriendshipActionRequest 好友申请状态转换请求
type FriendshipActionRequest struct {
	FriendshipID int64 `json:"friendship_id" binding:"required"`
	ActorID      int64 `json:"actor_id" binding:"required"`
}

// AcceptFriendRequest 接受好友申请
func (h *HTTPHandler) AcceptFriendRequest(c *gin.Context) {
	var req FriendshipActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBadRequest(c, err)
		return
	}

	friendship, err := h.svc.AcceptFriendRequest(c.Request.Context(), req.FriendshipID, req.ActorID)
	if err != nil {
		h.logger.Error(c.Request.Context(), "Failed to accept friend request",
			logger.F("error", err.Error()),
			logger.F("friendshipID", req.FriendshipID),
			logger.F("actorID", req.ActorID))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "已接受",
		"data":    friendship,
	})
}

// RejectFriendRequest 拒绝好友申请
func (h *HTTPHandler) RejectFriendRequest(c *gin.Context) {
	var req FriendshipActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBadRequest(c, err)
		return
	}

	if err := h.svc.RejectFriendRequest(c.Request.Context(), req.FriendshipID, req.ActorID); err != nil {
		h.logger.Error(c.Request.Context(), "Failed to reject friend request",
			logger.F("error", err.Error()),
			logger.F("friendshipID", req.FriendshipID),
			logger.F("actorID", req.ActorID))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "已拒绝",
	})
}

// CancelFriendRequest 撤回好友申请
func (h *HTTPHandler) CancelFriendRequest(c *gin.Context) {
	var req FriendshipActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBadRequest(c, err)
		return
	}

	if err := h.svc.CancelFriendRequest(c.Request.Context(), req.FriendshipID, req.ActorID); err != nil {
		h.logger.Error(c.Request.Context(), "Failed to cancel friend request",
			logger.F("error", err.Error()),
			logger.F("friendshipID", req.FriendshipID),
			logger.F("actorID", req.ActorID))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "已撤回",
	})
}

// RemoveFriend 删除好友
func (h *HTTPHandler) RemoveFriend(c *gin.Context) {
	var req FriendshipActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBadRequest(c, err)
		return
	}

	if err := h.svc.RemoveFriend(c.Request.Context(), req.FriendshipID, req.ActorID); err != nil {
		h.logger.Error(c.Request.Context(), "Failed to remove friend",
			logger.F("error", err.Error()),
			logger.F("friendshipID", req.FriendshipID),
			logger.F("actorID", req.ActorID))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "已删除好友",
	})
}

// UserIDRequest 仅携带用户ID的请求
type UserIDRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

// GetFriendList 获取好友列表
func (h *HTTPHandler) GetFriendList(c *gin.Context) {
	var req UserIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBadRequest(c, err)
		return
	}

	friendships, err := h.svc.GetFriendList(c.Request.Context(), req.UserID)
	if err != nil {
		h.logger.Error(c.Request.Context(), "Failed to get friend list",
			logger.F("error", err.Error()),
			logger.F("userID", req.UserID))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "获取成功",
		"data":    friendships,
	})
}

// GetPendingRequests 获取待处理好友申请
func (h *HTTPHandler) GetPendingRequests(c *gin.Context) {
	var req UserIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBadRequest(c, err)
		return
	}

	friendships, err := h.svc.GetPendingRequests(c.Request.Context(), req.UserID)
	if err != nil {
		h.logger.Error(c.Request.Context(), "Failed to get pending requests",
			logger.F("error", err.Error()),
			logger.F("userID", req.UserID))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "获取成功",
		"data":    friendships,
	})
}

// GetSentRequests 获取已发出好友申请
func (h *HTTPHandler) GetSentRequests(c *gin.Context) {
	var req UserIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBadRequest(c, err)
		return
	}

	friendships, err := h.svc.GetSentRequests(c.Request.Context(), req.UserID)
	if err != nil {
		h.logger.Error(c.Request.Context(), "Failed to get sent requests",
			logger.F("error", err.Error()),
			logger.F("userID", req.UserID))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "获取成功",
		"data":    friendships,
	})
}

// PairRequest 无序对查询请求
type PairRequest struct {
	UserID  int64 `json:"user_id" binding:"required"`
	OtherID int64 `json:"other_id" binding:"required"`
}

// CheckFriend 检查好友关系
func (h *HTTPHandler) CheckFriend(c *gin.Context) {
	var req PairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBadRequest(c, err)
		return
	}

	isFriend, err := h.svc.IsFriend(c.Request.Context(), req.UserID, req.OtherID)
	if err != nil {
		h.logger.Error(c.Request.Context(), "Failed to check friendship",
			logger.F("error", err.Error()),
			logger.F("userID", req.UserID),
			logger.F("otherID", req.OtherID))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "查询成功",
		"is_friend": isFriend,
	})
}

// CreateBlockRequest 拉黑请求
type CreateBlockRequest struct {
	BlockerID int64  `json:"blocker_id" binding:"required"`
	BlockedID int64  `json:"blocked_id" binding:"required"`
	Reason    string `json:"reason"`
}

// CreateBlock 拉黑用户
func (h *HTTPHandler) CreateBlock(c *gin.Context) {
	var req CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBadRequest(c, err)
		return
	}

	block, err := h.svc.CreateBlock(c.Request.Context(), req.BlockerID, req.BlockedID, req.Reason)
	if err != nil {
		h.logger.Error(c.Request.Context(), "Failed to create block",
			logger.F("error", err.Error()),
			logger.F("blockerID", req.BlockerID),
			logger.F("blockedID", req.BlockedID))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "已拉黑",
		"data":    block,
	})
}

// DeleteBlockRequest 解除拉黑请求
type DeleteBlockRequest struct {
	BlockerID int64 `json:"blocker_id" binding:"required"`
	BlockedID int64 `json:"blocked_id" binding:"required"`
}

// DeleteBlock 解除拉黑
func (h *HTTPHandler) DeleteBlock(c *gin.Context) {
	var req DeleteBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBadRequest(c, err)
		return
	}

	if err := h.svc.DeleteBlock(c.Request.Context(), req.BlockerID, req.BlockedID); err != nil {
		h.logger.Error(c.Request.Context(), "Failed to delete block",
			logger.F("error", err.Error()),
			logger.F("blockerID", req.BlockerID),
			logger.F("blockedID", req.BlockedID))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "已解除拉黑",
	})
}

// GetBlockList 获取拉黑列表
func (h *HTTPHandler) GetBlockList(c *gin.Context) {
	var req UserIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBadRequest(c, err)
		return
	}

	blocks, err := h.svc.GetBlockList(c.Request.Context(), req.UserID)
	if err != nil {
		h.logger.Error(c.Request.Context(), "Failed to get block list",
			logger.F("error", err.Error()),
			logger.F("userID", req.UserID))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "获取成功",
		"data":    blocks,
	})
}

// CheckBlocked 检查拉黑关系（双向）
func (h *HTTPHandler) CheckBlocked(c *gin.Context) {
	var req PairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBadRequest(c, err)
		return
	}

	blocked, err := h.svc.EitherBlocked(c.Request.Context(), req.UserID, req.OtherID)
	if err != nil {
		h.logger.Error(c.Request.Context(), "Failed to check block",
			logger.F("error", err.Error()),
			logger.F("userID", req.UserID),
			logger.F("otherID", req.OtherID))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "查询成功",
		"either_blocked": blocked,
	})
}

// GetPreference 获取通知偏好
func (h *HTTPHandler) GetPreference(c *gin.Context) {
	var req UserIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBadRequest(c, err)
		return
	}

	pref, err := h.svc.GetPreference(c.Request.Context(), req.UserID)
	if err != nil {
		h.logger.Error(c.Request.Context(), "Failed to get preference",
			logger.F("error", err.Error()),
			logger.F("userID", req.UserID))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "获取成功",
		"data":    pref,
	})
}

// UpdatePreferenceRequest 更新通知偏好请求
type UpdatePreferenceRequest struct {
	UserID               int64           `json:"user_id" binding:"required"`
	Notifications        map[string]bool `json:"notifications"`
	MessagePrivacy       string          `json:"message_privacy"`
	FriendRequestPrivacy string          `json:"friend_request_privacy"`
}

// UpdatePreference 更新通知偏好
func (h *HTTPHandler) UpdatePreference(c *gin.Context) {
	var req UpdatePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBadRequest(c, err)
		return
	}

	pref, err := h.svc.UpdatePreference(c.Request.Context(), req.UserID,
		req.Notifications, req.MessagePrivacy, req.FriendRequestPrivacy)
	if err != nil {
		h.logger.Error(c.Request.Context(), "Failed to update preference",
			logger.F("error", err.Error()),
			logger.F("userID", req.UserID))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "更新成功",
		"data":    pref,
	})
}

// EnsurePreference 初始化默认通知偏好
func (h *HTTPHandler) EnsurePreference(c *gin.Context) {
	var req UserIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBadRequest(c, err)
		return
	}

	pref, err := h.svc.EnsureDefaultPreference(c.Request.Context(), req.UserID)
	if err != nil {
		h.logger.Error(c.Request.Context(), "Failed to ensure preference",
			logger.F("error", err.Error()),
			logger.F("userID", req.UserID))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "初始化成功",
		"data":    pref,
	})
}

// ShouldNotifyRequest 通知开关查询请求
type ShouldNotifyRequest struct {
	UserID int64  `json:"user_id" binding:"required"`
	Kind   string `json:"kind" binding:"required"`
}

// ShouldNotify 检查通知开关
func (h *HTTPHandler) ShouldNotify(c *gin.Context) {
	var req ShouldNotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBadRequest(c, err)
		return
	}

	shouldNotify, err := h.svc.ShouldNotify(c.Request.Context(), req.UserID, req.Kind)
	if err != nil {
		h.logger.Error(c.Request.Context(), "Failed to check notification switch",
			logger.F("error", err.Error()),
			logger.F("userID", req.UserID),
			logger.F("kind", req.Kind))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "查询成功",
		"should_notify": shouldNotify,
	})
}
