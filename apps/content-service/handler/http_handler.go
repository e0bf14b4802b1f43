package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	kratoserrors "github.com/go-kratos/kratos/v2/errors"

	"orbit-social/apps/content-service/service"
	"orbit-social/pkg/apperr"
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
	api := r.Group("/api/v1/content")
	{
		// 帖子管理
		api.POST("/post/create", h.CreatePost) // 发布帖子
		api.POST("/post/get", h.GetPost)       // 获取帖子
		api.POST("/post/list", h.ListPosts)    // 帖子列表
		api.POST("/post/delete", h.DeletePost) // 删除帖子

		// 评论
		api.POST("/comment/create", h.CreateComment) // 发表评论
		api.POST("/comment/list", h.ListComments)    // 评论列表

		// 点赞
		api.POST("/like/create", h.Like)   // 点赞
		api.POST("/like/delete", h.Unlike) // 取消点赞

		// 会话
		api.POST("/chat/create", h.CreateChat) // 建立会话
		api.POST("/chat/list", h.ListChats)    // 会话列表

		// 交互守门检查（只读判定，不产生写入）
		api.POST("/can/friend-request", h.CanSendFriendRequest) // 能否发送好友申请
		api.POST("/can/chat", h.CanStartChat)                   // 能否建立会话
		api.POST("/can/message", h.CanMessage)                  // 能否发送消息
		api.POST("/can/like", h.CanLike)                        // 能否点赞
	}
}

// writeError 输出错误响应，业务拒绝按原因码映射HTTP状态
func (h *HTTPHandler) writeError(c *gin.Context, err error) {
	httpx.WriteError(c, err)
}

// CreatePostRequest 发布帖子请求
type CreatePostRequest struct {
	AuthorID   int64  `json:"author_id" binding:"required"`
	Title      string `json:"title" binding:"required"`
	Content    string `json:"content"`
	Visibility string `json:"visibility"`
}

// CreatePost 发布帖子
func (h *HTTPHandler) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBadRequest(c, err)
		return
	}

	post, err := h.svc.CreatePost(c.Request.Context(), req.AuthorID, req.Title, req.Content, req.Visibility)
	if err != nil {
		h.logger.Error(c.Request.Context(), "Failed to create post",
			logger.F("error", err.Error()),
			logger.F("authorID", req.AuthorID))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "发布成功",
		"data":    post,
	})
}

// GetPostRequest 获取帖子请求
// ViewerID为空表示匿名访问
type GetPostRequest struct {
	ViewerID *int64 `json:"viewer_id"`
	PostID   int64  `json:"post_id" binding:"required"`
}

// GetPost 获取帖子
func (h *HTTPHandler) GetPost(c *gin.Context) {
	var req GetPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBadRequest(c, err)
		return
	}

	post, err := h.svc.GetPost(c.Request.Context(), req.ViewerID, req.PostID)
	if err != nil {
		h.logger.Error(c.Request.Context(), "Failed to get post",
			logger.F("error", err.Error()),
			logger.F("postID", req.PostID))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "获取成功",
		"data":    post,
	})
}

// ListPostsRequest 帖子列表请求
type ListPostsRequest struct {
	ViewerID *int64 `json:"viewer_id"`
	AuthorID int64  `json:"author_id"`
	Page     int32  `json:"page"`
	PageSize int32  `json:"page_size"`
}

// ListPosts 按访问者可见性列出帖子
func (h *HTTPHandler) ListPosts(c *gin.Context) {
	var req ListPostsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBadRequest(c, err)
		return
	}

	posts, total, err := h.svc.ListPosts(c.Request.Context(), req.ViewerID, req.AuthorID, req.Page, req.PageSize)
	if err != nil {
		h.logger.Error(c.Request.Context(), "Failed to list posts",
			logger.F("error", err.Error()),
			logger.F("authorID", req.AuthorID))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "获取成功",
		"data":    posts,
		"total":   total,
	})
}

// DeletePostRequest 删除帖子请求
type DeletePostRequest struct {
	ActorID int64 `json:"actor_id" binding:"required"`
	PostID  int64 `json:"post_id" binding:"required"`
}

// DeletePost 删除帖子
func (h *HTTPHandler) DeletePost(c *gin.Context) {
	var req DeletePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBadRequest(c, err)
		return
	}

	if err := h.svc.DeletePost(c.Request.Context(), req.ActorID, req.PostID); err != nil {
		h.logger.Error(c.Request.Context(), "Failed to delete post",
			logger.F("error", err.Error()),
			logger.F("postID", req.PostID),
			logger.F("actorID", req.ActorID))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "已删除",
	})
}

// CreateCommentRequest 发表评论请求
type CreateCommentRequest struct {
	AuthorID int64  `json:"author_id" binding:"required"`
	PostID   int64  `json:"post_id" binding:"required"`
	Content  string `json:"content" binding:"required"`
}

// CreateComment 发表评论
func (h *HTTPHandler) CreateComment(c *gin.Context) {
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBadRequest(c, err)
		return
	}

	comment, err := h.svc.CreateComment(c.Request.Context(), req.AuthorID, req.PostID, req.Content)
	if err != nil {
		h.logger.Error(c.Request.Context(), "Failed to create comment",
			logger.F("error", err.Error()),
			logger.F("postID", req.PostID),
			logger.F("authorID", req.AuthorID))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "评论成功",
		"data":    comment,
	})
}

// ListCommentsRequest 评论列表请求
type ListCommentsRequest struct {
	ViewerID *int64 `json:"viewer_id"`
	PostID   int64  `json:"post_id" binding:"required"`
	Page     int32  `json:"page"`
	PageSize int32  `json:"page_size"`
}

// ListComments 获取帖子评论列表
func (h *HTTPHandler) ListComments(c *gin.Context) {
	var req ListCommentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBadRequest(c, err)
		return
	}

	comments, total, err := h.svc.ListComments(c.Request.Context(), req.ViewerID, req.PostID, req.Page, req.PageSize)
	if err != nil {
		h.logger.Error(c.Request.Context(), "Failed to list comments",
			logger.F("error", err.Error()),
			logger.F("postID", req.PostID))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "获取成功",
		"data":    comments,
		"total":   total,
	})
}

// LikeRequest 点赞请求
type LikeRequest struct {
	ActorID    int64  `json:"actor_id" binding:"required"`
	TargetKind string `json:"target_kind" binding:"required"`
	TargetID   int64  `json:"target_id" binding:"required"`
}

// Like 点赞帖子或评论
func (h *HTTPHandler) Like(c *gin.Context) {
	var req LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBadRequest(c, err)
		return
	}

	like, err := h.svc.LikeTarget(c.Request.Context(), req.ActorID, req.TargetKind, req.TargetID)
	if err != nil {
		h.logger.Error(c.Request.Context(), "Failed to create like",
			logger.F("error", err.Error()),
			logger.F("actorID", req.ActorID),
			logger.F("targetKind", req.TargetKind),
			logger.F("targetID", req.TargetID))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "点赞成功",
		"data":    like,
	})
}

// Unlike 取消点赞
func (h *HTTPHandler) Unlike(c *gin.Context) {
	var req LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBadRequest(c, err)
		return
	}

	if err := h.svc.UnlikeTarget(c.Request.Context(), req.ActorID, req.TargetKind, req.TargetID); err != nil {
		h.logger.Error(c.Request.Context(), "Failed to delete like",
			logger.F("error", err.Error()),
			logger.F("actorID", req.ActorID),
			logger.F("targetKind", req.TargetKind),
			logger.F("targetID", req.TargetID))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "已取消点赞",
	})
}

// CreateChatRequest 建立会话请求
type CreateChatRequest struct {
	CreatorID int64 `json:"creator_id" binding:"required"`
	OtherID   int64 `json:"other_id" binding:"required"`
}

// CreateChat 建立两人会话
func (h *HTTPHandler) CreateChat(c *gin.Context) {
	var req CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBadRequest(c, err)
		return
	}

	chat, err := h.svc.CreateChat(c.Request.Context(), req.CreatorID, req.OtherID)
	if err != nil {
		h.logger.Error(c.Request.Context(), "Failed to create chat",
			logger.F("error", err.Error()),
			logger.F("creatorID", req.CreatorID),
			logger.F("otherID", req.OtherID))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "会话已建立",
		"data":    chat,
	})
}

// ListChatsRequest 会话列表请求
type ListChatsRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

// ListChats 获取用户参与的会话列表
func (h *HTTPHandler) ListChats(c *gin.Context) {
	var req ListChatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBadRequest(c, err)
		return
	}

	chats, err := h.svc.ListChats(c.Request.Context(), req.UserID)
	if err != nil {
		h.logger.Error(c.Request.Context(), "Failed to list chats",
			logger.F("error", err.Error()),
			logger.F("userID", req.UserID))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "获取成功",
		"data":    chats,
	})
}

// writeGateResult 输出守门判定结果
// 业务拒绝不算请求失败：allowed=false加原因码返回200
func (h *HTTPHandler) writeGateResult(c *gin.Context, err error) {
	if err == nil {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"allowed": true,
		})
		return
	}
	if reason := apperr.Reason(err); reason != "" {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"allowed": false,
			"reason":  reason,
			"message": kratoserrors.FromError(err).Message,
		})
		return
	}
	h.writeError(c, err)
}

// GatePairRequest 守门检查请求（操作者与目标用户）
type GatePairRequest struct {
	ActorID  int64 `json:"actor_id" binding:"required"`
	TargetID int64 `json:"target_id" binding:"required"`
}

// CanSendFriendRequest 检查能否发送好友申请
func (h *HTTPHandler) CanSendFriendRequest(c *gin.Context) {
	var req GatePairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBadRequest(c, err)
		return
	}

	err := h.svc.CanSendFriendRequest(c.Request.Context(), req.ActorID, req.TargetID)
	h.writeGateResult(c, err)
}

// CanStartChat 检查能否建立会话
func (h *HTTPHandler) CanStartChat(c *gin.Context) {
	var req GatePairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBadRequest(c, err)
		return
	}

	err := h.svc.CanStartChat(c.Request.Context(), req.ActorID, req.TargetID)
	h.writeGateResult(c, err)
}

// CanMessageRequest 消息守门检查请求
type CanMessageRequest struct {
	SenderID int64 `json:"sender_id" binding:"required"`
	ChatID   int64 `json:"chat_id" binding:"required"`
}

// CanMessage 检查能否在会话中发消息
func (h *HTTPHandler) CanMessage(c *gin.Context) {
	var req CanMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBadRequest(c, err)
		return
	}

	err := h.svc.CanMessage(c.Request.Context(), req.SenderID, req.ChatID)
	h.writeGateResult(c, err)
}

// CanLike 检查能否点赞
func (h *HTTPHandler) CanLike(c *gin.Context) {
	var req LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBadRequest(c, err)
		return
	}

	err := h.svc.CanLike(c.Request.Context(), req.ActorID, req.TargetKind, req.TargetID)
	h.writeGateResult(c, err)
}
