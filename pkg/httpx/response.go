package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
	kratoserrors "github.com/go-kratos/kratos/v2/errors"

	"orbit-social/pkg/apperr"
)

// WriteError 输出错误响应
// 业务拒绝携带原因码并按错误码映射HTTP状态，基础设施故障统一500
func WriteError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if apperr.Reason(err) != "" {
		status = int(kratoserrors.FromError(err).Code)
	}
	c.JSON(status, gin.H{
		"success": false,
		"message": kratoserrors.FromError(err).Message,
		"reason":  apperr.Reason(err),
	})
}

// WriteBadRequest 输出参数绑定错误
func WriteBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": "参数错误: " + err.Error(),
	})
}
