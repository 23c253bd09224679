package public

import (
	"strconv"

	"github.com/bookstore-next/internal/http/handlers/shared"
	"github.com/bookstore-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListNotifications 当前用户通知列表
func (h *Handler) ListNotifications(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := parsePagination(c)
	unreadOnly, _ := strconv.ParseBool(c.DefaultQuery("unread_only", "false"))
	result, err := h.NotificationService.List(c.Request.Context(), uid, page, pageSize, unreadOnly)
	if err != nil {
		respondError(c, response.CodeInternal, "error.notification_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, gin.H{
		"items":  result.Items,
		"unread": result.Unread,
	}, response.BuildPagination(page, pageSize, result.Total))
}

// MarkNotificationRead 标记通知已读
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := shared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.NotificationService.MarkRead(c.Request.Context(), uid, id); err != nil {
		respondWithMappedError(c, err, notificationErrorRules, response.CodeInternal, "error.notification_fetch_failed")
		return
	}
	response.Success(c, gin.H{"id": id})
}
