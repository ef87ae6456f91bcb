package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"newsroom/internal/cache"
	"newsroom/internal/storage"
)

type createCommentBody struct {
	NewsID  uint64 `json:"news_id" binding:"required"`
	Content string `json:"content" binding:"required,max=2500"`
}

func (h *Handler) listComments(c *gin.Context) {
	offset, limit := h.pagination(c)
	key := cache.Key("comments.list", offset, limit)
	items, err := cache.GetOrFetch(c.Request.Context(), h.cache, key, func(ctx context.Context) ([]storage.Comment, error) {
		return h.commentSvc.List(ctx, offset, limit)
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) getComment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	item, err := h.commentSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) createComment(c *gin.Context) {
	var body createCommentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}
	item, err := h.commentSvc.Create(c.Request.Context(), currentUser(c), body.NewsID, body.Content)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.audit(c, "comment.create", fmt.Sprintf("comment %d created on news %d", item.ID, item.NewsID))
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) updateComment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var body struct {
		Content string `json:"content" binding:"required,max=2500"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}
	item, err := h.commentSvc.Update(c.Request.Context(), currentUser(c), id, body.Content)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.audit(c, "comment.update", fmt.Sprintf("comment %d updated", id))
	c.JSON(http.StatusOK, item)
}

func (h *Handler) patchComment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var body struct {
		Content *string `json:"content" binding:"omitempty,max=2500"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}
	item, err := h.commentSvc.PartialUpdate(c.Request.Context(), currentUser(c), id, body.Content)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.audit(c, "comment.update", fmt.Sprintf("comment %d patched", id))
	c.JSON(http.StatusOK, item)
}

func (h *Handler) deleteComment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.commentSvc.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		h.writeError(c, err)
		return
	}
	h.audit(c, "comment.delete", fmt.Sprintf("comment %d deleted", id))
	c.Status(http.StatusNoContent)
}
