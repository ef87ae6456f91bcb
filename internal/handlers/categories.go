package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"newsroom/internal/cache"
	"newsroom/internal/storage"
)

type categoryInput struct {
	Name string `json:"name" binding:"required,max=100"`
}

func (h *Handler) listCategories(c *gin.Context) {
	offset, limit := h.pagination(c)
	key := cache.Key("categories.list", offset, limit)
	items, err := cache.GetOrFetch(c.Request.Context(), h.cache, key, func(ctx context.Context) ([]storage.Category, error) {
		return h.categorySvc.List(ctx, offset, limit)
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) getCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	key := cache.Key("categories.get", id)
	item, err := cache.GetOrFetch(c.Request.Context(), h.cache, key, func(ctx context.Context) (*storage.Category, error) {
		return h.categorySvc.Get(ctx, id)
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) createCategory(c *gin.Context) {
	var in categoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}
	item, err := h.categorySvc.Create(c.Request.Context(), in.Name)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.audit(c, "category.create", fmt.Sprintf("category %d created", item.ID))
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) updateCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in categoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}
	item, err := h.categorySvc.Update(c.Request.Context(), id, in.Name)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.audit(c, "category.update", fmt.Sprintf("category %d updated", id))
	c.JSON(http.StatusOK, item)
}

func (h *Handler) patchCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in struct {
		Name string `json:"name" binding:"max=100"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}
	item, err := h.categorySvc.PartialUpdate(c.Request.Context(), id, in.Name)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.audit(c, "category.update", fmt.Sprintf("category %d patched", id))
	c.JSON(http.StatusOK, item)
}

func (h *Handler) deleteCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.categorySvc.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	h.audit(c, "category.delete", fmt.Sprintf("category %d deleted", id))
	c.Status(http.StatusNoContent)
}
