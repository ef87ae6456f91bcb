package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"newsroom/internal/cache"
	"newsroom/internal/media"
	"newsroom/internal/services"
	"newsroom/internal/storage"
)

func (h *Handler) listNews(c *gin.Context) {
	offset, limit := h.pagination(c)
	key := cache.Key("news.list", offset, limit)
	items, err := cache.GetOrFetch(c.Request.Context(), h.cache, key, func(ctx context.Context) ([]storage.News, error) {
		return h.newsSvc.List(ctx, offset, limit)
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) getNews(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	key := cache.Key("news.get", id)
	item, err := cache.GetOrFetch(c.Request.Context(), h.cache, key, func(ctx context.Context) (*storage.News, error) {
		return h.newsSvc.Get(ctx, id)
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// createNews 接收 multipart 表单：title、content、category_id 与若干 images 文件。
func (h *Handler) createNews(c *gin.Context) {
	title := c.PostForm("title")
	if title == "" || len(title) > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_title"})
		return
	}
	in := services.CreateNewsInput{Title: title}
	if v := c.PostForm("content"); v != "" {
		in.Content = &v
	}
	if v := c.PostForm("category_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_category_id"})
			return
		}
		in.CategoryID = &id
	}

	form, err := c.MultipartForm()
	if err == nil && form != nil {
		for _, fh := range form.File["images"] {
			f, err := fh.Open()
			if err != nil {
				h.writeError(c, err)
				return
			}
			data, err := io.ReadAll(f)
			_ = f.Close()
			if err != nil {
				h.writeError(c, err)
				return
			}
			in.Images = append(in.Images, media.Upload{Name: fh.Filename, Data: data})
		}
	}

	item, err := h.newsSvc.Create(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.audit(c, "news.create", fmt.Sprintf("news %d created", item.ID))
	c.JSON(http.StatusCreated, item)
}

type updateNewsBody struct {
	Title      string  `json:"title" binding:"required,max=100"`
	Content    *string `json:"content"`
	CategoryID *uint64 `json:"category_id"`
}

func (h *Handler) updateNews(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var body updateNewsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}
	item, err := h.newsSvc.Update(c.Request.Context(), id, services.UpdateNewsInput{
		Title:      body.Title,
		Content:    body.Content,
		CategoryID: body.CategoryID,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.audit(c, "news.update", fmt.Sprintf("news %d updated", id))
	c.JSON(http.StatusOK, item)
}

type patchNewsBody struct {
	Title      *string `json:"title" binding:"omitempty,max=100"`
	Content    *string `json:"content"`
	CategoryID *uint64 `json:"category_id"`
}

func (h *Handler) patchNews(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var body patchNewsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}
	item, err := h.newsSvc.PartialUpdate(c.Request.Context(), id, services.PatchNewsInput{
		Title:      body.Title,
		Content:    body.Content,
		CategoryID: body.CategoryID,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.audit(c, "news.update", fmt.Sprintf("news %d patched", id))
	c.JSON(http.StatusOK, item)
}

func (h *Handler) deleteNews(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.newsSvc.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	h.audit(c, "news.delete", fmt.Sprintf("news %d deleted", id))
	c.Status(http.StatusNoContent)
}
