package handlers

import (
	"net/http"
	"strconv"

	"taskboard/internal/apperr"
	"taskboard/internal/domain"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
)

type createTaskRequest struct {
	Title       *string `json:"title" binding:"required"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

func (h *Handler) CreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.New(apperr.CodeInvalidArgument, "title is required"))
		return
	}

	task, err := h.Service.Create(c.Request.Context(), subject(c), service.CreateTaskInput{
		Title:       *req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	h.Cache.Invalidate(c.Request.Context(), subject(c), task.ID)
	c.JSON(http.StatusOK, gin.H{"data": task})
}

func (h *Handler) ListTasks(c *gin.Context) {
	text := c.Query("text")
	filter := c.Query("filter")
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	ctx := c.Request.Context()
	user := subject(c)

	if cached := h.Cache.GetList(ctx, user, text, filter, page, limit); cached != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	result, err := h.Service.List(ctx, user, service.ListTasksInput{
		Text:   text,
		Filter: filter,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	h.Cache.SetList(ctx, user, text, filter, page, limit, result)
	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetTask(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	ctx := c.Request.Context()
	user := subject(c)

	if cached := h.Cache.GetDetail(ctx, user, id); cached != nil {
		c.JSON(http.StatusOK, gin.H{"data": cached})
		return
	}

	task, err := h.Service.Get(ctx, user, id)
	if err != nil {
		writeError(c, err)
		return
	}
	if task == nil {
		c.JSON(http.StatusOK, gin.H{"data": nil})
		return
	}

	h.Cache.SetDetail(ctx, user, task)
	c.JSON(http.StatusOK, gin.H{"data": task})
}

func (h *Handler) UpdateTask(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.New(apperr.CodeInvalidArgument, "malformed request body"))
		return
	}

	task, err := h.Service.Update(c.Request.Context(), subject(c), id, domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if task == nil {
		c.JSON(http.StatusOK, gin.H{"data": nil})
		return
	}

	h.Cache.Invalidate(c.Request.Context(), subject(c), id)
	c.JSON(http.StatusOK, gin.H{"data": task})
}

func (h *Handler) ToggleTask(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	task, err := h.Service.Toggle(c.Request.Context(), subject(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if task == nil {
		c.JSON(http.StatusOK, gin.H{"data": nil})
		return
	}

	h.Cache.Invalidate(c.Request.Context(), subject(c), id)
	c.JSON(http.StatusOK, gin.H{"data": task})
}

func (h *Handler) DeleteTask(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	task, err := h.Service.Delete(c.Request.Context(), subject(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if task == nil {
		c.JSON(http.StatusOK, gin.H{"data": nil})
		return
	}

	h.Cache.Invalidate(c.Request.Context(), subject(c), id)
	c.JSON(http.StatusOK, gin.H{"data": task})
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.New(apperr.CodeInvalidArgument, "id must be an integer")
	}
	return id, nil
}
