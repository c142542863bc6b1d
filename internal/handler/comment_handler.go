package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"taskboard/internal/errors"
	"taskboard/internal/service"
)

// CommentHandler handles comment endpoints.
type CommentHandler struct {
	commentService service.CommentService
}

// NewCommentHandler creates a new comment handler.
func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// CreateCommentRequest represents a comment creation request.
type CreateCommentRequest struct {
	TaskID  uint   `json:"task_id" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// UpdateCommentRequest represents a comment update request.
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// ListComments godoc
// @Summary List comments
// @Description Without task_id lists comments across all of the caller's tasks. With task_id lists the comments of that task; the task must exist and belong to the caller.
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param task_id query int false "Filter by task ID"
// @Success 200 {array} model.Comment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /comments [get]
func (h *CommentHandler) ListComments(c echo.Context) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var taskID *uint
	if raw := c.QueryParam("task_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid task_id")
		}
		id := uint(parsed)
		taskID = &id
	}

	comments, err := h.commentService.ListComments(c.Request().Context(), ownerID, taskID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, comments)
}

// CreateComment godoc
// @Summary Create a comment on a task
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCommentRequest true "Comment data"
// @Success 201 {object} model.Comment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /comments [post]
func (h *CommentHandler) CreateComment(c echo.Context) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.commentService.CreateComment(c.Request().Context(), ownerID, req.TaskID, req.Content)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, comment)
}

// UpdateComment godoc
// @Summary Update a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Param request body UpdateCommentRequest true "New content"
// @Success 200 {object} model.Comment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /comments/{id} [put]
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.commentService.UpdateComment(c.Request().Context(), ownerID, uint(id), req.Content)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, comment)
}

// DeleteComment godoc
// @Summary Delete a comment
// @Tags comments
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /comments/{id} [delete]
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.commentService.DeleteComment(c.Request().Context(), ownerID, uint(id)); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}
