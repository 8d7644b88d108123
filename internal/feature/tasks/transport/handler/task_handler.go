// Package handler はtasksフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"todo_backend/internal/feature/tasks/domain/entity"
	"todo_backend/internal/feature/tasks/transport/http/dto"
	"todo_backend/internal/feature/tasks/usecase"
	jwtmw "todo_backend/internal/platform/jwt"
)

// TasksUsecase はタスク操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type TasksUsecase interface {
	ListTasks(ctx context.Context, ownerID string) ([]entity.Task, error)
	CreateTask(ctx context.Context, ownerID, title, description string) (*entity.Task, error)
	UpdateTask(ctx context.Context, ownerID, id string, patch entity.Patch) (*entity.Task, error)
	DeleteTask(ctx context.Context, ownerID, id string) error
}

// TasksHandler はタスクのHTTPリクエストを処理します。
// 所有者IDは常に認証ミドルウェアが設定した値を使い、リクエストボディからは受け取りません。
type TasksHandler struct {
	uc TasksUsecase
}

// NewTasksHandler はTasksHandlerの新しいインスタンスを生成します。
func NewTasksHandler(uc TasksUsecase) *TasksHandler {
	return &TasksHandler{uc: uc}
}

func ownerFrom(c *gin.Context) (string, bool) {
	id, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorRes{Error: "unauthenticated"})
	}
	return id, ok
}

// writeError はusecaseのエラーをステータスコードに変換します。
func writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: err.Error()})
	case errors.Is(err, usecase.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorRes{Error: "Task not found"})
	default:
		slog.Error("task operation failed", "op", op, "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "internal server error"})
	}
}

// List は GET /tasks を処理し、呼び出し元のタスクのみを返します。
func (h *TasksHandler) List(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}
	tasks, err := h.uc.ListTasks(c.Request.Context(), owner)
	if err != nil {
		writeError(c, "list", err)
		return
	}

	out := make([]dto.TaskRes, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, dto.NewTaskRes(t))
	}
	c.JSON(http.StatusOK, out)
}

// Create は POST /tasks を処理します。成功時は201で作成したタスクを返します。
func (h *TasksHandler) Create(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}
	var req dto.CreateTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid request"})
		return
	}

	task, err := h.uc.CreateTask(c.Request.Context(), owner, req.Title, req.Description)
	if err != nil {
		writeError(c, "create", err)
		return
	}
	slog.Info("task created", "task_id", task.ID, "user_id", owner)
	c.JSON(http.StatusCreated, dto.NewTaskRes(*task))
}

// Update は PUT /tasks/:id を処理します。ステータスの切り替えもこのエンドポイントで行います。
func (h *TasksHandler) Update(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}
	var req dto.UpdateTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid request"})
		return
	}

	task, err := h.uc.UpdateTask(c.Request.Context(), owner, c.Param("id"), req.Patch())
	if err != nil {
		writeError(c, "update", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTaskRes(*task))
}

// Delete は DELETE /tasks/:id を処理します。
func (h *TasksHandler) Delete(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}
	if err := h.uc.DeleteTask(c.Request.Context(), owner, c.Param("id")); err != nil {
		writeError(c, "delete", err)
		return
	}
	slog.Info("task deleted", "task_id", c.Param("id"), "user_id", owner)
	c.JSON(http.StatusOK, dto.MessageRes{Message: "Task deleted"})
}
