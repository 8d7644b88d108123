// Package dto はtasksフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"time"

	"todo_backend/internal/feature/tasks/domain/entity"
)

// CreateTaskReq は POST /tasks のリクエストボディです。
// タイトルの検証はusecaseで行います。
type CreateTaskReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateTaskReq は PUT /tasks/:id のリクエストボディです。省略したフィールドは変更されません。
type UpdateTaskReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status" binding:"omitempty,oneof=pending completed"`
}

// Patch converts the request into a domain patch.
func (r UpdateTaskReq) Patch() entity.Patch {
	p := entity.Patch{Title: r.Title, Description: r.Description}
	if r.Status != nil {
		s := entity.Status(*r.Status)
		p.Status = &s
	}
	return p
}

// TaskRes is the wire shape of a task.
type TaskRes struct {
	ID          string    `json:"_id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewTaskRes converts a domain task.
func NewTaskRes(t entity.Task) TaskRes {
	return TaskRes{
		ID:          t.ID,
		UserID:      t.OwnerID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
}

// MessageRes carries a plain confirmation message.
type MessageRes struct {
	Message string `json:"message"`
}

// ErrorRes is the common error body.
type ErrorRes struct {
	Error string `json:"error"`
}
