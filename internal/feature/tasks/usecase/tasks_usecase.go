// Package usecase はタスク操作のビジネスロジックを実装します。
// すべての操作は所有者IDでスコープされ、他人のタスクは存在しないものとして扱われます。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"todo_backend/internal/feature/tasks/domain/entity"
)

// TaskRepository はタスクの永続化層を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type TaskRepository interface {
	// ListByOwner は所有者のタスクを作成順に返します。
	ListByOwner(ctx context.Context, ownerID string) ([]entity.Task, error)
	// Create はタスクを保存し、IDを設定します。
	Create(ctx context.Context, task *entity.Task) error
	// UpdateOwned は所有者とIDの両方が一致するタスクにパッチを適用し、更新後のタスクを返します。
	// 一致しない場合はErrNotFoundを返します。
	UpdateOwned(ctx context.Context, ownerID, id string, patch entity.Patch) (*entity.Task, error)
	// DeleteOwned は所有者とIDの両方が一致するタスクを削除します。
	// 一致しない場合はErrNotFoundを返します。
	DeleteOwned(ctx context.Context, ownerID, id string) error
}

// TasksUsecase はタスク操作のユースケースです。
type TasksUsecase struct {
	tasks TaskRepository
	now   func() time.Time
}

// NewTasksUsecase はTasksUsecaseの新しいインスタンスを生成します。
func NewTasksUsecase(tasks TaskRepository) *TasksUsecase {
	return &TasksUsecase{tasks: tasks, now: time.Now}
}

// ListTasks は所有者のタスクのみを返します。タスクがない場合は空スライスです。
func (u *TasksUsecase) ListTasks(ctx context.Context, ownerID string) ([]entity.Task, error) {
	ts, err := u.tasks.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if ts == nil {
		ts = []entity.Task{}
	}
	return ts, nil
}

// CreateTask はpending状態の新しいタスクを作成します。
// タイトルは前後の空白を除いた上で空であってはなりません。
func (u *TasksUsecase) CreateTask(ctx context.Context, ownerID, title, description string) (*entity.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	now := u.now().UTC().Truncate(time.Millisecond)
	task := &entity.Task{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Status:      entity.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// UpdateTask は所有者のタスクに部分更新を適用します。
// 指定されなかったフィールドは変更されません。
func (u *TasksUsecase) UpdateTask(ctx context.Context, ownerID, id string, patch entity.Patch) (*entity.Task, error) {
	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
		}
		patch.Title = &trimmed
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *patch.Status)
	}

	task, err := u.tasks.UpdateOwned(ctx, ownerID, id, patch)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// DeleteTask は所有者のタスクを削除します。既に削除済みの場合もErrNotFoundです。
func (u *TasksUsecase) DeleteTask(ctx context.Context, ownerID, id string) error {
	if err := u.tasks.DeleteOwned(ctx, ownerID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}
