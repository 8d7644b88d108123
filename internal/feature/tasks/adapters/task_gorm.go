// Package adapters はtasksフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"todo_backend/internal/feature/tasks/domain/entity"
	"todo_backend/internal/feature/tasks/usecase"
)

// TaskModel is the GORM model for the tasks table.
type TaskModel struct {
	ID          string `gorm:"primaryKey;size:36"`
	UserID      string `gorm:"column:user_id;size:36;not null;index"`
	Title       string `gorm:"size:255;not null"`
	Description string `gorm:"type:text"`
	Status      string `gorm:"size:16;not null;default:pending"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM.
func (TaskModel) TableName() string {
	return "tasks"
}

func (m *TaskModel) toEntity() entity.Task {
	return entity.Task{
		ID:          m.ID,
		OwnerID:     m.UserID,
		Title:       m.Title,
		Description: m.Description,
		Status:      entity.Status(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// taskGorm はTaskRepositoryのGORM実装です。全クエリにuser_id条件を付与します。
type taskGorm struct {
	db *gorm.DB
}

var _ usecase.TaskRepository = (*taskGorm)(nil)

// NewTaskGorm はtaskGormの新しいインスタンスを生成します。
func NewTaskGorm(db *gorm.DB) *taskGorm {
	return &taskGorm{db: db}
}

// ListByOwner は所有者のタスクを作成日時の昇順で返します。
func (r *taskGorm) ListByOwner(ctx context.Context, ownerID string) ([]entity.Task, error) {
	var rows []TaskModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]entity.Task, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toEntity())
	}
	return out, nil
}

// Create はタスクを挿入し、生成したUUIDをtask.IDに設定します。
func (r *taskGorm) Create(ctx context.Context, task *entity.Task) error {
	if task == nil {
		return errors.New("task is nil")
	}
	m := &TaskModel{
		ID:          uuid.NewString(),
		UserID:      task.OwnerID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	task.ID = m.ID
	task.CreatedAt = m.CreatedAt
	task.UpdatedAt = m.UpdatedAt
	return nil
}

// UpdateOwned はトランザクション内で所有者のタスクを読み込み、パッチを適用して保存します。
func (r *taskGorm) UpdateOwned(ctx context.Context, ownerID, id string, patch entity.Patch) (*entity.Task, error) {
	var updated entity.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m TaskModel
		if err := tx.Where("id = ? AND user_id = ?", id, ownerID).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return usecase.ErrNotFound
			}
			return err
		}

		t := m.toEntity()
		patch.Apply(&t)
		m.Title = t.Title
		m.Description = t.Description
		m.Status = string(t.Status)
		m.UpdatedAt = time.Now().UTC()

		if err := tx.Save(&m).Error; err != nil {
			return err
		}
		updated = m.toEntity()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteOwned は所有者のタスクを削除します。削除行が0の場合はErrNotFoundです。
func (r *taskGorm) DeleteOwned(ctx context.Context, ownerID, id string) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).Delete(&TaskModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrNotFound
	}
	return nil
}
