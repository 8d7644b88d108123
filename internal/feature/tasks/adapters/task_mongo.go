package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"todo_backend/internal/feature/tasks/domain/entity"
	"todo_backend/internal/feature/tasks/usecase"
)

// TasksCollection is the MongoDB collection holding task documents.
const TasksCollection = "tasks"

type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	UserID      string             `bson:"user_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *taskDocument) toEntity() entity.Task {
	return entity.Task{
		ID:          d.ID.Hex(),
		OwnerID:     d.UserID,
		Title:       d.Title,
		Description: d.Description,
		Status:      entity.Status(d.Status),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// taskMongo はTaskRepositoryのMongoDB実装です。
// 更新と削除のフィルターは常に_idとuser_idの両方を含みます。
type taskMongo struct {
	col *mongo.Collection
	now func() time.Time
}

var _ usecase.TaskRepository = (*taskMongo)(nil)

// NewTaskMongo はtasksコレクションを使うtaskMongoを生成します。
func NewTaskMongo(db *mongo.Database) *taskMongo {
	return &taskMongo{col: db.Collection(TasksCollection), now: time.Now}
}

// EnsureTaskIndexes creates the owner index used by every task query.
func EnsureTaskIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(TasksCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create tasks owner index: %w", err)
	}
	return nil
}

// ListByOwner は所有者のタスクを挿入順（ObjectID順）で返します。
func (r *taskMongo) ListByOwner(ctx context.Context, ownerID string) ([]entity.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"user_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo find tasks: %w", err)
	}
	defer cur.Close(ctx)

	var docs []taskDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo decode tasks: %w", err)
	}

	out := make([]entity.Task, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toEntity())
	}
	return out, nil
}

// Create はタスクを挿入し、新しいObjectIDのhex表現をtask.IDに設定します。
func (r *taskMongo) Create(ctx context.Context, task *entity.Task) error {
	if task == nil {
		return errors.New("task is nil")
	}
	doc := taskDocument{
		ID:          primitive.NewObjectID(),
		UserID:      task.OwnerID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongo insert task: %w", err)
	}
	task.ID = doc.ID.Hex()
	return nil
}

// UpdateOwned はfind-one-and-updateで所有者のタスクを更新し、更新後のドキュメントを返します。
// 不正なIDは存在しないIDと同じくErrNotFoundになります。
func (r *taskMongo) UpdateOwned(ctx context.Context, ownerID, id string, patch entity.Patch) (*entity.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, usecase.ErrNotFound
	}

	set := bson.M{"updated_at": r.now().UTC().Truncate(time.Millisecond)}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc taskDocument
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid, "user_id": ownerID}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecase.ErrNotFound
		}
		return nil, fmt.Errorf("mongo update task: %w", err)
	}
	t := doc.toEntity()
	return &t, nil
}

// DeleteOwned は所有者のタスクを削除します。
func (r *taskMongo) DeleteOwned(ctx context.Context, ownerID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return usecase.ErrNotFound
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid, "user_id": ownerID})
	if err != nil {
		return fmt.Errorf("mongo delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return usecase.ErrNotFound
	}
	return nil
}
