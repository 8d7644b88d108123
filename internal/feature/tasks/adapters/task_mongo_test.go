package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"todo_backend/internal/feature/tasks/domain/entity"
	"todo_backend/internal/feature/tasks/usecase"
)

func taskBSON(id primitive.ObjectID, owner, title, status string, created time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "user_id", Value: owner},
		{Key: "title", Value: title},
		{Key: "description", Value: ""},
		{Key: "status", Value: status},
		{Key: "created_at", Value: created},
		{Key: "updated_at", Value: created},
	}
}

func TestTaskMongo_ListByOwner(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes documents", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + TasksCollection
		created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
		id1, id2 := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			taskBSON(id1, "alice", "first", "pending", created),
			taskBSON(id2, "alice", "second", "completed", created),
		))
		repo := NewTaskMongo(mt.DB)

		list, err := repo.ListByOwner(context.Background(), "alice")

		require.NoError(mt, err)
		require.Len(mt, list, 2)
		assert.Equal(mt, id1.Hex(), list[0].ID)
		assert.Equal(mt, "alice", list[0].OwnerID)
		assert.Equal(mt, entity.StatusCompleted, list[1].Status)
		assert.True(mt, created.Equal(list[0].CreatedAt))
	})

	mt.Run("empty result", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + TasksCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		repo := NewTaskMongo(mt.DB)

		list, err := repo.ListByOwner(context.Background(), "bob")

		require.NoError(mt, err)
		assert.NotNil(mt, list)
		assert.Empty(mt, list)
	})
}

func TestTaskMongo_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("assigns object id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewTaskMongo(mt.DB)

		task := &entity.Task{OwnerID: "alice", Title: "Buy milk", Status: entity.StatusPending}
		err := repo.Create(context.Background(), task)

		require.NoError(mt, err)
		assert.True(mt, primitive.IsValidObjectID(task.ID))
	})
}

func TestTaskMongo_UpdateOwned(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns updated document", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: taskBSON(id, "alice", "Buy milk", "completed", created)},
		))
		repo := NewTaskMongo(mt.DB)

		done := entity.StatusCompleted
		task, err := repo.UpdateOwned(context.Background(), "alice", id.Hex(), entity.Patch{Status: &done})

		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), task.ID)
		assert.Equal(mt, entity.StatusCompleted, task.Status)
	})

	mt.Run("no matching document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))
		repo := NewTaskMongo(mt.DB)

		_, err := repo.UpdateOwned(context.Background(), "bob", primitive.NewObjectID().Hex(), entity.Patch{})

		assert.ErrorIs(mt, err, usecase.ErrNotFound)
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := NewTaskMongo(mt.DB)

		_, err := repo.UpdateOwned(context.Background(), "alice", "not-an-object-id", entity.Patch{})

		assert.ErrorIs(mt, err, usecase.ErrNotFound)
	})
}

func TestTaskMongo_DeleteOwned(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("deleted", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		repo := NewTaskMongo(mt.DB)

		err := repo.DeleteOwned(context.Background(), "alice", primitive.NewObjectID().Hex())

		assert.NoError(mt, err)
	})

	mt.Run("nothing deleted", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		repo := NewTaskMongo(mt.DB)

		err := repo.DeleteOwned(context.Background(), "bob", primitive.NewObjectID().Hex())

		assert.ErrorIs(mt, err, usecase.ErrNotFound)
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := NewTaskMongo(mt.DB)

		err := repo.DeleteOwned(context.Background(), "alice", "xyz")

		assert.ErrorIs(mt, err, usecase.ErrNotFound)
	})
}
