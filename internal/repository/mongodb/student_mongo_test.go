package mongodb

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"studentapi/internal/model"
	"studentapi/internal/repository"
)

func ptr[T any](v T) *T { return &v }

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func studentDoc(id, first string, age int) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "first_name", Value: first},
		{Key: "last_name", Value: "Jaidee"},
		{Key: "gender", Value: "male"},
		{Key: "age", Value: age},
		{Key: "height", Value: 170},
		{Key: "weight", Value: 60.5},
	}
}

var commandFailure = mtest.CommandError{Code: 2, Message: "bad value", Name: "BadValue"}

func TestStudentMongo_List(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("natural order", func(mt *mtest.T) {
		repo := NewStudentMongo(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			studentDoc("6400000001", "Anan", 20),
			studentDoc("6400000002", "Benja", 22),
		))

		items, err := repo.List(ctx, repository.ListQuery{})

		require.NoError(mt, err)
		require.Len(mt, items, 2)
		assert.Equal(mt, "6400000001", items[0].ID)
		assert.Equal(mt, "Benja", items[1].FirstName)
		assert.Equal(mt, 60.5, items[1].Weight)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "find", evt.CommandName)
		_, err = evt.Command.LookupErr("sort")
		assert.Error(mt, err, "no sort expected")
	})

	mt.Run("sorted descending", func(mt *mtest.T) {
		repo := NewStudentMongo(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			studentDoc("6400000002", "Benja", 22),
			studentDoc("6400000001", "Anan", 20),
		))

		items, err := repo.List(ctx, repository.ListQuery{Field: "age", Direction: repository.SortDescending})

		require.NoError(mt, err)
		require.Len(mt, items, 2)
		assert.GreaterOrEqual(mt, items[0].Age, items[1].Age)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		sort := evt.Command.Lookup("sort").Document()
		assert.EqualValues(mt, -1, sort.Lookup("age").AsInt64())
	})

	mt.Run("empty collection", func(mt *mtest.T) {
		repo := NewStudentMongo(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		items, err := repo.List(ctx, repository.ListQuery{})

		require.NoError(mt, err)
		assert.NotNil(mt, items)
		assert.Empty(mt, items)
	})

	mt.Run("storage error", func(mt *mtest.T) {
		repo := NewStudentMongo(mt.Coll)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(commandFailure))

		items, err := repo.List(ctx, repository.ListQuery{})

		assert.Nil(mt, items)
		assert.ErrorIs(mt, err, repository.ErrStorage)
	})
}

func TestStudentMongo_FindByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("found", func(mt *mtest.T) {
		repo := NewStudentMongo(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			studentDoc("6400000001", "Anan", 20),
		))

		s, err := repo.FindByID(ctx, "6400000001")

		require.NoError(mt, err)
		assert.Equal(mt, &model.Student{
			ID:        "6400000001",
			FirstName: "Anan",
			LastName:  "Jaidee",
			Gender:    "male",
			Age:       20,
			Height:    170,
			Weight:    60.5,
		}, s)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		filter := evt.Command.Lookup("filter").Document()
		assert.Equal(mt, "6400000001", filter.Lookup("_id").StringValue())
	})

	mt.Run("not found", func(mt *mtest.T) {
		repo := NewStudentMongo(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		s, err := repo.FindByID(ctx, "6409999999")

		assert.Nil(mt, s)
		assert.ErrorIs(mt, err, repository.ErrNotFound)
		assert.False(mt, errors.Is(err, repository.ErrStorage))
	})

	mt.Run("storage error", func(mt *mtest.T) {
		repo := NewStudentMongo(mt.Coll)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(commandFailure))

		s, err := repo.FindByID(ctx, "6400000001")

		assert.Nil(mt, s)
		assert.ErrorIs(mt, err, repository.ErrStorage)
	})
}

func TestStudentMongo_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	student := model.Student{ID: "6400000001", FirstName: "Anan", LastName: "Jaidee", Gender: "male", Age: 20, Height: 170, Weight: 60.5}

	mt.Run("success", func(mt *mtest.T) {
		repo := NewStudentMongo(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		id, err := repo.Create(ctx, student)

		require.NoError(mt, err)
		assert.Equal(mt, "6400000001", id)
	})

	mt.Run("duplicate id", func(mt *mtest.T) {
		repo := NewStudentMongo(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: school.students index: _id_",
		}))

		id, err := repo.Create(ctx, student)

		assert.Empty(mt, id)
		assert.ErrorIs(mt, err, repository.ErrDuplicateKey)
	})

	mt.Run("storage error", func(mt *mtest.T) {
		repo := NewStudentMongo(mt.Coll)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(commandFailure))

		_, err := repo.Create(ctx, student)

		assert.ErrorIs(mt, err, repository.ErrStorage)
	})
}

func TestStudentMongo_Update(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("modified", func(mt *mtest.T) {
		repo := NewStudentMongo(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		n, err := repo.Update(ctx, "6400000001", model.UpdateStudentRequest{Age: ptr(23)})

		require.NoError(mt, err)
		assert.EqualValues(mt, 1, n)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "update", evt.CommandName)
		assert.Equal(mt, "6400000001", evt.Command.Lookup("updates", "0", "q", "_id").StringValue())
	})

	mt.Run("sets only supplied fields", func(mt *mtest.T) {
		repo := NewStudentMongo(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		_, err := repo.Update(ctx, "6400000001", model.UpdateStudentRequest{
			FirstName: ptr("Somchai"),
			Height:    ptr(0),
		})
		require.NoError(mt, err)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		set := evt.Command.Lookup("updates", "0", "u", "$set").Document()
		elems, err := set.Elements()
		require.NoError(mt, err)

		keys := make([]string, 0, len(elems))
		for _, e := range elems {
			keys = append(keys, e.Key())
		}
		assert.ElementsMatch(mt, []string{"first_name", "height"}, keys)
		assert.Equal(mt, "Somchai", set.Lookup("first_name").StringValue())
		assert.EqualValues(mt, 0, set.Lookup("height").AsInt64())
	})

	mt.Run("no match", func(mt *mtest.T) {
		repo := NewStudentMongo(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		n, err := repo.Update(ctx, "6409999999", model.UpdateStudentRequest{Age: ptr(23)})

		require.NoError(mt, err)
		assert.EqualValues(mt, 0, n)
	})

	mt.Run("empty update skips the store", func(mt *mtest.T) {
		repo := NewStudentMongo(mt.Coll)

		n, err := repo.Update(ctx, "6400000001", model.UpdateStudentRequest{})

		require.NoError(mt, err)
		assert.EqualValues(mt, 0, n)
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("storage error", func(mt *mtest.T) {
		repo := NewStudentMongo(mt.Coll)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(commandFailure))

		_, err := repo.Update(ctx, "6400000001", model.UpdateStudentRequest{Gender: ptr("female")})

		assert.ErrorIs(mt, err, repository.ErrStorage)
	})
}

func TestStudentMongo_Delete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("deleted", func(mt *mtest.T) {
		repo := NewStudentMongo(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		n, err := repo.Delete(ctx, "6400000001")

		require.NoError(mt, err)
		assert.EqualValues(mt, 1, n)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "delete", evt.CommandName)
		assert.Equal(mt, "6400000001", evt.Command.Lookup("deletes", "0", "q", "_id").StringValue())
	})

	mt.Run("no match", func(mt *mtest.T) {
		repo := NewStudentMongo(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		n, err := repo.Delete(ctx, "6409999999")

		require.NoError(mt, err)
		assert.EqualValues(mt, 0, n)
	})

	mt.Run("storage error", func(mt *mtest.T) {
		repo := NewStudentMongo(mt.Coll)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(commandFailure))

		_, err := repo.Delete(ctx, "6400000001")

		assert.ErrorIs(mt, err, repository.ErrStorage)
	})
}
