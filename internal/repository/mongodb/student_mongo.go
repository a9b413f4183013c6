package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"studentapi/internal/model"
	"studentapi/internal/repository"
)

// StudentMongo is a MongoDB implementation of repository.StudentRepository.
// It wraps one collection handle that is shared by every request.
type StudentMongo struct {
	coll *mongo.Collection
}

// NewStudentMongo creates a new StudentMongo repository.
func NewStudentMongo(coll *mongo.Collection) *StudentMongo {
	return &StudentMongo{coll: coll}
}

var _ repository.StudentRepository = (*StudentMongo)(nil)

// List returns all students, sorted by q.Field when set.
func (r *StudentMongo) List(ctx context.Context, q repository.ListQuery) ([]model.Student, error) {
	opts := options.Find()
	if q.Field != "" {
		opts.SetSort(bson.D{{Key: q.Field, Value: int(q.Direction)}})
	}

	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, storageErr("find", err)
	}
	defer cur.Close(ctx)

	items := make([]model.Student, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, storageErr("decode", err)
	}
	return items, nil
}

// FindByID fetches a single student by its id.
func (r *StudentMongo) FindByID(ctx context.Context, id string) (*model.Student, error) {
	var s model.Student
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, storageErr("find one", err)
	}
	return &s, nil
}

// Create inserts the student with its id as _id.
func (r *StudentMongo) Create(ctx context.Context, s model.Student) (string, error) {
	res, err := r.coll.InsertOne(ctx, s)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("insert %s: %w", s.ID, repository.ErrDuplicateKey)
		}
		return "", storageErr("insert", err)
	}

	id, ok := res.InsertedID.(string)
	if !ok {
		return fmt.Sprint(res.InsertedID), nil
	}
	return id, nil
}

// Update applies $set with the supplied fields only.
func (r *StudentMongo) Update(ctx context.Context, id string, fields model.UpdateStudentRequest) (int64, error) {
	// MongoDB rejects an empty $set.
	if fields.Empty() {
		return 0, nil
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: fields}},
	)
	if err != nil {
		return 0, storageErr("update", err)
	}
	return res.ModifiedCount, nil
}

// Delete removes a student by id.
func (r *StudentMongo) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return 0, storageErr("delete", err)
	}
	return res.DeletedCount, nil
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", repository.ErrStorage, op, err)
}
