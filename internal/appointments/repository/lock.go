package repository

import (
	"context"
	"time"

	appointmentserrors "repairshop/internal/appointments/errors"
	"repairshop/pkg/config"
	"repairshop/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// LockRepository implements advisory locks over a collection with a
// unique _id. Insert succeeds for the first caller; a duplicate key
// means someone else holds the lock.
type LockRepository interface {
	Acquire(ctx context.Context, lockID string, ttl time.Duration) error
	Release(ctx context.Context, lockID string) error
}

type mongoLockRepository struct {
	collection *mongo.Collection
}

func NewMongoLockRepository(cfg *config.Config) LockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabase)
	return &mongoLockRepository{
		collection: db.Collection("appointment_locks"),
	}
}

func (r *mongoLockRepository) Acquire(ctx context.Context, lockID string, ttl time.Duration) error {
	now := time.Now().UTC()
	lock := &model.AppointmentLock{
		ID:        lockID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return appointmentserrors.ErrLockHeld
		}
		return err
	}
	return nil
}

func (r *mongoLockRepository) Release(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
