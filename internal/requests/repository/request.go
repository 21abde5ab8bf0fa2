package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	requestserrors "repairshop/internal/requests/errors"
	"repairshop/pkg/config"
	mongotx "repairshop/pkg/db/mongo"
	"repairshop/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "repair_requests"

// ListFilter narrows request listings. Zero values mean no filter.
type ListFilter struct {
	DeviceBrand string
	ServiceType string
	Status      string
	Limit       int64
	Offset      int64
}

type RequestRepository interface {
	Create(ctx context.Context, req *model.ServiceRequest) error
	FindByID(ctx context.Context, id string) (*model.ServiceRequest, error)
	FindAll(ctx context.Context, filter ListFilter) ([]*model.ServiceRequest, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
	// SetAppointmentState updates the cached appointment pointer and
	// appends a history entry in one atomic write.
	SetAppointmentState(ctx context.Context, requestID string, ref *model.AppointmentRef, entry model.AppointmentHistoryEntry) error
	// SetAppointmentRef rewrites only the cached pointer. Used by the
	// repair path; history is never touched.
	SetAppointmentRef(ctx context.Context, requestID string, ref *model.AppointmentRef) error
	Distinct(ctx context.Context, field string) ([]string, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoRequestRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoRequestRepository(cfg *config.Config) RequestRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabase)
	return &mongoRequestRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout bounds standalone operations. Inside a transaction the
// session context passes through untouched.
func (r *mongoRequestRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoRequestRepository) Create(ctx context.Context, req *model.ServiceRequest) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	req.SubmittedAt = now
	req.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to create service request: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		req.ID = oid.Hex()
	}
	return nil
}

func (r *mongoRequestRepository) FindByID(ctx context.Context, id string) (*model.ServiceRequest, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", requestserrors.ErrInvalidID, id)
	}

	var req model.ServiceRequest
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, requestserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find service request: %w", err)
	}

	return &req, nil
}

func (r *mongoRequestRepository) FindAll(ctx context.Context, filter ListFilter) ([]*model.ServiceRequest, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "submitted_at", Value: -1}}).
		SetSkip(filter.Offset)
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cursor, err := r.collection.Find(ctx, buildFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find service requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []*model.ServiceRequest
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode service requests: %w", err)
	}

	return requests, nil
}

func (r *mongoRequestRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count service requests: %w", err)
	}
	return count, nil
}

func buildFilter(filter ListFilter) bson.M {
	query := bson.M{}
	if filter.DeviceBrand != "" {
		query["device.brand"] = filter.DeviceBrand
	}
	if filter.ServiceType != "" {
		query["service_type"] = filter.ServiceType
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	return query
}

func (r *mongoRequestRepository) SetAppointmentState(ctx context.Context, requestID string, ref *model.AppointmentRef, entry model.AppointmentHistoryEntry) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(requestID)
	if err != nil {
		return fmt.Errorf("%w: %s", requestserrors.ErrInvalidID, requestID)
	}

	set := bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)}
	update := bson.M{"$push": bson.M{"appointment_history": entry}}
	if ref != nil {
		set["appointment"] = ref
	} else {
		update["$unset"] = bson.M{"appointment": ""}
	}
	update["$set"] = set

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update appointment state: %w", err)
	}
	if result.MatchedCount == 0 {
		return requestserrors.ErrNotFound
	}
	return nil
}

func (r *mongoRequestRepository) SetAppointmentRef(ctx context.Context, requestID string, ref *model.AppointmentRef) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(requestID)
	if err != nil {
		return fmt.Errorf("%w: %s", requestserrors.ErrInvalidID, requestID)
	}

	update := bson.M{"$set": bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)}}
	if ref != nil {
		update["$set"].(bson.M)["appointment"] = ref
	} else {
		update["$unset"] = bson.M{"appointment": ""}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update appointment pointer: %w", err)
	}
	if result.MatchedCount == 0 {
		return requestserrors.ErrNotFound
	}
	return nil
}

func (r *mongoRequestRepository) Distinct(ctx context.Context, field string) ([]string, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	values, err := r.collection.Distinct(ctx, field, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list distinct %s values: %w", field, err)
	}

	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *mongoRequestRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
