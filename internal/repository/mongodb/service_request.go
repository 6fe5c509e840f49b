package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jwalitptl/homecare-api/internal/model"
	"github.com/jwalitptl/homecare-api/internal/repository"
)

type serviceRequestRepository struct {
	coll *mongo.Collection
}

func NewServiceRequestRepository(db *mongo.Database) repository.ServiceRequestRepository {
	return &serviceRequestRepository{coll: db.Collection(serviceRequestsCollection)}
}

func participantFilter(participantID string) bson.M {
	return bson.M{
		"$or": bson.A{
			bson.M{"user_id": participantID},
			bson.M{"nurse_id": participantID},
		},
	}
}

func listFilter(filters *model.ServiceRequestFilters) bson.M {
	filter := participantFilter(filters.ParticipantID)
	if filters.Status != "" {
		filter["estado"] = filters.Status
	}
	return filter
}

func (r *serviceRequestRepository) Create(ctx context.Context, request *model.ServiceRequest) error {
	if _, err := r.coll.InsertOne(ctx, request); err != nil {
		return fmt.Errorf("failed to create service request: %w", translateError(err))
	}
	return nil
}

func (r *serviceRequestRepository) GetForParticipant(ctx context.Context, id, participantID string) (*model.ServiceRequest, error) {
	filter := participantFilter(participantID)
	filter["_id"] = id

	var request model.ServiceRequest
	if err := r.coll.FindOne(ctx, filter).Decode(&request); err != nil {
		return nil, fmt.Errorf("failed to get service request: %w", translateError(err))
	}
	return &request, nil
}

func (r *serviceRequestRepository) List(ctx context.Context, filters *model.ServiceRequestFilters, page model.Pagination) ([]*model.ServiceRequest, error) {
	opts := options.Find().
		SetSort(creationOrder).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Size()))

	cursor, err := r.coll.Find(ctx, listFilter(filters), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list service requests: %w", err)
	}
	defer cursor.Close(ctx)

	requests := []*model.ServiceRequest{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode service requests: %w", err)
	}
	return requests, nil
}

func (r *serviceRequestRepository) Count(ctx context.Context, filters *model.ServiceRequestFilters) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, listFilter(filters))
	if err != nil {
		return 0, fmt.Errorf("failed to count service requests: %w", err)
	}
	return count, nil
}

func (r *serviceRequestRepository) UpdateStatusForNurse(ctx context.Context, id, nurseID string, status model.ServiceRequestStatus) (*model.ServiceRequest, error) {
	filter := bson.M{"_id": id, "nurse_id": nurseID}
	update := bson.M{
		"$set": bson.M{
			"estado":     status,
			"updated_at": time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var request model.ServiceRequest
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&request); err != nil {
		return nil, fmt.Errorf("failed to update service request status: %w", translateError(err))
	}
	return &request, nil
}
