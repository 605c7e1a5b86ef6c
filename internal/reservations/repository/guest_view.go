package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	reserrors "innkeep/internal/reservations/errors"
	"innkeep/pkg/config"
	"innkeep/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	GuestViewCollection = "GuestDateView"
)

// GuestViewRepository is the guest-indexed side of the booking store:
// records keyed by (guest id, date). Inserts are unconditional; the unique
// _id index is the only uniqueness enforcement at the store level.
type GuestViewRepository interface {
	Exists(ctx context.Context, guestID string, date time.Time) (bool, error)
	Insert(ctx context.Context, record *model.GuestDateRecord) error
	FindOne(ctx context.Context, guestID string, date time.Time) (*model.GuestDateRecord, error)
	FindByGuest(ctx context.Context, guestID string, limit int, offset int64) ([]*model.GuestDateRecord, error)
	CountByGuest(ctx context.Context, guestID string) (int64, error)
}

type mongoGuestViewRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoGuestViewRepository(cfg *config.Config) GuestViewRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoGuestViewRepository{
		cfg:        cfg,
		collection: db.Collection(GuestViewCollection),
	}
}

func (r *mongoGuestViewRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithTimeout(ctx, time.Until(deadline))
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoGuestViewRepository) Exists(ctx context.Context, guestID string, date time.Time) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	key := model.GuestDateKey(guestID, date)
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": key}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check guest view for %s: %w", key, err)
	}
	return count > 0, nil
}

func (r *mongoGuestViewRepository) Insert(ctx context.Context, record *model.GuestDateRecord) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	record.ID = model.GuestDateKey(record.GuestID, record.Date)
	record.Date = model.Day(record.Date)
	record.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	if _, err := r.collection.InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", reserrors.ErrDuplicateKey, record.ID)
		}
		return fmt.Errorf("failed to insert guest date record: %w", err)
	}
	return nil
}

func (r *mongoGuestViewRepository) FindOne(ctx context.Context, guestID string, date time.Time) (*model.GuestDateRecord, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	key := model.GuestDateKey(guestID, date)

	var record model.GuestDateRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find guest date record: %w", err)
	}

	return &record, nil
}

func (r *mongoGuestViewRepository) FindByGuest(ctx context.Context, guestID string, limit int, offset int64) ([]*model.GuestDateRecord, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"guest_id": guestID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find guest reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*model.GuestDateRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode guest reservations: %w", err)
	}

	return records, nil
}

func (r *mongoGuestViewRepository) CountByGuest(ctx context.Context, guestID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"guest_id": guestID})
	if err != nil {
		return 0, fmt.Errorf("failed to count guest reservations: %w", err)
	}
	return count, nil
}
