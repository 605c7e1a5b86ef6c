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
	HotelViewCollection = "HotelDateView"
)

// HotelViewRepository is the hotel-indexed availability side of the booking
// store: one record per (hotel id, date, room number) slot. TransitionStatus
// is the conditional write the booking flow uses to serialize concurrent
// attempts on a slot.
type HotelViewRepository interface {
	Exists(ctx context.Context, hotelID string, date time.Time, roomNumber int) (bool, error)
	Insert(ctx context.Context, record *model.HotelDateRecord) error
	FindOne(ctx context.Context, hotelID string, date time.Time, roomNumber int) (*model.HotelDateRecord, error)
	TransitionStatus(ctx context.Context, hotelID string, date time.Time, roomNumber int, from, to string) error
	FindByHotelAndDate(ctx context.Context, hotelID string, date time.Time, limit int, offset int64) ([]*model.HotelDateRecord, error)
	CountByHotelAndDate(ctx context.Context, hotelID string, date time.Time) (int64, error)
}

type mongoHotelViewRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoHotelViewRepository(cfg *config.Config) HotelViewRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoHotelViewRepository{
		cfg:        cfg,
		collection: db.Collection(HotelViewCollection),
	}
}

func (r *mongoHotelViewRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithTimeout(ctx, time.Until(deadline))
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoHotelViewRepository) Exists(ctx context.Context, hotelID string, date time.Time, roomNumber int) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	key := model.HotelDateKey(hotelID, date, roomNumber)
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": key}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check hotel view for %s: %w", key, err)
	}
	return count > 0, nil
}

func (r *mongoHotelViewRepository) Insert(ctx context.Context, record *model.HotelDateRecord) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	record.ID = model.HotelDateKey(record.HotelID, record.Date, record.RoomNumber)
	record.Date = model.Day(record.Date)
	now := time.Now().UTC().Truncate(time.Millisecond)
	record.CreatedAt = now
	record.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", reserrors.ErrDuplicateKey, record.ID)
		}
		return fmt.Errorf("failed to insert hotel date record: %w", err)
	}
	return nil
}

func (r *mongoHotelViewRepository) FindOne(ctx context.Context, hotelID string, date time.Time, roomNumber int) (*model.HotelDateRecord, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	key := model.HotelDateKey(hotelID, date, roomNumber)

	var record model.HotelDateRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reserrors.ErrSlotNotRegistered
		}
		return nil, fmt.Errorf("failed to find hotel date record: %w", err)
	}

	return &record, nil
}

// TransitionStatus flips the slot's status with a single conditional write.
// The filter matches on both key and current status, so out of any number
// of concurrent callers exactly one observes a match; the rest get
// ErrStatusConflict.
func (r *mongoHotelViewRepository) TransitionStatus(ctx context.Context, hotelID string, date time.Time, roomNumber int, from, to string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	key := model.HotelDateKey(hotelID, date, roomNumber)
	filter := bson.M{"_id": key, "status": from}
	update := bson.M{
		"$set": bson.M{
			"status":     to,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to transition %s from %s to %s: %w", key, from, to, err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s is no longer %s", reserrors.ErrStatusConflict, key, from)
	}

	return nil
}

func (r *mongoHotelViewRepository) FindByHotelAndDate(ctx context.Context, hotelID string, date time.Time, limit int, offset int64) ([]*model.HotelDateRecord, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"hotel_id": hotelID, "date": model.Day(date)}
	opts := options.Find().
		SetSort(bson.D{{Key: "room_number", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find hotel date records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*model.HotelDateRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode hotel date records: %w", err)
	}

	return records, nil
}

func (r *mongoHotelViewRepository) CountByHotelAndDate(ctx context.Context, hotelID string, date time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"hotel_id": hotelID, "date": model.Day(date)})
	if err != nil {
		return 0, fmt.Errorf("failed to count hotel date records: %w", err)
	}
	return count, nil
}
