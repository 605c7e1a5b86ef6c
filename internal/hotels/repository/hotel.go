package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	hotelerrors "innkeep/internal/hotels/errors"
	"innkeep/pkg/config"
	"innkeep/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	HotelCollection = "Hotels"
)

type HotelRepository interface {
	Create(ctx context.Context, hotel *model.Hotel) error
	FindByID(ctx context.Context, id string) (*model.Hotel, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Hotel, error)
	Count(ctx context.Context) (int64, error)
	FindByCity(ctx context.Context, city string) ([]*model.Hotel, error)
	Update(ctx context.Context, id string, hotel *model.Hotel) error
	Delete(ctx context.Context, id string) error
}

type mongoHotelRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoHotelRepository(cfg *config.Config) HotelRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoHotelRepository{
		cfg:        cfg,
		collection: db.Collection(HotelCollection),
	}
}

func (r *mongoHotelRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithTimeout(ctx, time.Until(deadline))
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoHotelRepository) Create(ctx context.Context, hotel *model.Hotel) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if hotel.ID == "" {
		hotel.ID = uuid.NewString()
	}
	hotel.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, hotel); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("hotel %s: %w", hotel.ID, hotelerrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert hotel: %w", err)
	}

	return nil
}

func (r *mongoHotelRepository) FindByID(ctx context.Context, id string) (*model.Hotel, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var hotel model.Hotel
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&hotel)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("hotel %s: %w", id, hotelerrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find hotel %s: %w", id, err)
	}

	return &hotel, nil
}

func (r *mongoHotelRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Hotel, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list hotels: %w", err)
	}
	defer cursor.Close(ctx)

	var hotels []*model.Hotel
	if err := cursor.All(ctx, &hotels); err != nil {
		return nil, fmt.Errorf("failed to decode hotels: %w", err)
	}

	return hotels, nil
}

func (r *mongoHotelRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count hotels: %w", err)
	}

	return count, nil
}

func (r *mongoHotelRepository) FindByCity(ctx context.Context, city string) ([]*model.Hotel, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"city": city}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find hotels in city %s: %w", city, err)
	}
	defer cursor.Close(ctx)

	var hotels []*model.Hotel
	if err := cursor.All(ctx, &hotels); err != nil {
		return nil, fmt.Errorf("failed to decode hotels: %w", err)
	}

	return hotels, nil
}

func (r *mongoHotelRepository) Update(ctx context.Context, id string, hotel *model.Hotel) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":    hotel.Name,
		"address": hotel.Address,
		"city":    hotel.City,
		"phone":   hotel.Phone,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update hotel %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("hotel %s: %w", id, hotelerrors.ErrNotFound)
	}

	return nil
}

func (r *mongoHotelRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete hotel %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("hotel %s: %w", id, hotelerrors.ErrNotFound)
	}

	return nil
}
