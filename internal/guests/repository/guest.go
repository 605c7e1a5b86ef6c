package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	guesterrors "innkeep/internal/guests/errors"
	"innkeep/pkg/config"
	"innkeep/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	GuestCollection = "Guests"
)

type GuestRepository interface {
	Create(ctx context.Context, guest *model.Guest) error
	FindByID(ctx context.Context, id string) (*model.Guest, error)
	FindByEmail(ctx context.Context, email string) (*model.Guest, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Guest, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, guest *model.Guest) error
	Delete(ctx context.Context, id string) error
}

type mongoGuestRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoGuestRepository(cfg *config.Config) GuestRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoGuestRepository{
		cfg:        cfg,
		collection: db.Collection(GuestCollection),
	}
}

func (r *mongoGuestRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithTimeout(ctx, time.Until(deadline))
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoGuestRepository) Create(ctx context.Context, guest *model.Guest) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if guest.ID == "" {
		guest.ID = uuid.NewString()
	}
	guest.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, guest); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("guest %s: %w", guest.ID, guesterrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert guest: %w", err)
	}

	return nil
}

func (r *mongoGuestRepository) FindByID(ctx context.Context, id string) (*model.Guest, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var guest model.Guest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&guest)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("guest %s: %w", id, guesterrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find guest %s: %w", id, err)
	}

	return &guest, nil
}

func (r *mongoGuestRepository) FindByEmail(ctx context.Context, email string) (*model.Guest, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var guest model.Guest
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&guest)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("guest with email %s: %w", email, guesterrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find guest by email: %w", err)
	}

	return &guest, nil
}

func (r *mongoGuestRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Guest, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "last_name", Value: 1}, {Key: "first_name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list guests: %w", err)
	}
	defer cursor.Close(ctx)

	var guests []*model.Guest
	if err := cursor.All(ctx, &guests); err != nil {
		return nil, fmt.Errorf("failed to decode guests: %w", err)
	}

	return guests, nil
}

func (r *mongoGuestRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count guests: %w", err)
	}

	return count, nil
}

func (r *mongoGuestRepository) Update(ctx context.Context, id string, guest *model.Guest) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"first_name": guest.FirstName,
		"last_name":  guest.LastName,
		"email":      guest.Email,
		"phone":      guest.Phone,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update guest %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("guest %s: %w", id, guesterrors.ErrNotFound)
	}

	return nil
}

func (r *mongoGuestRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete guest %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("guest %s: %w", id, guesterrors.ErrNotFound)
	}

	return nil
}
