package repository

import (
	"context"
	"time"

	"github.com/neuronclub/neuron-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RegistrationRepository interface {
	EnsureIndexes(ctx context.Context) error
	SaveRegistration(reg *models.Registration) error
	GetByEmail(email string) (*models.Registration, error)
	GetByRegistrationID(registrationID string) (*models.Registration, error)
	GetAll(limit int64) ([]*models.Registration, error)
	GetCompleted(limit int64) ([]*models.Registration, error)
	AttachOrder(registrationID, orderID string, amount int64) error
	MarkCompleted(registrationID, orderID, paymentID string) error
	CountAll() (int64, error)
	CountByStatus(status models.PaymentStatus) (int64, error)
}

type MongoRegistrationRepository struct {
	collection *mongo.Collection
}

func NewRegistrationRepository(client *mongo.Client, dbName, collectionName string) RegistrationRepository {
	collection := client.Database(dbName).Collection(collectionName)
	return &MongoRegistrationRepository{collection: collection}
}

// EnsureIndexes enforces the uniqueness invariants at the storage layer, so the
// read-then-write check in the service cannot race into a duplicate document.
func (r *MongoRegistrationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "registration_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}

func (r *MongoRegistrationRepository) SaveRegistration(reg *models.Registration) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, reg)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrDuplicateEmail
	}
	return err
}

func (r *MongoRegistrationRepository) GetByEmail(email string) (*models.Registration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var reg models.Registration
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&reg)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *MongoRegistrationRepository) GetByRegistrationID(registrationID string) (*models.Registration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var reg models.Registration
	err := r.collection.FindOne(ctx, bson.M{"registration_id": registrationID}).Decode(&reg)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *MongoRegistrationRepository) GetAll(limit int64) ([]*models.Registration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	regs := make([]*models.Registration, 0)
	if err := cursor.All(ctx, &regs); err != nil {
		return nil, err
	}
	return regs, nil
}

func (r *MongoRegistrationRepository) GetCompleted(limit int64) ([]*models.Registration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Find().
		SetProjection(bson.M{"amount": 1}).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{"payment_status": models.PaymentStatusCompleted}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	regs := make([]*models.Registration, 0)
	if err := cursor.All(ctx, &regs); err != nil {
		return nil, err
	}
	return regs, nil
}

// AttachOrder records the gateway order on a registration, conditional on the
// payment still being pending so a completed registration is never re-priced.
func (r *MongoRegistrationRepository) AttachOrder(registrationID, orderID string, amount int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"order_id": orderID,
		"amount":   amount,
	}}
	filter := bson.M{
		"registration_id": registrationID,
		"payment_status":  models.PaymentStatusPending,
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrPaymentCompleted
	}
	return nil
}

// MarkCompleted flips a pending registration to completed. A zero match count is
// not an error: the original API reports success for unknown ids, and a repeated
// verification of an already-completed registration is a no-op.
func (r *MongoRegistrationRepository) MarkCompleted(registrationID, orderID, paymentID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"payment_status": models.PaymentStatusCompleted,
		"transaction_id": paymentID,
		"order_id":       orderID,
	}}
	filter := bson.M{
		"registration_id": registrationID,
		"payment_status":  models.PaymentStatusPending,
	}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}

func (r *MongoRegistrationRepository) CountAll() (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *MongoRegistrationRepository) CountByStatus(status models.PaymentStatus) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return r.collection.CountDocuments(ctx, bson.M{"payment_status": status})
}
