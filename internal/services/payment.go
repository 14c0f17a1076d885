package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kagabo/simplepay-gobackend/internal/models"
)

// ErrDuplicateReference is returned by CreatePayment when the tx_ref is
// already taken by an existing record.
var ErrDuplicateReference = errors.New("duplicate transaction reference")

type PaymentService struct {
	db *mongo.Database
}

func NewPaymentService(db *mongo.Database) *PaymentService {
	return &PaymentService{db: db}
}

// EnsureIndexes creates the indexes the payments collection relies on.
// The unique tx_ref index is what enforces one record per reference.
func (s *PaymentService) EnsureIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.M{"tx_ref": 1},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	_, err := s.db.Collection("payments").Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		log.Printf("Failed to create indexes: %v", err)
		return fmt.Errorf("failed to create indexes: %v", err)
	}
	return nil
}

// CreatePayment inserts a new payment record. Status defaults to pending
// when unset and CreatedAt is stamped here; the inserted id is returned.
func (s *PaymentService) CreatePayment(ctx context.Context, payment *models.Payment) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if payment.Status == "" {
		payment.Status = models.StatusPending
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}

	result, err := s.db.Collection("payments").InsertOne(ctx, payment)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			log.Printf("Duplicate tx_ref %s", payment.TxRef)
			return "", ErrDuplicateReference
		}
		log.Printf("Failed to save payment: %v", err)
		return "", fmt.Errorf("failed to save payment: %v", err)
	}

	id := result.InsertedID.(primitive.ObjectID).Hex()
	log.Printf("Payment created: id=%s, tx_ref=%s, amount=%.2f", id, payment.TxRef, payment.Amount)
	return id, nil
}

// UpdateStatus applies the reported checkout outcome to the record
// matching txRef. The update is unconditional; there is no check on the
// current state, so the last report wins. VerifiedAt is always set to now.
// The number of matched records is returned; zero matches is not an error.
func (s *PaymentService) UpdateStatus(ctx context.Context, txRef, transactionID string, status models.Status) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"status":         status,
			"transaction_id": transactionID,
			"verified_at":    time.Now(),
		},
	}

	result, err := s.db.Collection("payments").UpdateOne(ctx, bson.M{"tx_ref": txRef}, update)
	if err != nil {
		log.Printf("Failed to update payment %s: %v", txRef, err)
		return 0, fmt.Errorf("failed to update payment: %v", err)
	}

	if result.MatchedCount == 0 {
		log.Printf("No payment matched tx_ref %s", txRef)
	} else {
		log.Printf("Payment status updated: tx_ref=%s, status=%s", txRef, status)
	}
	return result.MatchedCount, nil
}

// ListPayments returns every payment, most recent first.
func (s *PaymentService) ListPayments(ctx context.Context) ([]models.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cur, err := s.db.Collection("payments").Find(ctx, bson.D{}, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		log.Printf("Failed to fetch payments: %v", err)
		return nil, fmt.Errorf("failed to fetch payments: %v", err)
	}

	payments := []models.Payment{}
	defer cur.Close(ctx)
	if err := cur.All(ctx, &payments); err != nil {
		log.Printf("Failed to decode payments: %v", err)
		return nil, fmt.Errorf("failed to decode payments: %v", err)
	}

	return payments, nil
}

// GetStats aggregates the dashboard counters in one pass over the
// collection.
func (s *PaymentService) GetStats(ctx context.Context) (*models.PaymentStats, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	countIf := func(status models.Status) bson.M {
		return bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$status", status}}, 1, 0}}}
	}

	pipeline := []bson.M{
		{"$group": bson.M{
			"_id":                 nil,
			"total_payments":      bson.M{"$sum": 1},
			"successful_payments": countIf(models.StatusSuccessful),
			"pending_payments":    countIf(models.StatusPending),
			"failed_payments":     countIf(models.StatusFailed),
			"total_successful_amount": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", models.StatusSuccessful}}, "$amount", 0},
			}},
			"total_amount": bson.M{"$sum": "$amount"},
		}},
	}

	cur, err := s.db.Collection("payments").Aggregate(ctx, pipeline)
	if err != nil {
		log.Printf("Failed to aggregate stats: %v", err)
		return nil, fmt.Errorf("failed to aggregate stats: %v", err)
	}
	defer cur.Close(ctx)

	var results []models.PaymentStats
	if err := cur.All(ctx, &results); err != nil {
		log.Printf("Failed to decode stats: %v", err)
		return nil, fmt.Errorf("failed to decode stats: %v", err)
	}

	if len(results) == 0 {
		return &models.PaymentStats{}, nil
	}
	return &results[0], nil
}
