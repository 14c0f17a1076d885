package handlers_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kagabo/simplepay-gobackend/internal/models"
	"github.com/kagabo/simplepay-gobackend/internal/services"
)

// memStore implements handlers.PaymentStore with the same observable
// semantics as the Mongo-backed service: one record per tx_ref,
// unconditional status updates, newest-first listing and a single-pass
// stats aggregate.
type memStore struct {
	mu       sync.Mutex
	payments []*models.Payment

	failCreate bool
	failList   bool
	failStats  bool
}

func newMemStore() *memStore {
	return &memStore{}
}

func (m *memStore) CreatePayment(_ context.Context, payment *models.Payment) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failCreate {
		return "", errStore
	}
	for _, p := range m.payments {
		if p.TxRef == payment.TxRef {
			return "", services.ErrDuplicateReference
		}
	}

	stored := *payment
	stored.ID = primitive.NewObjectID()
	if stored.Status == "" {
		stored.Status = models.StatusPending
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	m.payments = append(m.payments, &stored)
	return stored.ID.Hex(), nil
}

func (m *memStore) UpdateStatus(_ context.Context, txRef, transactionID string, status models.Status) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched int64
	now := time.Now()
	for _, p := range m.payments {
		if p.TxRef == txRef {
			p.Status = status
			p.TransactionID = transactionID
			p.VerifiedAt = &now
			matched++
		}
	}
	return matched, nil
}

func (m *memStore) ListPayments(_ context.Context) ([]models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failList {
		return nil, errStore
	}
	out := make([]models.Payment, 0, len(m.payments))
	for _, p := range m.payments {
		out = append(out, *p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memStore) GetStats(_ context.Context) (*models.PaymentStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failStats {
		return nil, errStore
	}
	stats := &models.PaymentStats{}
	for _, p := range m.payments {
		stats.TotalPayments++
		stats.TotalAmount += p.Amount
		switch p.Status {
		case models.StatusSuccessful:
			stats.SuccessfulPayments++
			stats.TotalSuccessfulAmount += p.Amount
		case models.StatusPending:
			stats.PendingPayments++
		case models.StatusFailed:
			stats.FailedPayments++
		}
	}
	return stats, nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.payments)
}

func (m *memStore) byTxRef(txRef string) *models.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.TxRef == txRef {
			found := *p
			return &found
		}
	}
	return nil
}
