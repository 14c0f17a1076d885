package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kagabo/simplepay-gobackend/internal/models"
)

// PaymentStore is the persistence surface the handlers need. Implemented
// by services.PaymentService.
type PaymentStore interface {
	CreatePayment(ctx context.Context, payment *models.Payment) (string, error)
	UpdateStatus(ctx context.Context, txRef, transactionID string, status models.Status) (int64, error)
	ListPayments(ctx context.Context) ([]models.Payment, error)
	GetStats(ctx context.Context) (*models.PaymentStats, error)
}

type PaymentHandler struct {
	store PaymentStore
}

func NewPaymentHandler(store PaymentStore) *PaymentHandler {
	return &PaymentHandler{store: store}
}

// RegisterRoutes wires the payment API onto the router.
func RegisterRoutes(router *mux.Router, h *PaymentHandler) {
	router.HandleFunc("/api/payments", h.CreatePayment).Methods("POST")
	router.HandleFunc("/api/payments/verify", h.VerifyPayment).Methods("POST")
	router.HandleFunc("/api/payments", h.GetPayments).Methods("GET")
	router.HandleFunc("/api/stats", h.GetStats).Methods("GET")
}

type createPaymentResponse struct {
	Success   bool   `json:"success"`
	PaymentID string `json:"paymentId,omitempty"`
	Message   string `json:"message"`
}

type verifyPaymentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type listPaymentsResponse struct {
	Success  bool             `json:"success"`
	Payments []models.Payment `json:"payments"`
	Message  string           `json:"message,omitempty"`
}

type statsResponse struct {
	Success bool                 `json:"success"`
	Stats   *models.PaymentStats `json:"stats,omitempty"`
	Message string               `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// CreatePayment records a new pending payment before the client hands
// control to the external checkout widget. Failures, duplicate references
// included, come back as a generic message so callers just retry with a
// fresh reference.
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string  `json:"name"`
		Email  string  `json:"email"`
		Phone  string  `json:"phone"`
		Amount float64 `json:"amount"`
		TxRef  string  `json:"tx_ref"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, createPaymentResponse{Success: false, Message: "Invalid request body"})
		return
	}

	payment := &models.Payment{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Amount: req.Amount,
		TxRef:  req.TxRef,
		Status: models.StatusPending,
	}

	id, err := h.store.CreatePayment(r.Context(), payment)
	if err != nil {
		log.Printf("Error saving payment: %v", err)
		writeJSON(w, http.StatusInternalServerError, createPaymentResponse{Success: false, Message: "Failed to initiate payment"})
		return
	}

	writeJSON(w, http.StatusOK, createPaymentResponse{
		Success:   true,
		PaymentID: id,
		Message:   "Payment initiated successfully",
	})
}

// VerifyPayment applies a client-reported checkout outcome to the matching
// record. The outcome is trusted as reported; nothing here cross-checks
// with the payment processor, so this endpoint is the trust boundary of
// the whole flow. A tx_ref that matches no record still answers success,
// matching the behavior the dashboard and clients were built against; the
// miss is only logged.
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TxRef         string        `json:"tx_ref"`
		TransactionID string        `json:"transaction_id"`
		Status        models.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, verifyPaymentResponse{Success: false, Message: "Invalid request body"})
		return
	}

	if !req.Status.Terminal() {
		writeJSON(w, http.StatusBadRequest, verifyPaymentResponse{Success: false, Message: "Status must be successful, failed or cancelled"})
		return
	}

	matched, err := h.store.UpdateStatus(r.Context(), req.TxRef, req.TransactionID, req.Status)
	if err != nil {
		log.Printf("Error updating payment status: %v", err)
		writeJSON(w, http.StatusInternalServerError, verifyPaymentResponse{Success: false, Message: "Failed to update payment status"})
		return
	}
	if matched == 0 {
		log.Printf("Verify matched no payment for tx_ref %s", req.TxRef)
	}

	writeJSON(w, http.StatusOK, verifyPaymentResponse{
		Success: true,
		Message: "Payment status updated successfully",
	})
}

// GetPayments returns every payment, newest first.
func (h *PaymentHandler) GetPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.store.ListPayments(r.Context())
	if err != nil {
		log.Printf("Error fetching payments: %v", err)
		writeJSON(w, http.StatusInternalServerError, listPaymentsResponse{Success: false, Message: "Failed to fetch payments"})
		return
	}

	writeJSON(w, http.StatusOK, listPaymentsResponse{Success: true, Payments: payments})
}

// GetStats returns the dashboard aggregate.
func (h *PaymentHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetStats(r.Context())
	if err != nil {
		log.Printf("Error fetching stats: %v", err)
		writeJSON(w, http.StatusInternalServerError, statsResponse{Success: false, Message: "Failed to fetch statistics"})
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{Success: true, Stats: stats})
}
