package checkout

import (
	"context"
	"fmt"
	"log"

	"github.com/kagabo/simplepay-gobackend/internal/models"
)

// State is where a submission attempt currently is. States advance
// Idle → Validating → Pending → AwaitingCallback → Resolved and back to
// Idle when Submit returns.
type State string

const (
	StateIdle             State = "idle"
	StateValidating       State = "validating"
	StatePending          State = "pending"
	StateAwaitingCallback State = "awaiting_callback"
	StateResolved         State = "resolved"
)

// OutcomeKind is the terminal signal delivered by the checkout widget.
// Exactly one of the three fires per session.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeFailure
	OutcomeClosed
)

// Outcome is the widget's completion signal. TransactionID is only set on
// success.
type Outcome struct {
	Kind          OutcomeKind
	TransactionID string
}

// WidgetRequest carries everything the external checkout needs to run a
// session.
type WidgetRequest struct {
	PublicKey   string
	TxRef       string
	Amount      float64
	Currency    string
	Name        string
	Email       string
	Phone       string
	Title       string
	Description string
	LogoURL     string
}

// Widget is the external hosted checkout. Open blocks for an indeterminate,
// user-driven duration and returns exactly one outcome; the charge
// processing behind it is opaque to this system.
type Widget interface {
	Open(ctx context.Context, req WidgetRequest) Outcome
}

// Config is the static configuration for an Initiator.
type Config struct {
	PublicKey   string
	Currency    string
	Title       string
	Description string
	LogoURL     string
	// OnState, when set, observes state transitions during Submit.
	OnState func(State)
}

// Result is the resolved end of one submission attempt.
type Result struct {
	TxRef         string
	PaymentID     string
	TransactionID string
	Status        models.Status
	Message       string
}

// Initiator drives the checkout flow: validate the form, persist a pending
// record, hand control to the widget, then reconcile the reported outcome.
type Initiator struct {
	cfg    Config
	api    *Client
	widget Widget
}

func NewInitiator(cfg Config, api *Client, widget Widget) *Initiator {
	if cfg.Currency == "" {
		cfg.Currency = "RWF"
	}
	return &Initiator{cfg: cfg, api: api, widget: widget}
}

func (i *Initiator) setState(s State) {
	if i.cfg.OnState != nil {
		i.cfg.OnState(s)
	}
}

// Submit runs one checkout attempt end to end. Invalid input returns
// FieldErrors before any network call. The pending record is always
// persisted before the widget opens; if that write fails the widget is
// never shown and the caller gets a generic retry error.
func (i *Initiator) Submit(ctx context.Context, form Form) (*Result, error) {
	defer i.setState(StateIdle)

	i.setState(StateValidating)
	if errs := ValidateForm(form); errs != nil {
		return nil, errs
	}

	i.setState(StatePending)
	txRef := NewTxRef()
	paymentID, err := i.api.CreatePayment(ctx, form, txRef)
	if err != nil {
		log.Printf("Payment initialization failed for %s: %v", txRef, err)
		return nil, fmt.Errorf("failed to initialize payment, please try again: %w", err)
	}

	i.setState(StateAwaitingCallback)
	outcome := i.widget.Open(ctx, WidgetRequest{
		PublicKey:   i.cfg.PublicKey,
		TxRef:       txRef,
		Amount:      form.Amount,
		Currency:    i.cfg.Currency,
		Name:        form.Name,
		Email:       form.Email,
		Phone:       form.Phone,
		Title:       i.cfg.Title,
		Description: i.cfg.Description,
		LogoURL:     i.cfg.LogoURL,
	})

	i.setState(StateResolved)
	return i.resolve(ctx, txRef, paymentID, outcome)
}

// resolve maps the widget's outcome onto a terminal record state and
// reports it to the server. Closing the widget without completing counts
// as a cancellation.
func (i *Initiator) resolve(ctx context.Context, txRef, paymentID string, outcome Outcome) (*Result, error) {
	result := &Result{TxRef: txRef, PaymentID: paymentID, TransactionID: outcome.TransactionID}

	switch outcome.Kind {
	case OutcomeSuccess:
		if err := i.api.VerifyPayment(ctx, txRef, outcome.TransactionID, models.StatusSuccessful); err != nil {
			log.Printf("Failed to record successful payment %s: %v", txRef, err)
			return nil, fmt.Errorf("payment %s completed but failed to update records: %w", txRef, err)
		}
		result.Status = models.StatusSuccessful
		result.Message = fmt.Sprintf("Payment successful. Transaction ID: %s", outcome.TransactionID)

	case OutcomeFailure:
		if err := i.api.VerifyPayment(ctx, txRef, outcome.TransactionID, models.StatusFailed); err != nil {
			log.Printf("Failed to record failed payment %s: %v", txRef, err)
		}
		result.Status = models.StatusFailed
		result.Message = "Payment failed. Please try again."

	case OutcomeClosed:
		if err := i.api.VerifyPayment(ctx, txRef, "", models.StatusCancelled); err != nil {
			log.Printf("Failed to record cancelled payment %s: %v", txRef, err)
		}
		result.Status = models.StatusCancelled
		result.Message = "Payment cancelled. You can try again when ready."

	default:
		return nil, fmt.Errorf("unknown checkout outcome %d for %s", outcome.Kind, txRef)
	}

	return result, nil
}
