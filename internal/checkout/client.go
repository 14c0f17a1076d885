package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kagabo/simplepay-gobackend/internal/models"
)

// Client talks to the payment backend's JSON API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type createPaymentRequest struct {
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Phone  string  `json:"phone"`
	Amount float64 `json:"amount"`
	TxRef  string  `json:"tx_ref"`
}

type verifyPaymentRequest struct {
	TxRef         string        `json:"tx_ref"`
	TransactionID string        `json:"transaction_id"`
	Status        models.Status `json:"status"`
}

type apiResponse struct {
	Success   bool   `json:"success"`
	PaymentID string `json:"paymentId"`
	Message   string `json:"message"`
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (*apiResponse, error) {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %v", err)
	}
	if !result.Success {
		if result.Message == "" {
			return nil, fmt.Errorf("request failed with status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("%s", result.Message)
	}
	return &result, nil
}

// CreatePayment records a pending payment server-side and returns the
// assigned payment id.
func (c *Client) CreatePayment(ctx context.Context, form Form, txRef string) (string, error) {
	result, err := c.post(ctx, "/api/payments", createPaymentRequest{
		Name:   form.Name,
		Email:  form.Email,
		Phone:  form.Phone,
		Amount: form.Amount,
		TxRef:  txRef,
	})
	if err != nil {
		return "", err
	}
	return result.PaymentID, nil
}

// VerifyPayment reports the checkout outcome for txRef back to the server.
func (c *Client) VerifyPayment(ctx context.Context, txRef, transactionID string, status models.Status) error {
	_, err := c.post(ctx, "/api/payments/verify", verifyPaymentRequest{
		TxRef:         txRef,
		TransactionID: transactionID,
		Status:        status,
	})
	return err
}
