package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/kagabo/simplepay-gobackend/internal/models"
)

// Data is one fetched dashboard snapshot. Each section carries its own
// error so a failed fetch never blanks the other section.
type Data struct {
	Payments    []models.Payment
	PaymentsErr error
	Stats       *models.PaymentStats
	StatsErr    error
}

// Renderer reads the payment list and stats endpoints and renders them as
// text. Rendering is stateless over the fetched snapshot.
type Renderer struct {
	baseURL    string
	httpClient *http.Client
	printer    *message.Printer
}

func NewRenderer(baseURL string) *Renderer {
	return &Renderer{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		printer:    message.NewPrinter(language.English),
	}
}

func (r *Renderer) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", r.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Fetch issues the list and stats reads concurrently and collects whatever
// each of them produced.
func (r *Renderer) Fetch(ctx context.Context) Data {
	var data Data
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var resp struct {
			Success  bool             `json:"success"`
			Payments []models.Payment `json:"payments"`
			Message  string           `json:"message"`
		}
		if err := r.get(ctx, "/api/payments", &resp); err != nil {
			data.PaymentsErr = err
			return
		}
		if !resp.Success {
			data.PaymentsErr = fmt.Errorf("payments fetch failed: %s", resp.Message)
			return
		}
		data.Payments = resp.Payments
	}()

	go func() {
		defer wg.Done()
		var resp struct {
			Success bool                 `json:"success"`
			Stats   *models.PaymentStats `json:"stats"`
			Message string               `json:"message"`
		}
		if err := r.get(ctx, "/api/stats", &resp); err != nil {
			data.StatsErr = err
			return
		}
		if !resp.Success || resp.Stats == nil {
			data.StatsErr = fmt.Errorf("stats fetch failed: %s", resp.Message)
			return
		}
		data.Stats = resp.Stats
	}()

	wg.Wait()
	return data
}

// Render writes the dashboard for one snapshot: the aggregate counters
// first, then the payments newest-first as the server returned them.
func (r *Renderer) Render(w io.Writer, data Data) {
	fmt.Fprintln(w, "=== Payment Dashboard ===")

	if data.StatsErr != nil {
		fmt.Fprintln(w, "Statistics unavailable: failed to fetch stats")
	} else {
		s := data.Stats
		fmt.Fprintf(w, "Total payments:  %d\n", s.TotalPayments)
		fmt.Fprintf(w, "Successful:      %d\n", s.SuccessfulPayments)
		fmt.Fprintf(w, "Pending:         %d\n", s.PendingPayments)
		fmt.Fprintf(w, "Failed:          %d\n", s.FailedPayments)
		fmt.Fprintf(w, "Total revenue:   %s\n", r.FormatAmount(s.TotalSuccessfulAmount))
	}

	fmt.Fprintln(w)
	if data.PaymentsErr != nil {
		fmt.Fprintln(w, "Payment history unavailable: failed to fetch payments")
		return
	}
	if len(data.Payments) == 0 {
		fmt.Fprintln(w, "No payments yet")
		return
	}
	for _, p := range data.Payments {
		fmt.Fprintf(w, "%s  %-20s %-12s %s  %s\n",
			p.CreatedAt.Format("2006-01-02 15:04"), p.Name, p.Status, r.FormatAmount(p.Amount), p.TxRef)
	}
}

// Run fetches once and renders, the single cycle of the minimal dashboard.
func (r *Renderer) Run(ctx context.Context, w io.Writer) {
	r.Render(w, r.Fetch(ctx))
}

// FormatAmount renders an amount as grouped RWF, e.g. "RWF 5,000".
func (r *Renderer) FormatAmount(amount float64) string {
	return r.printer.Sprintf("RWF %v", number.Decimal(amount, number.MaxFractionDigits(0)))
}
