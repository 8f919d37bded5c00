package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Config holds the provider credentials and endpoints.
type Config struct {
	SecretKey string
	APIURL    string
	Timeout   time.Duration
}

func (c Config) Validate() error {
	// An empty secret key is tolerated so local development without
	// provider credentials still boots; every call will be rejected by
	// the provider instead.
	if c.APIURL == "" {
		return fmt.Errorf("checkout api url is required")
	}
	return nil
}

// httpGateway is the real provider client. The provider exposes a
// form-encoded REST API authenticated with a bearer secret key.
type httpGateway struct {
	config Config
	client *http.Client
}

func NewHTTPGateway(config Config) (CheckoutGateway, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &httpGateway{
		config: config,
		client: &http.Client{Timeout: timeout},
	}, nil
}

type sessionResponse struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	PaymentStatus string `json:"payment_status"`
}

func (g *httpGateway) CreateSession(ctx context.Context, req CreateSessionRequest) (*Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("customer_email", req.CustomerEmail)
	form.Set("success_url", req.SuccessURL)
	form.Set("cancel_url", req.CancelURL)
	form.Set("line_items[0][name]", req.Name)
	form.Set("line_items[0][unit_amount]", strconv.FormatInt(req.UnitAmount, 10))
	form.Set("line_items[0][quantity]", strconv.Itoa(req.Quantity))

	var resp sessionResponse
	if err := g.do(ctx, http.MethodPost, "/v1/checkout/sessions", form, &resp); err != nil {
		return nil, err
	}

	return &Session{ID: resp.ID, URL: resp.URL}, nil
}

func (g *httpGateway) RetrieveSession(ctx context.Context, sessionID string) (*SessionStatus, error) {
	var resp sessionResponse
	path := "/v1/checkout/sessions/" + url.PathEscape(sessionID)
	if err := g.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	return &SessionStatus{
		ID:      resp.ID,
		Settled: resp.PaymentStatus == "paid",
	}, nil
}

func (g *httpGateway) do(ctx context.Context, method, path string, form url.Values, out interface{}) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(g.config.APIURL, "/")+path, body)
	if err != nil {
		return fmt.Errorf("failed to build checkout request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+g.config.SecretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("checkout request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read checkout response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("checkout provider returned status %d: %s", resp.StatusCode, string(raw))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode checkout response: %w", err)
	}

	return nil
}
