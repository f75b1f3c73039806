package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/pillpath-platform/service-analytics/internal/analytics"
	"github.com/pillpath-platform/service-analytics/internal/chat"
)

// PharmacyClient handles communication with the pharmacy backend, the
// system of record for orders and chat transcripts.
type PharmacyClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewPharmacyClient creates a new PharmacyClient.
func NewPharmacyClient(baseURL string, logger *zap.Logger) *PharmacyClient {
	return &PharmacyClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// ListOrders fetches the full order list for a pharmacy. Fetches are
// one-shot: no retry or backoff, the caller decides whether to try again.
func (c *PharmacyClient) ListOrders(ctx context.Context, pharmacyID, status string) ([]analytics.Order, error) {
	u := fmt.Sprintf("%s/pharmacy-admin/pharmacies/%s/orders", c.baseURL, url.PathEscape(pharmacyID))
	if status != "" {
		u += "?status=" + url.QueryEscape(status)
	}

	var orders []analytics.Order
	if err := c.get(ctx, u, &orders); err != nil {
		return nil, err
	}

	c.logger.Debug("fetched orders from pharmacy backend",
		zap.String("pharmacy_id", pharmacyID),
		zap.Int("count", len(orders)),
	)
	return orders, nil
}

// GetOrder fetches a single order by its backend identifier.
func (c *PharmacyClient) GetOrder(ctx context.Context, pharmacyID, orderID string) (*analytics.Order, error) {
	u := fmt.Sprintf("%s/pharmacy-admin/pharmacies/%s/orders/%s",
		c.baseURL, url.PathEscape(pharmacyID), url.PathEscape(orderID))

	var order analytics.Order
	if err := c.get(ctx, u, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListMessages fetches a conversation transcript.
func (c *PharmacyClient) ListMessages(ctx context.Context, pharmacyID, chatID string) ([]chat.Message, error) {
	u := fmt.Sprintf("%s/pharmacy-admin/pharmacies/%s/chats/%s/messages",
		c.baseURL, url.PathEscape(pharmacyID), url.PathEscape(chatID))

	var messages []chat.Message
	if err := c.get(ctx, u, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// get performs a GET and decodes the response. The backend serves some
// endpoints as bare JSON and others wrapped in {success, message, data},
// so both shapes are accepted.
func (c *PharmacyClient) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err == nil {
		return nil
	}

	var wrapped struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil || len(wrapped.Data) == 0 {
		return fmt.Errorf("failed to decode response from %s", url)
	}
	if err := json.Unmarshal(wrapped.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}
