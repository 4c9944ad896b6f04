package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/infrastructure/metrics"
	"github.com/iho/fintrack/internal/usecase"
)

// APIError is a non-2xx response from the remote ledger store. It keeps the
// entry id so a partial series failure can name the exact write that failed.
type APIError struct {
	Op         string
	EntryID    string
	Body       string
	StatusCode int
}

func (e *APIError) Error() string {
	if e.EntryID != "" {
		return fmt.Sprintf("ledger store %s %s: status %d: %s", e.Op, e.EntryID, e.StatusCode, e.Body)
	}

	return fmt.Sprintf("ledger store %s: status %d: %s", e.Op, e.StatusCode, e.Body)
}

// Client implements usecase.LedgerGateway against the remote CRUD ledger
// store. Every call is one independent round trip; requests honor ctx so
// in-flight calls are cancelable when the caller goes away.
type Client struct {
	httpClient *http.Client
	retrier    *Retrier
	metrics    *metrics.Metrics
	baseURL    string
	logger     zerolog.Logger
}

// NewClient creates a new remote ledger store client.
func NewClient(baseURL string, timeout time.Duration, m *metrics.Metrics, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		retrier:    NewRetrier(logger),
		metrics:    m,
		baseURL:    baseURL,
		logger:     logger,
	}
}

// Create persists one entry.
func (c *Client) Create(ctx context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error) {
	wire, err := encodeEntry(entry)
	if err != nil {
		return nil, err
	}

	var created wireEntry
	if err := c.do(ctx, http.MethodPost, "/entries", entry.ID, wire, &created); err != nil {
		return nil, err
	}

	decoded, degraded, err := decodeEntry(&created)
	if err != nil {
		return nil, err
	}
	if degraded {
		c.recordMalformed(created.ID, "create")
	}

	return decoded, nil
}

// Update applies a partial mutation to one entry.
func (c *Client) Update(ctx context.Context, id string, patch usecase.EntryPatch) (*domain.LedgerEntry, error) {
	body := make(map[string]any)

	if patch.Description != nil {
		body["description"] = *patch.Description
	}
	if patch.Amount != nil {
		body["amount"] = json.Number(patch.Amount.String())
	}
	if patch.Date != nil {
		body["date"] = patch.Date.Format(wireDateLayout)
	}
	if patch.Status != nil {
		body["status"] = string(*patch.Status)
	}

	var updated wireEntry
	if err := c.do(ctx, http.MethodPatch, "/entries/"+url.PathEscape(id), id, body, &updated); err != nil {
		return nil, err
	}

	decoded, degraded, err := decodeEntry(&updated)
	if err != nil {
		return nil, err
	}
	if degraded {
		c.recordMalformed(updated.ID, "update")
	}

	return decoded, nil
}

// Delete removes one entry.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/entries/"+url.PathEscape(id), id, nil, nil)
}

// List retrieves entries matching the filter. Transient failures are
// retried with backoff since listing is safe to repeat; a record whose
// installment info cannot be parsed is degraded to a plain entry rather
// than sinking the whole response.
func (c *Client) List(ctx context.Context, filter usecase.EntryFilter) ([]*domain.LedgerEntry, error) {
	path := "/entries?" + listQuery(filter).Encode()

	var records []wireEntry

	err := c.retrier.Retry(ctx, func() error {
		records = records[:0]
		return c.do(ctx, http.MethodGet, path, "", nil, &records)
	})
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.LedgerEntry, 0, len(records))

	for i := range records {
		entry, degraded, err := decodeEntry(&records[i])
		if err != nil {
			// A record too broken to represent at all is dropped, not fatal.
			c.logger.Warn().Err(err).Str("entry_id", records[i].ID).Msg("skipping undecodable record")
			continue
		}

		if degraded {
			c.recordMalformed(records[i].ID, "list")
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func (c *Client) do(ctx context.Context, method, path, entryID string, body, out any) error {
	start := time.Now()
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)

	if c.metrics != nil {
		c.metrics.GatewayCalls.WithLabelValues(method).Inc()
		c.metrics.GatewayDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	}

	if err != nil {
		if c.metrics != nil {
			c.metrics.GatewayErrors.WithLabelValues(method).Inc()
		}
		return fmt.Errorf("ledger store %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if c.metrics != nil {
			c.metrics.GatewayErrors.WithLabelValues(method).Inc()
		}

		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

		if resp.StatusCode == http.StatusNotFound {
			return domain.ErrEntryNotFound
		}

		return &APIError{
			Op:         method,
			EntryID:    entryID,
			StatusCode: resp.StatusCode,
			Body:       string(raw),
		}
	}

	if out == nil {
		return nil
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (c *Client) recordMalformed(entryID, op string) {
	c.logger.Warn().
		Str("entry_id", entryID).
		Str("operation", op).
		Msg("unparseable installment info, treating record as non-installment")

	if c.metrics != nil {
		c.metrics.MalformedRecords.Inc()
	}
}

func listQuery(filter usecase.EntryFilter) url.Values {
	q := url.Values{}

	if filter.ID != "" {
		q.Set("id", filter.ID)
	}
	if filter.SeriesID != "" {
		q.Set("seriesId", filter.SeriesID)
	}
	if filter.Status != "" {
		q.Set("status", string(filter.Status))
	}
	if filter.From != nil {
		q.Set("from", filter.From.Format(wireDateLayout))
	}
	if filter.To != nil {
		q.Set("to", filter.To.Format(wireDateLayout))
	}
	if filter.OnlyInstallments {
		q.Set("installments", "true")
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Offset > 0 {
		q.Set("offset", strconv.Itoa(filter.Offset))
	}

	return q
}
