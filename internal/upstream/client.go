package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"crm-analytics/internal/config"
	"crm-analytics/internal/crm"

	"go.uber.org/zap"
)

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 64 << 20

// Source fetches the full record set of each module. Implementations return
// the raw error on failure; the caller decides whether to abort or degrade.
type Source interface {
	Leads(ctx context.Context) ([]crm.Lead, error)
	Accounts(ctx context.Context) ([]crm.Account, error)
	Contacts(ctx context.Context) ([]crm.Contact, error)
	Opportunities(ctx context.Context) ([]crm.Opportunity, error)
	SalesQuotes(ctx context.Context) ([]crm.SalesQuote, error)
	SalesOrders(ctx context.Context) ([]crm.SalesOrder, error)
}

// Client reads module records from the owning CRM services over HTTP.
type Client struct {
	httpClient *http.Client
	cfg        *config.Config
	logger     *zap.Logger
}

func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.UpstreamTimeout},
		cfg:        cfg,
		logger:     logger.With(zap.String("component", "upstream_client")),
	}
}

// NewSource exposes the client through the Source interface for fx.
func NewSource(c *Client) Source {
	return c
}

func (c *Client) Leads(ctx context.Context) ([]crm.Lead, error) {
	return fetch(ctx, c, crm.ModuleLead, toLead)
}

func (c *Client) Accounts(ctx context.Context) ([]crm.Account, error) {
	return fetch(ctx, c, crm.ModuleAccount, toAccount)
}

func (c *Client) Contacts(ctx context.Context) ([]crm.Contact, error) {
	return fetch(ctx, c, crm.ModuleContact, toContact)
}

func (c *Client) Opportunities(ctx context.Context) ([]crm.Opportunity, error) {
	return fetch(ctx, c, crm.ModuleOpportunity, toOpportunity)
}

func (c *Client) SalesQuotes(ctx context.Context) ([]crm.SalesQuote, error) {
	return fetch(ctx, c, crm.ModuleSalesQuotes, toSalesQuote)
}

func (c *Client) SalesOrders(ctx context.Context) ([]crm.SalesOrder, error) {
	return fetch(ctx, c, crm.ModuleSalesOrder, toSalesOrder)
}

func fetch[T any](ctx context.Context, c *Client, m crm.Module, decode func(object) T) ([]T, error) {
	start := time.Now()
	items, err := c.fetchItems(ctx, m)
	fetchDuration.WithLabelValues(string(m)).Observe(time.Since(start).Seconds())
	if err != nil {
		fetchTotal.WithLabelValues(string(m), outcomeError).Inc()
		c.logger.Error("upstream fetch failed",
			zap.String("module", string(m)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}
	fetchTotal.WithLabelValues(string(m), outcomeSuccess).Inc()

	records := make([]T, 0, len(items))
	for _, item := range items {
		records = append(records, decode(item))
	}
	c.logger.Info("fetched upstream records",
		zap.String("module", string(m)),
		zap.Int("count", len(records)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return records, nil
}

// fetchItems issues the single GET for a module and returns its items.
func (c *Client) fetchItems(ctx context.Context, m crm.Module) ([]object, error) {
	url := c.cfg.Upstream(m).URL()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", m.Label(), err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s from %s: %w", m.Label(), url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", m.Label(), err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s service returned status %d", m.Label(), resp.StatusCode)
	}

	items, err := decodeItems(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s response: %w", m.Label(), err)
	}
	return items, nil
}

// decodeItems accepts either a bare JSON array or a {"data": [...]} envelope.
// Array elements that are not objects are skipped.
func decodeItems(body []byte) ([]object, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("empty body")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw []any
	switch body[0] {
	case '[':
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
	case '{':
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := dec.Decode(&envelope); err != nil {
			return nil, err
		}
		data := bytes.TrimSpace(envelope.Data)
		if len(data) == 0 || bytes.Equal(data, []byte("null")) {
			return []object{}, nil
		}
		inner := json.NewDecoder(bytes.NewReader(data))
		inner.UseNumber()
		if err := inner.Decode(&raw); err != nil {
			return nil, fmt.Errorf("data is not an array: %w", err)
		}
	default:
		return nil, fmt.Errorf("unexpected body, want array or object")
	}

	items := make([]object, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(map[string]any); ok {
			items = append(items, object(m))
		}
	}
	return items, nil
}
