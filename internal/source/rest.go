package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"GrowthSentinel/internal/model"
)

// RESTSource implements EventSource and TransactionSource against the
// billing/accounts REST API.
type RESTSource struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTSource creates a source with optional proxy support.
func NewRESTSource(baseURL, apiKey, proxyURL string) *RESTSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &RESTSource{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (s *RESTSource) Name() string { return "rest" }

// restEvent is the expected JSON shape of an event record. Timestamp is
// required; a record without one is a parse error, not a silent zero.
type restEvent struct {
	Timestamp *int64 `json:"timestamp"`
	GroupKey  string `json:"group_key"`
}

// restTransaction is the expected JSON shape of a payment record. ID,
// amount, status and created are required; customer is optional.
type restTransaction struct {
	ID          string `json:"id"`
	AmountCents *int64 `json:"amount_cents"`
	Status      string `json:"status"`
	CustomerKey string `json:"customer"`
	Created     *int64 `json:"created"`
}

func (s *RESTSource) FetchEvents(ctx context.Context, entityID string, start, end time.Time) ([]model.Event, error) {
	endpoint := fmt.Sprintf("%s/api/v1/entities/%s/events?start=%d&end=%d",
		s.BaseURL, url.PathEscape(entityID), start.Unix(), end.Unix())

	var raw []restEvent
	if err := s.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, err
	}

	events := make([]model.Event, len(raw))
	for i, re := range raw {
		if re.Timestamp == nil {
			return nil, &UnavailableError{
				Source:   s.Name(),
				Resource: endpoint,
				Err:      fmt.Errorf("event record %d missing timestamp", i),
			}
		}
		events[i] = model.Event{
			Timestamp: time.Unix(*re.Timestamp, 0),
			GroupKey:  re.GroupKey,
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Timestamp.Before(events[j].Timestamp) })
	return events, nil
}

func (s *RESTSource) FetchTransactions(ctx context.Context, entityID string, start, end time.Time) ([]model.Transaction, error) {
	endpoint := fmt.Sprintf("%s/api/v1/entities/%s/transactions?start=%d&end=%d",
		s.BaseURL, url.PathEscape(entityID), start.Unix(), end.Unix())

	var raw []restTransaction
	if err := s.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, err
	}

	txs := make([]model.Transaction, len(raw))
	for i, rt := range raw {
		if rt.ID == "" || rt.Status == "" || rt.AmountCents == nil || rt.Created == nil {
			return nil, &UnavailableError{
				Source:   s.Name(),
				Resource: endpoint,
				Err:      fmt.Errorf("transaction record %d missing required fields", i),
			}
		}
		txs[i] = model.Transaction{
			ID:          rt.ID,
			Amount:      *rt.AmountCents,
			Status:      rt.Status,
			CustomerKey: rt.CustomerKey,
			Timestamp:   time.Unix(*rt.Created, 0),
		}
	}
	sort.Slice(txs, func(i, j int) bool { return txs[i].Timestamp.Before(txs[j].Timestamp) })
	return txs, nil
}

func (s *RESTSource) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return &UnavailableError{Source: s.Name(), Resource: endpoint, Err: err}
	}
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return &UnavailableError{Source: s.Name(), Resource: endpoint, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &UnavailableError{
			Source:   s.Name(),
			Resource: endpoint,
			Err:      fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body)),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &UnavailableError{Source: s.Name(), Resource: endpoint, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}
