package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"cleansched/internal/models"
	"cleansched/internal/utils"
)

// Notifier receives the transient success/error notifications the UI shows
// after a form submission.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}

// Client calls the scheduler API. GET responses are cached in the injected
// QueryCache; every mutation invalidates the collections it touches so the
// next view refetches.
type Client struct {
	BaseURL  string
	Token    string
	HTTP     *http.Client
	Cache    QueryCache
	Notifier Notifier
}

func New(baseURL, token string, cache QueryCache, notifier Notifier) *Client {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Client{
		BaseURL:  baseURL,
		Token:    token,
		HTTP:     &http.Client{Timeout: 10 * time.Second},
		Cache:    cache,
		Notifier: notifier,
	}
}

// ---------------- ORDERS ----------------

func (c *Client) ListOrders(ctx context.Context, sortBy, search string) ([]models.OrderWithStaff, error) {
	query := url.Values{}
	if sortBy != "" {
		query.Set("sortBy", sortBy)
	}
	if search != "" {
		query.Set("search", search)
	}
	path := "/api/orders"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var list []models.OrderWithStaff
	if err := c.getJSON(ctx, path, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*models.OrderWithStaff, error) {
	var order models.OrderWithStaff
	if err := c.getJSON(ctx, "/api/orders/"+id, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) CreateOrder(ctx context.Context, req models.OrderRequest) (*models.OrderWithStaff, error) {
	var created models.OrderWithStaff
	if err := c.mutate(ctx, http.MethodPost, "/api/orders", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateOrder(ctx context.Context, id string, req models.OrderRequest) (*models.OrderWithStaff, error) {
	var updated models.OrderWithStaff
	if err := c.mutate(ctx, http.MethodPut, "/api/orders/"+id, req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	return c.mutate(ctx, http.MethodDelete, "/api/orders/"+id, nil, nil)
}

// ---------------- STAFF ----------------

func (c *Client) ListStaff(ctx context.Context, search string) ([]models.StaffWithOrders, error) {
	path := "/api/staff"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}
	var list []models.StaffWithOrders
	if err := c.getJSON(ctx, path, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) GetStaff(ctx context.Context, id string) (*models.StaffWithOrders, error) {
	var member models.StaffWithOrders
	if err := c.getJSON(ctx, "/api/staff/"+id, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (c *Client) CreateStaff(ctx context.Context, req models.StaffRequest) (*models.StaffWithOrders, error) {
	var created models.StaffWithOrders
	if err := c.mutate(ctx, http.MethodPost, "/api/staff", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) DeleteStaff(ctx context.Context, id string) error {
	return c.mutate(ctx, http.MethodDelete, "/api/staff/"+id, nil, nil)
}

// ---------------- CALENDAR & STATISTICS ----------------

func (c *Client) OrdersByMonth(ctx context.Context, year, month int) ([]models.OrderWithStaff, error) {
	var list []models.OrderWithStaff
	path := fmt.Sprintf("/api/calendar/%d/%d", year, month)
	if err := c.getJSON(ctx, path, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) OrdersByDay(ctx context.Context, year, month, day int) ([]models.OrderWithStaff, error) {
	var list []models.OrderWithStaff
	path := fmt.Sprintf("/api/calendar/%d/%d/%d", year, month, day)
	if err := c.getJSON(ctx, path, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) Statistics(ctx context.Context) (*models.Statistics, error) {
	var result models.Statistics
	if err := c.getJSON(ctx, "/api/statistics", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ---------------- TRANSPORT ----------------

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	if cached, ok := c.Cache.Get(ctx, path); ok {
		return json.Unmarshal(cached, out)
	}

	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	c.Cache.Set(ctx, path, body)
	return json.Unmarshal(body, out)
}

// mutate runs a write request and, on success, invalidates every collection a
// mutation can affect: order lists, staff lists, calendar views, statistics.
func (c *Client) mutate(ctx context.Context, method, path string, in, out interface{}) error {
	var payload io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(encoded)
	}

	body, err := c.do(ctx, method, path, payload)
	if err != nil {
		return err
	}

	for _, prefix := range []string{"/api/orders", "/api/staff", "/api/calendar", "/api/statistics"} {
		c.Cache.Invalidate(ctx, prefix)
	}

	if out != nil && len(body) > 0 {
		return json.Unmarshal(body, out)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, payload)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, errors.New(serverMessage(body, resp.StatusCode))
	}
	return body, nil
}

// serverMessage extracts the error envelope's message, falling back to a
// generic one when the body is not the shared envelope.
func serverMessage(body []byte, status int) string {
	var envelope utils.APIError
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		return envelope.Error
	}
	return fmt.Sprintf("request failed with status %d", status)
}
