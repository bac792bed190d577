// Package tabapi предоставляет клиент REST API сервера барных счетов.
package tabapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmeshcher/bartab-pos/internal/model"
)

var (
	// ErrNotConfigured возвращается, если адрес сервера не задан.
	ErrNotConfigured = errors.New("tab api client not configured")
	// ErrUnavailable возвращается при сетевой ошибке, таймауте или ответе 5xx.
	ErrUnavailable = errors.New("tab api unavailable")
	// ErrRejected возвращается, если сервер отклонил запрос (ответ 4xx).
	ErrRejected = errors.New("tab api rejected request")
)

// Client инкапсулирует HTTP-взаимодействие с сервером барных счетов.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для сервера по указанному адресу. Адрес может
// содержать путь, например http://192.168.1.9/api.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	base := strings.TrimRight(baseURL, "/")
	if base != "" && !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	return &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ListPatrons возвращает всех посетителей вместе с их заказами.
func (c *Client) ListPatrons(ctx context.Context) ([]*model.Patron, error) {
	var snaps []model.PatronSnapshot
	if err := c.do(ctx, http.MethodGet, "/patrons", nil, &snaps); err != nil {
		return nil, err
	}

	patrons := make([]*model.Patron, 0, len(snaps))
	for _, s := range snaps {
		p, err := model.ParsePatron(s)
		if err != nil {
			return nil, err
		}
		patrons = append(patrons, p)
	}
	return patrons, nil
}

type createPatronRequest struct {
	Name string `json:"name"`
}

// CreatePatron регистрирует нового посетителя.
func (c *Client) CreatePatron(ctx context.Context, name string) (*model.Patron, error) {
	var snap model.PatronSnapshot
	if err := c.do(ctx, http.MethodPost, "/patrons", createPatronRequest{Name: name}, &snap); err != nil {
		return nil, err
	}
	return model.ParsePatron(snap)
}

// DeletePatron удаляет посетителя. Закрытые заказы удаляются сервером каскадно.
func (c *Client) DeletePatron(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/patrons/"+strconv.FormatInt(id, 10), nil, nil)
}

type createOrderRequest struct {
	Patron string `json:"patron"`
}

// CreateOrder открывает новый заказ для посетителя.
func (c *Client) CreateOrder(ctx context.Context, patronName string) (*model.Order, error) {
	var snap model.OrderSnapshot
	if err := c.do(ctx, http.MethodPost, "/orders", createOrderRequest{Patron: patronName}, &snap); err != nil {
		return nil, err
	}
	return model.ParseOrder(snap)
}

type commitRequest struct {
	Items []model.ItemRequest `json:"order_items"`
}

// CommitOrderItems отправляет строки корзины в заказ одним запросом и
// возвращает актуальный снимок заказа.
func (c *Client) CommitOrderItems(ctx context.Context, orderID int64, items []model.ItemRequest) (*model.Order, error) {
	var snap model.OrderSnapshot
	path := "/orders/" + strconv.FormatInt(orderID, 10)
	if err := c.do(ctx, http.MethodPatch, path, commitRequest{Items: items}, &snap); err != nil {
		return nil, err
	}
	return model.ParseOrder(snap)
}

type settleRequest struct {
	Settled bool `json:"settled"`
}

// SettleOrder помечает заказ оплаченным.
func (c *Client) SettleOrder(ctx context.Context, orderID int64) error {
	path := "/orders/" + strconv.FormatInt(orderID, 10)
	return c.do(ctx, http.MethodPatch, path, settleRequest{Settled: true}, nil)
}

// DeleteOrderItem удаляет позицию заказа.
func (c *Client) DeleteOrderItem(ctx context.Context, itemID int64) error {
	return c.do(ctx, http.MethodDelete, "/order_items/"+strconv.FormatInt(itemID, 10), nil, nil)
}

// ListDrinks возвращает меню. Фильтрация по наличию выполняется сервером.
func (c *Client) ListDrinks(ctx context.Context) ([]model.Drink, error) {
	var snaps []model.DrinkSnapshot
	if err := c.do(ctx, http.MethodGet, "/drinks", nil, &snaps); err != nil {
		return nil, err
	}

	drinks := make([]model.Drink, 0, len(snaps))
	for _, s := range snaps {
		d, err := model.ParseDrink(s)
		if err != nil {
			return nil, err
		}
		drinks = append(drinks, d)
	}
	return drinks, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c == nil || c.baseURL == "" {
		return ErrNotConfigured
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %s %s: status %d", ErrUnavailable, method, path, resp.StatusCode)
	case resp.StatusCode >= http.StatusBadRequest:
		return fmt.Errorf("%w: %s %s: status %d", ErrRejected, method, path, resp.StatusCode)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %w", ErrUnavailable, method, path, err)
	}

	return nil
}
