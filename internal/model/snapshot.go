package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrMalformedSnapshot возвращается, если снимок сервера нельзя разобрать.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// DrinkSnapshot описывает напиток в формате сервера.
type DrinkSnapshot struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Photo       string          `json:"photo"`
}

// OrderItemSnapshot описывает позицию заказа в формате сервера. Сервер
// передаёт только итог по позиции, без цены за единицу.
type OrderItemSnapshot struct {
	ID       int64           `json:"id"`
	Drink    string          `json:"drink"`
	Total    decimal.Decimal `json:"total"`
	Quantity int             `json:"quantity"`
}

// OrderSnapshot описывает заказ в формате сервера.
type OrderSnapshot struct {
	ID      int64               `json:"id"`
	Items   []OrderItemSnapshot `json:"order_items"`
	Total   decimal.Decimal     `json:"total"`
	Patron  string              `json:"patron"`
	Settled bool                `json:"settled"`
	Created string              `json:"created"`
}

// PatronSnapshot описывает посетителя в формате сервера.
type PatronSnapshot struct {
	ID      int64           `json:"id"`
	Name    string          `json:"name"`
	Orders  []OrderSnapshot `json:"orders"`
	Balance decimal.Decimal `json:"balance"`
	Photo   string          `json:"photo,omitempty"`
}

// ParseDrink переводит снимок напитка в доменную сущность.
func ParseDrink(s DrinkSnapshot) (Drink, error) {
	if s.Price.IsNegative() {
		return Drink{}, fmt.Errorf("%w: drink %q has negative price", ErrMalformedSnapshot, s.Name)
	}
	return Drink{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Price:       s.Price,
		Photo:       s.Photo,
	}, nil
}

// ParseOrder переводит снимок заказа в доменную сущность. Цена за единицу
// выводится один раз как итог позиции, делённый на количество. Итог заказа
// пересчитывается локально.
func ParseOrder(s OrderSnapshot) (*Order, error) {
	items := make([]OrderItem, 0, len(s.Items))
	for _, is := range s.Items {
		if is.Quantity <= 0 {
			return nil, fmt.Errorf("%w: order %d item %d has quantity %d",
				ErrMalformedSnapshot, s.ID, is.ID, is.Quantity)
		}
		items = append(items, OrderItem{
			ID:        is.ID,
			Drink:     is.Drink,
			UnitPrice: is.Total.Div(decimal.NewFromInt(int64(is.Quantity))),
			Quantity:  is.Quantity,
		})
	}

	created, err := ParseTimestamp(s.Created)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", s.ID, err)
	}

	o := &Order{
		ID:      s.ID,
		Items:   items,
		Patron:  s.Patron,
		Settled: s.Settled,
		Created: created,
	}
	o.Recompute()

	return o, nil
}

// ParsePatron переводит снимок посетителя вместе с заказами.
func ParsePatron(s PatronSnapshot) (*Patron, error) {
	orders := make([]*Order, 0, len(s.Orders))
	for _, snap := range s.Orders {
		o, err := ParseOrder(snap)
		if err != nil {
			return nil, fmt.Errorf("patron %q: %w", s.Name, err)
		}
		orders = append(orders, o)
	}

	return &Patron{
		ID:      s.ID,
		Name:    s.Name,
		Orders:  orders,
		Balance: s.Balance,
		Photo:   s.Photo,
	}, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp разбирает отметку времени ISO-8601. Пустая строка даёт нулевое время.
func ParseTimestamp(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: bad timestamp %q", ErrMalformedSnapshot, v)
}
