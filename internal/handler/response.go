package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/bartab-pos/internal/layout"
	"github.com/mmeshcher/bartab-pos/internal/ledger"
	"github.com/mmeshcher/bartab-pos/internal/model"
	"github.com/mmeshcher/bartab-pos/internal/service"
)

// Денежные суммы отдаются строкой с двумя знаками после точки.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type sessionResponse struct {
	Session string `json:"session"`
}

type patronResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type tileResponse struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Initials    string      `json:"initials"`
	Color       string      `json:"color"`
	Cell        layout.Cell `json:"cell"`
	Outstanding string      `json:"outstanding"`
}

type rosterResponse struct {
	Tiles []tileResponse `json:"tiles"`
	Add   layout.Cell    `json:"add"`
}

func newRosterResponse(r service.Roster) rosterResponse {
	tiles := make([]tileResponse, 0, len(r.Tiles))
	for _, t := range r.Tiles {
		tiles = append(tiles, tileResponse{
			ID:          t.ID,
			Name:        t.Name,
			Initials:    t.Initials,
			Color:       t.Color,
			Cell:        t.Cell,
			Outstanding: money(t.Outstanding),
		})
	}
	return rosterResponse{Tiles: tiles, Add: r.Next}
}

type drinkResponse struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Price       string      `json:"price"`
	Photo       string      `json:"photo,omitempty"`
	Cell        layout.Cell `json:"cell"`
}

type cartLineResponse struct {
	Drink     string `json:"drink"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Total     string `json:"total"`
	// CanDecrease ложно, когда количество уже минимально.
	CanDecrease bool `json:"can_decrease"`
}

func newCartLineResponse(l ledger.CartLine) cartLineResponse {
	return cartLineResponse{
		Drink:       l.Drink,
		UnitPrice:   money(l.UnitPrice),
		Quantity:    l.Quantity,
		Total:       money(l.Total()),
		CanDecrease: l.Quantity > 1,
	}
}

type cartResponse struct {
	Lines   []cartLineResponse `json:"lines"`
	Total   string             `json:"total"`
	Visible bool               `json:"visible"`
}

func newCartResponse(v service.CartView) cartResponse {
	lines := make([]cartLineResponse, 0, len(v.Lines))
	for _, l := range v.Lines {
		lines = append(lines, newCartLineResponse(l))
	}
	return cartResponse{Lines: lines, Total: money(v.Total), Visible: v.Visible}
}

type orderItemResponse struct {
	ID        int64  `json:"id"`
	Drink     string `json:"drink"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Total     string `json:"total"`
}

type orderResponse struct {
	ID      int64               `json:"id"`
	Patron  string              `json:"patron"`
	Items   []orderItemResponse `json:"items"`
	Total   string              `json:"total"`
	Settled bool                `json:"settled"`
	Created string              `json:"created,omitempty"`
}

func newOrderResponse(o *model.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemResponse{
			ID:        it.ID,
			Drink:     it.Drink,
			UnitPrice: money(it.UnitPrice),
			Quantity:  it.Quantity,
			Total:     money(it.Total()),
		})
	}

	resp := orderResponse{
		ID:      o.ID,
		Patron:  o.Patron,
		Items:   items,
		Total:   money(o.Total),
		Settled: o.Settled,
	}
	if !o.Created.IsZero() {
		resp.Created = o.Created.Format(time.RFC3339)
	}
	return resp
}

type receiptResponse struct {
	OrderID   int64               `json:"order_id"`
	Patron    string              `json:"patron"`
	Total     string              `json:"total"`
	Items     []model.ReceiptLine `json:"items"`
	SettledAt string              `json:"settled_at"`
}
