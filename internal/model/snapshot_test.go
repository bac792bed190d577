package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrder_DerivesUnitPrice(t *testing.T) {
	raw := `{
		"id": 7,
		"order_items": [
			{"id": 1, "drink": "lager", "total": 9.00, "quantity": 3},
			{"id": 2, "drink": "stout", "total": "4.50", "quantity": 1}
		],
		"total": 999,
		"patron": "Ann Lee",
		"settled": false,
		"created": "2024-03-01T21:15:00.123456"
	}`

	var snap OrderSnapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &snap))

	o, err := ParseOrder(snap)
	require.NoError(t, err)

	require.Len(t, o.Items, 2)
	assert.True(t, o.Items[0].UnitPrice.Equal(decimal.NewFromInt(3)), "unit price = %s", o.Items[0].UnitPrice)
	assert.True(t, o.Total.Equal(decimal.RequireFromString("13.50")), "total = %s", o.Total)
	assert.Equal(t, "Ann Lee", o.Patron)
	assert.Equal(t, 2024, o.Created.Year())
	assert.Equal(t, time.March, o.Created.Month())

	require.True(t, o.SetQuantity(1, 4))
	item, ok := o.Item(1)
	require.True(t, ok)
	assert.Equal(t, "12.00", item.Total().StringFixed(2))
	assert.Equal(t, "16.50", o.Total.StringFixed(2))
}

func TestParseOrder_ZeroQuantity(t *testing.T) {
	snap := OrderSnapshot{
		ID: 1,
		Items: []OrderItemSnapshot{
			{ID: 1, Drink: "lager", Total: decimal.NewFromInt(5), Quantity: 0},
		},
	}

	_, err := ParseOrder(snap)
	if !errors.Is(err, ErrMalformedSnapshot) {
		t.Fatalf("expected ErrMalformedSnapshot, got %v", err)
	}
}

func TestParseOrder_RepeatingFractionRoundsToCents(t *testing.T) {
	snap := OrderSnapshot{
		ID: 1,
		Items: []OrderItemSnapshot{
			{ID: 1, Drink: "shot", Total: decimal.NewFromInt(10), Quantity: 3},
		},
	}

	o, err := ParseOrder(snap)
	require.NoError(t, err)
	assert.Equal(t, "10.00", o.Total.StringFixed(2))
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "rfc3339 with zone", value: "2024-03-01T21:15:00Z"},
		{name: "offset and fraction", value: "2024-03-01T21:15:00.5+03:00"},
		{name: "naive with micros", value: "2024-03-01T21:15:00.123456"},
		{name: "space separator", value: "2024-03-01 21:15:00"},
		{name: "empty", value: ""},
		{name: "garbage", value: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTimestamp(tt.value)
			if tt.wantErr && !errors.Is(err, ErrMalformedSnapshot) {
				t.Fatalf("ParseTimestamp(%q) error = %v, want ErrMalformedSnapshot", tt.value, err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("ParseTimestamp(%q) unexpected error: %v", tt.value, err)
			}
		})
	}
}

func TestPatron_ActiveAndSettledOrders(t *testing.T) {
	p := &Patron{
		Name: "Ann Lee",
		Orders: []*Order{
			{ID: 1, Settled: true, Total: decimal.NewFromInt(4)},
			{ID: 2, Settled: false, Total: decimal.NewFromInt(6)},
			{ID: 3, Settled: true, Total: decimal.NewFromInt(1)},
		},
	}

	active := p.ActiveOrder()
	require.NotNil(t, active)
	assert.Equal(t, int64(2), active.ID)
	assert.Len(t, p.SettledOrders(), 2)
	assert.True(t, p.Outstanding().Equal(decimal.NewFromInt(6)))

	active.Settled = true
	assert.Nil(t, p.ActiveOrder())
}

func TestParseDrink_NegativePrice(t *testing.T) {
	_, err := ParseDrink(DrinkSnapshot{Name: "refund", Price: decimal.NewFromInt(-1)})
	if !errors.Is(err, ErrMalformedSnapshot) {
		t.Fatalf("expected ErrMalformedSnapshot, got %v", err)
	}
}
