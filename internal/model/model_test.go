package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder_CloneIsIndependent(t *testing.T) {
	o := &Order{
		ID:     3,
		Patron: "Ann Lee",
		Items: []OrderItem{
			{ID: 1, Drink: "lager", UnitPrice: decimal.NewFromInt(4), Quantity: 2},
			{ID: 2, Drink: "stout", UnitPrice: decimal.NewFromInt(5), Quantity: 1},
		},
	}
	o.Recompute()

	c := o.Clone()
	require.NotSame(t, o, c)
	assert.Equal(t, o.Items, c.Items)

	o.RemoveItem(1)
	o.Settled = true

	assert.Len(t, c.Items, 2)
	assert.Equal(t, "lager", c.Items[0].Drink)
	assert.Equal(t, "13.00", c.Total.StringFixed(2))
	assert.False(t, c.Settled)
}

func TestOrder_CloneNil(t *testing.T) {
	var o *Order
	assert.Nil(t, o.Clone())
}

func TestPatron_ReplaceOrder(t *testing.T) {
	settled := &Order{ID: 1, Settled: true}
	active := &Order{ID: 2}
	p := &Patron{Name: "Ann Lee", Orders: []*Order{settled, active}}

	snapshot := &Order{ID: 2, Items: []OrderItem{{ID: 7, Drink: "lager", UnitPrice: decimal.NewFromInt(4), Quantity: 1}}}
	require.True(t, p.ReplaceOrder(snapshot))
	assert.Same(t, settled, p.Orders[0])
	assert.Same(t, snapshot, p.ActiveOrder())

	assert.False(t, p.ReplaceOrder(&Order{ID: 9}))
	assert.Len(t, p.Orders, 2)
}
