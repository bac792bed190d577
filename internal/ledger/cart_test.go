package ledger

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/bartab-pos/internal/model"
)

func drink(name, price string) model.Drink {
	return model.Drink{Name: name, Price: decimal.RequireFromString(price)}
}

func TestCart_AddSameDrinkMerges(t *testing.T) {
	c := NewCart(nil)
	lager := drink("lager", "4.25")

	c.Add(lager)
	line := c.Add(lager)

	require.Len(t, c.Lines(), 1)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, "8.50", line.Total().StringFixed(2))
	assert.Equal(t, "8.50", c.Total().StringFixed(2))
}

func TestCart_Signals(t *testing.T) {
	var got []Signal
	c := NewCart(func(s Signal) { got = append(got, s) })

	c.Add(drink("lager", "4"))
	c.Add(drink("stout", "5"))
	require.NoError(t, c.Remove("lager"))
	require.NoError(t, c.Remove("stout"))

	assert.Equal(t, []Signal{SignalActive, SignalEmpty}, got)

	c.Add(drink("cider", "3"))
	c.Clear()
	assert.Equal(t, []Signal{SignalActive, SignalEmpty, SignalActive, SignalEmpty}, got)
	assert.True(t, c.Empty())
	assert.True(t, c.Total().IsZero())
}

func TestCart_QuantityFloor(t *testing.T) {
	c := NewCart(nil)
	c.Add(drink("lager", "4"))

	line, err := c.Decrease("lager")
	if !errors.Is(err, ErrQuantityFloor) {
		t.Fatalf("expected ErrQuantityFloor, got %v", err)
	}
	if line.Quantity != 1 {
		t.Fatalf("quantity = %d, want 1", line.Quantity)
	}

	_, err = c.Increase("lager")
	require.NoError(t, err)
	line, err = c.Decrease("lager")
	require.NoError(t, err)
	assert.Equal(t, 1, line.Quantity)
}

func TestCart_UnknownLine(t *testing.T) {
	c := NewCart(nil)

	if _, err := c.Increase("ghost"); !errors.Is(err, ErrLineNotFound) {
		t.Fatalf("Increase: expected ErrLineNotFound, got %v", err)
	}
	if _, err := c.Decrease("ghost"); !errors.Is(err, ErrLineNotFound) {
		t.Fatalf("Decrease: expected ErrLineNotFound, got %v", err)
	}
	if err := c.Remove("ghost"); !errors.Is(err, ErrLineNotFound) {
		t.Fatalf("Remove: expected ErrLineNotFound, got %v", err)
	}
}

func TestCart_PriceCapturedAtAdd(t *testing.T) {
	c := NewCart(nil)
	d := drink("lager", "4")
	c.Add(d)

	d.Price = decimal.NewFromInt(10)
	line := c.Add(d)

	assert.Equal(t, "8.00", line.Total().StringFixed(2))
}

func TestCart_TotalMatchesIndependentSum(t *testing.T) {
	menu := []model.Drink{
		drink("lager", "4.25"),
		drink("stout", "5.10"),
		drink("cider", "3.99"),
		drink("shot", "2.00"),
	}

	rnd := rand.New(rand.NewSource(42))
	c := NewCart(nil)

	for i := 0; i < 2000; i++ {
		d := menu[rnd.Intn(len(menu))]
		switch rnd.Intn(4) {
		case 0:
			c.Add(d)
		case 1:
			_, _ = c.Increase(d.Name)
		case 2:
			_, _ = c.Decrease(d.Name)
		case 3:
			_ = c.Remove(d.Name)
		}

		want := decimal.Zero
		for _, l := range c.Lines() {
			if l.Quantity < 1 {
				t.Fatalf("step %d: line %s has quantity %d", i, l.Drink, l.Quantity)
			}
			want = want.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
		if !c.Total().Equal(want) {
			t.Fatalf("step %d: cart total %s, independent sum %s", i, c.Total(), want)
		}
	}
}

func TestCart_Requests(t *testing.T) {
	c := NewCart(nil)
	c.Add(drink("lager", "4"))
	c.Add(drink("stout", "5"))
	c.Add(drink("lager", "4"))

	assert.Equal(t, []model.ItemRequest{
		{Drink: "lager", Quantity: 2},
		{Drink: "stout", Quantity: 1},
	}, c.Requests())
}
