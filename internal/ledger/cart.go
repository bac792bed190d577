// Package ledger ведёт корзину и счёт посетителя и сверяет их с сервером.
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/bartab-pos/internal/model"
)

// Signal сообщает хосту об изменении видимости корзины.
type Signal int

const (
	// SignalActive отправляется, когда корзина становится непустой.
	SignalActive Signal = iota + 1
	// SignalEmpty отправляется, когда корзина опустела.
	SignalEmpty
)

// CartLine описывает один напиток в незафиксированной корзине.
type CartLine struct {
	Drink     string
	UnitPrice decimal.Decimal
	Quantity  int
}

// Total возвращает стоимость строки.
func (l CartLine) Total() decimal.Decimal {
	return model.LineTotal(l.UnitPrice, l.Quantity)
}

// Cart хранит незафиксированный выбор напитков. Строки уникальны по имени
// напитка и идут в порядке добавления.
type Cart struct {
	lines  []*CartLine
	total  decimal.Decimal
	notify func(Signal)
}

// NewCart создаёт пустую корзину. notify может быть nil.
func NewCart(notify func(Signal)) *Cart {
	return &Cart{
		total:  decimal.Zero,
		notify: notify,
	}
}

// Add добавляет напиток: увеличивает количество существующей строки на 1
// или создаёт новую строку по текущей цене напитка.
func (c *Cart) Add(d model.Drink) CartLine {
	if l := c.find(d.Name); l != nil {
		l.Quantity++
		c.recompute()
		return *l
	}

	wasEmpty := len(c.lines) == 0
	l := &CartLine{Drink: d.Name, UnitPrice: d.Price, Quantity: 1}
	c.lines = append(c.lines, l)
	c.recompute()

	if wasEmpty {
		c.signal(SignalActive)
	}
	return *l
}

// Increase увеличивает количество строки на 1.
func (c *Cart) Increase(drink string) (CartLine, error) {
	l := c.find(drink)
	if l == nil {
		return CartLine{}, fmt.Errorf("%w: %s", ErrLineNotFound, drink)
	}
	l.Quantity++
	c.recompute()
	return *l, nil
}

// Decrease уменьшает количество строки на 1. Минимальное количество равно 1,
// для удаления строки используется Remove.
func (c *Cart) Decrease(drink string) (CartLine, error) {
	l := c.find(drink)
	if l == nil {
		return CartLine{}, fmt.Errorf("%w: %s", ErrLineNotFound, drink)
	}
	if l.Quantity <= 1 {
		return *l, ErrQuantityFloor
	}
	l.Quantity--
	c.recompute()
	return *l, nil
}

// Remove удаляет строку целиком независимо от количества.
func (c *Cart) Remove(drink string) error {
	for i, l := range c.lines {
		if l.Drink == drink {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			c.recompute()
			if len(c.lines) == 0 {
				c.signal(SignalEmpty)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrLineNotFound, drink)
}

// Clear удаляет все строки и обнуляет итог.
func (c *Cart) Clear() {
	c.lines = nil
	c.total = decimal.Zero
	c.signal(SignalEmpty)
}

// Total возвращает итог корзины.
func (c *Cart) Total() decimal.Decimal {
	return c.total
}

// Empty сообщает, пуста ли корзина.
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Line возвращает строку по имени напитка.
func (c *Cart) Line(drink string) (CartLine, bool) {
	if l := c.find(drink); l != nil {
		return *l, true
	}
	return CartLine{}, false
}

// Lines возвращает копию строк корзины.
func (c *Cart) Lines() []CartLine {
	res := make([]CartLine, 0, len(c.lines))
	for _, l := range c.lines {
		res = append(res, *l)
	}
	return res
}

// Requests переводит строки в пары (напиток, количество) для пакетной фиксации.
func (c *Cart) Requests() []model.ItemRequest {
	res := make([]model.ItemRequest, 0, len(c.lines))
	for _, l := range c.lines {
		res = append(res, model.ItemRequest{Drink: l.Drink, Quantity: l.Quantity})
	}
	return res
}

func (c *Cart) find(drink string) *CartLine {
	for _, l := range c.lines {
		if l.Drink == drink {
			return l
		}
	}
	return nil
}

func (c *Cart) recompute() {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Total())
	}
	c.total = total
}

func (c *Cart) signal(s Signal) {
	if c.notify != nil {
		c.notify(s)
	}
}
