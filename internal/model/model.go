// Package model содержит доменные сущности барного кассового клиента.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Drink описывает позицию меню. Имя уникально в пределах загруженного меню.
type Drink struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Photo       string
}

// OrderItem описывает один напиток в зафиксированном заказе.
type OrderItem struct {
	ID        int64
	Drink     string
	UnitPrice decimal.Decimal
	Quantity  int
}

// Total возвращает стоимость позиции: цена за единицу, умноженная на количество.
func (i OrderItem) Total() decimal.Decimal {
	return LineTotal(i.UnitPrice, i.Quantity)
}

// Order описывает счёт (таб) посетителя.
type Order struct {
	ID      int64
	Items   []OrderItem
	Total   decimal.Decimal
	Patron  string
	Settled bool
	Created time.Time
}

// Recompute пересчитывает итог заказа по текущим позициям.
func (o *Order) Recompute() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Total())
	}
	o.Total = total
	return total
}

// Clone возвращает независимую копию заказа вместе со срезом позиций.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	c.Items = append([]OrderItem(nil), o.Items...)
	return &c
}

// Item возвращает позицию заказа по идентификатору.
func (o *Order) Item(id int64) (OrderItem, bool) {
	for _, it := range o.Items {
		if it.ID == id {
			return it, true
		}
	}
	return OrderItem{}, false
}

// RemoveItem удаляет позицию по идентификатору и пересчитывает итог.
func (o *Order) RemoveItem(id int64) bool {
	for i, it := range o.Items {
		if it.ID == id {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			o.Recompute()
			return true
		}
	}
	return false
}

// SetQuantity меняет количество позиции, сохраняя уже выведенную цену за единицу.
func (o *Order) SetQuantity(id int64, quantity int) bool {
	if quantity < 1 {
		return false
	}
	for i := range o.Items {
		if o.Items[i].ID == id {
			o.Items[i].Quantity = quantity
			o.Recompute()
			return true
		}
	}
	return false
}

// Patron описывает посетителя бара и его заказы.
type Patron struct {
	ID      int64
	Name    string
	Orders  []*Order
	Balance decimal.Decimal
	Photo   string
}

// ActiveOrder возвращает первый незакрытый заказ или nil.
func (p *Patron) ActiveOrder() *Order {
	for _, o := range p.Orders {
		if !o.Settled {
			return o
		}
	}
	return nil
}

// SettledOrders возвращает все закрытые заказы в порядке поступления.
func (p *Patron) SettledOrders() []*Order {
	var res []*Order
	for _, o := range p.Orders {
		if o.Settled {
			res = append(res, o)
		}
	}
	return res
}

// Outstanding возвращает сумму по всем незакрытым заказам.
func (p *Patron) Outstanding() decimal.Decimal {
	total := decimal.Zero
	for _, o := range p.Orders {
		if !o.Settled {
			total = total.Add(o.Total)
		}
	}
	return total
}

// ReplaceOrder заменяет заказ с тем же идентификатором на присланный снимок.
func (p *Patron) ReplaceOrder(order *Order) bool {
	for i, o := range p.Orders {
		if o.ID == order.ID {
			p.Orders[i] = order
			return true
		}
	}
	return false
}

// ItemRequest описывает элемент пакетной фиксации корзины.
type ItemRequest struct {
	Drink    string `json:"drink"`
	Quantity int    `json:"quantity"`
}

// Receipt описывает закрытый счёт, сохранённый в журнале.
type Receipt struct {
	OrderID   int64
	Patron    string
	Total     decimal.Decimal
	Items     []ReceiptLine
	SettledAt time.Time
}

// ReceiptLine описывает строку чека.
type ReceiptLine struct {
	Drink     string          `json:"drink"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
}

// NewReceipt строит чек из закрытого заказа.
func NewReceipt(o *Order, settledAt time.Time) Receipt {
	lines := make([]ReceiptLine, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, ReceiptLine{
			Drink:     it.Drink,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			Total:     it.Total(),
		})
	}
	return Receipt{
		OrderID:   o.ID,
		Patron:    o.Patron,
		Total:     o.Total,
		Items:     lines,
		SettledAt: settledAt,
	}
}

// LineTotal возвращает стоимость строки, округлённую до копеек.
func LineTotal(unit decimal.Decimal, quantity int) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}
