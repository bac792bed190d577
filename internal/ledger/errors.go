package ledger

import "errors"

var (
	// ErrEmptyCart возвращается при попытке зафиксировать пустую корзину.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrLineNotFound возвращается, если в корзине нет строки с таким напитком.
	ErrLineNotFound = errors.New("cart line not found")
	// ErrQuantityFloor возвращается при попытке уменьшить количество ниже единицы.
	ErrQuantityFloor = errors.New("quantity cannot drop below 1")
	// ErrNoActiveOrder возвращается, если у посетителя нет открытого заказа.
	ErrNoActiveOrder = errors.New("patron has no active order")
	// ErrOrderSettled возвращается при изменении уже закрытого заказа.
	ErrOrderSettled = errors.New("order already settled")
	// ErrItemNotFound возвращается, если в заказе нет позиции с таким идентификатором.
	ErrItemNotFound = errors.New("order item not found")
	// ErrPatronBusy возвращается, если по заказу посетителя уже выполняется запрос.
	ErrPatronBusy = errors.New("another order request for this patron is in flight")
)
