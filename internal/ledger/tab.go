package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/mmeshcher/bartab-pos/internal/model"
)

// Backend описывает запросы к серверу заказов, которые использует ledger.
type Backend interface {
	CreateOrder(ctx context.Context, patronName string) (*model.Order, error)
	CommitOrderItems(ctx context.Context, orderID int64, items []model.ItemRequest) (*model.Order, error)
	SettleOrder(ctx context.Context, orderID int64) error
	DeleteOrderItem(ctx context.Context, itemID int64) error
}

// Ledger применяет операции над счётом посетителя. Сервер считается
// источником истины: его ответ заменяет локальный заказ целиком. При ошибке
// запроса локальное состояние не меняется.
//
// Ledger сам отклоняет второй одновременный запрос по тому же посетителю
// с ErrPatronBusy. Хост, который уже сериализует вызовы (как service),
// этой ошибки не увидит.
type Ledger struct {
	backend Backend

	mu   sync.Mutex
	busy map[string]struct{}
}

// New создаёт Ledger поверх указанного сервера заказов.
func New(backend Backend) *Ledger {
	return &Ledger{
		backend: backend,
		busy:    make(map[string]struct{}),
	}
}

// acquire помечает посетителя занятым. Одновременно по одному посетителю
// выполняется не больше одного запроса к заказу.
func (l *Ledger) acquire(p *model.Patron) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.busy[p.Name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrPatronBusy, p.Name)
	}
	l.busy[p.Name] = struct{}{}

	return func() {
		l.mu.Lock()
		delete(l.busy, p.Name)
		l.mu.Unlock()
	}, nil
}

// EnsureActiveOrder возвращает открытый заказ посетителя, создавая его на
// сервере, если открытого заказа нет.
func (l *Ledger) EnsureActiveOrder(ctx context.Context, p *model.Patron) (*model.Order, error) {
	release, err := l.acquire(p)
	if err != nil {
		return nil, err
	}
	defer release()

	return l.ensureActive(ctx, p)
}

func (l *Ledger) ensureActive(ctx context.Context, p *model.Patron) (*model.Order, error) {
	if o := p.ActiveOrder(); o != nil {
		return o, nil
	}

	o, err := l.backend.CreateOrder(ctx, p.Name)
	if err != nil {
		return nil, fmt.Errorf("create order for %s: %w", p.Name, err)
	}
	if o.Settled {
		return nil, fmt.Errorf("create order for %s: %w", p.Name, ErrOrderSettled)
	}

	p.Orders = append(p.Orders, o)
	return o, nil
}

// CommitCart отправляет все строки корзины одним запросом в открытый заказ
// посетителя и заменяет заказ снимком из ответа. После успеха корзина очищается.
func (l *Ledger) CommitCart(ctx context.Context, p *model.Patron, cart *Cart) (*model.Order, error) {
	if cart.Empty() {
		return nil, ErrEmptyCart
	}

	release, err := l.acquire(p)
	if err != nil {
		return nil, err
	}
	defer release()

	active, err := l.ensureActive(ctx, p)
	if err != nil {
		return nil, err
	}

	snapshot, err := l.backend.CommitOrderItems(ctx, active.ID, cart.Requests())
	if err != nil {
		return nil, fmt.Errorf("commit order %d: %w", active.ID, err)
	}

	if snapshot.ID != active.ID || !p.ReplaceOrder(snapshot) {
		return nil, fmt.Errorf("%w: commit to order %d returned order %d",
			model.ErrMalformedSnapshot, active.ID, snapshot.ID)
	}

	cart.Clear()
	return snapshot, nil
}

// RemoveFromTab удаляет позицию из открытого заказа посетителя и пересчитывает итог.
func (l *Ledger) RemoveFromTab(ctx context.Context, p *model.Patron, itemID int64) (*model.Order, error) {
	release, err := l.acquire(p)
	if err != nil {
		return nil, err
	}
	defer release()

	o := p.ActiveOrder()
	if o == nil {
		return nil, ErrNoActiveOrder
	}
	if _, ok := o.Item(itemID); !ok {
		return nil, fmt.Errorf("%w: %d", ErrItemNotFound, itemID)
	}

	if err := l.backend.DeleteOrderItem(ctx, itemID); err != nil {
		return nil, fmt.Errorf("delete order item %d: %w", itemID, err)
	}

	o.RemoveItem(itemID)
	return o, nil
}

// SettleOrder закрывает заказ. Переход в закрытое состояние необратим.
func (l *Ledger) SettleOrder(ctx context.Context, p *model.Patron, o *model.Order) error {
	release, err := l.acquire(p)
	if err != nil {
		return err
	}
	defer release()

	return l.settle(ctx, o)
}

// Settle закрывает открытый заказ посетителя и возвращает его.
func (l *Ledger) Settle(ctx context.Context, p *model.Patron) (*model.Order, error) {
	release, err := l.acquire(p)
	if err != nil {
		return nil, err
	}
	defer release()

	o := p.ActiveOrder()
	if o == nil {
		return nil, ErrNoActiveOrder
	}
	if err := l.settle(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (l *Ledger) settle(ctx context.Context, o *model.Order) error {
	if o == nil {
		return ErrNoActiveOrder
	}
	if o.Settled {
		return fmt.Errorf("%w: %d", ErrOrderSettled, o.ID)
	}

	if err := l.backend.SettleOrder(ctx, o.ID); err != nil {
		return fmt.Errorf("settle order %d: %w", o.ID, err)
	}

	o.Settled = true
	return nil
}
