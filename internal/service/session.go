package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/bartab-pos/internal/ledger"
	"github.com/mmeshcher/bartab-pos/internal/model"
)

// NewSession открывает терминальную сессию с пустой корзиной.
func (s *Service) NewSession() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &Session{ID: uuid.New()}
	sess.Cart = ledger.NewCart(func(sig ledger.Signal) {
		sess.CartVisible = sig == ledger.SignalActive
	})
	s.sessions[sess.ID] = sess

	return sess.ID
}

func (s *Service) session(id uuid.UUID) (*Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

func (s *Service) selected(sess *Session) (*model.Patron, error) {
	if sess.PatronID == 0 {
		return nil, ErrNoPatronSelected
	}
	p := s.patronByID(sess.PatronID)
	if p == nil {
		return nil, fmt.Errorf("%w: %d", ErrPatronNotFound, sess.PatronID)
	}
	return p, nil
}

// SelectPatron делает посетителя текущим для сессии, очищает корзину и
// гарантирует наличие открытого заказа.
func (s *Service) SelectPatron(ctx context.Context, sid uuid.UUID, patronID int64) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sid)
	if err != nil {
		return nil, err
	}
	p := s.patronByID(patronID)
	if p == nil {
		return nil, fmt.Errorf("%w: %d", ErrPatronNotFound, patronID)
	}

	o, err := s.ledger.EnsureActiveOrder(ctx, p)
	if err != nil {
		return nil, err
	}

	sess.PatronID = p.ID
	sess.Cart.Clear()
	return o.Clone(), nil
}

// AddToCart добавляет напиток из меню в корзину сессии.
func (s *Service) AddToCart(sid uuid.UUID, drink string) (ledger.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sid)
	if err != nil {
		return ledger.CartLine{}, err
	}
	d, ok := s.drinkByName(drink)
	if !ok {
		return ledger.CartLine{}, fmt.Errorf("%w: %s", ErrDrinkNotFound, drink)
	}
	return sess.Cart.Add(d), nil
}

// IncreaseQuantity увеличивает количество строки корзины на 1.
func (s *Service) IncreaseQuantity(sid uuid.UUID, drink string) (ledger.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sid)
	if err != nil {
		return ledger.CartLine{}, err
	}
	return sess.Cart.Increase(drink)
}

// DecreaseQuantity уменьшает количество строки корзины на 1, но не ниже 1.
func (s *Service) DecreaseQuantity(sid uuid.UUID, drink string) (ledger.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sid)
	if err != nil {
		return ledger.CartLine{}, err
	}
	return sess.Cart.Decrease(drink)
}

// RemoveFromCart удаляет строку корзины.
func (s *Service) RemoveFromCart(sid uuid.UUID, drink string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sid)
	if err != nil {
		return err
	}
	return sess.Cart.Remove(drink)
}

// ClearCart очищает корзину сессии.
func (s *Service) ClearCart(sid uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sid)
	if err != nil {
		return err
	}
	sess.Cart.Clear()
	return nil
}

// Cart возвращает содержимое корзины сессии.
func (s *Service) Cart(sid uuid.UUID) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sid)
	if err != nil {
		return CartView{}, err
	}
	return CartView{
		Lines:   sess.Cart.Lines(),
		Total:   sess.Cart.Total(),
		Visible: sess.CartVisible,
	}, nil
}

// Tab возвращает копию открытого заказа выбранного посетителя или nil.
// Заказы, которые возвращает сервис, не связаны с его внутренним состоянием.
func (s *Service) Tab(sid uuid.UUID) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sid)
	if err != nil {
		return nil, err
	}
	p, err := s.selected(sess)
	if err != nil {
		return nil, err
	}
	return p.ActiveOrder().Clone(), nil
}

// CommitCart переносит корзину сессии в счёт выбранного посетителя.
func (s *Service) CommitCart(ctx context.Context, sid uuid.UUID) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sid)
	if err != nil {
		return nil, err
	}
	p, err := s.selected(sess)
	if err != nil {
		return nil, err
	}

	o, err := s.ledger.CommitCart(ctx, p, sess.Cart)
	if err != nil {
		return nil, err
	}

	s.logger.Info("cart committed", zap.String("patron", p.Name), zap.Int64("orderID", o.ID),
		zap.String("total", o.Total.StringFixed(2)))
	return o.Clone(), nil
}

// RemoveFromTab удаляет позицию из счёта выбранного посетителя.
func (s *Service) RemoveFromTab(ctx context.Context, sid uuid.UUID, itemID int64) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sid)
	if err != nil {
		return nil, err
	}
	p, err := s.selected(sess)
	if err != nil {
		return nil, err
	}
	o, err := s.ledger.RemoveFromTab(ctx, p, itemID)
	if err != nil {
		return nil, err
	}
	return o.Clone(), nil
}

// Settle закрывает счёт выбранного посетителя и записывает чек в журнал.
func (s *Service) Settle(ctx context.Context, sid uuid.UUID) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sid)
	if err != nil {
		return nil, err
	}
	p, err := s.selected(sess)
	if err != nil {
		return nil, err
	}

	o, err := s.ledger.Settle(ctx, p)
	if err != nil {
		return nil, err
	}

	s.recordReceipt(ctx, o)
	s.logger.Info("tab settled", zap.String("patron", p.Name), zap.Int64("orderID", o.ID),
		zap.String("total", o.Total.StringFixed(2)))
	return o.Clone(), nil
}
