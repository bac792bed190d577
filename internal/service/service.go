// Package service реализует прикладную логику кассового клиента: список
// посетителей, меню, терминальные сессии с корзинами и счёт.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/bartab-pos/internal/layout"
	"github.com/mmeshcher/bartab-pos/internal/ledger"
	"github.com/mmeshcher/bartab-pos/internal/model"
	"github.com/mmeshcher/bartab-pos/internal/repository"
	"github.com/mmeshcher/bartab-pos/internal/validation"
)

var (
	// ErrDuplicatePatron возвращается, если посетитель с таким именем уже есть.
	ErrDuplicatePatron = errors.New("patron name already exists")
	// ErrPatronNotFound возвращается, если посетитель не найден.
	ErrPatronNotFound = errors.New("patron not found")
	// ErrDrinkNotFound возвращается, если напитка нет в меню.
	ErrDrinkNotFound = errors.New("drink not found")
	// ErrNoPatronSelected возвращается, если в сессии не выбран посетитель.
	ErrNoPatronSelected = errors.New("no patron selected")
	// ErrOpenTab возвращается при удалении посетителя с непустым открытым счётом.
	ErrOpenTab = errors.New("patron has an open tab")
	// ErrSessionNotFound возвращается для неизвестной терминальной сессии.
	ErrSessionNotFound = errors.New("session not found")
	// ErrNotConfirmed возвращается, если удаление посетителя не подтверждено.
	ErrNotConfirmed = errors.New("removal not confirmed")
)

// Backend описывает сервер барных счетов.
type Backend interface {
	ledger.Backend
	ListPatrons(ctx context.Context) ([]*model.Patron, error)
	CreatePatron(ctx context.Context, name string) (*model.Patron, error)
	DeletePatron(ctx context.Context, id int64) error
	ListDrinks(ctx context.Context) ([]model.Drink, error)
}

// Journal описывает журнал закрытых счетов.
type Journal interface {
	Close() error
	SaveReceipt(ctx context.Context, rc model.Receipt) error
	ReceiptsByPatron(ctx context.Context, patron string) ([]model.Receipt, error)
}

// Session хранит состояние одного терминала: выбранного посетителя и корзину.
type Session struct {
	ID          uuid.UUID
	PatronID    int64
	Cart        *ledger.Cart
	CartVisible bool
}

// Tile описывает плитку посетителя на экране выбора.
type Tile struct {
	ID          int64
	Name        string
	Initials    string
	Color       string
	Cell        layout.Cell
	Outstanding decimal.Decimal
}

// Roster содержит плитки посетителей и клетку для кнопки добавления.
type Roster struct {
	Tiles []Tile
	Next  layout.Cell
}

// MenuEntry описывает напиток и его клетку в сетке меню.
type MenuEntry struct {
	Drink model.Drink
	Cell  layout.Cell
}

// CartView описывает содержимое корзины сессии.
type CartView struct {
	Lines   []ledger.CartLine
	Total   decimal.Decimal
	Visible bool
}

// Service содержит прикладную логику кассового клиента. Все изменения
// состояния выполняются последовательно под одной блокировкой, каждая
// операция доходит до конца до начала следующей.
type Service struct {
	backend     Backend
	ledger      *ledger.Ledger
	journal     Journal
	logger      *zap.Logger
	menuColumns int
	now         func() time.Time

	mu       sync.Mutex
	patrons  []*model.Patron
	menu     []model.Drink
	sessions map[uuid.UUID]*Session
}

// NewService создаёт сервис. journal может быть nil, тогда чеки не сохраняются.
func NewService(backend Backend, journal Journal, logger *zap.Logger, menuColumns int) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		backend:     backend,
		ledger:      ledger.New(backend),
		journal:     journal,
		logger:      logger,
		menuColumns: menuColumns,
		now:         time.Now,
		sessions:    make(map[uuid.UUID]*Session),
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.journal != nil {
		return s.journal.Close()
	}
	return nil
}

// Load загружает посетителей и меню. При недоступности сервера пишет
// предупреждение и оставляет прежние данные.
func (s *Service) Load(ctx context.Context) {
	patrons, err := s.backend.ListPatrons(ctx)
	if err != nil {
		s.logger.Warn("load patrons failed, keeping current roster", zap.Error(err))
	}

	drinks, derr := s.backend.ListDrinks(ctx)
	if derr != nil {
		s.logger.Warn("load drinks failed, keeping current menu", zap.Error(derr))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil {
		s.patrons = patrons
	}
	if derr == nil {
		s.menu = s.uniqueDrinks(drinks)
	}

	s.logger.Info("catalog loaded", zap.Int("patrons", len(s.patrons)), zap.Int("drinks", len(s.menu)))
}

func (s *Service) uniqueDrinks(drinks []model.Drink) []model.Drink {
	seen := make(map[string]struct{}, len(drinks))
	res := make([]model.Drink, 0, len(drinks))
	for _, d := range drinks {
		if _, ok := seen[d.Name]; ok {
			s.logger.Warn("duplicate drink name in menu, keeping first", zap.String("drink", d.Name))
			continue
		}
		seen[d.Name] = struct{}{}
		res = append(res, d)
	}
	return res
}

// Roster возвращает плитки посетителей, разложенные по спирали в порядке добавления.
func (s *Service) Roster() Roster {
	s.mu.Lock()
	defer s.mu.Unlock()

	cells := layout.Spiral(len(s.patrons) + 1)
	tiles := make([]Tile, 0, len(s.patrons))
	for i, p := range s.patrons {
		tiles = append(tiles, Tile{
			ID:          p.ID,
			Name:        p.Name,
			Initials:    layout.Initials(p.Name),
			Color:       layout.Color(p.Name),
			Cell:        cells[i],
			Outstanding: p.Outstanding(),
		})
	}

	return Roster{Tiles: tiles, Next: cells[len(s.patrons)]}
}

// Menu возвращает напитки с клетками сетки меню.
func (s *Service) Menu() []MenuEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]MenuEntry, 0, len(s.menu))
	for i, d := range s.menu {
		res = append(res, MenuEntry{Drink: d, Cell: layout.MenuCell(i, s.menuColumns)})
	}
	return res
}

// AddPatron регистрирует посетителя. Совпадение имени с учётом регистра
// отклоняется до обращения к серверу.
func (s *Service) AddPatron(ctx context.Context, name string) (*model.Patron, error) {
	name, err := validation.NormalizePatronName(name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.patrons {
		if p.Name == name {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePatron, name)
		}
	}

	p, err := s.backend.CreatePatron(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("create patron: %w", err)
	}

	s.patrons = append(s.patrons, p)
	s.logger.Info("patron added", zap.Int64("patronID", p.ID), zap.String("name", p.Name))
	return p, nil
}

// RemovePatron удаляет посетителя после явного подтверждения. Посетителя с
// непустым открытым счётом удалить нельзя; закрытые заказы удаляет сервер.
// Сессии, где он был выбран, сбрасываются.
func (s *Service) RemovePatron(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.patronIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %d", ErrPatronNotFound, id)
	}
	p := s.patrons[idx]

	if o := p.ActiveOrder(); o != nil && len(o.Items) > 0 {
		return fmt.Errorf("%w: %s", ErrOpenTab, p.Name)
	}

	if err := s.backend.DeletePatron(ctx, id); err != nil {
		return fmt.Errorf("delete patron: %w", err)
	}

	s.patrons = append(s.patrons[:idx], s.patrons[idx+1:]...)
	for _, sess := range s.sessions {
		if sess.PatronID == id {
			sess.PatronID = 0
			sess.Cart.Clear()
		}
	}

	s.logger.Info("patron removed", zap.Int64("patronID", id), zap.String("name", p.Name))
	return nil
}

// Receipts возвращает чеки посетителя из журнала.
func (s *Service) Receipts(ctx context.Context, patronID int64) ([]model.Receipt, error) {
	s.mu.Lock()
	p := s.patronByID(patronID)
	s.mu.Unlock()

	if p == nil {
		return nil, fmt.Errorf("%w: %d", ErrPatronNotFound, patronID)
	}
	if s.journal == nil {
		return nil, nil
	}
	return s.journal.ReceiptsByPatron(ctx, p.Name)
}

func (s *Service) patronIndex(id int64) int {
	for i, p := range s.patrons {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) patronByID(id int64) *model.Patron {
	if i := s.patronIndex(id); i >= 0 {
		return s.patrons[i]
	}
	return nil
}

func (s *Service) drinkByName(name string) (model.Drink, bool) {
	for _, d := range s.menu {
		if d.Name == name {
			return d, true
		}
	}
	return model.Drink{}, false
}

func (s *Service) recordReceipt(ctx context.Context, o *model.Order) {
	if s.journal == nil {
		return
	}

	err := s.journal.SaveReceipt(ctx, model.NewReceipt(o, s.now()))
	if err != nil && !errors.Is(err, repository.ErrReceiptExists) {
		s.logger.Error("save receipt error", zap.Error(err), zap.Int64("orderID", o.ID))
	}
}
