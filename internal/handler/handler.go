// Package handler содержит HTTP-обработчики локального API кассового клиента.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/bartab-pos/internal/ledger"
	"github.com/mmeshcher/bartab-pos/internal/middleware"
	"github.com/mmeshcher/bartab-pos/internal/model"
	"github.com/mmeshcher/bartab-pos/internal/service"
	"github.com/mmeshcher/bartab-pos/internal/tabapi"
	"github.com/mmeshcher/bartab-pos/internal/validation"
)

// Service определяет контракт прикладной логики, используемой HTTP-обработчиками.
type Service interface {
	NewSession() uuid.UUID
	Roster() service.Roster
	Menu() []service.MenuEntry
	AddPatron(ctx context.Context, name string) (*model.Patron, error)
	RemovePatron(ctx context.Context, id int64, confirmed bool) error
	SelectPatron(ctx context.Context, sid uuid.UUID, patronID int64) (*model.Order, error)
	AddToCart(sid uuid.UUID, drink string) (ledger.CartLine, error)
	IncreaseQuantity(sid uuid.UUID, drink string) (ledger.CartLine, error)
	DecreaseQuantity(sid uuid.UUID, drink string) (ledger.CartLine, error)
	RemoveFromCart(sid uuid.UUID, drink string) error
	ClearCart(sid uuid.UUID) error
	Cart(sid uuid.UUID) (service.CartView, error)
	Tab(sid uuid.UUID) (*model.Order, error)
	CommitCart(ctx context.Context, sid uuid.UUID) (*model.Order, error)
	RemoveFromTab(ctx context.Context, sid uuid.UUID, itemID int64) (*model.Order, error)
	Settle(ctx context.Context, sid uuid.UUID) (*model.Order, error)
	Receipts(ctx context.Context, patronID int64) ([]model.Receipt, error)
}

// Handler реализует HTTP-обработчики локального API.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
	}
}

// writeError переводит ошибку прикладного слоя в HTTP-статус.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, validation.ErrEmptyName),
		errors.Is(err, validation.ErrNameTooLong),
		errors.Is(err, validation.ErrNameInvalid),
		errors.Is(err, service.ErrNotConfirmed):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrPatronNotFound),
		errors.Is(err, service.ErrDrinkNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, ledger.ErrLineNotFound),
		errors.Is(err, ledger.ErrItemNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrDuplicatePatron),
		errors.Is(err, service.ErrNoPatronSelected),
		errors.Is(err, service.ErrOpenTab),
		errors.Is(err, ledger.ErrEmptyCart),
		errors.Is(err, ledger.ErrQuantityFloor),
		errors.Is(err, ledger.ErrNoActiveOrder),
		errors.Is(err, ledger.ErrOrderSettled),
		errors.Is(err, ledger.ErrPatronBusy):
		status = http.StatusConflict
	case errors.Is(err, tabapi.ErrUnavailable),
		errors.Is(err, tabapi.ErrNotConfigured):
		status = http.StatusServiceUnavailable
	case errors.Is(err, tabapi.ErrRejected),
		errors.Is(err, model.ErrMalformedSnapshot):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err), zap.String("uri", r.RequestURI))
	}

	http.Error(w, http.StatusText(status), status)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", zap.Error(err))
	}
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	sid, ok := middleware.GetSessionIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
	}
	return sid, ok
}

// drinkParam возвращает имя напитка из пути. chi берёт параметры из RawPath,
// если он задан, и тогда значение ещё экранировано.
func drinkParam(r *http.Request) string {
	v := chi.URLParam(r, "drink")
	if r.URL.RawPath == "" {
		return v
	}
	if unescaped, err := url.PathUnescape(v); err == nil {
		return unescaped
	}
	return v
}

func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// CreateSession открывает терминальную сессию и выдаёт подписанный cookie.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sid := h.service.NewSession()
	h.authMiddleware.SetSessionCookie(w, sid)
	h.writeJSON(w, http.StatusCreated, sessionResponse{Session: sid.String()})
}

// GetPatrons возвращает плитки посетителей, разложенные по спирали.
func (h *Handler) GetPatrons(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, newRosterResponse(h.service.Roster()))
}

type addPatronRequest struct {
	Name string `json:"name"`
}

// AddPatron регистрирует посетителя и делает его текущим для сессии.
func (h *Handler) AddPatron(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req addPatronRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	p, err := h.service.AddPatron(r.Context(), req.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if _, err := h.service.SelectPatron(r.Context(), sid, p.ID); err != nil {
		h.logger.Warn("select new patron failed", zap.Error(err), zap.Int64("patronID", p.ID))
	}

	h.writeJSON(w, http.StatusCreated, patronResponse{ID: p.ID, Name: p.Name})
}

// RemovePatron удаляет посетителя. Требует параметр confirm=true.
func (h *Handler) RemovePatron(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	confirmed := r.URL.Query().Get("confirm") == "true"
	if err := h.service.RemovePatron(r.Context(), id, confirmed); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SelectPatron делает посетителя текущим для сессии и возвращает его счёт.
func (h *Handler) SelectPatron(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	o, err := h.service.SelectPatron(r.Context(), sid, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newOrderResponse(o))
}

// GetReceipts возвращает чеки посетителя.
func (h *Handler) GetReceipts(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	receipts, err := h.service.Receipts(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if len(receipts) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	resp := make([]receiptResponse, 0, len(receipts))
	for _, rc := range receipts {
		resp = append(resp, receiptResponse{
			OrderID:   rc.OrderID,
			Patron:    rc.Patron,
			Total:     money(rc.Total),
			Items:     rc.Items,
			SettledAt: rc.SettledAt.Format(time.RFC3339),
		})
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// GetDrinks возвращает меню.
func (h *Handler) GetDrinks(w http.ResponseWriter, r *http.Request) {
	menu := h.service.Menu()

	resp := make([]drinkResponse, 0, len(menu))
	for _, e := range menu {
		resp = append(resp, drinkResponse{
			ID:          e.Drink.ID,
			Name:        e.Drink.Name,
			Description: e.Drink.Description,
			Price:       money(e.Drink.Price),
			Photo:       e.Drink.Photo,
			Cell:        e.Cell,
		})
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// GetCart возвращает корзину сессии.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.service.Cart(sid)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newCartResponse(view))
}

type addToCartRequest struct {
	Drink string `json:"drink"`
}

// AddToCart добавляет напиток в корзину сессии.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Drink == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	line, err := h.service.AddToCart(sid, req.Drink)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newCartLineResponse(line))
}

// IncreaseQuantity увеличивает количество строки корзины.
func (h *Handler) IncreaseQuantity(w http.ResponseWriter, r *http.Request) {
	h.changeQuantity(w, r, h.service.IncreaseQuantity)
}

// DecreaseQuantity уменьшает количество строки корзины.
func (h *Handler) DecreaseQuantity(w http.ResponseWriter, r *http.Request) {
	h.changeQuantity(w, r, h.service.DecreaseQuantity)
}

func (h *Handler) changeQuantity(w http.ResponseWriter, r *http.Request, change func(uuid.UUID, string) (ledger.CartLine, error)) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	line, err := change(sid, drinkParam(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newCartLineResponse(line))
}

// RemoveFromCart удаляет строку корзины.
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := h.service.RemoveFromCart(sid, drinkParam(r)); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClearCart очищает корзину сессии.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := h.service.ClearCart(sid); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetTab возвращает открытый счёт выбранного посетителя.
func (h *Handler) GetTab(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	o, err := h.service.Tab(sid)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if o == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.writeJSON(w, http.StatusOK, newOrderResponse(o))
}

// CommitCart переносит корзину в счёт.
func (h *Handler) CommitCart(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	o, err := h.service.CommitCart(r.Context(), sid)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newOrderResponse(o))
}

// RemoveFromTab удаляет позицию из счёта.
func (h *Handler) RemoveFromTab(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	o, err := h.service.RemoveFromTab(r.Context(), sid, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newOrderResponse(o))
}

// Settle закрывает счёт выбранного посетителя.
func (h *Handler) Settle(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	o, err := h.service.Settle(r.Context(), sid)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newOrderResponse(o))
}
