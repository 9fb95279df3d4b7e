package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/glorimarket/cart_service/internal/adjust"
	"github.com/glorimarket/cart_service/internal/cartview"
	"github.com/glorimarket/cart_service/internal/logging"
	"github.com/glorimarket/cart_service/internal/models"
	"github.com/glorimarket/cart_service/internal/pricing"
	"github.com/glorimarket/cart_service/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// viewTTL bounds how long an owner's view outlives their last request.
const viewTTL = 30 * time.Minute

type viewEntry struct {
	view     *cartview.View
	lastSeen time.Time
}

type CartHTTP struct {
	Svc *service.CartService
	Log *slog.Logger

	mu    sync.Mutex
	views map[uuid.UUID]*viewEntry
}

func NewCartHTTP(svc *service.CartService, log *slog.Logger) *CartHTTP {
	return &CartHTTP{
		Svc:   svc,
		Log:   log,
		views: make(map[uuid.UUID]*viewEntry),
	}
}

type CartResponse struct {
	Items   []models.LineItem    `json:"items"`
	Count   int                  `json:"count"`
	Empty   bool                 `json:"empty"`
	Summary pricing.OrderSummary `json:"summary"`
}

func (h *CartHTTP) GetID(c echo.Context) (uuid.UUID, error) {
	v := c.Get("user_id")
	s, ok := v.(string)
	if !ok || s == "" {
		return uuid.Nil, errors.New("unauthorized")
	}

	userID, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errors.New("unauthorized")
	}

	return userID, nil
}

// viewFor returns the user's cart view, creating it on first contact. One
// view per owner keeps the read-after-write guarantee across requests;
// owners idle past viewTTL are evicted so the cache tracks the active
// user set instead of growing forever.
func (h *CartHTTP) viewFor(ownerID uuid.UUID) *cartview.View {
	h.mu.Lock()
	defer h.mu.Unlock()
	now := time.Now()
	e, ok := h.views[ownerID]
	if !ok {
		h.evictIdle(now)
		e = &viewEntry{view: cartview.New(h.Svc, slogNotifier{l: h.Log.With("owner_id", ownerID.String())}, ownerID)}
		h.views[ownerID] = e
	}
	e.lastSeen = now
	return e.view
}

func (h *CartHTTP) evictIdle(now time.Time) {
	for owner, e := range h.views {
		if now.Sub(e.lastSeen) > viewTTL {
			delete(h.views, owner)
		}
	}
}

// readyView hands out the view with a fresh fetch applied.
func (h *CartHTTP) readyView(c echo.Context, ownerID uuid.UUID) (*cartview.View, error) {
	view := h.viewFor(ownerID)
	if err := view.Refresh(c.Request().Context()); err != nil {
		return nil, err
	}
	return view, nil
}

func cartResponse(view *cartview.View) CartResponse {
	summary := view.Summary()
	return CartResponse{
		Items:   view.Items(),
		Count:   summary.ItemCount,
		Empty:   summary.Empty(),
		Summary: summary,
	}
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.cart")

	ownerID, err := h.GetID(c)
	if err != nil {
		l.Error("get_cart_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	view, err := h.readyView(c, ownerID)
	if err != nil {
		l.Error("get_cart_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal server error")
	}

	l.Info("cart fetched", "items", view.Summary().ItemCount)
	return c.JSON(http.StatusOK, cartResponse(view))
}

func (h *CartHTTP) AdjustItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "adjust.cart.item")

	ownerID, err := h.GetID(c)
	if err != nil {
		l.Error("adjust_item_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("adjust_item_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid item id")
	}

	var req struct {
		Size     int  `json:"size"`
		Quantity uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("adjust_item_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}

	view, err := h.readyView(c, ownerID)
	if err != nil {
		l.Error("adjust_item_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal server error")
	}

	item, ok := view.Item(itemID)
	if !ok {
		l.Warn("adjust_item_not_found", "status", 404, "item_id", itemID)
		return c.JSON(http.StatusNotFound, "item not found")
	}

	// staged exactly like the dialog: snapshot, pick values, commit
	session := adjust.Open(view, item)
	if err := session.SetSize(req.Size); err != nil {
		l.Warn("adjust_item_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "size must be one of 50/100/200")
	}
	if err := session.SetQuantity(req.Quantity); err != nil {
		l.Warn("adjust_item_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "quantity must be between 1 and 5")
	}

	if err := session.Commit(ctx); err != nil {
		return h.mutationError(c, l, "adjust_item_error", err)
	}

	l.Info("cart item adjusted", "item_id", itemID, "size", req.Size, "quantity", req.Quantity)
	return c.JSON(http.StatusOK, cartResponse(view))
}

func (h *CartHTTP) DeleteItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delete.cart.item")

	ownerID, err := h.GetID(c)
	if err != nil {
		l.Error("delete_item_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("delete_item_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid item id")
	}

	view, err := h.readyView(c, ownerID)
	if err != nil {
		l.Error("delete_item_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal server error")
	}

	if err := view.RequestDelete(ctx, itemID); err != nil {
		return h.mutationError(c, l, "delete_item_error", err)
	}

	l.Info("cart item deleted", "item_id", itemID)
	return c.JSON(http.StatusOK, cartResponse(view))
}

func (h *CartHTTP) mutationError(c echo.Context, l *slog.Logger, event string, err error) error {
	switch {
	case errors.Is(err, cartview.ErrNotFound):
		l.Warn(event, "status", 404, "error", err)
		return c.JSON(http.StatusNotFound, "item not found")
	case errors.Is(err, cartview.ErrBusy):
		l.Warn(event, "status", 409, "error", err)
		return c.JSON(http.StatusConflict, "cart is busy, try again")
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid adjustment")
	default:
		l.Error(event, "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal error")
	}
}
