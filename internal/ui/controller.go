package ui

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/LeeLars/structon-cart/internal/cart"
	"github.com/LeeLars/structon-cart/internal/domain"
)

// ToastKind selects the toast's icon and styling.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastInfo    ToastKind = "info"
	ToastError   ToastKind = "error"
)

// Toast is a transient user notification.
type Toast struct {
	Message string
	Kind    ToastKind
}

// Config wires the controller to its rendering environment. Every callback
// may be nil: a nil Render or ShowToast or Pulse is a no-op, a nil Confirm
// applies no gate.
type Config struct {
	Locale   string
	BasePath string
	// LoggedIn switches the copy between quote ("offerte") and order
	// ("bestelling") wording.
	LoggedIn bool

	Render    func(View)
	ShowToast func(Toast)
	// Pulse plays the brief attention animation on the toggle control.
	Pulse   func()
	Confirm func(prompt string) bool
}

// Controller binds the cart service to a renderer without knowing anything
// about how rendering happens. It owns exactly one piece of state the service
// does not: whether the panel is open. Items are re-read from the service at
// the moment of opening; while closed only the badge is kept current.
type Controller struct {
	svc *cart.Service
	cfg Config

	mu          sync.Mutex
	open        bool
	unsubscribe func()
}

func NewController(svc *cart.Service, cfg Config) *Controller {
	cfg.Locale = NormalizeLocale(cfg.Locale)
	if cfg.Render == nil {
		cfg.Render = func(View) {}
	}
	if cfg.ShowToast == nil {
		cfg.ShowToast = func(Toast) {}
	}
	if cfg.Pulse == nil {
		cfg.Pulse = func() {}
	}

	c := &Controller{svc: svc, cfg: cfg}
	c.unsubscribe = svc.Subscribe(func(items []domain.CartItem) {
		c.render(items)
	})
	c.render(svc.GetItems())
	return c
}

// Close detaches the controller from the service.
func (c *Controller) Close() {
	c.unsubscribe()
}

func (c *Controller) Toggle() {
	if c.IsOpen() {
		c.ClosePanel()
	} else {
		c.OpenPanel()
	}
}

// OpenPanel opens the sidebar and renders its contents from the current
// item list.
func (c *Controller) OpenPanel() {
	c.mu.Lock()
	c.open = true
	c.mu.Unlock()
	c.render(c.svc.GetItems())
}

// ClosePanel is the single exit for every close gesture: the close control,
// a backdrop click, the escape key, or a completed swipe.
func (c *Controller) ClosePanel() {
	c.mu.Lock()
	c.open = false
	c.mu.Unlock()
	c.render(c.svc.GetItems())
}

func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// AddToCart handles an add-to-cart trigger carrying a serialized product
// payload. A payload that does not parse is a markup bug: it surfaces as an
// error toast and goes no further. On success the toast wording distinguishes
// a first add from a quantity bump, and the toggle control pulses.
func (c *Controller) AddToCart(ctx context.Context, payload []byte) {
	var product domain.Product
	if err := json.Unmarshal(payload, &product); err != nil {
		log.Printf("quote cart ui: bad product payload: %v", err)
		c.cfg.ShowToast(Toast{Message: "Er ging iets mis", Kind: ToastError})
		return
	}

	wasInCart := c.svc.HasItem(product.ID)
	if !c.svc.AddItem(ctx, product) {
		c.cfg.ShowToast(Toast{Message: "Er ging iets mis", Kind: ToastError})
		return
	}

	if wasInCart {
		c.cfg.ShowToast(Toast{Message: product.Title + " - aantal verhoogd", Kind: ToastSuccess})
	} else {
		c.cfg.ShowToast(Toast{Message: product.Title + " toegevoegd aan " + c.cartNoun(), Kind: ToastSuccess})
	}
	c.cfg.Pulse()
}

// Increment bumps a line's quantity by one.
func (c *Controller) Increment(ctx context.Context, id string) {
	for _, item := range c.svc.GetItems() {
		if item.ID == id {
			c.svc.UpdateQuantity(ctx, id, item.Quantity+1)
			return
		}
	}
}

// Decrement lowers a line's quantity by one; reaching zero removes the line
// and tells the user so.
func (c *Controller) Decrement(ctx context.Context, id string) {
	for _, item := range c.svc.GetItems() {
		if item.ID == id {
			if item.Quantity-1 <= 0 {
				c.svc.RemoveItem(ctx, id)
				c.cfg.ShowToast(Toast{Message: "Product verwijderd", Kind: ToastInfo})
			} else {
				c.svc.UpdateQuantity(ctx, id, item.Quantity-1)
			}
			return
		}
	}
}

// Remove deletes a line outright; the toast names the removed product.
func (c *Controller) Remove(ctx context.Context, id string) {
	if removed := c.svc.RemoveItem(ctx, id); removed != nil {
		c.cfg.ShowToast(Toast{Message: removed.Title + " verwijderd", Kind: ToastInfo})
	}
}

// ClearAll empties the cart behind a confirmation prompt.
func (c *Controller) ClearAll(ctx context.Context) {
	if c.cfg.Confirm != nil && !c.cfg.Confirm("Weet u zeker dat u alle producten wilt verwijderen?") {
		return
	}
	c.svc.Clear(ctx)
	if c.cfg.LoggedIn {
		c.cfg.ShowToast(Toast{Message: "Bestelling geleegd", Kind: ToastInfo})
	} else {
		c.cfg.ShowToast(Toast{Message: "Offerte mandje geleegd", Kind: ToastInfo})
	}
}

func (c *Controller) cartNoun() string {
	if c.cfg.LoggedIn {
		return "bestelling"
	}
	return "offerte"
}

// render builds the view snapshot and hands it to the renderer. The badge is
// hidden, not zeroed, at count zero; the footer disappears entirely when the
// cart is empty; rows exist only while the panel is open.
func (c *Controller) render(items []domain.CartItem) {
	count := 0
	for _, item := range items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		count += qty
	}

	view := View{
		Open:          c.IsOpen(),
		Count:         count,
		BadgeVisible:  count > 0,
		FooterVisible: count > 0,
	}
	if view.Open {
		view.Rows = make([]Row, 0, len(items))
		for _, item := range items {
			view.Rows = append(view.Rows, Row{
				CartItem: item,
				URL:      ProductURL(item, c.cfg.BasePath, c.cfg.Locale),
			})
		}
	}
	c.cfg.Render(view)
}
