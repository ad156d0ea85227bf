// Package tui is the interactive storefront: a catalog list, a cart pane,
// and a checkout screen driven by one shared cart service. The header badge
// and the cart pane refresh through separate change subscriptions rather
// than by reaching into each other.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/luxemart/storefront/internal/app"
	"github.com/luxemart/storefront/internal/cart"
	"github.com/luxemart/storefront/internal/catalog"
	"github.com/luxemart/storefront/internal/checkout"
	"github.com/luxemart/storefront/internal/orders"
	pkgerrors "github.com/luxemart/storefront/pkg/errors"
)

type screen int

const (
	screenCatalog screen = iota
	screenCart
	screenCheckout
)

type Model struct {
	app    *app.App
	screen screen

	products []catalog.Product
	selected int
	loading  bool
	loadErr  string

	// badgeCount and cartItems are refreshed by independent subscriptions.
	// The subscribers only signal; the re-pull happens in Update, so model
	// state is never written off the event loop. Notifications can arrive
	// from command goroutines (the checkout submit clears the cart there).
	badgeCount   int
	cartItems    []cart.LineItem
	cartLine     int
	badgeChanges chan struct{}
	cartChanges  chan struct{}
	unsubscribe  []func()

	placed      *orders.PlacedOrder
	checkoutErr string
	status      string
}

func New(application *app.App) *Model {
	m := &Model{
		app:          application,
		badgeChanges: make(chan struct{}, 1),
		cartChanges:  make(chan struct{}, 1),
	}

	m.badgeCount = application.Cart.Count()
	m.cartItems = application.Cart.Load()

	m.unsubscribe = append(m.unsubscribe,
		application.Bus.Subscribe(func() { signal(m.badgeChanges) }),
		application.Bus.Subscribe(func() { signal(m.cartChanges) }),
	)

	return m
}

// signal coalesces pending notifications; the handler re-reads current
// state, so one wakeup covers any number of changes.
func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

type productsMsg struct {
	page *catalog.Page
	err  error
}

type checkoutDoneMsg struct {
	placed *orders.PlacedOrder
	err    error
}

type successShownMsg struct{}

type badgeChangedMsg struct{}

type cartChangedMsg struct{}

func (m *Model) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(m.fetchProducts(), m.waitForBadgeChange(), m.waitForCartChange())
}

func (m *Model) waitForBadgeChange() tea.Cmd {
	return func() tea.Msg {
		<-m.badgeChanges
		return badgeChangedMsg{}
	}
}

func (m *Model) waitForCartChange() tea.Cmd {
	return func() tea.Msg {
		<-m.cartChanges
		return cartChangedMsg{}
	}
}

func (m *Model) fetchProducts() tea.Cmd {
	return func() tea.Msg {
		page, err := m.app.Catalog.List(context.Background(), catalog.ListParams{Limit: 50})
		return productsMsg{page: page, err: err}
	}
}

func (m *Model) submitCheckout() tea.Cmd {
	return func() tea.Msg {
		placed, err := m.app.Checkout.Submit(context.Background())
		return checkoutDoneMsg{placed: placed, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case productsMsg:
		m.loading = false
		if msg.err != nil {
			m.loadErr = pkgerrors.UserMessage(msg.err)
			return m, nil
		}
		m.loadErr = ""
		m.products = msg.page.Products
		if m.selected >= len(m.products) {
			m.selected = 0
		}
		return m, nil

	case badgeChangedMsg:
		m.badgeCount = m.app.Cart.Count()
		return m, m.waitForBadgeChange()

	case cartChangedMsg:
		m.cartItems = m.app.Cart.Load()
		if m.cartLine >= len(m.cartItems) {
			m.cartLine = len(m.cartItems) - 1
		}
		if m.cartLine < 0 {
			m.cartLine = 0
		}
		return m, m.waitForCartChange()

	case checkoutDoneMsg:
		if msg.err != nil {
			m.checkoutErr = pkgerrors.UserMessage(msg.err)
			return m, nil
		}
		m.checkoutErr = ""
		m.placed = msg.placed
		return m, tea.Tick(checkout.SuccessDisplayDelay, func(time.Time) tea.Msg {
			return successShownMsg{}
		})

	case successShownMsg:
		m.app.Checkout.Reset()
		m.placed = nil
		m.screen = screenCatalog
		m.status = "order placed"
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The success screen ignores input until its timer returns the shopper
	// to the catalog.
	if m.placed != nil {
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		for _, cancel := range m.unsubscribe {
			cancel()
		}
		return m, tea.Quit
	case "tab":
		m.screen = (m.screen + 1) % 3
		m.status = ""
		return m, nil
	}

	switch m.screen {
	case screenCatalog:
		return m.handleCatalogKey(msg)
	case screenCart:
		return m.handleCartKey(msg)
	case screenCheckout:
		return m.handleCheckoutKey(msg)
	}
	return m, nil
}

func (m *Model) handleCatalogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.products)-1 {
			m.selected++
		}
	case "r":
		m.loading = true
		return m, m.fetchProducts()
	case "enter":
		if m.selected < len(m.products) {
			p := m.products[m.selected]
			if err := m.app.Cart.AddItem(p.ID(), p.Name, p.Price); err != nil {
				m.status = pkgerrors.UserMessage(err)
			} else {
				m.status = fmt.Sprintf("added %s", p.Name)
			}
		}
	}
	return m, nil
}

func (m *Model) handleCartKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cartLine > 0 {
			m.cartLine--
		}
	case "down", "j":
		if m.cartLine < len(m.cartItems)-1 {
			m.cartLine++
		}
	case "+":
		if m.cartLine < len(m.cartItems) {
			item := m.cartItems[m.cartLine]
			if err := m.app.Cart.SetQuantity(item.ProductID, item.Quantity+1); err != nil {
				m.status = pkgerrors.UserMessage(err)
			}
		}
	case "-":
		if m.cartLine < len(m.cartItems) {
			item := m.cartItems[m.cartLine]
			if err := m.app.Cart.SetQuantity(item.ProductID, item.Quantity-1); err != nil {
				m.status = pkgerrors.UserMessage(err)
			}
		}
	case "x":
		if m.cartLine < len(m.cartItems) {
			if err := m.app.Cart.RemoveItem(m.cartItems[m.cartLine].ProductID); err != nil {
				m.status = pkgerrors.UserMessage(err)
			}
		}
	case "c":
		m.screen = screenCheckout
		m.checkoutErr = ""
	}
	return m, nil
}

func (m *Model) handleCheckoutKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "r":
		if m.app.Checkout.State() == checkout.StateSubmitting {
			return m, nil
		}
		m.checkoutErr = ""
		return m, m.submitCheckout()
	case "esc":
		m.screen = screenCart
	}
	return m, nil
}

func (m *Model) View() string {
	b := &strings.Builder{}

	fmt.Fprintf(b, "LUXEMART  [catalog | cart | checkout]  cart: %d item(s)\n\n", m.badgeCount)

	switch m.screen {
	case screenCatalog:
		m.viewCatalog(b)
	case screenCart:
		m.viewCart(b)
	case screenCheckout:
		m.viewCheckout(b)
	}

	if m.status != "" {
		fmt.Fprintf(b, "\n%s\n", m.status)
	}
	fmt.Fprintln(b, "\ntab switch screen · q quit")
	return b.String()
}

func (m *Model) viewCatalog(b *strings.Builder) {
	if m.loading {
		fmt.Fprintln(b, "loading catalog...")
		return
	}
	if m.loadErr != "" {
		fmt.Fprintf(b, "could not load catalog: %s (r to retry)\n", m.loadErr)
		return
	}
	for i, p := range m.products {
		marker := " "
		if i == m.selected {
			marker = ">"
		}
		fmt.Fprintf(b, " %s %-30s %10s  %s\n", marker, p.Name, p.Price.Display(), p.Category)
	}
	fmt.Fprintln(b, "\nup/down select · enter add to cart · r reload")
}

func (m *Model) viewCart(b *strings.Builder) {
	if len(m.cartItems) == 0 {
		fmt.Fprintln(b, "your cart is empty")
		return
	}
	for i, item := range m.cartItems {
		marker := " "
		if i == m.cartLine {
			marker = ">"
		}
		fmt.Fprintf(b, " %s %-30s %10s x%d = %s\n", marker, item.Name, item.Price.Display(), item.Quantity, item.Subtotal().Display())
	}
	fmt.Fprintf(b, "\ntotal: %s\n", m.app.Cart.Subtotal().Display())
	fmt.Fprintln(b, "+/- quantity · x remove · c checkout")
}

func (m *Model) viewCheckout(b *strings.Builder) {
	if m.placed != nil {
		fmt.Fprintf(b, "order %s placed!\ntotal %s\n", m.placed.ID, m.placed.Total.Display())
		return
	}

	switch m.app.Checkout.State() {
	case checkout.StateSubmitting:
		fmt.Fprintln(b, "submitting order...")
	case checkout.StateFailed:
		fmt.Fprintf(b, "checkout failed: %s\n", m.checkoutErr)
		fmt.Fprintln(b, "your cart is untouched · r to retry · esc back to cart")
	default:
		fmt.Fprintf(b, "%d item(s), total %s\n", m.app.Cart.Count(), m.app.Cart.Subtotal().Display())
		fmt.Fprintln(b, "enter to place order · esc back to cart")
	}
}
