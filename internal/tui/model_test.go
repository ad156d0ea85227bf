package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxemart/storefront/internal/app"
	"github.com/luxemart/storefront/internal/cart"
	"github.com/luxemart/storefront/pkg/bus"
	"github.com/luxemart/storefront/pkg/localstore"
	"github.com/luxemart/storefront/pkg/types"
)

func newTestModel(t *testing.T) (*Model, *cart.Service) {
	t.Helper()

	store, err := localstore.New(t.TempDir(), nil)
	require.NoError(t, err)
	changeBus := bus.New()
	cartSvc, err := cart.NewService(store, changeBus, nil)
	require.NoError(t, err)

	return New(&app.App{Cart: cartSvc, Bus: changeBus}), cartSvc
}

// Cart changes can originate on command goroutines, so the subscribers must
// not touch the model themselves: they signal, and the refresh happens when
// Update handles the delivered message on the event loop.
func TestCartChangesReachModelOnlyThroughUpdate(t *testing.T) {
	t.Parallel()

	m, cartSvc := newTestModel(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = cartSvc.AddItem("p1", "Silk Scarf", types.MoneyFromInt(89))
	}()
	<-done

	assert.Zero(t, m.badgeCount, "a notification alone must not change the model")
	assert.Empty(t, m.cartItems)

	_, cmd := m.Update(m.waitForBadgeChange()())
	require.NotNil(t, cmd, "the badge must keep listening after a refresh")
	assert.Equal(t, 1, m.badgeCount)
	assert.Contains(t, m.View(), "cart: 1 item")

	m.Update(m.waitForCartChange()())
	require.Len(t, m.cartItems, 1)
	assert.Equal(t, "p1", m.cartItems[0].ProductID)
}

func TestCartChangeClampsSelectedLine(t *testing.T) {
	t.Parallel()

	m, cartSvc := newTestModel(t)
	require.NoError(t, cartSvc.AddItem("p1", "Leather Tote", types.MoneyFromInt(249)))
	require.NoError(t, cartSvc.AddItem("p2", "Wool Overcoat", types.MoneyFromInt(780)))
	m.Update(m.waitForCartChange()())
	require.Len(t, m.cartItems, 2)

	m.cartLine = 1
	require.NoError(t, cartSvc.RemoveItem("p2"))
	m.Update(m.waitForCartChange()())

	assert.Len(t, m.cartItems, 1)
	assert.Equal(t, 0, m.cartLine)
}
