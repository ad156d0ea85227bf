package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/luxemart/storefront/pkg/errors"
	"github.com/luxemart/storefront/pkg/localstore"
	"github.com/luxemart/storefront/pkg/types"
)

type countingBus struct {
	notifications int
}

func (b *countingBus) Notify() { b.notifications++ }

func newTestService(t *testing.T) (*Service, *countingBus, *localstore.Store) {
	t.Helper()

	store, err := localstore.New(t.TempDir(), nil)
	require.NoError(t, err)
	bus := &countingBus{}
	svc, err := NewService(store, bus, nil)
	require.NoError(t, err)
	return svc, bus, store
}

func TestAddItemAppendsWithQuantityOne(t *testing.T) {
	t.Parallel()

	svc, bus, _ := newTestService(t)
	require.NoError(t, svc.AddItem("p1", "Shoe", types.MoneyFromInt(1000)))

	items := svc.Load()
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, "Shoe", items[0].Name)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, 1, bus.notifications)
}

func TestAddItemTwiceIncrementsAndKeepsFirstSnapshot(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	require.NoError(t, svc.AddItem("p2", "Hat", types.MoneyFromInt(500)))
	require.NoError(t, svc.AddItem("p2", "HatV2", types.MoneyFromInt(999)))

	items := svc.Load()
	require.Len(t, items, 1)
	assert.Equal(t, "Hat", items[0].Name)
	assert.True(t, items[0].Price.Equal(types.MoneyFromInt(500)))
	assert.Equal(t, 2, items[0].Quantity)
}

func TestAddItemRequiresProductID(t *testing.T) {
	t.Parallel()

	svc, bus, _ := newTestService(t)
	err := svc.AddItem("  ", "x", types.MoneyFromInt(1))
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
	assert.Zero(t, bus.notifications)
}

func TestSetQuantityOverwrites(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	require.NoError(t, svc.AddItem("p1", "Shoe", types.MoneyFromInt(1000)))
	require.NoError(t, svc.AddItem("p1", "Shoe", types.MoneyFromInt(1000)))
	require.NoError(t, svc.SetQuantity("p1", 5))

	items := svc.Load()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, "Shoe", items[0].Name)
	assert.True(t, items[0].Price.Equal(types.MoneyFromInt(1000)))
}

func TestSetQuantityZeroRemoves(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	require.NoError(t, svc.AddItem("p1", "Shoe", types.MoneyFromInt(1000)))
	require.NoError(t, svc.SetQuantity("p1", 0))

	assert.Empty(t, svc.Load())
}

func TestSetQuantityAbsentProductIsNoOp(t *testing.T) {
	t.Parallel()

	svc, bus, _ := newTestService(t)
	require.NoError(t, svc.AddItem("p1", "Shoe", types.MoneyFromInt(1000)))
	notified := bus.notifications

	require.NoError(t, svc.SetQuantity("ghost", 3))
	assert.Len(t, svc.Load(), 1)
	assert.Equal(t, notified, bus.notifications)
}

func TestRemoveItemAbsentIsNoOp(t *testing.T) {
	t.Parallel()

	svc, bus, _ := newTestService(t)
	require.NoError(t, svc.AddItem("p1", "Shoe", types.MoneyFromInt(1000)))
	notified := bus.notifications

	require.NoError(t, svc.RemoveItem("ghost"))
	assert.Len(t, svc.Load(), 1)
	assert.Equal(t, notified, bus.notifications)
}

func TestInvariantsHoldOverMutationSequences(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	require.NoError(t, svc.AddItem("a", "A", types.MoneyFromInt(10)))
	require.NoError(t, svc.AddItem("b", "B", types.MoneyFromInt(20)))
	require.NoError(t, svc.AddItem("a", "A-again", types.MoneyFromInt(99)))
	require.NoError(t, svc.SetQuantity("b", 4))
	require.NoError(t, svc.RemoveItem("missing"))
	require.NoError(t, svc.SetQuantity("a", -2))
	require.NoError(t, svc.AddItem("c", "C", types.MoneyFromInt(30)))

	seen := map[string]bool{}
	for _, item := range svc.Load() {
		assert.GreaterOrEqual(t, item.Quantity, 1, "no line may persist below quantity 1")
		assert.False(t, seen[item.ProductID], "at most one line per product")
		seen[item.ProductID] = true
	}
	assert.False(t, seen["a"], "a was removed via SetQuantity(-2)")
	assert.True(t, seen["b"])
	assert.True(t, seen["c"])
}

func TestLoadCorruptSlotYieldsEmptyCart(t *testing.T) {
	t.Parallel()

	svc, _, store := newTestService(t)
	require.NoError(t, store.Set(SlotName, []byte("][ not json")))

	assert.Empty(t, svc.Load())
	assert.Zero(t, svc.Count())
}

func TestCountAndSubtotal(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	require.NoError(t, svc.AddItem("p1", "Shoe", types.MoneyFromInt(1000)))
	require.NoError(t, svc.SetQuantity("p1", 2))
	require.NoError(t, svc.AddItem("p2", "Hat", types.MoneyFromInt(500)))

	assert.Equal(t, 3, svc.Count())
	assert.True(t, svc.Subtotal().Equal(types.MoneyFromInt(2500)))
}

func TestClearEmptiesAndNotifiesOnce(t *testing.T) {
	t.Parallel()

	svc, bus, _ := newTestService(t)
	require.NoError(t, svc.AddItem("p1", "Shoe", types.MoneyFromInt(1000)))
	before := bus.notifications

	require.NoError(t, svc.Clear())
	assert.Empty(t, svc.Load())
	assert.Equal(t, before+1, bus.notifications)
}

func TestCartPersistsAcrossServiceInstances(t *testing.T) {
	t.Parallel()

	svc, _, store := newTestService(t)
	require.NoError(t, svc.AddItem("p1", "Shoe", types.MoneyFromInt(1000)))

	again, err := NewService(store, &countingBus{}, nil)
	require.NoError(t, err)
	items := again.Load()
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
}
