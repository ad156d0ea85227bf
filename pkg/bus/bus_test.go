package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifyReachesSubscribersInRegistrationOrder(t *testing.T) {
	t.Parallel()

	b := New()
	var order []string
	b.Subscribe(func() { order = append(order, "badge") })
	b.Subscribe(func() { order = append(order, "cart-page") })
	b.Subscribe(func() { order = append(order, "row") })

	b.Notify()
	assert.Equal(t, []string{"badge", "cart-page", "row"}, order)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	t.Parallel()

	b := New()
	calls := 0
	unsub := b.Subscribe(func() { calls++ })

	b.Notify()
	unsub()
	b.Notify()

	assert.Equal(t, 1, calls)
}

func TestUnsubscribeTwiceIsSafe(t *testing.T) {
	t.Parallel()

	b := New()
	unsub := b.Subscribe(func() {})
	unsub()
	unsub()

	b.Notify()
}

func TestNotifyWithoutSubscribers(t *testing.T) {
	t.Parallel()

	New().Notify()
}

func TestSubscribeDuringNotifyDoesNotDeadlock(t *testing.T) {
	t.Parallel()

	b := New()
	registered := false
	b.Subscribe(func() {
		if !registered {
			registered = true
			b.Subscribe(func() {})
		}
	})

	b.Notify()
	assert.True(t, registered)
}
