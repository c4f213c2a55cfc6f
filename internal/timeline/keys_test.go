package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindKeys_ArrowsNavigate(t *testing.T) {
	bus := NewKeyBus()
	c := NewController(navFixture())
	sub := c.BindKeys(bus)
	defer sub.Close()

	bus.Publish(KeyArrowRight)
	year, _ := selection(t, c)
	assert.Equal(t, 2005, year)

	bus.Publish(KeyArrowLeft)
	year, _ = selection(t, c)
	assert.Equal(t, 2001, year)

	bus.Publish("Enter")
	year, _ = selection(t, c)
	assert.Equal(t, 2001, year)
}

func TestSubscription_CloseDetachesOnce(t *testing.T) {
	bus := NewKeyBus()
	c := NewController(navFixture())
	sub := c.BindKeys(bus)
	require.Equal(t, 1, bus.Len())

	sub.Close()
	sub.Close()
	assert.Equal(t, 0, bus.Len())

	bus.Publish(KeyArrowRight)
	year, _ := selection(t, c)
	assert.Equal(t, 2001, year)
}

func TestSubscription_NilClose(t *testing.T) {
	var sub *Subscription
	assert.NotPanics(t, sub.Close)
}

func TestKeyBus_DeliversInSubscriptionOrder(t *testing.T) {
	bus := NewKeyBus()
	var order []string
	first := bus.Subscribe(func(Key) { order = append(order, "first") })
	bus.Subscribe(func(Key) { order = append(order, "second") })

	bus.Publish(KeyArrowLeft)
	assert.Equal(t, []string{"first", "second"}, order)

	first()
	order = nil
	bus.Publish(KeyArrowLeft)
	assert.Equal(t, []string{"second"}, order)
}
