package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YusufBro01/ymastar/internal/domain"
)

func TestRegistry_GetIsLazyAndStable(t *testing.T) {
	f := newFixture(t)

	_, ok := f.registry.Lookup(buyerID)
	assert.False(t, ok)

	s := f.registry.Get(buyerID)
	assert.Same(t, s, f.registry.Get(buyerID))
	assert.NotSame(t, s, f.registry.Get(buyerID+1))
	assert.Equal(t, 2, f.registry.Len())
}

func TestRegistry_OrderIDsAreProcessWide(t *testing.T) {
	f := newFixture(t)
	a := f.registry.Get(1)
	b := f.registry.Get(2)

	f.resolve(t, a, "validuser")
	f.resolve(t, b, "validuser")

	ra, err := a.SubmitOrder(context.Background(), domain.ProductStars, "100", domain.PaymentMethodPayme)
	require.NoError(t, err)
	rb, err := b.SubmitOrder(context.Background(), domain.ProductStars, "100", domain.PaymentMethodPayme)
	require.NoError(t, err)

	assert.Greater(t, rb.Order.ID, ra.Order.ID)
}

func TestRegistry_EvictIdle(t *testing.T) {
	f := newFixture(t)

	f.registry.Get(1)
	busy := f.registry.Get(2)
	f.resolve(t, busy, "validuser")
	_, err := busy.SubmitOrder(context.Background(), domain.ProductStars, "100", domain.PaymentMethodPayme)
	require.NoError(t, err)

	f.advance(5 * time.Minute)
	assert.Zero(t, f.registry.EvictIdle())

	// сессия без заказа уходит, сессия с живым заказом остаётся
	f.advance(6 * time.Minute)
	assert.Equal(t, 1, f.registry.EvictIdle())
	_, ok := f.registry.Lookup(1)
	assert.False(t, ok)
	_, ok = f.registry.Lookup(2)
	assert.True(t, ok)

	f.advance(20 * time.Minute)
	assert.Equal(t, 1, f.registry.EvictIdle())
	assert.Zero(t, f.registry.Len())
}

func TestRegistry_ActivityKeepsSession(t *testing.T) {
	f := newFixture(t)
	s := f.registry.Get(1)

	for i := 0; i < 5; i++ {
		f.advance(5 * time.Minute)
		s.Screen()
		s.Navigate(domain.ViewProfile)
		assert.Zero(t, f.registry.EvictIdle())
	}
	assert.Equal(t, 1, f.registry.Len())
}

func TestRegistry_GetCountsAsActivity(t *testing.T) {
	f := newFixture(t)
	f.registry.Get(1)

	f.advance(9 * time.Minute)
	s := f.registry.Get(1)

	// сессию только что выдали запросу, вытеснять её нельзя
	f.advance(2 * time.Minute)
	assert.Zero(t, f.registry.EvictIdle())
	assert.Same(t, s, f.registry.Get(1))
}
