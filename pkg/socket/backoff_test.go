package socket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffTimeout(t *testing.T) {
	start := time.Millisecond
	max := 10 * time.Millisecond
	factor := 2
	newBT := newBackoff(start, max, factor)

	assert.Equal(t, start, newBT.base)
	assert.Equal(t, max, newBT.max)
	assert.Equal(t, factor, newBT.factor)
	assert.Equal(t, start, newBT.getCurrentTimeout())

	// increase the timeout, 2 milliseconds
	newBT.increaseTimeout()
	assert.Equal(t, start*2, newBT.getCurrentTimeout())

	// increase the timeout again, 4 milliseconds
	newBT.increaseTimeout()
	assert.Equal(t, start*2*2, newBT.getCurrentTimeout())

	// increase the timeout 2 more times, should be capped at max
	newBT.increaseTimeout()
	newBT.increaseTimeout()
	assert.Equal(t, max, newBT.getCurrentTimeout())

	// reset the timeout
	newBT.reset()
	assert.Equal(t, start, newBT.getCurrentTimeout())

	assert.True(t, newBT.sleep(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, newBackoff(time.Hour, time.Hour, 1).sleep(ctx))
}

func TestFixedBackoff(t *testing.T) {
	fixed := newBackoff(5*time.Millisecond, 0, 0)
	fixed.increaseTimeout()
	fixed.increaseTimeout()
	assert.Equal(t, 5*time.Millisecond, fixed.getCurrentTimeout())
}
