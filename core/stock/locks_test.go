package stock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLockTable_AcquireRelease(t *testing.T) {
	table := newLockTable()

	release, err := table.acquire(context.Background(), 1, time.Second)
	assert.NoError(t, err)

	// A different item must not contend.
	release2, err := table.acquire(context.Background(), 2, 50*time.Millisecond)
	assert.NoError(t, err)
	release2()

	// The same item times out while held.
	_, err = table.acquire(context.Background(), 1, 50*time.Millisecond)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrLockTimeout))

	// And succeeds again once released.
	release()
	release3, err := table.acquire(context.Background(), 1, 50*time.Millisecond)
	assert.NoError(t, err)
	release3()
}

func TestLockTable_ContextCancel(t *testing.T) {
	table := newLockTable()

	release, err := table.acquire(context.Background(), 1, time.Second)
	assert.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = table.acquire(ctx, 1, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}
