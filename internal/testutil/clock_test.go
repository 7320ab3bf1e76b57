package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeterministicClock_StartsAtBaseTime(t *testing.T) {
	c := NewDeterministicClock()
	assert.Equal(t, BaseTime, c.Now())
	assert.Equal(t, BaseTime, c.Now(), "reading the clock does not advance it")
}

func TestDeterministicClock_Advance(t *testing.T) {
	c := NewDeterministicClock()

	got := c.Advance(2 * time.Hour)
	assert.Equal(t, BaseTime.Add(2*time.Hour), got)
	assert.Equal(t, got, c.Now())
}

func TestDeterministicClock_AdvanceDays(t *testing.T) {
	c := NewDeterministicClock()

	got := c.AdvanceDays(7)
	assert.Equal(t, BaseTime.AddDate(0, 0, 7), got)
}

func TestDeterministicClock_Set(t *testing.T) {
	c := NewDeterministicClock()
	target := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	c.Set(target)
	assert.Equal(t, target, c.Now())
}

func TestDeterministicClock_ThreadSafe(t *testing.T) {
	c := NewDeterministicClock()
	const goroutines = 50

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Advance(time.Minute)
			c.Now()
		}()
	}
	wg.Wait()

	assert.Equal(t, BaseTime.Add(goroutines*time.Minute), c.Now())
}
