package walkthrough

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClock(t *testing.T) {
	c := NewClock()
	before := time.Now()
	assert.False(t, c.Now().Before(before))

	pinned := time.Date(2026, 2, 15, 9, 0, 0, 0, time.UTC)
	c.Set(pinned)
	assert.Equal(t, pinned, c.Now())

	c.Advance(time.Hour)
	assert.Equal(t, pinned.Add(time.Hour), c.Now())

	c.Clear()
	assert.False(t, c.Now().Before(before))

	c.Advance(time.Hour)
	assert.WithinDuration(t, time.Now(), c.Now(), time.Minute)
}
