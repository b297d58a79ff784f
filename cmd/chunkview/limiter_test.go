package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrameLimiterPaces(t *testing.T) {
	var f frameLimiter
	start := time.Now()
	for range 5 {
		f.wait(100)
	}
	assert.GreaterOrEqual(t, time.Since(start), 45*time.Millisecond)
}

func TestFrameLimiterUncapped(t *testing.T) {
	var f frameLimiter
	f.wait(100)
	f.wait(0)
	assert.True(t, f.next.IsZero())
}

func TestFrameLimiterResyncsAfterHitch(t *testing.T) {
	var f frameLimiter
	f.wait(1000)
	time.Sleep(20 * time.Millisecond)
	f.wait(1000)
	assert.WithinDuration(t, time.Now().Add(time.Millisecond), f.next, 5*time.Millisecond)
}
