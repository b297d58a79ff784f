package profiling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatMs(t *testing.T) {
	assert.Equal(t, "4.2ms", formatMs(4200*time.Microsecond))
	assert.Equal(t, "2ms", formatMs(2*time.Millisecond))
	assert.Equal(t, "0ms", formatMs(0))
}

func TestTrackAndTopN(t *testing.T) {
	ResetFrame()
	defer ResetFrame()

	mu.Lock()
	frameTotals["a"] = 3 * time.Millisecond
	frameTotals["b"] = 5 * time.Millisecond
	frameTotals["c"] = time.Millisecond
	mu.Unlock()

	Track("c")()
	assert.Equal(t, "b:5ms, a:3ms", TopN(2))
	assert.Len(t, Snapshot(), 3)

	ResetFrame()
	assert.Empty(t, Snapshot())
	assert.Equal(t, "", TopN(3))
}
