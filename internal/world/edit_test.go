package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatStore(t *testing.T, height int) *Store {
	t.Helper()
	s := NewStore()
	c := NewChunk(ChunkCoord{})
	NewFlatGenerator(height).PopulateChunk(c)
	require.True(t, s.AddChunk(c))
	return s
}

func TestStackSnowGrowsLayers(t *testing.T) {
	s := flatStore(t, 4)
	var events []ChunkEvent
	s.Subscribe(func(ev ChunkEvent) { events = append(events, ev) })

	require.True(t, StackSnow(s, 2, 2))
	assert.Equal(t, Block{ID: SnowLayer}, s.Block(2, 5, 2))

	for range MaxMetadata {
		require.True(t, StackSnow(s, 2, 2))
	}
	assert.Equal(t, Block{ID: SnowLayer, Metadata: MaxMetadata}, s.Block(2, 5, 2))

	require.True(t, StackSnow(s, 2, 2))
	assert.Equal(t, Block{ID: SnowLayer}, s.Block(2, 6, 2), "a full layer starts a new one above")

	require.Len(t, events, MaxMetadata+2)
	assert.Equal(t, ChunkModified, events[0].Kind)
}

func TestClearTop(t *testing.T) {
	s := flatStore(t, 1)

	require.True(t, ClearTop(s, 0, 0))
	assert.True(t, s.Block(0, 1, 0).IsAir())

	assert.False(t, ClearTop(s, 0, 0), "bedrock stays")
	assert.Equal(t, Bedrock, s.Block(0, 0, 0).ID)
}

func TestEditsIgnoreUnloadedColumns(t *testing.T) {
	s := NewStore()
	assert.False(t, StackSnow(s, 100, 100))
	assert.False(t, ClearTop(s, 100, 100))
}
