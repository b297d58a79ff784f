package world

// BlockID identifies a block type. The identifier space is dense: 0-255.
type BlockID uint8

// Block IDs the demo generator and the default registry know about.
const (
	Air         BlockID = 0
	Stone       BlockID = 1
	Grass       BlockID = 2
	Dirt        BlockID = 3
	Cobblestone BlockID = 4
	Planks      BlockID = 5
	Bedrock     BlockID = 7
	Sand        BlockID = 12
	Gravel      BlockID = 13
	Wool        BlockID = 35
	SnowLayer   BlockID = 78
)

// MaxMetadata is the largest metadata value a block can carry.
const MaxMetadata = 15

// Block is a single cell of a chunk.
type Block struct {
	ID       BlockID
	Metadata uint8
}

// IsAir reports whether the block is empty.
func (b Block) IsAir() bool {
	return b.ID == Air
}

// BlockPos is an integer position, either chunk-local or in world space
// depending on context.
type BlockPos struct {
	X, Y, Z int
}

// BlockDescriptor is what a renderer sees for one block: its type, its
// metadata and where it sits inside its chunk.
type BlockDescriptor struct {
	ID          BlockID
	Metadata    uint8
	Coordinates BlockPos
}
