package renderer

import "math/rand"

// JitterTableSize is the number of entries in each jitter table.
// It must stay a power of two so indices can wrap with a mask.
const JitterTableSize = 1024

const jitterMask = JitterTableSize - 1

// JitterTables hold the pseudo-random sub-pixel offsets used for
// supersampling. They are filled once from a seed and only read afterwards,
// so every worker can share them.
type JitterTables struct {
	offsetX [JitterTableSize]float64 // in [-0.5, 0.5)
	offsetY [JitterTableSize]float64 // in [-0.5, 0.5)
	indices [JitterTableSize]int     // in [0, JitterTableSize)
}

// NewJitterTables fills the jitter tables from the given seed
func NewJitterTables(seed int64) *JitterTables {
	random := rand.New(rand.NewSource(seed))
	t := &JitterTables{}

	for i := range t.offsetX {
		t.offsetX[i] = random.Float64() - 0.5
	}
	for i := range t.offsetY {
		t.offsetY[i] = random.Float64() - 0.5
	}
	for i := range t.indices {
		t.indices[i] = int(JitterTableSize * random.Float64())
	}
	return t
}

// Offset returns the sub-pixel jitter for a sample of pixel (x, y).
// The lookup follows the Graphics Gems jitter scheme: the same inputs
// always produce the same offset.
func (t *JitterTables) Offset(x, y, sample int) (dx, dy float64) {
	dx = t.offsetX[(x+(y<<2)+t.indices[(x+sample)&jitterMask])&jitterMask]
	dy = t.offsetY[(y+(x<<2)+t.indices[(y+sample)&jitterMask])&jitterMask]
	return dx, dy
}
