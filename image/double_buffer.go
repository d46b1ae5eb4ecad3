package image

import (
	"github.com/aedm/bitang/apperr"
	"github.com/aedm/bitang/gpu"
)

// DoubleBuffer is a pair of identically sized storage buffers used by
// Simulate compute steps: one holds the "current" frame's state, the other
// "next"; Step flips which is which before each Simulate dispatch.
type DoubleBuffer struct {
	ID      string
	buffers [2]gpu.Buffer
	current int
}

// NewDoubleBuffer allocates two storage buffers of size bytes.
func NewDoubleBuffer(id string, device gpu.Device, size uint64) (*DoubleBuffer, error) {
	db := &DoubleBuffer{ID: id}
	for i := range db.buffers {
		b, err := device.CreateBuffer(gpu.BufferUsageStorage|gpu.BufferUsageCopyDst, size)
		if err != nil {
			return nil, apperr.New(apperr.GPU, id, err)
		}
		db.buffers[i] = b
	}
	return db, nil
}

// Step flips which buffer is current. Involutive: calling it twice restores
// the original current/next assignment.
func (db *DoubleBuffer) Step() {
	db.current = 1 - db.current
}

// CurrentBinding returns the buffer compute shaders read state from.
func (db *DoubleBuffer) CurrentBinding() gpu.Buffer { return db.buffers[db.current] }

// NextBinding returns the buffer compute shaders write freshly computed
// state into.
func (db *DoubleBuffer) NextBinding() gpu.Buffer { return db.buffers[1-db.current] }

// Parity returns which physical buffer (0 or 1) is current, so a caller
// that precomputed one descriptor set per parity can select the right one
// after Step flips it.
func (db *DoubleBuffer) Parity() int { return db.current }
