package densemap

import (
	"fmt"
	"io"
)

// MaxValue is the largest storable value, fixed by the 8-bit lookup header.
const MaxValue = 254

// DefaultBlockSize is the default number of bytes per bit-plane,
// covering a range of 4096 keys per block.
const DefaultBlockSize = 512

// Options define map specific options.
type Options struct {
	// BlockSize is the number of bytes per bit-plane in each block.
	// It must be a power of two between 16 and 1<<27; each block then
	// covers 8*BlockSize consecutive keys.
	// Default: 512.
	BlockSize int

	// StatsLog is an optional diagnostics sink. When set, a one-time
	// statistics report is written to it on the first Get of the map's
	// lifetime. Use WriteStats to emit reports explicitly.
	// Default: nil (disabled).
	StatsLog io.Writer
}

func (o *Options) norm() *Options {
	var oo Options
	if o != nil {
		oo = *o
	}

	if oo.BlockSize == 0 {
		oo.BlockSize = DefaultBlockSize
	}
	return &oo
}

// keyBits returns log2(8*BlockSize), or an error when BlockSize is not
// a supported power of two.
func (o *Options) keyBits() (uint, error) {
	bits := uint(4)
	for bits < 28 && 1<<bits != o.BlockSize {
		bits++
	}
	if bits == 28 {
		return 0, fmt.Errorf("densemap: invalid block size: %d (expected 1<<n with n in 4..27)", o.BlockSize)
	}
	return bits + 3, nil
}
