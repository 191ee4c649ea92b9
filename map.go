package densemap

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/golang/snappy"
)

// Map instances associate dense int64 keys with small values in
// 0..MaxValue. Instances are not safe for concurrent use; callers
// requiring concurrency must serialise access externally.
type Map struct {
	blocks []block
	frozen []bool

	blockSize int
	keyBits   uint
	keyMask   int64

	puts, gets uint64
	statsLog   io.Writer
}

// New creates a Map with the given options.
func New(o *Options) (*Map, error) {
	o = o.norm()

	bits, err := o.keyBits()
	if err != nil {
		return nil, err
	}

	return &Map{
		blockSize: o.BlockSize,
		keyBits:   bits,
		keyMask:   int64(1)<<bits - 1,
		statsLog:  o.StatsLog,
	}, nil
}

// Put associates a value in 0..MaxValue with a key. Keys are expected
// to be non-negative; the behaviour for negative keys is undefined.
func (m *Map) Put(key int64, value int) error {
	m.puts++

	if value < 0 || value > MaxValue {
		return fmt.Errorf("densemap: value out of range (0..%d): %d", MaxValue, value)
	}

	blockNum := int(key >> m.keyBits)
	offset := int(key & m.keyMask)

	var b block
	if blockNum < len(m.blocks) {
		b = m.blocks[blockNum]
	}

	width := 1
	if b == nil {
		b = newBlock(m.blockSize)
		for len(m.blocks) <= blockNum {
			m.blocks = append(m.blocks, nil)
			m.frozen = append(m.frozen, false)
		}
		m.blocks[blockNum] = b
	} else {
		if m.frozen[blockNum] {
			var err error
			if b, err = m.thaw(blockNum); err != nil {
				return err
			}
		}
		width = b.width(m.blockSize)
	}

	v := byte(value + 1) // 0 is reserved (=unset)
	code, ok := b.findCode(v, width)
	if !ok {
		b = b.expand(m.blockSize, width)
		b[code] = v
		m.blocks[blockNum] = b
		width++
	}

	b.setCode(m.blockSize, width, offset, code)
	return nil
}

// Get retrieves the value stored for a key, or -1 when no value was
// recorded. Negative keys always yield -1.
func (m *Map) Get(key int64) int {
	if m.gets == 0 && m.statsLog != nil {
		_ = m.WriteStats(m.statsLog)
	}
	m.gets++

	if key < 0 {
		return -1
	}

	blockNum := int(key >> m.keyBits)
	if blockNum >= len(m.blocks) {
		return -1
	}

	b := m.blocks[blockNum]
	if b == nil {
		return -1
	}

	pooled := false
	if m.frozen[blockNum] {
		size, err := snappy.DecodedLen(b)
		if err != nil {
			return -1
		}
		plain := fetchBuffer(size)
		if plain, err = snappy.Decode(plain, b); err != nil {
			releaseBuffer(plain)
			return -1
		}
		b, pooled = plain, true
	}

	width := b.width(m.blockSize)
	value := int(b[b.code(m.blockSize, width, int(key&m.keyMask))]) - 1
	if pooled {
		releaseBuffer(b)
	}
	return value
}

// Compress shrinks the memory footprint of the map by freezing every
// existing block in its snappy-compressed form, provided compression
// actually wins. Reads decompress transparently through a scratch
// buffer; a subsequent Put into a frozen block thaws it again. Intended
// for seed-then-lookup workloads where the key space is populated once
// before the read phase begins.
func (m *Map) Compress() {
	for i, b := range m.blocks {
		if b == nil || m.frozen[i] {
			continue
		}
		if snp := snappy.Encode(nil, b); len(snp) < len(b)-len(b)/4 {
			m.blocks[i] = snp
			m.frozen[i] = true
		}
	}
}

func (m *Map) thaw(blockNum int) (block, error) {
	size, err := snappy.DecodedLen(m.blocks[blockNum])
	if err != nil {
		return nil, err
	}

	plain, err := snappy.Decode(make([]byte, size), m.blocks[blockNum])
	if err != nil {
		return nil, err
	}

	m.blocks[blockNum] = plain
	m.frozen[blockNum] = false
	return block(plain), nil
}

// --------------------------------------------------------------------

// Stats are point-in-time map diagnostics. They are informational and
// carry no semantic weight.
type Stats struct {
	Puts   uint64 // number of Put calls
	Gets   uint64 // number of Get calls
	Blocks int    // number of allocated blocks

	// BlocksByWidth counts allocated blocks by their current width,
	// indexed by width-1.
	BlocksByWidth [8]int

	// ByteSize is the total physical size of all blocks in bytes.
	ByteSize int64
}

// Stats returns point-in-time diagnostics.
func (m *Map) Stats() Stats {
	stats := Stats{Puts: m.puts, Gets: m.gets}
	for i, b := range m.blocks {
		if b == nil {
			continue
		}
		stats.Blocks++
		stats.ByteSize += int64(len(b))

		size := len(b)
		if m.frozen[i] {
			if n, err := snappy.DecodedLen(b); err == nil {
				size = n
			}
		}
		stats.BlocksByWidth[widthForSize(m.blockSize, size)-1]++
	}
	return stats
}

// WriteStats writes a human-readable statistics report to w.
func (m *Map) WriteStats(w io.Writer) error {
	stats := m.Stats()

	buf := new(bytes.Buffer)
	fmt.Fprintln(buf, "**** densemap stats ****")
	fmt.Fprintf(buf, "puts=%d\n", stats.Puts)
	fmt.Fprintf(buf, "gets=%d\n", stats.Gets)
	fmt.Fprintf(buf, "blocks=%d (%d bytes)\n", stats.Blocks, stats.ByteSize)
	for i, n := range stats.BlocksByWidth {
		fmt.Fprintf(buf, "%d-bit blocks=%d\n", i+1, n)
	}
	fmt.Fprintln(buf, "************************")

	_, err := w.Write(buf.Bytes())
	return err
}

// --------------------------------------------------------------------

var bufPool sync.Pool

func fetchBuffer(sz int) []byte {
	if v := bufPool.Get(); v != nil {
		if p := v.([]byte); sz <= cap(p) {
			return p[:sz]
		}
	}
	return make([]byte, sz)
}

func releaseBuffer(p []byte) {
	if cap(p) != 0 {
		bufPool.Put(p)
	}
}
