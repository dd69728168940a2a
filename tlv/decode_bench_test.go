package tlv

import (
	"testing"
)

func BenchmarkReadHeader(b *testing.B) {
	run := func(data []byte) func(*testing.B) {
		return func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				r := NewReader(data, 0)
				if _, err := r.ReadHeader(); err != nil {
					b.Fatalf("r.ReadHeader() returned an unexpected error: %q", err)
				}
			}
		}
	}

	b.Run("Short", run([]byte{0x02, 0x01}))
	b.Run("Long", run([]byte{0x30, 0x82, 0x03, 0x4D}))
	b.Run("Long4", run([]byte{0x04, 0x84, 0x01, 0x00, 0x00, 0x00}))
}

func BenchmarkAppendLength(b *testing.B) {
	buf := make([]byte, 0, 8)
	for b.Loop() {
		buf = AppendLength(buf[:0], 746)
	}
}
