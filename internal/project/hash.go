package project

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Digest is the content hash of a source file.
type Digest uint64

func HashSource(text string) Digest {
	return Digest(xxhash.Sum64String(text))
}

// Combine строит хеш модуля: H(content || dep1 || dep2 ...).
// Порядок deps должен быть детерминированным.
func Combine(content Digest, deps ...Digest) Digest {
	h := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(content))
	_, _ = h.Write(buf[:])
	for _, d := range deps {
		binary.LittleEndian.PutUint64(buf[:], uint64(d))
		_, _ = h.Write(buf[:])
	}
	return Digest(h.Sum64())
}
