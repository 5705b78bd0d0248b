package source

import (
	"bytes"
	"strings"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// Decode turns raw file bytes into document text, dropping a UTF-8 BOM.
// Line endings are kept so offsets agree with what editors send.
func Decode(content []byte) string {
	return string(bytes.TrimPrefix(content, bom))
}

// buildLineIndex returns the offset of every '\n' in content.
func buildLineIndex(content string) []uint32 {
	out := make([]uint32, 0, strings.Count(content, "\n"))
	for off := 0; ; {
		i := strings.IndexByte(content[off:], '\n')
		if i < 0 {
			return out
		}
		out = append(out, SafeUint32(off+i))
		off += i + 1
	}
}
