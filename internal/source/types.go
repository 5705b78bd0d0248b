package source

// Location is the normalized key of a document. For files on disk it is a
// canonical file:// URI; other schemes are kept verbatim.
type Location string

func (l Location) String() string { return string(l) }

// Position is a zero-based line/character pair. The unit of Character is
// decided by the Encoding used to produce it.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a half-open pair of positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Encoding selects how a line's characters are counted.
type Encoding uint8

const (
	// UTF32 counts Unicode code points (one per character).
	UTF32 Encoding = iota
	// UTF16 counts UTF-16 code units, the protocol's historical default.
	UTF16
	// UTF8 counts raw bytes.
	UTF8
)

func (e Encoding) String() string {
	switch e {
	case UTF16:
		return "utf-16"
	case UTF8:
		return "utf-8"
	default:
		return "utf-32"
	}
}

// ParseEncoding maps a protocol encoding name to an Encoding.
func ParseEncoding(name string) (Encoding, bool) {
	switch name {
	case "utf-32":
		return UTF32, true
	case "utf-16":
		return UTF16, true
	case "utf-8":
		return UTF8, true
	default:
		return UTF32, false
	}
}

// units returns how many encoding units rune r of byte size occupies.
func (e Encoding) units(r rune, size int) int {
	switch e {
	case UTF16:
		if r > 0xFFFF {
			return 2
		}
		return 1
	case UTF8:
		return size
	default:
		return 1
	}
}
