package trace

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Level controls which scopes a tracer records.
type Level uint8

const (
	LevelOff Level = iota
	LevelCrash
	LevelRequest
	LevelStage
	LevelModule
)

var levelNames = []string{"off", "crash", "request", "stage", "module"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts the names printed by Level.String, in any case.
func ParseLevel(s string) (Level, error) {
	i := slices.Index(levelNames, strings.ToLower(strings.TrimSpace(s)))
	if i < 0 {
		return LevelOff, zerr.With(zerr.New("invalid trace level"), "level", s)
	}
	return Level(i), nil
}

// covers reports whether a stream at this level writes spans of scope.
// LevelCrash streams nothing.
func (l Level) covers(scope Scope) bool {
	switch l {
	case LevelRequest:
		return scope == ScopeRequest
	case LevelStage:
		return scope <= ScopeStage
	case LevelModule:
		return true
	}
	return false
}

// Scope is the granularity of a span. Smaller is coarser.
type Scope uint8

const (
	ScopeRequest Scope = iota + 1 // LSP request, check run, one validation
	ScopeStage                    // scan, resolve, link, check
	ScopeModule                   // composing one module
)

func (s Scope) String() string {
	switch s {
	case ScopeRequest:
		return "request"
	case ScopeStage:
		return "stage"
	case ScopeModule:
		return "module"
	}
	return "unknown"
}
