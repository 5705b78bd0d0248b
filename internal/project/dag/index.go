package dag

import (
	"slices"

	"wgslsp/internal/module"
)

type ModuleID uint32

type ModuleIndex struct {
	NameToID map[string]ModuleID
	IDToName []string
}

// собрать имена объявленных модулей, отсортировать, раздать ID по порядку.
// Импорты в индекс не попадают: недостающий модуль найдёт workspace.
func BuildIndex(headers []module.Header) ModuleIndex {
	uniq := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		if h.Name != "" {
			uniq[h.Name] = struct{}{}
		}
	}
	names := make([]string, 0, len(uniq))
	for name := range uniq {
		names = append(names, name)
	}
	slices.Sort(names)

	nameToID := make(map[string]ModuleID, len(names))
	for i, name := range names {
		nameToID[name] = ModuleID(i)
	}
	return ModuleIndex{NameToID: nameToID, IDToName: names}
}

// Resolve maps an import name to a module, falling back from `a::b::x` to
// `a::b` like the workspace does.
func (idx ModuleIndex) Resolve(name string) (ModuleID, bool) {
	if id, ok := idx.NameToID[name]; ok {
		return id, true
	}
	if cut := lastSep(name); cut > 0 {
		id, ok := idx.NameToID[name[:cut]]
		return id, ok
	}
	return 0, false
}

func lastSep(name string) int {
	for i := len(name) - 2; i >= 0; i-- {
		if name[i] == ':' && name[i+1] == ':' {
			return i
		}
	}
	return -1
}
