package gridview

import "strconv"

// identifierMap maps item identifiers to indexes and back for one reload.
type identifierMap struct {
	byID    map[string]int
	byIndex []string
}

// renamedIdentifier records a duplicate identifier that was disambiguated.
type renamedIdentifier struct {
	Index int
	From  string
	To    string
}

// buildIdentifiers collects the identifiers of count items. A duplicate gets
// the smallest numeric suffix, starting at 2, that is still free, so
// "a", "a", "a" become "a", "a2", "a3".
func buildIdentifiers(count int, identifier func(index int) string) (identifierMap, []renamedIdentifier) {
	m := identifierMap{
		byID:    make(map[string]int, count),
		byIndex: make([]string, count),
	}
	var renamed []renamedIdentifier
	for index := range count {
		id := identifier(index)
		if _, taken := m.byID[id]; taken {
			original := id
			for n := 2; ; n++ {
				id = original + strconv.Itoa(n)
				if _, taken := m.byID[id]; !taken {
					break
				}
			}
			renamed = append(renamed, renamedIdentifier{Index: index, From: original, To: id})
		}
		m.byID[id] = index
		m.byIndex[index] = id
	}
	return m, renamed
}

func (m identifierMap) index(id string) (int, bool) {
	index, ok := m.byID[id]
	return index, ok
}

func (m identifierMap) identifier(index int) (string, bool) {
	if index < 0 || index >= len(m.byIndex) {
		return "", false
	}
	return m.byIndex[index], true
}

func (m identifierMap) len() int {
	return len(m.byIndex)
}
