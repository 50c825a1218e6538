package gridview

import (
	"maps"
	"slices"
)

// viewMap is the bidirectional index/view table of the visible items. Both
// directions are only ever changed together. The generation is the reload
// the indexes belong to.
type viewMap struct {
	generation uint64
	byIndex    map[int]Primitive
	byView     map[Primitive]int
}

func newViewMap(generation uint64) viewMap {
	return viewMap{
		generation: generation,
		byIndex:    make(map[int]Primitive),
		byView:     make(map[Primitive]int),
	}
}

// insert maps index to view, replacing any previous entry of either.
func (m *viewMap) insert(index int, view Primitive) {
	m.removeIndex(index)
	m.removeView(view)
	m.byIndex[index] = view
	m.byView[view] = index
}

func (m *viewMap) removeIndex(index int) (Primitive, bool) {
	view, ok := m.byIndex[index]
	if !ok {
		return nil, false
	}
	delete(m.byIndex, index)
	delete(m.byView, view)
	return view, true
}

func (m *viewMap) removeView(view Primitive) (int, bool) {
	index, ok := m.byView[view]
	if !ok {
		return 0, false
	}
	delete(m.byView, view)
	delete(m.byIndex, index)
	return index, true
}

func (m *viewMap) view(index int) (Primitive, bool) {
	view, ok := m.byIndex[index]
	return view, ok
}

func (m *viewMap) index(view Primitive) (int, bool) {
	index, ok := m.byView[view]
	return index, ok
}

// indexes returns the mapped indexes in ascending order.
func (m *viewMap) indexes() []int {
	return slices.Sorted(maps.Keys(m.byIndex))
}

func (m *viewMap) len() int {
	return len(m.byIndex)
}
