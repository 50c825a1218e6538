package gridview

import (
	"cmp"
	"image"
	"log/slog"
	"slices"
)

// ReloadStats summarizes what a reload did to the visible views.
type ReloadStats struct {
	// Items is the number of items after the reload.
	Items int
	// Inserted and Deleted count views that appeared and disappeared.
	Inserted, Deleted int
	// Moved counts continuing views whose index changed, Kept those whose
	// index stayed the same.
	Moved, Kept int
	// Renamed counts duplicate identifiers that were disambiguated.
	Renamed int
	// OffsetDelta is how far the content offset moved during the reload.
	OffsetDelta image.Point
}

// LogValue implements slog.LogValuer.
func (s ReloadStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("items", s.Items),
		slog.Int("inserted", s.Inserted),
		slog.Int("deleted", s.Deleted),
		slog.Int("moved", s.Moved),
		slog.Int("kept", s.Kept),
		slog.Int("renamed", s.Renamed),
		slog.String("offset_delta", s.OffsetDelta.String()),
	)
}

// ReloadData queries the provider for all items and reconciles the visible
// views with the new data. Views of items whose identifier survives the
// reload are kept and updated in place, views of removed items are retired
// into the reuse pool and views for new items are requested from the
// provider.
//
// If adjust is not nil it is called once the new content size is known and
// its result becomes the new content offset. Continuing views are shifted by
// the offset change so they stay where they were on screen until the
// presenter moves them.
//
// ReloadData does nothing without a provider or when called while a reload
// is in progress.
func (c *Collection) ReloadData(adjust func() image.Point) {
	if c.provider == nil || c.reloading {
		return
	}
	c.reloading = true
	defer func() {
		c.reloading = false
	}()

	if observer, ok := c.provider.(ReloadObserver); ok {
		observer.WillReload()
	}
	if preparer, ok := c.provider.(LayoutPreparer); ok {
		preparer.PrepareLayout(c.scroll.viewport)
	}

	count := max(c.provider.ItemCount(), 0)
	var insets Insets
	if p, ok := c.provider.(InsetsProvider); ok {
		insets = p.Insets()
	}

	frames := make([]image.Rectangle, count)
	for i := range count {
		frames[i] = c.provider.Frame(i)
	}
	ids, renamed := buildIdentifiers(count, c.provider.Identifier)
	for _, r := range renamed {
		c.logger.Warn("duplicate item identifier", "index", r.Index, "identifier", r.From, "renamed", r.To)
	}

	content := unionWithOrigin(frames).Size().Add(insets.Size())
	content = image.Pt(max(content.X, c.minContent.X), max(content.Y, c.minContent.Y))
	leading := insets.Leading()
	for i := range frames {
		frames[i] = frames[i].Add(leading)
	}

	oldFrames, oldIDs, oldViews := c.frames, c.ids, c.views

	c.frames = frames
	c.ids = ids
	c.index.Reload(frames)
	c.contentSize = content

	oldOffset := c.scroll.point()
	c.scroll.resize(content, c.scroll.viewport)
	if adjust != nil {
		c.scroll.setOffset(vectorOf(adjust()))
	}
	delta := c.scroll.point().Sub(oldOffset)
	c.syncLayers()

	// Floating views stay visible wherever their item went. Those whose item
	// is gone sink back into the item layer and are deleted below.
	var pinned []int
	for view := range c.floating {
		if index, ok := c.resolve(oldViews, oldIDs, view); ok {
			pinned = append(pinned, index)
			continue
		}
		c.sink(view)
	}

	visible := c.index.Visible(c.activeRect(), pinned...)
	newVisible := make(map[int]struct{}, len(visible))
	for _, index := range visible {
		newVisible[index] = struct{}{}
	}

	type continuing struct {
		view     Primitive
		from, to int
	}
	var kept []continuing
	var deleted []int
	survivors := make(map[int]struct{}, oldViews.len())
	for _, from := range oldViews.indexes() {
		view, _ := oldViews.view(from)
		if to, ok := c.resolve(oldViews, oldIDs, view); ok {
			if _, ok := newVisible[to]; ok {
				kept = append(kept, continuing{view: view, from: from, to: to})
				survivors[to] = struct{}{}
				continue
			}
		}
		deleted = append(deleted, from)
	}
	slices.SortFunc(kept, func(a, b continuing) int {
		return cmp.Compare(a.to, b.to)
	})

	stats := ReloadStats{Items: count, Renamed: len(renamed), OffsetDelta: delta}

	for _, from := range deleted {
		view, _ := oldViews.view(from)
		var frame image.Rectangle
		if from < len(oldFrames) {
			frame = oldFrames[from]
		}
		c.presenter.Delete(view, from, frame)
		c.stack.Remove(view)
		c.pool.Queue(view)
		stats.Deleted++
	}

	c.generation++
	c.views = newViewMap(c.generation)
	for _, k := range kept {
		if !c.IsFloating(k.view) {
			moveBy(k.view, delta)
		}
		c.views.insert(k.to, k.view)
		c.updateItem(k.view, k.to)
		if k.from == k.to {
			stats.Kept++
		} else {
			stats.Moved++
		}
	}

	for _, index := range visible {
		if _, ok := survivors[index]; ok {
			continue
		}
		if c.appear(index) {
			stats.Inserted++
		}
	}

	c.updateVisible()
	c.stack.Sort(itemsLayer, func(a, b Primitive) int {
		ia, _ := c.views.index(a)
		ib, _ := c.views.index(b)
		return cmp.Compare(ia, ib)
	})

	c.hasReloaded = true
	c.cursor = clamp(c.cursor, 0, max(count-1, 0))
	c.lastReload = stats
	c.logger.Debug("reloaded", "stats", stats, "generation", c.generation)

	if observer, ok := c.provider.(ReloadObserver); ok {
		observer.DidReload()
	}
	if c.didReload != nil {
		c.didReload(stats)
	}
}

// resolve finds the index a view of the previous generation has after the
// current identifiers were built.
func (c *Collection) resolve(oldViews viewMap, oldIDs identifierMap, view Primitive) (int, bool) {
	from, ok := oldViews.index(view)
	if !ok {
		return 0, false
	}
	id, ok := oldIDs.identifier(from)
	if !ok {
		return 0, false
	}
	return c.ids.index(id)
}

// updateItem hands the view its current index.
func (c *Collection) updateItem(view Primitive, index int) {
	if updater, ok := c.provider.(ItemUpdater); ok {
		updater.UpdateItem(view, index)
	}
}

// updateVisible asks the presenter to move every visible, non-floating view
// to its frame.
func (c *Collection) updateVisible() {
	for _, index := range c.views.indexes() {
		view, _ := c.views.view(index)
		if c.IsFloating(view) {
			continue
		}
		c.presenter.Update(view, index, c.frames[index])
	}
}

// HasReloaded reports whether at least one reload has completed.
func (c *Collection) HasReloaded() bool {
	return c.hasReloaded
}

// LastReload returns the statistics of the most recent reload.
func (c *Collection) LastReload() ReloadStats {
	return c.lastReload
}

// Generation returns a counter incremented by every reload. Indexes are only
// meaningful within the generation they were obtained in.
func (c *Collection) Generation() uint64 {
	return c.generation
}

// ItemCount returns the number of items as of the last reload.
func (c *Collection) ItemCount() int {
	return len(c.frames)
}

// ContentSize returns the size of the content as of the last reload.
func (c *Collection) ContentSize() image.Point {
	return c.contentSize
}

// Frame returns the frame of the item at index in content coordinates.
func (c *Collection) Frame(index int) (image.Rectangle, bool) {
	if index < 0 || index >= len(c.frames) {
		return image.Rectangle{}, false
	}
	return c.frames[index], true
}

// IndexAt returns the index of the first item whose frame contains the
// content point.
func (c *Collection) IndexAt(point image.Point) (int, bool) {
	for index, frame := range c.frames {
		if point.In(frame) {
			return index, true
		}
	}
	return 0, false
}

// IndexOf returns the index the visible view represents. It panics when
// called during a reload, as indexes are in flux.
func (c *Collection) IndexOf(view Primitive) (int, bool) {
	if c.reloading {
		panic("gridview: IndexOf called during reload")
	}
	return c.views.index(view)
}

// ViewAt returns the view of the item at index if it is visible.
func (c *Collection) ViewAt(index int) (Primitive, bool) {
	return c.views.view(index)
}

// VisibleIndexes returns the indexes of all items that have a view, in
// ascending order.
func (c *Collection) VisibleIndexes() []int {
	return c.views.indexes()
}

// VisibleViews returns the views of all visible items ordered by index.
func (c *Collection) VisibleViews() []Primitive {
	indexes := c.views.indexes()
	views := make([]Primitive, 0, len(indexes))
	for _, index := range indexes {
		view, _ := c.views.view(index)
		views = append(views, view)
	}
	return views
}
