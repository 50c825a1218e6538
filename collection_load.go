package gridview

// loadCells brings the visible views in line with the active rect after a
// scroll, without querying the provider for geometry.
func (c *Collection) loadCells() {
	if c.loading || c.reloading || !c.hasReloaded || c.provider == nil {
		return
	}
	c.loading = true
	defer func() {
		c.loading = false
	}()

	var pinned []int
	for view := range c.floating {
		if index, ok := c.views.index(view); ok {
			pinned = append(pinned, index)
		}
	}
	visible := c.index.Visible(c.activeRect(), pinned...)
	wanted := make(map[int]struct{}, len(visible))
	for _, index := range visible {
		wanted[index] = struct{}{}
	}

	for _, index := range c.views.indexes() {
		if _, ok := wanted[index]; !ok {
			c.disappear(index)
		}
	}
	for _, index := range visible {
		if _, ok := c.views.view(index); !ok {
			c.appear(index)
		}
	}
	c.updateVisible()
}

// appear asks the provider for the view of a newly visible item and inserts
// it. It reports whether a view was inserted.
func (c *Collection) appear(index int) bool {
	view := c.provider.View(index)
	if view == nil {
		panic("gridview: provider returned a nil view")
	}
	if _, ok := c.views.index(view); ok {
		return false
	}
	c.updateItem(view, index)
	c.views.insert(index, view)
	c.insertItem(view, index)
	c.presenter.Insert(view, index, c.frames[index])
	return true
}

// disappear retires the view of an item that left the active rect.
func (c *Collection) disappear(index int) {
	view, ok := c.views.removeIndex(index)
	if !ok {
		return
	}
	c.presenter.Delete(view, index, c.frames[index])
	c.stack.Remove(view)
	c.pool.Queue(view)
}

// insertItem places a view in the item layer right below the view of the
// nearest visible item with a higher index, so that later items draw on top.
func (c *Collection) insertItem(view Primitive, index int) {
	for _, other := range c.views.indexes() {
		if other <= index {
			continue
		}
		sibling, _ := c.views.view(other)
		if layer, ok := c.stack.LayerOf(sibling); ok && layer == itemsLayer {
			c.stack.InsertBelow(itemsLayer, view, sibling)
			return
		}
	}
	c.stack.Append(itemsLayer, view)
}
