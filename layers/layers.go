package layers

import (
	"image"
	"slices"

	"github.com/gdamore/tcell/v2"
)

// Item is anything a layer can hold and draw.
type Item interface {
	comparable
	Draw(screen tcell.Screen)
}

// layer represents one layer of a Layers object.
type layer[T Item] struct {
	name    string          // The layer's name.
	items   []T             // Back to front.
	origin  image.Point     // Screen position of the layer's coordinate origin.
	clip    image.Rectangle // Screen-space clip. Empty means unclipped.
	visible bool            // Whether or not this layer is drawn.
	overlay bool            // Whether this layer applies a background style to layers behind it.
}

// Layers is a stack of named layers, each holding an ordered list of items
// drawn from back to front in the layer's own coordinate space. An overlay
// layer that holds items applies a background style to the layers behind it.
type Layers[T Item] struct {
	// The contained layers. (Visible) layers are drawn from back to front.
	layers []*layer[T]
	// The style applied to layers behind the active overlay layer.
	backgroundLayerStyle tcell.Style
	// Which layer each item lives in.
	owner map[T]*layer[T]
}

type layerOptions struct {
	visible bool
	overlay bool
	origin  image.Point
	clip    image.Rectangle
}

// Option configures a layer on AddLayer.
type Option func(*layerOptions)

// WithVisible sets the initial visibility of the layer.
func WithVisible(visible bool) Option {
	return func(o *layerOptions) {
		o.visible = visible
	}
}

// WithOverlay marks this layer as an overlay layer.
func WithOverlay() Option {
	return func(o *layerOptions) {
		o.overlay = true
	}
}

// WithOrigin sets the screen position of the layer's origin.
func WithOrigin(origin image.Point) Option {
	return func(o *layerOptions) {
		o.origin = origin
	}
}

// WithClip restricts drawing to the given screen rectangle.
func WithClip(clip image.Rectangle) Option {
	return func(o *layerOptions) {
		o.clip = clip
	}
}

// New returns a new Layers object.
func New[T Item]() *Layers[T] {
	return &Layers[T]{owner: make(map[T]*layer[T])}
}

// AddLayer adds a new empty layer on top. A layer with the same name is
// replaced and its items are released.
func (l *Layers[T]) AddLayer(name string, opts ...Option) *Layers[T] {
	o := layerOptions{visible: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	l.RemoveLayer(name)
	l.layers = append(l.layers, &layer[T]{
		name:    name,
		origin:  o.origin,
		clip:    o.clip,
		visible: o.visible,
		overlay: o.overlay,
	})
	return l
}

// RemoveLayer removes the layer with the given name together with its items.
func (l *Layers[T]) RemoveLayer(name string) *Layers[T] {
	for index, ly := range l.layers {
		if ly.name == name {
			for _, item := range ly.items {
				delete(l.owner, item)
			}
			l.layers = append(l.layers[:index], l.layers[index+1:]...)
			break
		}
	}
	return l
}

// GetLayerCount returns the number of layers currently stored in this object.
func (l *Layers[T]) GetLayerCount() int {
	return len(l.layers)
}

// GetLayerNames returns all layer names ordered from front to back.
func (l *Layers[T]) GetLayerNames() []string {
	names := make([]string, 0, len(l.layers))
	for index := len(l.layers) - 1; index >= 0; index-- {
		names = append(names, l.layers[index].name)
	}
	return names
}

func (l *Layers[T]) find(name string) *layer[T] {
	for _, ly := range l.layers {
		if ly.name == name {
			return ly
		}
	}
	return nil
}

// HasLayer returns true if a layer with the given name exists in this object.
func (l *Layers[T]) HasLayer(name string) bool {
	return l.find(name) != nil
}

// SetVisible shows or hides a layer.
func (l *Layers[T]) SetVisible(name string, visible bool) *Layers[T] {
	if ly := l.find(name); ly != nil {
		ly.visible = visible
	}
	return l
}

// GetVisible returns whether the given layer is visible.
func (l *Layers[T]) GetVisible(name string) bool {
	if ly := l.find(name); ly != nil {
		return ly.visible
	}
	return false
}

// SetOrigin moves the layer's coordinate origin to the given screen position.
func (l *Layers[T]) SetOrigin(name string, origin image.Point) *Layers[T] {
	if ly := l.find(name); ly != nil {
		ly.origin = origin
	}
	return l
}

// GetOrigin returns the screen position of the layer's origin.
func (l *Layers[T]) GetOrigin(name string) image.Point {
	if ly := l.find(name); ly != nil {
		return ly.origin
	}
	return image.Point{}
}

// SetClip sets the screen rectangle the layer is clipped to.
func (l *Layers[T]) SetClip(name string, clip image.Rectangle) *Layers[T] {
	if ly := l.find(name); ly != nil {
		ly.clip = clip
	}
	return l
}

// SetBackgroundLayerStyle sets the style applied to layers behind the active
// overlay layer.
func (l *Layers[T]) SetBackgroundLayerStyle(style tcell.Style) *Layers[T] {
	l.backgroundLayerStyle = style
	return l
}

// Append puts item on top of the given layer. An item already held by any
// layer is moved.
func (l *Layers[T]) Append(name string, item T) bool {
	ly := l.find(name)
	if ly == nil {
		return false
	}
	l.Remove(item)
	ly.items = append(ly.items, item)
	l.owner[item] = ly
	return true
}

// InsertBelow puts item directly below sibling. If sibling is not in the
// layer, item is appended on top.
func (l *Layers[T]) InsertBelow(name string, item, sibling T) bool {
	ly := l.find(name)
	if ly == nil {
		return false
	}
	l.Remove(item)
	at := slices.Index(ly.items, sibling)
	if at < 0 {
		ly.items = append(ly.items, item)
	} else {
		ly.items = slices.Insert(ly.items, at, item)
	}
	l.owner[item] = ly
	return true
}

// Remove detaches item from whichever layer holds it.
func (l *Layers[T]) Remove(item T) bool {
	ly, ok := l.owner[item]
	if !ok {
		return false
	}
	if at := slices.Index(ly.items, item); at >= 0 {
		ly.items = slices.Delete(ly.items, at, at+1)
	}
	delete(l.owner, item)
	return true
}

// LayerOf returns the name of the layer holding item.
func (l *Layers[T]) LayerOf(item T) (string, bool) {
	ly, ok := l.owner[item]
	if !ok {
		return "", false
	}
	return ly.name, true
}

// Items returns a copy of the layer's items, back to front.
func (l *Layers[T]) Items(name string) []T {
	if ly := l.find(name); ly != nil {
		return slices.Clone(ly.items)
	}
	return nil
}

// Sort restacks the items of a layer, back to front, using cmp.
func (l *Layers[T]) Sort(name string, cmp func(a, b T) int) {
	if ly := l.find(name); ly != nil {
		slices.SortStableFunc(ly.items, cmp)
	}
}

// Draw draws all visible layers from back to front.
func (l *Layers[T]) Draw(screen tcell.Screen) {
	overlayIndex := l.topOverlayIndex()
	var ovScreen *overlayScreen
	if overlayIndex >= 0 {
		ovScreen = newOverlayScreen(screen, l.backgroundLayerStyle)
	}
	for index, ly := range l.layers {
		if !ly.visible || len(ly.items) == 0 {
			continue
		}
		var base tcell.Screen = screen
		if ovScreen != nil && index < overlayIndex {
			// Draw lower layers through the overlay screen so only the touched
			// cells get styled (avoids a full-screen pass).
			base = ovScreen
		}
		layerScreen := newLayerScreen(base, ly.origin, ly.clip)
		for _, item := range ly.items {
			item.Draw(layerScreen)
		}
	}
}

// topOverlayIndex returns the index of the top-most visible overlay layer
// that holds items. Only one overlay is applied at a time.
func (l *Layers[T]) topOverlayIndex() int {
	for index := len(l.layers) - 1; index >= 0; index-- {
		ly := l.layers[index]
		if ly.visible && ly.overlay && len(ly.items) > 0 {
			return index
		}
	}
	return -1
}
