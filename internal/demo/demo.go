// Package demo shows generated items in a collection that can be scrolled
// and reordered by dragging. The order is persisted to a store.
package demo

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/xqrs/gridview"
	"github.com/xqrs/gridview/clock"
	"github.com/xqrs/gridview/internal/config"
	"github.com/xqrs/gridview/internal/store"
	"github.com/xqrs/gridview/reuse"
)

// OrderName is the name the item order is saved under.
const OrderName = "demo"

// Demo ties a collection of generated items to a store.
type Demo struct {
	logger   *slog.Logger
	store    *store.Store
	provider *gridview.ArrayProvider[Item]

	Collection *gridview.Collection
	root       *root
}

// New builds the demo. Timers, such as the long press and the pool purge,
// run on scheduler.
func New(cfg *config.Config, logger *slog.Logger, s *store.Store, scheduler clock.Scheduler) (*Demo, error) {
	items := Generate(cfg.Items)
	order, err := s.Order(OrderName)
	if err != nil {
		return nil, err
	}
	items = store.Arrange(items, func(item Item) string { return item.ID }, order)

	pool := reuse.New[gridview.Primitive](
		reuse.WithScheduler(scheduler),
		reuse.WithPurgeFunc(func(n int) {
			logger.Debug("purged idle views", "count", n)
		}),
	)
	collection := gridview.NewCollection().
		SetScheduler(scheduler).
		SetReusePool(pool).
		SetLogger(logger)
	d := &Demo{
		logger:     logger,
		store:      s,
		Collection: collection,
	}
	cfg.Apply(d.Collection)

	itemLayout, err := layoutFor(cfg, func(index int) Item { return d.provider.Item(index) })
	if err != nil {
		return nil, err
	}
	chat := cfg.Layout == config.LayoutChat

	d.provider = gridview.NewArrayProvider(items, func(item Item, index int) gridview.Primitive {
		return gridview.DequeueView(d.Collection, gridview.NewTextCell)
	}).
		SetLayout(itemLayout).
		SetInsets(gridview.Insets{Top: 1, Bottom: 1, Left: 1, Right: 1}).
		SetIdentifierFunc(func(item Item, index int) string { return item.ID }).
		SetSizeFunc(func(item Item, width int) image.Point {
			return itemSize(cfg.Layout, item, width)
		}).
		SetUpdateFunc(func(view gridview.Primitive, item Item, index int) {
			if cell, ok := view.(*gridview.TextCell); ok {
				bind(cell, item, chat && item.Message.Tile)
			}
		})

	d.root = newRoot(d.Collection)
	d.Collection.
		SetWillDragFunc(func(view gridview.Primitive, index int) bool {
			return true
		}).
		SetMoveItemFunc(d.moveItem).
		SetDidDragFunc(func(view gridview.Primitive, index int) {
			d.setStatus(fmt.Sprintf("dropped %s at %d", d.provider.Item(index).Title, index+1))
		}).
		SetTapFunc(func(view gridview.Primitive, index int) {
			d.setStatus(fmt.Sprintf("tapped %s", d.provider.Item(index).Title))
		}).
		SetDidReloadFunc(func(stats gridview.ReloadStats) {
			logger.Debug("reloaded", "stats", stats)
		})
	d.Collection.SetProvider(d.provider)
	return d, nil
}

// Root returns the primitive to show on the screen.
func (d *Demo) Root() gridview.Primitive {
	return d.root
}

// Items returns the items in their current order.
func (d *Demo) Items() []Item {
	return d.provider.Items()
}

func (d *Demo) setStatus(status string) {
	d.root.help.SetStatus(status)
}

// moveItem reorders the items and saves the new order.
func (d *Demo) moveItem(from, to int) bool {
	if !d.provider.Move(from, to) {
		return false
	}
	items := d.provider.Items()
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	if err := d.store.SaveOrder(OrderName, ids); err != nil {
		d.logger.Error("failed to save order", "error", err)
	}
	d.logger.Info("moved item", "id", items[to].ID, "from", from, "to", to)
	return true
}

// Run shows the demo on the terminal until it is quit.
func Run(cfg *config.Config) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return errors.New("demo: stdout is not a terminal")
	}
	logger, closeLog, err := OpenLog(cfg)
	if err != nil {
		return err
	}
	defer closeLog.Close()

	s, err := store.Open(cfg.StorePath)
	if err != nil {
		return err
	}
	app := gridview.NewApplication()
	d, err := New(cfg, logger, s, app)
	if err != nil {
		return err
	}
	logger.Info("starting", "items", cfg.Items, "layout", cfg.Layout, "store", s.BasePath())
	app.AddAnimator(d.Collection).SetRoot(d.Root())
	if err := app.Run(); err != nil {
		return fmt.Errorf("demo: %w", err)
	}
	logger.Info("stopped", "visibility", d.Collection.VisibilityStats())
	return nil
}

// OpenLog opens the log file of cfg for appending and returns a logger
// writing to it at the configured level.
func OpenLog(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("demo: log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("demo: open log: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), f, nil
}
