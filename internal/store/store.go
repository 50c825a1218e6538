// Package store persists the order of item collections on disk so that a
// reordering done by dragging survives restarts.
package store

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

const orderPrefix = "order"

// Store keeps one ordered list of item identifiers per named collection.
type Store struct {
	d        *diskv.Diskv
	basePath string
}

// Open opens, creating if needed, the store rooted at basePath.
func Open(basePath string) (*Store, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, errors.New("store: base path required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &Store{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

// BasePath returns the directory the store writes to.
func (s *Store) BasePath() string {
	return s.basePath
}

// Order returns the saved order of a collection. A collection that was never
// saved has no order and no error.
func (s *Store) Order(name string) ([]string, error) {
	key, err := toKey(name)
	if err != nil {
		return nil, err
	}
	if !s.d.Has(key) {
		return nil, nil
	}
	data, err := s.d.Read(key)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", name, err)
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", name, err)
	}
	return ids, nil
}

// SaveOrder replaces the saved order of a collection.
func (s *Store) SaveOrder(name string, ids []string) error {
	key, err := toKey(name)
	if err != nil {
		return err
	}
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", name, err)
	}
	if err := s.d.Write(key, data); err != nil {
		return fmt.Errorf("store: write %s: %w", name, err)
	}
	return nil
}

// Delete forgets the order of a collection.
func (s *Store) Delete(name string) error {
	key, err := toKey(name)
	if err != nil {
		return err
	}
	if !s.d.Has(key) {
		return nil
	}
	if err := s.d.Erase(key); err != nil {
		return fmt.Errorf("store: erase %s: %w", name, err)
	}
	return nil
}

// Names lists the collections with a saved order.
func (s *Store) Names(ctx context.Context) []string {
	var names []string
	for key := range s.d.KeysPrefix(orderPrefix+"-", ctx.Done()) {
		if name, ok := fromKey(key); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Arrange returns items sorted by a saved order. Items the order knows come
// first, in saved order. The rest keep their relative order and follow.
func Arrange[T any](items []T, id func(T) string, order []string) []T {
	rank := make(map[string]int, len(order))
	for i, key := range order {
		if _, dup := rank[key]; !dup {
			rank[key] = i
		}
	}
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		ri, iok := rank[id(out[i])]
		rj, jok := rank[id(out[j])]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		}
		return false
	})
	return out
}

func keyToPathTransform(key string) *diskv.PathKey {
	parts := strings.Split(key, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// toKey makes `order-<name>` with the name hex encoded so it is a valid
// file name without dashes.
func toKey(name string) (string, error) {
	if name == "" {
		return "", errors.New("store: collection name required")
	}
	return fmt.Sprintf("%s-%s", orderPrefix, hex.EncodeToString([]byte(name))), nil
}

func fromKey(key string) (string, bool) {
	encoded, ok := strings.CutPrefix(key, orderPrefix+"-")
	if !ok {
		return "", false
	}
	name, err := hex.DecodeString(encoded)
	if err != nil {
		return "", false
	}
	return string(name), true
}
