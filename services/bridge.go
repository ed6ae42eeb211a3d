package services

import (
	"encoding/json"
	"log"
	"sync"
)

// Fixed storage keys shared by the stores. They mirror one namespace entry
// each; renaming one orphans previously saved state.
const (
	KeyLineItems = "quote_line_items"
	KeyCatalog   = "catalog_services"
	KeyIssuer    = "issuer_data"
)

// KV is the durable local storage collaborator: a flat key to serialized
// value store scoped to one device namespace.
type KV interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
	Delete(key string) error
}

// Bridge holds a value in memory and mirrors it to a KV on every change.
// Storage failures are logged and swallowed; the in-memory value stays
// authoritative for the session.
type Bridge[T any] struct {
	kv    KV
	key   string
	value T
}

// NewBridge seeds the bridge from storage, falling back to def when the key
// is absent or the stored blob does not parse.
func NewBridge[T any](kv KV, key string, def T) *Bridge[T] {
	b := &Bridge[T]{kv: kv, key: key, value: def}
	raw, ok := kv.Get(key)
	if !ok {
		return b
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		log.Printf("bridge: %s: stored value does not parse, using default: %v", key, err)
		return b
	}
	b.value = v
	return b
}

// Value returns the current in-memory value.
func (b *Bridge[T]) Value() T {
	return b.value
}

// Set updates the in-memory value and mirrors it to storage.
func (b *Bridge[T]) Set(v T) {
	b.value = v
	raw, err := json.Marshal(v)
	if err != nil {
		log.Printf("bridge: %s: could not serialize value: %v", b.key, err)
		return
	}
	if err := b.kv.Set(b.key, raw); err != nil {
		log.Printf("bridge: %s: could not persist value: %v", b.key, err)
	}
}

// Clear removes the key from storage and resets memory to the zero value.
func (b *Bridge[T]) Clear() {
	var zero T
	b.value = zero
	if err := b.kv.Delete(b.key); err != nil {
		log.Printf("bridge: %s: could not delete stored value: %v", b.key, err)
	}
}

// MemoryKV is an in-process KV used in tests and as a fallback when no
// durable namespace is available.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: map[string][]byte{}}
}

func (m *MemoryKV) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *MemoryKV) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
