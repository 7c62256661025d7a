/*
Package backends provides the document stores the mock keeps its resources in.
Backends need only be k/v stores grouped by kind. The in-memory provider is
the default and useful for testing.
*/
package backends

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/TykTechnologies/asana-mock/asana"
)

// InMemoryBackend implements asana.Store and keeps every document in memory
type InMemoryBackend struct {
	mu sync.RWMutex
	kv map[string]map[string][]byte
}

// Init will create the initial in-memory store structures
func (m *InMemoryBackend) Init(config interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kv = make(map[string]map[string][]byte)
	return nil
}

// SetKey will set the value of a key in the map
func (m *InMemoryBackend) SetKey(kind, key string, val interface{}) error {
	asByte, err := json.Marshal(val)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.kv == nil {
		return errors.New("store not initialised")
	}
	if m.kv[kind] == nil {
		m.kv[kind] = make(map[string][]byte)
	}
	m.kv[kind][key] = asByte
	return nil
}

// GetKey will decode the value of a key into target
func (m *InMemoryBackend) GetKey(kind, key string, target interface{}) error {
	m.mu.RLock()
	v, ok := m.kv[kind][key]
	m.mu.RUnlock()

	if !ok {
		return asana.ErrNotFound
	}
	return json.Unmarshal(v, target)
}

// GetAll decodes every document of a kind into target, a pointer to a slice
func (m *InMemoryBackend) GetAll(kind string, target interface{}) error {
	m.mu.RLock()
	docs := make([][]byte, 0, len(m.kv[kind]))
	for _, v := range m.kv[kind] {
		docs = append(docs, v)
	}
	m.mu.RUnlock()

	return decodeAll(docs, target)
}

// DeleteKey will remove a key from the map
func (m *InMemoryBackend) DeleteKey(kind, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.kv[kind][key]; !ok {
		return asana.ErrNotFound
	}
	delete(m.kv[kind], key)
	return nil
}
