package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Stash is a user's owned items keyed by name. Iteration and JSON encoding
// follow insertion order; overwriting a name keeps its original position.
type Stash struct {
	names []string
	items map[string]Item
}

// NewStash creates a stash holding items in the given order
func NewStash(items ...Item) Stash {
	var s Stash
	for _, item := range items {
		s.Put(item)
	}
	return s
}

// Len returns the number of items in the stash
func (s Stash) Len() int {
	return len(s.names)
}

// Has reports whether an item with this name is in the stash
func (s Stash) Has(name string) bool {
	_, ok := s.items[name]
	return ok
}

// Get returns the item stored under name
func (s Stash) Get(name string) (Item, bool) {
	item, ok := s.items[name]
	return item, ok
}

// Put inserts or overwrites item under its name
func (s *Stash) Put(item Item) {
	if s.items == nil {
		s.items = make(map[string]Item)
	}
	if _, exists := s.items[item.Name]; !exists {
		s.names = append(s.names, item.Name)
	}
	s.items[item.Name] = item
}

// Remove deletes the item stored under name. It reports whether anything was removed.
func (s *Stash) Remove(name string) bool {
	if _, ok := s.items[name]; !ok {
		return false
	}
	delete(s.items, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i:i], s.names[i+1:]...)
			break
		}
	}
	return true
}

// Items returns the stash contents in insertion order
func (s Stash) Items() []Item {
	out := make([]Item, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, s.items[name])
	}
	return out
}

// Names returns the item names in insertion order
func (s Stash) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Clone returns an independent copy
func (s Stash) Clone() Stash {
	if len(s.names) == 0 {
		return Stash{}
	}
	out := Stash{
		names: make([]string, len(s.names)),
		items: make(map[string]Item, len(s.items)),
	}
	copy(out.names, s.names)
	for k, v := range s.items {
		out.items[k] = v
	}
	return out
}

// MarshalJSON encodes the stash as an object whose keys keep insertion order
func (s Stash) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range s.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s.items[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object of item-name -> item, keeping key order.
// A null value yields an empty stash.
func (s *Stash) UnmarshalJSON(data []byte) error {
	*s = Stash{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("stash: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("stash: expected item name, got %v", tok)
		}
		var item Item
		if err := dec.Decode(&item); err != nil {
			return fmt.Errorf("stash: item '%s': %w", name, err)
		}
		// The key is authoritative for lookups.
		item.Name = name
		s.Put(item)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
