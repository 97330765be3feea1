package text

import (
	"errors"
	"fmt"
	"hash/fnv"
)

// Registry owns a set of loaded font faces, keyed both by caller-chosen
// name and by content identity. The first face ever registered becomes the
// default and stays the default until the registry is rebuilt:
// first-registered-wins, deterministically.
//
// Registry is not safe for concurrent use; the engine lock serializes
// access like everything else in the scene.
type Registry struct {
	byName   map[string]*Face
	byHash   map[uint64]*Face
	fallback *Face
}

// ErrUnknownFont is returned by Lookup for a name never registered.
var ErrUnknownFont = errors.New("text: unknown font")

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Face),
		byHash: make(map[uint64]*Face),
	}
}

// Register parses font data and adds it under name. Registering bytes that
// hash identically to an already loaded face reuses that face (two loads of
// the same font are the same font, wherever the bytes live); the name
// becomes an alias. Re-registering an existing name with different content
// is an error.
func (r *Registry) Register(name string, data []byte) (*Face, error) {
	hash := contentHash(data)

	if existing, ok := r.byHash[hash]; ok {
		if cur, taken := r.byName[name]; taken && cur != existing {
			return nil, fmt.Errorf("text: font name %q already registered with different content", name)
		}
		r.byName[name] = existing
		return existing, nil
	}
	if _, taken := r.byName[name]; taken {
		return nil, fmt.Errorf("text: font name %q already registered with different content", name)
	}

	face, err := newFace(name, hash, data)
	if err != nil {
		return nil, err
	}
	r.byName[name] = face
	r.byHash[hash] = face
	if r.fallback == nil {
		r.fallback = face
	}
	return face, nil
}

// Default returns the first-registered face, nil for an empty registry.
func (r *Registry) Default() *Face { return r.fallback }

// Lookup resolves a face by name. An empty name resolves to the default.
func (r *Registry) Lookup(name string) (*Face, error) {
	if name == "" {
		if r.fallback == nil {
			return nil, ErrUnknownFont
		}
		return r.fallback, nil
	}
	f, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFont, name)
	}
	return f, nil
}

// Len returns the number of distinct faces loaded (aliases not counted).
func (r *Registry) Len() int { return len(r.byHash) }

// contentHash is the face identity: FNV-1a over the raw font bytes.
func contentHash(data []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(data)
	return h.Sum64()
}
