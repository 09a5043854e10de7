// Package assets locates and caches model, motion and texture files under a
// set of search roots.
package assets

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Faultbox/mmdcodec/pkg/encoding"
	"github.com/Faultbox/mmdcodec/pkg/pmd"
	"github.com/Faultbox/mmdcodec/pkg/vmd"
)

// Manager resolves asset names against search roots and caches file data.
type Manager struct {
	roots []string
	cache *Cache
	mu    sync.RWMutex
}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
	}
}

// AddRoot adds a search root.
// Roots are searched in reverse order (last added = highest priority).
func (m *Manager) AddRoot(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("adding root %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("adding root %s: not a directory", path)
	}

	m.mu.Lock()
	m.roots = append(m.roots, path)
	m.mu.Unlock()

	return nil
}

// Roots returns the search roots in priority order.
func (m *Manager) Roots() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.roots))
	for i := len(m.roots) - 1; i >= 0; i-- {
		out = append(out, m.roots[i])
	}
	return out
}

// Resolve finds name on disk. Existing paths are used as-is; otherwise name
// is looked up under each root, ignoring case and backslash separators.
func (m *Manager) Resolve(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	for _, root := range m.Roots() {
		if path, ok := lookupFold(root, name); ok {
			return path, nil
		}
	}
	return "", fmt.Errorf("file not found: %s", name)
}

// Load reads a file, resolving it with Resolve.
func (m *Manager) Load(name string) ([]byte, error) {
	path, err := m.Resolve(name)
	if err != nil {
		return nil, err
	}

	// Check cache first
	if data, ok := m.cache.Get(path); ok {
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	m.cache.Set(path, data)
	return data, nil
}

// LoadModel loads and parses a PMD model using the given text decoder.
func (m *Manager) LoadModel(name string, text *encoding.TextDecoder) (*pmd.Model, error) {
	data, err := m.Load(name)
	if err != nil {
		return nil, err
	}
	b := pmd.NewBuilder()
	p := pmd.NewParser(bytes.NewReader(data))
	if text != nil {
		p.SetTextDecoder(text)
	}
	p.SetHandler(b)
	if err := p.Parse(); err != nil {
		return nil, fmt.Errorf("parsing model %s: %w", name, err)
	}
	return b.Model(), nil
}

// LoadMotion loads and parses a VMD motion.
func (m *Manager) LoadMotion(name string, text *encoding.TextDecoder, strict bool) (*vmd.Motion, error) {
	data, err := m.Load(name)
	if err != nil {
		return nil, err
	}
	b := vmd.NewBuilder()
	p := vmd.NewParser(bytes.NewReader(data))
	if text != nil {
		p.SetTextDecoder(text)
	}
	p.SetStrictMode(strict)
	p.SetHandler(b)
	if err := p.Parse(); err != nil {
		return nil, fmt.Errorf("parsing motion %s: %w", name, err)
	}
	return b.Motion(), nil
}

// TextureRef is a file referenced by a model material.
type TextureRef struct {
	Material int
	Name     string
	Path     string // Empty when the file was not found
}

// Found reports whether the texture exists on disk.
func (r TextureRef) Found() bool {
	return r.Path != ""
}

// ResolveTextures lists every texture and sphere map a model references,
// resolved against the model's directory first and then the search roots.
func (m *Manager) ResolveTextures(model *pmd.Model, modelDir string) []TextureRef {
	var refs []TextureRef
	for i, mat := range model.Materials {
		for _, name := range []string{mat.Texture, mat.SphereMap} {
			if name == "" {
				continue
			}
			ref := TextureRef{Material: i, Name: name}
			if path, ok := lookupFold(modelDir, name); ok {
				ref.Path = path
			} else if path, err := m.Resolve(name); err == nil {
				ref.Path = path
			}
			refs = append(refs, ref)
		}
	}
	return refs
}

// Close drops the cached data.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.roots = nil
	m.cache.Clear()
}

// lookupFold finds name under root, matching each path element
// case-insensitively.
func lookupFold(root, name string) (string, bool) {
	if root == "" {
		root = "."
	}
	want := strings.Split(encoding.NormalizeAssetPath(name), "/")
	dir := root
	for _, elem := range want {
		if elem == "" || elem == "." {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return "", false
		}
		found := ""
		for _, e := range entries {
			if encoding.NormalizeAssetPath(e.Name()) == elem {
				found = e.Name()
				break
			}
		}
		if found == "" {
			return "", false
		}
		dir = filepath.Join(dir, found)
	}
	if dir == root {
		return "", false
	}
	return dir, true
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
