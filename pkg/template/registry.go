package template

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/fsnotify.v1"
	"gopkg.in/yaml.v3"
)

// Registry manages a collection of header templates.
type Registry interface {
	// Register adds a compiled template to the registry.
	Register(t *HeaderTemplate) error

	// Unregister removes a template by name.
	Unregister(name string) error

	// Get returns a template by name.
	Get(name string) (*HeaderTemplate, bool)

	// List returns all registered templates, sorted by name.
	List() []*HeaderTemplate

	// LoadFile loads a single YAML template file.
	LoadFile(path string) error

	// LoadDirectory loads all YAML template files from a directory.
	LoadDirectory(dir string) error

	// Reload reloads all templates from the configured directory.
	Reload() error

	// Watch starts watching the template directory for changes.
	Watch() error

	// StopWatch stops watching the template directory.
	StopWatch()
}

// DefaultRegistry is the default Registry implementation. It always
// holds the built-in autógrafo template.
type DefaultRegistry struct {
	mu        sync.RWMutex
	templates map[string]*HeaderTemplate
	dir       string
	watcher   *fsnotify.Watcher
	stopChan  chan struct{}
}

// NewRegistry creates a registry seeded with the default template.
func NewRegistry() *DefaultRegistry {
	r := &DefaultRegistry{
		templates: make(map[string]*HeaderTemplate),
	}
	r.templates["autografo"] = Default()
	return r
}

// NewRegistryWithDirectory creates a registry and loads templates from
// the directory.
func NewRegistryWithDirectory(dir string) (*DefaultRegistry, error) {
	r := NewRegistry()
	r.dir = dir
	if err := r.LoadDirectory(dir); err != nil {
		return nil, err
	}
	return r, nil
}

// Register adds a template to the registry.
func (r *DefaultRegistry) Register(t *HeaderTemplate) error {
	if t == nil {
		return fmt.Errorf("template cannot be nil")
	}
	if err := t.Compile(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[t.Name] = t
	return nil
}

// Unregister removes a template by name.
func (r *DefaultRegistry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[name]; !ok {
		return fmt.Errorf("template %q not registered", name)
	}
	delete(r.templates, name)
	return nil
}

// Get returns a template by name.
func (r *DefaultRegistry) Get(name string) (*HeaderTemplate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[name]
	return t, ok
}

// List returns all registered templates, sorted by name.
func (r *DefaultRegistry) List() []*HeaderTemplate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*HeaderTemplate, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LoadFile loads a single YAML template file.
func (r *DefaultRegistry) LoadFile(path string) error {
	t, err := loadFile(path)
	if err != nil {
		return err
	}
	return r.Register(t)
}

// LoadDirectory loads all .yaml/.yml files from dir. Nothing is
// registered unless every file loads.
func (r *DefaultRegistry) LoadDirectory(dir string) error {
	loaded, err := loadDirectory(dir)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, t := range loaded {
		r.templates[name] = t
	}
	return nil
}

// Reload re-reads the template directory and swaps the loaded set in.
// A failed reload keeps the previous templates; the built-in default
// always survives.
func (r *DefaultRegistry) Reload() error {
	if r.dir == "" {
		return fmt.Errorf("no template directory configured")
	}
	loaded, err := loadDirectory(r.dir)
	if err != nil {
		return err
	}
	if _, ok := loaded["autografo"]; !ok {
		loaded["autografo"] = Default()
	}
	r.mu.Lock()
	r.templates = loaded
	r.mu.Unlock()
	return nil
}

func loadFile(path string) (*HeaderTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template file %s: %w", path, err)
	}
	var t HeaderTemplate
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing template file %s: %w", path, err)
	}
	if err := t.Compile(); err != nil {
		return nil, fmt.Errorf("template file %s: %w", path, err)
	}
	return &t, nil
}

func loadDirectory(dir string) (map[string]*HeaderTemplate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading template directory %s: %w", dir, err)
	}
	loaded := make(map[string]*HeaderTemplate)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		t, err := loadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		loaded[t.Name] = t
	}
	return loaded, nil
}

// Watch starts watching the template directory and reloads on changes.
func (r *DefaultRegistry) Watch() error {
	if r.dir == "" {
		return fmt.Errorf("no template directory configured")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(r.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watching %s: %w", r.dir, err)
	}

	r.mu.Lock()
	r.watcher = watcher
	r.stopChan = make(chan struct{})
	stop := r.stopChan
	r.mu.Unlock()

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				ext := strings.ToLower(filepath.Ext(event.Name))
				if ext != ".yaml" && ext != ".yml" {
					continue
				}
				// A failed reload keeps the previous templates.
				_ = r.Reload()
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			case <-stop:
				return
			}
		}
	}()
	return nil
}

// StopWatch stops watching the template directory.
func (r *DefaultRegistry) StopWatch() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopChan != nil {
		close(r.stopChan)
		r.stopChan = nil
	}
	if r.watcher != nil {
		r.watcher.Close()
		r.watcher = nil
	}
}
