package editor

import (
	"fmt"
	"sort"
	"sync"

	"sheet/internal/config"
	"sheet/internal/scene"
)

// ─────────────────────────────────────────────────────────────
// Selection plugins
// ─────────────────────────────────────────────────────────────

// PluginContext is what a plugin may touch while processing. Source is a
// copy of the selection taken before processing; Selected is the live
// cursor the plugin may rewrite.
type PluginContext struct {
	Sheet     scene.Surface
	Content   *scene.Block
	Source    *scene.Selection
	Selected  *scene.Selection
	Options   config.Options
	Thickness float64
}

// SelectionPlugin transforms the current selection.
type SelectionPlugin interface {
	// Name is both the menu entry and the history label.
	Name() string
	// CanProcess reports whether the selection is something the plugin handles.
	CanProcess(sel *scene.Selection) bool
	// Process mutates the page. History is already registered.
	Process(ctx PluginContext)
}

// PluginRegistry holds selection plugins by name.
type PluginRegistry struct {
	mu      sync.RWMutex
	plugins map[string]SelectionPlugin
}

// NewPluginRegistry creates an empty registry.
func NewPluginRegistry() *PluginRegistry {
	return &PluginRegistry{plugins: make(map[string]SelectionPlugin)}
}

// Register adds a plugin. Panics on duplicate registration.
func (r *PluginRegistry) Register(p SelectionPlugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := p.Name()
	if _, exists := r.plugins[name]; exists {
		panic(fmt.Sprintf("plugin registry: duplicate registration for %q", name))
	}
	r.plugins[name] = p
}

// Get returns the plugin registered under name.
func (r *PluginRegistry) Get(name string) (SelectionPlugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[name]
	return p, ok
}

// Names returns the registered plugin names, sorted.
func (r *PluginRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ForEach iterates the registered plugins in name order.
func (r *PluginRegistry) ForEach(fn func(SelectionPlugin)) {
	for _, name := range r.Names() {
		if p, ok := r.Get(name); ok {
			fn(p)
		}
	}
}

// RegisterPlugin adds p to the controller's registry.
func (c *Controller) RegisterPlugin(p SelectionPlugin) { c.plugins.Register(p) }

// Plugins returns the controller's registry.
func (c *Controller) Plugins() *PluginRegistry { return c.plugins }

// ProcessPlugin runs the named plugin on the selection. It reports false
// when the plugin is unknown or declines the selection.
func (c *Controller) ProcessPlugin(name string) bool {
	plugin, ok := c.plugins.Get(name)
	if !ok || !plugin.CanProcess(c.selected) {
		return false
	}
	source := c.selected.ShallowCopy()
	c.FinishEdit()
	c.register(name)
	plugin.Process(PluginContext{
		Sheet:     c.surfaces.Content,
		Content:   c.logic,
		Source:    source,
		Selected:  c.selected,
		Options:   c.opts,
		Thickness: c.lineThickness(),
	})
	return true
}
