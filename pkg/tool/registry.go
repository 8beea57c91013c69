package tool

import (
	"log/slog"
	"sort"
	"sync"
)

// Registry is the in-memory tool catalog. The name map and the category
// index are guarded by one lock and mutate as a unit, so they can never
// diverge: a category key exists iff its set is non-empty.
//
// The protocol loop is single-threaded, but nothing in this interface
// assumes a single caller; all methods are safe under concurrent use.
type Registry struct {
	mu         sync.RWMutex
	tools      map[string]Tool
	byCategory map[string]map[string]struct{}
	logger     *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:      make(map[string]Tool),
		byCategory: make(map[string]map[string]struct{}),
		logger:     slog.Default(),
	}
}

// SetLogger replaces the logger used for registration events.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if logger != nil {
		r.logger = logger
	}
}

// Register adds a tool. Names are case-sensitive and must be unique; a
// collision fails with *DuplicateToolError and leaves the registry
// unchanged.
func (r *Registry) Register(t Tool) error {
	name := t.Name()
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return &DuplicateToolError{Name: name}
	}

	r.tools[name] = t
	category := t.Category()
	set, ok := r.byCategory[category]
	if !ok {
		set = make(map[string]struct{})
		r.byCategory[category] = set
	}
	set[name] = struct{}{}

	r.logger.Info("registered tool", "name", name, "category", category)
	return nil
}

// Unregister removes a tool by name. Absence is a normal outcome reported
// through the return value, not an error. Removing the last member of a
// category removes the category key as well.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tools[name]
	if !ok {
		return false
	}
	delete(r.tools, name)

	category := t.Category()
	if set, ok := r.byCategory[category]; ok {
		delete(set, name)
		if len(set) == 0 {
			delete(r.byCategory, category)
		}
	}

	r.logger.Info("unregistered tool", "name", name)
	return true
}

// Get returns the named tool, or nil when unknown. Lookups miss routinely
// (dispatch checks existence before invoking), so a miss is not an error.
func (r *Registry) Get(name string) Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// All returns every registered tool. Order is not significant.
func (r *Registry) All() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		all = append(all, t)
	}
	return all
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByCategory returns the tools in a category sorted by name. An unknown
// category yields an empty slice, never nil and never an error.
func (r *Registry) ByCategory(category string) []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.byCategory[category]
	if !ok {
		return []Tool{}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]Tool, 0, len(names))
	for _, name := range names {
		if t, ok := r.tools[name]; ok {
			result = append(result, t)
		}
	}
	return result
}

// Categories returns the non-empty category names, sorted.
func (r *Registry) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	categories := make([]string, 0, len(r.byCategory))
	for category := range r.byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

// IsRegistered reports whether a tool with the given name exists.
func (r *Registry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// SupportingOperation returns the tools reporting support for the named
// operation, sorted by name. This is a query, not a validated command:
// unknown operations simply match nothing.
func (r *Registry) SupportingOperation(op string) []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]Tool, 0)
	for _, t := range r.tools {
		if t.SupportsOperation(op) {
			matched = append(matched, t)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Name() < matched[j].Name()
	})
	return matched
}

// Clear empties both the catalog and the category index.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools = make(map[string]Tool)
	r.byCategory = make(map[string]map[string]struct{})
	r.logger.Info("cleared all registered tools")
}
