package roles

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"doctracker/internal/domain/models/docstore"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry holds the role templates loaded from the embedded YAML files
type Registry struct {
	templates map[string]*Template
	order     []string
	mu        sync.RWMutex
}

// NewRegistry creates a new role registry and loads embedded YAML files
func NewRegistry() (*Registry, error) {
	r := &Registry{
		templates: make(map[string]*Template),
	}

	if err := r.loadTemplateFile("roles"); err != nil {
		return nil, fmt.Errorf("failed to load role templates: %w", err)
	}

	return r, nil
}

// loadTemplateFile loads one embedded role template YAML file
func (r *Registry) loadTemplateFile(name string) error {
	filename := fmt.Sprintf("config/%s.yaml", name)
	data, err := configFiles.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	var set TemplateSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range set.Roles {
		tpl := &set.Roles[i]
		if tpl.Name == "" {
			return fmt.Errorf("%s: role with empty name", filename)
		}
		if _, exists := r.templates[tpl.Name]; exists {
			return fmt.Errorf("%s: duplicate role %q", filename, tpl.Name)
		}
		for _, kind := range tpl.Permissions {
			if !kind.Valid() {
				return fmt.Errorf("%s: role %q has unknown permission %q", filename, tpl.Name, kind)
			}
		}
		r.templates[tpl.Name] = tpl
		r.order = append(r.order, tpl.Name)
	}
	return nil
}

// Get returns the template for a role name
func (r *Registry) Get(name string) (*Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tpl, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("unknown role: %s", name)
	}
	return tpl, nil
}

// Expand returns the permission kinds a role name grants
func (r *Registry) Expand(name string) ([]docstore.PermissionKind, error) {
	tpl, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	kinds := make([]docstore.PermissionKind, len(tpl.Permissions))
	copy(kinds, tpl.Permissions)
	return kinds, nil
}

// List returns all templates in the order the YAML defines them
func (r *Registry) List() []Template {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Template, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, *r.templates[name])
	}
	return out
}
