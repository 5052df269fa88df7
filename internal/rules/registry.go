package rules

import (
	"fmt"
	"strings"
	"sync"
)

// Registry keeps rules in registration order, which is the order they
// evaluate in.
type Registry struct {
	mu    sync.RWMutex
	order []Rule
	byID  map[string]Rule
}

func NewRegistry(rules ...Rule) *Registry {
	r := &Registry{byID: make(map[string]Rule)}
	for _, rule := range rules {
		r.Register(rule)
	}
	return r
}

// Register appends a rule, wrapped with allow-list support.
func (r *Registry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[rule.ID()]; exists {
		panic(fmt.Sprintf("rule %s already registered", rule.ID()))
	}
	w := &AllowListWrapper{Rule: rule}
	r.byID[rule.ID()] = w
	r.order = append(r.order, w)
}

func (r *Registry) List() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Rule, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) Lookup(id string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.byID[id]
	return rule, ok
}

// Resolve selects rules by a comma-separated list of IDs. Entries prefixed
// with "-" are excluded instead; a selector of only exclusions starts from
// every rule. The result always keeps pipeline order.
func (r *Registry) Resolve(selector string) ([]Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	include := make(map[string]bool)
	exclude := make(map[string]bool)
	for _, id := range strings.Split(selector, ",") {
		id = strings.TrimSpace(id)
		if id == "" || id == "all" {
			continue
		}
		target := include
		if strings.HasPrefix(id, "-") {
			id = strings.TrimPrefix(id, "-")
			target = exclude
		}
		if _, ok := r.byID[id]; !ok {
			return nil, fmt.Errorf("rule not found: %s", id)
		}
		target[id] = true
	}

	var selected []Rule
	for _, rule := range r.order {
		if len(include) > 0 && !include[rule.ID()] {
			continue
		}
		if exclude[rule.ID()] {
			continue
		}
		selected = append(selected, rule)
	}
	return selected, nil
}

var defaultRegistry = NewRegistry()

// Register adds a rule to the process-wide registry.
func Register(r Rule) {
	defaultRegistry.Register(r)
}

func List() []Rule {
	return defaultRegistry.List()
}

func Lookup(id string) (Rule, bool) {
	return defaultRegistry.Lookup(id)
}

func Resolve(selector string) ([]Rule, error) {
	return defaultRegistry.Resolve(selector)
}
