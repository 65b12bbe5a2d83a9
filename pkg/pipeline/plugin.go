package pipeline

import (
	"sort"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/vtsc/pkg/item"
)

type Tier uint8

const (
	TierPre Tier = iota
	TierNormal
	TierPost
)

func (t Tier) String() string {
	switch t {
	case TierPre:
		return "pre"
	case TierPost:
		return "post"
	}
	return "normal"
}

// Hook handles one item.
type Hook func(pc *PassContext, r *Region, it item.Item) error

// PassHook runs once per pass, before or after the items.
type PassHook func(pc *PassContext, p *Pass) error

// Plugin declares its capabilities up front: the pass hooks it has and the
// item kinds it handles.
type Plugin struct {
	Name  string
	Tier  Tier
	Pre   PassHook
	Post  PassHook
	Hooks map[item.Kind]Hook
}

// Handles reports whether p has a hook for kind.
func (p *Plugin) Handles(kind item.Kind) bool {
	_, ok := p.Hooks[kind]
	return ok
}

// Registry keeps plugins in registration order.
type Registry struct {
	plugins  []*Plugin
	disabled map[string]bool
}

func NewRegistry(plugins ...*Plugin) (*Registry, error) {
	r := &Registry{disabled: map[string]bool{}}
	for _, p := range plugins {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(p *Plugin) error {
	if p == nil || p.Name == "" {
		return errors.New("plugin must have a name")
	}
	for _, existing := range r.plugins {
		if existing.Name == p.Name {
			return errors.Errorf("plugin %q registered twice", p.Name)
		}
	}
	r.plugins = append(r.plugins, p)
	return nil
}

// Disable turns plugins off by name. Unknown names are reported.
func (r *Registry) Disable(names ...string) error {
	for _, name := range names {
		found := false
		for _, p := range r.plugins {
			if p.Name == name {
				found = true
			}
		}
		if !found {
			return errors.Errorf("unknown plugin %q", name)
		}
		r.disabled[name] = true
	}
	return nil
}

// Ordered returns the enabled plugins sorted by tier, keeping registration
// order within a tier.
func (r *Registry) Ordered() []*Plugin {
	out := make([]*Plugin, 0, len(r.plugins))
	for _, p := range r.plugins {
		if !r.disabled[p.Name] {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Tier < out[j].Tier
	})
	return out
}

func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.plugins))
	for _, p := range r.plugins {
		out = append(out, p.Name)
	}
	return out
}
