// Package codegen holds the plugins that lower script macros and template
// directives into type-checkable code, and the serializer that assembles the
// output documents.
package codegen

import (
	"github.com/walteh/vtsc/pkg/diagnostic"
	"github.com/walteh/vtsc/pkg/item"
	"github.com/walteh/vtsc/pkg/markup"
	"github.com/walteh/vtsc/pkg/pipeline"
)

// Plugin names, usable in a disable list.
const (
	PluginDiagnostics      = "diagnostics"
	PluginGeneric          = "generic"
	PluginImports          = "imports"
	PluginDeclarations     = "declarations"
	PluginAsync            = "async"
	PluginMacros           = "macros"
	PluginExports          = "exports"
	PluginConditions       = "conditions"
	PluginLoops            = "loops"
	PluginElements         = "elements"
	PluginProps            = "props"
	PluginDirectives       = "directives"
	PluginSlotDeclarations = "slot-declarations"
	PluginSlotRenders      = "slot-renders"
	PluginInterpolations   = "interpolations"
	PluginBindings         = "bindings"
	PluginClosers          = "closers"
	PluginStrip            = "strip"
)

// Generator owns the state the plugins of one compile share with
// themselves. A Generator serves exactly one component source unit.
type Generator struct {
	models []model
	// propsFallback is set by a withDefaults without a direct defineProps.
	propsFallback bool
	roles         map[*pipeline.Region]*roles
}

type model struct {
	name string
	ref  string
}

// roles records which elements carry a role that opens a callback.
type roles struct {
	loops map[*markup.Element]bool
	slots map[*markup.Element]bool
}

func New() *Generator {
	return &Generator{roles: map[*pipeline.Region]*roles{}}
}

func (g *Generator) rolesOf(r *pipeline.Region) *roles {
	if ro, ok := g.roles[r]; ok {
		return ro
	}
	ro := &roles{loops: map[*markup.Element]bool{}, slots: map[*markup.Element]bool{}}
	for _, it := range r.Items {
		switch it := it.(type) {
		case *item.Loop:
			ro.loops[it.Element] = true
		case *item.SlotRender:
			if it.Element != it.Component {
				ro.slots[it.Element] = true
			}
		}
	}
	g.roles[r] = ro
	return ro
}

// ScriptPlugins returns the plugins of the script pass.
func (g *Generator) ScriptPlugins() []*pipeline.Plugin {
	return []*pipeline.Plugin{
		diagnosticsPlugin(),
		{Name: PluginGeneric, Tier: pipeline.TierPre, Pre: generic},
		{Name: PluginImports, Tier: pipeline.TierNormal, Hooks: map[item.Kind]pipeline.Hook{item.KindImport: hoistImport}},
		{Name: PluginDeclarations, Tier: pipeline.TierNormal, Hooks: map[item.Kind]pipeline.Hook{item.KindDeclaration: declare}},
		{Name: PluginAsync, Tier: pipeline.TierNormal, Hooks: map[item.Kind]pipeline.Hook{item.KindAsync: async}},
		{Name: PluginMacros, Tier: pipeline.TierNormal, Hooks: map[item.Kind]pipeline.Hook{item.KindFunctionCall: g.macro}, Post: g.modelContribution},
		{Name: PluginExports, Tier: pipeline.TierNormal, Hooks: map[item.Kind]pipeline.Hook{item.KindExport: rewriteExport}},
	}
}

// TemplatePlugins returns the plugins of a template pass.
func (g *Generator) TemplatePlugins() []*pipeline.Plugin {
	return []*pipeline.Plugin{
		diagnosticsPlugin(),
		{Name: PluginConditions, Tier: pipeline.TierNormal, Hooks: map[item.Kind]pipeline.Hook{item.KindCondition: g.condition}},
		{Name: PluginLoops, Tier: pipeline.TierNormal, Hooks: map[item.Kind]pipeline.Hook{item.KindLoop: loop}},
		{Name: PluginElements, Tier: pipeline.TierNormal, Hooks: map[item.Kind]pipeline.Hook{item.KindElement: element}},
		{Name: PluginProps, Tier: pipeline.TierNormal, Hooks: map[item.Kind]pipeline.Hook{item.KindProp: prop}},
		{Name: PluginDirectives, Tier: pipeline.TierNormal, Hooks: map[item.Kind]pipeline.Hook{item.KindDirective: directive}},
		{Name: PluginSlotDeclarations, Tier: pipeline.TierNormal, Hooks: map[item.Kind]pipeline.Hook{item.KindSlotDeclaration: slotDeclaration}},
		{Name: PluginSlotRenders, Tier: pipeline.TierNormal, Hooks: map[item.Kind]pipeline.Hook{item.KindSlotRender: slotRender}},
		{Name: PluginInterpolations, Tier: pipeline.TierNormal, Hooks: map[item.Kind]pipeline.Hook{item.KindInterpolation: interpolation}},
		{Name: PluginBindings, Tier: pipeline.TierNormal, Hooks: map[item.Kind]pipeline.Hook{item.KindBinding: binding}},
		{Name: PluginClosers, Tier: pipeline.TierPost, Post: flushClosers},
		{Name: PluginStrip, Tier: pipeline.TierPost, Post: strip},
	}
}

func diagnosticsPlugin() *pipeline.Plugin {
	return &pipeline.Plugin{
		Name: PluginDiagnostics,
		Tier: pipeline.TierPre,
		Hooks: map[item.Kind]pipeline.Hook{
			item.KindWarning: func(pc *pipeline.PassContext, _ *pipeline.Region, it item.Item) error {
				w := it.(*item.Warning)
				pc.Diagnostics.Add(diagnostic.New(diagnostic.Warning, w.Code, w.Message, w.Span()))
				return nil
			},
			item.KindError: func(pc *pipeline.PassContext, _ *pipeline.Region, it item.Item) error {
				e := it.(*item.Error)
				pc.Diagnostics.Add(diagnostic.New(diagnostic.Error, e.Code, e.Message, e.Span()))
				return nil
			},
		},
	}
}
