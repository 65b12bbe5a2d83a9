// Package compiler turns one component source unit into its synthetic
// documents and diagnostics.
package compiler

import (
	"context"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/vtsc/pkg/codegen"
	"github.com/walteh/vtsc/pkg/diagnostic"
	"github.com/walteh/vtsc/pkg/item"
	"github.com/walteh/vtsc/pkg/jsast"
	"github.com/walteh/vtsc/pkg/markup"
	"github.com/walteh/vtsc/pkg/pipeline"
	"github.com/walteh/vtsc/pkg/position"
	"github.com/walteh/vtsc/pkg/scope"
	"github.com/walteh/vtsc/pkg/sfc"
	"github.com/walteh/vtsc/pkg/walker"
)

// Grammar selects how scripts and template expressions of a file are parsed.
type Grammar struct {
	// Module enables the module grammar: import/export, top-level await and
	// the module reserved words.
	Module bool
	// TypeScript enables type syntax even when no script declares lang="ts".
	TypeScript bool
}

type Options struct {
	// Prefix starts every synthesized identifier.
	Prefix string
	// Grammars maps file extensions, with the dot, to their grammar.
	Grammars map[string]Grammar
	// Disabled names plugins that do not run.
	Disabled []string
}

func DefaultOptions() Options {
	return Options{
		Prefix: pipeline.DefaultPrefix,
		Grammars: map[string]Grammar{
			".vue": {Module: true},
		},
	}
}

// GrammarFor returns the grammar of filename. Unknown extensions use the
// module grammar.
func (o Options) GrammarFor(filename string) Grammar {
	if g, ok := o.Grammars[strings.ToLower(filepath.Ext(filename))]; ok {
		return g
	}
	return Grammar{Module: true}
}

// Document is one synthetic output file.
type Document struct {
	Name string
	Text string
}

type Result struct {
	Filename    string
	Source      string
	Descriptor  *sfc.Descriptor
	Options     Document
	Bundle      Document
	Diagnostics diagnostic.Diagnostics
	// Regions hold the items and edit buffers of every script and template
	// block, scripts first.
	Regions []*pipeline.Region
}

// Items returns the items of every region in order.
func (r *Result) Items() []item.Item {
	var out []item.Item
	for _, reg := range r.Regions {
		out = append(out, reg.Items...)
	}
	return out
}

type Compiler struct {
	opts Options
}

func New(opts Options) *Compiler {
	if opts.Prefix == "" {
		opts.Prefix = pipeline.DefaultPrefix
	}
	return &Compiler{opts: opts}
}

// Compile runs the compiler with the default options.
func Compile(ctx context.Context, filename, text string) (*Result, error) {
	return New(DefaultOptions()).Compile(ctx, filename, text)
}

// Compile never fails on malformed input: parse failures and rule violations
// become diagnostics. The error is reserved for a broken configuration.
func (c *Compiler) Compile(ctx context.Context, filename, text string) (*Result, error) {
	known := PluginNames()
	for _, name := range c.opts.Disabled {
		if !slices.Contains(known, name) {
			return nil, errors.Errorf("unknown plugin %q", name)
		}
	}

	gen := codegen.New()
	scriptReg, err := c.registry(gen.ScriptPlugins())
	if err != nil {
		return nil, errors.Errorf("creating script plugins: %w", err)
	}
	templateReg, err := c.registry(gen.TemplatePlugins())
	if err != nil {
		return nil, errors.Errorf("creating template plugins: %w", err)
	}

	logger := zerolog.Ctx(ctx).With().Str("file", filename).Logger()
	ctx = logger.WithContext(ctx)

	desc := sfc.Parse(ctx, filename, text)
	grammar := c.opts.GrammarFor(filename)
	ts := grammar.TypeScript
	for _, b := range desc.Scripts() {
		ts = ts || b.IsTypeScript()
	}

	pc := pipeline.NewPassContext(filename, text)
	pc.Prefix = c.opts.Prefix

	var scripts []*pipeline.Region
	for _, b := range desc.Scripts() {
		scripts = append(scripts, scriptRegion(ctx, desc, b, grammar, ts))
	}
	if err := pipeline.Run(ctx, scriptReg, pc, &pipeline.Pass{Phase: pipeline.PhaseScript, Regions: scripts}); err != nil {
		internal(ctx, pc, err)
	}

	var templates []*pipeline.Region
	for _, b := range desc.Templates() {
		r := templateRegion(ctx, desc, b, grammar, ts)
		templates = append(templates, r)
		if err := pipeline.Run(ctx, templateReg, pc, &pipeline.Pass{Phase: pipeline.PhaseTemplate, Regions: []*pipeline.Region{r}}); err != nil {
			internal(ctx, pc, err)
		}
	}

	base := filepath.Base(filename)
	out := codegen.Serialize(pc, scripts, templates, "./"+base+".options")
	pc.Diagnostics.Locate(text)

	logger.Debug().
		Int("scripts", len(scripts)).
		Int("templates", len(templates)).
		Int("diagnostics", pc.Diagnostics.Len()).
		Msg("compiled")

	return &Result{
		Filename:    filename,
		Source:      text,
		Descriptor:  desc,
		Options:     Document{Name: filename + ".options.ts", Text: out.Options},
		Bundle:      Document{Name: filename + ".ts", Text: out.Bundle},
		Diagnostics: pc.Diagnostics,
		Regions:     append(scripts, templates...),
	}, nil
}

func (c *Compiler) registry(plugins []*pipeline.Plugin) (*pipeline.Registry, error) {
	reg, err := pipeline.NewRegistry(plugins...)
	if err != nil {
		return nil, err
	}
	// a name may belong to the other phase only
	var own []string
	for _, name := range c.opts.Disabled {
		if slices.Contains(reg.Names(), name) {
			own = append(own, name)
		}
	}
	if err := reg.Disable(own...); err != nil {
		return nil, err
	}
	return reg, nil
}

// PluginNames lists every plugin a compile registers.
func PluginNames() []string {
	gen := codegen.New()
	seen := map[string]bool{}
	var out []string
	for _, p := range append(gen.ScriptPlugins(), gen.TemplatePlugins()...) {
		if !seen[p.Name] {
			seen[p.Name] = true
			out = append(out, p.Name)
		}
	}
	return out
}

func internal(ctx context.Context, pc *pipeline.PassContext, err error) {
	zerolog.Ctx(ctx).Error().Err(err).Msg("pass failed")
	pc.Error(item.CodeInternal, err.Error(), position.Span{})
}

func scriptRegion(ctx context.Context, desc *sfc.Descriptor, b *sfc.Block, g Grammar, ts bool) *pipeline.Region {
	text := b.Text(desc.Source)
	opts := jsast.Options{Base: b.Content.Start, TypeScript: ts, Module: g.Module}
	res := pipeline.Fallback(
		func() (*jsast.Program, error) { return jsast.ParseProgram(text, opts) },
		func() *jsast.Program { return jsast.ParseProgramTolerant(text, opts) },
	)

	var items []item.Item
	if res.Degraded {
		zerolog.Ctx(ctx).Debug().Err(res.Err).Int("start", b.Content.Start).Msg("script fell back to tolerant parse")
		items = append(items, &item.Warning{
			Base:    item.NewBase(b, b.Content, scope.Root()),
			Code:    item.CodeParserFallback,
			Message: res.Err.Error(),
		})
	}
	walked := walker.WalkProgram(res.Node, scope.Root(), walker.Options{Module: g.Module, Setup: b.Setup})
	items = append(items, walked.Items...)
	return pipeline.NewRegion(desc.Source, b, items)
}

func templateRegion(ctx context.Context, desc *sfc.Descriptor, b *sfc.Block, g Grammar, ts bool) *pipeline.Region {
	if b.Lang != "" && b.Lang != "html" {
		zerolog.Ctx(ctx).Debug().Str("lang", b.Lang).Msg("skipping template")
		return pipeline.NewRegion(desc.Source, b, []item.Item{
			&item.Warning{
				Base:    item.NewBase(b, b.Open, scope.Root()),
				Code:    item.CodeUnsupportedLang,
				Message: "template language " + b.Lang + " is not supported",
			},
		})
	}
	root := markup.Parse(b.Text(desc.Source), b.Content.Start)
	items := walker.WalkTemplate(ctx, root, scope.Root(), walker.TemplateOptions{TypeScript: ts, Module: g.Module})
	return pipeline.NewRegion(desc.Source, b, items)
}
