// Package hover provides functionality for generating hover information.
package hover

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/vtsc/pkg/codegen"
	"github.com/walteh/vtsc/pkg/compiler"
	"github.com/walteh/vtsc/pkg/item"
	"github.com/walteh/vtsc/pkg/markup"
	"github.com/walteh/vtsc/pkg/position"
	"github.com/walteh/vtsc/pkg/sfc"
)

// HoverInfo represents the information to be displayed in a hover tooltip
type HoverInfo struct {
	// Content is the markdown content to display
	Content []string
	// Position is the source text this hover applies to
	Position position.RawPosition
}

var builtinDirectives = map[string]bool{
	"if": true, "else-if": true, "else": true, "for": true, "show": true,
	"html": true, "text": true, "once": true, "cloak": true, "memo": true,
	"model": true, "bind": true, "on": true, "slot": true, "is": true, "pre": true,
}

type candidate struct {
	span position.Span
	it   item.Item
	// dir is set for directive attribute names
	dir *markup.Directive
}

// project holds what the setup scripts declare.
type project struct {
	decls   map[string]*item.Declaration
	imports map[string]string
}

func newProject(res *compiler.Result) *project {
	p := &project{decls: map[string]*item.Declaration{}, imports: map[string]string{}}
	for _, r := range res.Regions {
		if r.Block.Kind != sfc.KindScript || !r.Block.Setup {
			continue
		}
		for _, it := range r.Items {
			switch x := it.(type) {
			case *item.Declaration:
				p.decls[x.Name] = x
			case *item.Import:
				if x.Decl.Source == nil {
					continue
				}
				for _, name := range x.Locals {
					p.imports[name] = x.Decl.Source.Value
				}
			}
		}
	}
	return p
}

func isBinding(it item.Item) bool {
	_, ok := it.(*item.Binding)
	return ok
}

func contains(span position.Span, offset int) bool {
	return span.Start <= offset && offset < span.End
}

// candidates lists every hoverable span of it.
func candidates(it item.Item) []candidate {
	switch x := it.(type) {
	case *item.Binding:
		if !x.Synthetic {
			return []candidate{{span: x.Span(), it: it}}
		}
	case *item.Declaration:
		return []candidate{{span: x.Span(), it: it}}
	case *item.FunctionCall:
		if codegen.IsMacro(x.Name) {
			return []candidate{{span: position.NewSpan(x.Call.Callee.Pos(), x.Call.Callee.End()), it: it}}
		}
	case *item.Element:
		if x.Component {
			return []candidate{{span: x.Element.TagName, it: it}}
		}
	case *item.Directive:
		return []candidate{{span: x.Dir.Attr.NameLoc, it: it, dir: x.Dir}}
	case *item.Prop:
		if x.Dir != nil {
			return []candidate{{span: x.Dir.Attr.NameLoc, it: it, dir: x.Dir}}
		}
	case *item.Loop:
		return []candidate{{span: x.Dir.Attr.NameLoc, it: it, dir: x.Dir}}
	}
	return nil
}

// BuildHoverResponse describes the innermost item at offset. It returns nil
// when nothing there has a description.
func BuildHoverResponse(ctx context.Context, res *compiler.Result, offset int) (*HoverInfo, error) {
	if offset < 0 || offset > len(res.Source) {
		return nil, errors.Errorf("offset %d is outside the source of %d bytes", offset, len(res.Source))
	}

	var found []candidate
	for _, it := range res.Items() {
		for _, c := range candidates(it) {
			if contains(c.span, offset) {
				found = append(found, c)
			}
		}
	}
	if len(found) == 0 {
		zerolog.Ctx(ctx).Debug().Int("offset", offset).Msg("nothing to hover")
		return nil, nil
	}
	// innermost first; a binding loses to any item sharing its span
	sort.SliceStable(found, func(i, j int) bool {
		if li, lj := found[i].span.Len(), found[j].span.Len(); li != lj {
			return li < lj
		}
		return !isBinding(found[i].it) && isBinding(found[j].it)
	})
	best := found[0]

	content := describe(newProject(res), best)
	if content == "" {
		return nil, nil
	}
	return &HoverInfo{
		Content:  []string{content},
		Position: position.NewSpanPosition(res.Source, best.span),
	}, nil
}

func describe(p *project, c candidate) string {
	if c.dir != nil {
		return directive(p, c.dir)
	}
	switch x := c.it.(type) {
	case *item.Declaration:
		return declaration(p, x)
	case *item.Binding:
		return binding(p, x)
	case *item.FunctionCall:
		kind, _ := codegen.MacroContribution(x.Name)
		return fmt.Sprintf("### Compiler Macro\n\n`%s` declares the component's `%s` type.", x.Name, kind)
	case *item.Element:
		if src, ok := p.imports[x.Name]; ok {
			return fmt.Sprintf("### Component\n\n`%s` is imported from `%s`.", x.Name, src)
		}
		if d, ok := p.decls[x.Name]; ok {
			return declaration(p, d)
		}
		return fmt.Sprintf("### Component\n\n`%s` resolves through the component context.", x.Name)
	}
	return ""
}

func declaration(p *project, d *item.Declaration) string {
	if src, ok := p.imports[d.Name]; ok {
		return fmt.Sprintf("### Setup Binding\n\n```ts\nimport %s from %q\n```", d.Name, src)
	}
	return fmt.Sprintf("### Setup Binding\n\n```ts\n%s %s\n```", d.DeclKind, d.Name)
}

func binding(p *project, b *item.Binding) string {
	switch {
	case b.Scope().Ignores(b.Name):
		return fmt.Sprintf("### Local\n\n`%s` is bound by an enclosing scope.", b.Name)
	case b.Ignore:
		return fmt.Sprintf("### Global\n\n`%s` is a global and is left as is.", b.Name)
	}
	if d, ok := p.decls[b.Name]; ok {
		return declaration(p, d)
	}
	return fmt.Sprintf("### Component Context\n\n`%s` resolves through the component context.", b.Name)
}

func directive(p *project, d *markup.Directive) string {
	name := "v-" + d.Name
	if builtinDirectives[d.Name] {
		return fmt.Sprintf("### Directive\n\n`%s` is a built-in directive.", name)
	}
	ref := "v" + markup.Capitalize(markup.Camelize(d.Name))
	where := "the component context"
	if _, ok := p.decls[ref]; ok {
		where = "a setup binding"
	}
	return fmt.Sprintf("### Directive\n\n`%s` resolves to `%s` from %s.", name, ref, where)
}
