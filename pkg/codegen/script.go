package codegen

import (
	"sort"
	"strings"

	"github.com/walteh/vtsc/pkg/item"
	"github.com/walteh/vtsc/pkg/jsast"
	"github.com/walteh/vtsc/pkg/pipeline"
	"github.com/walteh/vtsc/pkg/position"
)

// Contribution names. Every one of them ends up as exactly one type alias in
// the options document.
const (
	ContribProps     = "Props"
	ContribEmits     = "Emits"
	ContribSlots     = "Slots"
	ContribExpose    = "Expose"
	ContribModel     = "Model"
	ContribOptions   = "Options"
	ContribComponent = "Component"
)

// ContributionKinds lists the instance contributions in output order.
var ContributionKinds = []string{ContribProps, ContribEmits, ContribSlots, ContribExpose, ContribModel, ContribOptions}

var macros = map[string]string{
	"defineProps":   ContribProps,
	"withDefaults":  ContribProps,
	"defineEmits":   ContribEmits,
	"defineSlots":   ContribSlots,
	"defineExpose":  ContribExpose,
	"defineOptions": ContribOptions,
	"defineModel":   ContribModel,
}

// captured holds the name each macro result is stored under.
var captured = map[string]string{
	ContribProps:   "props",
	ContribEmits:   "emits",
	ContribSlots:   "slots",
	ContribExpose:  "expose",
	ContribOptions: "options",
}

// IsMacro reports whether name is a compiler macro.
func IsMacro(name string) bool {
	_, ok := macros[name]
	return ok
}

// MacroContribution returns the contribution kind a macro call fills.
func MacroContribution(name string) (string, bool) {
	kind, ok := macros[name]
	return kind, ok
}

// Macros lists the compiler macro names in sorted order.
func Macros() []string {
	out := make([]string, 0, len(macros))
	for name := range macros {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func generic(pc *pipeline.PassContext, p *pipeline.Pass) error {
	for _, r := range p.Regions {
		if !r.Block.Setup {
			continue
		}
		a, ok := r.Block.Generic()
		if !ok {
			continue
		}
		text := a.Raw
		if !a.Value.IsZero() {
			text = a.Value.Text(pc.Source)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		pc.Generic = &pipeline.Generic{Text: text, Loc: a.Value}
		return nil
	}
	return nil
}

// hoistImport moves an import statement to the top of the options document.
func hoistImport(pc *pipeline.PassContext, r *pipeline.Region, it item.Item) error {
	loc := it.Span()
	text := strings.TrimSpace(loc.Text(pc.Source))
	if !strings.HasSuffix(text, ";") {
		text += ";"
	}
	pc.Imports.Add(text)
	r.Buffer.Remove(loc.Start, loc.End)
	return nil
}

func declare(pc *pipeline.PassContext, r *pipeline.Region, it item.Item) error {
	if r.Block.Setup {
		pc.Declared.Add(it.(*item.Declaration).Name)
	}
	return nil
}

func async(pc *pipeline.PassContext, r *pipeline.Region, _ item.Item) error {
	if r.Block.Setup {
		pc.IsAsync = true
	}
	return nil
}

// rewriteExport turns the options default export into a named constant and
// strips export keywords from the setup script, whose body becomes a
// function body.
func rewriteExport(pc *pipeline.PassContext, r *pipeline.Region, it item.Item) error {
	e := it.(*item.Export)
	loc := e.Span()
	switch {
	case !r.Block.Setup && e.Default && !e.DeclLoc.IsZero():
		r.Buffer.Overwrite(loc.Start, e.DeclLoc.Start, "const "+pc.Name("internalComponent")+" = ")
		pc.Contribute(pipeline.Contribution{
			Name: ContribComponent,
			Text: "typeof " + pc.Name("internalComponent"),
			Loc:  e.DeclLoc,
		})
	case !r.Block.Setup:
	case e.Default && !e.DeclLoc.IsZero():
		r.Buffer.Overwrite(loc.Start, e.DeclLoc.Start, "void ")
	case e.DeclLoc.IsZero():
		r.Buffer.Remove(loc.Start, loc.End)
	default:
		r.Buffer.Remove(loc.Start, e.DeclLoc.Start)
	}
	return nil
}

func (g *Generator) macro(pc *pipeline.PassContext, r *pipeline.Region, it item.Item) error {
	call := it.(*item.FunctionCall)
	kind, ok := macros[call.Name]
	if !ok || !r.Block.Setup || !call.TopLevel || pc.Claimed.Has(call.Call) {
		return nil
	}
	switch call.Name {
	case "defineModel":
		return g.defineModel(pc, r, call)
	case "withDefaults":
		return g.withDefaults(pc, r, call)
	}
	if _, dup := pc.Contribution(kind); dup {
		pc.Error(item.CodeDuplicateMacro, call.Name+" is called more than once", call.Span())
		return nil
	}

	ref := pc.Name(captured[kind])
	capture(r, call, ref)
	pc.Contribute(pipeline.Contribution{Name: kind, Text: "typeof " + ref, Loc: call.Span()})
	return nil
}

// withDefaults claims a defineProps call passed directly as its first
// argument. Any other argument leaves the call alone; the props type then
// comes from a separate defineProps or falls back to an open record.
func (g *Generator) withDefaults(pc *pipeline.PassContext, r *pipeline.Region, call *item.FunctionCall) error {
	inner := firstArgCall(call.Call, "defineProps")
	if inner == nil {
		pc.Warn(item.CodeWithDefaultsWithoutProp, "withDefaults expects a defineProps call as its first argument", call.Span())
		g.propsFallback = true
		return nil
	}
	pc.Claimed.CheckAndSet(inner)
	if _, dup := pc.Contribution(ContribProps); dup {
		pc.Error(item.CodeDuplicateMacro, "defineProps is called more than once", position.NewSpan(inner.Pos(), inner.End()))
		return nil
	}
	ref := pc.Name(captured[ContribProps])
	capture(r, call, ref)
	pc.Contribute(pipeline.Contribution{Name: ContribProps, Text: "typeof " + ref, Loc: call.Span()})
	return nil
}

func (g *Generator) defineModel(pc *pipeline.PassContext, r *pipeline.Region, call *item.FunctionCall) error {
	name, ok := stringArg(call.Call, 0)
	if !ok {
		name = "modelValue"
	}
	for _, m := range g.models {
		if m.name == name {
			pc.Error(item.CodeDuplicateMacro, "defineModel is called more than once for "+jsString(name), call.Span())
			return nil
		}
	}
	ref := pc.NextID("model")
	capture(r, call, ref)
	g.models = append(g.models, model{name: name, ref: ref})
	return nil
}

// modelContribution merges every defineModel call into one contribution. It
// also settles the props fallback of a withDefaults without defineProps.
func (g *Generator) modelContribution(pc *pipeline.PassContext, _ *pipeline.Pass) error {
	if _, ok := pc.Contribution(ContribProps); g.propsFallback && !ok {
		pc.Contribute(pipeline.Contribution{Name: ContribProps, Text: "Record<string, any>"})
	}
	if len(g.models) == 0 {
		return nil
	}
	var fields []string
	for _, m := range g.models {
		typ := "(typeof " + m.ref + ")[\"value\"]"
		fields = append(fields,
			propKey(m.name)+"?: "+typ,
			jsString("onUpdate:"+m.name)+"?: (value: "+typ+") => void",
		)
	}
	pc.Contribute(pipeline.Contribution{Name: ContribModel, Text: "{ " + strings.Join(fields, "; ") + " }"})
	return nil
}

// capture stores the result of a macro call in ref, declared right before
// the statement holding the call. The call site then reads ref.
func capture(r *pipeline.Region, call *item.FunctionCall, ref string) {
	loc := call.Span()
	at := loc.Start
	if !jsast.IsNil(call.Statement) {
		at = call.Statement.Pos()
	}
	b := r.Buffer
	if at == loc.Start {
		b.PrependRight(loc.Start, "const "+ref+" = ")
		return
	}
	b.AppendRight(at, "const "+ref+" = ")
	b.Move(loc.Start, loc.End, at)
	b.AppendRight(at, ";\n")
	b.AppendRight(loc.End, ref)
}

func firstArgCall(call *jsast.CallExpr, name string) *jsast.CallExpr {
	if len(call.Args) == 0 {
		return nil
	}
	inner, ok := jsast.Unparen(call.Args[0]).(*jsast.CallExpr)
	if !ok {
		return nil
	}
	if id, ok := inner.Callee.(*jsast.Ident); !ok || id.Name != name {
		return nil
	}
	return inner
}
