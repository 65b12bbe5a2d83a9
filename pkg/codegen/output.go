package codegen

import (
	"strings"

	"github.com/walteh/vtsc/pkg/pipeline"
)

// Output holds the two synthetic documents of one component.
type Output struct {
	// Options declares the component: imports, scripts, the setup function
	// and the template code.
	Options string
	// Bundle exposes the component type to importers.
	Bundle string
}

// Serialize assembles the documents after every pass ran. optionsPath is the
// module specifier the bundle imports the options document from.
func Serialize(pc *pipeline.PassContext, scripts, templates []*pipeline.Region, optionsPath string) Output {
	var sb strings.Builder
	sb.WriteString(Prelude(pc))

	for _, imp := range pc.Imports.Values() {
		sb.WriteString(imp)
		sb.WriteString("\n")
	}

	var setup []*pipeline.Region
	for _, r := range scripts {
		if r.Block.Setup {
			setup = append(setup, r)
			continue
		}
		writeRegion(&sb, r)
	}
	if _, ok := pc.Contribution(ContribComponent); !ok {
		sb.WriteString("const " + pc.Name("internalComponent") + " = {};\n")
	}

	sb.WriteString("export default ")
	if pc.IsAsync {
		sb.WriteString("async ")
	}
	sb.WriteString("function " + pc.Name("setup"))
	if pc.Generic != nil {
		sb.WriteString("<" + pc.Generic.Text + pc.Generic.Loc.Marker() + ">")
	}
	sb.WriteString("() {\n")
	for _, r := range setup {
		writeRegion(&sb, r)
	}

	for _, kind := range ContributionKinds {
		sb.WriteString("type " + pc.Name(kind) + " = " + contribution(pc, kind) + ";\n")
	}
	if _, ok := pc.Contribution(ContribSlots); !ok {
		sb.WriteString(templateSlots(pc))
	}

	sb.WriteString("function " + pc.Name("template") + "() {\n")
	sb.WriteString("const " + pc.Name("ctx") + " = {} as " + pc.Name("Context") + "<typeof " + pc.Name("internalComponent") + "> & " +
		pc.Name(ContribProps) + " & " + pc.Name(ContribModel) + ";\n")
	for _, r := range templates {
		writeRegion(&sb, r)
	}
	sb.WriteString("return " + slotMap(pc) + ";\n}\n")

	sb.WriteString("return {} as " + pc.Name("Instance") + "<" +
		pc.Name(ContribProps) + " & " + pc.Name(ContribModel) + ", " +
		pc.Name(ContribEmits) + ", " +
		pc.Name(ContribSlots) + ", " +
		pc.Name(ContribExpose) + ", " +
		pc.Name(ContribOptions) + ">;\n}\n")

	return Output{Options: sb.String(), Bundle: bundle(pc, optionsPath)}
}

func writeRegion(sb *strings.Builder, r *pipeline.Region) {
	text := r.Buffer.String()
	if strings.TrimSpace(text) == "" {
		return
	}
	sb.WriteString(text)
	if !strings.HasSuffix(text, "\n") {
		sb.WriteString("\n")
	}
}

func contribution(pc *pipeline.PassContext, kind string) string {
	if c, ok := pc.Contribution(kind); ok {
		return c.Text
	}
	if kind == ContribSlots {
		return pc.Name("TemplateSlots")
	}
	return "{}"
}

// templateSlots derives the slots type from the props objects the template
// passes to its <slot> elements.
func templateSlots(pc *pipeline.PassContext) string {
	ret := "ReturnType<typeof " + pc.Name("template") + ">"
	text := "{ [K in keyof " + ret + "]?: (props: " + ret + "[K]) => any }"
	for _, s := range pc.Slots {
		if s.Dynamic {
			text += " & { [name: string]: ((props: any) => any) | undefined }"
			break
		}
	}
	return "type " + pc.Name("TemplateSlots") + " = " + text + ";\n"
}

func slotMap(pc *pipeline.PassContext) string {
	seen := map[string]bool{}
	var fields []string
	for _, s := range pc.Slots {
		if s.Dynamic || seen[s.Name] {
			continue
		}
		seen[s.Name] = true
		value := "{} as any"
		if s.Var != "" {
			value = s.Var
		}
		fields = append(fields, jsString(s.Name)+": "+value)
	}
	if len(fields) == 0 {
		return "{}"
	}
	return "{ " + strings.Join(fields, ", ") + " }"
}

func bundle(pc *pipeline.PassContext, optionsPath string) string {
	setup := pc.Name("setup")
	return "import " + setup + " from " + jsString(optionsPath) + ";\n" +
		"export type " + pc.Name("Component") + " = Awaited<ReturnType<typeof " + setup + ">>;\n" +
		"declare const " + pc.Name("default") + ": " + pc.Name("Component") + ";\n" +
		"export default " + pc.Name("default") + ";\n"
}
