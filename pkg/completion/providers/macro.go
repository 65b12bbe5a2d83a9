package providers

import (
	"github.com/walteh/vtsc/pkg/codegen"
	"github.com/walteh/vtsc/pkg/compiler"
	"github.com/walteh/vtsc/pkg/pipeline"
)

// MacroProvider offers the compiler macros.
type MacroProvider struct{}

func NewMacroProvider() *MacroProvider {
	return &MacroProvider{}
}

func (p *MacroProvider) GetCompletions(_ *compiler.Result, _ *pipeline.Region, _ int) []CompletionItem {
	var completions []CompletionItem
	for _, name := range codegen.Macros() {
		kind, _ := codegen.MacroContribution(name)
		completions = append(completions, CompletionItem{
			Label:  name,
			Kind:   "function",
			Detail: "compiler macro: " + kind,
		})
	}
	return completions
}
