package providers

import (
	"github.com/walteh/vtsc/pkg/compiler"
	"github.com/walteh/vtsc/pkg/item"
	"github.com/walteh/vtsc/pkg/pipeline"
	"github.com/walteh/vtsc/pkg/sfc"
)

// SetupProvider offers the top-level names of the setup scripts.
type SetupProvider struct{}

func NewSetupProvider() *SetupProvider {
	return &SetupProvider{}
}

func declKind(kind string) string {
	switch kind {
	case "function":
		return "function"
	case "class":
		return "class"
	case "import":
		return "module"
	case "const":
		return "constant"
	}
	return "variable"
}

func (p *SetupProvider) GetCompletions(res *compiler.Result, _ *pipeline.Region, _ int) []CompletionItem {
	var completions []CompletionItem
	for _, r := range res.Regions {
		if r.Block.Kind != sfc.KindScript || !r.Block.Setup {
			continue
		}
		for _, d := range item.Filter[*item.Declaration](r.Items) {
			completions = append(completions, CompletionItem{
				Label:  d.Name,
				Kind:   declKind(d.DeclKind),
				Detail: "setup " + d.DeclKind,
			})
		}
	}
	return completions
}
