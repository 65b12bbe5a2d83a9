package providers

import (
	"github.com/walteh/vtsc/pkg/compiler"
	"github.com/walteh/vtsc/pkg/item"
	"github.com/walteh/vtsc/pkg/pipeline"
)

// ScopeProvider offers the names bound by enclosing v-for, v-slot and
// handler scopes.
type ScopeProvider struct{}

func NewScopeProvider() *ScopeProvider {
	return &ScopeProvider{}
}

// innermost returns the smallest item of region whose span holds offset.
// An offset at the very end of a span still counts, so a cursor right after
// the last character typed is inside it.
func innermost(region *pipeline.Region, offset int) item.Item {
	var best item.Item
	for _, it := range region.Items {
		s := it.Span()
		if s.IsZero() || offset < s.Start || offset > s.End {
			continue
		}
		if best == nil || s.Len() < best.Span().Len() {
			best = it
		}
	}
	return best
}

func (p *ScopeProvider) GetCompletions(_ *compiler.Result, region *pipeline.Region, offset int) []CompletionItem {
	it := innermost(region, offset)
	if it == nil {
		return nil
	}
	var completions []CompletionItem
	for _, name := range it.Scope().Ignored() {
		completions = append(completions, CompletionItem{
			Label:  name,
			Kind:   "parameter",
			Detail: "template local",
		})
	}
	return completions
}
