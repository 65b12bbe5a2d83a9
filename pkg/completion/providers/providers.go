// Package providers produces the candidate names for one kind of completion.
package providers

import (
	"github.com/walteh/vtsc/pkg/compiler"
	"github.com/walteh/vtsc/pkg/pipeline"
)

// CompletionItem represents a single completion suggestion
type CompletionItem struct {
	Label  string `json:"label"`
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

// Provider lists candidates for a cursor inside region.
type Provider interface {
	GetCompletions(res *compiler.Result, region *pipeline.Region, offset int) []CompletionItem
}
