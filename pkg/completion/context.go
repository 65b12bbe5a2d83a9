package completion

import (
	"github.com/walteh/vtsc/pkg/compiler"
	"github.com/walteh/vtsc/pkg/pipeline"
	"github.com/walteh/vtsc/pkg/sfc"
)

// CompletionContext holds information about the completion request context
type CompletionContext struct {
	Offset int
	// Prefix is the partial identifier typed before Offset.
	Prefix   string
	AfterDot bool
	// Region is the script or template region holding Offset, or nil.
	Region *pipeline.Region
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c >= 0x80
}

// NewCompletionContext creates a new completion context
func NewCompletionContext(res *compiler.Result, offset int) *CompletionContext {
	src := res.Source
	start := offset
	for start > 0 && isIdentByte(src[start-1]) {
		start--
	}
	cc := &CompletionContext{
		Offset:   offset,
		Prefix:   src[start:offset],
		AfterDot: start > 0 && src[start-1] == '.',
	}
	for _, r := range res.Regions {
		c := r.Block.Content
		if c.Start <= offset && offset <= c.End {
			cc.Region = r
			break
		}
	}
	return cc
}

func (c *CompletionContext) InTemplate() bool {
	return c.Region != nil && c.Region.Block.Kind == sfc.KindTemplate
}

func (c *CompletionContext) InSetup() bool {
	return c.Region != nil && c.Region.Block.Kind == sfc.KindScript && c.Region.Block.Setup
}
