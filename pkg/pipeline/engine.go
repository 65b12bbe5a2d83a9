package pipeline

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"

	"github.com/walteh/vtsc/pkg/item"
	"github.com/walteh/vtsc/pkg/sfc"
)

type Phase uint8

const (
	PhaseScript Phase = iota
	PhaseTemplate
)

func (p Phase) String() string {
	if p == PhaseTemplate {
		return "template"
	}
	return "script"
}

// Region is one block with its buffer and items.
type Region struct {
	Block  *sfc.Block
	Buffer *Buffer
	Items  []item.Item
}

func NewRegion(src string, block *sfc.Block, items []item.Item) *Region {
	return &Region{
		Block:  block,
		Buffer: NewBuffer(block.Content.Text(src), block.Content.Start),
		Items:  items,
	}
}

// Pass is one phase over one or more regions.
type Pass struct {
	Phase   Phase
	Regions []*Region
}

// Run executes the pass: every pre hook, then for each item in order every
// plugin handling its kind, then every post hook. Hook errors do not stop the
// pass; they are returned together at the end.
func Run(ctx context.Context, reg *Registry, pc *PassContext, pass *Pass) error {
	plugins := reg.Ordered()
	logger := zerolog.Ctx(ctx).With().Str("phase", pass.Phase.String()).Logger()

	var errs error
	for _, p := range plugins {
		if p.Pre == nil {
			continue
		}
		if err := p.Pre(pc, pass); err != nil {
			errs = multierr.Append(errs, errors.Errorf("%s pre hook: %w", p.Name, err))
		}
	}

	for _, r := range pass.Regions {
		for _, it := range r.Items {
			for _, p := range plugins {
				hook, ok := p.Hooks[it.Kind()]
				if !ok {
					continue
				}
				if err := hook(pc, r, it); err != nil {
					errs = multierr.Append(errs, errors.Errorf("%s %s hook at %d: %w", p.Name, it.Kind(), it.Span().Start, err))
				}
			}
		}
	}

	for _, p := range plugins {
		if p.Post == nil {
			continue
		}
		if err := p.Post(pc, pass); err != nil {
			errs = multierr.Append(errs, errors.Errorf("%s post hook: %w", p.Name, err))
		}
	}

	for _, r := range pass.Regions {
		if err := r.Buffer.Err(); err != nil {
			errs = multierr.Append(errs, errors.Errorf("region at %d: %w", r.Buffer.Base(), err))
		}
	}

	logger.Debug().Int("regions", len(pass.Regions)).Int("plugins", len(plugins)).Bool("failed", errs != nil).Msg("pass complete")
	return errs
}
