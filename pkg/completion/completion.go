// Package completion lists the names available at a cursor in a component.
package completion

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/vtsc/pkg/compiler"
	"github.com/walteh/vtsc/pkg/completion/providers"
)

// CompletionItem represents a single completion suggestion
type CompletionItem = providers.CompletionItem

// GetCompletions returns completion items for the given offset. Member
// access after a dot yields nothing since no types are known here.
func GetCompletions(ctx context.Context, res *compiler.Result, offset int) ([]CompletionItem, error) {
	if offset < 0 || offset > len(res.Source) {
		return nil, errors.Errorf("offset %d is outside the source of %d bytes", offset, len(res.Source))
	}

	cc := NewCompletionContext(res, offset)
	if cc.AfterDot {
		return nil, nil
	}

	// earlier providers shadow later ones
	var list []providers.Provider
	switch {
	case cc.InTemplate():
		list = []providers.Provider{providers.NewScopeProvider(), providers.NewSetupProvider()}
	case cc.InSetup():
		list = []providers.Provider{providers.NewSetupProvider(), providers.NewMacroProvider()}
	default:
		zerolog.Ctx(ctx).Debug().Int("offset", offset).Msg("no completions outside template and setup script")
		return nil, nil
	}

	seen := map[string]bool{}
	var items []CompletionItem
	for _, p := range list {
		for _, it := range p.GetCompletions(res, cc.Region, offset) {
			if seen[it.Label] || !strings.HasPrefix(it.Label, cc.Prefix) {
				continue
			}
			seen[it.Label] = true
			items = append(items, it)
		}
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	return items, nil
}
