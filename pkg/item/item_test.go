package item_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/walteh/vtsc/pkg/item"
	"github.com/walteh/vtsc/pkg/position"
	"github.com/walteh/vtsc/pkg/scope"
)

func TestKindNames(t *testing.T) {
	seen := map[string]bool{}
	for _, k := range item.Kinds() {
		name := k.String()
		assert.NotEqual(t, "unknown", name, "kind %d has no name", k)
		assert.False(t, seen[name], "duplicate name %q", name)
		seen[name] = true
	}
	assert.Equal(t, "unknown", item.Kind(255).String())
}

func TestFilter(t *testing.T) {
	base := item.NewBase(nil, position.NewSpan(0, 1), scope.Root())
	items := []item.Item{
		&item.Binding{Base: base, Name: "a"},
		&item.Warning{Base: base, Code: item.CodeParserFallback},
		&item.Binding{Base: base, Name: "b"},
	}

	bindings := item.Filter[*item.Binding](items)
	assert.Len(t, bindings, 2)
	assert.Equal(t, "b", bindings[1].Name)
	assert.Equal(t, item.KindWarning, item.Filter[*item.Warning](items)[0].Kind())
	assert.Empty(t, item.Filter[*item.Error](items))
}
