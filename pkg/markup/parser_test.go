package markup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/vtsc/pkg/markup"
	"github.com/walteh/vtsc/pkg/position"
)

func TestParse(t *testing.T) {
	src := `<div id="app" :class="cls" @click.stop="go($event)">
  <!-- note -->
  <my-button v-if="ok" #default="{ item }">{{ item.name }}</my-button>
  <br>
  <input v-model.trim="text" disabled />
</div>`
	root := markup.Parse(src, 100)
	require.Empty(t, root.Errors)
	require.Len(t, root.Children, 1)

	div := root.Children[0].(*markup.Element)
	assert.Equal(t, "div", div.Tag)
	assert.Equal(t, markup.KindElement, div.Kind)
	assert.Equal(t, 100, div.Open.Start)
	assert.Equal(t, position.NewSpan(100+len(src)-6, 100+len(src)), div.Close)
	require.Len(t, div.Attrs, 3)

	id := div.Attrs[0]
	assert.Nil(t, id.Dir)
	assert.Equal(t, "app", id.Value)
	assert.Equal(t, "app", id.ValueLoc.Shift(-100).Text(src))

	class := div.Attrs[1].Dir
	require.NotNil(t, class)
	assert.Equal(t, "bind", class.Name)
	assert.Equal(t, "class", class.Arg)
	assert.Equal(t, "cls", class.ExpLoc.Shift(-100).Text(src))

	click := div.Attrs[2].Dir
	assert.Equal(t, "on", click.Name)
	assert.Equal(t, "click", click.Arg)
	assert.Equal(t, []string{"stop"}, click.Modifiers)

	var elements []*markup.Element
	for _, c := range div.Children {
		if el, ok := c.(*markup.Element); ok {
			elements = append(elements, el)
		}
	}
	require.Len(t, elements, 3)

	btn := elements[0]
	assert.Equal(t, markup.KindComponent, btn.Kind)
	assert.Equal(t, "MyButton", markup.ComponentName(btn.Tag))
	assert.Equal(t, "ok", btn.Directive("if").Exp)
	slot := btn.Directive("slot")
	require.NotNil(t, slot)
	assert.Equal(t, "default", slot.Arg)
	require.Len(t, btn.Children, 1)
	interp := btn.Children[0].(*markup.Interpolation)
	assert.Equal(t, " item.name ", interp.Expr)
	assert.Equal(t, " item.name ", interp.Content.Shift(-100).Text(src))

	assert.Equal(t, "br", elements[1].Tag)
	assert.True(t, elements[1].Close.IsZero())

	input := elements[2]
	assert.True(t, input.SelfClosing)
	model := input.Directive("model")
	assert.Equal(t, []string{"trim"}, model.Modifiers)
	assert.NotNil(t, input.Attr("disabled"))
	assert.False(t, input.Attr("disabled").HasValue)
}

func TestParseDirectives(t *testing.T) {
	tests := []struct {
		attr      string
		name      string
		arg       string
		dynamic   bool
		modifiers []string
	}{
		{attr: `v-if="a"`, name: "if"},
		{attr: `v-else`, name: "else"},
		{attr: `v-on:[evt].once="h"`, name: "on", arg: "evt", dynamic: true, modifiers: []string{"once"}},
		{attr: `v-bind="obj"`, name: "bind"},
		{attr: `.value="x"`, name: "bind", arg: "value", modifiers: []string{"prop"}},
		{attr: `#item.row="p"`, name: "slot", arg: "item.row"},
		{attr: `v-focus:arg.a.b="x"`, name: "focus", arg: "arg", modifiers: []string{"a", "b"}},
		{attr: `v-model:title="t"`, name: "model", arg: "title"},
	}
	for _, tt := range tests {
		t.Run(tt.attr, func(t *testing.T) {
			root := markup.Parse("<x "+tt.attr+"></x>", 0)
			require.Empty(t, root.Errors)
			el := root.Children[0].(*markup.Element)
			require.Len(t, el.Attrs, 1)
			dir := el.Attrs[0].Dir
			require.NotNil(t, dir)
			assert.Equal(t, tt.name, dir.Name)
			assert.Equal(t, tt.arg, dir.Arg)
			assert.Equal(t, tt.dynamic, dir.Dynamic)
			assert.Equal(t, tt.modifiers, dir.Modifiers)
		})
	}
}

func TestParseErrors(t *testing.T) {
	root := markup.Parse("<div><span></div></p>", 0)
	require.Len(t, root.Errors, 2)
	assert.Contains(t, root.Errors[0].Msg, "<span> is missing end tag")
	assert.Contains(t, root.Errors[1].Msg, "invalid end tag </p>")

	div := root.Children[0].(*markup.Element)
	assert.False(t, div.Close.IsZero())
}

func TestParseTextAndLessThan(t *testing.T) {
	root := markup.Parse("a < b {single} {{ x }}", 0)
	require.Empty(t, root.Errors)
	require.Len(t, root.Children, 2)
	text := root.Children[0].(*markup.Text)
	assert.Equal(t, "a < b {single} ", text.Value)
	assert.IsType(t, &markup.Interpolation{}, root.Children[1])
}
