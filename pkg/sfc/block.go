package sfc

import (
	"github.com/walteh/vtsc/pkg/position"
)

type Kind string

const (
	KindScript   Kind = "script"
	KindTemplate Kind = "template"
	KindStyle    Kind = "style"
	KindCustom   Kind = "custom"
)

func kindOf(tag string) Kind {
	switch tag {
	case "script":
		return KindScript
	case "template":
		return KindTemplate
	case "style":
		return KindStyle
	}
	return KindCustom
}

// Attr is one attribute of a block's opening tag. Key and Value are absolute
// offsets; Value covers the text between the quotes. Both are zero when the
// attribute could not be located in the tag text.
type Attr struct {
	Name  string
	Raw   string
	Bool  bool
	Key   position.Span
	Value position.Span
}

// Block is one top-level region of a component source unit.
type Block struct {
	Kind    Kind
	Tag     string
	Lang    string
	Setup   bool
	Open    position.Span
	Content position.Span
	Close   position.Span
	Attrs   []Attr
	// Synthetic marks the empty script block added to files without one.
	Synthetic bool
}

func (b *Block) Attr(name string) (Attr, bool) {
	for _, a := range b.Attrs {
		if a.Name == name {
			return a, true
		}
	}
	return Attr{}, false
}

// Text returns the block content from the full source text.
func (b *Block) Text(src string) string {
	return b.Content.Text(src)
}

// Generic returns the value of the `generic` attribute of a script block.
func (b *Block) Generic() (Attr, bool) {
	a, ok := b.Attr("generic")
	if !ok || a.Bool {
		return Attr{}, false
	}
	return a, true
}

// IsTypeScript reports whether the block's language enables type syntax.
func (b *Block) IsTypeScript() bool {
	return b.Lang == "ts" || b.Lang == "tsx"
}

// Descriptor is a segmented component source unit.
type Descriptor struct {
	Filename string
	Source   string
	Blocks   []*Block
}

func (d *Descriptor) byKind(k Kind) []*Block {
	var out []*Block
	for _, b := range d.Blocks {
		if b.Kind == k {
			out = append(out, b)
		}
	}
	return out
}

func (d *Descriptor) Scripts() []*Block   { return d.byKind(KindScript) }
func (d *Descriptor) Templates() []*Block { return d.byKind(KindTemplate) }
func (d *Descriptor) Styles() []*Block    { return d.byKind(KindStyle) }

// ScriptSetup returns the first script block with the setup attribute.
func (d *Descriptor) ScriptSetup() *Block {
	for _, b := range d.Scripts() {
		if b.Setup {
			return b
		}
	}
	return nil
}
