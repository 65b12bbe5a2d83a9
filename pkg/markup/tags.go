package markup

import "strings"

var htmlTags = toSet(`html body base head link meta style title address article aside footer
header hgroup h1 h2 h3 h4 h5 h6 nav section div dd dl dt figcaption figure picture hr img li
main ol p pre ul a b abbr bdi bdo br cite code data dfn em i kbd mark q rp rt ruby s samp
small span strong sub sup time u var wbr area audio map track video embed object param source
canvas script noscript del ins caption col colgroup table thead tbody td th tr button datalist
fieldset form input label legend meter optgroup option output progress select textarea details
dialog menu summary search iframe`)

var svgTags = toSet(`svg animate animateMotion animateTransform circle clipPath defs desc
ellipse feBlend feColorMatrix feComponentTransfer feComposite feConvolveMatrix
feDiffuseLighting feDisplacementMap feDistantLight feDropShadow feFlood feFuncA feFuncB
feFuncG feFuncR feGaussianBlur feImage feMerge feMergeNode feMorphology feOffset
fePointLight feSpecularLighting feSpotLight feTile feTurbulence filter foreignObject g
image line linearGradient marker mask metadata mpath path pattern polygon polyline
radialGradient rect set stop switch symbol text textPath tspan use view`)

var voidTags = toSet(`area base br col embed hr img input link meta param source track wbr`)

func toSet(list string) map[string]bool {
	out := map[string]bool{}
	for _, f := range strings.Fields(list) {
		out[f] = true
	}
	return out
}

// IsNativeTag reports whether tag is an HTML or SVG element name.
func IsNativeTag(tag string) bool {
	return htmlTags[tag] || svgTags[tag]
}

func isVoid(tag string) bool {
	return voidTags[strings.ToLower(tag)]
}

func classify(tag string) ElementKind {
	switch tag {
	case "template":
		return KindTemplate
	case "slot":
		return KindSlot
	}
	if IsNativeTag(tag) {
		return KindElement
	}
	return KindComponent
}

// ComponentName converts a kebab-case tag such as `my-button` into the
// PascalCase identifier `MyButton`. Other tags are returned unchanged.
func ComponentName(tag string) string {
	if !strings.Contains(tag, "-") {
		if tag == "" {
			return tag
		}
		return strings.ToUpper(tag[:1]) + tag[1:]
	}
	var sb strings.Builder
	for _, part := range strings.Split(tag, "-") {
		if part == "" {
			continue
		}
		sb.WriteString(strings.ToUpper(part[:1]))
		sb.WriteString(part[1:])
	}
	return sb.String()
}

// Walk visits n and its descendants depth-first. Returning false from fn skips
// the children of the visited node.
func Walk(n Node, fn func(Node) bool) {
	if !fn(n) {
		return
	}
	switch n := n.(type) {
	case *Root:
		for _, c := range n.Children {
			Walk(c, fn)
		}
	case *Element:
		for _, c := range n.Children {
			Walk(c, fn)
		}
	}
}

// Camelize converts `foo-bar` into `fooBar`.
func Camelize(s string) string {
	if !strings.Contains(s, "-") {
		return s
	}
	parts := strings.Split(s, "-")
	var sb strings.Builder
	sb.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		sb.WriteString(strings.ToUpper(p[:1]))
		sb.WriteString(p[1:])
	}
	return sb.String()
}

// Capitalize upper-cases the first byte of s.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
