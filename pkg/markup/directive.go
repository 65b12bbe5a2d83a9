package markup

import (
	"strings"

	"github.com/walteh/vtsc/pkg/position"
)

func parseDirective(attr *Attribute) *Directive {
	name := attr.Name
	start := attr.NameLoc.Start
	dir := &Directive{Attr: attr}
	var rest string
	var restStart int
	propShorthand := false

	switch {
	case strings.HasPrefix(name, "v-") && len(name) > 2:
		body := name[2:]
		end := strings.IndexAny(body, ":.")
		if end < 0 {
			end = len(body)
		}
		dir.Name = body[:end]
		rest = body[end:]
		restStart = start + 2 + end
		if strings.HasPrefix(rest, ":") {
			rest = rest[1:]
			restStart++
		} else if rest != "" {
			// `v-on.stop` style: modifiers without an argument
			dir.Modifiers = splitModifiers(rest[1:])
			rest = ""
		}
	case strings.HasPrefix(name, ":"):
		dir.Name = "bind"
		rest, restStart = name[1:], start+1
	case strings.HasPrefix(name, "."):
		dir.Name = "bind"
		rest, restStart = name[1:], start+1
		propShorthand = true
	case strings.HasPrefix(name, "@"):
		dir.Name = "on"
		rest, restStart = name[1:], start+1
	case strings.HasPrefix(name, "#"):
		dir.Name = "slot"
		rest, restStart = name[1:], start+1
	default:
		return nil
	}

	if rest != "" {
		argEnd := 0
		if strings.HasPrefix(rest, "[") {
			if close := strings.IndexByte(rest, ']'); close > 0 {
				dir.Dynamic = true
				dir.Arg = rest[1:close]
				dir.ArgLoc = position.NewSpan(restStart+1, restStart+close)
				argEnd = close + 1
			}
		}
		if !dir.Dynamic {
			argEnd = strings.IndexByte(rest, '.')
			if dir.Name == "slot" || argEnd < 0 {
				// slot names may contain dots
				argEnd = len(rest)
			}
			dir.Arg = rest[:argEnd]
			dir.ArgLoc = position.NewSpan(restStart, restStart+argEnd)
		}
		if argEnd < len(rest) && rest[argEnd] == '.' {
			dir.Modifiers = append(dir.Modifiers, splitModifiers(rest[argEnd+1:])...)
		}
	}

	if propShorthand {
		dir.Modifiers = append(dir.Modifiers, "prop")
	}
	if attr.HasValue {
		dir.HasExp = true
		dir.Exp = attr.Value
		dir.ExpLoc = attr.ValueLoc
	}
	return dir
}

func splitModifiers(s string) []string {
	var out []string
	for _, m := range strings.Split(s, ".") {
		if m != "" {
			out = append(out, m)
		}
	}
	return out
}
