package jsast

// parseType consumes a TypeScript type and returns its span.
func (p *parser) parseType() *TypeNode {
	start := p.tok().Start
	p.skipType()
	return &TypeNode{Loc: Loc{Start: start, Stop: p.prevEnd()}}
}

func (p *parser) skipType() {
	p.skipUnionType()
	if p.failed() {
		return
	}
	if p.is("extends") && !p.tok().NewlineBefore {
		p.next()
		p.skipUnionType()
		p.expect("?")
		p.skipType()
		p.expect(":")
		p.skipType()
	}
}

func (p *parser) skipUnionType() {
	if p.is("|") || p.is("&") {
		p.next()
	}
	p.skipTypeOperand()
	for !p.failed() && (p.is("|") || p.is("&")) {
		p.next()
		p.skipTypeOperand()
	}
}

func (p *parser) skipTypeOperand() {
	for p.tok().Kind == TokIdent && !p.peekAt(1).NewlineBefore {
		switch p.tok().Text {
		case "keyof", "readonly", "unique":
			n := p.peekAt(1)
			if n.Kind == TokPunct && n.Text != "(" && n.Text != "[" {
				break
			}
			p.next()
			continue
		case "infer":
			p.next()
			p.ident()
			if p.is("extends") {
				s := p.save()
				p.next()
				p.skipTypeOperand()
				// `infer U extends X ? A : B` belongs to the enclosing conditional.
				if p.is("?") {
					p.restore(s)
				}
			}
			return
		case "asserts":
			if p.peekAt(1).Kind == TokIdent {
				p.next()
				p.next()
				if p.eat("is") {
					p.skipType()
				}
				return
			}
		}
		break
	}
	p.skipPrimaryType()
	for !p.failed() {
		t := p.tok()
		if t.NewlineBefore {
			return
		}
		if t.Kind == TokPunct && t.Text == "[" {
			p.skipBalanced()
			continue
		}
		return
	}
}

func (p *parser) skipPrimaryType() {
	t := p.tok()
	switch t.Kind {
	case TokLBrace:
		p.skipBalanced()
		return
	case TokString, TokNumber:
		p.next()
		return
	case TokTemplateStart:
		p.skipTemplateType()
		return
	case TokPunct:
		switch t.Text {
		case "[":
			p.skipBalanced()
			return
		case "(":
			p.skipBalanced()
			if p.is("=>") {
				p.next()
				p.skipType()
			}
			return
		case "<":
			p.skipBalanced()
			if p.is("(") {
				p.skipBalanced()
			}
			p.expect("=>")
			p.skipType()
			return
		case "-":
			p.next()
			if p.tok().Kind != TokNumber {
				p.fail("expected number in type, found %q", p.tok().Text)
				return
			}
			p.next()
			return
		}
	case TokIdent:
		switch t.Text {
		case "new", "abstract":
			if t.Text == "abstract" {
				p.next()
			}
			p.expect("new")
			if p.is("<") {
				p.skipBalanced()
			}
			if !p.is("(") {
				p.fail("expected \"(\" in constructor type")
				return
			}
			p.skipBalanced()
			p.expect("=>")
			p.skipType()
			return
		case "typeof":
			p.next()
			if p.is("import") {
				p.next()
				p.skipBalanced()
			} else {
				p.ident()
			}
			p.skipEntityTail()
			return
		case "import":
			p.next()
			p.skipBalanced()
			p.skipEntityTail()
			return
		}
		p.next()
		if p.is("is") && !p.tok().NewlineBefore {
			p.next()
			p.skipType()
			return
		}
		p.skipEntityTail()
		return
	}
	p.fail("expected type, found %q", t.Text)
}

// skipEntityTail consumes `.Name` parts and a type argument list.
func (p *parser) skipEntityTail() {
	for !p.failed() && p.is(".") {
		p.next()
		p.propertyName()
	}
	if !p.failed() && p.is("<") && !p.tok().NewlineBefore {
		p.skipBalanced()
	}
}

func (p *parser) skipTemplateType() {
	p.next()
	depth := 0
	for {
		t := p.tok()
		switch t.Kind {
		case TokEOF:
			p.fail("unterminated template literal type")
			return
		case TokTemplateStart:
			depth++
		case TokTemplateEnd:
			if depth == 0 {
				p.next()
				return
			}
			depth--
		}
		p.next()
	}
}
