package jsast

import (
	"fmt"
	"strings"
)

type parser struct {
	toks     []Token
	pos      int
	opts     Options
	err      *SyntaxError
	tolerant bool

	inAsync     bool
	inGenerator bool
	noIn        bool
}

func newParser(text string, opts Options, tolerant bool) (*parser, error) {
	toks, err := Tokenize(text, opts.Base)
	if err != nil {
		return nil, err
	}
	return &parser{
		toks:     toks,
		opts:     opts,
		tolerant: tolerant,
		inAsync:  opts.Module,
	}, nil
}

type state struct {
	pos int
	err *SyntaxError
}

func (p *parser) save() state     { return state{pos: p.pos, err: p.err} }
func (p *parser) restore(s state) { p.pos, p.err = s.pos, s.err }

func (p *parser) tok() Token { return p.toks[p.pos] }

func (p *parser) peekAt(n int) Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// prevEnd is the end offset of the last consumed token.
func (p *parser) prevEnd() int {
	if p.pos == 0 {
		return p.toks[0].Start
	}
	return p.toks[p.pos-1].End
}

func (p *parser) fail(format string, args ...any) {
	if p.err != nil {
		return
	}
	p.err = &SyntaxError{Offset: p.tok().Start, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) failed() bool { return p.err != nil }

// is reports whether the current token is the punctuator or word text.
func (p *parser) is(text string) bool {
	t := p.tok()
	switch t.Kind {
	case TokPunct, TokIdent:
		return t.Text == text
	case TokLBrace:
		return text == "{"
	case TokRBrace:
		return text == "}"
	}
	return false
}

func (p *parser) isAt(n int, text string) bool {
	t := p.peekAt(n)
	switch t.Kind {
	case TokPunct, TokIdent:
		return t.Text == text
	case TokLBrace:
		return text == "{"
	case TokRBrace:
		return text == "}"
	}
	return false
}

func (p *parser) eat(text string) bool {
	if p.is(text) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(text string) {
	if !p.eat(text) {
		p.fail("expected %q, found %q", text, p.tok().Text)
	}
}

// isGt reports whether the current token starts with `>`; used for closing type
// argument lists.
func (p *parser) isGt() bool {
	t := p.tok()
	return t.Kind == TokPunct && t.Text == ">"
}

func (p *parser) consumeSemicolon() {
	if p.eat(";") {
		return
	}
	t := p.tok()
	if t.Kind == TokEOF || t.Kind == TokRBrace || t.NewlineBefore {
		return
	}
	p.fail("expected \";\", found %q", t.Text)
}

func (p *parser) ident() *Ident {
	t := p.tok()
	if t.Kind != TokIdent && t.Kind != TokPrivate {
		p.fail("expected identifier, found %q", t.Text)
		return &Ident{Loc: Loc{Start: t.Start, Stop: t.Start}}
	}
	p.next()
	return &Ident{Loc: Loc{Start: t.Start, Stop: t.End}, Name: t.Text}
}

func (p *parser) parseProgram() *Program {
	body := p.parseStatementList(func() bool { return p.tok().Kind == TokEOF })
	return &Program{
		Loc:    Loc{Start: p.opts.Base, Stop: p.toks[len(p.toks)-1].End},
		Body:   body,
		Module: p.opts.Module,
	}
}

func (p *parser) parseStatementList(done func() bool) []Node {
	var body []Node
	for !done() {
		if p.tok().Kind == TokEOF {
			p.fail("unexpected end of input")
			break
		}
		startPos := p.pos
		stmt := p.parseStatement()
		if p.failed() {
			if !p.tolerant {
				break
			}
			body = append(body, p.recover(startPos))
			continue
		}
		body = append(body, stmt)
	}
	return body
}

// recover skips to a plausible statement boundary after a failed statement
// and returns a BadNode covering the skipped tokens.
func (p *parser) recover(startPos int) Node {
	p.err = nil
	p.pos = startPos
	depth := 0
	first := true
	for p.tok().Kind != TokEOF {
		t := p.tok()
		if !first && depth == 0 && t.NewlineBefore {
			break
		}
		first = false
		switch {
		case t.Kind == TokLBrace || t.Kind == TokTemplateExprStart || (t.Kind == TokPunct && (t.Text == "(" || t.Text == "[")):
			depth++
		case t.Kind == TokRBrace || t.Kind == TokTemplateExprEnd || (t.Kind == TokPunct && (t.Text == ")" || t.Text == "]")):
			if depth == 0 {
				goto done
			}
			depth--
		case t.Kind == TokPunct && t.Text == ";" && depth == 0:
			p.next()
			goto done
		}
		p.next()
	}
done:
	if p.pos == startPos && p.tok().Kind != TokEOF {
		p.next()
	}
	start := p.toks[startPos].Start
	end := p.prevEnd()
	if end < start {
		end = start
	}
	return &BadNode{
		Loc:    Loc{Start: start, Stop: end},
		Idents: recoverIdents(p.toks[startPos:p.pos]),
	}
}

func (p *parser) parseStatement() Node {
	t := p.tok()
	switch t.Kind {
	case TokLBrace:
		return p.parseBlock()
	case TokPunct:
		if t.Text == ";" {
			p.next()
			return &EmptyStmt{Loc: Loc{Start: t.Start, Stop: t.End}}
		}
	case TokIdent:
		switch t.Text {
		case "var", "const":
			if t.Text == "const" && p.isAt(1, "enum") {
				return p.parseTypeDecl()
			}
			decl := p.parseVarDecl()
			p.consumeSemicolon()
			decl.Stop = p.prevEnd()
			return decl
		case "let":
			n := p.peekAt(1)
			if n.Kind == TokIdent || n.Kind == TokLBrace || (n.Kind == TokPunct && n.Text == "[") {
				decl := p.parseVarDecl()
				p.consumeSemicolon()
				decl.Stop = p.prevEnd()
				return decl
			}
		case "function":
			return p.parseFunction(FuncDecl, false, t.Start)
		case "async":
			if p.isAt(1, "function") && !p.peekAt(1).NewlineBefore {
				p.next()
				return p.parseFunction(FuncDecl, true, t.Start)
			}
		case "class":
			return p.parseClass(true)
		case "if":
			return p.parseIf()
		case "for":
			return p.parseFor()
		case "while":
			p.next()
			p.expect("(")
			test := p.parseExpression()
			p.expect(")")
			body := p.parseStatement()
			return &WhileStmt{Loc: Loc{Start: t.Start, Stop: p.prevEnd()}, Test: test, Body: body}
		case "do":
			p.next()
			body := p.parseStatement()
			p.expect("while")
			p.expect("(")
			test := p.parseExpression()
			p.expect(")")
			p.eat(";")
			return &DoWhileStmt{Loc: Loc{Start: t.Start, Stop: p.prevEnd()}, Body: body, Test: test}
		case "switch":
			return p.parseSwitch()
		case "try":
			return p.parseTry()
		case "return":
			p.next()
			var arg Node
			if !p.atStatementEnd() {
				arg = p.parseExpression()
			}
			p.consumeSemicolon()
			return &ReturnStmt{Loc: Loc{Start: t.Start, Stop: p.prevEnd()}, Arg: arg}
		case "throw":
			p.next()
			arg := p.parseExpression()
			p.consumeSemicolon()
			return &ThrowStmt{Loc: Loc{Start: t.Start, Stop: p.prevEnd()}, Arg: arg}
		case "break", "continue":
			p.next()
			var label *Ident
			if p.tok().Kind == TokIdent && !p.tok().NewlineBefore {
				label = p.ident()
			}
			p.consumeSemicolon()
			return &JumpStmt{Loc: Loc{Start: t.Start, Stop: p.prevEnd()}, Keyword: t.Text, Label: label}
		case "import":
			if !p.isAt(1, "(") && !p.isAt(1, ".") {
				return p.parseImport()
			}
		case "export":
			return p.parseExport()
		case "type", "interface", "enum", "declare", "namespace", "module", "abstract":
			if p.opts.TypeScript && p.isTypeDeclStart() {
				return p.parseTypeDecl()
			}
		}
		if p.isAt(1, ":") && !isReserved(t.Text) {
			label := p.ident()
			p.next()
			body := p.parseStatement()
			return &LabeledStmt{Loc: Loc{Start: t.Start, Stop: p.prevEnd()}, Label: label, Body: body}
		}
	}

	expr := p.parseExpression()
	p.consumeSemicolon()
	return &ExprStmt{Loc: Loc{Start: t.Start, Stop: p.prevEnd()}, Expr: expr}
}

func (p *parser) atStatementEnd() bool {
	t := p.tok()
	return t.Kind == TokEOF || t.Kind == TokRBrace || t.NewlineBefore || (t.Kind == TokPunct && t.Text == ";")
}

func (p *parser) parseBlock() *BlockStmt {
	start := p.tok().Start
	p.expect("{")
	body := p.parseStatementList(func() bool { return p.is("}") })
	p.expect("}")
	return &BlockStmt{Loc: Loc{Start: start, Stop: p.prevEnd()}, Body: body}
}

func (p *parser) parseVarDecl() *VarDecl {
	kw := p.next()
	decl := &VarDecl{Loc: Loc{Start: kw.Start}, Kind: kw.Text}
	for {
		start := p.tok().Start
		id := p.parseBindingTarget()
		d := &VarDeclarator{ID: id}
		if p.opts.TypeScript {
			p.eat("!")
			if p.eat(":") {
				d.Type = p.parseType()
			}
		}
		if p.eat("=") {
			d.Init = p.parseAssign()
		}
		d.Loc = Loc{Start: start, Stop: p.prevEnd()}
		decl.Decls = append(decl.Decls, d)
		if p.failed() || !p.eat(",") {
			break
		}
	}
	decl.Stop = p.prevEnd()
	return decl
}

func (p *parser) parseIf() Node {
	start := p.next().Start
	p.expect("(")
	test := p.parseExpression()
	p.expect(")")
	cons := p.parseStatement()
	var alt Node
	if p.eat("else") {
		alt = p.parseStatement()
	}
	return &IfStmt{Loc: Loc{Start: start, Stop: p.prevEnd()}, Test: test, Cons: cons, Alt: alt}
}

func (p *parser) parseFor() Node {
	start := p.next().Start
	await := p.eat("await")
	p.expect("(")

	var init Node
	if !p.is(";") {
		saved := p.noIn
		p.noIn = true
		if p.is("var") || p.is("const") || (p.is("let") && (p.peekAt(1).Kind == TokIdent || p.peekAt(1).Kind == TokLBrace || p.isAt(1, "["))) {
			init = p.parseVarDecl()
		} else {
			init = p.parseExpression()
		}
		p.noIn = saved
	}

	if p.is("of") || p.is("in") {
		of := p.next().Text == "of"
		var right Node
		if of {
			right = p.parseAssign()
		} else {
			right = p.parseExpression()
		}
		p.expect(")")
		body := p.parseStatement()
		return &ForInStmt{Loc: Loc{Start: start, Stop: p.prevEnd()}, Left: toPattern(init), Right: right, Body: body, Of: of, Await: await}
	}

	p.expect(";")
	var test, update Node
	if !p.is(";") {
		test = p.parseExpression()
	}
	p.expect(";")
	if !p.is(")") {
		update = p.parseExpression()
	}
	p.expect(")")
	body := p.parseStatement()
	return &ForStmt{Loc: Loc{Start: start, Stop: p.prevEnd()}, Init: init, Test: test, Update: update, Body: body}
}

func (p *parser) parseSwitch() Node {
	start := p.next().Start
	p.expect("(")
	disc := p.parseExpression()
	p.expect(")")
	p.expect("{")
	sw := &SwitchStmt{Disc: disc}
	for !p.is("}") && !p.failed() && p.tok().Kind != TokEOF {
		caseStart := p.tok().Start
		var test Node
		if p.eat("default") {
			p.expect(":")
		} else {
			p.expect("case")
			test = p.parseExpression()
			p.expect(":")
		}
		body := p.parseStatementList(func() bool {
			return p.is("case") || p.is("default") || p.is("}")
		})
		sw.Cases = append(sw.Cases, &SwitchCase{Loc: Loc{Start: caseStart, Stop: p.prevEnd()}, Test: test, Body: body})
	}
	p.expect("}")
	sw.Loc = Loc{Start: start, Stop: p.prevEnd()}
	return sw
}

func (p *parser) parseTry() Node {
	start := p.next().Start
	try := &TryStmt{Block: p.parseBlock()}
	if p.eat("catch") {
		if p.eat("(") {
			try.Param = p.parseBindingTarget()
			if p.opts.TypeScript && p.eat(":") {
				p.parseType()
			}
			p.expect(")")
		}
		try.Handler = p.parseBlock()
	}
	if p.eat("finally") {
		try.Finalizer = p.parseBlock()
	}
	if try.Handler == nil && try.Finalizer == nil {
		p.fail("missing catch or finally after try")
	}
	try.Loc = Loc{Start: start, Stop: p.prevEnd()}
	return try
}

func (p *parser) parseImport() Node {
	start := p.next().Start
	decl := &ImportDecl{}
	if p.opts.TypeScript && p.is("type") && (p.peekAt(1).Kind == TokIdent && !p.isAt(1, "from") || p.isAt(1, "{") || p.isAt(1, "*")) {
		p.next()
		decl.TypeOnly = true
	}

	if p.tok().Kind == TokString {
		decl.Source = p.parseStringLiteral()
	} else {
		if p.tok().Kind == TokIdent && !p.is("from") || p.is("from") && p.isAt(1, "from") {
			local := p.ident()
			decl.Specifiers = append(decl.Specifiers, &ImportSpec{Loc: local.Loc, Kind: ImportDefault, Local: local, TypeOnly: decl.TypeOnly})
			p.eat(",")
		}
		if p.is("*") {
			specStart := p.next().Start
			p.expect("as")
			local := p.ident()
			decl.Specifiers = append(decl.Specifiers, &ImportSpec{Loc: Loc{Start: specStart, Stop: local.Stop}, Kind: ImportNamespace, Local: local, TypeOnly: decl.TypeOnly})
		} else if p.eat("{") {
			for !p.is("}") && !p.failed() {
				specStart := p.tok().Start
				typeOnly := decl.TypeOnly
				if p.opts.TypeScript && p.is("type") && (p.peekAt(1).Kind == TokIdent || p.peekAt(1).Kind == TokString) && !p.isAt(1, "as") {
					p.next()
					typeOnly = true
				}
				imported := p.moduleExportName()
				local := imported
				if p.eat("as") {
					local = p.ident()
				}
				decl.Specifiers = append(decl.Specifiers, &ImportSpec{Loc: Loc{Start: specStart, Stop: p.prevEnd()}, Kind: ImportNamed, Imported: imported, Local: local, TypeOnly: typeOnly})
				if !p.eat(",") {
					break
				}
			}
			p.expect("}")
		}
		p.expect("from")
		decl.Source = p.parseStringLiteral()
	}
	p.skipImportAttributes()
	p.consumeSemicolon()
	decl.Loc = Loc{Start: start, Stop: p.prevEnd()}
	return decl
}

func (p *parser) skipImportAttributes() {
	if (p.is("with") || p.is("assert")) && p.isAt(1, "{") && !p.tok().NewlineBefore {
		p.next()
		p.skipBalanced()
	}
}

// moduleExportName accepts identifiers (including reserved words) and string names.
func (p *parser) moduleExportName() *Ident {
	t := p.tok()
	if t.Kind == TokString {
		p.next()
		return &Ident{Loc: Loc{Start: t.Start, Stop: t.End}, Name: unquote(t.Text)}
	}
	return p.ident()
}

func (p *parser) parseStringLiteral() *Literal {
	t := p.tok()
	if t.Kind != TokString {
		p.fail("expected string, found %q", t.Text)
		return &Literal{Loc: Loc{Start: t.Start, Stop: t.Start}, Kind: LitString}
	}
	p.next()
	return &Literal{Loc: Loc{Start: t.Start, Stop: t.End}, Kind: LitString, Raw: t.Text, Value: unquote(t.Text)}
}

func (p *parser) parseExport() Node {
	start := p.next().Start

	if p.eat("default") {
		var decl Node
		switch {
		case p.is("function"):
			decl = p.parseFunction(FuncDecl, false, p.tok().Start)
		case p.is("async") && p.isAt(1, "function"):
			fnStart := p.next().Start
			decl = p.parseFunction(FuncDecl, true, fnStart)
		case p.is("class"):
			decl = p.parseClass(true)
		case p.opts.TypeScript && p.is("interface"):
			decl = p.parseTypeDecl()
		default:
			decl = p.parseAssign()
			p.consumeSemicolon()
		}
		return &ExportDefault{Loc: Loc{Start: start, Stop: p.prevEnd()}, Decl: decl}
	}

	if p.opts.TypeScript && p.is("=") {
		p.next()
		p.parseExpression()
		p.consumeSemicolon()
		return &TypeDecl{Loc: Loc{Start: start, Stop: p.prevEnd()}, Kind: "export="}
	}

	if p.is("*") {
		p.next()
		all := &ExportAll{}
		if p.eat("as") {
			all.Exported = p.moduleExportName()
		}
		p.expect("from")
		all.Source = p.parseStringLiteral()
		p.skipImportAttributes()
		p.consumeSemicolon()
		all.Loc = Loc{Start: start, Stop: p.prevEnd()}
		return all
	}

	named := &ExportNamed{}
	if p.opts.TypeScript && p.is("type") && p.isAt(1, "{") {
		p.next()
		named.TypeOnly = true
	}
	if p.eat("{") {
		for !p.is("}") && !p.failed() {
			specStart := p.tok().Start
			if p.opts.TypeScript && p.is("type") && p.peekAt(1).Kind == TokIdent && !p.isAt(1, "as") {
				p.next()
			}
			local := p.moduleExportName()
			exported := local
			if p.eat("as") {
				exported = p.moduleExportName()
			}
			named.Specifiers = append(named.Specifiers, &ExportSpec{Loc: Loc{Start: specStart, Stop: p.prevEnd()}, Local: local, Exported: exported})
			if !p.eat(",") {
				break
			}
		}
		p.expect("}")
		if p.eat("from") {
			named.Source = p.parseStringLiteral()
			p.skipImportAttributes()
		}
		p.consumeSemicolon()
	} else {
		named.Decl = p.parseStatement()
		switch named.Decl.(type) {
		case *VarDecl, *Function, *Class, *TypeDecl:
		default:
			p.fail("unexpected export")
		}
	}
	named.Loc = Loc{Start: start, Stop: p.prevEnd()}
	return named
}

// isTypeDeclStart decides whether a contextual keyword starts a TypeScript
// declaration rather than an expression.
func (p *parser) isTypeDeclStart() bool {
	n := p.peekAt(1)
	if n.NewlineBefore {
		return false
	}
	switch p.tok().Text {
	case "declare", "abstract":
		return n.Kind == TokIdent
	case "namespace", "module":
		return n.Kind == TokIdent || n.Kind == TokString
	default:
		return n.Kind == TokIdent
	}
}

// parseTypeDecl skips a TypeScript-only declaration.
func (p *parser) parseTypeDecl() Node {
	start := p.tok().Start
	kw := p.next().Text
	decl := &TypeDecl{Kind: kw}
	switch kw {
	case "abstract":
		cls := p.parseClass(true)
		cls.(*Class).Start = start
		return cls
	case "declare":
		inner := p.parseStatement()
		decl.Kind = "declare"
		if td, ok := inner.(*TypeDecl); ok {
			decl.Name = td.Name
		}
		decl.Loc = Loc{Start: start, Stop: p.prevEnd()}
		return decl
	case "const":
		p.expect("enum")
		decl.Kind = "enum"
		fallthrough
	case "enum":
		decl.Name = p.ident()
		p.skipBalanced()
	case "type":
		decl.Name = p.ident()
		if p.is("<") {
			p.skipBalanced()
		}
		p.expect("=")
		p.parseType()
		p.consumeSemicolon()
	case "interface":
		decl.Name = p.ident()
		for !p.is("{") && !p.failed() && p.tok().Kind != TokEOF {
			if p.is("<") {
				p.skipBalanced()
				continue
			}
			p.next()
		}
		p.skipBalanced()
	case "namespace", "module":
		if p.tok().Kind == TokString {
			p.next()
		} else {
			decl.Name = p.ident()
			for p.eat(".") {
				p.ident()
			}
		}
		if p.is("{") {
			p.skipBalanced()
		} else {
			p.consumeSemicolon()
		}
	}
	decl.Loc = Loc{Start: start, Stop: p.prevEnd()}
	return decl
}

// skipBalanced consumes a bracketed group starting at the current token,
// which must be one of `(`, `[`, `{` or `<`.
func (p *parser) skipBalanced() {
	open := p.tok()
	var closeText string
	switch {
	case open.Kind == TokLBrace:
		closeText = "}"
	case open.Kind == TokPunct && open.Text == "(":
		closeText = ")"
	case open.Kind == TokPunct && open.Text == "[":
		closeText = "]"
	case open.Kind == TokPunct && open.Text == "<":
		closeText = ">"
	default:
		p.fail("expected bracket, found %q", open.Text)
		return
	}
	openText := open.Text
	if open.Kind == TokLBrace {
		openText = "{"
	}
	depth := 0
	for p.tok().Kind != TokEOF {
		t := p.next()
		txt := t.Text
		if t.Kind == TokLBrace {
			txt = "{"
		} else if t.Kind == TokRBrace {
			txt = "}"
		} else if t.Kind != TokPunct {
			continue
		}
		switch txt {
		case openText:
			depth++
		case closeText:
			depth--
			if depth == 0 {
				return
			}
		}
	}
	p.fail("unterminated %q", openText)
}

func unquote(raw string) string {
	if len(raw) >= 2 && (raw[0] == '"' || raw[0] == '\'') && raw[len(raw)-1] == raw[0] {
		raw = raw[1 : len(raw)-1]
	}
	if !strings.Contains(raw, `\`) {
		return raw
	}
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '\n':
		default:
			sb.WriteByte(raw[i])
		}
	}
	return sb.String()
}
