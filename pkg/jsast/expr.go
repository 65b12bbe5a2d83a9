package jsast

import "strings"

var binaryPrec = map[string]int{
	"??":         1,
	"||":         2,
	"&&":         3,
	"|":          4,
	"^":          5,
	"&":          6,
	"==":         7,
	"!=":         7,
	"===":        7,
	"!==":        7,
	"<":          8,
	">":          8,
	"<=":         8,
	">=":         8,
	"instanceof": 8,
	"in":         8,
	"as":         8,
	"satisfies":  8,
	"<<":         9,
	">>":         9,
	">>>":        9,
	"+":          10,
	"-":          10,
	"*":          11,
	"/":          11,
	"%":          11,
	"**":         12,
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true, "**=": true,
	"<<=": true, "&=": true, "|=": true, "^=": true, "&&=": true, "||=": true, "??=": true,
}

var classModifiers = map[string]bool{
	"static": true, "public": true, "private": true, "protected": true, "readonly": true,
	"abstract": true, "declare": true, "override": true, "accessor": true,
	"async": true, "get": true, "set": true,
}

var paramModifiers = map[string]bool{
	"public": true, "private": true, "protected": true, "readonly": true, "override": true,
}

func (p *parser) parseExpression() Node {
	start := p.tok().Start
	expr := p.parseAssign()
	if !p.is(",") {
		return expr
	}
	seq := []Node{expr}
	for !p.failed() && p.eat(",") {
		seq = append(seq, p.parseAssign())
	}
	return &SeqExpr{Loc: Loc{Start: start, Stop: p.prevEnd()}, Exprs: seq}
}

// gtRun glues adjacent `>` and `=` tokens into one operator and returns it with
// the number of tokens it spans.
func (p *parser) gtRun() (string, int) {
	text, n := ">", 1
	for n < 3 {
		t, prev := p.peekAt(n), p.peekAt(n-1)
		if t.Kind == TokPunct && t.Text == ">" && t.Start == prev.End {
			text += ">"
			n++
			continue
		}
		break
	}
	t, prev := p.peekAt(n), p.peekAt(n-1)
	if t.Kind == TokPunct && t.Text == "=" && t.Start == prev.End {
		text += "="
		n++
	}
	return text, n
}

func (p *parser) assignOp() (string, int) {
	t := p.tok()
	if t.Kind != TokPunct {
		return "", 0
	}
	if t.Text == ">" {
		op, n := p.gtRun()
		if op == ">>=" || op == ">>>=" {
			return op, n
		}
		return "", 0
	}
	if assignOps[t.Text] {
		return t.Text, 1
	}
	return "", 0
}

func (p *parser) binaryOp() (string, int) {
	t := p.tok()
	switch t.Kind {
	case TokPunct:
		if t.Text == ">" {
			op, n := p.gtRun()
			if strings.HasSuffix(op, "=") && op != ">=" {
				return "", 0
			}
			return op, n
		}
		if _, ok := binaryPrec[t.Text]; ok {
			return t.Text, 1
		}
	case TokIdent:
		switch t.Text {
		case "instanceof":
			return t.Text, 1
		case "in":
			if !p.noIn {
				return t.Text, 1
			}
		case "as", "satisfies":
			if p.opts.TypeScript && !t.NewlineBefore {
				return t.Text, 1
			}
		}
	}
	return "", 0
}

func (p *parser) parseAssign() Node {
	if p.failed() {
		t := p.tok()
		return &BadNode{Loc: Loc{Start: t.Start, Stop: t.Start}}
	}
	if arrow := p.tryArrow(); arrow != nil {
		return arrow
	}
	start := p.tok().Start
	if p.inGenerator && p.is("yield") {
		p.next()
		y := &YieldExpr{Delegate: p.eat("*")}
		if !p.atStatementEnd() && !p.is(")") && !p.is("]") && !p.is(",") && !p.is(":") {
			y.Arg = p.parseAssign()
		}
		y.Loc = Loc{Start: start, Stop: p.prevEnd()}
		return y
	}

	left := p.parseConditional()
	if op, n := p.assignOp(); n > 0 {
		p.pos += n
		right := p.parseAssign()
		if op == "=" {
			left = toPattern(left)
		}
		return &AssignExpr{Loc: Loc{Start: start, Stop: p.prevEnd()}, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) tryArrow() Node {
	t := p.tok()
	switch {
	case t.Kind == TokIdent && p.isAt(1, "=>") && !p.peekAt(1).NewlineBefore && !isReserved(t.Text):
		param := p.ident()
		p.next()
		return p.parseArrowBody(t.Start, []Node{param}, false, nil, nil)
	case t.Kind == TokIdent && t.Text == "async" && !p.peekAt(1).NewlineBefore:
		n := p.peekAt(1)
		if n.Kind == TokIdent && p.isAt(2, "=>") {
			p.next()
			param := p.ident()
			p.next()
			return p.parseArrowBody(t.Start, []Node{param}, true, nil, nil)
		}
		if p.isAt(1, "(") || (p.opts.TypeScript && p.isAt(1, "<")) {
			s := p.save()
			p.next()
			if fn := p.tryArrowParams(t.Start, true); fn != nil {
				return fn
			}
			p.restore(s)
		}
	case p.is("(") || (p.opts.TypeScript && p.is("<")):
		s := p.save()
		if fn := p.tryArrowParams(t.Start, false); fn != nil {
			return fn
		}
		p.restore(s)
	}
	return nil
}

// tryArrowParams speculatively parses `<T>(params): R =>`. It returns nil when
// the tokens are not an arrow head; the caller restores the parser state.
func (p *parser) tryArrowParams(start int, async bool) Node {
	var typeParams *TypeNode
	if p.is("<") {
		tpStart := p.tok().Start
		p.skipBalanced()
		typeParams = &TypeNode{Loc: Loc{Start: tpStart, Stop: p.prevEnd()}}
	}
	if p.failed() || !p.is("(") {
		return nil
	}
	params := p.parseParams()
	var ret *TypeNode
	if p.opts.TypeScript && !p.failed() && p.is(":") {
		p.next()
		ret = p.parseType()
	}
	if p.failed() || !p.is("=>") || p.tok().NewlineBefore {
		return nil
	}
	p.next()
	return p.parseArrowBody(start, params, async, typeParams, ret)
}

func (p *parser) parseArrowBody(start int, params []Node, async bool, typeParams, ret *TypeNode) Node {
	fn := &Function{Kind: FuncArrow, Params: params, Async: async, TypeParams: typeParams, ReturnType: ret}
	savedAsync, savedGen := p.inAsync, p.inGenerator
	p.inAsync, p.inGenerator = async, false
	if p.is("{") {
		fn.Body = p.parseFunctionBody()
	} else {
		fn.Body = p.parseAssign()
	}
	p.inAsync, p.inGenerator = savedAsync, savedGen
	fn.Loc = Loc{Start: start, Stop: p.prevEnd()}
	return fn
}

func (p *parser) parseFunctionBody() *BlockStmt {
	savedNoIn := p.noIn
	p.noIn = false
	body := p.parseBlock()
	p.noIn = savedNoIn
	return body
}

func (p *parser) parseConditional() Node {
	start := p.tok().Start
	test := p.parseBinary(0)
	if !p.is("?") || p.failed() {
		return test
	}
	p.next()
	savedNoIn := p.noIn
	p.noIn = false
	cons := p.parseAssign()
	p.noIn = savedNoIn
	p.expect(":")
	alt := p.parseAssign()
	return &CondExpr{Loc: Loc{Start: start, Stop: p.prevEnd()}, Test: test, Cons: cons, Alt: alt}
}

func (p *parser) parseBinary(minPrec int) Node {
	start := p.tok().Start
	left := p.parseUnary()
	for !p.failed() {
		op, n := p.binaryOp()
		if n == 0 {
			break
		}
		prec := binaryPrec[op]
		if prec <= minPrec {
			break
		}
		if op == "as" || op == "satisfies" {
			p.next()
			if p.is("const") {
				t := p.next()
				left = &TypeAssertion{Loc: Loc{Start: start, Stop: p.prevEnd()}, Expr: left, Op: op, Type: &TypeNode{Loc: Loc{Start: t.Start, Stop: t.End}}}
				continue
			}
			typ := p.parseType()
			left = &TypeAssertion{Loc: Loc{Start: start, Stop: p.prevEnd()}, Expr: left, Op: op, Type: typ}
			continue
		}
		p.pos += n
		nextMin := prec
		if op == "**" {
			nextMin = prec - 1
		}
		right := p.parseBinary(nextMin)
		left = &BinaryExpr{Loc: Loc{Start: start, Stop: p.prevEnd()}, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseUnary() Node {
	t := p.tok()
	switch t.Kind {
	case TokPunct:
		switch t.Text {
		case "!", "~", "+", "-":
			p.next()
			arg := p.parseUnary()
			return &UnaryExpr{Loc: Loc{Start: t.Start, Stop: p.prevEnd()}, Op: t.Text, Arg: arg}
		case "++", "--":
			p.next()
			arg := p.parseUnary()
			return &UpdateExpr{Loc: Loc{Start: t.Start, Stop: p.prevEnd()}, Op: t.Text, Prefix: true, Arg: arg}
		case "<":
			if p.opts.TypeScript {
				p.skipBalanced()
				arg := p.parseUnary()
				return &TypeAssertion{Loc: Loc{Start: t.Start, Stop: p.prevEnd()}, Expr: arg, Op: "<>"}
			}
		}
	case TokIdent:
		switch t.Text {
		case "typeof", "void", "delete":
			if p.startsExpressionAt(1) {
				p.next()
				arg := p.parseUnary()
				return &UnaryExpr{Loc: Loc{Start: t.Start, Stop: p.prevEnd()}, Op: t.Text, Arg: arg}
			}
		case "await":
			if (p.inAsync || p.opts.Module) && p.startsExpressionAt(1) {
				p.next()
				arg := p.parseUnary()
				return &AwaitExpr{Loc: Loc{Start: t.Start, Stop: p.prevEnd()}, Arg: arg}
			}
		}
	}
	return p.parsePostfix()
}

func (p *parser) startsExpressionAt(n int) bool {
	t := p.peekAt(n)
	switch t.Kind {
	case TokIdent, TokPrivate, TokString, TokNumber, TokRegex, TokTemplateStart, TokLBrace:
		return true
	case TokPunct:
		switch t.Text {
		case "(", "[", "!", "~", "+", "-", "++", "--", "<", "/":
			return true
		}
	}
	return false
}

func (p *parser) parsePostfix() Node {
	start := p.tok().Start
	expr := p.parseCallChain()
	t := p.tok()
	if t.Kind == TokPunct && (t.Text == "++" || t.Text == "--") && !t.NewlineBefore {
		p.next()
		return &UpdateExpr{Loc: Loc{Start: start, Stop: p.prevEnd()}, Op: t.Text, Arg: expr}
	}
	return expr
}

func (p *parser) parseCallChain() Node {
	start := p.tok().Start
	var expr Node
	if p.is("new") {
		expr = p.parseNew()
	} else {
		expr = p.parsePrimary()
	}
	for !p.failed() {
		t := p.tok()
		switch {
		case p.is("."):
			p.next()
			prop := p.propertyName()
			expr = &MemberExpr{Loc: Loc{Start: start, Stop: p.prevEnd()}, Object: expr, Property: prop}
		case p.is("?."):
			p.next()
			switch {
			case p.is("("):
				args := p.parseArguments()
				expr = &CallExpr{Loc: Loc{Start: start, Stop: p.prevEnd()}, Callee: expr, Args: args, Optional: true}
			case p.is("["):
				p.next()
				prop := p.parseBracketed()
				p.expect("]")
				expr = &MemberExpr{Loc: Loc{Start: start, Stop: p.prevEnd()}, Object: expr, Property: prop, Computed: true, Optional: true}
			default:
				prop := p.propertyName()
				expr = &MemberExpr{Loc: Loc{Start: start, Stop: p.prevEnd()}, Object: expr, Property: prop, Optional: true}
			}
		case p.is("["):
			p.next()
			prop := p.parseBracketed()
			p.expect("]")
			expr = &MemberExpr{Loc: Loc{Start: start, Stop: p.prevEnd()}, Object: expr, Property: prop, Computed: true}
		case p.is("("):
			args := p.parseArguments()
			expr = &CallExpr{Loc: Loc{Start: start, Stop: p.prevEnd()}, Callee: expr, Args: args}
		case t.Kind == TokTemplateStart:
			tpl := p.parseTemplate()
			tpl.Tag = expr
			tpl.Start = start
			expr = tpl
		case p.opts.TypeScript && p.is("!") && !t.NewlineBefore:
			p.next()
			expr = &TypeAssertion{Loc: Loc{Start: start, Stop: p.prevEnd()}, Expr: expr, Op: "!"}
		case p.opts.TypeScript && p.is("<") && !t.NewlineBefore:
			s := p.save()
			typeArgs := p.tryTypeArgs()
			if typeArgs == nil || !p.is("(") {
				p.restore(s)
				return expr
			}
			args := p.parseArguments()
			expr = &CallExpr{Loc: Loc{Start: start, Stop: p.prevEnd()}, Callee: expr, Args: args, TypeArgs: typeArgs}
		default:
			return expr
		}
	}
	return expr
}

// parseBracketed parses an expression inside brackets where `in` is allowed.
func (p *parser) parseBracketed() Node {
	savedNoIn := p.noIn
	p.noIn = false
	expr := p.parseExpression()
	p.noIn = savedNoIn
	return expr
}

func (p *parser) tryTypeArgs() *TypeNode {
	start := p.next().Start
	for !p.failed() {
		p.skipType()
		if !p.eat(",") {
			break
		}
	}
	if p.failed() || !p.isGt() {
		return nil
	}
	p.next()
	return &TypeNode{Loc: Loc{Start: start, Stop: p.prevEnd()}}
}

func (p *parser) propertyName() *Ident {
	t := p.tok()
	if t.Kind == TokIdent || t.Kind == TokPrivate {
		p.next()
		return &Ident{Loc: Loc{Start: t.Start, Stop: t.End}, Name: t.Text}
	}
	p.fail("expected property name, found %q", t.Text)
	return &Ident{Loc: Loc{Start: t.Start, Stop: t.Start}}
}

func (p *parser) parseArguments() []Node {
	p.expect("(")
	savedNoIn := p.noIn
	p.noIn = false
	var args []Node
	for !p.is(")") && !p.failed() {
		if p.is("...") {
			start := p.next().Start
			arg := p.parseAssign()
			args = append(args, &SpreadElement{Loc: Loc{Start: start, Stop: p.prevEnd()}, Arg: arg})
		} else {
			args = append(args, p.parseAssign())
		}
		if !p.eat(",") {
			break
		}
	}
	p.noIn = savedNoIn
	p.expect(")")
	return args
}

func (p *parser) parseNew() Node {
	start := p.next().Start
	if p.is(".") {
		p.next()
		prop := p.ident()
		return &MemberExpr{Loc: Loc{Start: start, Stop: p.prevEnd()}, Object: &Ident{Loc: Loc{Start: start, Stop: start + 3}, Name: "new"}, Property: prop}
	}
	var callee Node
	if p.is("new") {
		callee = p.parseNew()
	} else {
		callee = p.parsePrimary()
	}
	for !p.failed() {
		if p.eat(".") {
			prop := p.propertyName()
			callee = &MemberExpr{Loc: Loc{Start: callee.Pos(), Stop: p.prevEnd()}, Object: callee, Property: prop}
			continue
		}
		if p.eat("[") {
			prop := p.parseBracketed()
			p.expect("]")
			callee = &MemberExpr{Loc: Loc{Start: callee.Pos(), Stop: p.prevEnd()}, Object: callee, Property: prop, Computed: true}
			continue
		}
		break
	}
	var typeArgs *TypeNode
	if p.opts.TypeScript && p.is("<") {
		s := p.save()
		if typeArgs = p.tryTypeArgs(); typeArgs == nil {
			p.restore(s)
		}
	}
	var args []Node
	if p.is("(") {
		args = p.parseArguments()
	}
	return &NewExpr{Loc: Loc{Start: start, Stop: p.prevEnd()}, Callee: callee, Args: args, TypeArgs: typeArgs}
}

func (p *parser) parsePrimary() Node {
	t := p.tok()
	switch t.Kind {
	case TokNumber:
		p.next()
		kind := LitNumber
		if strings.HasSuffix(t.Text, "n") {
			kind = LitBigInt
		}
		return &Literal{Loc: Loc{Start: t.Start, Stop: t.End}, Kind: kind, Raw: t.Text, Value: t.Text}
	case TokString:
		return p.parseStringLiteral()
	case TokRegex:
		p.next()
		slash := strings.LastIndexByte(t.Text, '/')
		return &Literal{Loc: Loc{Start: t.Start, Stop: t.End}, Kind: LitRegExp, Raw: t.Text, Value: t.Text[1:slash], Flags: t.Text[slash+1:]}
	case TokTemplateStart:
		return p.parseTemplate()
	case TokLBrace:
		return p.parseObject()
	case TokPrivate:
		return p.ident()
	case TokIdent:
		switch t.Text {
		case "true", "false":
			p.next()
			return &Literal{Loc: Loc{Start: t.Start, Stop: t.End}, Kind: LitBoolean, Raw: t.Text, Value: t.Text}
		case "null":
			p.next()
			return &Literal{Loc: Loc{Start: t.Start, Stop: t.End}, Kind: LitNull, Raw: t.Text, Value: t.Text}
		case "function":
			return p.parseFunction(FuncExpr, false, t.Start)
		case "async":
			if p.isAt(1, "function") && !p.peekAt(1).NewlineBefore {
				p.next()
				return p.parseFunction(FuncExpr, true, t.Start)
			}
		case "class":
			return p.parseClass(false)
		}
		return p.ident()
	case TokPunct:
		switch t.Text {
		case "(":
			p.next()
			expr := p.parseBracketed()
			p.expect(")")
			return &ParenExpr{Loc: Loc{Start: t.Start, Stop: p.prevEnd()}, Expr: expr}
		case "[":
			return p.parseArray()
		case "@":
			p.next()
			p.parseCallChain()
			return p.parsePrimary()
		}
	}
	p.fail("unexpected %q", t.Text)
	return &BadNode{Loc: Loc{Start: t.Start, Stop: t.Start}}
}

func (p *parser) parseTemplate() *TemplateLiteral {
	start := p.next().Start
	tpl := &TemplateLiteral{}
	var cur strings.Builder
	for {
		t := p.tok()
		switch t.Kind {
		case TokTemplateChars:
			cur.WriteString(t.Text)
			p.next()
		case TokTemplateExprStart:
			p.next()
			tpl.Quasis = append(tpl.Quasis, cur.String())
			cur.Reset()
			tpl.Exprs = append(tpl.Exprs, p.parseBracketed())
			if p.tok().Kind != TokTemplateExprEnd {
				p.fail("expected \"}\" in template literal, found %q", p.tok().Text)
				tpl.Loc = Loc{Start: start, Stop: p.prevEnd()}
				return tpl
			}
			p.next()
		case TokTemplateEnd:
			p.next()
			tpl.Quasis = append(tpl.Quasis, cur.String())
			tpl.Loc = Loc{Start: start, Stop: p.prevEnd()}
			return tpl
		default:
			p.fail("unterminated template literal")
			tpl.Loc = Loc{Start: start, Stop: p.prevEnd()}
			return tpl
		}
	}
}

func (p *parser) parseArray() Node {
	start := p.next().Start
	savedNoIn := p.noIn
	p.noIn = false
	arr := &ArrayExpr{}
	for !p.is("]") && !p.failed() {
		if p.is(",") {
			p.next()
			arr.Elements = append(arr.Elements, nil)
			continue
		}
		if p.is("...") {
			spreadStart := p.next().Start
			arg := p.parseAssign()
			arr.Elements = append(arr.Elements, &SpreadElement{Loc: Loc{Start: spreadStart, Stop: p.prevEnd()}, Arg: arg})
		} else {
			arr.Elements = append(arr.Elements, p.parseAssign())
		}
		if !p.eat(",") {
			break
		}
	}
	p.noIn = savedNoIn
	p.expect("]")
	arr.Loc = Loc{Start: start, Stop: p.prevEnd()}
	return arr
}

func (p *parser) parseObject() Node {
	start := p.next().Start
	savedNoIn := p.noIn
	p.noIn = false
	obj := &ObjectExpr{}
	for !p.is("}") && !p.failed() {
		obj.Props = append(obj.Props, p.parseObjectMember())
		if !p.eat(",") {
			break
		}
	}
	p.noIn = savedNoIn
	p.expect("}")
	obj.Loc = Loc{Start: start, Stop: p.prevEnd()}
	return obj
}

// startsKeyAt reports whether token n can begin a property key.
func (p *parser) startsKeyAt(n int) bool {
	t := p.peekAt(n)
	switch t.Kind {
	case TokIdent, TokString, TokNumber, TokPrivate:
		return true
	case TokPunct:
		return t.Text == "[" || t.Text == "*"
	}
	return false
}

func (p *parser) parsePropertyKey() (Node, bool) {
	t := p.tok()
	switch t.Kind {
	case TokString:
		return p.parseStringLiteral(), false
	case TokNumber:
		p.next()
		return &Literal{Loc: Loc{Start: t.Start, Stop: t.End}, Kind: LitNumber, Raw: t.Text, Value: t.Text}, false
	case TokIdent, TokPrivate:
		p.next()
		return &Ident{Loc: Loc{Start: t.Start, Stop: t.End}, Name: t.Text}, false
	case TokPunct:
		if t.Text == "[" {
			p.next()
			key := p.parseBracketed()
			p.expect("]")
			return key, true
		}
	}
	p.fail("expected property key, found %q", t.Text)
	return &BadNode{Loc: Loc{Start: t.Start, Stop: t.Start}}, false
}

func (p *parser) parseObjectMember() Node {
	start := p.tok().Start
	if p.is("...") {
		p.next()
		arg := p.parseAssign()
		return &SpreadElement{Loc: Loc{Start: start, Stop: p.prevEnd()}, Arg: arg}
	}
	kind := PropInit
	async, generator := false, false
	if (p.is("get") || p.is("set") || p.is("async")) && p.startsKeyAt(1) {
		switch p.next().Text {
		case "get":
			kind = PropGet
		case "set":
			kind = PropSet
		case "async":
			async = true
		}
	}
	if p.eat("*") {
		generator = true
	}
	key, computed := p.parsePropertyKey()
	if p.is("(") || p.is("<") {
		fn := p.parseMethod(key.Pos(), async, generator)
		if kind == PropInit {
			kind = PropMethod
		}
		return &Property{Loc: Loc{Start: start, Stop: p.prevEnd()}, Key: key, Value: fn, Kind: kind, Computed: computed}
	}
	if kind != PropInit || async || generator {
		p.fail("expected method parameters")
	}
	if p.eat(":") {
		value := p.parseAssign()
		return &Property{Loc: Loc{Start: start, Stop: p.prevEnd()}, Key: key, Value: value, Computed: computed}
	}
	id, ok := key.(*Ident)
	if !ok || computed {
		p.fail("expected \":\" after property key")
		return &Property{Loc: Loc{Start: start, Stop: p.prevEnd()}, Key: key, Value: key, Computed: computed}
	}
	prop := &Property{Key: id, Value: id, Shorthand: true}
	if p.is("=") {
		p.next()
		def := p.parseAssign()
		prop.Value = &AssignPattern{Loc: Loc{Start: id.Start, Stop: p.prevEnd()}, Left: id, Right: def}
	}
	prop.Loc = Loc{Start: start, Stop: p.prevEnd()}
	return prop
}

func (p *parser) parseMethod(start int, async, generator bool) *Function {
	fn := &Function{Kind: FuncMethod, Async: async, Generator: generator}
	if p.is("<") {
		tpStart := p.tok().Start
		p.skipBalanced()
		fn.TypeParams = &TypeNode{Loc: Loc{Start: tpStart, Stop: p.prevEnd()}}
	}
	savedAsync, savedGen := p.inAsync, p.inGenerator
	p.inAsync, p.inGenerator = async, generator
	fn.Params = p.parseParams()
	if p.opts.TypeScript && p.eat(":") {
		fn.ReturnType = p.parseType()
	}
	if p.is("{") {
		fn.Body = p.parseFunctionBody()
	} else if p.opts.TypeScript {
		p.consumeSemicolon()
	} else {
		p.fail("expected method body")
	}
	p.inAsync, p.inGenerator = savedAsync, savedGen
	fn.Loc = Loc{Start: start, Stop: p.prevEnd()}
	return fn
}

func (p *parser) parseFunction(kind FuncKind, async bool, start int) Node {
	p.expect("function")
	fn := &Function{Kind: kind, Async: async, Generator: p.eat("*")}
	if p.tok().Kind == TokIdent {
		fn.Name = p.ident()
	}
	if p.is("<") {
		tpStart := p.tok().Start
		p.skipBalanced()
		fn.TypeParams = &TypeNode{Loc: Loc{Start: tpStart, Stop: p.prevEnd()}}
	}
	savedAsync, savedGen := p.inAsync, p.inGenerator
	p.inAsync, p.inGenerator = async, fn.Generator
	fn.Params = p.parseParams()
	if p.opts.TypeScript && p.eat(":") {
		fn.ReturnType = p.parseType()
	}
	if p.is("{") {
		fn.Body = p.parseFunctionBody()
	} else if p.opts.TypeScript {
		// overload signature
		p.consumeSemicolon()
	} else {
		p.fail("expected function body")
	}
	p.inAsync, p.inGenerator = savedAsync, savedGen
	fn.Loc = Loc{Start: start, Stop: p.prevEnd()}
	return fn
}

func (p *parser) parseParams() []Node {
	p.expect("(")
	savedNoIn := p.noIn
	p.noIn = false
	var params []Node
	for !p.is(")") && !p.failed() {
		params = append(params, p.parseParam())
		if !p.eat(",") {
			break
		}
	}
	p.noIn = savedNoIn
	p.expect(")")
	return params
}

func (p *parser) parseParam() Node {
	start := p.tok().Start
	for p.is("@") {
		p.next()
		p.parseCallChain()
	}
	if p.opts.TypeScript {
		for p.tok().Kind == TokIdent && paramModifiers[p.tok().Text] {
			n := p.peekAt(1)
			if n.Kind != TokIdent && n.Kind != TokLBrace && !(n.Kind == TokPunct && n.Text == "[") {
				break
			}
			p.next()
		}
	}
	rest := p.eat("...")
	target := p.parseBindingTarget()
	optional := false
	var typ *TypeNode
	if p.opts.TypeScript {
		optional = p.eat("?")
		if p.eat(":") {
			typ = p.parseType()
		}
	}
	var node Node = target
	if rest {
		node = &RestElement{Loc: Loc{Start: start, Stop: p.prevEnd()}, Arg: target}
	} else if p.eat("=") {
		def := p.parseAssign()
		node = &AssignPattern{Loc: Loc{Start: target.Pos(), Stop: p.prevEnd()}, Left: target, Right: def}
	}
	if optional || typ != nil {
		return &Param{Loc: Loc{Start: start, Stop: p.prevEnd()}, Pattern: node, Optional: optional, Type: typ}
	}
	return node
}

func (p *parser) parseBindingTarget() Node {
	switch {
	case p.is("{"):
		return p.parseObjectPattern()
	case p.is("["):
		return p.parseArrayPattern()
	default:
		return p.ident()
	}
}

func (p *parser) parseBindingElement() Node {
	target := p.parseBindingTarget()
	if p.eat("=") {
		def := p.parseAssign()
		return &AssignPattern{Loc: Loc{Start: target.Pos(), Stop: p.prevEnd()}, Left: target, Right: def}
	}
	return target
}

func (p *parser) parseObjectPattern() Node {
	start := p.next().Start
	pat := &ObjectPattern{}
	for !p.is("}") && !p.failed() {
		propStart := p.tok().Start
		if p.eat("...") {
			arg := p.parseBindingTarget()
			pat.Props = append(pat.Props, &RestElement{Loc: Loc{Start: propStart, Stop: p.prevEnd()}, Arg: arg})
		} else {
			key, computed := p.parsePropertyKey()
			prop := &Property{Key: key, Computed: computed}
			if p.eat(":") {
				prop.Value = p.parseBindingElement()
			} else if id, ok := key.(*Ident); ok && !computed {
				prop.Shorthand = true
				prop.Value = id
				if p.eat("=") {
					def := p.parseAssign()
					prop.Value = &AssignPattern{Loc: Loc{Start: id.Start, Stop: p.prevEnd()}, Left: id, Right: def}
				}
			} else {
				p.fail("expected \":\" in object pattern")
			}
			prop.Loc = Loc{Start: propStart, Stop: p.prevEnd()}
			pat.Props = append(pat.Props, prop)
		}
		if !p.eat(",") {
			break
		}
	}
	p.expect("}")
	pat.Loc = Loc{Start: start, Stop: p.prevEnd()}
	return pat
}

func (p *parser) parseArrayPattern() Node {
	start := p.next().Start
	pat := &ArrayPattern{}
	for !p.is("]") && !p.failed() {
		if p.is(",") {
			p.next()
			pat.Elements = append(pat.Elements, nil)
			continue
		}
		if p.is("...") {
			restStart := p.next().Start
			arg := p.parseBindingTarget()
			pat.Elements = append(pat.Elements, &RestElement{Loc: Loc{Start: restStart, Stop: p.prevEnd()}, Arg: arg})
		} else {
			pat.Elements = append(pat.Elements, p.parseBindingElement())
		}
		if !p.eat(",") {
			break
		}
	}
	p.expect("]")
	pat.Loc = Loc{Start: start, Stop: p.prevEnd()}
	return pat
}

func (p *parser) parseClass(decl bool) Node {
	start := p.next().Start
	cls := &Class{Decl: decl}
	if p.tok().Kind == TokIdent && !p.is("extends") && !p.is("implements") {
		cls.Name = p.ident()
	}
	if p.is("<") {
		p.skipBalanced()
	}
	if p.eat("extends") {
		cls.Super = p.parseCallChain()
	}
	if p.opts.TypeScript && p.eat("implements") {
		for !p.failed() {
			p.skipType()
			if !p.eat(",") {
				break
			}
		}
	}
	p.expect("{")
	for !p.is("}") && !p.failed() && p.tok().Kind != TokEOF {
		if p.eat(";") {
			continue
		}
		cls.Members = append(cls.Members, p.parseClassMember())
	}
	p.expect("}")
	cls.Loc = Loc{Start: start, Stop: p.prevEnd()}
	return cls
}

func (p *parser) parseClassMember() Node {
	start := p.tok().Start
	for p.is("@") {
		p.next()
		p.parseCallChain()
	}
	m := &ClassMember{}
	if p.is("static") && p.isAt(1, "{") {
		p.next()
		m.Static = true
		m.Value = p.parseBlock()
		m.Loc = Loc{Start: start, Stop: p.prevEnd()}
		return m
	}
	async, generator := false, false
	for p.tok().Kind == TokIdent && classModifiers[p.tok().Text] && p.startsKeyAt(1) && !p.peekAt(1).NewlineBefore {
		switch p.next().Text {
		case "static":
			m.Static = true
		case "get":
			m.Kind = PropGet
		case "set":
			m.Kind = PropSet
		case "async":
			async = true
		}
	}
	if p.opts.TypeScript && p.is("[") && p.peekAt(1).Kind == TokIdent && p.isAt(2, ":") {
		// index signature
		p.skipBalanced()
		if p.eat(":") {
			p.parseType()
		}
		p.consumeSemicolon()
		m.Loc = Loc{Start: start, Stop: p.prevEnd()}
		return m
	}
	if p.eat("*") {
		generator = true
	}
	m.Key, m.Computed = p.parsePropertyKey()
	if p.opts.TypeScript {
		if !p.eat("?") {
			p.eat("!")
		}
	}
	if p.is("(") || p.is("<") {
		m.Value = p.parseMethod(m.Key.Pos(), async, generator)
		if m.Kind == PropInit {
			m.Kind = PropMethod
		}
		m.Loc = Loc{Start: start, Stop: p.prevEnd()}
		return m
	}
	if p.opts.TypeScript && p.eat(":") {
		p.parseType()
	}
	if p.eat("=") {
		m.Value = p.parseAssign()
	}
	p.consumeSemicolon()
	m.Loc = Loc{Start: start, Stop: p.prevEnd()}
	return m
}

// toPattern converts an expression parsed under the cover grammar into the
// equivalent assignment pattern.
func toPattern(n Node) Node {
	switch e := n.(type) {
	case *ObjectExpr:
		pat := &ObjectPattern{Loc: e.Loc}
		for _, prop := range e.Props {
			switch pr := prop.(type) {
			case *SpreadElement:
				pat.Props = append(pat.Props, &RestElement{Loc: pr.Loc, Arg: toPattern(pr.Arg)})
			case *Property:
				cp := *pr
				if !cp.Shorthand {
					cp.Value = toPattern(cp.Value)
				}
				pat.Props = append(pat.Props, &cp)
			default:
				pat.Props = append(pat.Props, prop)
			}
		}
		return pat
	case *ArrayExpr:
		pat := &ArrayPattern{Loc: e.Loc}
		for _, el := range e.Elements {
			if spread, ok := el.(*SpreadElement); ok {
				pat.Elements = append(pat.Elements, &RestElement{Loc: spread.Loc, Arg: toPattern(spread.Arg)})
				continue
			}
			if el == nil {
				pat.Elements = append(pat.Elements, nil)
				continue
			}
			pat.Elements = append(pat.Elements, toPattern(el))
		}
		return pat
	case *AssignExpr:
		if e.Op == "=" {
			return &AssignPattern{Loc: e.Loc, Left: toPattern(e.Left), Right: e.Right}
		}
	}
	return n
}
