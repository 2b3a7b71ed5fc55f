package parser

import "github.com/dprr/rocker/ir"

func (p *parser) parseStmt() (ir.Stmt, error) {
	pos := p.tok.pos
	switch {
	case p.tok.kind == tokLBrace:
		return p.parseBlock()
	case p.tok.kind != tokIdent:
		return nil, p.errorf(pos, "expected statement, found %s", p.tok)
	}

	switch p.tok.lit {
	case "store":
		loc, value, err := p.parseLocValueArgs()
		if err != nil {
			return nil, err
		}
		return ir.NewStoreStmt(pos, loc, value), nil
	case "storena":
		loc, value, err := p.parseLocValueArgs()
		if err != nil {
			return nil, err
		}
		return ir.NewNonAtomicStoreStmt(pos, loc, value), nil
	case "wait":
		loc, values, err := p.parseWaitArgs()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokSemicolon); err != nil {
			return nil, err
		}
		return ir.NewWaitStmt(pos, loc, values), nil
	case "bcas":
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expect(tokLParen); err != nil {
			return nil, err
		}
		loc, err := p.expectName()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokComma); err != nil {
			return nil, err
		}
		expected, _, err := p.expectInt()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokComma); err != nil {
			return nil, err
		}
		replacement, _, err := p.expectInt()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		if _, err := p.expect(tokSemicolon); err != nil {
			return nil, err
		}
		return ir.NewBcasStmt(pos, loc.lit, expected, replacement), nil
	case "lock":
		loc, err := p.parseLocArg()
		if err != nil {
			return nil, err
		}
		return ir.NewLockStmt(pos, loc), nil
	case "unlock":
		loc, err := p.parseLocArg()
		if err != nil {
			return nil, err
		}
		return ir.NewUnlockStmt(pos, loc), nil
	case "fence":
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expect(tokSemicolon); err != nil {
			return nil, err
		}
		return ir.NewFenceStmt(pos), nil
	case "skip":
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expect(tokSemicolon); err != nil {
			return nil, err
		}
		return ir.NewSkipStmt(pos), nil
	case "assume":
		cond, err := p.parseCondArg()
		if err != nil {
			return nil, err
		}
		return ir.NewAssumeStmt(pos, cond), nil
	case "assert":
		cond, err := p.parseCondArg()
		if err != nil {
			return nil, err
		}
		return ir.NewAssertStmt(pos, cond), nil
	case "goto":
		if err := p.advance(); err != nil {
			return nil, err
		}
		target, err := p.expectName()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokSemicolon); err != nil {
			return nil, err
		}
		return ir.NewGotoStmt(pos, target.lit), nil
	case "if":
		return p.parseIfStmt()
	case "while":
		return p.parseWhileStmt()
	case "choice":
		return p.parseChoiceStmt()
	}

	// Non-keyword identifier: a local assignment or a labeled statement.
	name, err := p.expectName()
	if err != nil {
		return nil, err
	}
	switch p.tok.kind {
	case tokDefine:
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseRHS()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokSemicolon); err != nil {
			return nil, err
		}
		return ir.NewAssignStmt(pos, name.lit, rhs), nil
	case tokColon:
		if err := p.advance(); err != nil {
			return nil, err
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		return ir.NewLabeledStmt(pos, name.lit, stmt), nil
	default:
		return nil, p.errorf(p.tok.pos, "expected ':=' or ':' after %q, found %s", name.lit, p.tok)
	}
}

func (p *parser) parseBlock() (*ir.BlockStmt, error) {
	pos := p.tok.pos
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	block := ir.NewBlockStmt(pos)
	for p.tok.kind != tokRBrace {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		block.AddStmt(stmt)
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	return block, nil
}

func (p *parser) parseIfStmt() (ir.Stmt, error) {
	pos := p.tok.pos
	if err := p.advance(); err != nil { // if
		return nil, err
	}
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	if p.atKeyword("goto") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		target, err := p.expectName()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokSemicolon); err != nil {
			return nil, err
		}
		return ir.NewCondGotoStmt(pos, cond, target.lit), nil
	}
	ifBranch, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var elseBranch *ir.BlockStmt
	if p.atKeyword("else") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		elseBranch, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return ir.NewIfStmt(pos, cond, ifBranch, elseBranch), nil
}

func (p *parser) parseWhileStmt() (ir.Stmt, error) {
	pos := p.tok.pos
	if err := p.advance(); err != nil { // while
		return nil, err
	}
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ir.NewWhileStmt(pos, cond, body), nil
}

func (p *parser) parseChoiceStmt() (ir.Stmt, error) {
	pos := p.tok.pos
	if err := p.advance(); err != nil { // choice
		return nil, err
	}
	first, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	branches := []*ir.BlockStmt{first}
	for p.atKeyword("or") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		branch, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		branches = append(branches, branch)
	}
	if len(branches) < 2 {
		return nil, p.errorf(pos, "choice needs at least two branches")
	}
	return ir.NewChoiceStmt(pos, branches), nil
}

func (p *parser) parseRHS() (ir.RHS, error) {
	pos := p.tok.pos
	if p.tok.kind == tokIdent {
		switch p.tok.lit {
		case "load":
			loc, err := p.parseLocArgNoSemi()
			if err != nil {
				return nil, err
			}
			return ir.NewLoadRHS(pos, loc), nil
		case "loadna":
			loc, err := p.parseLocArgNoSemi()
			if err != nil {
				return nil, err
			}
			return ir.NewNonAtomicLoadRHS(pos, loc), nil
		case "cas":
			if err := p.advance(); err != nil {
				return nil, err
			}
			if _, err := p.expect(tokLParen); err != nil {
				return nil, err
			}
			loc, err := p.expectName()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokComma); err != nil {
				return nil, err
			}
			expected, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokComma); err != nil {
				return nil, err
			}
			replacement, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokRParen); err != nil {
				return nil, err
			}
			return ir.NewCasRHS(pos, loc.lit, expected, replacement), nil
		case "fadd":
			loc, value, err := p.parseLocExprArgs()
			if err != nil {
				return nil, err
			}
			return ir.NewFaddRHS(pos, loc, value), nil
		case "xchg":
			loc, value, err := p.parseLocExprArgs()
			if err != nil {
				return nil, err
			}
			return ir.NewXchgRHS(pos, loc, value), nil
		case "wait":
			loc, values, err := p.parseWaitArgs()
			if err != nil {
				return nil, err
			}
			return ir.NewWaitRHS(pos, loc, values), nil
		}
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return expr.(ir.RHS), nil
}

// parseLocValueArgs parses "(" IDENT "," expr ")" ";" after a statement
// keyword.
func (p *parser) parseLocValueArgs() (string, ir.Expr, error) {
	loc, value, err := p.parseLocExprArgs()
	if err != nil {
		return "", nil, err
	}
	if _, err := p.expect(tokSemicolon); err != nil {
		return "", nil, err
	}
	return loc, value, nil
}

// parseLocExprArgs parses "(" IDENT "," expr ")" after a keyword.
func (p *parser) parseLocExprArgs() (string, ir.Expr, error) {
	if err := p.advance(); err != nil { // keyword
		return "", nil, err
	}
	if _, err := p.expect(tokLParen); err != nil {
		return "", nil, err
	}
	loc, err := p.expectName()
	if err != nil {
		return "", nil, err
	}
	if _, err := p.expect(tokComma); err != nil {
		return "", nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return "", nil, err
	}
	if _, err := p.expect(tokRParen); err != nil {
		return "", nil, err
	}
	return loc.lit, value, nil
}

// parseLocArg parses "(" IDENT ")" ";" after a statement keyword.
func (p *parser) parseLocArg() (string, error) {
	loc, err := p.parseLocArgNoSemi()
	if err != nil {
		return "", err
	}
	if _, err := p.expect(tokSemicolon); err != nil {
		return "", err
	}
	return loc, nil
}

// parseLocArgNoSemi parses "(" IDENT ")" after a keyword.
func (p *parser) parseLocArgNoSemi() (string, error) {
	if err := p.advance(); err != nil { // keyword
		return "", err
	}
	if _, err := p.expect(tokLParen); err != nil {
		return "", err
	}
	loc, err := p.expectName()
	if err != nil {
		return "", err
	}
	if _, err := p.expect(tokRParen); err != nil {
		return "", err
	}
	return loc.lit, nil
}

// parseCondArg parses "(" expr ")" ";" after a statement keyword.
func (p *parser) parseCondArg() (ir.Expr, error) {
	if err := p.advance(); err != nil { // keyword
		return nil, err
	}
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokSemicolon); err != nil {
		return nil, err
	}
	return cond, nil
}

// parseWaitArgs parses "(" IDENT "," "{" INT ("," INT)* "}" ")" after the
// wait keyword.
func (p *parser) parseWaitArgs() (string, []int, error) {
	if err := p.advance(); err != nil { // wait
		return "", nil, err
	}
	if _, err := p.expect(tokLParen); err != nil {
		return "", nil, err
	}
	loc, err := p.expectName()
	if err != nil {
		return "", nil, err
	}
	if _, err := p.expect(tokComma); err != nil {
		return "", nil, err
	}
	if _, err := p.expect(tokLBrace); err != nil {
		return "", nil, err
	}
	var values []int
	for {
		v, _, err := p.expectInt()
		if err != nil {
			return "", nil, err
		}
		values = append(values, v)
		if p.tok.kind != tokComma {
			break
		}
		if err := p.advance(); err != nil {
			return "", nil, err
		}
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return "", nil, err
	}
	if _, err := p.expect(tokRParen); err != nil {
		return "", nil, err
	}
	return loc.lit, values, nil
}
