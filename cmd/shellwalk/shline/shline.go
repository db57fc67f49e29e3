// Package shline is a minimal single-line shell grammar: simple
// commands, pipelines, &&/||/; sequencing, a trailing & for async, and
// <, >, >> redirection. It exists to give the demo CLI something to
// feed exec.Engine — the core itself treats the parser as an external
// collaborator and never ships one (spec.md §1) — so it intentionally
// stops short of compound commands (if/while/for/case/function): a
// script needing those wants a real POSIX grammar, not this stand-in.
package shline

import (
	"fmt"
	"strings"

	"github.com/shellwalk/shellcore/ast"
)

// Parse turns one line (or several, separated by newlines/semicolons)
// of simple shell text into a *ast.Script. It implements
// exec.ParseFunc.
func Parse(source string) (*ast.Script, error) {
	p := &parser{src: source}
	commands, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	return ast.NewScript(ast.Position{Line: 1, Column: 1}, commands), nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) parseSequence() ([]ast.Node, error) {
	var out []ast.Node
	for {
		p.skipSeparators()
		if p.atEnd() {
			return out, nil
		}
		node, err := p.parseAndOr()
		if err != nil {
			return nil, err
		}
		out = append(out, node)
		if !p.consumeSeparator() {
			p.skipSeparators()
			if p.atEnd() {
				return out, nil
			}
		}
	}
}

// skipSeparators consumes whitespace, newlines, and bare semicolons
// between commands.
func (p *parser) skipSeparators() {
	for {
		p.skipSpace()
		if p.atEnd() {
			return
		}
		c := p.src[p.pos]
		if c == '\n' || c == ';' {
			p.pos++
			continue
		}
		return
	}
}

// consumeSeparator eats exactly one trailing ; or newline immediately
// after a command, reporting whether it found one.
func (p *parser) consumeSeparator() bool {
	p.skipHorizontalSpace()
	if p.atEnd() {
		return false
	}
	if p.src[p.pos] == ';' || p.src[p.pos] == '\n' {
		p.pos++
		return true
	}
	return false
}

func (p *parser) parseAndOr() (ast.Node, error) {
	left, err := p.parsePipeline()
	if err != nil {
		return nil, err
	}
	for {
		p.skipHorizontalSpace()
		op, ok := p.peekLogicalOp()
		if !ok {
			return left, nil
		}
		p.pos += 2
		p.skipSeparators()
		right, err := p.parsePipeline()
		if err != nil {
			return nil, err
		}
		left = &ast.LogicalExpression{Op: op, Left: left, Right: right}
	}
}

func (p *parser) peekLogicalOp() (ast.LogicalOp, bool) {
	if p.atEnd() {
		return 0, false
	}
	switch {
	case strings.HasPrefix(p.src[p.pos:], "&&"):
		return ast.LogicalAnd, true
	case strings.HasPrefix(p.src[p.pos:], "||"):
		return ast.LogicalOr, true
	default:
		return 0, false
	}
}

func (p *parser) parsePipeline() (ast.Node, error) {
	first, err := p.parseCommand()
	if err != nil {
		return nil, err
	}
	stages := []ast.Node{first}
	for {
		p.skipHorizontalSpace()
		if p.atEnd() || p.peekIs("||") || !p.peekIs("|") {
			break
		}
		p.pos++ // consume '|'
		p.skipSeparators()
		next, err := p.parseCommand()
		if err != nil {
			return nil, err
		}
		stages = append(stages, next)
	}
	if len(stages) == 1 {
		return stages[0], nil
	}
	return &ast.Pipeline{Stages: stages}, nil
}

func (p *parser) parseCommand() (ast.Node, error) {
	start := p.pos
	cmd := &ast.Command{}

	for {
		p.skipHorizontalSpace()
		if p.atEnd() || p.peekIs(";") || p.peekIs("|") || p.peekIs("&") || p.peekIs("\n") || p.peekIs(")") {
			break
		}
		if r, ok := p.tryRedirect(); ok {
			cmd.Redirects = append(cmd.Redirects, r)
			continue
		}
		wordStart := p.pos
		w, err := p.parseWord()
		if err != nil {
			return nil, err
		}
		if name, val, ok := splitAssignment(w); ok && cmd.Name == nil {
			cmd.Assignments = append(cmd.Assignments, ast.AssignmentWord{
				Pos: posOf(wordStart), Name: name, Value: val,
			})
			continue
		}
		if cmd.Name == nil {
			w := w
			cmd.Name = &w
			continue
		}
		cmd.Args = append(cmd.Args, w)
	}

	p.skipHorizontalSpace()
	if p.peekIs("&") && !p.peekIs("&&") {
		cmd.Async = true
		p.pos++
	}

	if cmd.Name == nil && len(cmd.Assignments) == 0 {
		return nil, p.errorf(start, "expected a command")
	}
	return cmd, nil
}

// tryRedirect recognizes <, >, >> at the current position, followed by
// a target word.
func (p *parser) tryRedirect() (ast.Redirect, bool) {
	save := p.pos
	p.skipHorizontalSpace()
	if p.atEnd() {
		p.pos = save
		return ast.Redirect{}, false
	}
	var kind ast.RedirectKind
	switch {
	case strings.HasPrefix(p.src[p.pos:], ">>"):
		kind = ast.RedirectAppend
		p.pos += 2
	case strings.HasPrefix(p.src[p.pos:], ">"):
		kind = ast.RedirectOutput
		p.pos++
	case strings.HasPrefix(p.src[p.pos:], "<"):
		kind = ast.RedirectInput
		p.pos++
	default:
		p.pos = save
		return ast.Redirect{}, false
	}
	endpoint := ast.EndpointStdout
	if kind == ast.RedirectInput {
		endpoint = ast.EndpointStdin
	}
	p.skipHorizontalSpace()
	target, err := p.parseWord()
	if err != nil {
		p.pos = save
		return ast.Redirect{}, false
	}
	return ast.Redirect{Pos: posOf(save), Endpoint: endpoint, Kind: kind, Target: target}, true
}

// parseWord consumes one unquoted/quoted run of non-space,
// non-metacharacter text, recording $name/${name} and $(...) spans as
// it goes. Quote characters are kept in the returned Word.Text
// verbatim; the expansion engine performs quote removal itself.
func (p *parser) parseWord() (ast.Word, error) {
	start := p.pos
	var b strings.Builder
	var expansions []ast.Expansion

	for !p.atEnd() {
		c := p.src[p.pos]
		if isWordBoundary(c) {
			break
		}
		switch c {
		case '\'':
			b.WriteByte(c)
			p.pos++
			for !p.atEnd() && p.src[p.pos] != '\'' {
				b.WriteByte(p.src[p.pos])
				p.pos++
			}
			if p.atEnd() {
				return ast.Word{}, p.errorf(start, "unterminated single quote")
			}
			b.WriteByte('\'')
			p.pos++
		case '"':
			b.WriteByte(c)
			p.pos++
			for !p.atEnd() && p.src[p.pos] != '"' {
				if p.src[p.pos] == '\\' && p.pos+1 < len(p.src) {
					b.WriteByte(p.src[p.pos])
					b.WriteByte(p.src[p.pos+1])
					p.pos += 2
					continue
				}
				if exp, ok := p.tryExpansion(); ok {
					exp.Start = b.Len()
					exp.End = b.Len()
					expansions = append(expansions, exp)
					continue
				}
				b.WriteByte(p.src[p.pos])
				p.pos++
			}
			if p.atEnd() {
				return ast.Word{}, p.errorf(start, "unterminated double quote")
			}
			b.WriteByte('"')
			p.pos++
		case '\\':
			if p.pos+1 < len(p.src) {
				b.WriteByte(c)
				b.WriteByte(p.src[p.pos+1])
				p.pos += 2
			} else {
				p.pos++
			}
		case '$':
			if exp, ok := p.tryExpansion(); ok {
				exp.Start = b.Len()
				exp.End = b.Len()
				expansions = append(expansions, exp)
				continue
			}
			b.WriteByte(c)
			p.pos++
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	if b.Len() == 0 && len(expansions) == 0 {
		return ast.Word{}, p.errorf(start, "expected a word")
	}
	return ast.Word{Pos: posOf(start), Text: b.String(), Expansions: expansions}, nil
}

// tryExpansion recognizes $name, ${name}, and $(...) at the current
// position and returns the marker (Start/End left zero, filled in by
// the caller relative to the text already emitted), consuming the
// source as it goes. Since neither form leaves any literal replacement
// text behind, the marker is always a zero-width splice point. ok is
// false (with the cursor unmoved) for a bare '$' that isn't followed
// by a recognizable form, so it's kept literal.
func (p *parser) tryExpansion() (ast.Expansion, bool) {
	if p.src[p.pos] != '$' || p.pos+1 >= len(p.src) {
		return ast.Expansion{}, false
	}
	rest := p.src[p.pos+1:]

	if strings.HasPrefix(rest, "(") {
		inner, length, err := p.scanParenGroup(p.pos + 2)
		if err != nil {
			return ast.Expansion{}, false
		}
		script, perr := Parse(inner)
		if perr != nil {
			return ast.Expansion{}, false
		}
		p.pos += 2 + length + 1
		return ast.Expansion{Kind: ast.ExpCommand, Command: script}, true
	}

	if strings.HasPrefix(rest, "{") {
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			return ast.Expansion{}, false
		}
		name := rest[1:end]
		p.pos += 2 + len(name) + 1
		return ast.Expansion{Kind: ast.ExpParameter, Parameter: name}, true
	}

	end := 0
	for end < len(rest) && isNameByte(rest[end], end == 0) {
		end++
	}
	if end == 0 {
		if len(rest) > 0 && isSpecialParam(rest[0]) {
			p.pos += 2
			return ast.Expansion{Kind: ast.ExpParameter, Parameter: rest[:1]}, true
		}
		return ast.Expansion{}, false
	}
	name := rest[:end]
	p.pos += 1 + len(name)
	return ast.Expansion{Kind: ast.ExpParameter, Parameter: name}, true
}

// scanParenGroup returns the text between a balanced pair of
// parentheses starting at from (which must point just past the
// opening '('), and the length of that inner text.
func (p *parser) scanParenGroup(from int) (string, int, error) {
	depth := 1
	i := from
	for i < len(p.src) {
		switch p.src[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return p.src[from:i], i - from, nil
			}
		}
		i++
	}
	return "", 0, fmt.Errorf("unterminated command substitution")
}

func isSpecialParam(c byte) bool {
	switch c {
	case '?', '#', '@', '*', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return true
	default:
		return false
	}
}

func isNameByte(c byte, first bool) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		return true
	case c >= '0' && c <= '9':
		return !first
	default:
		return false
	}
}

func splitAssignment(w ast.Word) (string, ast.Word, bool) {
	eq := strings.IndexByte(w.Text, '=')
	if eq <= 0 {
		return "", ast.Word{}, false
	}
	name := w.Text[:eq]
	for i := 0; i < len(name); i++ {
		if !isNameByte(name[i], i == 0) {
			return "", ast.Word{}, false
		}
	}
	value := ast.Word{Pos: w.Pos, Text: w.Text[eq+1:]}
	for _, exp := range w.Expansions {
		if exp.Start >= eq+1 {
			shifted := exp
			shifted.Start -= eq + 1
			shifted.End -= eq + 1
			value.Expansions = append(value.Expansions, shifted)
		}
	}
	return name, value, true
}

func isWordBoundary(c byte) bool {
	switch c {
	case ' ', '\t', '\n', ';', '|', '&', '<', '>', '(', ')':
		return true
	default:
		return false
	}
}

func (p *parser) skipSpace() {
	for !p.atEnd() {
		c := p.src[p.pos]
		if c == ' ' || c == '\t' {
			p.pos++
			continue
		}
		return
	}
}

func (p *parser) skipHorizontalSpace() { p.skipSpace() }

func (p *parser) atEnd() bool { return p.pos >= len(p.src) }

func (p *parser) peekIs(s string) bool {
	return strings.HasPrefix(p.src[p.pos:], s)
}

func (p *parser) errorf(offset int, format string, args ...interface{}) error {
	return &parseError{pos: offset, msg: fmt.Sprintf(format, args...)}
}

type parseError struct {
	pos int
	msg string
}

func (e *parseError) Error() string { return e.msg }

// Offset implements PositionedError.
func (e *parseError) Offset() int { return e.pos }

// PositionedError is implemented by every error Parse returns, letting
// a caller recover the byte offset a failure occurred at for rendering
// a source snippet.
type PositionedError interface {
	error
	Offset() int
}

func posOf(offset int) ast.Position { return ast.Position{Offset: offset} }
