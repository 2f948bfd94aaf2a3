package compute

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Formula is a parsed calculation. It only understands numbers, {{key}}
// references, + - * / and parentheses; anything else is a ParseError.
type Formula struct {
	source string
	root   node
	refs   []string
}

// Resolver returns the numeric value for a referenced key. ok is false when
// the key is unknown.
type Resolver func(key string) (value float64, ok bool)

// Parse compiles source into a Formula.
func Parse(source string) (*Formula, error) {
	tokens, err := tokenize(source)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, &ParseError{Formula: source, Msg: "empty formula"}
	}

	stream := &tokenStream{source: source, tokens: tokens}
	root, err := stream.parseSum()
	if err != nil {
		return nil, err
	}
	if stream.pos < len(stream.tokens) {
		tok := stream.tokens[stream.pos]
		return nil, &ParseError{Formula: source, Pos: tok.pos, Msg: fmt.Sprintf("unexpected %q", tok.raw)}
	}

	return &Formula{source: source, root: root, refs: uniqueRefs(tokens)}, nil
}

// Source returns the formula text.
func (f *Formula) Source() string {
	return f.source
}

// References lists the distinct keys the formula reads, in order of first use.
func (f *Formula) References() []string {
	return append([]string(nil), f.refs...)
}

// Eval computes the formula. Division by zero and non-finite results are
// ArithmeticErrors; unresolvable keys are ReferenceErrors.
func (f *Formula) Eval(resolve Resolver) (float64, error) {
	value, err := f.root.eval(resolve)
	if err != nil {
		if ae, ok := err.(*ArithmeticError); ok && ae.Formula == "" {
			ae.Formula = f.source
		}
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, &ArithmeticError{Formula: f.source, Msg: "result is not a finite number"}
	}
	return value, nil
}

// References extracts the keys referenced by a formula without requiring it
// to parse as arithmetic.
func References(source string) []string {
	tokens, err := tokenize(source)
	if err != nil {
		return scanRefs(source)
	}
	return uniqueRefs(tokens)
}

type tokenKind int

const (
	tokenNumber tokenKind = iota
	tokenRef
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	raw  string
	num  float64
	pos  int
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(input) {
		ch := input[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case ch == '+':
			tokens = append(tokens, token{kind: tokenPlus, raw: "+", pos: i})
			i++
		case ch == '-':
			tokens = append(tokens, token{kind: tokenMinus, raw: "-", pos: i})
			i++
		case ch == '*':
			tokens = append(tokens, token{kind: tokenStar, raw: "*", pos: i})
			i++
		case ch == '/':
			tokens = append(tokens, token{kind: tokenSlash, raw: "/", pos: i})
			i++
		case ch == '(':
			tokens = append(tokens, token{kind: tokenLParen, raw: "(", pos: i})
			i++
		case ch == ')':
			tokens = append(tokens, token{kind: tokenRParen, raw: ")", pos: i})
			i++
		case ch == '{':
			if !strings.HasPrefix(input[i:], "{{") {
				return nil, &ParseError{Formula: input, Pos: i, Msg: "unexpected '{'; references use {{key}}"}
			}
			end := strings.Index(input[i+2:], "}}")
			if end < 0 {
				return nil, &ParseError{Formula: input, Pos: i, Msg: "unterminated reference"}
			}
			key := strings.TrimSpace(input[i+2 : i+2+end])
			if key == "" || strings.ContainsAny(key, "{}") {
				return nil, &ParseError{Formula: input, Pos: i, Msg: "invalid reference"}
			}
			tokens = append(tokens, token{kind: tokenRef, raw: key, pos: i})
			i += end + 4
		case (ch >= '0' && ch <= '9') || ch == '.':
			start := i
			for i < len(input) && ((input[i] >= '0' && input[i] <= '9') || input[i] == '.') {
				i++
			}
			raw := input[start:i]
			num, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, &ParseError{Formula: input, Pos: start, Msg: fmt.Sprintf("invalid number %q", raw)}
			}
			tokens = append(tokens, token{kind: tokenNumber, raw: raw, num: num, pos: start})
		default:
			return nil, &ParseError{Formula: input, Pos: i, Msg: fmt.Sprintf("unexpected character %q", ch)}
		}
	}
	return tokens, nil
}

type node interface {
	eval(resolve Resolver) (float64, error)
}

type numberNode float64

func (n numberNode) eval(Resolver) (float64, error) {
	return float64(n), nil
}

type refNode string

func (n refNode) eval(resolve Resolver) (float64, error) {
	if resolve == nil {
		return 0, &ReferenceError{Key: string(n)}
	}
	value, ok := resolve(string(n))
	if !ok {
		return 0, &ReferenceError{Key: string(n)}
	}
	return value, nil
}

type negateNode struct {
	inner node
}

func (n negateNode) eval(resolve Resolver) (float64, error) {
	v, err := n.inner.eval(resolve)
	if err != nil {
		return 0, err
	}
	return -v, nil
}

type binaryNode struct {
	op          tokenKind
	left, right node
}

func (n binaryNode) eval(resolve Resolver) (float64, error) {
	left, err := n.left.eval(resolve)
	if err != nil {
		return 0, err
	}
	right, err := n.right.eval(resolve)
	if err != nil {
		return 0, err
	}
	switch n.op {
	case tokenPlus:
		return left + right, nil
	case tokenMinus:
		return left - right, nil
	case tokenStar:
		return left * right, nil
	case tokenSlash:
		if right == 0 {
			return 0, &ArithmeticError{Msg: "division by zero"}
		}
		return left / right, nil
	default:
		return 0, &ArithmeticError{Msg: "unknown operator"}
	}
}

type tokenStream struct {
	source string
	tokens []token
	pos    int
}

func (s *tokenStream) parseSum() (node, error) {
	left, err := s.parseProduct()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := s.matchAny(tokenPlus, tokenMinus)
		if !ok {
			return left, nil
		}
		right, err := s.parseProduct()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, left: left, right: right}
	}
}

func (s *tokenStream) parseProduct() (node, error) {
	left, err := s.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := s.matchAny(tokenStar, tokenSlash)
		if !ok {
			return left, nil
		}
		right, err := s.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, left: left, right: right}
	}
}

func (s *tokenStream) parseUnary() (node, error) {
	if op, ok := s.matchAny(tokenMinus, tokenPlus); ok {
		inner, err := s.parseUnary()
		if err != nil {
			return nil, err
		}
		if op == tokenMinus {
			return negateNode{inner: inner}, nil
		}
		return inner, nil
	}
	return s.parsePrimary()
}

func (s *tokenStream) parsePrimary() (node, error) {
	if s.pos >= len(s.tokens) {
		return nil, &ParseError{Formula: s.source, Pos: len(s.source), Msg: "unexpected end of formula"}
	}
	tok := s.tokens[s.pos]
	s.pos++
	switch tok.kind {
	case tokenNumber:
		return numberNode(tok.num), nil
	case tokenRef:
		return refNode(tok.raw), nil
	case tokenLParen:
		inner, err := s.parseSum()
		if err != nil {
			return nil, err
		}
		if _, ok := s.matchAny(tokenRParen); !ok {
			return nil, &ParseError{Formula: s.source, Pos: tok.pos, Msg: "missing closing ')'"}
		}
		return inner, nil
	default:
		return nil, &ParseError{Formula: s.source, Pos: tok.pos, Msg: fmt.Sprintf("unexpected %q", tok.raw)}
	}
}

func (s *tokenStream) matchAny(kinds ...tokenKind) (tokenKind, bool) {
	if s.pos >= len(s.tokens) {
		return 0, false
	}
	current := s.tokens[s.pos].kind
	for _, kind := range kinds {
		if current == kind {
			s.pos++
			return kind, true
		}
	}
	return 0, false
}

func uniqueRefs(tokens []token) []string {
	var refs []string
	seen := make(map[string]struct{})
	for _, tok := range tokens {
		if tok.kind != tokenRef {
			continue
		}
		if _, ok := seen[tok.raw]; ok {
			continue
		}
		seen[tok.raw] = struct{}{}
		refs = append(refs, tok.raw)
	}
	return refs
}

// scanRefs pulls {{key}} references out of text that does not tokenize.
func scanRefs(source string) []string {
	var refs []string
	seen := make(map[string]struct{})
	rest := source
	for {
		start := strings.Index(rest, "{{")
		if start < 0 {
			return refs
		}
		end := strings.Index(rest[start+2:], "}}")
		if end < 0 {
			return refs
		}
		key := strings.TrimSpace(rest[start+2 : start+2+end])
		if key != "" {
			if _, ok := seen[key]; !ok {
				seen[key] = struct{}{}
				refs = append(refs, key)
			}
		}
		rest = rest[start+2+end+2:]
	}
}
