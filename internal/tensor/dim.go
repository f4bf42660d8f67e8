package tensor

import (
	"strconv"
	"strings"
)

type dimOp uint8

const (
	dimConst dimOp = iota
	dimSym
	dimAdd
	dimMul
)

// Dim is an integer-valued dimension that may be a concrete constant or
// a symbolic expression over named symbols (sums and products). Tensors
// of kind TDim hold Dim elements, used for shapes that are not fully
// known until later binding.
//
// Dim values are immutable: every operation builds new nodes and shared
// subtrees are never written, so copies may share them freely.
type Dim struct {
	op   dimOp
	val  int64
	sym  string
	args []Dim
}

// MakeDim returns a concrete dimension.
func MakeDim(v int64) Dim {
	return Dim{op: dimConst, val: v}
}

// SymDim returns a symbolic dimension named name.
func SymDim(name string) Dim {
	return Dim{op: dimSym, sym: name}
}

// IsConcrete reports whether the dimension is a plain constant.
func (d Dim) IsConcrete() bool {
	return d.op == dimConst
}

// Int64 resolves the dimension to a concrete value. It fails with
// ErrUnresolvedDim while any symbol remains.
func (d Dim) Int64() (int64, error) {
	if d.op != dimConst {
		return 0, errorf(ErrUnresolvedDim, "dimension %s is symbolic", d)
	}
	return d.val, nil
}

// Add returns the sum of d and other, folding constants.
func (d Dim) Add(other Dim) Dim {
	terms := make([]Dim, 0, 4)
	var c int64
	for _, in := range []Dim{d, other} {
		switch in.op {
		case dimConst:
			c += in.val
		case dimAdd:
			for _, a := range in.args {
				if a.op == dimConst {
					c += a.val
				} else {
					terms = append(terms, a)
				}
			}
		default:
			terms = append(terms, in)
		}
	}
	if len(terms) == 0 {
		return MakeDim(c)
	}
	if c != 0 {
		terms = append(terms, MakeDim(c))
	}
	if len(terms) == 1 {
		return terms[0]
	}
	return Dim{op: dimAdd, args: terms}
}

// Mul returns the product of d and other, folding constants.
func (d Dim) Mul(other Dim) Dim {
	terms := make([]Dim, 0, 4)
	c := int64(1)
	for _, in := range []Dim{d, other} {
		switch in.op {
		case dimConst:
			c *= in.val
		case dimMul:
			for _, a := range in.args {
				if a.op == dimConst {
					c *= a.val
				} else {
					terms = append(terms, a)
				}
			}
		default:
			terms = append(terms, in)
		}
	}
	if c == 0 || len(terms) == 0 {
		return MakeDim(c)
	}
	if c != 1 {
		terms = append(terms, MakeDim(c))
	}
	if len(terms) == 1 {
		return terms[0]
	}
	return Dim{op: dimMul, args: terms}
}

// Equal reports structural equality.
func (d Dim) Equal(other Dim) bool {
	if d.op != other.op || d.val != other.val || d.sym != other.sym {
		return false
	}
	if len(d.args) != len(other.args) {
		return false
	}
	for i := range d.args {
		if !d.args[i].Equal(other.args[i]) {
			return false
		}
	}
	return true
}

// String renders the expression in the form ParseDim accepts.
func (d Dim) String() string {
	switch d.op {
	case dimConst:
		return strconv.FormatInt(d.val, 10)
	case dimSym:
		return d.sym
	case dimAdd:
		var b strings.Builder
		for i, a := range d.args {
			if i > 0 && !(a.op == dimConst && a.val < 0) {
				b.WriteByte('+')
			}
			b.WriteString(a.String())
		}
		return b.String()
	case dimMul:
		parts := make([]string, len(d.args))
		for i, a := range d.args {
			if a.op == dimAdd {
				parts[i] = "(" + a.String() + ")"
			} else {
				parts[i] = a.String()
			}
		}
		return strings.Join(parts, "*")
	default:
		return "?"
	}
}

// ParseDim parses a dimension expression: integers, symbol names and
// the operators + - * with parentheses.
func ParseDim(s string) (Dim, error) {
	p := dimParser{src: s}
	d, err := p.expr()
	if err != nil {
		return Dim{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return Dim{}, errorf(ErrParse, "trailing input %q in dimension %q", p.src[p.pos:], s)
	}
	return d, nil
}

type dimParser struct {
	src string
	pos int
}

func (p *dimParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *dimParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *dimParser) expr() (Dim, error) {
	d, err := p.term()
	if err != nil {
		return Dim{}, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			t, err := p.term()
			if err != nil {
				return Dim{}, err
			}
			d = d.Add(t)
		case '-':
			p.pos++
			t, err := p.term()
			if err != nil {
				return Dim{}, err
			}
			d = d.Add(t.Mul(MakeDim(-1)))
		default:
			return d, nil
		}
	}
}

func (p *dimParser) term() (Dim, error) {
	d, err := p.factor()
	if err != nil {
		return Dim{}, err
	}
	for p.peek() == '*' {
		p.pos++
		f, err := p.factor()
		if err != nil {
			return Dim{}, err
		}
		d = d.Mul(f)
	}
	return d, nil
}

func (p *dimParser) factor() (Dim, error) {
	switch c := p.peek(); {
	case c == '(':
		p.pos++
		d, err := p.expr()
		if err != nil {
			return Dim{}, err
		}
		if p.peek() != ')' {
			return Dim{}, errorf(ErrParse, "missing ) in dimension %q", p.src)
		}
		p.pos++
		return d, nil
	case c == '-':
		p.pos++
		d, err := p.factor()
		if err != nil {
			return Dim{}, err
		}
		return d.Mul(MakeDim(-1)), nil
	case c >= '0' && c <= '9':
		start := p.pos
		for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
		}
		v, err := strconv.ParseInt(p.src[start:p.pos], 10, 64)
		if err != nil {
			return Dim{}, errorf(ErrParse, "bad integer %q in dimension %q", p.src[start:p.pos], p.src)
		}
		return MakeDim(v), nil
	case c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z':
		start := p.pos
		for p.pos < len(p.src) && isIdentByte(p.src[p.pos]) {
			p.pos++
		}
		return SymDim(p.src[start:p.pos]), nil
	default:
		return Dim{}, errorf(ErrParse, "unexpected byte %q in dimension %q", string(c), p.src)
	}
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
