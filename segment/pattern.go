package segment

// Elem is one element of an opcode pattern.
type Elem struct {
	set     [256]bool
	gap     bool
	capture bool
}

// Lit matches one opcode from ops.
func Lit(ops ...byte) Elem {
	var e Elem
	for _, op := range ops {
		e.set[op] = true
	}
	return e
}

// Cap matches one opcode from ops and records its position.
func Cap(ops ...byte) Elem {
	e := Lit(ops...)
	e.capture = true
	return e
}

// Gap matches any run of opcodes, shortest first.
func Gap() Elem {
	return Elem{gap: true}
}

// Pattern is a compiled opcode pattern. It behaves like a regular
// expression over opcodes built from single-opcode classes and lazy
// wildcards, with leftmost-first semantics.
type Pattern struct {
	elems    []Elem
	captures []int // capture number per element, -1 when not capturing
	groups   int
}

// Compile builds a pattern from elements.
func Compile(elems ...Elem) *Pattern {
	p := &Pattern{
		elems:    elems,
		captures: make([]int, len(elems)),
	}
	for i, e := range elems {
		if e.capture {
			p.captures[i] = p.groups
			p.groups++
		} else {
			p.captures[i] = -1
		}
	}
	return p
}

// Groups returns the number of capturing elements.
func (p *Pattern) Groups() int {
	return p.groups
}

// Match is one match of a pattern. Start and End are opcode indexes,
// End exclusive; Groups holds the index of each captured opcode.
type Match struct {
	Start  int
	End    int
	Groups []int
}

// Matcher runs one pattern over one opcode sequence. Failed states are
// remembered across calls to Find, so scanning a sequence with
// increasing start positions stays linear in the pattern size times the
// sequence length.
type Matcher struct {
	p      *Pattern
	ops    []byte
	failed []bool // indexed by elem*(len(ops)+1)+pos
	groups []int
	end    int
}

// NewMatcher creates a matcher of p over ops.
func NewMatcher(p *Pattern, ops []byte) *Matcher {
	return &Matcher{
		p:      p,
		ops:    ops,
		failed: make([]bool, len(p.elems)*(len(ops)+1)),
		groups: make([]int, p.groups),
	}
}

// Find returns the leftmost match starting at or after from.
func (m *Matcher) Find(from int) (Match, bool) {
	for start := from; start <= len(m.ops); start++ {
		if match, ok := m.MatchAt(start); ok {
			return match, true
		}
	}
	return Match{}, false
}

// MatchAt reports whether the pattern matches starting exactly at start.
func (m *Matcher) MatchAt(start int) (Match, bool) {
	if start < 0 || start > len(m.ops) || !m.at(0, start) {
		return Match{}, false
	}
	return Match{
		Start:  start,
		End:    m.end,
		Groups: append([]int(nil), m.groups...),
	}, true
}

// Match reports the leftmost match anywhere in ops.
func (p *Pattern) Match(ops []byte) (Match, bool) {
	return NewMatcher(p, ops).Find(0)
}

func (m *Matcher) key(pi, ti int) int {
	return pi*(len(m.ops)+1) + ti
}

// at reports whether elements pi.. match ops starting at ti.
// Captures and the end position are written on the success path only.
func (m *Matcher) at(pi, ti int) bool {
	if pi == len(m.p.elems) {
		m.end = ti
		return true
	}
	if m.failed[m.key(pi, ti)] {
		return false
	}

	e := &m.p.elems[pi]
	if e.gap {
		return m.gap(pi, ti)
	}

	if ti < len(m.ops) && e.set[m.ops[ti]] && m.at(pi+1, ti+1) {
		if g := m.p.captures[pi]; g >= 0 {
			m.groups[g] = ti
		}
		return true
	}
	m.failed[m.key(pi, ti)] = true
	return false
}

// gap tries the rest of the pattern after zero, one, two... skipped
// opcodes. A gap that failed at t has failed at every later position too.
func (m *Matcher) gap(pi, ti int) bool {
	t := ti
	for ; t <= len(m.ops); t++ {
		if t > ti && m.failed[m.key(pi, t)] {
			break
		}
		if m.at(pi+1, t) {
			return true
		}
	}
	for u := ti; u < t; u++ {
		m.failed[m.key(pi, u)] = true
	}
	return false
}
