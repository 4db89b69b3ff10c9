package main

import (
	"math/rand"
	"strings"
)

// CliffordTableau is the binary-symplectic tableau representation of a
// stabilizer state (Aaronson & Gottesman, arXiv:quant-ph/0406196).
//
// Rows 0..n-1 hold the destabilizer generators, rows n..2n-1 the stabilizer
// generators, and row 2n is scratch space used during measurement. Each row
// is a Pauli string: xs[i][k]/zs[i][k] give the X/Z component on qubit k and
// rs[i] is set when the overall sign is -1.
type CliffordTableau struct {
	n  int
	xs [][]bool
	zs [][]bool
	rs []bool
}

// NewCliffordTableau builds the tableau for the computational basis state
// given by initialState, most-significant qubit first.
func NewCliffordTableau(numQubits, initialState int) *CliffordTableau {
	t := &CliffordTableau{
		n:  numQubits,
		xs: make([][]bool, 2*numQubits+1),
		zs: make([][]bool, 2*numQubits+1),
		rs: make([]bool, 2*numQubits+1),
	}
	for i := range t.xs {
		t.xs[i] = make([]bool, numQubits)
		t.zs[i] = make([]bool, numQubits)
	}
	for i := 0; i < numQubits; i++ {
		t.xs[i][i] = true
		t.zs[numQubits+i][i] = true
	}
	for i := 0; initialState > 0; i++ {
		if initialState&1 == 1 {
			t.rs[2*numQubits-i-1] = true
		}
		initialState >>= 1
	}
	return t
}

// NumQubits returns the number of qubits the tableau tracks.
func (t *CliffordTableau) NumQubits() int { return t.n }

// Clone returns a deep copy of the tableau.
func (t *CliffordTableau) Clone() *CliffordTableau {
	c := &CliffordTableau{
		n:  t.n,
		xs: make([][]bool, len(t.xs)),
		zs: make([][]bool, len(t.zs)),
		rs: make([]bool, len(t.rs)),
	}
	copy(c.rs, t.rs)
	for i := range t.xs {
		c.xs[i] = make([]bool, t.n)
		c.zs[i] = make([]bool, t.n)
		copy(c.xs[i], t.xs[i])
		copy(c.zs[i], t.zs[i])
	}
	return c
}

// Equal reports whether two tableaux hold identical rows.
func (t *CliffordTableau) Equal(o *CliffordTableau) bool {
	if t.n != o.n {
		return false
	}
	for i := range t.rs {
		if t.rs[i] != o.rs[i] {
			return false
		}
		for k := 0; k < t.n; k++ {
			if t.xs[i][k] != o.xs[i][k] || t.zs[i][k] != o.zs[i][k] {
				return false
			}
		}
	}
	return true
}

func (t *CliffordTableau) ApplyX(q int) {
	for i := range t.rs {
		t.rs[i] = t.rs[i] != t.zs[i][q]
	}
}

func (t *CliffordTableau) ApplyY(q int) {
	for i := range t.rs {
		t.rs[i] = t.rs[i] != (t.xs[i][q] || t.zs[i][q])
	}
}

func (t *CliffordTableau) ApplyZ(q int) {
	for i := range t.rs {
		t.rs[i] = t.rs[i] != t.xs[i][q]
	}
}

func (t *CliffordTableau) ApplyS(q int) {
	for i := range t.rs {
		t.rs[i] = t.rs[i] != (t.xs[i][q] && t.zs[i][q])
		t.zs[i][q] = t.zs[i][q] != t.xs[i][q]
	}
}

func (t *CliffordTableau) ApplyH(q int) {
	for i := range t.rs {
		t.xs[i][q], t.zs[i][q] = t.zs[i][q], t.xs[i][q]
		t.rs[i] = t.rs[i] != (t.xs[i][q] && t.zs[i][q])
	}
}

// ApplyCNOT applies a controlled-NOT. The sign update reads the pre-update
// column values, so it runs before the x/z column XORs.
func (t *CliffordTableau) ApplyCNOT(control, target int) {
	for i := range t.rs {
		t.rs[i] = t.rs[i] != (t.xs[i][control] && t.zs[i][target] &&
			!(t.xs[i][target] != t.zs[i][control]))
		t.xs[i][target] = t.xs[i][target] != t.xs[i][control]
		t.zs[i][control] = t.zs[i][control] != t.zs[i][target]
	}
}

func (t *CliffordTableau) ApplyCZ(q1, q2 int) {
	t.ApplyH(q2)
	t.ApplyCNOT(q1, q2)
	t.ApplyH(q2)
}

// rowsum multiplies the Pauli row q2 into row q1, tracking the sign mod 4.
func (t *CliffordTableau) rowsum(q1, q2 int) {
	g := func(x1, z1, x2, z2 bool) int {
		switch {
		case !x1 && !z1:
			return 0
		case x1 && z1:
			return b2i(z2) - b2i(x2)
		case x1:
			return b2i(z2) * (2*b2i(x2) - 1)
		default:
			return b2i(x2) * (1 - 2*b2i(z2))
		}
	}

	r := 2*b2i(t.rs[q1]) + 2*b2i(t.rs[q2])
	for j := 0; j < t.n; j++ {
		r += g(t.xs[q2][j], t.zs[q2][j], t.xs[q1][j], t.zs[q1][j])
	}
	t.rs[q1] = mod4(r) != 0

	for j := 0; j < t.n; j++ {
		t.xs[q1][j] = t.xs[q1][j] != t.xs[q2][j]
		t.zs[q1][j] = t.zs[q1][j] != t.zs[q2][j]
	}
}

// rowToPauli renders row i as a signed dense Pauli string, e.g. "+ZII".
func (t *CliffordTableau) rowToPauli(i int) string {
	var sb strings.Builder
	if t.rs[i] {
		sb.WriteByte('-')
	} else {
		sb.WriteByte('+')
	}
	for k := 0; k < t.n; k++ {
		switch {
		case t.xs[i][k] && t.zs[i][k]:
			sb.WriteByte('Y')
		case t.xs[i][k]:
			sb.WriteByte('X')
		case t.zs[i][k]:
			sb.WriteByte('Z')
		default:
			sb.WriteByte('I')
		}
	}
	return sb.String()
}

// Stabilizers returns the n stabilizer generators as signed Pauli strings.
// These are operators S_i with S_i|psi> = |psi>.
func (t *CliffordTableau) Stabilizers() []string {
	out := make([]string, 0, t.n)
	for i := t.n; i < 2*t.n; i++ {
		out = append(out, t.rowToPauli(i))
	}
	return out
}

// Destabilizers returns the n destabilizer generators as signed Pauli
// strings. Together with the stabilizers they generate the full Pauli group.
func (t *CliffordTableau) Destabilizers() []string {
	out := make([]string, 0, t.n)
	for i := 0; i < t.n; i++ {
		out = append(out, t.rowToPauli(i))
	}
	return out
}

// Measure performs a projective Z-basis measurement of qubit q and returns
// the outcome bit. When the measured observable anticommutes with some
// stabilizer the outcome is drawn from rng and the tableau collapses;
// otherwise the outcome is deterministic and the state is unchanged.
func (t *CliffordTableau) Measure(q int, rng *rand.Rand) int {
	p := -1
	for i := t.n; i < 2*t.n; i++ {
		if t.xs[i][q] {
			p = i
			break
		}
	}

	if p < 0 {
		// Commuting case: accumulate the relevant stabilizers into the
		// scratch row; its sign is the deterministic outcome.
		scratch := 2 * t.n
		for k := 0; k < t.n; k++ {
			t.xs[scratch][k] = false
			t.zs[scratch][k] = false
		}
		t.rs[scratch] = false
		for i := 0; i < t.n; i++ {
			if t.xs[i][q] {
				t.rowsum(scratch, t.n+i)
			}
		}
		return b2i(t.rs[scratch])
	}

	for i := 0; i < 2*t.n; i++ {
		if i != p && t.xs[i][q] {
			t.rowsum(i, p)
		}
	}

	copy(t.xs[p-t.n], t.xs[p])
	copy(t.zs[p-t.n], t.zs[p])
	t.rs[p-t.n] = t.rs[p]

	for k := 0; k < t.n; k++ {
		t.xs[p][k] = false
		t.zs[p][k] = false
	}
	t.zs[p][q] = true
	t.rs[p] = rng.Intn(2) == 1

	return b2i(t.rs[p])
}

// String renders the stabilizer half of the tableau, one generator per line.
func (t *CliffordTableau) String() string {
	return strings.Join(t.Stabilizers(), "\n")
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

func mod4(x int) int {
	return ((x % 4) + 4) % 4
}
