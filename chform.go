package main

import (
	"fmt"
	"math"
	"math/cmplx"
)

// StabilizerStateChForm represents a stabilizer state in the CH form
//
//	|psi> = omega * U_C * U_H * |s>
//
// of Bravyi et al (arXiv:1808.00128). Unlike the tableau it tracks the
// global phase, which makes exact amplitudes available.
type StabilizerStateChForm struct {
	n     int
	G     [][]bool
	F     [][]bool
	M     [][]bool
	gamma []int // mod 4
	v     []bool
	s     []bool
	omega complex128
}

// NewStabilizerStateChForm builds the CH form of the computational basis
// state given by initialState, most-significant qubit first.
func NewStabilizerStateChForm(numQubits, initialState int) *StabilizerStateChForm {
	c := &StabilizerStateChForm{
		n:     numQubits,
		G:     identityBits(numQubits),
		F:     identityBits(numQubits),
		M:     zeroBits(numQubits),
		gamma: make([]int, numQubits),
		v:     make([]bool, numQubits),
		s:     make([]bool, numQubits),
		omega: 1,
	}
	for i := 0; initialState > 0; i++ {
		if initialState&1 == 1 {
			c.ApplyX(numQubits - i - 1)
		}
		initialState >>= 1
	}
	return c
}

// NumQubits returns the number of qubits the state tracks.
func (c *StabilizerStateChForm) NumQubits() int { return c.n }

// Clone returns a deep copy of the state.
func (c *StabilizerStateChForm) Clone() *StabilizerStateChForm {
	cp := &StabilizerStateChForm{
		n:     c.n,
		G:     cloneBits(c.G),
		F:     cloneBits(c.F),
		M:     cloneBits(c.M),
		gamma: append([]int(nil), c.gamma...),
		v:     append([]bool(nil), c.v...),
		s:     append([]bool(nil), c.s...),
		omega: c.omega,
	}
	return cp
}

// ApplyS applies the phase gate S to qubit q (left multiplication).
func (c *StabilizerStateChForm) ApplyS(q int) {
	for k := 0; k < c.n; k++ {
		c.M[q][k] = c.M[q][k] != c.G[q][k]
	}
	c.gamma[q] = mod4(c.gamma[q] - 1)
}

// rightS multiplies by S on the right, used by the H-update row reduction.
func (c *StabilizerStateChForm) rightS(q int) {
	for i := 0; i < c.n; i++ {
		c.M[i][q] = c.M[i][q] != c.F[i][q]
		c.gamma[i] = mod4(c.gamma[i] - b2i(c.F[i][q]))
	}
}

func (c *StabilizerStateChForm) ApplyZ(q int) {
	c.ApplyS(q)
	c.ApplyS(q)
}

func (c *StabilizerStateChForm) ApplyX(q int) {
	c.ApplyH(q)
	c.ApplyZ(q)
	c.ApplyH(q)
}

func (c *StabilizerStateChForm) ApplyY(q int) {
	c.ApplyZ(q)
	c.ApplyX(q)
	c.omega *= 1i
}

// ApplyCZ applies a controlled-Z between qubits q and r.
func (c *StabilizerStateChForm) ApplyCZ(q, r int) {
	for k := 0; k < c.n; k++ {
		c.M[q][k] = c.M[q][k] != c.G[r][k]
		c.M[r][k] = c.M[r][k] != c.G[q][k]
	}
}

func (c *StabilizerStateChForm) rightCZ(q, r int) {
	for i := 0; i < c.n; i++ {
		c.M[i][q] = c.M[i][q] != c.F[i][r]
		c.M[i][r] = c.M[i][r] != c.F[i][q]
		if c.F[i][q] && c.F[i][r] {
			c.gamma[i] = mod4(c.gamma[i] + 2)
		}
	}
}

// ApplyCNOT applies a controlled-NOT with control q and target r.
func (c *StabilizerStateChForm) ApplyCNOT(q, r int) {
	parity := 0
	for k := 0; k < c.n; k++ {
		if c.M[q][k] && c.F[r][k] {
			parity ^= 1
		}
	}
	c.gamma[q] = mod4(c.gamma[q] + c.gamma[r] + 2*parity)
	for k := 0; k < c.n; k++ {
		c.G[r][k] = c.G[r][k] != c.G[q][k]
		c.F[q][k] = c.F[q][k] != c.F[r][k]
		c.M[q][k] = c.M[q][k] != c.M[r][k]
	}
}

func (c *StabilizerStateChForm) rightCNOT(q, r int) {
	for i := 0; i < c.n; i++ {
		c.G[i][q] = c.G[i][q] != c.G[i][r]
		c.F[i][r] = c.F[i][r] != c.F[i][q]
		c.M[i][q] = c.M[i][q] != c.M[i][r]
	}
}

// ApplyH applies the Hadamard gate to qubit p. This is the one update that
// can introduce or collapse a superposition, handled by updateSum.
func (c *StabilizerStateChForm) ApplyH(p int) {
	t := make([]bool, c.n)
	u := make([]bool, c.n)
	for k := 0; k < c.n; k++ {
		t[k] = c.s[k] != (c.G[p][k] && c.v[k])
		u[k] = c.s[k] != (c.F[p][k] && !c.v[k]) != (c.M[p][k] && c.v[k])
	}

	alpha := 0
	beta := 0
	for k := 0; k < c.n; k++ {
		if c.G[p][k] && !c.v[k] && c.s[k] {
			alpha ^= 1
		}
		if c.M[p][k] && !c.v[k] && c.s[k] {
			beta ^= 1
		}
		if c.F[p][k] && c.v[k] && c.M[p][k] {
			beta ^= 1
		}
		if c.F[p][k] && c.v[k] && c.s[k] {
			beta ^= 1
		}
	}

	delta := mod4(c.gamma[p] + 2*(alpha+beta))
	c.updateSum(t, u, delta, alpha)
}

// updateSum implements Proposition 4 of Bravyi et al:
//
//	i^alpha U_H (|t> + i^delta |u>) = omega W_C W_H |s'>
//
// rewriting the state in place.
func (c *StabilizerStateChForm) updateSum(t, u []bool, delta, alpha int) {
	if equalBits(t, u) {
		copy(c.s, t)
		c.omega *= complex(1/math.Sqrt2, 0) * minusOnePow(alpha) * (1 + iPow(delta))
		return
	}

	var set0, set1 []int
	for k := 0; k < c.n; k++ {
		if t[k] != u[k] {
			if c.v[k] {
				set1 = append(set1, k)
			} else {
				set0 = append(set0, k)
			}
		}
	}

	// Reduce the differing columns onto a single pivot q.
	var q int
	if len(set0) > 0 {
		q = set0[0]
		for _, i := range set0 {
			if i != q {
				c.rightCNOT(q, i)
			}
		}
		for _, i := range set1 {
			c.rightCZ(q, i)
		}
	} else {
		q = set1[0]
		for _, i := range set1 {
			if i != q {
				c.rightCNOT(i, q)
			}
		}
	}

	y := make([]bool, c.n)
	z := make([]bool, c.n)
	if t[q] {
		copy(y, u)
		y[q] = !y[q]
		copy(z, u)
	} else {
		copy(y, t)
		copy(z, t)
		z[q] = !z[q]
	}

	omega, a, b, sq := decomposeH(c.v[q], y[q], z[q], delta)

	copy(c.s, y)
	c.s[q] = sq
	c.omega *= minusOnePow(alpha) * omega

	if a {
		c.rightS(q)
	}
	c.v[q] = b
}

// decomposeH determines the single-qubit transformation
//
//	H^v (|y> + i^delta |z>) = omega S^a H^b |c>
//
// It requires y != z; a violation means a gate update broke the CH-form
// invariants, so it panics rather than returning an error.
func decomposeH(v, y, z bool, delta int) (omega complex128, a, b, c bool) {
	if y == z {
		panic(fmt.Sprintf("decomposeH: |y> equals |z> (v=%v delta=%d)", v, delta))
	}

	if !v {
		omega = iPow(delta * b2i(y))
		delta2 := delta
		if y {
			delta2 = mod4(-delta)
		}
		c = delta2>>1 == 1
		a = delta2&1 == 1
		b = true
		return
	}

	if delta&1 == 0 {
		a = false
		b = false
		c = delta>>1 == 1
		omega = minusOnePow(b2i(c && y))
		return
	}

	omega = complex(1/math.Sqrt2, 0) * (1 + iPow(delta))
	b = true
	a = true
	c = !((delta>>1 == 1) != y)
	return
}

// Amplitude returns <x|psi> for the computational basis state x,
// most-significant qubit first.
func (c *StabilizerStateChForm) Amplitude(x int) complex128 {
	y := make([]bool, c.n)
	for p := 0; p < c.n; p++ {
		y[p] = x&(1<<(c.n-p-1)) != 0
	}

	mu := 0
	for p := 0; p < c.n; p++ {
		if y[p] {
			mu += c.gamma[p]
		}
	}

	u := make([]bool, c.n)
	for p := 0; p < c.n; p++ {
		if !y[p] {
			continue
		}
		for k := 0; k < c.n; k++ {
			u[k] = u[k] != c.F[p][k]
		}
		parity := 0
		for k := 0; k < c.n; k++ {
			if c.M[p][k] && u[k] {
				parity ^= 1
			}
		}
		mu += 2 * parity
	}

	signPar := 0
	vCount := 0
	for k := 0; k < c.n; k++ {
		if c.v[k] {
			vCount++
			if u[k] && c.s[k] {
				signPar ^= 1
			}
		} else if u[k] != c.s[k] {
			// Outside the Hadamard support the basis state must match |s>.
			return 0
		}
	}

	amp := c.omega * complex(math.Pow(2, -float64(vCount)/2), 0)
	amp *= iPow(mu) * minusOnePow(signPar)
	return amp
}

// ToStateVector materializes all 2^n amplitudes. Exponential by nature; the
// polynomial-time guarantees apply to gates and sampling only.
func (c *StabilizerStateChForm) ToStateVector() []complex128 {
	wf := make([]complex128, 1<<c.n)
	for x := range wf {
		wf[x] = c.Amplitude(x)
	}
	return wf
}

// ProjectZ applies the Z projector for the given outcome on qubit q and
// renormalizes, leaving a state with Z_q|psi> = (-1)^outcome |psi>. The
// outcome must already have been decided by the caller; ProjectZ never
// samples one itself.
func (c *StabilizerStateChForm) ProjectZ(q, outcome int) {
	t := append([]bool(nil), c.s...)
	u := make([]bool, c.n)
	par := 0
	for k := 0; k < c.n; k++ {
		u[k] = (c.G[q][k] && c.v[k]) != c.s[k]
		if c.G[q][k] && !c.v[k] && c.s[k] {
			par++
		}
	}
	delta := mod4(2*par + 2*outcome)

	if equalBits(t, u) {
		c.omega /= complex(math.Sqrt2, 0)
	}
	c.updateSum(t, u, delta, 0)
}

// String renders the state in ket notation, dropping negligible amplitudes.
func (c *StabilizerStateChForm) String() string {
	return diracNotation(c.ToStateVector(), c.n)
}

func diracNotation(wf []complex128, n int) string {
	out := ""
	for x, amp := range wf {
		if cmplx.Abs(amp) < 1e-10 {
			continue
		}
		if out != "" {
			out += " + "
		}
		ket := ""
		for p := n - 1; p >= 0; p-- {
			if x&(1<<p) != 0 {
				ket += "1"
			} else {
				ket += "0"
			}
		}
		out += fmt.Sprintf("(%.3g%+.3gi)|%s>", real(amp), imag(amp), ket)
	}
	if out == "" {
		return "0"
	}
	return out
}

func iPow(k int) complex128 {
	switch mod4(k) {
	case 0:
		return 1
	case 1:
		return 1i
	case 2:
		return -1
	default:
		return -1i
	}
}

func minusOnePow(k int) complex128 {
	if k&1 == 1 {
		return -1
	}
	return 1
}

func identityBits(n int) [][]bool {
	m := zeroBits(n)
	for i := 0; i < n; i++ {
		m[i][i] = true
	}
	return m
}

func zeroBits(n int) [][]bool {
	m := make([][]bool, n)
	for i := range m {
		m[i] = make([]bool, n)
	}
	return m
}

func cloneBits(src [][]bool) [][]bool {
	m := make([][]bool, len(src))
	for i := range src {
		m[i] = append([]bool(nil), src[i]...)
	}
	return m
}

func equalBits(a, b []bool) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
