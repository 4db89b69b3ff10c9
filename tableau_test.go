package main

import (
	"math/rand"
	"sort"
	"testing"
)

func sortedStrings(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

func equalStringSets(a, b []string) bool {
	a, b = sortedStrings(a), sortedStrings(b)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestInitialStabilizers(t *testing.T) {
	tab := NewCliffordTableau(3, 0)

	wantStabs := []string{"+ZII", "+IZI", "+IIZ"}
	if got := tab.Stabilizers(); !equalStringSets(got, wantStabs) {
		t.Errorf("stabilizers of |000>: got %v, want %v", got, wantStabs)
	}

	wantDestabs := []string{"+XII", "+IXI", "+IIX"}
	if got := tab.Destabilizers(); !equalStringSets(got, wantDestabs) {
		t.Errorf("destabilizers of |000>: got %v, want %v", got, wantDestabs)
	}
}

func TestInitialStateSigns(t *testing.T) {
	// |101>: qubits 0 and 2 are set, most-significant qubit first.
	tab := NewCliffordTableau(3, 0b101)

	want := []string{"-ZII", "+IZI", "-IIZ"}
	if got := tab.Stabilizers(); !equalStringSets(got, want) {
		t.Errorf("stabilizers of |101>: got %v, want %v", got, want)
	}
}

func TestBellStabilizers(t *testing.T) {
	tab := NewCliffordTableau(2, 0)
	tab.ApplyH(0)
	tab.ApplyCNOT(0, 1)

	want := []string{"+XX", "+ZZ"}
	if got := tab.Stabilizers(); !equalStringSets(got, want) {
		t.Errorf("Bell stabilizers: got %v, want %v", got, want)
	}
}

func TestHTwiceIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tab := NewCliffordTableau(4, 0)
	applyRandomCliffords(tab, nil, nil, 30, rng)

	before := tab.Clone()
	for q := 0; q < 4; q++ {
		tab.ApplyH(q)
		tab.ApplyH(q)
	}
	if !tab.Equal(before) {
		t.Error("H applied twice did not return the tableau to its prior state")
	}
}

func TestDeterministicMeasurement(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	tab := NewCliffordTableau(2, 0)
	for i := 0; i < 20; i++ {
		if got := tab.Measure(0, rng); got != 0 {
			t.Fatalf("measurement %d of |00> qubit 0: got %d, want 0", i, got)
		}
	}

	tab.ApplyX(1)
	for i := 0; i < 20; i++ {
		if got := tab.Measure(1, rng); got != 1 {
			t.Fatalf("measurement %d of X|0> qubit 1: got %d, want 1", i, got)
		}
	}
}

func TestRandomMeasurementCollapses(t *testing.T) {
	rng := rand.New(rand.NewSource(2))

	seen := map[int]int{}
	for trial := 0; trial < 200; trial++ {
		tab := NewCliffordTableau(1, 0)
		tab.ApplyH(0)
		first := tab.Measure(0, rng)
		seen[first]++
		// Once collapsed the outcome must repeat.
		for i := 0; i < 5; i++ {
			if got := tab.Measure(0, rng); got != first {
				t.Fatalf("repeated measurement changed outcome: %d then %d", first, got)
			}
		}
	}
	if seen[0] == 0 || seen[1] == 0 {
		t.Errorf("H|0> measurements never produced both outcomes: %v", seen)
	}
	if seen[0] < 60 || seen[1] < 60 {
		t.Errorf("H|0> outcome frequencies far from uniform: %v", seen)
	}
}

// symplecticProduct computes sum_k x_i z_j + x_j z_i mod 2 for rows i, j.
func symplecticProduct(tab *CliffordTableau, i, j int) int {
	p := 0
	for k := 0; k < tab.n; k++ {
		if tab.xs[i][k] && tab.zs[j][k] {
			p ^= 1
		}
		if tab.xs[j][k] && tab.zs[i][k] {
			p ^= 1
		}
	}
	return p
}

func checkRowInvariants(t *testing.T, tab *CliffordTableau) {
	t.Helper()
	n := tab.n
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if got := symplecticProduct(tab, n+i, n+j); got != 0 {
				t.Fatalf("stabilizer rows %d,%d do not commute", i, j)
			}
			want := 0
			if i == j {
				want = 1
			}
			if got := symplecticProduct(tab, i, n+j); got != want {
				t.Fatalf("destabilizer %d vs stabilizer %d: symplectic product %d, want %d",
					i, j, got, want)
			}
		}
	}
}

func TestRowInvariantsUnderRandomGates(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		n := 2 + rng.Intn(5) // 2..6 qubits
		tab := NewCliffordTableau(n, rng.Intn(1<<n))
		applyRandomCliffords(tab, nil, nil, 50, rng)
		checkRowInvariants(t, tab)
	}
}

func TestRowInvariantsAfterMeasurement(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	tab := NewCliffordTableau(4, 0)
	applyRandomCliffords(tab, nil, nil, 40, rng)
	for q := 0; q < 4; q++ {
		tab.Measure(q, rng)
		checkRowInvariants(t, tab)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	tab := NewCliffordTableau(2, 0)
	cp := tab.Clone()
	cp.ApplyH(0)
	if tab.Equal(cp) {
		t.Error("mutating a clone changed the original")
	}
	want := []string{"+ZI", "+IZ"}
	if got := tab.Stabilizers(); !equalStringSets(got, want) {
		t.Errorf("original tableau changed: got %v, want %v", got, want)
	}
}

// applyRandomCliffords drives the same random gate sequence into whichever
// of the three representations are non-nil.
func applyRandomCliffords(tab *CliffordTableau, ch *StabilizerStateChForm, sv *StateVector, count int, rng *rand.Rand) {
	var n int
	switch {
	case tab != nil:
		n = tab.NumQubits()
	case ch != nil:
		n = ch.NumQubits()
	default:
		n = sv.NumQubits
	}

	for i := 0; i < count; i++ {
		q := rng.Intn(n)
		kind := GateKind(rng.Intn(7)) // everything but GateMeasure
		if kind.NumQubits() == 2 && n < 2 {
			kind = GateH
		}
		op := Operation{Kind: kind, Qubits: []int{q}}
		if kind.NumQubits() == 2 {
			r := rng.Intn(n - 1)
			if r >= q {
				r++
			}
			op.Qubits = []int{q, r}
		}

		if tab != nil {
			applyToTableau(tab, op)
		}
		if ch != nil {
			applyToChForm(ch, op)
		}
		if sv != nil {
			sv.ApplyOperation(op)
		}
	}
}

func applyToTableau(tab *CliffordTableau, op Operation) {
	switch op.Kind {
	case GateX:
		tab.ApplyX(op.Qubits[0])
	case GateY:
		tab.ApplyY(op.Qubits[0])
	case GateZ:
		tab.ApplyZ(op.Qubits[0])
	case GateH:
		tab.ApplyH(op.Qubits[0])
	case GateS:
		tab.ApplyS(op.Qubits[0])
	case GateCNOT:
		tab.ApplyCNOT(op.Qubits[0], op.Qubits[1])
	case GateCZ:
		tab.ApplyCZ(op.Qubits[0], op.Qubits[1])
	}
}

func applyToChForm(ch *StabilizerStateChForm, op Operation) {
	switch op.Kind {
	case GateX:
		ch.ApplyX(op.Qubits[0])
	case GateY:
		ch.ApplyY(op.Qubits[0])
	case GateZ:
		ch.ApplyZ(op.Qubits[0])
	case GateH:
		ch.ApplyH(op.Qubits[0])
	case GateS:
		ch.ApplyS(op.Qubits[0])
	case GateCNOT:
		ch.ApplyCNOT(op.Qubits[0], op.Qubits[1])
	case GateCZ:
		ch.ApplyCZ(op.Qubits[0], op.Qubits[1])
	}
}
