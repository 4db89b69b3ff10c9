package main

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireAmplitudesEqual(t *testing.T, want, got []complex128) {
	t.Helper()
	require.Len(t, got, len(want))
	for x := range want {
		require.InDelta(t, real(want[x]), real(got[x]), 1e-8, "real part of amplitude %d", x)
		require.InDelta(t, imag(want[x]), imag(got[x]), 1e-8, "imag part of amplitude %d", x)
	}
}

func TestInitialBasisState(t *testing.T) {
	ch := NewStabilizerStateChForm(2, 0b10)

	want := []complex128{0, 0, 1, 0} // |10>
	requireAmplitudesEqual(t, want, ch.ToStateVector())
}

func TestHadamardAmplitudes(t *testing.T) {
	ch := NewStabilizerStateChForm(1, 0)
	ch.ApplyH(0)

	s := complex(1/math.Sqrt2, 0)
	requireAmplitudesEqual(t, []complex128{s, s}, ch.ToStateVector())
}

func TestBellAmplitudes(t *testing.T) {
	ch := NewStabilizerStateChForm(2, 0)
	ch.ApplyH(0)
	ch.ApplyCNOT(0, 1)

	s := complex(1/math.Sqrt2, 0)
	requireAmplitudesEqual(t, []complex128{s, 0, 0, s}, ch.ToStateVector())
}

func TestGlobalPhaseTracking(t *testing.T) {
	// Y|0> = i|1>, a phase the tableau cannot see but the CH form must keep.
	ch := NewStabilizerStateChForm(1, 0)
	ch.ApplyY(0)
	requireAmplitudesEqual(t, []complex128{0, 1i}, ch.ToStateVector())

	// S on an equal superposition puts i on the |1> branch only.
	ch = NewStabilizerStateChForm(1, 0)
	ch.ApplyH(0)
	ch.ApplyS(0)
	s := complex(1/math.Sqrt2, 0)
	requireAmplitudesEqual(t, []complex128{s, s * 1i}, ch.ToStateVector())
}

func TestHadamardTwiceRestoresAmplitudes(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	ch := NewStabilizerStateChForm(3, 0b011)
	applyRandomCliffords(nil, ch, nil, 25, rng)

	before := ch.ToStateVector()
	for q := 0; q < 3; q++ {
		ch.ApplyH(q)
		ch.ApplyH(q)
	}
	requireAmplitudesEqual(t, before, ch.ToStateVector())
}

func TestAmplitudeSingleIndex(t *testing.T) {
	ch := NewStabilizerStateChForm(2, 0)
	ch.ApplyH(0)
	ch.ApplyCNOT(0, 1)

	require.InDelta(t, 1/math.Sqrt2, real(ch.Amplitude(0)), 1e-8)
	require.InDelta(t, 0, real(ch.Amplitude(1)), 1e-8)
	require.InDelta(t, 0, real(ch.Amplitude(2)), 1e-8)
	require.InDelta(t, 1/math.Sqrt2, real(ch.Amplitude(3)), 1e-8)
}

func TestProjectZCollapsesBellState(t *testing.T) {
	for outcome := 0; outcome <= 1; outcome++ {
		ch := NewStabilizerStateChForm(2, 0)
		ch.ApplyH(0)
		ch.ApplyCNOT(0, 1)

		ch.ProjectZ(0, outcome)

		want := []complex128{1, 0, 0, 0}
		if outcome == 1 {
			want = []complex128{0, 0, 0, 1}
		}
		got := ch.ToStateVector()
		require.Len(t, got, len(want))
		for x := range want {
			require.InDelta(t, math.Abs(real(want[x])), math.Sqrt(
				real(got[x])*real(got[x])+imag(got[x])*imag(got[x])), 1e-8,
				"amplitude magnitude %d with outcome %d", x, outcome)
		}
	}
}

func TestProjectZOnEigenstateRenormalizes(t *testing.T) {
	// |0> is already a Z eigenstate; projecting onto the observed outcome
	// must leave the state normalized, not halved.
	ch := NewStabilizerStateChForm(1, 0)
	ch.ProjectZ(0, 0)
	requireAmplitudesEqual(t, []complex128{1, 0}, ch.ToStateVector())
}

func TestMatchesDenseSimulation(t *testing.T) {
	for seed := int64(0); seed < 25; seed++ {
		rng := rand.New(rand.NewSource(seed))
		n := 1 + rng.Intn(4) // 1..4 qubits
		initial := rng.Intn(1 << n)

		ch := NewStabilizerStateChForm(n, initial)
		sv := NewStateVector(n)
		for p := 0; p < n; p++ {
			if initial&(1<<(n-p-1)) != 0 {
				sv.applyX(p)
			}
		}

		applyRandomCliffords(nil, ch, sv, 50, rng)

		got := ch.ToStateVector()
		for x := range sv.Amplitudes {
			require.InDelta(t, real(sv.Amplitudes[x]), real(got[x]), 1e-8,
				"seed %d amplitude %d (real)", seed, x)
			require.InDelta(t, imag(sv.Amplitudes[x]), imag(got[x]), 1e-8,
				"seed %d amplitude %d (imag)", seed, x)
		}
	}
}

func TestCloneIndependence(t *testing.T) {
	ch := NewStabilizerStateChForm(2, 0)
	ch.ApplyH(0)

	cp := ch.Clone()
	cp.ApplyCNOT(0, 1)

	s := complex(1/math.Sqrt2, 0)
	requireAmplitudesEqual(t, []complex128{s, 0, s, 0}, ch.ToStateVector())
	requireAmplitudesEqual(t, []complex128{s, 0, 0, s}, cp.ToStateVector())
}
