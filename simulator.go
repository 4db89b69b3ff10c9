package main

import (
	"fmt"
	"math/rand"
)

// CliffordState is the combined simulation state: Aaronson-Gottesman tableau
// and Bravyi CH form kept in lockstep. The tableau drives measurement
// outcomes, the CH form provides exact amplitudes. Gates and measurements
// cost O(n^2) on each representation.
type CliffordState struct {
	Tableau *CliffordTableau
	CH      *StabilizerStateChForm
	n       int
}

// NewCliffordState builds both representations for the computational basis
// state given by initialState. Qubits are addressed by their dense column
// index 0..n-1 everywhere.
func NewCliffordState(numQubits, initialState int) *CliffordState {
	return &CliffordState{
		Tableau: NewCliffordTableau(numQubits, initialState),
		CH:      NewStabilizerStateChForm(numQubits, initialState),
		n:       numQubits,
	}
}

// NumQubits returns the number of qubits in the state.
func (s *CliffordState) NumQubits() int { return s.n }

// Clone returns a deep copy of both representations.
func (s *CliffordState) Clone() *CliffordState {
	return &CliffordState{
		Tableau: s.Tableau.Clone(),
		CH:      s.CH.Clone(),
		n:       s.n,
	}
}

// Stabilizers returns the stabilizer generators as signed Pauli strings.
func (s *CliffordState) Stabilizers() []string { return s.Tableau.Stabilizers() }

// Destabilizers returns the destabilizer generators as signed Pauli strings.
func (s *CliffordState) Destabilizers() []string { return s.Tableau.Destabilizers() }

// WaveFunction returns all 2^n amplitudes from the CH form.
func (s *CliffordState) WaveFunction() []complex128 { return s.CH.ToStateVector() }

// ApplyOperation applies a unitary Clifford operation to both
// representations. Anything outside the fixed gate set, including
// measurement, is an UnsupportedGateError.
func (s *CliffordState) ApplyOperation(op Operation) error {
	switch op.Kind {
	case GateX:
		s.Tableau.ApplyX(op.Qubits[0])
		s.CH.ApplyX(op.Qubits[0])
	case GateY:
		s.Tableau.ApplyY(op.Qubits[0])
		s.CH.ApplyY(op.Qubits[0])
	case GateZ:
		s.Tableau.ApplyZ(op.Qubits[0])
		s.CH.ApplyZ(op.Qubits[0])
	case GateH:
		s.Tableau.ApplyH(op.Qubits[0])
		s.CH.ApplyH(op.Qubits[0])
	case GateS:
		s.Tableau.ApplyS(op.Qubits[0])
		s.CH.ApplyS(op.Qubits[0])
	case GateCNOT:
		s.Tableau.ApplyCNOT(op.Qubits[0], op.Qubits[1])
		s.CH.ApplyCNOT(op.Qubits[0], op.Qubits[1])
	case GateCZ:
		s.Tableau.ApplyCZ(op.Qubits[0], op.Qubits[1])
		s.CH.ApplyCZ(op.Qubits[0], op.Qubits[1])
	default:
		return &UnsupportedGateError{Gate: op.Kind.String()}
	}
	return nil
}

// PerformMeasurement measures the given qubits in order and returns the
// outcome bits. The tableau decides each outcome (consuming rng in the
// anticommuting case) and the CH form then applies the matching projector;
// letting each representation sample independently would make them diverge,
// so the order here is a contract.
func (s *CliffordState) PerformMeasurement(qubits []int, rng *rand.Rand, collapse bool) []int {
	state := s
	if !collapse {
		state = s.Clone()
	}
	results := make([]int, 0, len(qubits))
	for _, q := range qubits {
		bit := state.Tableau.Measure(q, rng)
		state.CH.ProjectZ(q, bit)
		results = append(results, bit)
	}
	return results
}

// String renders the state as a wavefunction in ket notation.
func (s *CliffordState) String() string { return s.CH.String() }

// StepResult is the simulator state after one moment, plus the measurement
// bits collected during that moment keyed by measurement key. State is
// shared, not copied: mutating it affects subsequent steps.
type StepResult struct {
	State        *CliffordState
	Measurements map[string][]int
}

// Sample measures the given qubits repeatedly without collapsing the shared
// state; each repetition measures a private copy. The returned matrix has
// one row per repetition.
func (r *StepResult) Sample(qubits []int, repetitions int, rng *rand.Rand) [][]int {
	out := make([][]int, repetitions)
	for i := range out {
		out[i] = r.State.PerformMeasurement(qubits, rng, false)
	}
	return out
}

// TrialResult is the outcome of a full Run: for each measurement key, one row
// of bits per occurrence in temporal order across all repetitions, plus the
// final state of the last repetition.
type TrialResult struct {
	Repetitions  int
	Measurements map[string][][]int
	FinalState   *CliffordState
}

// CliffordSimulator sequences circuit moments through a CliffordState.
type CliffordSimulator struct {
	// InitialState selects the starting computational basis state,
	// most-significant qubit first.
	InitialState int
}

// Steps runs the circuit once from a fresh state and returns one StepResult
// per moment. All StepResults share the same underlying state; the last one
// holds the final state. The first unsupported operation aborts the run.
func (sim *CliffordSimulator) Steps(circuit *Circuit, rng *rand.Rand) ([]*StepResult, error) {
	state := NewCliffordState(circuit.NumQubits, sim.InitialState)

	if len(circuit.Moments) == 0 {
		return []*StepResult{{State: state, Measurements: map[string][]int{}}}, nil
	}

	steps := make([]*StepResult, 0, len(circuit.Moments))
	for _, moment := range circuit.Moments {
		measurements := map[string][]int{}
		for _, op := range moment {
			if op.Kind == GateMeasure {
				bits := state.PerformMeasurement(op.Qubits, rng, true)
				measurements[op.Key] = append(measurements[op.Key], bits...)
				continue
			}
			if err := state.ApplyOperation(op); err != nil {
				return nil, err
			}
		}
		steps = append(steps, &StepResult{State: state, Measurements: measurements})
	}
	return steps, nil
}

// Simulate runs the circuit once and returns the final step.
func (sim *CliffordSimulator) Simulate(circuit *Circuit, rng *rand.Rand) (*StepResult, error) {
	steps, err := sim.Steps(circuit, rng)
	if err != nil {
		return nil, err
	}
	return steps[len(steps)-1], nil
}

// Run executes the whole circuit repetitions times, each from a fresh
// initial state, and stacks the measurement bits per key. Intermediate
// measurements are stochastic, so there is no shortcut: every repetition
// replays every moment.
func (sim *CliffordSimulator) Run(circuit *Circuit, repetitions int, rng *rand.Rand) (*TrialResult, error) {
	if repetitions < 1 {
		return nil, fmt.Errorf("repetitions must be positive, got %d", repetitions)
	}

	trial := &TrialResult{
		Repetitions:  repetitions,
		Measurements: map[string][][]int{},
	}
	for rep := 0; rep < repetitions; rep++ {
		steps, err := sim.Steps(circuit, rng)
		if err != nil {
			return nil, err
		}
		for _, step := range steps {
			for key, bits := range step.Measurements {
				trial.Measurements[key] = append(trial.Measurements[key], bits)
			}
		}
		trial.FinalState = steps[len(steps)-1].State
	}
	return trial, nil
}
