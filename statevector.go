package main

import (
	"math"
	"math/cmplx"
)

// StateVector is a dense amplitude vector over the full Hilbert space. The
// stabilizer representations are authoritative during simulation; this type
// exists for probability readouts and as an exhaustive cross-check of the
// CH-form amplitudes. Basis index bits follow the same convention as the CH
// form: qubit 0 is the most significant bit.
type StateVector struct {
	Amplitudes []complex128
	NumQubits  int
}

// NewStateVector returns |0...0> on numQubits qubits.
func NewStateVector(numQubits int) *StateVector {
	amps := make([]complex128, 1<<numQubits)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

// StateVectorOf wraps an existing amplitude slice of length 2^numQubits.
func StateVectorOf(amps []complex128, numQubits int) *StateVector {
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

// Clone returns a deep copy of the state vector.
func (s *StateVector) Clone() *StateVector {
	amps := make([]complex128, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &StateVector{Amplitudes: amps, NumQubits: s.NumQubits}
}

func (s *StateVector) mask(q int) int {
	return 1 << (s.NumQubits - 1 - q)
}

// ApplyOperation applies a unitary Clifford operation. Measurements and
// unknown kinds are rejected with an UnsupportedGateError.
func (s *StateVector) ApplyOperation(op Operation) error {
	switch op.Kind {
	case GateH:
		s.applyH(op.Qubits[0])
	case GateX:
		s.applyX(op.Qubits[0])
	case GateY:
		s.applyY(op.Qubits[0])
	case GateZ:
		s.applyZ(op.Qubits[0])
	case GateS:
		s.applyS(op.Qubits[0])
	case GateCNOT:
		s.applyCX(op.Qubits[0], op.Qubits[1])
	case GateCZ:
		s.applyCZ(op.Qubits[0], op.Qubits[1])
	default:
		return &UnsupportedGateError{Gate: op.Kind.String()}
	}
	return nil
}

func (s *StateVector) applyH(q int) {
	hFactor := complex(1.0/math.Sqrt2, 0)
	bit := s.mask(q)
	for i := range s.Amplitudes {
		if i&bit == 0 {
			j := i | bit
			a, b := s.Amplitudes[i], s.Amplitudes[j]
			s.Amplitudes[i] = hFactor * (a + b)
			s.Amplitudes[j] = hFactor * (a - b)
		}
	}
}

func (s *StateVector) applyX(q int) {
	bit := s.mask(q)
	for i := range s.Amplitudes {
		if i&bit == 0 {
			j := i | bit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyY(q int) {
	bit := s.mask(q)
	for i := range s.Amplitudes {
		if i&bit == 0 {
			j := i | bit
			s.Amplitudes[i], s.Amplitudes[j] = -1i*s.Amplitudes[j], 1i*s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyZ(q int) {
	bit := s.mask(q)
	for i := range s.Amplitudes {
		if i&bit != 0 {
			s.Amplitudes[i] *= -1
		}
	}
}

func (s *StateVector) applyS(q int) {
	bit := s.mask(q)
	for i := range s.Amplitudes {
		if i&bit != 0 {
			s.Amplitudes[i] *= 1i
		}
	}
}

func (s *StateVector) applyCX(control, target int) {
	cBit := s.mask(control)
	tBit := s.mask(target)
	for i := range s.Amplitudes {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyCZ(control, target int) {
	cBit := s.mask(control)
	tBit := s.mask(target)
	for i := range s.Amplitudes {
		if i&cBit != 0 && i&tBit != 0 {
			s.Amplitudes[i] *= -1
		}
	}
}

// QubitProbability holds the marginal Z-basis outcome probabilities of one
// qubit.
type QubitProbability struct {
	Prob0 float64
	Prob1 float64
}

// GetQubitProbabilities returns the marginal measurement probabilities of
// every qubit.
func (s *StateVector) GetQubitProbabilities() []QubitProbability {
	probs := make([]QubitProbability, s.NumQubits)
	for i, amp := range s.Amplitudes {
		p := real(amp * cmplx.Conj(amp))
		for q := 0; q < s.NumQubits; q++ {
			if i&s.mask(q) != 0 {
				probs[q].Prob1 += p
			} else {
				probs[q].Prob0 += p
			}
		}
	}
	return probs
}
