package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// GateKind enumerates the operations the simulator understands. The set is
// closed on purpose: the Clifford group generated by {H, S, CNOT/CZ} plus
// Paulis and Z-basis measurement is exactly what the stabilizer formalism can
// track, and anything else must be rejected rather than decomposed.
type GateKind int

const (
	GateX GateKind = iota
	GateY
	GateZ
	GateH
	GateS
	GateCNOT
	GateCZ
	GateMeasure
)

// String returns the display name of the gate kind.
func (k GateKind) String() string {
	switch k {
	case GateX:
		return "X"
	case GateY:
		return "Y"
	case GateZ:
		return "Z"
	case GateH:
		return "H"
	case GateS:
		return "S"
	case GateCNOT:
		return "CX"
	case GateCZ:
		return "CZ"
	case GateMeasure:
		return "M"
	default:
		return fmt.Sprintf("GateKind(%d)", int(k))
	}
}

// NumQubits returns how many qubits an operation of this kind acts on.
func (k GateKind) NumQubits() int {
	if k == GateCNOT || k == GateCZ {
		return 2
	}
	return 1
}

// UnsupportedGateError reports an operation outside the Clifford set.
type UnsupportedGateError struct {
	Gate string
}

func (e *UnsupportedGateError) Error() string {
	return fmt.Sprintf("gate %s cannot be run with the stabilizer simulator", e.Gate)
}

// Operation is a single gate application or measurement. Qubits is
// order-significant: for CNOT and CZ the first qubit is the control. Key
// names the result bucket for measurements and is empty otherwise.
type Operation struct {
	Kind   GateKind
	Qubits []int
	Key    string
}

// Moment is a time slice of operations acting on disjoint qubits.
type Moment []Operation

// Circuit is a moment-ordered Clifford circuit. The moment list is the
// single source of truth; the QASM view is derived from it.
type Circuit struct {
	NumQubits int
	Moments   []Moment
}

// MaxSteps returns the number of moments.
func (c *Circuit) MaxSteps() int { return len(c.Moments) }

// Clone returns a deep copy of the circuit.
func (c *Circuit) Clone() *Circuit {
	cp := &Circuit{NumQubits: c.NumQubits, Moments: make([]Moment, len(c.Moments))}
	for i, m := range c.Moments {
		cp.Moments[i] = make(Moment, len(m))
		for j, op := range m {
			cp.Moments[i][j] = Operation{
				Kind:   op.Kind,
				Qubits: append([]int(nil), op.Qubits...),
				Key:    op.Key,
			}
		}
	}
	return cp
}

// AppendGate adds a gate in a fresh moment at the end of the circuit.
func (c *Circuit) AppendGate(kind GateKind, qubits ...int) {
	c.Moments = append(c.Moments, Moment{{Kind: kind, Qubits: qubits}})
}

// AppendMeasurement adds a measurement of the given qubits under key in a
// fresh moment at the end of the circuit.
func (c *Circuit) AppendMeasurement(key string, qubits ...int) {
	c.Moments = append(c.Moments, Moment{{Kind: GateMeasure, Qubits: qubits, Key: key}})
}

func (c *Circuit) ensureStep(step int) {
	for len(c.Moments) <= step {
		c.Moments = append(c.Moments, nil)
	}
}

// CanPlaceAt reports whether every listed qubit is free in the given moment.
func (c *Circuit) CanPlaceAt(step int, qubits []int) bool {
	if step >= len(c.Moments) {
		return true
	}
	for _, op := range c.Moments[step] {
		for _, q := range op.Qubits {
			for _, want := range qubits {
				if q == want {
					return false
				}
			}
		}
	}
	return true
}

// PlaceGateAt inserts a gate into the given moment, growing the circuit as
// needed. It fails when one of the qubits is already in use at that step.
func (c *Circuit) PlaceGateAt(kind GateKind, step int, qubits ...int) error {
	if !c.CanPlaceAt(step, qubits) {
		return fmt.Errorf("step %d: qubit already in use", step)
	}
	c.ensureStep(step)
	op := Operation{Kind: kind, Qubits: qubits}
	if kind == GateMeasure {
		op.Key = measurementKey(qubits)
	}
	c.Moments[step] = append(c.Moments[step], op)
	return nil
}

// OperationAt returns the operation touching the given qubit in the given
// moment, or nil.
func (c *Circuit) OperationAt(step, qubit int) *Operation {
	if step >= len(c.Moments) {
		return nil
	}
	for i := range c.Moments[step] {
		for _, q := range c.Moments[step][i].Qubits {
			if q == qubit {
				return &c.Moments[step][i]
			}
		}
	}
	return nil
}

// RemoveAt deletes the operation touching the given qubit in the given
// moment, if any.
func (c *Circuit) RemoveAt(step, qubit int) {
	if step >= len(c.Moments) {
		return
	}
	m := c.Moments[step]
	for i := range m {
		for _, q := range m[i].Qubits {
			if q == qubit {
				c.Moments[step] = append(m[:i], m[i+1:]...)
				return
			}
		}
	}
}

// RemoveQubit deletes every operation touching the given qubit.
func (c *Circuit) RemoveQubit(qubit int) {
	for step := range c.Moments {
		m := c.Moments[step][:0]
		for _, op := range c.Moments[step] {
			keep := true
			for _, q := range op.Qubits {
				if q == qubit {
					keep = false
				}
			}
			if keep {
				m = append(m, op)
			}
		}
		c.Moments[step] = m
	}
}

// measurementKey is the default key for a measurement: "m" plus the measured
// qubits, e.g. "m0,2".
func measurementKey(qubits []int) string {
	parts := make([]string, len(qubits))
	for i, q := range qubits {
		parts[i] = strconv.Itoa(q)
	}
	return "m" + strings.Join(parts, ",")
}

// ──────────────────────────── QASM ────────────────────────────

// Pre-compiled regexps for the Clifford QASM subset.
var (
	qasmSingleRegex  = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\];?$`)
	qasmTwoRegex     = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\],\s*q\[(\d+)\];?$`)
	qasmMeasureRegex = regexp.MustCompile(`^measure\s+q\[(\d+)\]\s*->\s*\w+\[(\d+)\];?$`)
	qasmQregRegex    = regexp.MustCompile(`qreg\s+\w+\[(\d+)\]`)
)

var qasmGateNames = map[GateKind]string{
	GateX:    "x",
	GateY:    "y",
	GateZ:    "z",
	GateH:    "h",
	GateS:    "s",
	GateCNOT: "cx",
	GateCZ:   "cz",
}

var qasmGateKinds = map[string]GateKind{
	"x":  GateX,
	"y":  GateY,
	"z":  GateZ,
	"h":  GateH,
	"s":  GateS,
	"cx": GateCNOT,
	"cz": GateCZ,
}

// ToQASM generates OpenQASM 2.0 output for the circuit.
func (c *Circuit) ToQASM() string {
	numQubits := c.NumQubits
	for _, m := range c.Moments {
		for _, op := range m {
			for _, q := range op.Qubits {
				numQubits = max(numQubits, q+1)
			}
		}
	}
	numQubits = max(numQubits, 1)

	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", numQubits)
	fmt.Fprintf(&sb, "creg c[%d];\n\n", numQubits)

	for _, m := range c.Moments {
		for _, op := range m {
			if op.Kind == GateMeasure {
				for _, q := range op.Qubits {
					fmt.Fprintf(&sb, "measure q[%d] -> c[%d];\n", q, q)
				}
				continue
			}
			name := qasmGateNames[op.Kind]
			if op.Kind.NumQubits() == 2 {
				fmt.Fprintf(&sb, "%s q[%d], q[%d];\n", name, op.Qubits[0], op.Qubits[1])
			} else {
				fmt.Fprintf(&sb, "%s q[%d];\n", name, op.Qubits[0])
			}
		}
	}
	return sb.String()
}

// ParseQASM parses the Clifford subset of OpenQASM 2.0, one moment per
// statement. Gates outside the supported set yield an UnsupportedGateError.
func (c *Circuit) ParseQASM(qasm string) error {
	c.Moments = nil
	c.NumQubits = 0

	for _, raw := range strings.Split(qasm, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "//") ||
			strings.HasPrefix(line, "OPENQASM") || strings.HasPrefix(line, "include") ||
			strings.HasPrefix(line, "creg") {
			continue
		}

		if m := qasmQregRegex.FindStringSubmatch(line); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return fmt.Errorf("bad qreg size in %q: %w", line, err)
			}
			c.NumQubits = max(c.NumQubits, n)
			continue
		}

		if m := qasmMeasureRegex.FindStringSubmatch(line); m != nil {
			q, _ := strconv.Atoi(m[1])
			c.AppendMeasurement(measurementKey([]int{q}), q)
			c.NumQubits = max(c.NumQubits, q+1)
			continue
		}

		if m := qasmTwoRegex.FindStringSubmatch(line); m != nil {
			kind, ok := qasmGateKinds[strings.ToLower(m[1])]
			if !ok || kind.NumQubits() != 2 {
				return &UnsupportedGateError{Gate: m[1]}
			}
			q1, _ := strconv.Atoi(m[2])
			q2, _ := strconv.Atoi(m[3])
			c.AppendGate(kind, q1, q2)
			c.NumQubits = max(c.NumQubits, q1+1, q2+1)
			continue
		}

		if m := qasmSingleRegex.FindStringSubmatch(line); m != nil {
			kind, ok := qasmGateKinds[strings.ToLower(m[1])]
			if !ok || kind.NumQubits() != 1 {
				return &UnsupportedGateError{Gate: m[1]}
			}
			q, _ := strconv.Atoi(m[2])
			c.AppendGate(kind, q)
			c.NumQubits = max(c.NumQubits, q+1)
			continue
		}

		return fmt.Errorf("cannot parse QASM line %q", line)
	}
	return nil
}
