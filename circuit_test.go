package main

import (
	"errors"
	"strings"
	"testing"
)

func TestQASMRoundTrip(t *testing.T) {
	c := &Circuit{NumQubits: 3}
	c.AppendGate(GateH, 0)
	c.AppendGate(GateCNOT, 0, 1)
	c.AppendGate(GateCZ, 1, 2)
	c.AppendGate(GateS, 2)
	c.AppendMeasurement("m0", 0)

	qasm := c.ToQASM()

	parsed := &Circuit{}
	if err := parsed.ParseQASM(qasm); err != nil {
		t.Fatalf("ParseQASM error: %v", err)
	}

	if parsed.NumQubits != 3 {
		t.Errorf("NumQubits: got %d, want 3", parsed.NumQubits)
	}
	if parsed.MaxSteps() != c.MaxSteps() {
		t.Fatalf("steps: got %d, want %d", parsed.MaxSteps(), c.MaxSteps())
	}
	for i := range c.Moments {
		want := c.Moments[i][0]
		got := parsed.Moments[i][0]
		if got.Kind != want.Kind {
			t.Errorf("moment %d: kind %v, want %v", i, got.Kind, want.Kind)
		}
		if len(got.Qubits) != len(want.Qubits) {
			t.Errorf("moment %d: qubits %v, want %v", i, got.Qubits, want.Qubits)
			continue
		}
		for j := range want.Qubits {
			if got.Qubits[j] != want.Qubits[j] {
				t.Errorf("moment %d qubit %d: got %d, want %d", i, j, got.Qubits[j], want.Qubits[j])
			}
		}
	}
}

func TestParseQASMBell(t *testing.T) {
	qasm := `OPENQASM 2.0;
include "qelib1.inc";

qreg q[2];
creg c[2];

h q[0];
cx q[0], q[1];
measure q[0] -> c[0];
measure q[1] -> c[1];`

	c := &Circuit{}
	if err := c.ParseQASM(qasm); err != nil {
		t.Fatalf("ParseQASM error: %v", err)
	}

	if c.NumQubits != 2 {
		t.Errorf("NumQubits: got %d, want 2", c.NumQubits)
	}
	if c.MaxSteps() != 4 {
		t.Fatalf("expected 4 moments, got %d", c.MaxSteps())
	}
	if op := c.Moments[1][0]; op.Kind != GateCNOT || op.Qubits[0] != 0 || op.Qubits[1] != 1 {
		t.Errorf("moment 1: got %v on %v, want CX on [0 1]", op.Kind, op.Qubits)
	}
	if op := c.Moments[2][0]; op.Kind != GateMeasure || op.Key == "" {
		t.Errorf("moment 2: expected keyed measurement, got %+v", op)
	}
}

func TestParseQASMRejectsNonClifford(t *testing.T) {
	for _, line := range []string{"t q[0];", "rx(pi/2) q[0];", "swap q[0], q[1];", "ccx q[0], q[1], q[2];"} {
		c := &Circuit{}
		err := c.ParseQASM("qreg q[3];\n" + line)
		if err == nil {
			t.Errorf("ParseQASM accepted %q", line)
			continue
		}
		var unsupported *UnsupportedGateError
		if errors.As(err, &unsupported) {
			if !strings.Contains(line, strings.ToLower(unsupported.Gate)) {
				t.Errorf("error for %q names gate %q", line, unsupported.Gate)
			}
		}
	}
}

func TestPlaceGateConflicts(t *testing.T) {
	c := &Circuit{NumQubits: 3}
	if err := c.PlaceGateAt(GateCNOT, 0, 0, 1); err != nil {
		t.Fatalf("first placement failed: %v", err)
	}
	if err := c.PlaceGateAt(GateH, 0, 1); err == nil {
		t.Error("placement on an occupied qubit succeeded")
	}
	if err := c.PlaceGateAt(GateH, 0, 2); err != nil {
		t.Errorf("placement on a free qubit failed: %v", err)
	}
	if op := c.OperationAt(0, 2); op == nil || op.Kind != GateH {
		t.Errorf("OperationAt(0,2): got %+v, want H", op)
	}

	c.RemoveAt(0, 1)
	if op := c.OperationAt(0, 0); op != nil {
		t.Errorf("removing by either qubit should drop the CNOT, still have %+v", op)
	}
}

func TestCircuitCloneIsIndependent(t *testing.T) {
	c := &Circuit{NumQubits: 2}
	c.AppendGate(GateH, 0)
	c.AppendGate(GateCNOT, 0, 1)

	cp := c.Clone()
	cp.Moments[1][0].Qubits[1] = 0
	cp.AppendGate(GateZ, 1)

	if c.Moments[1][0].Qubits[1] != 1 {
		t.Error("mutating a clone's qubits changed the original")
	}
	if c.MaxSteps() != 2 {
		t.Errorf("original grew to %d moments", c.MaxSteps())
	}
}

func TestGateKindStrings(t *testing.T) {
	cases := map[GateKind]string{
		GateX:       "X",
		GateY:       "Y",
		GateZ:       "Z",
		GateH:       "H",
		GateS:       "S",
		GateCNOT:    "CX",
		GateCZ:      "CZ",
		GateMeasure: "M",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("GateKind %d: got %q, want %q", int(kind), got, want)
		}
	}
	if GateCNOT.NumQubits() != 2 || GateH.NumQubits() != 1 {
		t.Error("NumQubits mismatch for gate kinds")
	}
}
