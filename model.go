package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusQASM
	focusMenu
	focusSelectTarget
)

// defaultShots is the repetition count used by the interactive run.
const defaultShots = 1024

// runResults holds the readouts displayed after a simulation run.
type runResults struct {
	stabilizers   []string
	destabilizers []string
	wavefunction  string
	probs         []QubitProbability
	counts        map[string]int
	shots         int
	err           error
}

// Model represents the TUI application state.
type Model struct {
	circuit       *Circuit
	cursorQubit   int
	cursorStep    int
	width         int
	height        int
	qasmEditor    textarea.Model
	focus         focus
	lastQASM      string
	statusMsg     string
	results       *runResults
	rng           *rand.Rand

	// Menu state
	menuCat  int
	menuItem int

	// Target-selection state (for two-qubit gates)
	pendingKind GateKind
	targetQubit int
}

func initialModel() Model {
	ta := textarea.New()
	ta.Placeholder = "Edit QASM here..."
	ta.SetWidth(40)
	ta.SetHeight(12)
	ta.ShowLineNumbers = true
	ta.KeyMap.InsertNewline.SetEnabled(true)

	m := Model{
		circuit: &Circuit{NumQubits: 3},
		focus:   focusCircuit,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	m.qasmEditor = ta
	m.syncFromCircuit()
	return m
}

// syncFromCircuit refreshes the QASM view after a grid edit.
func (m *Model) syncFromCircuit() {
	qasm := m.circuit.ToQASM()
	m.qasmEditor.SetValue(qasm)
	m.lastQASM = qasm
	m.results = nil
}

// parseQASMInput rebuilds the circuit from the editor when its text changed.
func (m *Model) parseQASMInput() {
	qasm := m.qasmEditor.Value()
	if qasm == m.lastQASM {
		return
	}
	c := &Circuit{}
	if err := c.ParseQASM(qasm); err != nil {
		m.statusMsg = err.Error()
		return
	}
	if c.NumQubits == 0 {
		c.NumQubits = 1
	}
	m.circuit = c
	m.lastQASM = qasm
	m.cursorQubit = min(m.cursorQubit, c.NumQubits-1)
	m.results = nil
}

// placeGate places a gate at the cursor position. targetQ is the target
// qubit for two-qubit gates (-1 otherwise).
func (m *Model) placeGate(kind GateKind, targetQ int) bool {
	qubits := []int{m.cursorQubit}
	if kind.NumQubits() == 2 {
		qubits = []int{m.cursorQubit, targetQ}
	}

	m.circuit.RemoveAt(m.cursorStep, m.cursorQubit)
	if err := m.circuit.PlaceGateAt(kind, m.cursorStep, qubits...); err != nil {
		m.statusMsg = "Cannot place: qubit already used by another gate at this step"
		return false
	}

	m.cursorStep++
	m.syncFromCircuit()
	return true
}

// runCircuit simulates the current circuit: one clean pass for the state
// readouts, then repeated sampled runs for the measurement counts.
func (m *Model) runCircuit() {
	sim := &CliffordSimulator{}
	r := &runResults{}
	m.results = r

	step, err := sim.Simulate(m.circuit, m.rng)
	if err != nil {
		r.err = err
		return
	}

	state := step.State
	r.stabilizers = state.Stabilizers()
	r.destabilizers = state.Destabilizers()
	if state.NumQubits() <= 6 {
		wf := state.WaveFunction()
		r.wavefunction = diracNotation(wf, state.NumQubits())
		r.probs = StateVectorOf(wf, state.NumQubits()).GetQubitProbabilities()
	}

	hasMeasurement := false
	for _, moment := range m.circuit.Moments {
		for _, op := range moment {
			if op.Kind == GateMeasure {
				hasMeasurement = true
			}
		}
	}
	if !hasMeasurement {
		return
	}

	trial, err := sim.Run(m.circuit, defaultShots, m.rng)
	if err != nil {
		r.err = err
		return
	}
	r.shots = defaultShots
	r.counts = map[string]int{}
	for key, rows := range trial.Measurements {
		for _, bits := range rows {
			label := key + "="
			for _, b := range bits {
				label += fmt.Sprintf("%d", b)
			}
			r.counts[label]++
		}
	}
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		qasmW := max(msg.Width/3-6, 20)
		m.qasmEditor.SetWidth(qasmW)
		editorH := max(msg.Height/2-8, 4)
		m.qasmEditor.SetHeight(editorH)

	case tea.KeyMsg:
		key := msg.String()
		m.statusMsg = ""

		if key == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusCircuit:
			switch key {
			case "q":
				return m, tea.Quit
			case "tab":
				m.focus = focusQASM
				m.qasmEditor.Focus()
			case "ctrl+r":
				m.circuit = &Circuit{NumQubits: m.circuit.NumQubits}
				m.cursorStep = 0
				m.syncFromCircuit()
			case "ctrl+s":
				qasm := m.circuit.ToQASM()
				if err := os.WriteFile("circuit.qasm", []byte(qasm), 0644); err != nil {
					m.statusMsg = fmt.Sprintf("Save error: %v", err)
				} else {
					m.statusMsg = "Saved circuit.qasm"
				}
			case "r":
				m.runCircuit()
			case "up", "k":
				if m.cursorQubit > 0 {
					m.cursorQubit--
				}
			case "down", "j":
				if m.cursorQubit < m.circuit.NumQubits-1 {
					m.cursorQubit++
				}
			case "left", "h":
				if m.cursorStep > 0 {
					m.cursorStep--
				}
			case "right", "l":
				m.cursorStep++
			case "+", "=":
				m.circuit.NumQubits++
				m.syncFromCircuit()
			case "-":
				if m.circuit.NumQubits > 1 {
					m.circuit.NumQubits--
					m.cursorQubit = min(m.cursorQubit, m.circuit.NumQubits-1)
					m.circuit.RemoveQubit(m.circuit.NumQubits)
					m.syncFromCircuit()
				}
			case "a":
				m.focus = focusMenu
				m.menuCat = 0
				m.menuItem = 0
			case "backspace", "delete":
				m.circuit.RemoveAt(m.cursorStep, m.cursorQubit)
				m.syncFromCircuit()
			}

		case focusMenu:
			switch key {
			case "esc":
				m.focus = focusCircuit
			case "up", "k":
				if m.menuItem > 0 {
					m.menuItem--
				}
			case "down", "j":
				cat := gateMenu[m.menuCat]
				if m.menuItem < len(cat.items)-1 {
					m.menuItem++
				}
			case "left", "h":
				if m.menuCat > 0 {
					m.menuCat--
					m.menuItem = 0
				}
			case "right", "l":
				if m.menuCat < len(gateMenu)-1 {
					m.menuCat++
					m.menuItem = 0
				}
			case "enter":
				item := gateMenu[m.menuCat].items[m.menuItem]
				m.pendingKind = item.kind

				if item.needsTarget {
					if m.circuit.NumQubits < 2 {
						break
					}
					m.focus = focusSelectTarget
					m.targetQubit = m.cursorQubit + 1
					if m.targetQubit >= m.circuit.NumQubits {
						m.targetQubit = m.cursorQubit - 1
					}
				} else {
					if m.placeGate(item.kind, -1) {
						m.focus = focusCircuit
					}
				}
			}

		case focusSelectTarget:
			switch key {
			case "esc":
				m.focus = focusCircuit
			case "up", "k":
				for next := m.targetQubit - 1; next >= 0; next-- {
					if next != m.cursorQubit {
						m.targetQubit = next
						break
					}
				}
			case "down", "j":
				for next := m.targetQubit + 1; next < m.circuit.NumQubits; next++ {
					if next != m.cursorQubit {
						m.targetQubit = next
						break
					}
				}
			case "enter":
				if m.placeGate(m.pendingKind, m.targetQubit) {
					m.focus = focusCircuit
				}
			}

		case focusQASM:
			switch key {
			case "tab":
				m.focus = focusCircuit
				m.qasmEditor.Blur()
			default:
				var cmd tea.Cmd
				m.qasmEditor, cmd = m.qasmEditor.Update(msg)
				cmds = append(cmds, cmd)
				m.parseQASMInput()
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sideWidth := m.width / 3
	circuitWidth := m.width - sideWidth - 4
	controlsHeight := 6
	mainHeight := max(m.height-controlsHeight-2, 6)
	qasmHeight := mainHeight / 2
	resultsHeight := mainHeight - qasmHeight - 2

	circuitPanel := m.renderCircuitPanel(circuitWidth, mainHeight)
	qasmPanel := m.renderQASMPanel(sideWidth, qasmHeight)
	resultsPanel := m.renderResultsPanel(sideWidth, resultsHeight)
	controlsPanel := m.renderControlsPanel(m.width-4, controlsHeight-2)

	sideColumn := lipgloss.JoinVertical(lipgloss.Left, qasmPanel, resultsPanel)
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, circuitPanel, sideColumn)
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, controlsPanel)

	if m.focus == focusMenu {
		frame = overlayAt(frame, m.renderMenu(), 2, 2)
	}

	return frame
}
