package main

import (
	"fmt"
	"sort"
	"strings"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given width.
func padCenter(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	total := width - len(s)
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// controlSymbol is the wire symbol drawn on the control qubit.
const controlSymbol = "●"

// targetSymbol returns the wire symbol for the target qubit of a two-qubit
// gate.
func targetSymbol(kind GateKind) string {
	if kind == GateCZ {
		return "●"
	}
	return "⊕"
}

// cellInfo describes what occupies one (step, qubit) cell of the grid.
type cellInfo struct {
	op          *Operation
	isControl   bool
	isTarget    bool
	passThrough bool // a two-qubit connector crosses this wire
	vertAbove   bool
	vertBelow   bool
}

// getCellInfo computes the cell contents for rendering.
func (c *Circuit) getCellInfo(step, qubit int) cellInfo {
	var info cellInfo
	if step >= len(c.Moments) {
		return info
	}
	for i := range c.Moments[step] {
		op := &c.Moments[step][i]
		if op.Kind.NumQubits() == 2 {
			ctrl, tgt := op.Qubits[0], op.Qubits[1]
			lo, hi := min(ctrl, tgt), max(ctrl, tgt)
			switch {
			case qubit == ctrl:
				info.op = op
				info.isControl = true
				info.vertAbove = qubit > lo
				info.vertBelow = qubit < hi
				return info
			case qubit == tgt:
				info.op = op
				info.isTarget = true
				info.vertAbove = qubit > lo
				info.vertBelow = qubit < hi
				return info
			case qubit > lo && qubit < hi:
				info.passThrough = true
				info.vertAbove = true
				info.vertBelow = true
				return info
			}
			continue
		}
		for _, q := range op.Qubits {
			if q == qubit {
				info.op = op
				return info
			}
		}
	}
	return info
}

// ──────────────────────────── Cell rendering ────────────────────────────

type cellHighlight int

const (
	hlNone cellHighlight = iota
	hlCursor
	hlTargetSelect
)

// renderCell returns 3 lines (top, mid, bot) for a single cell. Each line is
// exactly cellW visual characters wide.
func renderCell(info cellInfo, hl cellHighlight) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)

	// ── Highlighted cell (cursor or target selection) ──
	if hl == hlCursor || hl == hlTargetSelect {
		bdr := cursorBoxStyle
		if hl == hlTargetSelect {
			bdr = targetSelectStyle
		}
		innerW := cellW - 2
		dashL := (innerW - 1) / 2
		dashR := innerW - dashL - 1

		top = bdr.Render("╔" + strings.Repeat("═", innerW) + "╗")
		bot = bdr.Render("╚" + strings.Repeat("═", innerW) + "╝")

		switch {
		case info.op != nil && info.isControl:
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + gateStyle.Render(controlSymbol) + strings.Repeat("─", dashR) + bdr.Render("║")
		case info.op != nil && info.isTarget:
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + gateStyle.Render(targetSymbol(info.op.Kind)) + strings.Repeat("─", dashR) + bdr.Render("║")
		case info.op != nil:
			name := padCenter(info.op.Kind.String(), gateNameW)
			mid = bdr.Render("║") + "─┤" + gateStyle.Render(name) + "├─" + bdr.Render("║")
		case info.passThrough:
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR) + bdr.Render("║")
		default:
			mid = bdr.Render("║") + strings.Repeat("─", innerW) + bdr.Render("║")
		}
		return
	}

	// ── Normal (non-highlighted) cells ──
	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1

	switch {
	case info.op != nil && (info.isControl || info.isTarget):
		sym := controlSymbol
		if info.isTarget {
			sym = targetSymbol(info.op.Kind)
		}
		top = emptyRow
		if info.vertAbove {
			top = vertRow
		}
		mid = strings.Repeat("─", dashL) + gateStyle.Render(sym) + strings.Repeat("─", dashR)
		bot = emptyRow
		if info.vertBelow {
			bot = vertRow
		}

	case info.op != nil:
		margin := (cellW - gateBoxW) / 2
		rightMargin := cellW - margin - gateBoxW
		name := padCenter(info.op.Kind.String(), gateNameW)
		top = strings.Repeat(" ", margin) + gateStyle.Render("┌"+strings.Repeat("─", gateNameW)+"┐") + strings.Repeat(" ", rightMargin)
		mid = strings.Repeat("─", margin) + gateStyle.Render("┤"+name+"├") + strings.Repeat("─", rightMargin)
		bot = strings.Repeat(" ", margin) + gateStyle.Render("└"+strings.Repeat("─", gateNameW)+"┘") + strings.Repeat(" ", rightMargin)

	case info.passThrough:
		top = vertRow
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)
		bot = vertRow

	default:
		top = emptyRow
		mid = strings.Repeat("─", cellW)
		bot = emptyRow
	}
	return
}

// ──────────────────────────── Panel rendering ────────────────────────────

// renderCircuitPanel renders the circuit grid panel.
func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Clifford Circuit"))
	sb.WriteString("\n\n")

	availWidth := width - labelVisualW - 4
	maxSteps := max(availWidth/cellW, 1)

	startStep := 0
	if m.cursorStep >= maxSteps {
		startStep = m.cursorStep - maxSteps + 1
	}

	if startStep > 0 {
		fmt.Fprintf(&sb, "  ◀ showing steps %d–%d\n", startStep, startStep+maxSteps-1)
	}

	// Step number header
	header := strings.Repeat(" ", labelVisualW)
	for step := startStep; step < startStep+maxSteps; step++ {
		header += dimStyle.Render(padCenter(fmt.Sprintf("%d", step), cellW))
	}
	sb.WriteString(header + "\n")

	// Render each qubit as 3 lines
	for qubit := 0; qubit < m.circuit.NumQubits; qubit++ {
		topLine := strings.Repeat(" ", labelVisualW)
		label := fmt.Sprintf("q[%d]", qubit)
		midLine := qubitLabelStyle.Render(fmt.Sprintf("%-5s", label)) + "──"
		botLine := strings.Repeat(" ", labelVisualW)

		for step := startStep; step < startStep+maxSteps; step++ {
			info := m.circuit.getCellInfo(step, qubit)

			hl := hlNone
			if step == m.cursorStep && qubit == m.cursorQubit &&
				(m.focus == focusCircuit || m.focus == focusSelectTarget || m.focus == focusMenu) {
				hl = hlCursor
			} else if step == m.cursorStep && qubit == m.targetQubit && m.focus == focusSelectTarget {
				hl = hlTargetSelect
			}

			top, mid, bot := renderCell(info, hl)
			topLine += top
			midLine += mid
			botLine += bot
		}

		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}

	// Status line
	if m.focus == focusSelectTarget {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "  %s", activeGateStyle.Render(m.pendingKind.String()))
		sb.WriteString("  Select target qubit: ")
		fmt.Fprintf(&sb, "%s", targetSelectStyle.Render(fmt.Sprintf("q[%d]", m.targetQubit)))
		sb.WriteString(dimStyle.Render("   ↑↓ Move  Enter Confirm  Esc Cancel"))
	} else {
		fmt.Fprintf(&sb, "\n  Position: Step %d, Qubit %d", m.cursorStep, m.cursorQubit)
		if m.statusMsg != "" {
			fmt.Fprintf(&sb, "  │  %s", activeGateStyle.Render(m.statusMsg))
		}
	}

	return circuitStyle.Width(width).Height(height).Render(sb.String())
}

// renderQASMPanel renders the QASM editor panel.
func (m Model) renderQASMPanel(width, height int) string {
	var sb strings.Builder

	title := "QASM Editor"
	if m.focus == focusQASM {
		title += " [ACTIVE]"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")
	sb.WriteString(m.qasmEditor.View())

	return qasmStyle.Width(width).Height(height).Render(sb.String())
}

// renderResultsPanel renders stabilizer generators, amplitudes and sampled
// counts from the last run.
func (m Model) renderResultsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Simulation"))
	sb.WriteString("\n")

	r := m.results
	if r == nil {
		sb.WriteString(dimStyle.Render("press r to run"))
		return resultsStyle.Width(width).Height(height).Render(sb.String())
	}
	if r.err != nil {
		sb.WriteString(activeGateStyle.Render(fmt.Sprintf("error: %v", r.err)))
		return resultsStyle.Width(width).Height(height).Render(sb.String())
	}

	sb.WriteString(dimStyle.Render("stabilizers") + "\n")
	for _, stab := range r.stabilizers {
		sb.WriteString("  " + gateStyle.Render(stab) + "\n")
	}

	sb.WriteString(dimStyle.Render("destabilizers") + "\n")
	for _, destab := range r.destabilizers {
		sb.WriteString("  " + destab + "\n")
	}

	if r.wavefunction != "" {
		sb.WriteString(dimStyle.Render("state") + "\n")
		sb.WriteString("  " + r.wavefunction + "\n")
	}

	if len(r.probs) > 0 {
		sb.WriteString(dimStyle.Render("P(1) per qubit") + "\n")
		for q, p := range r.probs {
			fmt.Fprintf(&sb, "  q[%d] %.3f\n", q, p.Prob1)
		}
	}

	if len(r.counts) > 0 {
		fmt.Fprintf(&sb, "%s\n", dimStyle.Render(fmt.Sprintf("counts (%d shots)", r.shots)))
		keys := make([]string, 0, len(r.counts))
		for k := range r.counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "  %s %d\n", k, r.counts[k])
		}
	}

	return resultsStyle.Width(width).Height(height).Render(sb.String())
}

// renderControlsPanel renders the bottom help/controls bar.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(activeGateStyle.Render("Navigate: "))
	sb.WriteString("↑↓/jk Move qubit  ←→/hl Move step  +/- Qubits")
	sb.WriteString("    ")
	sb.WriteString(activeGateStyle.Render("a"))
	sb.WriteString(" Add gate  ")
	sb.WriteString(activeGateStyle.Render("r"))
	sb.WriteString(" Run\n")

	sb.WriteString(activeGateStyle.Render("Actions:  "))
	sb.WriteString("Tab Switch focus  Bksp Delete  ^R Reset  ^S Save  q/^C Quit")

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}

// ──────────────────────────── Overlay helpers ────────────────────────────

// overlayAt composites the overlay string on top of the background at
// position (x, y). It handles ANSI escape sequences by tracking visible
// column positions.
func overlayAt(bg, overlay string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	ovLines := strings.Split(overlay, "\n")

	for i, ovLine := range ovLines {
		bgIdx := y + i
		if bgIdx < 0 || bgIdx >= len(bgLines) {
			continue
		}
		bgLines[bgIdx] = spliceLineAt(bgLines[bgIdx], ovLine, x)
	}
	return strings.Join(bgLines, "\n")
}

// spliceLineAt replaces visible columns starting at position x in bgLine with
// overlay content, preserving ANSI escape sequences in the background line.
func spliceLineAt(bgLine, overlay string, x int) string {
	runes := []rune(bgLine)
	ovWidth := visibleLen(overlay)

	var prefix strings.Builder
	var suffix strings.Builder

	col := 0
	i := 0
	inEsc := false

	// Collect prefix: everything up to visible column x
	for i < len(runes) && col < x {
		if runes[i] == '\x1b' {
			inEsc = true
			for i < len(runes) {
				prefix.WriteRune(runes[i])
				if inEsc && runes[i] != '\x1b' && runes[i] != '[' && ((runes[i] >= 'A' && runes[i] <= 'Z') || (runes[i] >= 'a' && runes[i] <= 'z')) {
					inEsc = false
					i++
					break
				}
				i++
			}
		} else {
			prefix.WriteRune(runes[i])
			col++
			i++
		}
	}

	// Pad prefix if bg line is shorter than x
	for col < x {
		prefix.WriteRune(' ')
		col++
	}

	// Skip over ovWidth visible columns in the background
	skipped := 0
	for i < len(runes) && skipped < ovWidth {
		if runes[i] == '\x1b' {
			for i < len(runes) {
				i++
				if i > 0 && runes[i-1] != '\x1b' && runes[i-1] != '[' && ((runes[i-1] >= 'A' && runes[i-1] <= 'Z') || (runes[i-1] >= 'a' && runes[i-1] <= 'z')) {
					break
				}
			}
		} else {
			skipped++
			i++
		}
	}

	// Collect suffix: rest of the background line
	for i < len(runes) {
		suffix.WriteRune(runes[i])
		i++
	}

	return prefix.String() + overlay + suffix.String()
}

// visibleLen returns the number of visible (non-ANSI-escape) characters in a
// string.
func visibleLen(s string) int {
	n := 0
	inEsc := false
	for _, r := range s {
		if r == '\x1b' {
			inEsc = true
			continue
		}
		if inEsc {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEsc = false
			}
			continue
		}
		n++
	}
	return n
}
