package main

import (
	"fmt"
	"strings"
)

// menuItem represents a single gate choice in the menu.
type menuItem struct {
	name        string
	kind        GateKind
	symbol      string
	needsTarget bool
}

// menuCategory groups related menu items under a tab.
type menuCategory struct {
	name  string
	items []menuItem
}

// gateMenu defines the gate picker categories and items. Only the Clifford
// set is offered; the simulator rejects everything else anyway.
var gateMenu = []menuCategory{
	{
		name: "Single Qubit",
		items: []menuItem{
			{name: "Hadamard", kind: GateH, symbol: "H"},
			{name: "Pauli-X (NOT)", kind: GateX, symbol: "X"},
			{name: "Pauli-Y", kind: GateY, symbol: "Y"},
			{name: "Pauli-Z", kind: GateZ, symbol: "Z"},
			{name: "Phase (S)", kind: GateS, symbol: "S"},
		},
	},
	{
		name: "Two Qubit",
		items: []menuItem{
			{name: "CNOT", kind: GateCNOT, symbol: "●─⊕", needsTarget: true},
			{name: "Controlled-Z", kind: GateCZ, symbol: "●─●", needsTarget: true},
		},
	},
	{
		name: "Measure",
		items: []menuItem{
			{name: "Measure (Z)", kind: GateMeasure, symbol: "M"},
		},
	},
}

// renderMenu renders the floating gate-picker popup.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Add Gate"))
	sb.WriteString("\n")

	// Category tabs
	for i, cat := range gateMenu {
		name := " " + cat.name + " "
		if i == m.menuCat {
			sb.WriteString(activeGateStyle.Render(name))
		} else {
			sb.WriteString(dimStyle.Render(name))
		}
		if i < len(gateMenu)-1 {
			sb.WriteString(dimStyle.Render("│"))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 40)))
	sb.WriteString("\n")

	// Items in the selected category
	cat := gateMenu[m.menuCat]
	for i, item := range cat.items {
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("%-16s", item.name)))
			sb.WriteString(gateStyle.Render(item.symbol))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-16s", item.name)))
			sb.WriteString(dimStyle.Render(item.symbol))
		}
		if item.needsTarget {
			sb.WriteString(dimStyle.Render(" →target"))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ←→ Cat  ⏎ Ok  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}
