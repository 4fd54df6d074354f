package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	styleInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	styleTable   = lipgloss.NewStyle().Bold(true)
)

// colorEnabled reports whether stdout is a terminal that can take ANSI
// styling.
func colorEnabled() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func render(style lipgloss.Style, s string) string {
	if !colorEnabled() {
		return s
	}
	return style.Render(s)
}

func printSuccess(format string, v ...any) {
	fmt.Println(render(styleSuccess, fmt.Sprintf(format, v...)))
}

func printError(format string, v ...any) {
	fmt.Fprintln(os.Stderr, render(styleError, fmt.Sprintf(format, v...)))
}

func printWarning(format string, v ...any) {
	fmt.Println(render(styleWarning, fmt.Sprintf(format, v...)))
}

func printInfo(format string, v ...any) {
	fmt.Println(render(styleInfo, fmt.Sprintf(format, v...)))
}

// printOutcome renders one table's reconciliation outcome. Destructive
// outcomes are highlighted.
func printOutcome(table, outcome string, destructive bool) {
	name := render(styleTable, table)
	if destructive {
		fmt.Printf("  %s: %s\n", name, render(styleWarning, outcome))
		return
	}
	fmt.Printf("  %s: %s\n", name, outcome)
}
