package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/create-importmap/pkg/errors"
	"github.com/matzehuels/create-importmap/pkg/pipeline"
)

var (
	colorCyan   = lipgloss.Color("36")  // Teal - values
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - paths
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleDim         = lipgloss.NewStyle().Foreground(colorDim)
	styleValue       = lipgloss.NewStyle().Foreground(colorWhite)
	styleNumber      = lipgloss.NewStyle().Foreground(colorCyan)
	styleCode        = lipgloss.NewStyle().Foreground(colorDim).Italic(true)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconArrow   = "→"
)

// PrintError writes a one-line diagnostic for err to w.
func PrintError(w io.Writer, err error) {
	line := styleIconError.Render(iconError) + " " + errors.UserMessage(err)
	if code := errors.GetCode(err); code != "" {
		line += " " + styleCode.Render("("+string(code)+")")
	}
	fmt.Fprintln(w, line)
}

// printSummary writes the written file and its entry counts to w.
func printSummary(w io.Writer, r *pipeline.Result) {
	kind := "JSON"
	if r.JS {
		kind = "script"
	}
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" Wrote import map "+kind)
	fmt.Fprintln(w, "  "+styleDim.Render(iconArrow)+" "+styleValue.Render(r.OutputPath))

	parts := []string{
		styleNumber.Render(fmt.Sprint(r.Imports)) + styleDim.Render(" imports"),
		styleNumber.Render(fmt.Sprint(r.Scopes)) + styleDim.Render(" scopes"),
		styleNumber.Render(fmt.Sprint(r.Packages)) + styleDim.Render(" packages"),
		styleDim.Render(r.Stats.Total().Round(time.Millisecond).String()),
	}
	fmt.Fprintln(w, "  "+strings.Join(parts, styleDim.Render(" · ")))

	for _, name := range r.Missing {
		fmt.Fprintln(w, "  "+styleIconWarning.Render(iconWarning)+" "+styleDim.Render("not installed: ")+name)
	}
}
