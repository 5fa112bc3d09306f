// Package output provides CLI output formatting utilities
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/Nicholas-Eugene/cluster-web-frontend/format"
)

// ColorMode represents color output mode
type ColorMode int

const (
	// ColorAuto enables colors based on environment (default)
	ColorAuto ColorMode = iota
	// ColorAlways forces colors on
	ColorAlways
	// ColorNever forces colors off
	ColorNever
)

// ParseColorMode parses auto, always or never
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("invalid color mode %q: must be auto, always, or never", s)
	}
}

// ResolveColors decides whether to color output. ColorAuto honours NO_COLOR,
// TERM=dumb and the output.colors setting.
func ResolveColors(mode ColorMode, configColors bool) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false
		}
		if os.Getenv("TERM") == "dumb" {
			return false
		}
		return configColors
	}
}

// Printer writes status messages and report sections
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
	quiet     bool
}

// NewPrinter creates a printer. Nil writers default to stdout and stderr.
func NewPrinter(out, errOut io.Writer, useColors, quiet bool) *Printer {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &Printer{out: out, err: errOut, useColors: useColors, quiet: quiet}
}

// Out returns the writer used for regular output
func (p *Printer) Out() io.Writer {
	return p.out
}

// Colors reports whether output is colored
func (p *Printer) Colors() bool {
	return p.useColors
}

// IsQuiet returns whether the printer is in quiet mode
func (p *Printer) IsQuiet() bool {
	return p.quiet
}

// Info prints an informational message
func (p *Printer) Info(msg string, args ...any) {
	if p.quiet {
		return
	}
	p.line(p.out, color.FgCyan, "", "", msg, args...)
}

// Success prints a success message
func (p *Printer) Success(msg string, args ...any) {
	if p.quiet {
		return
	}
	p.line(p.out, color.FgGreen, "✓ ", "[OK] ", msg, args...)
}

// Warning prints a warning message
func (p *Printer) Warning(msg string, args ...any) {
	if p.quiet {
		return
	}
	p.line(p.err, color.FgYellow, "⚠ ", "[WARN] ", msg, args...)
}

// Error prints an error message, even in quiet mode
func (p *Printer) Error(msg string, args ...any) {
	p.line(p.err, color.FgRed, "✗ ", "[ERROR] ", msg, args...)
}

// Print prints a plain message
func (p *Printer) Print(msg string, args ...any) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, msg+"\n", args...)
}

func (p *Printer) line(w io.Writer, attr color.Attribute, colorPrefix, plainPrefix, msg string, args ...any) {
	if p.useColors {
		color.New(attr).Fprintf(w, colorPrefix+msg+"\n", args...)
		return
	}
	fmt.Fprintf(w, plainPrefix+msg+"\n", args...)
}

// Header prints a section header
func (p *Printer) Header(title string) {
	if p.quiet {
		return
	}
	if p.useColors {
		color.New(color.FgWhite, color.Bold).Fprintf(p.out, "\n%s\n", title)
		color.New(color.FgWhite).Fprintf(p.out, "%s\n", strings.Repeat("─", len([]rune(title))))
		return
	}
	fmt.Fprintf(p.out, "\n%s\n%s\n", title, strings.Repeat("-", len([]rune(title))))
}

// QualityBadge renders an evaluation grade
func (p *Printer) QualityBadge(q format.Quality) string {
	if !p.useColors {
		return "[" + string(q) + "]"
	}
	switch q {
	case format.QualityExcellent:
		return color.GreenString(string(q))
	case format.QualityGood:
		return color.CyanString(string(q))
	case format.QualityFair:
		return color.YellowString(string(q))
	case format.QualityPoor:
		return color.RedString(string(q))
	default:
		return color.New(color.Faint).Sprint(string(q))
	}
}

// Swatch renders a cluster palette color. Without colors the hex code is shown.
func (p *Printer) Swatch(hex string) string {
	if !p.useColors {
		return hex
	}
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return hex
	}
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm●\x1b[0m", r, g, b)
}

// Bold returns text in bold
func (p *Printer) Bold(text string) string {
	if p.useColors {
		return color.New(color.Bold).Sprint(text)
	}
	return text
}
