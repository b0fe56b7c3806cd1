package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/term"
)

const (
	// DefaultTermWidth is used when stdout is not a terminal and COLUMNS is unset.
	DefaultTermWidth = 120
	// MinTermWidth keeps the symbol and name columns readable in narrow panes.
	MinTermWidth = 40
)

// DisplayContext carries the width that results tables and rendered
// markdown are laid out against.
type DisplayContext struct {
	TermWidth int
	IsTTY     bool
}

// NewDisplayContext measures stdout. Piped output falls back to $COLUMNS,
// then DefaultTermWidth.
func NewDisplayContext() *DisplayContext {
	fd := os.Stdout.Fd()
	isTTY := term.IsTerminal(fd)

	width := 0
	if isTTY {
		if w, _, err := term.GetSize(fd); err == nil {
			width = w
		}
	}
	if width <= 0 {
		width = columnsFromEnv()
	}
	return NewDisplayContextWithWidth(width).withTTY(isTTY)
}

// NewDisplayContextWithWidth creates a DisplayContext with a fixed width.
func NewDisplayContextWithWidth(width int) *DisplayContext {
	if width <= 0 {
		width = DefaultTermWidth
	}
	if width < MinTermWidth {
		width = MinTermWidth
	}
	return &DisplayContext{TermWidth: width, IsTTY: true}
}

func (d *DisplayContext) withTTY(isTTY bool) *DisplayContext {
	d.IsTTY = isTTY
	return d
}

func columnsFromEnv() int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("COLUMNS")))
	if err != nil || n <= 0 {
		return DefaultTermWidth
	}
	return n
}
