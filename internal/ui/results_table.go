package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Alignment represents column text alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
)

// ColumnDef defines a column in a ResultsTable.
type ColumnDef struct {
	Name       string         // Header text, shown when the table renders headers
	WidthRatio float64        // Proportion of available width (0.0-1.0), 0 means fixed width
	MinWidth   int            // Minimum width in characters
	MaxWidth   int            // Maximum width (0 = no limit)
	Align      Alignment      // Text alignment
	Style      lipgloss.Style // Style to apply to cells in this column
}

// ResultRow represents a single row in the results table.
type ResultRow struct {
	Num   int      // Row number (1-indexed)
	Cells []string // Cell values for each column
}

// ResultsTable renders screen results and stock listings.
type ResultsTable struct {
	display *DisplayContext
	columns []ColumnDef
	rows    []ResultRow
	headers bool
}

// Standard column definitions shared across stock listings.
var (
	// ColNum is the row number column (fixed width, right-aligned, muted).
	ColNum = ColumnDef{
		Name:     "#",
		MinWidth: 4,
		MaxWidth: 6,
		Align:    AlignRight,
		Style:    Muted,
	}

	// ColSymbol is the ticker column.
	ColSymbol = ColumnDef{
		Name:     "symbol",
		MinWidth: 12,
		MaxWidth: 16,
		Align:    AlignLeft,
	}

	// ColName is the company name column (flexible width).
	ColName = ColumnDef{
		Name:       "name",
		WidthRatio: 1,
		MinWidth:   16,
		MaxWidth:   40,
		Align:      AlignLeft,
		Style:      Muted,
	}
)

// ValueColumn returns a right-aligned numeric column for a field.
func ValueColumn(field string) ColumnDef {
	width := len(field)
	if width < 10 {
		width = 10
	}
	return ColumnDef{
		Name:     field,
		MinWidth: width,
		MaxWidth: width,
		Align:    AlignRight,
	}
}

// StockLayout is [num, symbol, name, one column per field].
func StockLayout(fields []string) []ColumnDef {
	layout := []ColumnDef{ColNum, ColSymbol, ColName}
	for _, f := range fields {
		layout = append(layout, ValueColumn(f))
	}
	return layout
}

// ScreenLayout is used for `screens list`: [num, id, title, category]
var ScreenLayout = []ColumnDef{
	ColNum,
	{Name: "id", MinWidth: 20, MaxWidth: 32, Align: AlignLeft},
	{Name: "title", WidthRatio: 1, MinWidth: 20, MaxWidth: 60, Align: AlignLeft},
	{Name: "category", MinWidth: 10, MaxWidth: 10, Align: AlignLeft, Style: Muted},
}

// NewResultsTable creates a new ResultsTable with the given display context and column layout.
func NewResultsTable(display *DisplayContext, columns []ColumnDef) *ResultsTable {
	return &ResultsTable{
		display: display,
		columns: columns,
		rows:    make([]ResultRow, 0),
	}
}

// WithHeaders makes Render emit a header row built from column names.
func (t *ResultsTable) WithHeaders() *ResultsTable {
	t.headers = true
	return t
}

// Len returns the number of rows added so far.
func (t *ResultsTable) Len() int {
	return len(t.rows)
}

// AddRow adds a row to the table.
func (t *ResultsTable) AddRow(row ResultRow) {
	t.rows = append(t.rows, row)
}

// ColumnWidth returns the rendered width of a column, so callers can
// truncate long text (company names, titles) before adding rows.
func (t *ResultsTable) ColumnWidth(index int) int {
	widths := t.calculateWidths()
	if index >= 0 && index < len(widths) {
		return widths[index]
	}
	return 0
}

// calculateWidths computes column widths based on terminal size and column definitions.
func (t *ResultsTable) calculateWidths() []int {
	widths := make([]int, len(t.columns))

	// First pass: calculate fixed widths and total ratio
	var totalRatio float64
	var fixedWidth int
	const columnPadding = 2 // padding between columns

	for i, col := range t.columns {
		if col.WidthRatio == 0 {
			// Fixed-width column: use MinWidth or calculate from content
			widths[i] = col.MinWidth
			if col.MaxWidth > 0 && widths[i] > col.MaxWidth {
				widths[i] = col.MaxWidth
			}
			fixedWidth += widths[i]
		} else {
			totalRatio += col.WidthRatio
		}
	}

	// Calculate available space for flexible columns
	totalPadding := (len(t.columns) - 1) * columnPadding
	leftMargin := 2 // indent for aesthetic
	available := t.display.TermWidth - fixedWidth - totalPadding - leftMargin

	if available < 0 {
		available = 0
	}

	// Second pass: distribute available space by ratio
	for i, col := range t.columns {
		if col.WidthRatio > 0 {
			// Calculate proportional width
			ratio := col.WidthRatio / totalRatio
			width := int(float64(available) * ratio)

			// Apply min/max constraints
			if width < col.MinWidth {
				width = col.MinWidth
			}
			if col.MaxWidth > 0 && width > col.MaxWidth {
				width = col.MaxWidth
			}

			widths[i] = width
		}
	}

	return widths
}

// Render generates the table output as a string.
func (t *ResultsTable) Render() string {
	if len(t.rows) == 0 {
		return ""
	}

	widths := t.calculateWidths()

	// Build table data
	tableRows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		tableRow := make([]string, len(t.columns))
		tableRow[0] = FormatRowNum(row.Num, len(t.rows))
		for j := 1; j < len(t.columns); j++ {
			if j-1 < len(row.Cells) {
				tableRow[j] = row.Cells[j-1]
			}
		}
		tableRows[i] = tableRow
	}

	// Create lipgloss table with minimal border style
	tbl := table.New().
		Border(lipgloss.Border{
			Top:    "─",
			Bottom: "─",
			Left:   "",
			Right:  "",
			Middle: "─",
		}).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderRow(true).
		BorderColumn(false).
		BorderStyle(Muted).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col >= len(t.columns) {
				return lipgloss.NewStyle()
			}

			colDef := t.columns[col]
			style := colDef.Style
			if style.Value() == "" {
				style = lipgloss.NewStyle()
			}

			if row == table.HeaderRow {
				style = Bold
			}

			// Set width
			style = style.Width(widths[col])

			// Set alignment
			switch colDef.Align {
			case AlignRight:
				style = style.Align(lipgloss.Right)
			case AlignCenter:
				style = style.Align(lipgloss.Center)
			default:
				style = style.Align(lipgloss.Left)
			}

			// Add right padding except for last column
			if col < len(t.columns)-1 {
				style = style.PaddingRight(2)
			}

			return style
		}).
		Rows(tableRows...)

	if t.headers {
		names := make([]string, len(t.columns))
		for i, col := range t.columns {
			if i > 0 {
				names[i] = col.Name
			}
		}
		tbl = tbl.Headers(names...).BorderHeader(true)
	}

	return tbl.Render()
}

// TruncateWithEllipsis truncates a string to maxLen, adding ellipsis if needed.
// It tries to break at word boundaries.
func TruncateWithEllipsis(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}

	// Try to truncate at a word boundary
	truncated := s[:maxLen-3]
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > maxLen/2 {
		truncated = truncated[:lastSpace]
	}
	return truncated + "..."
}

// FormatValue renders a field value for a results cell. Missing values are "-".
func FormatValue(v float64, ok bool) string {
	if !ok {
		return "-"
	}
	out := strconv.FormatFloat(v, 'f', 2, 64)
	out = strings.TrimRight(out, "0")
	return strings.TrimSuffix(out, ".")
}

// FormatRowNum formats a row number with consistent width.
func FormatRowNum(num, maxNum int) string {
	width := len(fmt.Sprintf("%d", maxNum))
	if width < 2 {
		width = 2
	}
	return fmt.Sprintf("%*d", width, num)
}
