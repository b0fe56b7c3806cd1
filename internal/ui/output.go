package ui

import "fmt"

// Status markers prefixed to one-line command results.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
)

// Successf formats a result line marked as done.
func Successf(format string, args ...interface{}) string {
	return SymbolSuccess + " " + fmt.Sprintf(format, args...)
}

// Errorf formats a result line marked as failed, such as a stock failing a check.
func Errorf(format string, args ...interface{}) string {
	return SymbolError + " " + fmt.Sprintf(format, args...)
}

// Warning marks a non-fatal warning.
func Warning(msg string) string {
	return SymbolWarning + " " + msg
}

// Header returns a styled section header
func Header(msg string) string {
	return Bold.Render(msg)
}

// Symbol returns an accent-styled ticker symbol
func Symbol(symbol string) string {
	return AccentBold.Render(symbol)
}

// ScreenID returns an accent-styled screen id
func ScreenID(id string) string {
	return Accent.Render(id)
}

// Hint returns muted hint text
func Hint(msg string) string {
	return Muted.Render(msg)
}

// Plural returns "1 stock" or "3 stocks".
func Plural(n int, singular string) string {
	return fmt.Sprintf("%d %s", n, pluralize(singular, n))
}

// pluralize returns singular or plural form based on count
func pluralize(singular string, count int) string {
	if count == 1 {
		return singular
	}
	return singular + "s"
}
