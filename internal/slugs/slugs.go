// Package slugs derives stable identifiers for saved screens.
package slugs

import (
	"strings"

	goslug "github.com/gosimple/slug"
)

// ScreenID converts a screen title to its identifier, e.g.
// "Quality Large Caps" -> "quality-large-caps".
//
// Titles made only of symbols fall back to a lower-cased, dash-joined form.
func ScreenID(title string) string {
	title = strings.TrimSpace(title)
	slugged := goslug.Make(title)
	if slugged == "" {
		slugged = strings.ToLower(strings.Join(strings.Fields(title), "-"))
	}
	return slugged
}

// Normalize prepares a user-supplied identifier for lookup. Titles and IDs
// are both accepted, so "Quality Large Caps" finds "quality-large-caps".
func Normalize(idOrTitle string) string {
	s := strings.TrimSpace(idOrTitle)
	if s == strings.ToLower(s) && !strings.ContainsAny(s, " \t") {
		return s
	}
	return ScreenID(s)
}
