package docs

import "embed"

// FS contains the long-form Markdown guides bundled with the screener binary.
//
//go:embed guide
var FS embed.FS
