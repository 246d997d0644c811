package render

import _ "embed"

// DefaultTemplate renders enums, types and functions as plain Markdown.
//
//go:embed default.md.tmpl
var DefaultTemplate string
