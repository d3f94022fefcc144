// Package docs bundles the long-form Markdown guides shipped with the
// fmql binary.
package docs

import "embed"

// FS contains the guide topics served by `fmql docs`.
//
//go:embed guide
var FS embed.FS
