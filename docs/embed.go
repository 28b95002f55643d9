// Package docs bundles the long-form guides shipped with the kba binary.
package docs

import "embed"

// FS contains the Markdown guides under guide/.
//
//go:embed guide
var FS embed.FS
