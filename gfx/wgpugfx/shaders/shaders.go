package shaders

import (
	_ "embed"
)

// BasicWGSL draws flat colored geometry with a model and view-projection
// matrix taken from one dynamic uniform block.
//
//go:embed basic.wgsl
var BasicWGSL string
