package sprintreader

import _ "embed"

// Version exposes the version of the tool, sourced from the VERSION file.
//
//go:embed VERSION
var Version string
