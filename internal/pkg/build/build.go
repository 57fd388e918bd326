// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

// package build contains build information for the logsleuth module.
package build

import (
	_ "embed"
	"strings"
)

//go:embed version.txt
var version string

// Version of the module, trimmed of surrounding white space.
var Version = strings.TrimSpace(version)
