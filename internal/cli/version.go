package cli

import (
	"fmt"
	"io"
)

var appVersion = "dev"

// SetVersion records the version reported by Version. Empty strings are
// ignored so a build without ldflags keeps the "dev" default.
func SetVersion(version string) {
	if version != "" {
		appVersion = version
	}
}

// Version prints the tool name and version.
func Version(stdout io.Writer) {
	fmt.Fprintf(stdout, "esdots, version %s\n", appVersion)
}
