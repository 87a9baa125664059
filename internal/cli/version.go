package cli

import (
	"fmt"
	"io"
)

const AppName = "dvbtext"

var appVersion = "dev"

func SetVersion(version string) {
	if version != "" {
		appVersion = version
	}
}

func FormatVersion(version string) string {
	if version == "" || version == "dev" {
		return "dev build"
	}
	return "v" + version
}

func Version(stdout io.Writer) {
	fmt.Fprintf(stdout, "%s, %s\n", AppName, FormatVersion(appVersion))
}
