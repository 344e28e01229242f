// Command settingsd serves the settings page and edits the options record
// from a terminal.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		os.Exit(1)
	}
}
