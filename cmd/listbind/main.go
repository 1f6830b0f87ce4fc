// Command listbind replays scripted list sessions against the binding adapter.
package main

import (
	"os"

	"github.com/go-drift/listbind/cmd/listbind/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
