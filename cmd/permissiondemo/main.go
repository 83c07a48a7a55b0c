// Command permissiondemo replays the permission rationale screen in a
// terminal against a simulated Android permission flow.
package main

import (
	"os"

	"github.com/go-drift/permissiondemo/cmd/permissiondemo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
