// cmd/valet/main.go
package main

import (
	cmd "github.com/tmcfarlane/valet/internal/commands"
)

// main starts the valet CLI application by delegating to the
// cobra root command defined in the commands package.
func main() {
	cmd.Execute()
}
