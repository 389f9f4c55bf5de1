// The main package for the textnews executable.
package main

import (
	"github.com/awfulsec/textnews/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
