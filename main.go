// The main package for the patroll-scraper executable.
package main

import (
	"github.com/unifiedcrawl/patroll-scraper/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
