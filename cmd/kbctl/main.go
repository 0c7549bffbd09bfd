// Command kbctl loads planning problems into a contingent knowledge base,
// reports rejected items and goal satisfaction, and archives snapshots.
package main

import (
	"os"

	"github.com/mesh-intelligence/contingent/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
