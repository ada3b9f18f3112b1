// Command vybium-chains searches for minimal addition-subtraction chains and
// prints, stores and exports the results.
package main

import (
	"os"
)

func main() {
	// cobra already printed the error and usage
	if newRootCmd().Execute() != nil {
		os.Exit(1)
	}
}
