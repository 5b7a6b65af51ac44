// Command hpscheck scores a load from the command line with the same engine
// the service uses.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/MikeSquared-Agency/Hitchyard/internal/shipment"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var verr *shipment.ValidationError
		if !errors.As(err, &verr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
