// Command epinet runs spatial SEIR epidemics on synthetic populations.
package main

import (
	"github.com/sarchlab/epinet/cmd/epinet/cmd"
	"github.com/tebeka/atexit"
)

func main() {
	if err := cmd.Execute(); err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
