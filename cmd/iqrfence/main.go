// main is the entry point for the iqrfence CLI.
package main

import (
	"github.com/fencelab/iqrfence/cmd"
	"github.com/fencelab/iqrfence/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Command failed", err)
	}
}
