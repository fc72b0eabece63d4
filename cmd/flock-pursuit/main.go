package main

import (
	"fmt"
	"os"

	// Import to register the simulation
	_ "github.com/Bra-moth/UAV-Path-Planning/cmd/flock-pursuit/simulation"
)

func main() {
	fmt.Println("Flock Pursuit simulation registered. Use 'flocksim run' to execute.")
	os.Exit(0)
}
