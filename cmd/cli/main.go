package main

import (
	"flag"
	"fmt"
	"os"

	"bayesclassifier/internal/commander"
)

func main() {
	interactive := flag.Bool("i", true, "Interactive mode")
	flag.Parse()

	if !*interactive {
		fmt.Println("Only interactive mode is supported; run without -i=false")
		flag.PrintDefaults()
		os.Exit(1)
	}

	commander.NewCommander().Start()
}
