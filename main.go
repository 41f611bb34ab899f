// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/beevik/sim6502/host"
	"github.com/beevik/sim6502/remote"
	"github.com/beevik/sim6502/translate"
	"github.com/beevik/term"
)

var (
	assemble   string
	remoteAddr string
	runCycles  int
)

func init() {
	flag.StringVar(&assemble, "a", "", "assemble file")
	flag.StringVar(&remoteAddr, "remote", "", "serve the CPU over WebSocket on `address`")
	flag.IntVar(&runCycles, "cycles", host.DefaultRunCycles, "default cycle budget of the run command")
	flag.CommandLine.Usage = func() {
		fmt.Println("Usage: sim6502 [script] ..\nOptions:")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	translate.Detect()

	h := host.New()
	if err := h.SetRunCycles(runCycles); err != nil {
		exitOnError(err)
	}

	// Do command-line assemble if requested.
	if assemble != "" {
		err := h.AssembleFile(assemble)
		if err != nil {
			exitOnError(err)
		}
		os.Exit(0)
	}

	// Run commands contained in command-line files.
	args := flag.Args()
	for _, filename := range args {
		file, err := os.Open(filename)
		if err != nil {
			exitOnError(err)
		}
		err = h.RunCommands(file, os.Stdout, false)
		file.Close()
		if errors.Is(err, host.ErrQuit) {
			os.Exit(0)
		}
		if err != nil {
			exitOnError(err)
		}
	}

	// Serve the scripted machine to remote clients if requested.
	if remoteAddr != "" {
		s := remote.NewServer(h.CPU())
		exitOnError(s.ListenAndServe(remoteAddr))
	}

	// Break on Ctrl-C.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go handleInterrupt(h, c)

	// Run commands interactively, or from piped input.
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	err := h.RunCommands(os.Stdin, os.Stdout, interactive)
	if err != nil && !errors.Is(err, host.ErrQuit) {
		exitOnError(err)
	}
}

func handleInterrupt(h *host.Host, c chan os.Signal) {
	for {
		<-c
		h.Break()
	}
}

func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	os.Exit(1)
}
