// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"maps"
	"os"
	"slices"

	"github.com/ezrec/dmg/cpu"
	"github.com/ezrec/dmg/emulator"
	"github.com/ezrec/dmg/memory"
	"github.com/ezrec/dmg/translate"
)

func main() {
	var boot string
	var compile string
	var save string
	var limit int
	var verbose bool
	var defines bool
	var lang string

	flag.StringVar(&boot, "b", "", "Boot image (256 bytes) to run")
	flag.StringVar(&compile, "c", "", ".s file to assemble as the boot image")
	flag.StringVar(&save, "s", "", "Save the assembled boot image, do not execute")
	flag.IntVar(&limit, "n", 0, "Stop after this many instructions (0 = run until error)")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&defines, "D", false, "Print the predefined symbols, and exit")
	flag.StringVar(&lang, "L", "", "Message locale (default from environment)")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(lang) != 0 {
		translate.SetLocale(lang)
	}

	if defines {
		emu := emulator.NewEmulator(nil)
		symbols := maps.Collect(emu.Defines())
		for _, name := range slices.Sorted(maps.Keys(symbols)) {
			fmt.Printf(".equ %v %v\n", name, symbols[name])
		}
		return
	}

	var image []uint8

	switch {
	case len(compile) != 0:
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		prog, err := asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}

		image, err = prog.Image(memory.BOOTSTRAP_SIZE)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	case len(boot) != 0:
		inf, err := os.Open(boot)
		if err != nil {
			log.Fatalf("%v: %v", boot, err)
		}
		defer inf.Close()

		bootstrap, err := memory.LoadBootstrap(inf)
		if err != nil {
			log.Fatalf("%v: %v", boot, err)
		}
		image = bootstrap.Data[:]
	default:
		log.Fatalf("%v: one of -b or -c is required", os.Args[0])
	}

	if len(save) != 0 {
		err := os.WriteFile(save, image, 0o644)
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		return
	}

	bootstrap, err := memory.NewBootstrap(image)
	if err != nil {
		log.Fatal(err)
	}

	emu := emulator.NewEmulator(bootstrap)
	emu.Verbose = verbose
	emu.Trace = os.Stdout

	emu.Reset()
	count, err := emu.Run(limit)
	if err != nil {
		translate.Fprintln(os.Stderr, "%v instructions executed", count)
		if verbose {
			fmt.Fprint(os.Stderr, emu.Cpu.String())
		}
		log.Fatal(err)
	}
}
