//go:build !tinygo

// Command mkboard writes a board profile JSON for the host simulator.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sugawarayuuta/sonnet"

	"ember/app"
)

func main() {
	var (
		out    string
		name   string
		cores  int
		hz     int
		period uint64
		heap   int
		pin    bool
	)
	flag.StringVar(&out, "o", "board.json", "Output path.")
	flag.StringVar(&name, "name", "", "Board name (default: profile default).")
	flag.IntVar(&cores, "cores", 0, "Core count (0 = profile default).")
	flag.IntVar(&hz, "hz", 0, "Tick rate (0 = profile default).")
	flag.Uint64Var(&period, "period", 0, "Producer period in ticks (0 = profile default).")
	flag.IntVar(&heap, "heap", 0, "Kernel heap bytes (0 = profile default).")
	flag.BoolVar(&pin, "pin", false, "Pin each simulated core to one CPU.")
	flag.Parse()

	b := app.DefaultBoard()
	if name != "" {
		b.Name = name
	}
	if cores > 0 {
		b.Cores = cores
	}
	if hz > 0 {
		b.TickHz = hz
	}
	if period > 0 {
		b.PeriodTicks = period
	}
	if heap > 0 {
		b.HeapBytes = heap
	}
	b.PinCores = pin

	if err := b.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	data, err := sonnet.Marshal(b)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	data = append(data, '\n')

	if err := os.WriteFile(out, data, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s (%s: %d cores, period %d ticks)\n", out, b.Name, b.Cores, b.PeriodTicks)
}
