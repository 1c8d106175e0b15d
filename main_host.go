//go:build !tinygo

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"ember/app"
	"ember/hal"
	"ember/internal/buildinfo"
)

func main() {
	var (
		headless  bool
		hz        int
		ticks     uint64
		cores     int
		boardPath string
		pin       bool
	)
	flag.BoolVar(&headless, "headless", false, "Run without a window.")
	flag.IntVar(&hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.IntVar(&cores, "cores", 0, "Simulated core count (0 = board default).")
	flag.StringVar(&boardPath, "board", "", "Board profile JSON (overrides defaults).")
	flag.BoolVar(&pin, "pin", false, "Pin each simulated core to one CPU.")
	flag.Parse()

	fmt.Println("ember " + buildinfo.Short())

	board := app.DefaultBoard()
	if boardPath != "" {
		var err error
		board, err = app.LoadBoard(boardPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if cores > 0 {
		board.Cores = cores
	}
	cfg := board.Config()
	if pin {
		cfg.PinCores = true
	}
	host := hal.HostConfig{Cores: board.Cores}

	newApp := func(h hal.HAL) func() error {
		return app.NewWithConfig(h, cfg)
	}

	if headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		hcfg := hal.HeadlessConfig{Hz: hz, Ticks: ticks, Host: host}
		if board.TickHz > 0 && hz == 60 {
			hcfg.Hz = board.TickHz
		}
		if err := hal.RunHeadless(ctx, newApp, hcfg); err != nil {
			if err == context.Canceled {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(newApp, host); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
