//go:build !tinygo

package app

import (
	"fmt"
	"os"

	"github.com/sugawarayuuta/sonnet"
)

// BoardProfile is an optional JSON description of the simulated board.
type BoardProfile struct {
	Name        string `json:"name"`
	Cores       int    `json:"cores"`
	TickHz      int    `json:"tick_hz"`
	PeriodTicks uint64 `json:"period_ticks"`
	HeapBytes   int    `json:"heap_bytes"`
	PinCores    bool   `json:"pin_cores"`
}

// DefaultBoard mirrors the reference target: two cores, 1ms ticks, a
// 1000-tick producer period.
func DefaultBoard() BoardProfile {
	return BoardProfile{
		Name:        "ember-ref",
		Cores:       2,
		TickHz:      60,
		PeriodTicks: 1000,
		HeapBytes:   0,
	}
}

// LoadBoard reads and validates a board profile.
func LoadBoard(path string) (BoardProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BoardProfile{}, fmt.Errorf("board: %w", err)
	}
	b := DefaultBoard()
	if err := sonnet.Unmarshal(data, &b); err != nil {
		return BoardProfile{}, fmt.Errorf("board %s: %w", path, err)
	}
	if err := b.Validate(); err != nil {
		return BoardProfile{}, fmt.Errorf("board %s: %w", path, err)
	}
	return b, nil
}

// Validate rejects profiles the simulator cannot run.
func (b BoardProfile) Validate() error {
	if b.Cores < 1 {
		return fmt.Errorf("cores must be at least 1, got %d", b.Cores)
	}
	if b.TickHz < 0 {
		return fmt.Errorf("tick_hz must not be negative, got %d", b.TickHz)
	}
	if b.HeapBytes < 0 {
		return fmt.Errorf("heap_bytes must not be negative, got %d", b.HeapBytes)
	}
	return nil
}

// Config converts the profile into the demo config.
func (b BoardProfile) Config() Config {
	return Config{
		PeriodTicks: b.PeriodTicks,
		HeapBytes:   b.HeapBytes,
		PinCores:    b.PinCores,
	}
}
