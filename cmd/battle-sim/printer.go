package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/KirkDiggler/battle-core/internal/events"
)

// printer is a text presentation layer for the simulator
type printer struct {
	out io.Writer
}

func newPrinter(out io.Writer) *printer {
	return &printer{out: out}
}

// Emit implements events.Sink
func (p *printer) Emit(event events.Event) error {
	var err error

	switch e := event.(type) {
	case *events.MessageEvent:
		_, err = fmt.Fprintf(p.out, "  %s\n", e.Text)
	case *events.HealthChanged:
		_, err = fmt.Fprintf(p.out, "    [hp] #%d %d/%d\n", e.CombatantID, e.Value, e.Max)
	case *events.MagicChanged:
		_, err = fmt.Fprintf(p.out, "    [mp] #%d %d/%d\n", e.CombatantID, e.Value, e.Max)
	case *events.TurnOrderChanged:
		_, err = fmt.Fprintf(p.out, "-- Round %d: %s\n", e.Round, strings.Join(e.Sprites, " > "))
	case *events.CombatantRemoved:
		_, err = fmt.Fprintf(p.out, "    [removed] #%d\n", e.CombatantID)
	case *events.PhaseChanged:
		if e.To == "victory" || e.To == "defeat" {
			_, err = fmt.Fprintf(p.out, "== %s\n", strings.ToUpper(e.To))
		}
	}

	return err
}
