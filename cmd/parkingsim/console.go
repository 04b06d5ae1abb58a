package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/MeirG9/SmartCity-Parking-IoT-2026/internal/simulator"
)

var completer = readline.NewPrefixCompleter(
	readline.PcItem("slot"),
	readline.PcItem("toggle"),
	readline.PcItem("press"),
	readline.PcItem("status"),
	readline.PcItem("auto", readline.PcItem("on"), readline.PcItem("off")),
	readline.PcItem("help"),
	readline.PcItem("quit"),
)

// errQuit ends the console loop.
var errQuit = errors.New("quit")

// runConsole reads commands until quit, EOF or ctx is done.
func runConsole(ctx context.Context, cancel context.CancelFunc, rl *readline.Instance, sim *simulator.Simulator) {
	out := rl.Stdout()
	printHelp(out)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			fmt.Fprintln(out, "Exiting...")
			cancel()
			return
		}

		if err := execute(sim, line, out); err != nil {
			if errors.Is(err, errQuit) {
				fmt.Fprintln(out, "Exiting...")
				cancel()
				return
			}
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}
}

// execute runs one console command.
func execute(sim *simulator.Simulator, line string, out io.Writer) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "slot", "s":
		if len(args) != 2 {
			return errors.New("usage: slot <id> <0|1>")
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid slot id %q", args[0])
		}
		var occupied bool
		switch args[1] {
		case "1":
			occupied = true
		case "0":
		default:
			return fmt.Errorf("invalid state %q, want 0 or 1", args[1])
		}
		if err := sim.SetSlot(id, occupied); err != nil {
			return err
		}
		fmt.Fprintf(out, "slot %d -> %s\n", id, args[1])

	case "toggle", "t":
		if len(args) != 1 {
			return errors.New("usage: toggle <id>")
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid slot id %q", args[0])
		}
		occupied, err := sim.ToggleSlot(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "slot %d -> %s\n", id, occupancyLabel(occupied))

	case "press", "p":
		if err := sim.PressButton(); err != nil {
			return err
		}
		fmt.Fprintln(out, "ticket button pressed")

	case "status":
		printStatus(out, sim.Status())

	case "auto":
		if len(args) != 1 {
			return errors.New("usage: auto on|off")
		}
		switch strings.ToLower(args[0]) {
		case "on":
			sim.StartAuto()
		case "off":
			sim.StopAuto()
		default:
			return errors.New("usage: auto on|off")
		}

	case "help", "?":
		printHelp(out)

	case "quit", "exit", "q":
		return errQuit

	default:
		return fmt.Errorf("unknown command %q (type 'help' for commands)", cmd)
	}

	return nil
}

func occupancyLabel(occupied bool) string {
	if occupied {
		return "occupied"
	}
	return "free"
}

func printStatus(out io.Writer, st simulator.Status) {
	signage := st.Signage
	if signage == "" {
		signage = "-"
	}

	fmt.Fprintf(out, "gate:    %s\n", st.Gate)
	fmt.Fprintf(out, "signage: %s\n", signage)
	fmt.Fprintf(out, "auto:    %v\n", st.Auto)

	ids := st.OccupiedIDs()
	fmt.Fprintf(out, "occupied: %d/%d %v\n", len(ids), len(st.Slots), ids)
	for id := 1; id <= len(st.Slots); id++ {
		fmt.Fprintf(out, "slot %d:  %s\n", id, occupancyLabel(st.Slots[id]))
	}
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, `Commands:
  slot <id> <0|1>   set a slot sensor
  toggle <id>       flip a slot sensor
  press             press the ticket button
  status            show gate, signage and slots
  auto on|off       start or stop random traffic
  quit              exit`)
}
