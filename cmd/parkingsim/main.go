// parkingsim emulates the lot's field devices: slot sensors, the entrance
// button, the gate actuator and the signage display.
//
// With --auto it generates random traffic until interrupted; otherwise it
// opens an interactive console.
package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/MeirG9/SmartCity-Parking-IoT-2026/internal/infrastructure/config"
	"github.com/MeirG9/SmartCity-Parking-IoT-2026/internal/infrastructure/logging"
	"github.com/MeirG9/SmartCity-Parking-IoT-2026/internal/infrastructure/mqtt"
	"github.com/MeirG9/SmartCity-Parking-IoT-2026/internal/parking"
	"github.com/MeirG9/SmartCity-Parking-IoT-2026/internal/simulator"
)

var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cancel, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	config   string
	auto     bool
	seed     uint64
	clientID string
}

func parseFlags(args []string) (options, error) {
	var o options

	flags := pflag.NewFlagSet("parkingsim", pflag.ContinueOnError)
	flags.StringVarP(&o.config, "config", "c", "", "config file (default $PARKING_CONFIG or "+config.DefaultPath+")")
	flags.BoolVarP(&o.auto, "auto", "a", false, "generate random traffic without a console")
	flags.Uint64Var(&o.seed, "seed", 0, "traffic seed; 0 picks one at random")
	flags.StringVar(&o.clientID, "client-id", "", "MQTT client id (default Emulator_Client_<random>)")

	if err := flags.Parse(args); err != nil {
		return o, err
	}
	if o.clientID == "" {
		o.clientID = "Emulator_Client_" + uuid.NewString()[:8]
	}
	return o, nil
}

func run(ctx context.Context, cancel context.CancelFunc, args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, _, err := config.LoadFrom(opts.config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ns, err := parking.NewNamespace(cfg.Parking.TopicRoot)
	if err != nil {
		return fmt.Errorf("building topic namespace: %w", err)
	}

	var rl *readline.Instance
	var logOut io.Writer = os.Stderr
	if !opts.auto {
		rl, err = readline.NewEx(&readline.Config{
			Prompt:          "parking> ",
			InterruptPrompt: "^C",
			EOFPrompt:       "quit",
			AutoComplete:    completer,
		})
		if err != nil {
			return fmt.Errorf("failed to create readline: %w", err)
		}
		defer rl.Close()
		logOut = rl.Stderr()
	}
	log := logging.NewWithWriter(logOut, cfg.Logging, version).With("component", "simulator")

	mqttCfg := cfg.MQTT
	mqttCfg.Broker.ClientID = opts.clientID
	client := mqtt.New(mqttCfg, "")
	client.SetLogger(log)

	var rng *rand.Rand
	if opts.seed != 0 {
		rng = rand.New(rand.NewPCG(opts.seed, opts.seed))
	}

	sim, err := simulator.New(simulator.Options{
		Namespace:        ns,
		Slots:            cfg.Parking.TotalSlots,
		QoS:              byte(cfg.MQTT.QoS), // #nosec G115 -- validated to 0..2
		Bus:              client,
		GateOpenDuration: cfg.GetGateOpenDuration(),
		GateAutoClose:    cfg.GetGateAutoClose(),
		TrafficInterval:  cfg.GetTrafficInterval(),
		Rand:             rng,
		Logger:           log,
	})
	if err != nil {
		return err
	}
	defer sim.Close()

	client.SetOnConnect(sim.OnConnected)
	client.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	defer client.Close() //nolint:errcheck // shutdown path
	if err := client.Connect(); err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	log.Info("emulators online",
		"broker", mqtt.BrokerURL(cfg.MQTT),
		"client_id", opts.clientID,
		"root", ns.Root(),
		"slots", cfg.Parking.TotalSlots,
	)

	if opts.auto {
		sim.RunTraffic(ctx)
		return nil
	}

	runConsole(ctx, cancel, rl, sim)
	return nil
}
