// cmd/modpoll/main.go
package main

import (
	"fmt"
	"os"
	"sync"

	flag "github.com/spf13/pflag"

	"github.com/tamzrod/modpoll/internal/config"
	"github.com/tamzrod/modpoll/internal/poller"
	pmodbus "github.com/tamzrod/modpoll/internal/poller/modbus"
	"github.com/tamzrod/modpoll/internal/signals"
	"github.com/tamzrod/modpoll/internal/ui"
)

const version = "0.1"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("modpoll", flag.ContinueOnError)
	fs.SortFlags = false

	modeName := fs.StringP("mode", "m", "tcp", "communication mode: tcp, udp, rtu or ascii")
	slaveID := fs.IntP("slave", "a", 1, "slave address (1-247)")
	startRef := fs.IntP("reference", "r", 100, "start data reference (1-65536)")
	count := fs.IntP("count", "c", 1, "number of data values to read (1-125)")
	kind := fs.IntP("type", "t", 3, "data type: 1=coils, 2=discrete inputs, 3=input registers, 4=holding registers")
	port := fs.IntP("port", "p", 502, "TCP port number")
	pollMs := fs.IntP("rate", "R", 1000, "poll rate in milliseconds")
	timeoutMs := fs.Int("timeout", 3000, "request timeout in milliseconds")
	cfgPath := fs.String("config", "", "YAML file with option defaults")
	showVersion := fs.Bool("version", false, "output version information and exit")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: modpoll [options] HOST\n\nOptions:\n%s", fs.FlagUsages())
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *showVersion {
		fmt.Printf("modpoll %s\n", version)
		return 0
	}

	// YAML file (if any) supplies the base; explicitly set flags win.
	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		cfg = *loaded
	}

	if fs.Changed("mode") {
		m, err := config.ParseMode(*modeName)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		cfg.Mode = m
	}
	if fs.Changed("slave") {
		cfg.SlaveID = *slaveID
	}
	if fs.Changed("reference") {
		cfg.StartRef = *startRef
	}
	if fs.Changed("count") {
		cfg.Count = *count
	}
	if fs.Changed("type") {
		cfg.Kind = config.RegisterKind(*kind)
	}
	if fs.Changed("port") {
		cfg.Port = *port
	}
	if fs.Changed("rate") {
		cfg.PollMs = *pollMs
	}
	if fs.Changed("timeout") {
		cfg.TimeoutMs = *timeoutMs
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fmt.Fprintln(os.Stderr, "HOST argument is required.")
		return 1
	}
	cfg.Host = rest[0]

	if err := config.Validate(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if cfg.Mode != config.ModeTCP {
		fmt.Fprintf(os.Stderr, "%s mode is not yet supported.\n", cfg.Mode)
		return 0
	}

	// Handlers go in before the dial: an interrupt during a slow
	// connect is recorded and honored at the first loop checkpoint
	// instead of killing the process mid-setup.
	sigs := signals.Notify()

	client, err := pmodbus.New(pmodbus.Config{
		Endpoint: cfg.Endpoint(),
		SlaveID:  uint8(cfg.SlaveID),
		Timeout:  cfg.Timeout(),
	})
	if err != nil {
		sigs.Close()
		fmt.Fprintf(os.Stderr, "Connection failed: %v\n", err)
		return 1
	}

	p, err := poller.New(&cfg, client)
	if err != nil {
		sigs.Close()
		client.Close()
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	surface, err := ui.Open()
	if err != nil {
		sigs.Close()
		client.Close()
		fmt.Fprintf(os.Stderr, "Cannot initialise the terminal: %v\n", err)
		return 1
	}

	// Every exit path funnels through the same release sequence:
	// terminal first so error text lands on a restored screen, then
	// the protocol session. The Once keeps the deferred call from
	// releasing twice.
	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			sigs.Close()
			surface.Close()
			client.Close()
		})
	}
	defer cleanup()

	loop := poller.NewLoop(p, surface, sigs, cfg.Interval(), infoFields(&cfg))
	if err := loop.Run(); err != nil {
		cleanup()
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	cleanup()
	return 0
}

// infoFields mirrors the four fixed lines of the info panel.
func infoFields(cfg *config.Config) []poller.InfoField {
	return []poller.InfoField{
		{Label: "Connection", Value: cfg.Mode.String()},
		{Label: "Slave", Value: fmt.Sprintf("address = %d, start reference = %d, count = %d",
			cfg.SlaveID, cfg.StartRef, cfg.Count)},
		{Label: "Communication", Value: fmt.Sprintf("%s, port %d, poll rate %d ms",
			cfg.Host, cfg.Port, cfg.PollMs)},
		{Label: "Data Type", Value: cfg.Kind.String()},
	}
}
