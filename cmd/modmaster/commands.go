// cmd/modmaster/commands.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/tamzrod/modbus-master/internal/config"
	"github.com/tamzrod/modbus-master/internal/transport"
)

// ---- exec ----

type ExecCommand struct {
	RequestOptions
	Traffic bool `long:"traffic" description:"Print the raw traffic log"`
	Args    struct {
		Values []string `positional-arg-name:"value" description:"Values for write functions, in the display base"`
	} `positional-args:"yes"`
}

func (c *ExecCommand) Execute(args []string) error {
	cfg, err := loadConfig(cli.Config, c.RequestOptions)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Master.LogLevel, cli.Verbose)

	e := newEngine(cfg, logger, nil)
	if err := e.Connect(cfg.Master.Connection()); err != nil {
		return err
	}
	defer e.Disconnect()

	if err := prepare(e, requestFrom(cfg.Master), c.Args.Values); err != nil {
		return err
	}

	txErr := e.Transact()

	renderCells(os.Stdout, e.Store())
	if c.Traffic {
		renderTraffic(os.Stdout, e.Traffic())
	}
	fmt.Println(statusLine(e))
	return txErr
}

// ---- poll ----

type PollCommand struct {
	RequestOptions
	Interval int           `short:"i" long:"interval" description:"Scan interval (ms), defaults to scan_interval_ms"`
	Duration time.Duration `short:"d" long:"duration" description:"Stop after this long (0 = until interrupted)"`
	Traffic  bool          `long:"traffic" description:"Print traffic instead of the register table"`
}

func (c *PollCommand) Execute(args []string) error {
	cfg, err := loadConfig(cli.Config, c.RequestOptions)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Master.LogLevel, cli.Verbose)

	var (
		mu   sync.Mutex
		seen int
	)
	var render func()

	e := newEngine(cfg, logger, func() {
		if render != nil {
			render()
		}
	})
	render = func() {
		mu.Lock()
		defer mu.Unlock()
		if c.Traffic {
			lines := e.Traffic().Lines()
			if seen > len(lines) {
				seen = 0
			}
			for _, l := range lines[seen:] {
				fmt.Println(l)
			}
			seen = len(lines)
			return
		}
		renderCells(os.Stdout, e.Store())
		fmt.Println(statusLine(e))
	}

	if err := e.Connect(cfg.Master.Connection()); err != nil {
		return err
	}
	defer e.Disconnect()

	if err := prepare(e, requestFrom(cfg.Master), nil); err != nil {
		return err
	}

	interval := cfg.Master.ScanIntervalMs
	if c.Interval > 0 {
		interval = c.Interval
	}
	if err := e.PollStart(interval); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if c.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Duration)
		defer cancel()
	}
	<-ctx.Done()

	e.PollStop()
	st := e.PollStats()
	logger.Info().Uint64("ticks", st.Ticks).Uint64("skipped", st.Skipped).Uint64("failed", st.Failed).Msg("poll stopped")
	fmt.Println(statusLine(e))
	return nil
}

// ---- ports ----

type PortsCommand struct{}

func (c *PortsCommand) Execute(args []string) error {
	ports, err := transport.ListPorts()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		fmt.Println("no serial ports found")
		return nil
	}
	for _, p := range ports {
		fmt.Println(p)
	}
	return nil
}

// ---- probe ----

type ProbeCommand struct {
	Host    string `long:"host" description:"TCP host (defaults to the configured host)"`
	Port    int    `long:"port" description:"TCP port (defaults to the configured port)"`
	Timeout int    `short:"t" long:"timeout" default:"1000" description:"Connect timeout (ms)"`
}

func (c *ProbeCommand) Execute(args []string) error {
	cfg, err := loadConfig(cli.Config, RequestOptions{Mode: string(config.ModeTCP), Host: c.Host, Port: c.Port})
	if err != nil {
		return err
	}
	host, port := cfg.Master.TCP.Host, cfg.Master.TCP.Port

	ctx, cancel := context.WithTimeout(context.Background(), msDuration(c.Timeout))
	defer cancel()

	if err := transport.ProbeTCP(ctx, host, port, msDuration(c.Timeout)); err != nil {
		fmt.Printf("%s:%d : closed (%s)\n", host, port, transport.Describe(err))
		return nil
	}
	fmt.Printf("%s:%d : open\n", host, port)
	return nil
}
