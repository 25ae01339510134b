// cmd/modmaster/main.go
package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
)

// CLICommand is the command tree. Global options are read by every command.
type CLICommand struct {
	Config  string `short:"c" long:"config" description:"YAML configuration file" env:"MODMASTER_CONFIG"`
	Verbose bool   `short:"v" long:"verbose" description:"Log every frame (debug level)"`

	Exec  ExecCommand  `command:"exec" alias:"run" description:"Run the configured request once"`
	Poll  PollCommand  `command:"poll" alias:"scan" description:"Run the configured request every scan interval"`
	Ports PortsCommand `command:"ports" description:"List serial ports"`
	Probe ProbeCommand `command:"probe" description:"Check that a TCP port accepts connections"`
}

var cli CLICommand

func main() {
	parser := flags.NewParser(&cli, flags.HelpFlag|flags.PassDoubleDash)

	if _, err := parser.Parse(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
