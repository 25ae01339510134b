// internal/transport/ports.go
package transport

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"
	"time"

	bugserial "go.bug.st/serial"
)

// ListPorts returns the serial devices the OS currently exposes, sorted.
func ListPorts() ([]string, error) {
	ports, err := bugserial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("transport: list ports: %w", err)
	}
	sort.Strings(ports)
	return ports, nil
}

// ProbeTCP checks that host:port accepts a TCP connection, then closes it.
// No Modbus traffic is sent.
func ProbeTCP(ctx context.Context, host string, port int, timeout time.Duration) error {
	host = strings.TrimSpace(host)
	if host == "" {
		return ErrBlankHost
	}

	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return err
	}
	return conn.Close()
}
