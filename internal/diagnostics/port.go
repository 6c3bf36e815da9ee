// Package diagnostics implements the reactor's diagnostics port: a minimal
// Unix-domain-socket listener operators can connect to and query for the
// node's current crank state, per spec.md §7's "queue-dump ... diagnostics
// port" behavior.
package diagnostics

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/log"
)

// StateReporter is satisfied by the reactor: it exposes just enough for
// the diagnostics port to answer a queue-dump query without coupling to
// the reactor package's other internals.
type StateReporter interface {
	StateString() string
	CrankCount() uint64
}

// Port is a listening Unix-domain socket that answers "queue-dump" queries
// with the reactor's current state and crank counter.
type Port struct {
	socketPath string
	listener   net.Listener
	reporter   StateReporter

	mu       sync.Mutex
	stopping bool
}

// New constructs a Port bound to socketPath, not yet listening.
func New(socketPath string, reporter StateReporter) *Port {
	return &Port{socketPath: socketPath, reporter: reporter}
}

// Listen starts accepting connections in the background. It removes any
// stale socket file left over from a prior run before binding.
func (p *Port) Listen() error {
	_ = os.Remove(p.socketPath)

	l, err := net.Listen("unix", p.socketPath)
	if err != nil {
		return fmt.Errorf("diagnostics: listen on %s: %w", p.socketPath, err)
	}
	p.listener = l

	go p.acceptLoop()
	log.Info("diagnostics port listening", "socket", p.socketPath)
	return nil
}

func (p *Port) acceptLoop() {
	for {
		conn, err := p.listener.Accept()
		if err != nil {
			p.mu.Lock()
			stopping := p.stopping
			p.mu.Unlock()
			if stopping {
				return
			}
			log.Warn("diagnostics port accept failed", "err", err)
			return
		}
		go p.handle(conn)
	}
}

func (p *Port) handle(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "queue-dump":
			fmt.Fprintf(conn, "state=%s cranks=%d\n", p.reporter.StateString(), p.reporter.CrankCount())
		case "":
			// ignore blank lines
		default:
			fmt.Fprintf(conn, "unknown command %q\n", line)
		}
	}
}

// Close stops accepting connections and best-effort removes the socket
// file, logging a warning rather than failing if removal doesn't succeed.
func (p *Port) Close() error {
	p.mu.Lock()
	p.stopping = true
	p.mu.Unlock()

	var closeErr error
	if p.listener != nil {
		closeErr = p.listener.Close()
	}
	if err := os.Remove(p.socketPath); err != nil && !os.IsNotExist(err) {
		log.Warn("diagnostics port failed to remove socket file", "socket", p.socketPath, "err", err)
	}
	return closeErr
}
