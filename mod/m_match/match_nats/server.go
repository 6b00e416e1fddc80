package match_nats

import (
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// ReadyTimeout bounds the wait for an embedded server.
const ReadyTimeout = 5 * time.Second

// Embedded is an in-process NATS server with a client connected to it.
type Embedded struct {
	Server *server.Server
	Conn   *nats.Conn
}

// RunEmbedded starts a NATS server on host:port and connects to it. A port
// of -1 picks a random free port.
func RunEmbedded(host string, port int) (*Embedded, error) {
	opts := &server.Options{
		Host:   host,
		Port:   port,
		NoSigs: true,
	}
	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("nats-server init: %w", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(ReadyTimeout) {
		ns.Shutdown()
		return nil, fmt.Errorf("nats-server not ready")
	}

	nc, err := nats.Connect(ns.ClientURL())
	if err != nil {
		ns.Shutdown()
		return nil, fmt.Errorf("nats client connect: %w", err)
	}

	return &Embedded{Server: ns, Conn: nc}, nil
}

// Close disconnects the client and stops the server.
func (e *Embedded) Close() {
	if e.Conn != nil {
		e.Conn.Close()
	}
	if e.Server != nil {
		e.Server.Shutdown()
		e.Server.WaitForShutdown()
	}
}
