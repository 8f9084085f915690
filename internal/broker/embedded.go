package broker

import (
	"errors"
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

// RunEmbeddedNATS starts an in-process NATS server listening on port. A port
// of -1 picks a random free port; the address is available from
// srv.ClientURL(). The caller shuts the server down.
func RunEmbeddedNATS(port int) (*server.Server, error) {
	srv, err := server.NewServer(&server.Options{
		ServerName: "cfagui",
		Host:       "127.0.0.1",
		Port:       port,
		NoLog:      true,
		NoSigs:     true,
	})
	if err != nil {
		return nil, err
	}

	go srv.Start()
	if !srv.ReadyForConnections(5 * time.Second) {
		srv.Shutdown()
		return nil, errors.New("broker: embedded nats server did not start")
	}
	return srv, nil
}
