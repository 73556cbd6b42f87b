// Command example demonstrates wiring up socketio.Client against a server's
// "/chat" namespace, following the same
// signal-driven graceful shutdown shape as the teacher's cmd/hub_go server.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/stdr"

	socketio "socketio-client"
)

func main() {
	stdlog := log.New(os.Stdout, "", log.LstdFlags)
	logger := stdr.New(stdlog)

	client := socketio.New("example-client", socketio.Settings{
		ServerURL:     envOr("SOCKETIO_SERVER_URL", "https://localhost:8443"),
		HandshakePath: "/socket.io/",
		DebugPayloads: envOr("SOCKETIO_DEBUG", "") == "1",
	}, socketio.Callbacks{
		OnConnected: func() {
			logger.Info("connected")
		},
		OnDisconnected: func(err error) {
			if err != nil {
				logger.Error(err, "disconnected")
				return
			}
			logger.Info("disconnected")
		},
		OnNamespaceJoined: func(namespace string) {
			logger.Info("namespace joined", "namespace", namespace)
		},
	}, logger)

	err := client.Register("/chat", "message", func(args json.RawMessage) (json.RawMessage, error) {
		logger.Info("message event", "args", string(args))
		return json.RawMessage(`["ack"]`), nil
	})
	if err != nil {
		log.Fatalf("register: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn, err := client.Start(ctx)
	if err != nil {
		log.Fatalf("start: %v", err)
	}

	go func() {
		joinCtx, joinCancel := context.WithTimeout(ctx, 10*time.Second)
		defer joinCancel()
		if err := conn.AwaitNamespaceJoin(joinCtx, "/chat"); err != nil {
			logger.Error(err, "chat namespace join failed")
			return
		}
		if err := conn.EmitAndForget("/chat", "hello", map[string]any{"text": "hi"}); err != nil {
			logger.Error(err, "emit failed")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	client.Stop()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
