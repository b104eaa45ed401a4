// Command chime is the reference notifier plugin. It rings the terminal bell
// on every finished session. With TASKTRACKER_CHIME_LOG set it appends one
// line per event to that file instead.
package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/hashicorp/go-plugin"

	notifierrpc "tasktracker/internal/modules/pomodoro/adapter/out/rpc"
)

const logEnv = "TASKTRACKER_CHIME_LOG"

type server struct {
	mu sync.Mutex
}

func (s *server) GetMetadata(_ context.Context, _ *notifierrpc.Empty) (*notifierrpc.Metadata, error) {
	return &notifierrpc.Metadata{Name: "chime", Version: "1.0.0"}, nil
}

func (s *server) Notify(_ context.Context, in *notifierrpc.SessionEvent) (*notifierrpc.NotifyResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := fmt.Sprintf("%s -> %s at %s\n", in.Finished, in.Next, in.EndedAt)
	if path := os.Getenv(logEnv); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open chime log: %w", err)
		}
		defer f.Close()
		if _, err := f.WriteString(line); err != nil {
			return nil, fmt.Errorf("write chime log: %w", err)
		}
		return &notifierrpc.NotifyResponse{Delivered: true, Message: "logged"}, nil
	}
	if _, err := os.Stderr.WriteString("\a"); err != nil {
		return &notifierrpc.NotifyResponse{Delivered: false, Message: err.Error()}, nil
	}
	return &notifierrpc.NotifyResponse{Delivered: true}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: notifierrpc.HandshakeConfig,
		Plugins:         notifierrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
