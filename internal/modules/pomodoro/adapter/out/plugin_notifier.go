package out

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	notifierrpc "tasktracker/internal/modules/pomodoro/adapter/out/rpc"
	"tasktracker/internal/modules/pomodoro/domain"
	pomodoroout "tasktracker/internal/modules/pomodoro/port/out"
	"tasktracker/internal/platform/sqlitedb"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
)

// PluginNotifier launches each configured notifier binary per event through
// go-plugin. Plugins are short-lived: a crash never outlives one call.
type PluginNotifier struct {
	binaries []string
	logger   hclog.Logger
}

func NewPluginNotifier(binaries []string, logger hclog.Logger) *PluginNotifier {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &PluginNotifier{binaries: append([]string(nil), binaries...), logger: logger}
}

var _ pomodoroout.Notifier = (*PluginNotifier)(nil)

func (n *PluginNotifier) SessionCompleted(ctx context.Context, transition domain.Transition) error {
	event := &notifierrpc.SessionEvent{
		Finished:        string(transition.Finished),
		Next:            string(nextPhase(transition.Finished)),
		StartedAt:       sqlitedb.FormatTime(transition.StartedAt),
		EndedAt:         sqlitedb.FormatTime(transition.EndedAt),
		DurationSeconds: int64(transition.Duration / time.Second),
	}
	var errs []error
	for _, binary := range n.binaries {
		if err := n.notifyOne(ctx, binary, event); err != nil {
			errs = append(errs, fmt.Errorf("notifier %s: %w", binary, err))
		}
	}
	return errors.Join(errs...)
}

// Check starts every plugin once and returns their metadata.
func (n *PluginNotifier) Check(ctx context.Context) ([]notifierrpc.Metadata, error) {
	out := make([]notifierrpc.Metadata, 0, len(n.binaries))
	for _, binary := range n.binaries {
		client, closeFn, err := n.connect(binary)
		if err != nil {
			return nil, err
		}
		callCtx, cancel := callContext(ctx, defaultCallTimeout)
		meta, err := client.GetMetadata(callCtx)
		cancel()
		closeFn()
		if err != nil {
			return nil, fmt.Errorf("get metadata from %s: %w", binary, err)
		}
		out = append(out, *meta)
	}
	return out, nil
}

func (n *PluginNotifier) notifyOne(ctx context.Context, binary string, event *notifierrpc.SessionEvent) error {
	client, closeFn, err := n.connect(binary)
	if err != nil {
		return err
	}
	defer closeFn()

	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	response, err := client.Notify(callCtx, event)
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("notify timed out after %s", defaultCallTimeout)
		}
		return fmt.Errorf("notify: %w", err)
	}
	if !response.Delivered {
		n.logger.Debug("notifier declined event", "binary", binary, "message", response.Message)
	}
	return nil
}

func (n *PluginNotifier) connect(binary string) (notifierrpc.NotifierClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  notifierrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          notifierrpc.PluginMap(nil),
		Cmd:              exec.Command(binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel}),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start plugin client: %w", err)
	}
	raw, err := rpcClient.Dispense(notifierrpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense plugin: %w", err)
	}
	typed, ok := raw.(notifierrpc.NotifierClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("plugin rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

func nextPhase(finished domain.Phase) domain.Phase {
	if finished == domain.PhaseWork {
		return domain.PhaseRest
	}
	return domain.PhaseWork
}
