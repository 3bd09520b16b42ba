package music

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/auralis-home/auralis-core/internal/audit"
	"github.com/auralis-home/auralis-core/internal/infrastructure/logging"
	"github.com/auralis-home/auralis-core/internal/infrastructure/mqtt"
)

// auditChanSize is the buffer size for the async audit channel.
// Entries beyond this are dropped (best-effort) to avoid back-pressure
// on the command path.
const auditChanSize = 256

// Publisher is the broker-facing surface the router needs.
// Satisfied by *mqtt.Client.
type Publisher interface {
	PublishJSON(topic string, payload []byte) error
}

// Telemetry records command events in a time-series store.
// Satisfied by *influxdb.Client. Optional.
type Telemetry interface {
	WriteCommandEvent(zone, action, source string)
}

// Router validates music commands and fans them out: to the broker for
// the players, to the audit trail, and to telemetry when configured.
//
// Thread Safety:
//   - SendControl and SendPlaylist are safe for concurrent use.
//   - Start must be called once before commands flow; Close once after.
type Router struct {
	pub       Publisher
	repo      audit.Repository
	telemetry Telemetry
	logger    *logging.Logger

	auditCh chan *audit.Entry
	done    chan struct{}
}

// RouterOption configures optional router collaborators.
type RouterOption func(*Router)

// WithTelemetry attaches a time-series telemetry sink.
func WithTelemetry(t Telemetry) RouterOption {
	return func(r *Router) { r.telemetry = t }
}

// WithAuditRepository attaches the command audit trail.
func WithAuditRepository(repo audit.Repository) RouterOption {
	return func(r *Router) { r.repo = repo }
}

// NewRouter creates a command router.
//
// Parameters:
//   - pub: Broker publisher (required)
//   - logger: Structured logger (required)
//   - opts: Optional audit repository and telemetry sink
func NewRouter(pub Publisher, logger *logging.Logger, opts ...RouterOption) *Router {
	r := &Router{
		pub:     pub,
		logger:  logger,
		auditCh: make(chan *audit.Entry, auditChanSize),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start launches the audit drain goroutine. It returns immediately.
// The goroutine runs until ctx is cancelled, then drains remaining
// entries before exiting.
func (r *Router) Start(ctx context.Context) {
	go r.drainAudit(ctx)
}

// Close waits for the audit drain goroutine to finish. Call after
// cancelling the context passed to Start.
func (r *Router) Close() {
	<-r.done
}

// SendControl validates and dispatches a playback command.
//
// Parameters:
//   - cmd: The command to dispatch
//   - source: Origin for the audit trail (SourceAutomation, SourceWebSocket, SourceAPI)
//
// Returns:
//   - error: ErrValidation if the command is malformed, ErrPublish if the
//     broker rejects it
func (r *Router) SendControl(cmd Command, source string) error {
	if err := ValidateCommand(cmd); err != nil {
		return err
	}

	payload, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("%w: encoding command: %w", ErrPublish, err)
	}

	if err := r.pub.PublishJSON(mqtt.TopicMusicControl, payload); err != nil {
		return fmt.Errorf("%w: %w", ErrPublish, err)
	}

	r.logger.Info("music command dispatched",
		"zone", cmd.Zone,
		"action", cmd.Action,
		"source", source,
	)

	r.recordCommand(cmd, source)

	if r.telemetry != nil {
		r.telemetry.WriteCommandEvent(cmd.Zone, cmd.Action, source)
	}

	return nil
}

// SendPlaylist validates and dispatches a playlist update.
//
// Playlist updates are relayed but not audited; they carry no playback
// decision.
//
// Parameters:
//   - pu: The playlist update to dispatch
//   - source: Origin, used for logging only
//
// Returns:
//   - error: ErrValidation if malformed, ErrPublish on broker failure
func (r *Router) SendPlaylist(pu PlaylistUpdate, source string) error {
	if err := ValidatePlaylist(pu); err != nil {
		return err
	}

	payload, err := json.Marshal(pu)
	if err != nil {
		return fmt.Errorf("%w: encoding playlist update: %w", ErrPublish, err)
	}

	if err := r.pub.PublishJSON(mqtt.TopicMusicPlaylist, payload); err != nil {
		return fmt.Errorf("%w: %w", ErrPublish, err)
	}

	r.logger.Info("playlist update dispatched",
		"zone", pu.Zone,
		"source", source,
	)

	return nil
}

// recordCommand enqueues an audit entry for asynchronous write (best-effort).
// If the channel is full the entry is dropped and a warning is logged.
func (r *Router) recordCommand(cmd Command, source string) {
	if r.repo == nil {
		return
	}

	entry := &audit.Entry{
		Zone:   cmd.Zone,
		Action: cmd.Action,
		Track:  cmd.Track,
		Volume: cmd.Volume,
		Source: source,
	}

	select {
	case r.auditCh <- entry:
	default:
		r.logger.Warn("command audit channel full, dropping entry",
			"zone", cmd.Zone,
			"action", cmd.Action,
		)
	}
}

// drainAudit reads entries from the audit channel and writes them serially.
// This avoids unbounded goroutine creation and suits SQLite's serial write
// model. It runs until the context is cancelled, then drains remaining
// entries.
func (r *Router) drainAudit(ctx context.Context) {
	defer close(r.done)

	if r.repo == nil {
		<-ctx.Done()
		return
	}

	for {
		select {
		case entry := <-r.auditCh:
			if err := r.repo.Record(context.Background(), entry); err != nil {
				r.logger.Error("command audit write failed",
					"zone", entry.Zone,
					"action", entry.Action,
					"error", err,
				)
			}
		case <-ctx.Done():
			// Drain remaining entries before exiting
			for {
				select {
				case entry := <-r.auditCh:
					if err := r.repo.Record(context.Background(), entry); err != nil {
						r.logger.Error("command audit write failed during shutdown",
							"zone", entry.Zone,
							"error", err,
						)
					}
				default:
					return
				}
			}
		}
	}
}
