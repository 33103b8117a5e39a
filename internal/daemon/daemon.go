// Package daemon wires the tracker, observation source, monitor and control
// surfaces together and owns the process lifecycle.
package daemon

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/oronila/antiafk/internal/activity"
	"github.com/oronila/antiafk/internal/config"
	"github.com/oronila/antiafk/internal/desktop"
	"github.com/oronila/antiafk/internal/hotkeys"
	"github.com/oronila/antiafk/internal/ipc"
	"github.com/oronila/antiafk/internal/monitor"
	"github.com/oronila/antiafk/internal/nudge"
	"github.com/oronila/antiafk/internal/observe"
	"github.com/oronila/antiafk/internal/platform"
	"github.com/oronila/antiafk/internal/runtimepath"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// JoinTimeout bounds how long shutdown waits for the monitor loop.
const JoinTimeout = 2 * time.Second

// ErrAlreadyRunning is returned when another daemon holds the instance lock.
var ErrAlreadyRunning = errors.New("another antiafk daemon is already running")

// Desktop is the optional session-bus integration.
type Desktop interface {
	SimulateUserActivity(ctx context.Context) error
	Notify(ctx context.Context, summary, body string) error
	Close() error
}

// eventLooper is implemented by backends that dispatch X11 events.
type eventLooper interface {
	EventLoop()
	QuitEventLoop()
}

// Options configure Run. Nil dependencies are created from Config.
type Options struct {
	Config  *config.Config
	Logger  logrus.FieldLogger
	Version string

	Clock       clock.WithTicker
	LockPath    string
	SocketPath  string
	Backend     platform.Backend
	EventSource observe.EventSource
	Desktop     Desktop
}

// Daemon is one running instance. It implements ipc.Controller.
type Daemon struct {
	cfg     *config.Config
	log     logrus.FieldLogger
	started time.Time
	clock   clock.WithTicker

	tracker    *activity.Tracker
	monitor    *monitor.Monitor
	actuator   *nudge.Actuator
	subscriber *observe.Subscriber
	desktop    Desktop

	stopOnce  sync.Once
	stopCh    chan struct{}
	emergency chan struct{}
	emergOnce sync.Once
}

var _ ipc.Controller = (*Daemon)(nil)

// Run blocks until the daemon stops. A fail-safe or emergency hotkey stop
// returns observe.ErrFailSafe; a graceful stop returns nil.
func Run(ctx context.Context, opts Options) error {
	if opts.Config == nil {
		return errors.New("daemon: config is required")
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	log := opts.Logger
	cfg := opts.Config

	lockPath := opts.LockPath
	if lockPath == "" {
		p, err := runtimepath.LockPath()
		if err != nil {
			return errors.Wrap(err, "resolve lock path")
		}
		lockPath = p
	}
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return errors.Wrapf(err, "lock %s", lockPath)
	}
	if !locked {
		return ErrAlreadyRunning
	}
	defer lock.Unlock()

	if cfg.XAuthority != "" {
		if err := os.Setenv("XAUTHORITY", cfg.XAuthority); err != nil {
			return errors.Wrap(err, "set XAUTHORITY")
		}
	}

	backend := opts.Backend
	if backend == nil {
		b, err := platform.NewBackend(cfg.Display)
		if err != nil {
			return errors.Wrap(err, "open display backend")
		}
		backend = b
		defer backend.Disconnect()
	}

	d := &Daemon{
		cfg:       cfg,
		log:       log,
		clock:     opts.Clock,
		started:   opts.Clock.Now(),
		tracker:   activity.NewTracker(opts.Clock),
		desktop:   opts.Desktop,
		stopCh:    make(chan struct{}),
		emergency: make(chan struct{}),
	}
	if d.desktop == nil && (cfg.Notify || cfg.Nudge.SimulateActivity) {
		session, err := desktop.ConnectSession("antiafk")
		if err != nil {
			log.WithError(err).Warn("D-Bus session unavailable; notifications and activity pokes disabled")
		} else {
			d.desktop = session
		}
	}
	if d.desktop != nil {
		defer d.desktop.Close()
	}

	nudgeOpts := nudge.Options{
		MaxOffset: cfg.Nudge.MaxOffset,
		Hold:      cfg.Nudge.Hold,
		Clock:     opts.Clock,
	}
	if cfg.Nudge.SimulateActivity && d.desktop != nil {
		nudgeOpts.Poker = d.desktop
	}
	d.actuator = nudge.NewActuator(backend, nudgeOpts, log)

	var sampler monitor.Sampler
	switch cfg.Strategy {
	case config.StrategyEvents:
		source := opts.EventSource
		if source == nil {
			source = observe.NewEvdevSource(cfg.Events.Devices, log)
		}
		d.subscriber = observe.NewSubscriber(source, d.tracker, log)
		if err := d.subscriber.Start(ctx); err != nil {
			return err
		}
		defer d.subscriber.Stop()
	default:
		corner, err := observe.ParseCorner(cfg.FailSafe.Corner)
		if err != nil {
			return errors.Wrap(err, "failsafe.corner")
		}
		poller := observe.NewPoller(backend, d.tracker, log, observe.FailSafe{
			Enabled: cfg.FailSafe.Enabled,
			Corner:  corner,
		})
		if err := poller.Prime(); err != nil {
			log.WithError(err).Warn("Error checking mouse position")
		}
		sampler = poller
	}

	d.monitor = monitor.New(monitor.Config{
		Timeout:  cfg.Timeout(),
		Interval: cfg.PollInterval,
		Strategy: cfg.Strategy,
		Sampler:  sampler,
		Clock:    opts.Clock,
		Logger:   log,
	}, d.tracker, d.actuator)

	server, err := d.startIPC(opts.SocketPath)
	if err != nil {
		log.WithError(err).Warn("IPC disabled")
	} else {
		defer server.Stop()
	}

	if cfg.FailSafe.Hotkey != "" {
		d.startHotkey(backend)
	}

	d.banner(backend, opts.Version)

	runErr := make(chan error, 1)
	go func() { runErr <- d.monitor.Run(ctx) }()

	select {
	case err := <-runErr:
		if errors.Is(err, observe.ErrFailSafe) {
			log.Warn("Emergency stop activated - mouse moved to corner")
			d.notify("Anti-AFK stopped", "Emergency stop: pointer moved to corner")
			return err
		}
		if err != nil {
			return err
		}
		d.shutdown()
		return nil
	case <-d.emergency:
		d.monitor.Stop()
		log.Warn("Emergency stop activated - hotkey pressed")
		d.notify("Anti-AFK stopped", "Emergency stop: hotkey pressed")
		return observe.ErrFailSafe
	case <-ctx.Done():
		log.Info("Shutting down Anti-AFK Tool...")
	case <-d.stopCh:
		log.Info("Stop requested - shutting down Anti-AFK Tool...")
	}

	d.shutdown()
	return nil
}

func (d *Daemon) banner(backend platform.Backend, version string) {
	fields := logrus.Fields{
		"timeout":  d.cfg.Timeout(),
		"strategy": d.cfg.Strategy,
		"interval": d.cfg.PollInterval,
	}
	if version != "" {
		fields["version"] = version
	}
	d.log.WithFields(fields).Info("Anti-AFK Tool started")

	if bounds, err := backend.Bounds(); err == nil {
		d.log.Infof("Screen size: %dx%d", bounds.Width, bounds.Height)
	}
	if pos, err := backend.Position(); err == nil {
		d.log.Infof("Current mouse position: %d,%d", pos.X, pos.Y)
	}
	d.log.Infof("Will move mouse after %.0f seconds of inactivity", d.cfg.Timeout().Seconds())
	if d.cfg.Strategy == config.StrategyPoll && d.cfg.FailSafe.Enabled {
		d.log.Infof("Move mouse to %s corner to emergency stop", d.cfg.FailSafe.Corner)
	}
	d.log.Info("Press Ctrl+C to stop the tool")
}

func (d *Daemon) startIPC(socketPath string) (*ipc.Server, error) {
	var server *ipc.Server
	if socketPath == "" {
		s, err := ipc.NewServer(d, d.log)
		if err != nil {
			return nil, err
		}
		server = s
	} else {
		server = ipc.NewServerAt(socketPath, d, d.log)
	}
	if err := server.Start(); err != nil {
		return nil, err
	}
	return server, nil
}

func (d *Daemon) startHotkey(backend platform.Backend) {
	looper, ok := backend.(eventLooper)
	if !ok {
		d.log.Warn("failsafe.hotkey needs an X11 backend; hotkey disabled")
		return
	}
	handler, err := hotkeys.NewHandler(backend, d.log)
	if err != nil {
		d.log.WithError(err).Warn("hotkey disabled")
		return
	}
	err = handler.RegisterEmergencyStop(d.cfg.FailSafe.Hotkey, func() {
		d.emergOnce.Do(func() { close(d.emergency) })
	})
	if err != nil {
		d.log.WithError(err).Warn("hotkey disabled")
		return
	}
	go looper.EventLoop()
	go func() {
		<-d.monitor.Done()
		looper.QuitEventLoop()
	}()
}

// shutdown stops the listener and the monitor, then waits up to JoinTimeout.
func (d *Daemon) shutdown() {
	if d.subscriber != nil {
		if err := d.subscriber.Stop(); err != nil {
			d.log.WithError(err).Warn("listener stop failed")
		}
	}
	d.monitor.Stop()

	timer := time.NewTimer(JoinTimeout)
	defer timer.Stop()
	select {
	case <-d.monitor.Done():
	case <-timer.C:
		d.log.Warnf("monitor did not stop within %s", JoinTimeout)
	}

	d.notify("Anti-AFK stopped", "The tool has been shut down")
	d.log.Info("Anti-AFK Tool stopped")
}

func (d *Daemon) notify(summary, body string) {
	if !d.cfg.Notify || d.desktop == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := d.desktop.Notify(ctx, summary, body); err != nil {
		d.log.WithError(err).Debug("desktop notification failed")
	}
}

// Status implements ipc.Controller.
func (d *Daemon) Status() ipc.StatusData {
	snap := d.monitor.Snapshot()
	status := ipc.StatusData{
		DaemonRunning:   true,
		PID:             os.Getpid(),
		State:           snap.State.String(),
		Strategy:        snap.Strategy,
		IdleSeconds:     snap.Idle.Seconds(),
		TimeoutSeconds:  snap.Timeout.Seconds(),
		IntervalSeconds: snap.Interval.Seconds(),
		Nudges:          snap.Nudges,
		Failures:        snap.Failures,
		LastError:       snap.LastError,
		UptimeSeconds:   int64(d.clock.Since(d.started).Seconds()),
	}
	if !snap.LastNudge.IsZero() {
		status.LastNudge = snap.LastNudge.Format(time.RFC3339)
	}
	return status
}

// RequestStop implements ipc.Controller.
func (d *Daemon) RequestStop() error {
	d.stopOnce.Do(func() { close(d.stopCh) })
	return nil
}

// NudgeNow implements ipc.Controller.
func (d *Daemon) NudgeNow(ctx context.Context) (ipc.NudgeData, error) {
	res, err := d.monitor.NudgeNow(ctx)
	if err != nil {
		return ipc.NudgeData{}, err
	}
	return ipc.NudgeData{
		OriginX: res.Origin.X,
		OriginY: res.Origin.Y,
		DX:      res.DX,
		DY:      res.DY,
	}, nil
}
