package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/stream-orbs/internal/broadcast"
	"github.com/vovakirdan/stream-orbs/internal/platform/tui"
	"github.com/vovakirdan/stream-orbs/internal/registry"
	"github.com/vovakirdan/stream-orbs/internal/stage"
	"github.com/vovakirdan/stream-orbs/internal/storage"
)

var (
	flagSSHAddr     string
	flagHTTPAddr    string
	flagHostKey     string
	flagIdleTimeout int
	flagAdmins      []string
	flagServeMode   string
	flagFeedEvery   int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the stage over SSH and websocket",
	Long: `Run one shared orb stage and serve it to displays.

SSH sessions get a terminal view of the stage. Users listed with --admin
may control it from their session; everybody else watches.

The websocket feed at /ws streams frame snapshots and roster changes as
JSON and accepts admin commands. Connect with ?display=1 for a
read-only feed.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.orbs/host_key

Examples:
  orbs serve                             # SSH on :23234, websocket on :8080
  orbs serve --ssh :2222 --http :9000
  orbs serve --ssh "" --mode race        # Websocket only, start in race mode
  orbs serve --admin alice --admin bob

Users can connect with:
  ssh localhost -p 23234`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (empty to disable)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", ":8080", "Websocket feed address (empty to disable)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringArrayVar(&flagAdmins, "admin", nil, "SSH user allowed to control the stage (repeatable)")
	serveCmd.Flags().StringVar(&flagServeMode, "mode", stage.DefaultMode, "Initial mode")
	serveCmd.Flags().IntVar(&flagFeedEvery, "feed-every", 2, "Publish a frame snapshot every N frames")
}

func runServe(_ *cobra.Command, _ []string) error {
	if flagSSHAddr == "" && flagHTTPAddr == "" {
		return errors.New("nothing to serve: both --ssh and --http are empty")
	}

	logger := newLogger(os.Stderr, "orbs")
	hub := broadcast.NewHub(logger.WithPrefix("hub"))
	defer hub.Close()

	store := openStore(logger)
	opts := []stage.Option{
		stage.WithMode(flagServeMode),
		stage.WithChanges(hub.PublishChange),
	}
	var recorder *storage.Recorder
	if store != nil {
		defer store.Close()
		recorder = storage.NewRecorder(store, logger.WithPrefix("results"), 64)
		defer recorder.Close()
	}
	opts = append(opts, stage.WithResults(func(r registry.Result) {
		if recorder != nil {
			recorder.Record(r)
		}
		hub.PublishResult(r)
	}))

	st, err := newStage(logger, store, opts...)
	if err != nil {
		return err
	}
	if store != nil {
		defer saveRoster(st, store, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	every := max(flagFeedEvery, 1)
	frames := 0
	driver := stage.NewDriver(st,
		stage.WithDriverLogger(logger),
		stage.WithInterval(st.Runtime().FrameInterval()),
		stage.WithFrameHook(func(f stage.Frame) {
			frames++
			if frames%every == 0 {
				hub.PublishFrame(f)
			}
		}),
	)
	driver.Drive(ctx, nil)
	defer driver.Stop()

	errc := make(chan error, 2)
	running := 0

	if flagHTTPAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/ws", broadcast.NewWSServer(hub, st, logger.WithPrefix("ws")))
		httpServer := &http.Server{
			Addr:              flagHTTPAddr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		running++
		go func() {
			logger.Info("starting websocket feed", "address", flagHTTPAddr)
			err := httpServer.ListenAndServe()
			if errors.Is(err, http.ErrServerClosed) {
				err = nil
			}
			errc <- err
		}()
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			httpServer.Shutdown(shutdownCtx) //nolint:errcheck // Best-effort shutdown
		}()
	}

	if flagSSHAddr != "" {
		sshServer, err := tui.NewSSHServer(tui.SSHServerConfig{
			Address:     flagSSHAddr,
			HostKeyPath: flagHostKey,
			IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
			Admins:      flagAdmins,
		}, st, logger.WithPrefix("ssh"))
		if err != nil {
			return err
		}
		running++
		go func() { errc <- sshServer.ListenAndServe(ctx) }()
	}

	// The first failure stops everything; otherwise wait for the signal.
	var firstErr error
	for range running {
		if err := <-errc; err != nil && firstErr == nil {
			firstErr = err
			stop()
		}
	}
	logger.Info("stopped")
	return firstErr
}
