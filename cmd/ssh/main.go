package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/tomz197/invaders/internal/audio"
	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/loop"
	"github.com/tomz197/invaders/internal/metrics"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
)

func main() {
	config.LoadDotEnv()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "ssh",
	})
	if level, err := log.ParseLevel(config.GetEnv("LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(level)
	}

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	logger.Info("SSH config", "host", host, "port", port, "hostKeyPath", hostKeyPath)

	// New sessions per second, with a burst for reconnect storms
	limiter := rate.NewLimiter(
		rate.Limit(config.GetEnvFloat("SSH_SESSION_RATE", 2)),
		config.GetEnvInt("SSH_SESSION_BURST", 5),
	)

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			gameMiddleware(limiter, logger),
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	metricsServer := startMetrics(config.GetEnv("METRICS_ADDR", ""), logger)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			logger.Error("metrics shutdown error", "err", err)
		}
	}
	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// startMetrics serves /metrics on addr. Returns nil when addr is empty.
func startMetrics(addr string, logger *log.Logger) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("Serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", "err", err)
		}
	}()
	return srv
}

// gameMiddleware runs one independent game per SSH session.
func gameMiddleware(limiter *rate.Limiter, logger *log.Logger) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			defer next(sess)
			sessLog := logger.With("user", sess.User(), "remote", sess.RemoteAddr())

			if !limiter.Allow() {
				metrics.SessionsRejected.WithLabelValues("rate_limit").Inc()
				fmt.Fprintln(sess, "Too many players are joining right now. Please try again in a moment.")
				return
			}

			pty, winCh, ok := sess.Pty()
			if !ok {
				metrics.SessionsRejected.WithLabelValues("no_pty").Inc()
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			offCol, offRow, err := draw.BoardOffset(pty.Window.Width, pty.Window.Height, config.BoardWidth, config.BoardHeight)
			if err != nil {
				metrics.SessionsRejected.WithLabelValues("too_small").Inc()
				fmt.Fprintf(sess, "Error: %v. Please enlarge your terminal and reconnect.\n", err)
				return
			}

			sessLog.Info("New game session", "terminal", pty.Term, "size", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height))

			// The board does not move on resize; window changes are only logged.
			go func() {
				for win := range winCh {
					sessLog.Debug("window changed", "size", fmt.Sprintf("%dx%d", win.Width, win.Height))
				}
			}()

			metrics.ActiveSessions.Inc()
			defer metrics.ActiveSessions.Dec()

			outcome, err := playSession(sess, offCol, offRow, sessLog)
			if err != nil {
				sessLog.Warn("Game error", "err", err)
			} else {
				fmt.Fprintf(sess, "%s\r\n", outcome.Message())
			}
			sessLog.Info("Session ended", "outcome", outcome)
		}
	}
}

// playSession runs a silent game on the session's terminal. The session
// context ends the game when the client disconnects.
func playSession(sess ssh.Session, offCol, offRow int, logger *log.Logger) (outcome loop.Outcome, err error) {
	if err := draw.EnterAltScreen(sess); err != nil {
		return loop.Quit, fmt.Errorf("enter alternate screen: %w", err)
	}
	defer func() {
		if lerr := draw.LeaveAltScreen(sess); lerr != nil && err == nil {
			err = fmt.Errorf("leave alternate screen: %w", lerr)
		}
	}()
	if err := draw.HideCursor(sess); err != nil {
		return loop.Quit, fmt.Errorf("hide cursor: %w", err)
	}
	defer func() {
		if serr := draw.ShowCursor(sess); serr != nil && err == nil {
			err = fmt.Errorf("show cursor: %w", serr)
		}
	}()
	if err := draw.ClearScreen(sess); err != nil {
		return loop.Quit, fmt.Errorf("clear screen: %w", err)
	}

	game := loop.New(loop.Options{
		Input:   input.StartStream(bufio.NewReader(sess)),
		Surface: draw.NewChunkWriter(sess, offCol, offRow),
		Audio:   audio.Nop{},
		Logger:  logger,
	})
	return game.Run(sess.Context())
}
