package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/hearts-client/internal/config"
	"github.com/DoyleJ11/hearts-client/internal/engine"
	"github.com/DoyleJ11/hearts-client/internal/history"
	"github.com/DoyleJ11/hearts-client/internal/httpapi"
	"github.com/DoyleJ11/hearts-client/internal/hub"
	"github.com/DoyleJ11/hearts-client/internal/logging"
	"github.com/DoyleJ11/hearts-client/internal/policy"
	"github.com/DoyleJ11/hearts-client/internal/session"
	"github.com/DoyleJ11/hearts-client/internal/transport"
	"github.com/DoyleJ11/hearts-client/internal/transport/grpcstream"
	"github.com/DoyleJ11/hearts-client/internal/transport/ws"
)

func main() {
	envFiles := flag.String("env", ".env", "comma separated dotenv files to load")
	flag.Parse()

	cfg, err := config.Load(strings.Split(*envFiles, ",")...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, log)
	stop()
	if err != nil {
		log.Error("hearts client stopped", zap.Error(err))
	}
	_ = log.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) (err error) {
	var store *history.Store
	if cfg.HistoryDSN != "" {
		store, err = history.Open(cfg.HistoryDSN)
		if err != nil {
			return err
		}
		defer func() { err = multierr.Append(err, store.Close()) }()
	}

	h := hub.NewHub(ctx)
	defer h.Shutdown()

	seatsCtx, cancelSeats := context.WithCancel(ctx)
	defer cancelSeats()
	g, gctx := errgroup.WithContext(seatsCtx)

	var srv *http.Server
	if cfg.StatusAddr != "" {
		var games httpapi.GameLister
		if store != nil {
			games = store
		}
		srv = &http.Server{Addr: cfg.StatusAddr, Handler: httpapi.SetupRoutes(h, games)}
		go func() {
			log.Info("status server listening", zap.String("addr", cfg.StatusAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("status server", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			err = multierr.Append(err, srv.Shutdown(shutdownCtx))
		}()
	}

	for seat := 1; seat <= cfg.Seats; seat++ {
		s, pol, err := newSeat(gctx, cfg, seat, store, log)
		if err != nil {
			cancelSeats()
			return multierr.Append(err, g.Wait())
		}
		h.Register(gctx, s)
		g.Go(func() error {
			defer policy.Release(pol)
			defer h.Remove(context.Background(), s.ID())
			return s.Run(gctx)
		})
	}
	return g.Wait()
}

func newSeat(ctx context.Context, cfg config.Config, seat int, store *history.Store, log *zap.Logger) (*session.Session, engine.Policy, error) {
	pol, err := policy.New(cfg.Policy, cfg.LuaScript)
	if err != nil {
		return nil, nil, err
	}

	stream, err := dial(ctx, cfg)
	if err != nil {
		policy.Release(pol)
		return nil, nil, &engine.TransportError{Op: "connect", Err: err}
	}

	opts := session.Options{
		ID:            uuid.NewString(),
		Seat:          seat,
		Identity:      engine.Identity{Name: cfg.SeatName(seat), Email: cfg.Email},
		Policy:        pol,
		ContinueDelay: cfg.ContinueDelay,
		SendTimeout:   cfg.SendTimeout,
		Logger:        log,
	}
	if store != nil {
		opts.Recorder = store
	}
	return session.New(stream, opts), pol, nil
}

func dial(ctx context.Context, cfg config.Config) (transport.Stream, error) {
	if cfg.Transport == config.TransportWebsocket {
		s, err := ws.Dial(ctx, cfg.Addr)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	s, err := grpcstream.Dial(ctx, cfg.Addr)
	if err != nil {
		return nil, err
	}
	return s, nil
}
