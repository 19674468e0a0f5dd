package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ogurasousui/hr-employee-service/internal/platform/logger"
	"github.com/rs/zerolog"
)

func main() {
	var (
		listenAddr = flag.String("listen", ":5057", "address to listen on")
		eligible   = flag.String("eligible", "72f2f5fe-e50c-4966-8420-d50258aefdcb", "comma separated employee ids that are eligible for promotion")
		fallback   = flag.Bool("default", false, "eligibility returned for employees not listed in -eligible")
		level      = flag.String("log-level", "info", "log level")
	)
	flag.Parse()

	lvl, err := zerolog.ParseLevel(*level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	l := logger.NewWithWriter(os.Stdout, lvl).With().Str("component", "eligibility-stub").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              *listenAddr,
		Handler:           newRouter(l, newDirectory(splitIDs(*eligible), *fallback)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	l.Info().Str("listen_addr", *listenAddr).Msg("eligibility stub listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Fatal().Err(err).Msg("eligibility stub stopped with error")
	}
}

func splitIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
