// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pdiddy/world-explorer/internal/explorer"
)

const prompt = "city;budget> "

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Run an interactive session of budget queries",
	Long: `Explore loads the dataset and flight cache once, then answers queries read
from standard input, one per line, in the form:

    Departure city;Budget

The city matches a dataset name, ASCII name, or alternate name, ignoring
case. Type quit or press Ctrl-D to leave. The flight cache is saved on exit,
including on SIGINT and SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.close(); cerr != nil && err == nil {
				err = cerr
			}
		}()

		addr, _ := cmd.Flags().GetString("metrics-addr")
		if addr != "" {
			srv := serveMetrics(addr, a.metrics.Handler())
			defer shutdownMetrics(srv)
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		return runREPL(ctx, a, cmd.InOrStdin(), cmd.OutOrStdout(), asJSON)
	},
}

func init() {
	exploreCmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	exploreCmd.Flags().Bool("json", false, "print results as JSON")

	rootCmd.AddCommand(exploreCmd)
}

// runREPL answers queries from in until EOF, "quit", or ctx is cancelled.
// Invalid lines and unknown cities are reported and the session continues.
//
// Lines are read on a separate goroutine. When runREPL returns before in is
// exhausted, that goroutine stays blocked in Read until in yields data, EOF,
// or an error; it then exits without delivering the line. Callers reusing
// runREPL with a long-lived reader should close it after runREPL returns.
func runREPL(ctx context.Context, a *app, in io.Reader, w io.Writer, asJSON bool) error {
	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-readCtx.Done():
				return
			}
		}
	}()

	fmt.Fprintf(w, "%d cities loaded. Enter queries as \"Departure city;Budget\".\n", a.index.Len())
	for {
		fmt.Fprint(w, prompt)
		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(w)
			log.Info().Msg("interrupted, shutting down")
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(w)
				return nil
			}
			line = strings.TrimSpace(l)
		}

		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit":
			return nil
		}

		from, budget, err := explorer.ParseQuery(line)
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			continue
		}

		start := time.Now()
		out, err := a.query(ctx, from, budget)
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			continue
		}
		if asJSON {
			if err := explorer.FormatJSON(out, w); err != nil {
				return err
			}
		} else {
			explorer.FormatTable(out, w)
		}
		log.Debug().Dur("elapsed", time.Since(start)).Msg("query answered")
	}
}

func serveMetrics(addr string, h http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", addr).Msg("metrics server failed")
		}
	}()
	log.Info().Str("addr", addr).Msg("serving metrics")
	return srv
}

func shutdownMetrics(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("metrics server shutdown")
	}
}
