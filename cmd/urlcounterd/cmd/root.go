// Package cmd is the cobra CLI entrypoint, grounded in the teacher
// corpus's cmd/scheduler/cmd/root.go bootstrap: flags bind into a Config,
// viper applies an optional config file on top of them (environment
// variables are not read here), and RunE wires the
// collaborators together and blocks serving until shutdown.
package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/domainrank/urlcounter/internal/config"
	"github.com/domainrank/urlcounter/internal/log"
	"github.com/domainrank/urlcounter/internal/topology"
	"github.com/domainrank/urlcounter/internal/transport"
	"github.com/domainrank/urlcounter/pkg/approxtop"
	"github.com/domainrank/urlcounter/pkg/async"
	"github.com/domainrank/urlcounter/pkg/hitcounter"
)

var cfgFile string
var cfg = config.Default()

// RootCmd is the urlcounterd entrypoint.
var RootCmd = &cobra.Command{
	Use:               "urlcounterd",
	Short:             "a clustered, frequency-ordered domain hit counter",
	Args:              cobra.NoArgs,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := RootCmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "path to a urlcounterd config file")
	flags.StringVar(&cfg.NodeID, "node-id", cfg.NodeID, "this node's identity within the cluster")
	flags.StringVar(&cfg.Listen, "listen", cfg.Listen, "address this node's façade listens on")
	flags.DurationVar(&cfg.RPCTimeout, "rpc-timeout", cfg.RPCTimeout, "timeout for remote add-proxy and cluster-merge RPCs")
	flags.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable debug logging")
	flags.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "optional rotated log file path, in addition to stderr")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err == nil {
			_ = viper.Unmarshal(&cfg)
		}
	}
}

func run() error {
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	logger, err := log.New(log.Config{
		FilePath:   cfg.LogFile,
		MaxSizeMB:  100,
		MaxAgeDays: 7,
		MaxBackups: 3,
		Compress:   true,
		Verbose:    cfg.Verbose,
	})
	if err != nil {
		return errors.Wrap(err, "initializing logger")
	}
	defer logger.Sync() //nolint:errcheck

	router, err := topology.New(cfg.NodeID, cfg.NodeList())
	if err != nil {
		return errors.Wrap(err, "initializing topology")
	}

	counter := hitcounter.New()
	adapter := async.New(counter)
	client := transport.NewRemoteClient(&http.Client{Timeout: cfg.RPCTimeout}, cfg.Nodes)
	sketch := approxtop.NewHeavyKeeper(100, 1<<16, 4, 0.925, 1)
	handler := transport.NewHandler(adapter, router, client, logger, cfg.RPCTimeout, sketch)
	engine := transport.NewRouter(handler, cfg.Verbose)

	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go decayPeriodically(ctx, sketch, 5*time.Minute)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("serving", zap.String("node_id", cfg.NodeID), zap.String("listen", cfg.Listen))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutting down server")
		}
		if err := adapter.Close(shutdownCtx); err != nil {
			return errors.Wrap(err, "draining in-flight operations")
		}
		return nil
	case err := <-serveErr:
		if err != nil {
			return errors.Wrap(err, "serving")
		}
		return nil
	}
}

// decayPeriodically halves the heavy-hitter sketch's counts on interval,
// bounding its drift from the exact core over long process lifetimes. It
// exits when ctx is cancelled, i.e. on shutdown.
func decayPeriodically(ctx context.Context, sketch *approxtop.HeavyKeeper, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sketch.Decay()
		}
	}
}

// Execute runs the root command and is the sole entrypoint main() calls.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
