package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"implidx/internal/common/fsutil"
	"implidx/internal/config"
	"implidx/internal/fragment"
	"implidx/internal/httpapi"
	"implidx/internal/index"
	"implidx/internal/registry"
)

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	logLevel := "info"
	root := &cobra.Command{
		Use:           "implidxd",
		Short:         "Documentation implementor-index daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", logLevel, "Log level: debug|info|warn|error")
	root.AddCommand(buildServeCmd(&logLevel))
	root.AddCommand(buildCheckCmd())
	return root
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()
}

func buildServeCmd(logLevel *string) *cobra.Command {
	var (
		cfgPath      string
		addr         string
		fragmentsDir string
		snapshotPath string
		corsOrigins  []string
		maxBodyBytes int64
		deferBind    bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load fragments, bind the index and serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Precedence: config file < env < flags.
			var cfg config.Config
			if cfgPath != "" {
				loaded, err := config.Load(cfgPath)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				cfg = loaded
			}
			cfg, err := config.FromEnv(cfg)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") || cfg.Addr == "" {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("fragments-dir") {
				cfg.FragmentsDir = fragmentsDir
			}
			if cmd.Flags().Changed("snapshot") {
				cfg.SnapshotPath = snapshotPath
			}
			if cmd.Flags().Changed("cors-origin") {
				cfg.CORSOrigins = corsOrigins
			}
			if cmd.Flags().Changed("max-body-bytes") {
				cfg.MaxBodyBytes = maxBodyBytes
			}
			if cfg.LogLevel == "" || cmd.Flags().Changed("log-level") {
				cfg.LogLevel = *logLevel
			}
			return runServe(cfg, deferBind)
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "Optional config file (.yaml/.json/.toml)")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "HTTP listen address, e.g. :8080")
	cmd.Flags().StringVar(&fragmentsDir, "fragments-dir", "", "Directory to scan for implementor fragment files (*.js, *.json)")
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Path for the JSON index snapshot (empty disables persistence)")
	cmd.Flags().StringArrayVar(&corsOrigins, "cors-origin", nil, "Allowed CORS origin (repeatable; default *)")
	cmd.Flags().Int64Var(&maxBodyBytes, "max-body-bytes", 0, "Max request body size for POST /implementors (0 = 1MiB default)")
	cmd.Flags().BoolVar(&deferBind, "defer-bind", false, "Publish fragments before binding the index, mirroring an asynchronous page-load order")
	return cmd
}

func runServe(cfg config.Config, deferBind bool) error {
	log := newLogger(cfg.LogLevel)

	reg := registry.New()
	reg.SetLogger(log)
	if cfg.SnapshotPath != "" && !fsutil.PathExists(filepath.Dir(cfg.SnapshotPath)) {
		log.Warn().Str("path", cfg.SnapshotPath).Msg("snapshot directory missing, persistence writes will fail")
	}
	ix := index.New(index.Config{
		SnapshotPath:        cfg.SnapshotPath,
		RequireRegistration: cfg.FragmentsDir != "",
		Logger:              &log,
	})

	publish := func() error {
		if cfg.FragmentsDir == "" {
			return nil
		}
		frags, err := fragment.LoadDir(cfg.FragmentsDir)
		if err != nil {
			return fmt.Errorf("load fragments: %w", err)
		}
		for _, f := range frags {
			mode := reg.Publish(f.Map)
			log.Info().Str("file", f.Name).Int("components", len(f.Map)).Str("mode", string(mode)).Msg("fragment published")
		}
		return nil
	}

	if deferBind {
		// Asynchronous load order: fragments land in the pending slot,
		// binding the index afterwards drains the last one.
		if err := publish(); err != nil {
			return err
		}
		ix.Bind(reg)
	} else {
		ix.Bind(reg)
		if err := publish(); err != nil {
			return err
		}
	}

	httpapi.SetLogger(log)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetCORSOrigins(cfg.CORSOrigins)

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	mux := httpapi.NewMux(ix, reg)
	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("fragments_dir", cfg.FragmentsDir).Msg("implidxd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-stop:
	}
	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
	return nil
}

func buildCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <path>...",
		Short: "Validate implementor fragment files or directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var failed bool
			for _, path := range args {
				info, err := os.Stat(path)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					failed = true
					continue
				}
				var frags []fragment.Fragment
				if info.IsDir() {
					frags, err = fragment.LoadDir(path)
				} else {
					var f fragment.Fragment
					f, err = fragment.LoadFile(path)
					frags = []fragment.Fragment{f}
				}
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					failed = true
					continue
				}
				for _, f := range frags {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %d components, %d entries\n", f.Name, len(f.Map), f.Map.EntryCount())
				}
			}
			if failed {
				return fmt.Errorf("one or more fragments failed validation")
			}
			return nil
		},
	}
}
