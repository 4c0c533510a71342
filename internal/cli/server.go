// Package cli builds the cobra command trees for ignite-server and
// ignite-client; cmd/ignite-server and cmd/ignite-client are thin mains
// that call into it.
package cli

import (
	"context"
	"fmt"
	"net"
	"path/filepath"
	"strings"

	igengine "github.com/ignitekv/ignite/internal/engine"
	"github.com/ignitekv/ignite/internal/pool"
	igserver "github.com/ignitekv/ignite/internal/server"
	"github.com/ignitekv/ignite/internal/sled"
	"github.com/ignitekv/ignite/internal/storage"
	"github.com/ignitekv/ignite/pkg/config"
	"github.com/ignitekv/ignite/pkg/filesys"
	"github.com/ignitekv/ignite/pkg/logger"
	"github.com/ignitekv/ignite/pkg/options"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// engineMarkerFile records which backend this server's working directory
// has been serving, so a later run with a different --engine fails fast
// instead of reading someone else's segment format.
const engineMarkerFile = "engine.log"

// NewServerCommand builds the ignite-server root command.
func NewServerCommand() *cobra.Command {
	var (
		addr                string
		engineName          string
		dataDir             string
		compactionThreshold uint64
		workers             int
		development         bool
	)

	cmd := &cobra.Command{
		Use:           "ignite-server",
		Short:         "Run the ignite key-value store server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.Bind(cmd.Flags())
			if err != nil {
				return err
			}

			addr = v.GetString("addr")
			engineName = v.GetString("engine")
			dataDir = v.GetString("data-dir")
			compactionThreshold = v.GetUint64("compaction-threshold")
			workers = v.GetInt("workers")
			development = v.GetBool("development")

			return runServer(serverConfig{
				addr:                addr,
				engineName:          engineName,
				dataDir:             dataDir,
				compactionThreshold: compactionThreshold,
				workers:             workers,
				development:         development,
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&addr, "addr", config.DefaultAddr, "IP:PORT to listen on")
	flags.StringVar(&engineName, "engine", "kvs", "backend engine, kvs or sled")
	flags.StringVar(&dataDir, "data-dir", ".", "directory to store engine data in")
	flags.Uint64Var(&compactionThreshold, "compaction-threshold", options.DefaultCompactionThreshold, "stale bytes before compaction runs (kvs engine only)")
	flags.IntVar(&workers, "workers", 4, "shared-queue thread pool size")
	flags.BoolVar(&development, "development", false, "use a console-friendly development logger")

	return cmd
}

type serverConfig struct {
	addr                string
	engineName          string
	dataDir             string
	compactionThreshold uint64
	workers             int
	development         bool
}

func runServer(cfg serverConfig) error {
	cfg.engineName = strings.TrimSpace(strings.ToLower(cfg.engineName))
	if cfg.engineName != "kvs" && cfg.engineName != "sled" {
		return fmt.Errorf("wrong engine option, please use `kvs` or `sled`")
	}

	if err := checkEngineMarker(cfg.engineName); err != nil {
		return err
	}

	log, err := logger.New(logger.Options{Development: cfg.development})
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer log.Sync()

	eng, err := openEngine(cfg, log)
	if err != nil {
		return err
	}
	defer eng.Close()

	workerPool, err := pool.NewSharedQueueThreadPool(cfg.workers)
	if err != nil {
		return fmt.Errorf("failed to start thread pool: %w", err)
	}
	defer workerPool.Close()

	ln, err := net.Listen("tcp", cfg.addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", cfg.addr, err)
	}
	defer ln.Close()

	log.Infow("ignite-server listening", "addr", cfg.addr, "engine", cfg.engineName)

	srv := igserver.New(eng, workerPool, log)
	return srv.Serve(ln)
}

func openEngine(cfg serverConfig, log *zap.SugaredLogger) (igengine.Engine, error) {
	if cfg.engineName == "sled" {
		if err := filesys.CreateDir(cfg.dataDir, 0755, true); err != nil {
			return nil, err
		}
		return sled.Open(filepath.Join(cfg.dataDir, "ignite.sled"))
	}

	opts, err := options.New(
		options.WithDataDir(cfg.dataDir),
		options.WithCompactionThreshold(cfg.compactionThreshold),
	)
	if err != nil {
		return nil, err
	}
	return storage.Open(context.Background(), &storage.Config{Options: opts, Logger: log})
}

// checkEngineMarker enforces that a server is only ever reopened with the
// engine it was first started with. The marker lives next to the process,
// not inside --data-dir: it records which engine this working directory
// has been serving, independent of where that engine happens to keep its
// files.
func checkEngineMarker(engineName string) error {
	path := engineMarkerFile
	exists, err := filesys.Exists(path)
	if err != nil {
		return err
	}
	if !exists {
		return filesys.WriteFile(path, 0644, []byte(engineName))
	}

	contents, err := filesys.ReadFile(path)
	if err != nil {
		return err
	}
	if strings.TrimSpace(string(contents)) != engineName {
		return fmt.Errorf("engine option doesn't match existing one")
	}
	return nil
}
