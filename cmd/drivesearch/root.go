package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/drivesearch-mcp/internal/config"
	"github.com/dshills/drivesearch-mcp/internal/logging"
	"github.com/dshills/drivesearch-mcp/internal/remote"
	"github.com/dshills/drivesearch-mcp/internal/service"
	"github.com/dshills/drivesearch-mcp/internal/storage"
	"github.com/dshills/drivesearch-mcp/internal/synonyms"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	cfgFile string
	v       = config.New()
	appCfg  *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "drivesearch",
	Short: "Search a Google Drive folder tree for documents by name.",
	Long: `Mirrors a Google Drive folder tree into a local cache and searches every
folder in it for documents whose names match all keywords, expanded with
spelling and script variants.

  drivesearch search "happy birthday"
  drivesearch serve
  `,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		appCfg = cfg
		return logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Sync()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"drivesearch MCP Server\nVersion: %s\nBuild Time: %s\nBuild Mode: %s\nSQLite Driver: %s\n",
		version, buildTime, storage.BuildMode, storage.DriverName))

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("db", config.DefaultDBDSN, "database path or DSN")
	rootCmd.PersistentFlags().String("root", "", "default root folder ID")
	_ = v.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag(config.KeyDBDSN, rootCmd.PersistentFlags().Lookup("db"))
	_ = v.BindPFlag(config.KeyRootFolderID, rootCmd.PersistentFlags().Lookup("root"))

	rootCmd.AddCommand(serveCmd, searchCmd, listCmd, refreshCmd, invalidateCmd, synonymsCmd, statusCmd)
}

// app holds what a command opened so it can be closed afterwards
type app struct {
	store  storage.Storage
	drive  *remote.Drive
	svc    *service.Service
	logger *zap.Logger
}

func (a *app) Close() {
	if a.store != nil {
		_ = a.store.Close()
	}
}

// openApp opens storage and builds the service. Commands that only touch the
// local cache pass withRemote=false and need no Drive credentials.
func openApp(ctx context.Context, withRemote bool) (*app, error) {
	logger := logging.L()

	store, err := storage.Open(appCfg.DBDriver, appCfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a := &app{store: store, logger: logger}

	var rem service.Remote
	if withRemote {
		drive, err := remote.NewDrive(ctx, remote.DriveConfig{
			CredentialsFile: appCfg.CredentialsFile,
			CredentialsJSON: appCfg.CredentialsJSON,
			Concurrency:     appCfg.BatchConcurrency,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		a.drive = drive
		rem = drive
	}

	dict := synonyms.DefaultDictionary()
	if appCfg.SynonymsFile != "" {
		dict, err = synonyms.LoadDictionary(appCfg.SynonymsFile)
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	svc, err := service.New(store, rem, service.Options{
		RootFolderID: appCfg.RootFolderID,
		MaxAge:       appCfg.CacheMaxAge(),
		ChunkSize:    appCfg.BatchChunkSize,
		MimeType:     appCfg.TargetMimeType,
		Synonyms: synonyms.Config{
			Dictionary: dict,
			Script:     synonyms.NewScript(appCfg.ScriptExpansion),
			LRUSize:    appCfg.SynonymLRUSize,
		},
		Logger: logger,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.svc = svc
	return a, nil
}

// bindFlag binds a command flag to a config key
func bindFlag(cmd *cobra.Command, key, flag string) {
	cobra.CheckErr(v.BindPFlag(key, cmd.Flags().Lookup(flag)))
}
