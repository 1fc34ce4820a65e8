package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/brettbedarf/dirindex"
	"github.com/brettbedarf/dirindex/config"
	"github.com/brettbedarf/dirindex/internal/util"
	"github.com/brettbedarf/dirindex/plugin"
	"github.com/brettbedarf/dirindex/server"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
)

var (
	configPath string
	addr       string
	policyName string
	indexDoc   string
	pluginName string
	verbose    int
)

var rootCmd = &cobra.Command{
	Use:   "dirindex [root]",
	Short: "Serve a directory tree over HTTP with generated directory indexes",
	Long: `dirindex serves static files from root (default ".") and renders an HTML
listing for directories. With the direct policy every directory is listed;
with the fallback policy a listing is only produced when the directory has
no index document.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a yaml or json config file")
	rootCmd.Flags().StringVarP(&addr, "addr", "a", config.DefaultAddr, "Address to listen on")
	rootCmd.Flags().StringVarP(&policyName, "policy", "p", config.DefaultPolicy, "Interception policy: direct or fallback")
	rootCmd.Flags().StringVar(&indexDoc, "index", config.DefaultIndexDocument, "Index document name")
	rootCmd.Flags().StringVar(&pluginName, "name", config.DefaultPluginName, "Plugin name used in logs")
	rootCmd.Flags().IntVarP(&verbose, "verbose", "v", config.InfoVerbose,
		"Log verbosity level between 1 (error) and 5 (trace)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// loadConfig layers defaults, the optional config file, then explicitly set flags
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewDefaultConfig()
	if configPath != "" {
		override, err := config.LoadConfigOverrideFile(configPath)
		if err != nil {
			return nil, err
		}
		cfg.Merge(override)
	}

	flags := &config.ConfigOverride{}
	if len(args) > 0 {
		flags.RootDir = &args[0]
	}
	if cmd.Flags().Changed("addr") {
		flags.Addr = &addr
	}
	if cmd.Flags().Changed("policy") {
		flags.Policy = &policyName
	}
	if cmd.Flags().Changed("index") {
		flags.IndexDocument = &indexDoc
	}
	if cmd.Flags().Changed("name") {
		flags.PluginName = &pluginName
	}
	if cmd.Flags().Changed("verbose") {
		flags.LogLvl = &verbose
	}
	cfg.Merge(flags)

	return cfg, cfg.Validate()
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	util.InitializeLogger(cfg.LogLvl)
	logger := util.GetLogger("main")
	logger.Info().
		Str("root", cfg.RootDir).
		Str("policy", cfg.Policy).
		Str("index", cfg.IndexDocument).
		Msg("dirindex initializing")

	reg := plugin.NewRegistry()
	plugin.RegisterBuiltins(reg)
	policy, err := reg.NewPolicy(cfg.Policy, dirindex.HostConfig{
		RootDir:       cfg.RootDir,
		IndexDocument: cfg.IndexDocument,
	})
	if err != nil {
		return err
	}

	fsys := osfs.New("/")
	plg := plugin.New(plugin.Options{Name: cfg.PluginName, Policy: policy, FS: fsys})

	srv, err := server.New(cfg, fsys, plg)
	if err != nil {
		return err
	}
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	done := srv.ServeAsync()

	select {
	case err := <-done:
		return err
	case sig := <-signalChan:
		logger.Info().Str("signal", sig.String()).Msg("Received signal, shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Failed to shut down cleanly")
		return err
	}
	if err := <-done; err != nil {
		return err
	}
	logger.Info().Msg("Server stopped")
	return nil
}
