package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/go-lemac/lemacd/internal/config"
	"github.com/go-lemac/lemacd/internal/logging"
	"github.com/go-lemac/lemacd/internal/plugins"
	"github.com/go-lemac/lemacd/internal/server"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the lemacd tag server",
	Long:  `Start the TCP server that computes and verifies MAC tags on behalf of remote clients.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.Get()

		logging.InitLogger(cfg.Log.Level == "debug", cfg.Log.Format == "human")

		if err := os.MkdirAll(cfg.Plugin.Path, 0o755); err != nil {
			return fmt.Errorf("failed to create plugin directory: %w", err)
		}

		pluginManager := plugins.NewPluginManager(cmd.Context())
		if err := pluginManager.LoadAll(cfg.Plugin.Path); err != nil {
			return fmt.Errorf("failed to load plugins: %w", err)
		}
		logLoadedPlugins(pluginManager, "loaded")

		serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		srv, err := server.NewServer(serverAddr, pluginManager)
		if err != nil {
			return fmt.Errorf("failed to initialize server: %w", err)
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		reloadChan := make(chan os.Signal, 1)
		signal.Notify(reloadChan, syscall.SIGHUP)
		go func() {
			for range reloadChan {
				newPM := plugins.NewPluginManager(ctx)
				if err := newPM.LoadAll(cfg.Plugin.Path); err != nil {
					log.Error().Err(err).Msg("failed to reload plugins")

					continue
				}

				srv.SetPluginManager(newPM)
				log.Info().Msg("plugins reloaded")
				logLoadedPlugins(newPM, "reloaded")
			}
		}()
		defer signal.Stop(reloadChan)

		if err := srv.Start(); err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}

		stopChan := make(chan os.Signal, 1)
		signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-stopChan
		log.Info().Str("signal", sig.String()).Msg("shutting down server")

		if err := srv.Stop(); err != nil {
			log.Error().Err(err).Msg("error during shutdown")

			return err
		}

		return nil
	},
}

func logLoadedPlugins(pm *plugins.PluginManager, verb string) {
	log.Debug().Str("event", "plugins_"+verb).Msg(verb + " algorithm plugins")
	for _, name := range pm.ListPlugins() {
		version, description, author := pm.GetPluginMetadata(name)
		log.Debug().
			Str("algorithm", name).
			Str("version", version).
			Str("description", description).
			Str("author", author).
			Msg("plugin details")
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "localhost", "server host")
	serveCmd.Flags().Int("port", 1600, "server port")

	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}
