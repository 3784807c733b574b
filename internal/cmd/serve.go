package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"github.com/marcobit/clawcrm/internal/config"
	"github.com/marcobit/clawcrm/internal/handlers"
	"github.com/marcobit/clawcrm/internal/logger"
	"github.com/marcobit/clawcrm/internal/middleware"
)

var (
	serveAddr string
	serveDev  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard facade server",
	Long: `# 🌐 clawcrm serve

Runs the HTTP facade the browser dashboard talks to. The server fronts the
gateway's tool-invocation endpoint and its on-disk files; it holds no state
of its own.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides CLAWCRM_ADDR)")
	serveCmd.Flags().BoolVar(&serveDev, "dev", false, "pretty console logging")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger.Configure(logger.LevelFromEnv(serveDev), serveDev)

	rt := config.Detect()
	if serveAddr != "" {
		rt.ListenAddr = serveAddr
	}

	catalog, err := config.LoadCatalog(rt.ChannelsPath)
	if err != nil {
		return fmt.Errorf("failed to load channel catalog: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "clawcrm",
		DisableStartupMessage: true,
	})
	handlers.RegisterRoutes(app, handlers.NewServices(rt, catalog), middleware.NewAuth(rt.FacadeToken))

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-done
		logger.Infof("Shutting down")
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			logger.Errorf("Shutdown failed: %v", err)
		}
	}()

	logger.Infof("ClawCRM facade listening on %s (gateway %s)", rt.ListenAddr, rt.GatewayBaseURL)
	if err := app.Listen(rt.ListenAddr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
