package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/slack-go/slack"
	"github.com/spf13/cobra"

	"chatrelay/internal/config"
	"chatrelay/internal/engine"
	"chatrelay/internal/relay"
	"chatrelay/internal/server"
	"chatrelay/internal/session"
	"chatrelay/internal/tenant"
)

var allowAllOrigins bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the relay server",
	Long: `Starts the webhook server: verifies and receives Slack events, relays
them to the conversational engine and posts replies back to Slack.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		store, closeStore, err := buildStore(cfg)
		if err != nil {
			return fmt.Errorf("opening session store: %w", err)
		}
		defer closeStore()

		gateway := engine.NewClient(cfg.Engine.URL)

		var (
			resolver    relay.Resolver
			registry    *tenant.Registry
			installLink string
		)
		if cfg.MultiTenant() {
			registry = tenant.NewRegistry()
			resolver = registry
			installLink = tenant.InstallURL(cfg.Slack.ClientID)
		} else {
			resolver = relay.NewStaticResolver(slack.New(cfg.Slack.BotToken))
		}

		dispatcher := relay.NewDispatcher(store, gateway, resolver)
		handler := relay.NewSlackHandler(dispatcher, cfg.Slack.SigningSecret)

		srv := server.New(server.Config{Port: cfg.Port, InstallLink: installLink, AllowAll: allowAllOrigins})
		relay.RegisterRoutes(srv.Router(), handler)
		if registry != nil {
			oauth := tenant.NewOAuthHandler(cfg.Slack.ClientID, cfg.Slack.ClientSecret, cfg.Slack.RedirectURL, registry)
			tenant.RegisterRoutes(srv.Router(), oauth)
		}

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			log.Println("shutting down")
			srv.Shutdown(context.Background())
		}()

		if err := srv.Start(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

// buildStore creates the session store selected by configuration and returns
// it with a cleanup func.
func buildStore(cfg *config.Config) (session.Store, func(), error) {
	switch cfg.Session.Backend {
	case config.BackendRedis:
		store, err := session.NewRedis(cfg.Session.RedisURL, cfg.Session.TTL)
		if err != nil {
			return nil, nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("pinging redis: %w", err)
		}
		return store, func() { store.Close() }, nil

	case config.BackendSQLite:
		store, err := session.NewSQLite(cfg.Session.SQLitePath, cfg.Session.TTL)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil

	default:
		return session.NewMemory(), func() {}, nil
	}
}

func init() {
	serveCmd.Flags().BoolVar(&allowAllOrigins, "allow-all-origins", false, "Allow all CORS origins (dev mode)")
	rootCmd.AddCommand(serveCmd)
}
