package cmd_match

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/rskv-p/busmatch/mod/m_match/match_api"
	"github.com/rskv-p/busmatch/mod/m_match/match_bus"
	"github.com/rskv-p/busmatch/mod/m_match/match_nats"
	"github.com/rskv-p/busmatch/pkg/x_log"
)

// serveCmd runs the broker behind the NATS bridge and the admin API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Route bus messages over NATS and serve the admin API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		lc, err := cfg.LogConfig()
		if err != nil {
			return err
		}
		if err := x_log.InitWithConfig(&lc, cfg.ServiceName); err != nil {
			return err
		}
		log := x_log.New("serve")
		log.Debug().Msg(cfg.String())

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var nc *nats.Conn
		if cfg.Embedded {
			e, err := match_nats.RunEmbedded(cfg.EmbeddedHost, cfg.EmbeddedPort)
			if err != nil {
				return err
			}
			defer e.Close()
			nc = e.Conn
			log.Info().Str("url", e.Server.ClientURL()).Msg("embedded NATS started")
		} else {
			nc, err = nats.Connect(cfg.NatsURL, nats.Name(cfg.ServiceName))
			if err != nil {
				return fmt.Errorf("nats connect: %w", err)
			}
			defer nc.Close()
		}

		broker := match_bus.NewBroker(
			match_bus.Options{MaxMatchesPerPeer: cfg.MaxMatchesPerPeer},
			x_log.New("broker"),
		)

		bridge := match_nats.NewBridge(nc, broker, cfg.SubjectPrefix, x_log.New("bridge"))
		if err := bridge.Start(); err != nil {
			return err
		}
		defer bridge.Close()

		if cfg.HTTPAddr == "" {
			<-ctx.Done()
			return nil
		}
		api := match_api.New(broker, cfg.JWTSecret, x_log.New("api"))
		return api.ListenAndServe(ctx, cfg.HTTPAddr)
	},
}
