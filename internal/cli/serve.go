package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/poolkit/internal/server"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, redisURL string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Configuration is read from the environment (POOLKIT_ADDR, POOLKIT_REDIS_URL,
POOLKIT_CACHE_DIR, POOLKIT_CACHE_TTL_SECONDS, POOLKIT_SESSION_TTL_SECONDS,
POOLKIT_MAX_BODY_BYTES). Flags override the environment.

Without a Redis URL, layouts are cached on disk and pool sessions are kept
in memory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := server.LoadConfig()
			if addr != "" {
				cfg.Addr = addr
			}
			if redisURL != "" {
				cfg.RedisURL = redisURL
			}

			s, err := server.Open(cmd.Context(), cfg, c.Logger)
			if err != nil {
				return err
			}
			defer s.Close()
			return s.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&redisURL, "redis", "", "redis URL for the shared cache and sessions")
	return cmd
}
