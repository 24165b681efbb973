// Command portfolio runs the portfolio backend: a JSON API serving the
// public portfolio site and the admin/client dashboard.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/amoran/portfolio/internal/api"
	"github.com/amoran/portfolio/internal/auth"
	"github.com/amoran/portfolio/internal/config"
	"github.com/amoran/portfolio/internal/db"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Portfolio backend with an admin/client dashboard API",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		logger := newLogger(cfg.LogLevel)

		database, err := db.Open(cfg.DataDir)
		if err != nil {
			return err
		}
		defer database.Close()

		if cfg.Seed {
			if err := database.Seed(); err != nil {
				return err
			}
		}
		if cfg.JWTSecret == "" {
			logger.Warn().Msg("jwt_secret not set; only the public surface is reachable")
		}

		mux := http.NewServeMux()
		api.New(database, logger, cfg.JWTSecret).Register(mux, cfg.RoutePath)

		logger.Info().Str("addr", cfg.Addr).Str("route", cfg.RoutePath).Msg("listening")
		return http.ListenAndServe(cfg.Addr, mux)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the default records into any empty collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		database, err := db.Open(cfg.DataDir)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := database.Seed(); err != nil {
			return err
		}
		fmt.Println("seeded")
		return nil
	},
}

var (
	tokenEmail string
	tokenRole  string
	tokenTTL   time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for local or test use",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		token, err := auth.IssueToken(cfg.JWTSecret, tokenEmail, tokenRole, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "portfolio.yaml", "path to config file")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email claim")
	tokenCmd.Flags().StringVar(&tokenRole, "role", auth.RoleClient, "user_type claim (admin or client)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	tokenCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(serveCmd, seedCmd, tokenCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
