package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/server"
	"github.com/Zachkp/portfolio/internal/store"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the portfolio web server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != "" {
		cfg.Port = servePort
	}
	gin.SetMode(cfg.GinMode)

	c, err := loadContent(cfg)
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}

	var st *store.Store
	if cfg.DBPath != "" {
		salt := cfg.HashSalt
		if salt == "" {
			salt = server.GenerateToken()
		}
		st, err = store.Open(cfg.DBPath, salt)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer st.Close()
	} else {
		log.Println("DB_PATH is empty, visitor tracking and admin are disabled")
	}
	if st != nil && !cfg.AdminEnabled() {
		log.Println("ADMIN_PASSWORD is not set, admin login is disabled")
	}

	srv, err := server.New(cfg, c, st)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
