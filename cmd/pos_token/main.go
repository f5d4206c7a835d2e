// Command pos_token mints bearer tokens for the write routes of pos_backend.
//
//	pos_token -subject register-1 -ttl 720h
//	pos_token -new-secret
//
// The signing secret is read from API_JWT_SECRET (environment or .env).
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/pos_app/internal/platform/config"
	"github.com/SscSPs/pos_app/internal/platform/logging"
	"github.com/SscSPs/pos_app/internal/utils"
)

func main() {
	subject := flag.String("subject", "", "Register or client the token is issued to")
	ttl := flag.Duration("ttl", 30*24*time.Hour, "Token lifetime")
	issuer := flag.String("issuer", utils.DefaultTokenIssuer, "Issuer claim")
	newSecret := flag.Bool("new-secret", false, "Print a random value suitable for API_JWT_SECRET and exit")
	flag.Parse()

	logger := logging.NewWithWriter(os.Stderr, "info")

	if *newSecret {
		secret, err := utils.GenerateSecureRandomString(32)
		if err != nil {
			logger.Error("Failed to generate secret", slog.String("error", err.Error()))
			os.Exit(1)
		}
		fmt.Println(secret)
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.APIJWTSecret == "" {
		logger.Error("API_JWT_SECRET is not set; write routes are unauthenticated and need no token")
		os.Exit(1)
	}

	token, err := utils.GenerateAPIToken(*subject, cfg.APIJWTSecret, *ttl, *issuer, time.Now())
	if err != nil {
		logger.Error("Failed to generate token", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Println(token)
}
