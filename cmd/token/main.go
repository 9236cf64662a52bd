// Command token mints access tokens for operators and integrations.
//
//	go run ./cmd/token -subject ops@site -admin
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cmlabs-hris/mestri-payroll/internal/config"
	"github.com/cmlabs-hris/mestri-payroll/internal/pkg/jwt"
)

func main() {
	subject := flag.String("subject", "", "token subject (required)")
	admin := flag.Bool("admin", false, "grant write access to payroll, employees and mestris")
	ttl := flag.Duration("ttl", 0, "token lifetime; defaults to JWT_ACCESS_EXPIRATION_TIME")
	flag.Parse()

	if *subject == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	expiration := cfg.JWT.AccessExpiration
	if *ttl > 0 {
		expiration = *ttl
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, expiration, cfg.JWT.SSEExpiration).
		GenerateAccessToken(*subject, *admin)
	if err != nil {
		log.Fatal("Error generating token: ", err)
	}

	fmt.Fprintf(os.Stderr, "expires %s\n", time.Unix(expiresAt, 0).Format(time.RFC3339))
	fmt.Println(token)
}
