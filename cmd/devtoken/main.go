// Command devtoken prints a bearer token for local testing.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ariefcatur/go-wholesale-rfq/internal/auth"
	"github.com/ariefcatur/go-wholesale-rfq/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	user := pflag.StringP("user", "u", "", "user id to embed in the token")
	role := pflag.StringP("role", "r", string(auth.RoleBuyer), "BUYER, SUPPLIER or ADMIN")
	ttl := pflag.Duration("ttl", 24*time.Hour, "token lifetime")
	pflag.Parse()

	if *user == "" {
		pflag.Usage()
		os.Exit(2)
	}
	tok, err := auth.NewIssuer(cfg.JWTSecret, cfg.JWTIssuer).Sign(auth.Principal{UserID: *user, Role: auth.Role(*role)}, *ttl)
	if err != nil {
		log.Fatalf("sign: %v", err)
	}
	fmt.Println(tok)
}
