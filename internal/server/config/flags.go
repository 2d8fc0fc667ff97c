package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/usersvc/internal/flagx"
)

// serverFlags are the flags parseFlags understands. Anything else in args
// is left for other layers.
var serverFlags = []string{"-a", "-g", "-m", "-d", "-s", "-t", "-b", "-e", "-l"}

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC bind address (e.g., ":50051")
//	-m string   storage driver: memory, postgres or sqlite
//	-d string   database DSN
//	-s string   token HMAC secret key
//	-t int      token validity, minutes
//	-b int      bcrypt cost
//	-e string   bootstrap admin email
//	-l int      auth requests per minute per client
//
// Duration flags are accepted as integers in minutes and then converted
// to time.Duration values.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, serverFlags)

	fs := flag.NewFlagSet("usersvc", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.StorageDriver, "m", config.StorageDriver, "storage driver (memory, postgres, sqlite)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity (in minutes)")
	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.AdminEmail, "e", config.AdminEmail, "bootstrap admin email")
	fs.IntVar(&config.RateLimitPerMinute, "l", config.RateLimitPerMinute, "auth requests per minute per client")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	// only override the duration when -t was given; minutes would truncate
	// sub-minute values from other layers
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
		}
	})

	return nil
}
