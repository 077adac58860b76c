package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/devmatch/internal/flagx"
)

// parseFlags applies -a, -t and -timeout. Other arguments are left to
// other consumers.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-timeout", "--a", "--t", "--timeout"})

	fs := flag.NewFlagSet("devmatch-cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port of the server")
	fs.StringVar(&cfg.AccessToken, "t", cfg.AccessToken, "access token")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "per-request timeout")

	return fs.Parse(args)
}
