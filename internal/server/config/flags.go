package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/devmatch/internal/flagx"
)

var serverFlags = []string{
	"-a", "-l", "-k", "-d", "-m", "-n", "-s", "-t",
	"-o", "-v", "-u", "-p", "-b", "-g", "-e", "-x",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string     gRPC bind address (e.g. ":50051")
//	-l string     health HTTP bind address
//	-k string     storage backend: postgres, mongo or memory
//	-d string     PostgreSQL DSN
//	-m string     MongoDB URI
//	-n string     MongoDB database name
//	-s string     JWT HMAC secret key
//	-t duration   access token validity (e.g. "168h")
//	-o string     log backend: slog or zap
//	-v string     log level
//	-u, -p        S3 root user / password
//	-b, -g, -e    S3 bucket / region / base endpoint
//	-x duration   presigned URL expiry
//
// Arguments are pre-filtered with flagx.FilterArgs so flags owned by other
// loaders (-c, -env) do not make parsing fail.
func parseFlags(config *Config, args []string) error {
	filtered := flagx.FilterArgs(args, serverFlags)

	fs := flag.NewFlagSet("devmatch", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run gRPC server")
	fs.StringVar(&config.HealthAddr, "l", config.HealthAddr, "address and port to run health server")
	fs.StringVar(&config.StorageBackend, "k", config.StorageBackend, "storage backend")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.MongoURI, "m", config.MongoURI, "mongo URI")
	fs.StringVar(&config.MongoDatabase, "n", config.MongoDatabase, "mongo database")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.AccessTokenValidityDuration, "t", config.AccessTokenValidityDuration, "access token validity")
	fs.StringVar(&config.LogBackend, "o", config.LogBackend, "log backend")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.DurationVar(&config.PresignExpiry, "x", config.PresignExpiry, "presigned URL expiry")

	return fs.Parse(filtered)
}
