// Package cli implements the interactive devmatch command line client.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/devmatch/internal/client/client"
	"github.com/dmitrijs2005/devmatch/internal/client/config"
	"github.com/dmitrijs2005/devmatch/internal/netx"
)

var (
	readFile = os.ReadFile
	upload   = netx.UploadToPresignedURL
)

type App struct {
	config   *config.Config
	client   client.Client
	reader   *bufio.Reader
	out      io.Writer
	userName string
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewDevmatchClient(c.ServerEndpointAddr, c.AccessToken)
	if err != nil {
		return nil, err
	}
	return &App{config: c, client: apiClient, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

// Run starts the REPL on stdin. When args name a command it is executed
// once instead.
func (a *App) Run(ctx context.Context, args []string) {
	defer a.client.Close()

	if len(args) > 0 {
		dispatch(ctx, a, args)
		return
	}

	fmt.Fprintln(a.out, "devmatch CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, bufio.NewScanner(a.reader))
}

func (a *App) status() string {
	if !a.client.LoggedIn() {
		return "(guest)"
	}
	if a.userName == "" {
		return "(token)"
	}
	return "(" + a.userName + ")"
}

func (a *App) isLoggedIn() bool { return a.client.LoggedIn() }

// call bounds a single request by the configured timeout.
func (a *App) call(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) fail(err error) error {
	fmt.Fprintln(a.out, "error:", err)
	return err
}
