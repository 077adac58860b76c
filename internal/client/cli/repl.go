package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Connect(ctx context.Context, args []string) error
	Review(ctx context.Context, args []string) error
	Received(ctx context.Context, args []string) error
	Sent(ctx context.Context, args []string) error
	Connections(ctx context.Context, args []string) error
	Feed(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error
	Edit(ctx context.Context) error
	Picture(ctx context.Context, args []string) error
	Delete(ctx context.Context) error
}

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

const (
	guestHelp  = "Available commands: register, login, exit"
	memberHelp = "Available commands: feed, connect, review, received, sent, connections, status, profile, edit, picture, delete, logout, exit"
)

// dispatch runs one command line. It reports false when the user asked to
// leave.
func dispatch(ctx context.Context, a execIface, parts []string) bool {
	cmd, args := parts[0], parts[1:]

	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn(memberHelp)
		} else {
			printlnFn(guestHelp)
		}
	case "register":
		_ = a.Register(ctx)
	case "login":
		_ = a.Login(ctx)
	case "logout":
		_ = a.Logout(ctx)
	case "connect":
		_ = a.Connect(ctx, args)
	case "review":
		_ = a.Review(ctx, args)
	case "received":
		_ = a.Received(ctx, args)
	case "sent":
		_ = a.Sent(ctx, args)
	case "connections":
		_ = a.Connections(ctx, args)
	case "feed":
		_ = a.Feed(ctx, args)
	case "status":
		_ = a.Status(ctx, args)
	case "profile":
		_ = a.Profile(ctx, args)
	case "edit":
		_ = a.Edit(ctx)
	case "picture":
		_ = a.Picture(ctx, args)
	case "delete":
		_ = a.Delete(ctx)
	case "exit", "quit":
		printlnFn("Bye!")
		return false
	default:
		printlnFn("Unknown command:", cmd)
	}
	return true
}

// runREPL reads commands from scanner until EOF or exit. Command errors are
// printed by the handlers themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("devmatch %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		if !dispatch(ctx, a, parts) {
			return
		}
	}
}
