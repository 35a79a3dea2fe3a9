// Package cli implements the client commands.
package cli

import (
	"context"
	"fmt"

	"github.com/scanvocab/scanvocab/internal/client/auth"
	"github.com/scanvocab/scanvocab/internal/client/iocli"
	"github.com/scanvocab/scanvocab/internal/client/progress"
	"github.com/scanvocab/scanvocab/internal/client/sync"
)

// Cli dispatches commands to the client services.
type Cli struct {
	io        iocli.IO
	auth      *auth.Service
	progress  *progress.Service
	sync      *sync.Service
	probe     sync.Prober
	scheduler *sync.Scheduler
}

func New(
	io iocli.IO,
	authService *auth.Service,
	progressService *progress.Service,
	syncService *sync.Service,
	probe sync.Prober,
	scheduler *sync.Scheduler,
) *Cli {
	return &Cli{
		io:        io,
		auth:      authService,
		progress:  progressService,
		sync:      syncService,
		probe:     probe,
		scheduler: scheduler,
	}
}

// Run executes one command.
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return c.runRegister(ctx)
	case "login":
		return c.runLogin(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "quiz":
		return c.runQuiz(ctx, args)
	case "review":
		return c.runReview(ctx, args)
	case "stats":
		return c.runStats(ctx, args)
	case "sync":
		return c.runSync(ctx)
	case "watch":
		return c.runWatch(ctx)
	case "help", "":
		c.PrintUsage()
		return nil
	default:
		c.PrintUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

// PrintUsage prints the command summary.
func (c *Cli) PrintUsage() {
	printUsage(c.io)
}

// PrintUsage prints the command summary to stdout. Used by main before
// the command stack is built.
func PrintUsage() {
	printUsage(iocli.NewStdio())
}

func printUsage(out iocli.IO) {
	out.Println("Usage: scanvocab <command> [flags]")
	out.Println("")
	out.Println("Commands:")
	out.Println("  register   create an account")
	out.Println("  login      log in and adopt local progress")
	out.Println("  logout     remove the stored session")
	out.Println("  status     show sync status and pending changes")
	out.Println("  quiz       record a quiz answer")
	out.Println("  review     list, resolve or clear wrong answers")
	out.Println("  stats      show progress statistics")
	out.Println("  sync       run one sync cycle now")
	out.Println("  watch      stay running and sync in the background")
}
