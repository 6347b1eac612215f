package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dmitrijs2005/printdesk/internal/server/models"
)

func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName + " " + a.role
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) printHelp() {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Available commands: login, admin, exit")
		return
	}
	fmt.Fprintln(a.out, "Available commands: tasks [status], show <id>, claim <id>, advance <id> <status>, cancel <id>, balance, history, docs, fetch <id>, logout, exit")
	if a.isAdmin() {
		fmt.Fprintln(a.out, "Admin commands: addtask, topup, adddoc")
	}
}

// dispatch runs one command line. It returns false when the REPL should stop.
func (a *App) dispatch(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}

	cmd := parts[0]
	args := parts[1:]

	arg := func() string {
		if len(args) == 0 {
			log.Println("an ID argument is required")
			return ""
		}
		return args[0]
	}

	switch cmd {
	case "help":
		a.printHelp()

	case "login":
		a.Login(ctx, models.SessionTypePortal)

	case "admin":
		a.Login(ctx, models.SessionTypeAdmin)

	case "logout":
		a.Logout(ctx)

	case "tasks":
		status := ""
		if len(args) > 0 {
			status = args[0]
		}
		a.listTasks(ctx, status)

	case "show":
		if id := arg(); id != "" {
			a.showTask(ctx, id)
		}

	case "claim":
		if id := arg(); id != "" {
			a.claimTask(ctx, id)
		}

	case "advance":
		if len(args) < 2 {
			log.Println("usage: advance <id> <in_progress|completed>")
		} else {
			a.advanceTask(ctx, args[0], args[1])
		}

	case "cancel":
		if id := arg(); id != "" {
			a.cancelTask(ctx, id)
		}

	case "balance":
		a.showBalance(ctx)

	case "history":
		a.showHistory(ctx)

	case "addtask":
		a.addTask(ctx)

	case "topup":
		a.topUp(ctx)

	case "docs":
		a.listDocuments(ctx)

	case "fetch":
		if id := arg(); id != "" {
			a.fetchDocument(ctx, id)
		}

	case "adddoc":
		a.addDocument(ctx)

	case "exit", "quit":
		return false

	default:
		fmt.Fprintf(a.out, "Unknown command: %s (type 'help')\n", cmd)
	}
	return true
}

// Run starts the REPL and blocks until the user exits or stdin closes.
func (a *App) Run(ctx context.Context) {

	log.Println("Welcome to PrintDesk CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Fprintf(a.out, "pdcli %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		if !a.dispatch(ctx, scanner.Text()) {
			break
		}
	}
}
