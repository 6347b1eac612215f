// Package cli implements the interactive PrintDesk terminal client: a small
// REPL over the server's HTTP API for workers and admins.
package cli

import (
	"bufio"
	"io"
	"os"

	"github.com/dmitrijs2005/printdesk/internal/client/api"
	"github.com/dmitrijs2005/printdesk/internal/client/config"
	"github.com/dmitrijs2005/printdesk/internal/server/models"
)

type App struct {
	config   *config.Config
	api      *api.Client
	userName string
	role     string
	reader   *bufio.Reader
	out      io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	return &App{
		config: c,
		api:    api.NewClient(c.ServerEndpointAddr, c.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.api.Token() != ""
}

func (a *App) isAdmin() bool {
	return a.role == models.RoleAdmin
}

func (a *App) setSession(s *models.Session) {
	if s == nil {
		a.userName = ""
		a.role = ""
		return
	}
	a.userName = s.Username
	a.role = s.Role
}
