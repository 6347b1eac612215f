package cli

import (
	"context"
	"log"

	"github.com/dmitrijs2005/printdesk/internal/server/models"
)

// Login runs the two-step sign-in: request a code for the username, then
// exchange the code for a session. The code arrives out of band.
func (a *App) Login(ctx context.Context, sessionType models.SessionType) {

	userName, err := GetSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	tempToken, err := a.api.RequestCode(ctx, userName, sessionType)
	if err != nil {
		log.Printf("Sign-in request failed: %s", err.Error())
		return
	}
	log.Println("A sign-in code has been sent to you")

	code, err := GetSecret("Enter sign-in code", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	session, err := a.api.VerifyCode(ctx, tempToken, code)
	if err != nil {
		log.Printf("Sign-in unsuccessful: %s", err.Error())
		return
	}

	a.setSession(session)
	log.Printf("Signed in as %s (%s)", session.Username, session.Role)
}

func (a *App) Logout(ctx context.Context) {
	if err := a.api.Logout(ctx); err != nil {
		log.Printf("Logout failed: %s", err.Error())
		return
	}
	a.setSession(nil)
	log.Println("Signed out")
}
