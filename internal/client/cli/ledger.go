package cli

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/dmitrijs2005/printdesk/internal/server/models"
	"github.com/dmitrijs2005/printdesk/internal/server/services"
)

func (a *App) showBalance(ctx context.Context) {
	balance, err := a.api.GetBalance(ctx)
	if err != nil {
		log.Println(err.Error())
		return
	}
	fmt.Fprintf(a.out, "Balance for %s: %.2f\n", balance.Actor, balance.Balance)
}

func (a *App) showHistory(ctx context.Context) {
	history, err := a.api.GetHistory(ctx)
	if err != nil {
		log.Println(err.Error())
		return
	}
	for _, entry := range history {
		fmt.Fprintf(a.out, "%s  %-12s %8.2f  %s\n",
			entry.CreatedAt.Format("2006-01-02 15:04"), entry.Type, entry.Amount, entry.TaskID)
	}
}

// topUp interactively records a top-up for an actor (admin only).
func (a *App) topUp(ctx context.Context) {
	actor, err := GetSimpleText(a.reader, "Actor", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	amountText, err := GetSimpleText(a.reader, "Amount", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	amount, err := strconv.ParseFloat(amountText, 64)
	if err != nil {
		log.Printf("invalid amount: %v", err)
		return
	}

	entry, err := a.api.RecordTransaction(ctx, services.RecordSpec{
		Type:   models.TransactionTypeTopUp,
		Actor:  actor,
		Amount: amount,
	})
	if err != nil {
		log.Println(err.Error())
		return
	}
	log.Printf("Recorded %s of %.2f for %s", entry.Type, entry.Amount, entry.Actor)
}
