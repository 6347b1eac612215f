package cli

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/dmitrijs2005/printdesk/internal/server/models"
	"github.com/dmitrijs2005/printdesk/internal/server/services"
)

func formatTask(t *models.Task) string {
	assignee := "-"
	if t.Assignee != nil {
		assignee = *t.Assignee
	}
	return fmt.Sprintf("%s  %-12s %-10s %8.2f  %s", t.ID, t.Status, assignee, t.Price, t.Title)
}

func (a *App) listTasks(ctx context.Context, status string) {
	tasks, err := a.api.ListTasks(ctx, status)
	if err != nil {
		log.Println(err.Error())
		return
	}
	for _, t := range tasks {
		fmt.Fprintln(a.out, formatTask(t))
	}
}

func (a *App) showTask(ctx context.Context, id string) {
	task, err := a.api.GetTask(ctx, id)
	if err != nil {
		log.Println(err.Error())
		return
	}
	fmt.Fprintln(a.out, formatTask(task))
	if task.Description != "" {
		fmt.Fprintln(a.out, task.Description)
	}
}

func (a *App) claimTask(ctx context.Context, id string) {
	task, err := a.api.ClaimTask(ctx, id)
	if err != nil {
		log.Println(err.Error())
		return
	}
	log.Printf("Claimed: %s", formatTask(task))
}

func (a *App) advanceTask(ctx context.Context, id, target string) {
	task, err := a.api.AdvanceTask(ctx, id, models.TaskStatus(target), nil)
	if err != nil {
		log.Println(err.Error())
		return
	}
	log.Printf("Now %s: %s", task.Status, formatTask(task))
}

func (a *App) cancelTask(ctx context.Context, id string) {
	task, err := a.api.CancelTask(ctx, id)
	if err != nil {
		log.Println(err.Error())
		return
	}
	log.Printf("Cancelled: %s", formatTask(task))
}

// addTask interactively collects a new task offer (admin only).
func (a *App) addTask(ctx context.Context) {
	title, err := GetSimpleText(a.reader, "Title", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	description, err := GetSimpleText(a.reader, "Description", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	priceText, err := GetSimpleText(a.reader, "Price", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	price, err := strconv.ParseFloat(priceText, 64)
	if err != nil {
		log.Printf("invalid price: %v", err)
		return
	}

	task, err := a.api.CreateTask(ctx, services.TaskSpec{
		Title:       title,
		Description: description,
		Price:       price,
	})
	if err != nil {
		log.Println(err.Error())
		return
	}
	log.Printf("Created: %s", formatTask(task))
}
