package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dmitrijs2005/brewlog/internal/models"
)

func (a *App) listSessions(ctx context.Context) {
	userID, err := a.userID(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	for _, s := range a.service.GetBrewSessions(ctx, userID) {
		fmt.Printf("%s  recipe=%s %-12s %s\n", s.ID, s.RecipeID, s.Status, s.BrewDate.Format("2006-01-02"))
	}
}

func (a *App) addSession(ctx context.Context) {

	recipeID, err := GetSimpleText(a.reader, "Recipe id (temp ids are fine)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	notes, err := GetMultiline(a.reader, "Notes", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	created, err := a.service.Sessions.Create(ctx, models.BrewSession{
		RecipeID: models.ParseEntityID(recipeID),
		BrewDate: time.Now(),
		Status:   models.SessionStatusPlanned,
		Notes:    notes,
	})
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	fmt.Printf("Created %s\n", created.ID)
}

func (a *App) deleteSession(ctx context.Context) {

	id, err := GetSimpleText(a.reader, "Enter session id to delete", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	userID, err := a.userID(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	if err := a.service.Sessions.Delete(ctx, models.ParseEntityID(id), userID); err != nil {
		log.Printf("Error: %s", err.Error())
	}
}
