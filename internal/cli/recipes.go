package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/dmitrijs2005/brewlog/internal/models"
)

func (a *App) listRecipes(ctx context.Context) {
	userID, err := a.userID(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	for _, r := range a.service.GetRecipes(ctx, userID) {
		fmt.Printf("%s  %-24s %-16s %.1f L\n", r.ID, r.Name, r.Style, r.BatchSizeL)
	}
}

func (a *App) addRecipe(ctx context.Context) {

	name, err := GetSimpleText(a.reader, "Recipe name", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	style, err := GetSimpleText(a.reader, "Style", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	batch, err := GetSimpleText(a.reader, "Batch size (liters)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	batchSize, err := strconv.ParseFloat(batch, 64)
	if err != nil {
		log.Printf("invalid batch size: %v", err)
		return
	}
	notes, err := GetMultiline(a.reader, "Notes", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	created, err := a.service.Recipes.Create(ctx, models.Recipe{
		Name:       name,
		Style:      style,
		BatchSizeL: batchSize,
		Notes:      notes,
	})
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	fmt.Printf("Created %s (will sync as soon as the server is reachable)\n", created.ID)
}

func (a *App) deleteRecipe(ctx context.Context) {

	id, err := GetSimpleText(a.reader, "Enter recipe id to delete", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	userID, err := a.userID(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	if err := a.service.Recipes.Delete(ctx, models.ParseEntityID(id), userID); err != nil {
		log.Printf("Error: %s", err.Error())
	}
}

func (a *App) showStyles(ctx context.Context) {
	items, err := a.catalogs.Get(ctx, "beer_styles", "")
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}
	fmt.Println(string(items))
}
