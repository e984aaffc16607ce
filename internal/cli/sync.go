package cli

import (
	"context"
	"fmt"
	"log"
)

func (a *App) sync(ctx context.Context) {
	res, err := a.service.Sync(ctx)
	if err != nil {
		log.Println(err.Error())
		return
	}

	fmt.Printf("Sync finished: %d processed, %d failed\n", res.Processed, res.Failed)
	for _, line := range res.Errors {
		fmt.Println("  " + line)
	}
}

func (a *App) pending(ctx context.Context) {
	n, err := a.service.PendingOperationCount(ctx)
	if err != nil {
		log.Println(err.Error())
		return
	}
	fmt.Printf("%d operation(s) waiting for sync\n", n)
}

func (a *App) clearQueue(ctx context.Context) {
	if err := a.service.ClearSyncQueue(ctx); err != nil {
		log.Println(err.Error())
		return
	}
	fmt.Println("Queue cleared. Unsynced local edits will stay local until re-edited.")
}
