package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	s := ""
	if a.isLoggedIn() {
		if userID, err := a.userID(context.Background()); err == nil {
			s = userID + " "
		}
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to brewlog CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	a.login(ctx)

	go func() {
		a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}()

	for {
		fmt.Printf("brewlog %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: (l)ist, sessions, addrecipe, addsession, delrecipe, delsession, styles, sync, pending, clearqueue, logout, exit")
			} else {
				fmt.Println("Available commands: login, exit")
			}

		case "login":
			a.login(ctx)
		case "logout":
			a.logout(ctx)
		case "l", "list":
			a.listRecipes(ctx)
		case "sessions":
			a.listSessions(ctx)
		case "addrecipe":
			a.addRecipe(ctx)
		case "addsession":
			a.addSession(ctx)
		case "delrecipe":
			a.deleteRecipe(ctx)
		case "delsession":
			a.deleteSession(ctx)
		case "styles":
			a.showStyles(ctx)
		case "sync":
			a.sync(ctx)
		case "pending":
			a.pending(ctx)
		case "clearqueue":
			a.clearQueue(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}

func (a *App) login(ctx context.Context) {
	token, err := GetToken(os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	if token == "" {
		return
	}
	if err := a.provider.SetToken(token); err != nil {
		log.Printf("error: %v", err)
	}
}

func (a *App) logout(ctx context.Context) {
	_ = a.provider.SetToken("")
}
