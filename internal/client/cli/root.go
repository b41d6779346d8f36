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
	if user := a.currentUser(); user != nil {
		return fmt.Sprintf("(%s)", user.Email)
	}
	return ""
}

// Root runs the interactive command loop until exit or EOF.
func (a *App) Root(ctx context.Context) {
	log.Println("Welcome to TodoKeeper CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("tkcli %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.currentUser() != nil {
				fmt.Println("Available commands: list, add, show <id>, done <id>, rename <id>, delete <id>, profile, whoami, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, reset, exit")
			}
		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "whoami":
			a.WhoAmI()
		case "profile":
			err = a.Profile(ctx)
		case "reset":
			err = a.PasswordReset(ctx)
		case "list":
			err = a.List(ctx)
		case "add":
			err = a.Add(ctx)
		case "show":
			if len(args) == 0 {
				fmt.Println("Usage: show <id>")
				continue
			}
			err = a.Show(ctx, args[0])
		case "done":
			if len(args) == 0 {
				fmt.Println("Usage: done <id>")
				continue
			}
			err = a.Done(ctx, args[0])
		case "rename":
			if len(args) == 0 {
				fmt.Println("Usage: rename <id>")
				continue
			}
			err = a.Rename(ctx, args[0])
		case "delete":
			if len(args) == 0 {
				fmt.Println("Usage: delete <id>")
				continue
			}
			err = a.Delete(ctx, args[0])
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}

		if err != nil {
			log.Printf("error: %v", err)
		}
	}
}
