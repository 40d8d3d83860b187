package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Scan(ctx context.Context) error
	Add(ctx context.Context) error
	List(ctx context.Context) error
	Search(ctx context.Context, term string) error
	Show(ctx context.Context, id string) error
	Star(ctx context.Context, id string) error
	Note(ctx context.Context, id, text string) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) error
	Sync(ctx context.Context) error
	Status(ctx context.Context) error
	Export(ctx context.Context, path string) error
	Import(ctx context.Context, path string, merge bool) error
	Backup(ctx context.Context) error
	Clear(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the LeadKeeper CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("lk> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			printlnFn("Capture:  scan, add")
			printlnFn("Browse:   (l)ist, search <term>, show <id>, stats")
			printlnFn("Edit:     star <id>, note <id> <text>, delete <id>, clear")
			printlnFn("Sync:     sync, status, export <file>, import <file> [replace], backup")
			if a.isLoggedIn() {
				printlnFn("Session:  exit")
			} else {
				printlnFn("Session:  register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "scan":
			_ = a.Scan(ctx)

		case "add":
			_ = a.Add(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "search":
			if len(args) == 0 {
				printlnFn("Usage: search <term>")
				continue
			}
			_ = a.Search(ctx, strings.Join(args, " "))

		case "show":
			if len(args) == 0 {
				printlnFn("Usage: show <id>")
				continue
			}
			_ = a.Show(ctx, args[0])

		case "star":
			if len(args) == 0 {
				printlnFn("Usage: star <id>")
				continue
			}
			_ = a.Star(ctx, args[0])

		case "note":
			if len(args) < 2 {
				printlnFn("Usage: note <id> <text>")
				continue
			}
			_ = a.Note(ctx, args[0], strings.Join(args[1:], " "))

		case "delete":
			if len(args) == 0 {
				printlnFn("Usage: delete <id>")
				continue
			}
			_ = a.Delete(ctx, args[0])

		case "stats":
			_ = a.Stats(ctx)

		case "sync":
			_ = a.Sync(ctx)

		case "status":
			_ = a.Status(ctx)

		case "export":
			if len(args) == 0 {
				printlnFn("Usage: export <file>")
				continue
			}
			_ = a.Export(ctx, args[0])

		case "import":
			if len(args) == 0 {
				printlnFn("Usage: import <file> [replace]")
				continue
			}
			merge := len(args) < 2 || args[1] != "replace"
			_ = a.Import(ctx, args[0], merge)

		case "backup":
			_ = a.Backup(ctx)

		case "clear":
			_ = a.Clear(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
