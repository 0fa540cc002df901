package main

import (
	"context"
	"errors"
	"fmt"
)

// errQuit is returned by the quit command to end the session.
var errQuit = errors.New("quit requested")

// command binds an action keyword to its handler and help entry.
type command struct {
	action  string
	usage   string
	summary string
	run     func(ctx context.Context, sh *Shell, req Request) error
}

// commands lists the available actions in the order they are documented.
func commands() []command {
	return []command{
		{
			action:  "add",
			usage:   `add "$title" "$author"`,
			summary: "adds a book to the library with the given title and author. All books are unread by default.",
			run: func(ctx context.Context, sh *Shell, req Request) error {
				return sh.catalog.AddBook(ctx, req.Param(0), req.Param(1))
			},
		},
		{
			action:  "read",
			usage:   `read "$title"`,
			summary: "marks a given book as read.",
			run: func(ctx context.Context, sh *Shell, req Request) error {
				return sh.catalog.MarkRead(ctx, req.Param(0))
			},
		},
		{
			action:  "show all",
			usage:   "show all",
			summary: "displays all of the books in the library",
			run: func(ctx context.Context, sh *Shell, _ Request) error {
				return sh.show(ctx, "no books in your library")
			},
		},
		{
			action:  "show unread",
			usage:   "show unread",
			summary: "displays all of the books that are unread",
			run: func(ctx context.Context, sh *Shell, _ Request) error {
				return sh.show(ctx, "no unread books in your library", WithReadStatus(UnreadToken))
			},
		},
		{
			action:  "show read",
			usage:   "show read",
			summary: "displays all of the books that are read",
			run: func(ctx context.Context, sh *Shell, _ Request) error {
				return sh.show(ctx, "no read books in your library", WithReadStatus(ReadToken))
			},
		},
		{
			action:  "show all by",
			usage:   `show all by "$author"`,
			summary: "shows all of the books in the library by the given author",
			run: func(ctx context.Context, sh *Shell, req Request) error {
				author := req.Param(0)
				return sh.show(ctx, fmt.Sprintf(`no books by "%s" in your library`, author), ByAuthor(author))
			},
		},
		{
			action:  "show unread by",
			usage:   `show unread by "$author"`,
			summary: "shows the unread books in the library by the given author",
			run: func(ctx context.Context, sh *Shell, req Request) error {
				author := req.Param(0)
				return sh.show(ctx, fmt.Sprintf(`no unread books by "%s" in your library`, author),
					WithReadStatus(UnreadToken), ByAuthor(author))
			},
		},
		{
			action:  "show read by",
			usage:   `show read by "$author"`,
			summary: "shows the read books in the library by the given author",
			run: func(ctx context.Context, sh *Shell, req Request) error {
				author := req.Param(0)
				return sh.show(ctx, fmt.Sprintf(`no read books by "%s" in your library`, author),
					WithReadStatus(ReadToken), ByAuthor(author))
			},
		},
		{
			action:  "quit",
			usage:   "quit",
			summary: "quits the program",
			run: func(_ context.Context, sh *Shell, _ Request) error {
				sh.write("bye!")
				return errQuit
			},
		},
		{
			action:  "help",
			usage:   "help",
			summary: "this current commands list",
			run: func(_ context.Context, sh *Shell, _ Request) error {
				sh.help()
				return nil
			},
		},
	}
}
