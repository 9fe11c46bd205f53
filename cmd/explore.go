package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pkg/errors"
	logger "github.com/sirupsen/logrus"

	"github.com/Liberdus/token-bridge-go/explorer"
)

const explorerHelp = `Type a query and press enter to search, an empty line clears it.
Commands:
  :mode <txid|sender|type|status>   switch the searched field
  :next, :prev                      change page
  :refresh                          fetch the current page again
  :help                             show this help
  :quit                             leave the explorer`

// RunExplorer reads lines from in and drives session with them until in
// is exhausted, ctx is done or the user quits. Every snapshot change is
// written to out.
func RunExplorer(ctx context.Context, session *explorer.Session, in io.Reader, out io.Writer) error {
	var mu sync.Mutex
	printf := func(format string, args ...interface{}) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(out, format, args...)
	}

	session.OnUpdate(func(snap explorer.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		renderSnapshot(out, snap)
	})
	defer session.OnUpdate(nil)

	printf("%s\n", explorerHelp)
	if _, err := session.Refresh(ctx); err != nil {
		logger.Debugf("initial fetch failed: %v", err)
	}

	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()

	for {
		printf("%s> ", session.Snapshot().Search.Mode)

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok = <-lines:
			if !ok {
				return nil
			}
		}

		if !strings.HasPrefix(line, ":") {
			session.SetQuery(line)
			continue
		}

		fields := strings.Fields(strings.TrimPrefix(line, ":"))
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "quit", "exit", "q":
			return nil
		case "help", "h":
			printf("%s\n", explorerHelp)
		case "mode", "m":
			arg := ""
			if len(fields) > 1 {
				arg = fields[1]
			}
			mode, err := explorer.ParseSearchMode(arg)
			if err != nil {
				printf("%v\n", err)
				continue
			}
			printf("Searching by %s: %s\n", mode, mode.Placeholder())
			session.SetMode(mode)
		case "next", "n":
			if !session.Snapshot().HasNext() {
				printf("Already on the last page\n")
				continue
			}
			pageResult(session.NextPage(ctx))
		case "prev", "p":
			if !session.Snapshot().HasPrev() {
				printf("Already on the first page\n")
				continue
			}
			pageResult(session.PrevPage(ctx))
		case "refresh", "r":
			pageResult(session.Refresh(ctx))
		default:
			printf("unknown command %q, type :help\n", fields[0])
		}
	}
}

// Fetch errors reach the user through the notifier and the snapshot.
func pageResult(_ explorer.Snapshot, err error) {
	if err != nil && !errors.Is(err, explorer.ErrStaleResult) {
		logger.Debugf("explorer fetch failed: %v", err)
	}
}

func renderSnapshot(w io.Writer, snap explorer.Snapshot) {
	switch {
	case snap.Err != nil:
		fmt.Fprintf(w, "\nError: %v\n", snap.Err)
	case snap.Loading:
		if snap.Search.Query != "" {
			fmt.Fprintf(w, "\nSearching %s %q...\n", snap.Search.Mode, snap.Search.Query)
		}
	default:
		fmt.Fprintln(w)
		PrintTransactions(w, snap.Transactions, snap.Pager)
	}
}
