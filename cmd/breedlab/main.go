// Command breedlab predicts breeding outcomes for an owner's creatures.
//
// Snapshots are read from the store selected by BREEDLAB_STORAGE_DRIVER and
// evaluated against the reference tables selected by --tables or
// BREEDLAB_TABLES. Every command prints JSON on stdout.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

var exitFunc = os.Exit

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	exitFunc(run(ctx, os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	a := newApp(os.Stdout, os.Stderr)
	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if cerr := a.close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "breedlab:", err)
		return 1
	}
	return 0
}
