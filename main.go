package main

import (
	"Topolab/cmd"
	"Topolab/pkg/ui"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// interrupting the shell or a --no-cli run tears the network down
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("topolab", err.Error(), ""))
		stop()
		os.Exit(1)
	}
}
