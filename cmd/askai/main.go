package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/doeshing/askai-go/internal/infrastructure/cli"
)

func main() {
	ctx := context.Background()

	root, err := cli.NewRootCmd(ctx, cli.Options{Verbose: debugEnabled()})
	if err != nil {
		fatal(err)
	}
	if err := root.ExecuteContext(ctx); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "askai:", err)
	os.Exit(1)
}

func debugEnabled() bool {
	switch strings.ToLower(os.Getenv("ASKAI_DEBUG")) {
	case "1", "true", "yes":
		return true
	}
	return false
}
