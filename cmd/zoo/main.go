// Command zoo finds enclosures able to house a requested species and quantity.
package main

import (
	"context"
	"fmt"
	"os"

	"zoohousing/internal/cli"
)

func main() {
	app := &cli.App{}
	err := cli.RootCommand(app).ExecuteContext(context.Background())
	_ = app.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.ExitMessage(err))
		os.Exit(1)
	}
}
