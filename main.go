package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fjacquet/bank-import/cmd/batch"
	"fjacquet/bank-import/cmd/categorize"
	"fjacquet/bank-import/cmd/institutions"
	"fjacquet/bank-import/cmd/party"
	"fjacquet/bank-import/cmd/query"
	"fjacquet/bank-import/cmd/root"
	"fjacquet/bank-import/cmd/serve"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(institutions.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(party.Cmd)
	root.Cmd.AddCommand(query.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.Cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
