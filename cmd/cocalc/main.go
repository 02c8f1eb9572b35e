package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KyleBrandon/cocalc/cmd/cocalc/cliconfig"
	"github.com/KyleBrandon/cocalc/cmd/cocalc/compilecmder"
	"github.com/KyleBrandon/cocalc/cmd/cocalc/execcmder"
	"github.com/KyleBrandon/cocalc/cmd/cocalc/servecmder"
)

func newRootCmd(globals *cliconfig.Globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cocalc",
		Short:         "Compile LaTeX documents with the CoCalc API",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return globals.Load()
		},
	}

	globals.AddFlags(cmd)

	cmd.AddCommand(compilecmder.NewCompileCmd(globals))
	cmd.AddCommand(execcmder.NewExecCmd(globals))
	cmd.AddCommand(servecmder.NewServeCmd(globals))

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err := execute(ctx, os.Args[1:])
	if err != nil {
		stop()
		os.Exit(1)
	}
}

// execute runs the command line in args and closes the log file on every
// outcome, including failed commands.
func execute(ctx context.Context, args []string) (*cliconfig.Globals, error) {
	globals := &cliconfig.Globals{}
	defer globals.Close()

	cmd := newRootCmd(globals)
	cmd.SetArgs(args)

	return globals, cmd.ExecuteContext(ctx)
}
