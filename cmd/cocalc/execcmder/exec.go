package execcmder

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KyleBrandon/cocalc/cmd/cocalc/cliconfig"
	"github.com/KyleBrandon/cocalc/pkg/cocalc"
)

const execLongDesc string = `Run a shell command in the CoCalc project.

The command runs in the project given by COCALC_PROJECTID. Its stdout and
stderr are printed and a non-zero exit code fails the command.

Examples:
  cocalc exec -- ls -la temp
  cocalc exec --raw "rm -rf temp"`

const execShortDesc string = "Run a shell command in the CoCalc project"

type execCommander struct {
	globals *cliconfig.Globals
	raw     bool
}

func NewExecCmd(globals *cliconfig.Globals) *cobra.Command {
	cmder := &execCommander{globals: globals}

	cmd := &cobra.Command{
		Use:   "exec <command>...",
		Short: execShortDesc,
		Long:  execLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := cocalc.NewFromEnv(cocalc.DefaultEnvNames(), cocalc.WithProjectRequired())
			if err != nil {
				return err
			}
			return cmder.run(cmd.Context(), client, cmd.OutOrStdout(), cmd.ErrOrStderr(), strings.Join(args, " "))
		},
	}

	cmd.Flags().BoolVar(&cmder.raw, "raw", false, "Print the raw JSON response")

	return cmd
}

type executor interface {
	Exec(ctx context.Context, command string) (*http.Response, error)
}

func (c *execCommander) run(ctx context.Context, client executor, stdout, stderr io.Writer, command string) error {
	resp, err := client.Exec(ctx, command)
	if err != nil {
		return err
	}

	if c.raw {
		defer resp.Body.Close()
		_, err = io.Copy(stdout, resp.Body)
		return err
	}

	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("project exec failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	result, err := cocalc.NewExecResponse(resp)
	if err != nil {
		return err
	}

	fmt.Fprint(stdout, result.Stdout())
	fmt.Fprint(stderr, result.Stderr())

	if result.ExitCode() != 0 {
		return fmt.Errorf("command exited with code %d", result.ExitCode())
	}

	return nil
}
