package compilecmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KyleBrandon/cocalc/cmd/cocalc/cliconfig"
	"github.com/KyleBrandon/cocalc/internal/database"
	"github.com/KyleBrandon/cocalc/pkg/cocalc"
	"github.com/KyleBrandon/cocalc/pkg/document/manager"
	"github.com/KyleBrandon/cocalc/pkg/document/storage"
)

const compileLongDesc string = `Compile a LaTeX document with CoCalc and store the PDF.

The source is uploaded to the remote project (a temp/<uuid>/main.tex path
unless --path is given), compiled with latexmk and the resulting PDF is
written to the configured output store. Use "-" to read the source from
stdin, or omit the file and pass --path to compile a file that already
exists in the project.

Examples:
  cocalc compile paper.tex
  cocalc compile --keep --path papers/thesis/main.tex thesis.tex
  cocalc compile --path papers/thesis/main.tex
  cat paper.tex | cocalc compile --name paper.tex -`

const compileShortDesc string = "Compile a LaTeX document to PDF"

type compileCommander struct {
	globals *cliconfig.Globals

	remotePath   string
	command      string
	name         string
	outputStore  string
	outputFolder string
	keep         bool
}

func NewCompileCmd(globals *cliconfig.Globals) *cobra.Command {
	cmder := &compileCommander{globals: globals}

	cmd := &cobra.Command{
		Use:   "compile [file.tex|-]",
		Short: compileShortDesc,
		Long:  compileLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd, args)
		},
	}

	cmd.Flags().StringVarP(&cmder.remotePath, "path", "p", "", "Path of the .tex file in the CoCalc project")
	cmd.Flags().StringVarP(&cmder.command, "command", "c", "", "Compile command run in the project (default latexmk with XeLaTeX)")
	cmd.Flags().StringVarP(&cmder.name, "name", "n", "", "Name used for the PDF when reading from stdin")
	cmd.Flags().StringVar(&cmder.outputStore, "store", "", "Output store: Local or Google Drive")
	cmd.Flags().StringVarP(&cmder.outputFolder, "output", "o", "", "Output folder for the Local store")
	cmd.Flags().BoolVar(&cmder.keep, "keep", false, "Keep the remote working directory after compiling")

	return cmd
}

func (c *compileCommander) run(ctx context.Context, cmd *cobra.Command, args []string) error {
	job, err := c.buildJob(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	settings := c.globals.Settings
	if len(c.outputStore) != 0 {
		settings.OutputStore = c.outputStore
	}
	if len(c.outputFolder) != 0 {
		settings.OutputFolder = c.outputFolder
	}

	client, err := cocalc.NewFromEnv(cocalc.DefaultEnvNames())
	if err != nil {
		return err
	}

	output, err := storage.BuildDocumentStorage(ctx, settings)
	if err != nil {
		return err
	}

	var store manager.DocumentManagerStore
	if databaseURL := os.Getenv("DATABASE_URL"); len(databaseURL) != 0 {
		db, err := database.Open(ctx, databaseURL)
		if err != nil {
			slog.Warn("Compilation history is unavailable", "error", err)
		} else {
			defer db.Close()
			store = database.New(db)
		}
	}

	if len(job.Command) == 0 {
		job.Command = settings.LatexCommand
	}
	// never clean up around a file that already lived in the project
	job.Temporary = settings.Temporary && !c.keep && len(job.Content) != 0

	result, err := manager.New(client, output, settings.OutputStore, store).Compile(ctx, job)
	if err != nil {
		var compileErr *cocalc.CompileError
		if errors.As(err, &compileErr) {
			return fmt.Errorf("compile failed: %s", compileErr.Message)
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s (%d bytes)\n", result.Document.Location, len(result.PDF))

	return nil
}

func (c *compileCommander) buildJob(stdin io.Reader, args []string) (manager.Job, error) {
	job := manager.Job{
		Name:       c.name,
		RemotePath: c.remotePath,
		Command:    c.command,
	}

	if len(args) == 0 {
		if len(c.remotePath) == 0 {
			return job, errors.New("a source file or --path is required")
		}
		if len(job.Name) == 0 {
			job.Name = filepath.Base(c.remotePath)
		}
		return job, nil
	}

	var content []byte
	var err error
	if args[0] == "-" {
		content, err = io.ReadAll(stdin)
	} else {
		content, err = os.ReadFile(args[0])
		if len(job.Name) == 0 {
			job.Name = filepath.Base(args[0])
		}
	}
	if err != nil {
		return job, fmt.Errorf("could not read %s: %w", args[0], err)
	}

	if len(content) == 0 {
		return job, fmt.Errorf("%s is empty", args[0])
	}
	job.Content = string(content)

	return job, nil
}
