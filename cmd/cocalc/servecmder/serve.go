package servecmder

import (
	"github.com/spf13/cobra"

	"github.com/KyleBrandon/cocalc/cmd/cocalc/cliconfig"
	"github.com/KyleBrandon/cocalc/pkg/server"
)

const serveLongDesc string = `Serve the compile API over HTTP.

Listens on $HOST:$PORT (default 127.0.0.1:8080) and exposes:
  POST /v1/latex          compile a document and return the PDF
  GET  /v1/compilations   compilation history (requires DATABASE_URL)
  GET  /v1/health         health check
  GET|PUT /v1/logger      read or change the log level`

const serveShortDesc string = "Serve the compile API over HTTP"

func NewServeCmd(globals *cliconfig.Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.InitializeServer(cmd.Context(), globals.Settings, globals.Logging.Level)
		},
	}
}
