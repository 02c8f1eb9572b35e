package cocalc

import (
	"net/http"
	"net/url"
)

// CoCalc API endpoints, relative to the configured base URL
const (
	LatexEndpoint       = "v2/latex"
	ProjectExecEndpoint = "v1/project_exec"
)

// DefaultLatexCommand is run by the remote project when no command is given.
const DefaultLatexCommand = "latexmk -xelatex -f -g -bibtex -deps -synctex=1 -interaction=nonstopmode"

// CompileEventError is the compile event reported for a failed build.
const CompileEventError = "error"

// Default names of the environment variables holding the credentials
const (
	DefaultAPIKeyEnv    = "COCALC_APIKEY"
	DefaultBaseURLEnv   = "COCALC_BASEURL"
	DefaultProjectIDEnv = "COCALC_PROJECTID"
)

type (
	// Credentials used to talk to the CoCalc API.  They are fixed once a Client is built.
	Credentials struct {
		APIKey    string
		BaseURL   string
		ProjectID string // optional unless the client requires a project
	}

	// EnvNames are the environment variables credentials are read from.
	EnvNames struct {
		APIKey    string
		BaseURL   string
		ProjectID string
	}

	// LatexRequest describes a single compilation.
	LatexRequest struct {
		Path      string // remote path of the .tex file, a temp/<uuid>/main.tex path is generated when empty
		Content   string // LaTeX source written to Path before compiling, omitted when empty
		Command   string // compile command, DefaultLatexCommand when empty
		Temporary bool   // remove the parent directory of Path once the compile finishes
	}

	// CompileStatus is the "compile" object of a v2/latex response.
	CompileStatus struct {
		Event string `json:"event"`
		Error string `json:"error,omitempty"`
	}

	// CompileResponse is the decoded body of a v2/latex response.
	CompileResponse struct {
		URL     string         `json:"url"`
		Compile *CompileStatus `json:"compile,omitempty"`
	}

	// Option customizes a Client.
	Option func(*Client)

	// Client is a CoCalc API client. It is safe for sequential reuse.
	Client struct {
		apiKey    string
		baseURL   *url.URL
		projectID string

		requireProject bool
		httpClient     *http.Client
	}
)
