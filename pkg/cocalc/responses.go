package cocalc

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type (
	// BaseResponse holds the decoded JSON body of an API response.
	BaseResponse struct {
		StatusCode int
		Payload    map[string]any
	}

	// LatexResponse wraps a v2/latex response.
	LatexResponse struct {
		BaseResponse
		Result CompileResponse
	}

	// ExecResult is the decoded body of a v1/project_exec response.
	ExecResult struct {
		Stdout   string `json:"stdout"`
		Stderr   string `json:"stderr"`
		ExitCode int    `json:"exit_code"`
	}

	// ExecResponse wraps a v1/project_exec response.
	ExecResponse struct {
		BaseResponse
		Result ExecResult
	}
)

// NewLatexResponse reads and closes the body of resp.
func NewLatexResponse(resp *http.Response) (*LatexResponse, error) {
	lr := &LatexResponse{}
	if err := lr.decode(resp, &lr.Result); err != nil {
		return nil, err
	}

	return lr, nil
}

// NewExecResponse reads and closes the body of resp.
func NewExecResponse(resp *http.Response) (*ExecResponse, error) {
	er := &ExecResponse{}
	if err := er.decode(resp, &er.Result); err != nil {
		return nil, err
	}

	return er, nil
}

func (br *BaseResponse) decode(resp *http.Response, v any) error {
	defer resp.Body.Close()

	br.StatusCode = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("cocalc: read response body: %w", err)
	}

	if err := json.Unmarshal(body, &br.Payload); err != nil {
		return fmt.Errorf("cocalc: decode response body: %w", err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("cocalc: decode response body: %w", err)
	}

	return nil
}

// Get returns the raw payload value for key.
func (br *BaseResponse) Get(key string) (any, bool) {
	v, ok := br.Payload[key]
	return v, ok
}

func (br *BaseResponse) getString(key string) (string, bool) {
	v, ok := br.Payload[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// PDF returns the pdf field when the API embedded one in the response.
func (lr *LatexResponse) PDF() (string, bool) {
	return lr.getString("pdf")
}

// Failed reports whether the remote compiler reported an error event.
func (lr *LatexResponse) Failed() bool {
	return lr.Result.Compile != nil && lr.Result.Compile.Event == CompileEventError
}

// CompileError returns the remote error message, empty when there was none.
func (lr *LatexResponse) CompileError() string {
	if lr.Result.Compile == nil {
		return ""
	}
	return lr.Result.Compile.Error
}

func (er *ExecResponse) Stdout() string { return er.Result.Stdout }

func (er *ExecResponse) Stderr() string { return er.Result.Stderr }

func (er *ExecResponse) ExitCode() int { return er.Result.ExitCode }
