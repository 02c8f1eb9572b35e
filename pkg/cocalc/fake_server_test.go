package cocalc_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
)

// fakeCocalc is an in-process stand-in for the CoCalc API.
type fakeCocalc struct {
	server *httptest.Server

	mu           sync.Mutex
	latexForms   []url.Values
	execForms    []url.Values
	downloads    int
	users        []string
	passwords    []string
	downloadAuth []bool

	compileEvent string
	compileError string
	pdfURL       string // defaults to <server>/files/main.pdf
	latexStatus  int
	pdf          []byte
	dropExec     bool
}

func newFakeCocalc() *fakeCocalc {
	f := &fakeCocalc{
		compileEvent: "success",
		latexStatus:  http.StatusOK,
		pdf:          []byte("%PDF-1.5 fake"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v2/latex", f.handleLatex)
	mux.HandleFunc("POST /v1/project_exec", f.handleExec)
	mux.HandleFunc("GET /files/main.pdf", f.handleDownload)
	f.server = httptest.NewServer(mux)

	return f
}

func (f *fakeCocalc) URL() string { return f.server.URL }

func (f *fakeCocalc) Close() { f.server.Close() }

func (f *fakeCocalc) recordAuth(r *http.Request) {
	user, pass, _ := r.BasicAuth()
	f.users = append(f.users, user)
	f.passwords = append(f.passwords, pass)
}

func (f *fakeCocalc) handleLatex(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_ = r.ParseForm()
	f.latexForms = append(f.latexForms, r.PostForm)
	f.recordAuth(r)

	if f.latexStatus != http.StatusOK {
		w.WriteHeader(f.latexStatus)
		_, _ = w.Write([]byte("denied"))
		return
	}

	pdfURL := f.pdfURL
	if pdfURL == "" {
		pdfURL = f.server.URL + "/files/main.pdf"
	}

	compile := map[string]any{"event": f.compileEvent}
	if f.compileError != "" {
		compile["error"] = f.compileError
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"url":     pdfURL,
		"compile": compile,
	})
}

func (f *fakeCocalc) handleExec(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	_ = r.ParseForm()
	f.execForms = append(f.execForms, r.PostForm)
	f.recordAuth(r)
	drop := f.dropExec
	f.mu.Unlock()

	if drop {
		hj, ok := w.(http.Hijacker)
		if ok {
			conn, _, err := hj.Hijack()
			if err == nil {
				conn.Close()
				return
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"stdout":    "hi\n",
		"stderr":    "",
		"exit_code": 0,
	})
}

func (f *fakeCocalc) handleDownload(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.downloads++
	_, _, hasAuth := r.BasicAuth()
	f.downloadAuth = append(f.downloadAuth, hasAuth)

	w.Header().Set("Content-Type", "application/pdf")
	_, _ = w.Write(f.pdf)
}

func (f *fakeCocalc) LatexForms() []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]url.Values(nil), f.latexForms...)
}

func (f *fakeCocalc) ExecForms() []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]url.Values(nil), f.execForms...)
}

func (f *fakeCocalc) Downloads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.downloads
}

// Set changes the canned behaviour under the lock.
func (f *fakeCocalc) Set(fn func(f *fakeCocalc)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeCocalc) Credentials() ([]string, []string, []bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.users...), append([]string(nil), f.passwords...), append([]bool(nil), f.downloadAuth...)
}
