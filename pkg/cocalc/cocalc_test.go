package cocalc_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"regexp"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/KyleBrandon/cocalc/pkg/cocalc"
)

var tempPathPattern = regexp.MustCompile(`^temp/[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}/main\.tex$`)

var _ = Describe("Client", func() {
	var (
		ctx    context.Context
		fake   *fakeCocalc
		client *cocalc.Client
	)

	BeforeEach(func() {
		ctx = context.Background()
		fake = newFakeCocalc()
		DeferCleanup(fake.Close)

		var err error
		client, err = cocalc.New(cocalc.Credentials{
			APIKey:    "sk-test",
			BaseURL:   fake.URL(),
			ProjectID: "project-1",
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("New", func() {
		It("accepts a complete credential set", func() {
			c, err := cocalc.New(cocalc.Credentials{APIKey: "k", BaseURL: "https://cocalc.example/api"})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.BaseURL()).To(Equal("https://cocalc.example/api/"))
			Expect(c.ProjectID()).To(BeEmpty())
		})

		It("rejects a missing api key", func() {
			_, err := cocalc.New(cocalc.Credentials{BaseURL: "https://cocalc.example"})
			Expect(err).To(MatchError(cocalc.ErrMissingCredential))

			var ce *cocalc.ConfigError
			Expect(errors.As(err, &ce)).To(BeTrue())
			Expect(ce.Field).To(Equal("api_key"))
			Expect(err.Error()).To(ContainSubstring("api_key"))
		})

		It("rejects a missing base url", func() {
			_, err := cocalc.New(cocalc.Credentials{APIKey: "k"})
			Expect(cocalc.IsConfigError(err)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("base_url"))
		})

		It("rejects a relative base url", func() {
			_, err := cocalc.New(cocalc.Credentials{APIKey: "k", BaseURL: "cocalc.example/api"})
			Expect(err).To(MatchError(cocalc.ErrInvalidURL))
		})

		It("requires a project id when asked to", func() {
			_, err := cocalc.New(cocalc.Credentials{APIKey: "k", BaseURL: "https://cocalc.example"}, cocalc.WithProjectRequired())
			Expect(err).To(MatchError(cocalc.ErrMissingCredential))
			Expect(err.Error()).To(ContainSubstring("project_id"))

			_, err = cocalc.New(cocalc.Credentials{APIKey: "k", BaseURL: "https://cocalc.example", ProjectID: "p"}, cocalc.WithProjectRequired())
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("Latex", func() {
		It("returns the PDF without cleanup when not temporary", func() {
			pdf, err := client.Latex(ctx, cocalc.LatexRequest{Content: `\documentclass{article}`})
			Expect(err).NotTo(HaveOccurred())
			Expect(pdf).To(Equal([]byte("%PDF-1.5 fake")))

			forms := fake.LatexForms()
			Expect(forms).To(HaveLen(1))
			Expect(forms[0].Get("path")).To(MatchRegexp(tempPathPattern.String()))
			Expect(forms[0].Get("content")).To(Equal(`\documentclass{article}`))
			Expect(forms[0].Get("command")).To(Equal(cocalc.DefaultLatexCommand))
			Expect(forms[0].Get("project_id")).To(Equal("project-1"))

			Expect(fake.ExecForms()).To(BeEmpty())
			Expect(fake.Downloads()).To(Equal(1))
		})

		It("ignores an error event when not temporary", func() {
			fake.Set(func(f *fakeCocalc) {
				f.compileEvent = "error"
				f.compileError = "undefined control sequence"
			})

			pdf, err := client.Latex(ctx, cocalc.LatexRequest{Path: "paper/main.tex"})
			Expect(err).NotTo(HaveOccurred())
			Expect(pdf).NotTo(BeEmpty())
			Expect(fake.ExecForms()).To(BeEmpty())
		})

		It("omits empty content and keeps a caller supplied path and command", func() {
			_, err := client.Latex(ctx, cocalc.LatexRequest{Path: "paper/main.tex", Command: "pdflatex main.tex"})
			Expect(err).NotTo(HaveOccurred())

			forms := fake.LatexForms()
			Expect(forms).To(HaveLen(1))
			Expect(forms[0].Get("path")).To(Equal("paper/main.tex"))
			Expect(forms[0].Get("command")).To(Equal("pdflatex main.tex"))
			Expect(forms[0]).NotTo(HaveKey("content"))
		})

		It("raises the compile error and cleans up in temporary mode", func() {
			fake.Set(func(f *fakeCocalc) {
				f.compileEvent = "error"
				f.compileError = "undefined control sequence"
			})

			pdf, err := client.Latex(ctx, cocalc.LatexRequest{Content: "x", Temporary: true})
			Expect(pdf).To(BeNil())

			var ce *cocalc.CompileError
			Expect(errors.As(err, &ce)).To(BeTrue())
			Expect(ce.Message).To(Equal("undefined control sequence"))

			path := fake.LatexForms()[0].Get("path")
			dir := strings.TrimSuffix(path, "/main.tex")

			execs := fake.ExecForms()
			Expect(execs).To(HaveLen(1))
			Expect(execs[0].Get("command")).To(Equal("rm -rf " + dir))
			Expect(execs[0].Get("project_id")).To(Equal("project-1"))
			Expect(fake.Downloads()).To(BeZero())
		})

		It("cleans up exactly once and returns the PDF on success", func() {
			pdf, err := client.Latex(ctx, cocalc.LatexRequest{Content: "x", Temporary: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(pdf).To(Equal([]byte("%PDF-1.5 fake")))

			execs := fake.ExecForms()
			Expect(execs).To(HaveLen(1))
			Expect(execs[0].Get("command")).To(MatchRegexp(`^rm -rf temp/[0-9a-f-]{36}$`))
		})

		It("keeps the compile error reachable when cleanup fails", func() {
			fake.Set(func(f *fakeCocalc) {
				f.compileEvent = "error"
				f.compileError = "missing file"
				f.dropExec = true
			})

			_, err := client.Latex(ctx, cocalc.LatexRequest{Temporary: true})
			Expect(err).To(HaveOccurred())
			Expect(cocalc.IsCompileError(err)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("v1/project_exec"))
		})

		It("does not remove the project root for a top level path", func() {
			_, err := client.Latex(ctx, cocalc.LatexRequest{Path: "main.tex", Temporary: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(fake.ExecForms()).To(BeEmpty())
		})

		It("sends basic auth with the api key on API calls only", func() {
			_, err := client.Latex(ctx, cocalc.LatexRequest{Temporary: true})
			Expect(err).NotTo(HaveOccurred())

			users, passwords, downloadAuth := fake.Credentials()
			Expect(users).To(Equal([]string{"sk-test", "sk-test"}))
			Expect(passwords).To(Equal([]string{"", ""}))
			Expect(downloadAuth).To(Equal([]bool{false}))
		})

		It("returns a status error for a rejected compile request", func() {
			fake.Set(func(f *fakeCocalc) { f.latexStatus = http.StatusUnauthorized })

			_, err := client.Latex(ctx, cocalc.LatexRequest{Temporary: true})

			var se *cocalc.StatusError
			Expect(errors.As(err, &se)).To(BeTrue())
			Expect(se.StatusCode).To(Equal(http.StatusUnauthorized))
			Expect(string(se.Body)).To(Equal("denied"))
			Expect(fake.ExecForms()).To(HaveLen(1))
		})

		It("resolves a relative pdf url against the base url", func() {
			fake.Set(func(f *fakeCocalc) { f.pdfURL = "files/main.pdf" })

			pdf, err := client.Latex(ctx, cocalc.LatexRequest{})
			Expect(err).NotTo(HaveOccurred())
			Expect(pdf).To(Equal([]byte("%PDF-1.5 fake")))
		})

		It("refuses a pdf url with a non http scheme", func() {
			fake.Set(func(f *fakeCocalc) { f.pdfURL = "file:///etc/passwd" })

			_, err := client.Latex(ctx, cocalc.LatexRequest{})
			Expect(err).To(MatchError(cocalc.ErrInvalidURL))
			Expect(fake.Downloads()).To(BeZero())
		})

		It("propagates transport failures", func() {
			fake.Close()

			_, err := client.Latex(ctx, cocalc.LatexRequest{Temporary: true})
			Expect(err).To(HaveOccurred())
			Expect(cocalc.IsCompileError(err)).To(BeFalse())
		})
	})

	Describe("Exec", func() {
		It("posts the command and returns the raw response", func() {
			resp, err := client.Exec(ctx, "echo hi")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring(`"stdout":"hi\n"`))

			execs := fake.ExecForms()
			Expect(execs).To(HaveLen(1))
			Expect(execs[0].Get("command")).To(Equal("echo hi"))
			Expect(execs[0].Get("project_id")).To(Equal("project-1"))
			Expect(fake.LatexForms()).To(BeEmpty())
		})

		It("can be decoded into an exec response", func() {
			resp, err := client.Exec(ctx, "echo hi")
			Expect(err).NotTo(HaveOccurred())

			er, err := cocalc.NewExecResponse(resp)
			Expect(err).NotTo(HaveOccurred())
			Expect(er.Stdout()).To(Equal("hi\n"))
			Expect(er.ExitCode()).To(BeZero())
		})
	})

	Describe("NewTempPath", func() {
		It("generates unique temp/<uuid>/main.tex paths", func() {
			seen := map[string]bool{}
			for range 50 {
				p := cocalc.NewTempPath()
				Expect(p).To(MatchRegexp(tempPathPattern.String()))
				Expect(seen).NotTo(HaveKey(p))
				seen[p] = true
			}
		})
	})
})
