package cocalc_test

import (
	"errors"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/KyleBrandon/cocalc/pkg/cocalc"
)

var _ = Describe("Environment credentials", func() {
	names := cocalc.EnvNames{
		APIKey:    "TEST_COCALC_APIKEY",
		BaseURL:   "TEST_COCALC_BASEURL",
		ProjectID: "TEST_COCALC_PROJECTID",
	}

	setenv := func(key, value string) {
		Expect(os.Setenv(key, value)).To(Succeed())
		DeferCleanup(os.Unsetenv, key)
	}

	It("reads the credentials when called, not when the package loads", func() {
		setenv(names.APIKey, "sk-env")
		setenv(names.BaseURL, "https://cocalc.example")
		setenv(names.ProjectID, "project-env")

		creds := cocalc.ReadCredentials(names)
		Expect(creds).To(Equal(cocalc.Credentials{
			APIKey:    "sk-env",
			BaseURL:   "https://cocalc.example",
			ProjectID: "project-env",
		}))

		setenv(names.ProjectID, "project-changed")
		Expect(cocalc.ReadCredentials(names).ProjectID).To(Equal("project-changed"))
	})

	It("builds a client from the environment", func() {
		setenv(names.APIKey, "sk-env")
		setenv(names.BaseURL, "https://cocalc.example")

		c, err := cocalc.NewFromEnv(names)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.BaseURL()).To(Equal("https://cocalc.example/"))
	})

	It("names the missing environment variable", func() {
		setenv(names.BaseURL, "https://cocalc.example")

		_, err := cocalc.NewFromEnv(names)

		var ce *cocalc.ConfigError
		Expect(errors.As(err, &ce)).To(BeTrue())
		Expect(ce.Field).To(Equal("api_key"))
		Expect(ce.EnvVar).To(Equal("TEST_COCALC_APIKEY"))
		Expect(err.Error()).To(ContainSubstring("TEST_COCALC_APIKEY"))
	})

	It("fills in default names", func() {
		Expect(cocalc.DefaultEnvNames()).To(Equal(cocalc.EnvNames{
			APIKey:    "COCALC_APIKEY",
			BaseURL:   "COCALC_BASEURL",
			ProjectID: "COCALC_PROJECTID",
		}))
	})
})
