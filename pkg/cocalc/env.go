package cocalc

import (
	"errors"
	"os"
)

// DefaultEnvNames returns the standard COCALC_* variable names.
func DefaultEnvNames() EnvNames {
	return EnvNames{
		APIKey:    DefaultAPIKeyEnv,
		BaseURL:   DefaultBaseURLEnv,
		ProjectID: DefaultProjectIDEnv,
	}
}

// ReadCredentials reads the credentials from the environment at call time.
// Empty names fall back to the defaults.
func ReadCredentials(names EnvNames) Credentials {
	names = names.withDefaults()

	return Credentials{
		APIKey:    os.Getenv(names.APIKey),
		BaseURL:   os.Getenv(names.BaseURL),
		ProjectID: os.Getenv(names.ProjectID),
	}
}

// NewFromEnv builds a Client from credentials found in the environment.
func NewFromEnv(names EnvNames, opts ...Option) (*Client, error) {
	names = names.withDefaults()

	c, err := New(ReadCredentials(names), opts...)
	if err != nil {
		var ce *ConfigError
		if errors.As(err, &ce) {
			ce.EnvVar = names.lookup(ce.Field)
		}
		return nil, err
	}

	return c, nil
}

func (n EnvNames) withDefaults() EnvNames {
	d := DefaultEnvNames()
	if n.APIKey == "" {
		n.APIKey = d.APIKey
	}
	if n.BaseURL == "" {
		n.BaseURL = d.BaseURL
	}
	if n.ProjectID == "" {
		n.ProjectID = d.ProjectID
	}
	return n
}

func (n EnvNames) lookup(field string) string {
	switch field {
	case fieldAPIKey:
		return n.APIKey
	case fieldBaseURL:
		return n.BaseURL
	case fieldProjectID:
		return n.ProjectID
	}
	return ""
}
