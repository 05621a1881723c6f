package config

import "testing"

func TestValidateAgainstSchema_Valid(t *testing.T) {
	retries := 2
	cfg := Config{
		RepoURL:      "https://example.com/packages.json",
		InstallDir:   "/opt/plugins",
		CacheTTL:     "0",
		HTTPTimeout:  "10s",
		HTTPRetries:  &retries,
		BuildCommand: "xcodebuild -project {project} build",
	}
	if err := ValidateAgainstSchema(cfg); err != nil {
		t.Fatalf("expected valid schema, got error: %v", err)
	}
}

func TestValidateAgainstSchema_Invalid(t *testing.T) {
	retries := 50
	cases := map[string]Config{
		"bad url":     {RepoURL: "ftp://example.com"},
		"bad ttl":     {RepoURL: "https://example.com", CacheTTL: "tomorrow"},
		"bad retries": {RepoURL: "https://example.com", HTTPRetries: &retries},
	}
	for name, cfg := range cases {
		if err := ValidateAgainstSchema(cfg); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
