package config

import (
	"fmt"
	"os"
	"strings"
)

// SecretSource says where a secret value came from.
type SecretSource string

const (
	SecretUnset SecretSource = ""
	SecretEnv   SecretSource = "env"
	SecretFile  SecretSource = "file"
)

// LookupSecret resolves name using the *_FILE convention: a path in
// NAME_FILE wins over a literal value in NAME. File contents are trimmed.
func LookupSecret(name string) (string, SecretSource, error) {
	if path, ok := os.LookupEnv(name + "_FILE"); ok && path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", SecretUnset, fmt.Errorf("failed to read secret from %s_FILE=%s: %w", name, path, err)
		}
		return strings.TrimSpace(string(b)), SecretFile, nil
	}
	if v, ok := os.LookupEnv(name); ok {
		return v, SecretEnv, nil
	}
	return "", SecretUnset, nil
}

// ExportSecret resolves name and, when it came from a file, sets NAME so
// libraries that only read the plain variable (lib/pq reads PGPASSWORD) see it.
func ExportSecret(name string) error {
	v, src, err := LookupSecret(name)
	if err != nil {
		return err
	}
	if src == SecretFile {
		return os.Setenv(name, v)
	}
	return nil
}
