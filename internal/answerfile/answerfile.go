// Package answerfile fills unattended-installer configuration templates.
// The template grammar is never parsed: substitution is a literal
// find-and-replace of the known empty-quoted keys, so any occurrence in a
// different quoting form is deliberately left untouched.
package answerfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	keyServiceAccount   = "SQLSVCACCOUNT"
	keyServicePassword  = "SQLSVCPASSWORD"
	keySysadminAccounts = "SQLSYSADMINACCOUNTS"
)

// Values are the three fields substituted into a SQL Server setup
// configuration template.
type Values struct {
	ServiceAccount   string
	ServicePassword  string
	SysadminAccounts string
}

// Render loads the template and substitutes the placeholder keys. The
// rest of the text passes through byte for byte.
func Render(templatePath string, values Values) (string, error) {
	raw, err := os.ReadFile(templatePath)
	if err != nil {
		return "", fmt.Errorf("reading answer file template: %w", err)
	}

	text := string(raw)
	text = replaceKey(text, keyServiceAccount, values.ServiceAccount)
	text = replaceKey(text, keyServicePassword, values.ServicePassword)
	text = replaceKey(text, keySysadminAccounts, values.SysadminAccounts)
	return text, nil
}

// replaceKey wraps the value in quotes literally: service accounts carry
// backslashes, so the value must never pass through an escaping formatter.
func replaceKey(text, key, value string) string {
	empty := fmt.Sprintf("%s=\"\"", key)
	filled := fmt.Sprintf("%s=\"%s\"", key, value)
	return strings.ReplaceAll(text, empty, filled)
}

// WriteTemp writes rendered text to a uniquely named file in the system
// temp directory and returns its path together with a cleanup func. The
// caller is expected to defer cleanup so the file never outlives the
// transfer it was written for.
func WriteTemp(text string) (string, func(), error) {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("answerfile-%s.ini", uuid.New().String()))
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		return "", nil, fmt.Errorf("writing temp answer file: %w", err)
	}
	return path, func() { _ = os.Remove(path) }, nil
}
