package ldap

import (
	"errors"
	"fmt"

	"github.com/Songmu/prompter"
)

// TerminalPrompter asks for a bind password on the controlling terminal.
type TerminalPrompter struct{}

// PromptCredential reads a password for dn without echo. It fails when no
// password was entered, which includes running without a terminal.
func (TerminalPrompter) PromptCredential(dn string) (string, error) {
	password := (&prompter.Prompter{
		Message:    fmt.Sprintf("Password for %s", dn),
		UseDefault: false,
		NoEcho:     true,
	}).Prompt()

	if password == "" {
		return "", errors.New("no password entered")
	}

	return password, nil
}
