package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
)

const (
	envIMAPAddr = "MAILSWEEP_IMAP_ADDR"
	envIMAPUser = "MAILSWEEP_IMAP_USER"
	envIMAPPass = "MAILSWEEP_IMAP_PASS"
)

// DefaultAddr is used when MAILSWEEP_IMAP_ADDR is not set.
const DefaultAddr = "imap.gmail.com:993"

// Credentials holds the IMAP connection details from environment variables.
// They are passed down explicitly so nothing below the CLI reads ambient
// process state.
type Credentials struct {
	Addr string
	User string
	Pass string
}

type senderList struct {
	Senders []string `json:"senders"`
}

// LoadSenders reads the non-priority sender list from a JSON file. The
// document must contain a "senders" key holding a non-empty array of
// non-blank, unique strings; anything else fails fast with a descriptive
// error. Order is preserved and defines processing order.
func LoadSenders(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading senders config %s", path)
	}

	var doc senderList
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "invalid JSON in %s", path)
	}

	if doc.Senders == nil {
		return nil, fmt.Errorf("%s must define a %q array of sender strings", path, "senders")
	}
	if len(doc.Senders) == 0 {
		return nil, fmt.Errorf("%s defines no senders", path)
	}

	seen := make(map[string]struct{}, len(doc.Senders))
	for i, sender := range doc.Senders {
		if strings.TrimSpace(sender) == "" {
			return nil, fmt.Errorf("%s: sender %d is blank", path, i+1)
		}
		if _, ok := seen[sender]; ok {
			return nil, fmt.Errorf("%s: duplicate sender %q", path, sender)
		}
		seen[sender] = struct{}{}
	}

	return doc.Senders, nil
}

// CredentialsFromEnv loads IMAP credentials and validates required entries.
// The password is expected to be an application-scoped token rather than
// the primary account password.
func CredentialsFromEnv() (Credentials, error) {
	missing := []string{}

	user := strings.TrimSpace(os.Getenv(envIMAPUser))
	if user == "" {
		missing = append(missing, envIMAPUser)
	}

	pass := strings.TrimSpace(os.Getenv(envIMAPPass))
	if pass == "" {
		missing = append(missing, envIMAPPass)
	}

	if len(missing) > 0 {
		return Credentials{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	addr := strings.TrimSpace(os.Getenv(envIMAPAddr))
	if addr == "" {
		addr = DefaultAddr
	}

	return Credentials{
		Addr: addr,
		User: user,
		Pass: pass,
	}, nil
}

// Summary returns a concise description for validation runs.
func Summary(path string, senders []string, creds Credentials) string {
	return fmt.Sprintf(
		"Config summary\n"+
			"- senders file: %s\n"+
			"- senders: %d\n"+
			"- server: %s\n"+
			"- account: %s",
		path,
		len(senders),
		creds.Addr,
		creds.User,
	)
}
