package imapclient

import (
	"crypto/tls"
	"strings"

	"github.com/emersion/go-imap/client"
	"github.com/pkg/errors"
)

// DefaultMailbox is the folder selected when none is configured.
const DefaultMailbox = "INBOX"

// Connector dials, authenticates, and selects a single mailbox. It must be
// connected exactly once per run and closed exactly once on the way out.
type Connector struct {
	Addr      string
	Username  string
	Password  string
	Mailbox   string
	TLSConfig *tls.Config

	client *client.Client
}

type Option func(*Connector)

func WithAddr(addr string) Option {
	return func(c *Connector) {
		c.Addr = addr
	}
}

func WithCreds(username, password string) Option {
	return func(c *Connector) {
		c.Username = username
		c.Password = password
	}
}

func WithMailbox(mailbox string) Option {
	return func(c *Connector) {
		c.Mailbox = mailbox
	}
}

func WithTLSConfig(config *tls.Config) Option {
	return func(c *Connector) {
		c.TLSConfig = config
	}
}

func NewConnector(opts ...Option) *Connector {
	c := &Connector{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect establishes the IMAP connection, logs in, and selects the mailbox.
func (c *Connector) Connect() (Client, error) {
	if strings.TrimSpace(c.Addr) == "" {
		return nil, errors.New("IMAP address is required")
	}
	if strings.TrimSpace(c.Username) == "" || strings.TrimSpace(c.Password) == "" {
		return nil, errors.New("IMAP credentials are required")
	}
	if strings.TrimSpace(c.Mailbox) == "" {
		c.Mailbox = DefaultMailbox
	}

	cl, err := client.DialTLS(c.Addr, c.TLSConfig)
	if err != nil {
		return nil, wrap(KindConnectivity, "dial", err)
	}

	if err := cl.Login(c.Username, c.Password); err != nil {
		_ = cl.Logout()
		return nil, wrap(KindAuth, "login", err)
	}

	if _, err := cl.Select(c.Mailbox, false); err != nil {
		_ = cl.Logout()
		return nil, wrap(KindProtocol, "select", err)
	}

	c.client = cl
	return cl, nil
}

// Close closes the selected mailbox and logs out. It runs during teardown,
// so failures are swallowed.
func (c *Connector) Close() {
	if c.client == nil {
		return
	}
	_ = c.client.Close()
	_ = c.client.Logout()
	c.client = nil
}
