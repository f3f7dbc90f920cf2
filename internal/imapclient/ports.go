package imapclient

import (
	"github.com/emersion/go-imap"
)

// Client is the narrow slice of the go-imap client surface that mailsweep
// consumes, abstracted so the layers above can be tested against a mock.
type Client interface {
	Login(username, password string) error
	Select(name string, readOnly bool) (*imap.MailboxStatus, error)
	Search(criteria *imap.SearchCriteria) (seqNums []uint32, err error)
	Fetch(seqset *imap.SeqSet, items []imap.FetchItem, ch chan *imap.Message) error
	Store(seqset *imap.SeqSet, item imap.StoreItem, value interface{}, ch chan *imap.Message) error
	Expunge(ch chan uint32) error
	Close() error
	Logout() error
}

// Session owns the lifetime of one authenticated, folder-scoped connection.
type Session interface {
	Connect() (Client, error)
	Close()
}
