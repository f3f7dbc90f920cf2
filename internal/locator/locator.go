package locator

import (
	"log/slog"
	"strings"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-message"
	"github.com/pkg/errors"

	"github.com/mailsweep/mailsweep/internal/imapclient"
)

// Message is the minimal metadata kept for one matching email. The ID is
// only valid within the session that produced it.
type Message struct {
	ID      uint32
	Subject string
	From    string
	Date    string
	Sender  string
}

// headerSection fetches only the message header, without marking it read.
var headerSection = &imap.BodySectionName{
	BodyPartName: imap.BodyPartName{Specifier: imap.HeaderSpecifier},
	Peek:         true,
}

type Locator struct {
	client imapclient.Client
	logger *slog.Logger
}

type Option func(*Locator)

func WithClient(c imapclient.Client) Option {
	return func(l *Locator) {
		l.client = c
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Locator) {
		l.logger = logger
	}
}

func New(opts ...Option) (*Locator, error) {
	var l Locator
	for _, opt := range opts {
		opt(&l)
	}

	if l.client == nil {
		return nil, errors.New("requires client")
	}

	if l.logger == nil {
		return nil, errors.New("requires slogger")
	}

	return &l, nil
}

// Locate searches the selected mailbox for each sender pattern in list
// order and returns the matching messages, ordered by sender, then by the
// order the server returned them. A failed search skips that sender; a
// failed fetch skips that message. Neither aborts the run.
func (l *Locator) Locate(senders []string) []Message {
	located := make([]Message, 0)

	for _, sender := range senders {
		ids, err := l.search(sender)
		if err != nil {
			l.logger.Error("searching sender failed",
				slog.String("sender", sender),
				slog.Any("error", err))
			continue
		}

		found := 0
		for _, id := range ids {
			msg, err := l.fetchOne(id)
			if err != nil {
				l.logger.Warn("skipping message",
					slog.Uint64("id", uint64(id)),
					slog.String("sender", sender),
					slog.Any("error", err))
				continue
			}
			msg.Sender = sender
			located = append(located, msg)
			found++
		}

		l.logger.Info("sender scan complete",
			slog.String("sender", sender),
			slog.Int("found", found))
	}

	return located
}

func (l *Locator) search(sender string) ([]uint32, error) {
	criteria := imap.NewSearchCriteria()
	criteria.Header.Add("From", sanitizePattern(sender))

	ids, err := l.client.Search(criteria)
	if err != nil {
		return nil, errors.Wrap(err, "search")
	}
	return ids, nil
}

func (l *Locator) fetchOne(id uint32) (Message, error) {
	seqset := new(imap.SeqSet)
	seqset.AddNum(id)

	ch := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- l.client.Fetch(seqset, []imap.FetchItem{headerSection.FetchItem()}, ch)
	}()

	var raw *imap.Message
	for msg := range ch {
		if raw == nil {
			raw = msg
		}
	}

	if err := <-done; err != nil {
		return Message{}, errors.Wrap(err, "fetch")
	}
	if raw == nil {
		return Message{}, errors.New("server returned no message data")
	}

	body := raw.GetBody(headerSection)
	if body == nil {
		return Message{}, errors.New("missing header section")
	}

	entity, err := message.Read(body)
	if err != nil && !message.IsUnknownCharset(err) {
		return Message{}, errors.Wrap(err, "parsing header")
	}

	return Message{
		ID:      id,
		Subject: decodeSubject(entity.Header),
		From:    entity.Header.Get("From"),
		Date:    entity.Header.Get("Date"),
	}, nil
}

// sanitizePattern strips line breaks from the sender-controlled pattern so
// it cannot smuggle extra search syntax. Quoting on the wire is handled by
// the IMAP library.
func sanitizePattern(pattern string) string {
	pattern = strings.ReplaceAll(pattern, "\r", "")
	pattern = strings.ReplaceAll(pattern, "\n", "")
	return strings.TrimSpace(pattern)
}
