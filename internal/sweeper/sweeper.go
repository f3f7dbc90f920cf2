package sweeper

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/emersion/go-imap"
	"github.com/pkg/errors"

	"github.com/mailsweep/mailsweep/internal/imapclient"
	"github.com/mailsweep/mailsweep/internal/locator"
)

// progressEvery controls how often the executor reports mark progress.
const progressEvery = 10

// Outcome aggregates the per-run deletion counters. Deleted counts
// messages successfully marked; whether they were actually purged depends
// on PurgeErr.
type Outcome struct {
	Deleted  int
	Failed   int
	PurgeErr error
}

// Purged reports whether the final expunge succeeded.
func (o Outcome) Purged() bool {
	return o.PurgeErr == nil
}

// Confirm prompts the operator and reads one line. Only an explicit "y" or
// "yes" (case-insensitive) is affirmative; anything else, including read
// failure, cancels.
func Confirm(in io.Reader, out io.Writer, count int) bool {
	fmt.Fprintf(out, "\nDo you want to delete these %d emails? (y/N): ", count)

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

type Sweeper struct {
	client imapclient.Client
	logger *slog.Logger
}

type Option func(*Sweeper)

func WithClient(c imapclient.Client) Option {
	return func(s *Sweeper) {
		s.client = c
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sweeper) {
		s.logger = logger
	}
}

func New(opts ...Option) (*Sweeper, error) {
	var s Sweeper
	for _, opt := range opts {
		opt(&s)
	}

	if s.client == nil {
		return nil, errors.New("requires client")
	}

	if s.logger == nil {
		return nil, errors.New("requires slogger")
	}

	return &s, nil
}

// Execute marks every located message deleted, in order, then expunges the
// mailbox exactly once. A failed mark is counted and skipped; nothing is
// rolled back. A failed expunge leaves messages marked but not purged and
// is reported through the outcome, not as a run failure.
func (s *Sweeper) Execute(msgs []locator.Message) Outcome {
	var out Outcome

	item := imap.FormatFlagsOp(imap.AddFlags, true)
	flags := []interface{}{imap.DeletedFlag}

	for _, msg := range msgs {
		seqset := new(imap.SeqSet)
		seqset.AddNum(msg.ID)

		if err := s.client.Store(seqset, item, flags, nil); err != nil {
			s.logger.Error("failed to mark message deleted",
				slog.Uint64("id", uint64(msg.ID)),
				slog.String("subject", msg.Subject),
				slog.Any("error", err))
			out.Failed++
			continue
		}

		out.Deleted++
		if out.Deleted%progressEvery == 0 {
			s.logger.Info("deletion progress",
				slog.Int("marked", out.Deleted),
				slog.Int("total", len(msgs)))
		}
	}

	if err := s.client.Expunge(nil); err != nil {
		out.PurgeErr = errors.Wrap(err, "expunging deleted emails")
	}

	return out
}
