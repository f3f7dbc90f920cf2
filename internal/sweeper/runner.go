package sweeper

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"

	"github.com/mailsweep/mailsweep/internal/imapclient"
	"github.com/mailsweep/mailsweep/internal/locator"
	"github.com/mailsweep/mailsweep/internal/summary"
)

// Runner sequences one full sweep: open the session, locate messages,
// present the summary, confirm, execute, report. The session is closed on
// every exit path past a successful open.
type Runner struct {
	session imapclient.Session
	senders []string
	logger  *slog.Logger
	in      io.Reader
	out     io.Writer
	dryRun  bool
}

type RunnerOption func(*Runner)

func WithSession(session imapclient.Session) RunnerOption {
	return func(r *Runner) {
		r.session = session
	}
}

func WithSenders(senders []string) RunnerOption {
	return func(r *Runner) {
		r.senders = senders
	}
}

func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

func WithInput(in io.Reader) RunnerOption {
	return func(r *Runner) {
		r.in = in
	}
}

func WithOutput(out io.Writer) RunnerOption {
	return func(r *Runner) {
		r.out = out
	}
}

func WithDryRun(dryRun bool) RunnerOption {
	return func(r *Runner) {
		r.dryRun = dryRun
	}
}

func NewRunner(opts ...RunnerOption) (*Runner, error) {
	r := &Runner{
		in:  os.Stdin,
		out: os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.session == nil {
		return nil, errors.New("requires session")
	}

	if r.logger == nil {
		return nil, errors.New("requires slogger")
	}

	if len(r.senders) == 0 {
		return nil, errors.New("requires at least one sender")
	}

	return r, nil
}

// Run performs one sweep. It returns an error only for session-open
// failures; per-item failures during discovery and execution are logged
// and tolerated. Cancellation and "nothing to do" are normal completions.
func (r *Runner) Run() error {
	r.logger.Info("connecting", slog.Int("senders", len(r.senders)))

	client, err := r.session.Connect()
	if err != nil {
		return err
	}
	defer r.session.Close()

	r.logger.Info("connected, scanning mailbox")

	loc, err := locator.New(
		locator.WithClient(client),
		locator.WithLogger(r.logger),
	)
	if err != nil {
		return err
	}

	msgs := loc.Locate(r.senders)

	if !summary.Present(r.out, msgs) {
		return nil
	}

	if r.dryRun {
		fmt.Fprintf(r.out, "Dry run: would delete %d emails.\n", len(msgs))
		return nil
	}

	if !Confirm(r.in, r.out, len(msgs)) {
		fmt.Fprintln(r.out, "Email deletion cancelled.")
		return nil
	}

	sw, err := New(
		WithClient(client),
		WithLogger(r.logger),
	)
	if err != nil {
		return err
	}

	r.report(sw.Execute(msgs))
	return nil
}

func (r *Runner) report(out Outcome) {
	if !out.Purged() {
		fmt.Fprintf(r.out, "Marked %d emails deleted, but purging failed: %v\n", out.Deleted, out.PurgeErr)
		fmt.Fprintln(r.out, "The marked emails remain in the mailbox until a later purge.")
	} else {
		fmt.Fprintf(r.out, "Deleted %d emails.\n", out.Deleted)
	}
	if out.Failed > 0 {
		fmt.Fprintf(r.out, "Failed to delete %d emails.\n", out.Failed)
	}
}
