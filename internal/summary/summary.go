package summary

import (
	"fmt"
	"io"
	"strings"

	"github.com/mailsweep/mailsweep/internal/locator"
)

const (
	// maxPreviewPerSender bounds how many subjects are shown per group.
	maxPreviewPerSender = 5
	// maxSubjectRunes bounds the visible width of a subject preview.
	maxSubjectRunes = 60
)

// Present renders the located messages grouped by sender, preserving
// first-seen order, and reports whether there is anything to delete. It is
// a pure function of its input apart from writing to w.
func Present(w io.Writer, msgs []locator.Message) bool {
	if len(msgs) == 0 {
		fmt.Fprintln(w, "No emails found from non-priority senders.")
		return false
	}

	order := []string{}
	groups := map[string][]locator.Message{}
	for _, msg := range msgs {
		if _, ok := groups[msg.Sender]; !ok {
			order = append(order, msg.Sender)
		}
		groups[msg.Sender] = append(groups[msg.Sender], msg)
	}

	fmt.Fprintf(w, "\nFound %d emails from non-priority senders:\n", len(msgs))
	fmt.Fprintln(w, strings.Repeat("=", 80))

	for _, sender := range order {
		group := groups[sender]
		fmt.Fprintf(w, "\n%s (%d emails):\n", sender, len(group))
		fmt.Fprintln(w, strings.Repeat("-", 60))

		shown := len(group)
		if shown > maxPreviewPerSender {
			shown = maxPreviewPerSender
		}
		for i := 0; i < shown; i++ {
			fmt.Fprintf(w, "   %d. %s\n", i+1, truncateSubject(group[i].Subject))
		}
		if rest := len(group) - shown; rest > 0 {
			fmt.Fprintf(w, "   ... and %d more emails\n", rest)
		}
	}

	fmt.Fprintln(w, strings.Repeat("=", 80))
	return true
}

func truncateSubject(subject string) string {
	runes := []rune(subject)
	if len(runes) <= maxSubjectRunes {
		return subject
	}
	return string(runes[:maxSubjectRunes]) + "..."
}
