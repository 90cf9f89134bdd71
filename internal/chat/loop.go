package chat

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"gemini-chat/internal/observability"
)

// Option configures a Loop.
type Option func(*Loop)

// WithLabel sets the speaker name printed in front of replies.
func WithLabel(label string) Option {
	return func(l *Loop) {
		if strings.TrimSpace(label) != "" {
			l.console.label = label
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Loop reads console lines and forwards them to a Session until the user
// quits, input ends, or ctx is cancelled.
type Loop struct {
	session *Session
	in      io.Reader
	console *console
	logger  *slog.Logger
}

func NewLoop(session *Session, in io.Reader, out io.Writer, opts ...Option) (*Loop, error) {
	if session == nil {
		return nil, errors.New("session is required")
	}
	if in == nil {
		return nil, errors.New("input reader is required")
	}
	if out == nil {
		out = io.Discard
	}
	l := &Loop{
		session: session,
		in:      in,
		console: &console{out: out, label: "Gemini"},
		logger:  observability.Discard(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Run prints the banner, sends initialPrompt when it is not blank, then
// serves console input. Quit, end of input and cancellation all end the
// loop normally; send failures are printed and never returned.
func (l *Loop) Run(ctx context.Context, initialPrompt string) error {
	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	lines := l.readLines(readCtx)

	l.console.banner(l.session.Model())
	l.logger.Debug("session ready", "session_id", l.session.ID())

	if prompt := strings.TrimSpace(initialPrompt); prompt != "" {
		l.console.echo(prompt)
		l.exchange(ctx, prompt)
	}

	for ctx.Err() == nil {
		l.console.prompt()
		var line string
		var ok bool
		select {
		case <-ctx.Done():
		case line, ok = <-lines:
		}
		if ctx.Err() != nil {
			break
		}
		if !ok {
			l.logger.Debug("end of input")
			break
		}

		text := strings.TrimSpace(line)
		if isQuit(text) {
			break
		}
		if text == "" {
			continue
		}
		l.exchange(ctx, text)
	}

	l.console.farewell()
	return nil
}

// exchange performs one Send with the transient indicator around it.
func (l *Loop) exchange(ctx context.Context, text string) {
	l.console.thinking()
	result := l.session.Send(ctx, text)
	l.console.clearThinking()

	switch result.Outcome {
	case OutcomeReply:
		l.console.reply(result.Text)
	case OutcomeEmpty:
		l.console.empty()
	case OutcomeFailed:
		if ctx.Err() != nil {
			// Interrupted mid-request; Run prints the farewell.
			return
		}
		l.console.failure(result.Err)
	}
}

// readLines feeds console lines to the loop from a separate goroutine so an
// interrupt can end a pending read. The channel closes at end of input.
func (l *Loop) readLines(ctx context.Context) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		reader := bufio.NewReader(l.in)
		for {
			line, err := reader.ReadString('\n')
			if err == nil || line != "" {
				select {
				case lines <- line:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					l.logger.Warn("read input", "error", err)
				}
				return
			}
		}
	}()
	return lines
}

func isQuit(text string) bool {
	return strings.EqualFold(text, "quit") || strings.EqualFold(text, "exit")
}
