// Package terminal interprets the admin terminal's command language.
//
// A Session turns one line of text into a model.Command, sends it through a
// Transport and keeps the continuation that runs when the user submits the
// form rendered by the response.
package terminal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"edat-cli/internal/model"
)

// Transport sends one command to the site and returns the rendered response
// fragment.
type Transport interface {
	Send(ctx context.Context, cmd model.Command) ([]byte, error)
}

// Continuation is the pending "submit" action. It reads the current form,
// and when the required fields are present sends the follow-up command and
// rebinds the session's continuation. A nil response with a nil error means
// nothing was sent.
type Continuation func(ctx context.Context, form Form) ([]byte, error)

func noop(context.Context, Form) ([]byte, error) { return nil, nil }

// Plan is the outcome of parsing a line: the command to send (nil when the
// line is valid but has nothing to send) and the continuation to bind before
// sending it.
type Plan struct {
	Command model.Command
	Next    Continuation
}

type Option func(*Session)

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

type Session struct {
	transport Transport
	now       func() time.Time
	log       *slog.Logger

	mu   sync.Mutex
	next Continuation
	last model.Command
}

func NewSession(t Transport, opts ...Option) *Session {
	s := &Session{
		transport: t,
		now:       time.Now,
		log:       slog.New(slog.DiscardHandler),
		next:      noop,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Execute parses line, binds its continuation and dispatches its command.
// Parse failures wrap ErrInvalidCommand and leave the session untouched.
func (s *Session) Execute(ctx context.Context, line string) ([]byte, error) {
	plan, err := s.Parse(line)
	if err != nil {
		s.log.Debug("parse failed", "line", line, "err", err)
		return nil, err
	}
	return s.Run(ctx, plan)
}

// Run binds plan's continuation and dispatches its command. A plan with no
// command leaves the session untouched.
func (s *Session) Run(ctx context.Context, plan Plan) ([]byte, error) {
	if plan.Command == nil {
		return nil, nil
	}
	s.bind(plan.Next)
	return s.Dispatch(ctx, plan.Command)
}

// Submit runs the bound continuation against form.
func (s *Session) Submit(ctx context.Context, form Form) ([]byte, error) {
	s.mu.Lock()
	next := s.next
	s.mu.Unlock()
	return next(ctx, form)
}

// Dispatch sends cmd and records it as the last command.
func (s *Session) Dispatch(ctx context.Context, cmd model.Command) ([]byte, error) {
	s.mu.Lock()
	s.last = cmd
	s.mu.Unlock()

	s.log.Debug("dispatch", "command", cmd.CommandName())
	body, err := s.transport.Send(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cmd.CommandName(), err)
	}
	return body, nil
}

// Last returns the most recently dispatched command, or nil.
func (s *Session) Last() model.Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Session) bind(next Continuation) {
	if next == nil {
		next = noop
	}
	s.mu.Lock()
	s.next = next
	s.mu.Unlock()
}

// nextSectionID asks the server for the id the next created section gets.
func (s *Session) nextSectionID(ctx context.Context) (uint32, error) {
	body, err := s.Dispatch(ctx, model.NextSectionID{})
	if err != nil {
		return 0, err
	}
	var id uint32
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(body))), &id); err != nil {
		return 0, fmt.Errorf("next section id: unexpected response %q: %w", body, err)
	}
	return id, nil
}

// NowString formats t the way new sections are dated: YYYY-M-D without
// zero padding.
func NowString(t time.Time) string {
	return fmt.Sprintf("%d-%d-%d", t.Year(), int(t.Month()), t.Day())
}
