// Package commands provides slash-command parsing and routing for Selah.
package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"maunium.net/go/mautrix/event"
)

// Command is a parsed slash command.
type Command struct {
	// Name is the first word after the prefix ("help", "ping", or the first
	// word of a citation request).
	Name string
	// Args are the remaining words.
	Args []string
	// RawText is everything after the prefix, untrimmed of citation text.
	RawText string
}

// ErrNotACommand is returned by Parse when the message does not start with
// the command prefix. Callers use errors.Is to distinguish this expected
// case from real errors.
var ErrNotACommand = errors.New("not a command (missing prefix)")

// Handler handles one command and returns the reply text.
type Handler func(ctx context.Context, cmd *Command, evt *event.Event) (string, error)

// Router routes slash commands to handlers. Anything after the prefix that
// is not a registered command name falls through to the fallback handler,
// which treats the whole text as a citation request.
type Router struct {
	handlers map[string]Handler
	fallback Handler
	prefix   string
}

// NewRouter creates a Router for the given prefix (e.g. "/bible").
func NewRouter(prefix string) *Router {
	return &Router{
		handlers: make(map[string]Handler),
		prefix:   prefix,
	}
}

// Register registers a named command handler.
func (r *Router) Register(name string, handler Handler) {
	r.handlers[name] = handler
}

// RegisterFallback registers the handler for unnamed command text.
func (r *Router) RegisterFallback(handler Handler) {
	r.fallback = handler
}

// Parse splits a prefixed message into a Command.
func (r *Router) Parse(text string) (*Command, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, r.prefix) {
		return nil, ErrNotACommand
	}
	rest := strings.TrimSpace(strings.TrimPrefix(text, r.prefix))
	if rest == "" {
		return nil, fmt.Errorf("empty command")
	}

	parts := strings.Fields(rest)
	return &Command{
		Name:    parts[0],
		Args:    parts[1:],
		RawText: rest,
	}, nil
}

// Route parses the message and invokes the matching handler, or the
// fallback when the first word names no registered command.
func (r *Router) Route(ctx context.Context, text string, evt *event.Event) (string, error) {
	cmd, err := r.Parse(text)
	if err != nil {
		return "", err
	}

	if handler, ok := r.handlers[strings.ToLower(cmd.Name)]; ok {
		return handler(ctx, cmd, evt)
	}
	if r.fallback != nil {
		return r.fallback(ctx, cmd, evt)
	}
	return "", fmt.Errorf("unknown command: %s", cmd.Name)
}
