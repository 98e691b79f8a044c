package commands_test

import (
	"context"
	"errors"
	"testing"

	"maunium.net/go/mautrix/event"

	"github.com/bdobrica/Selah/internal/selah/commands"
)

func TestParse(t *testing.T) {
	r := commands.NewRouter("/bible")

	cmd, err := r.Parse("/bible help")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cmd.Name != "help" {
		t.Errorf("name: %q", cmd.Name)
	}
	if len(cmd.Args) != 0 {
		t.Errorf("args: %#v", cmd.Args)
	}

	cmd, err = r.Parse("  /bible John 3:16 and Romans 8:1  ")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cmd.Name != "John" {
		t.Errorf("name: %q", cmd.Name)
	}
	if cmd.RawText != "John 3:16 and Romans 8:1" {
		t.Errorf("raw text: %q", cmd.RawText)
	}
}

func TestParse_NotACommand(t *testing.T) {
	r := commands.NewRouter("/bible")
	for _, text := range []string{"hello", "bible John 3:16", ""} {
		if _, err := r.Parse(text); !errors.Is(err, commands.ErrNotACommand) {
			t.Errorf("Parse(%q): expected ErrNotACommand, got %v", text, err)
		}
	}
}

func TestParse_EmptyCommand(t *testing.T) {
	r := commands.NewRouter("/bible")
	if _, err := r.Parse("/bible"); err == nil || errors.Is(err, commands.ErrNotACommand) {
		t.Errorf("expected a distinct error for bare prefix, got %v", err)
	}
}

func TestRoute_Named(t *testing.T) {
	r := commands.NewRouter("/bible")
	r.Register("ping", func(ctx context.Context, cmd *commands.Command, evt *event.Event) (string, error) {
		return "pong", nil
	})

	resp, err := r.Route(context.Background(), "/bible PING", nil)
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if resp != "pong" {
		t.Errorf("response: %q", resp)
	}
}

func TestRoute_Fallback(t *testing.T) {
	r := commands.NewRouter("/bible")
	r.Register("help", func(ctx context.Context, cmd *commands.Command, evt *event.Event) (string, error) {
		return "help text", nil
	})
	r.RegisterFallback(func(ctx context.Context, cmd *commands.Command, evt *event.Event) (string, error) {
		return "fallback:" + cmd.RawText, nil
	})

	resp, err := r.Route(context.Background(), "/bible John 3:16", nil)
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if resp != "fallback:John 3:16" {
		t.Errorf("response: %q", resp)
	}
}

func TestRoute_NoFallback(t *testing.T) {
	r := commands.NewRouter("/bible")
	if _, err := r.Route(context.Background(), "/bible whatever", nil); err == nil {
		t.Error("expected error with no fallback registered")
	}
}
