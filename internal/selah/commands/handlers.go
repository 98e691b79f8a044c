package commands

import (
	"context"
	"fmt"
	"strings"

	"maunium.net/go/mautrix/event"

	"github.com/bdobrica/Selah/common/trace"
	"github.com/bdobrica/Selah/common/version"
	"github.com/bdobrica/Selah/internal/selah/dialog"
	"github.com/bdobrica/Selah/internal/selah/lookup"
	"github.com/bdobrica/Selah/internal/selah/passage"
	"github.com/bdobrica/Selah/internal/selah/ref"
	"github.com/bdobrica/Selah/internal/selah/responses"
	"github.com/bdobrica/Selah/internal/selah/store"
)

// ApologyReply is sent when the lookup service cannot be reached.
const ApologyReply = "Sorry, I couldn't reach the passage service just now. Please try again in a bit."

// Config holds handler dependencies.
type Config struct {
	Store  *store.Store
	Lookup *lookup.Client
	Tables *responses.Tables
}

// Handlers holds all command handlers and their dependencies.
type Handlers struct {
	store  *store.Store
	lookup *lookup.Client
	tables *responses.Tables
}

// NewHandlers creates a Handlers instance.
func NewHandlers(cfg Config) *Handlers {
	return &Handlers{
		store:  cfg.Store,
		lookup: cfg.Lookup,
		tables: cfg.Tables,
	}
}

// HandleHelp shows the supported interactions.
func (h *Handlers) HandleHelp(ctx context.Context, cmd *Command, evt *event.Event) (string, error) {
	help := `**Selah**

I will respond to the following messages:
• /bible <references> - post the text of one or more scripture references, e.g. /bible John 3:16-18 and Romans 8:1
• /bible help - show this message
• /bible version - show version information
• /bible ping - health check

Mention a scripture reference in conversation and I'll ask before posting it.`
	return help, nil
}

// HandleVersion shows build information.
func (h *Handlers) HandleVersion(ctx context.Context, cmd *Command, evt *event.Event) (string, error) {
	return fmt.Sprintf("**Selah**\nVersion: %s\nCommit: %s\nBuild Time: %s",
		version.Version, version.GitCommit, version.BuildTime), nil
}

// HandlePing responds with a health check.
func (h *Handlers) HandlePing(ctx context.Context, cmd *Command, evt *event.Event) (string, error) {
	traceID := trace.NewID()
	if err := h.store.WriteAudit(traceID, evt.Sender.String(), "ping", "", "success", ""); err != nil {
		return "", fmt.Errorf("failed to write audit: %w", err)
	}
	return fmt.Sprintf("🏓 Pong! (trace: %s)", traceID), nil
}

// HandleFetch is the slash-command fetch path: the whole command text is a
// citation request, fetched immediately without confirmation.
func (h *Handlers) HandleFetch(ctx context.Context, cmd *Command, evt *event.Event) (string, error) {
	traceID := trace.NewID()
	sender := evt.Sender.String()

	cits := h.ExtractCitations(cmd.RawText)
	if len(cits) == 0 {
		h.store.WriteAudit(traceID, sender, "fetch", cmd.RawText, "no_match", "")
		return "I couldn't find a scripture reference in that. Try something like: /bible John 3:16", nil
	}

	reply, err := h.FetchAndFormat(ctx, traceID, sender, cits)
	if err != nil {
		return ApologyReply, nil
	}
	// Echo the interpretation so a silent parse mistake is visible.
	return "Interpreting requested verses as:" + dialog.ListRefs(cits) + "\n" + reply, nil
}

// ExtractCitations extracts citations from raw text with the book-name
// alias table applied.
func (h *Handlers) ExtractCitations(raw string) []ref.Citation {
	_, cits := ref.Extract(raw)
	return ref.ApplyAliases(cits, h.tables.Aliases)
}

// FetchAndFormat queries the lookup service for the citations and formats
// the returned body, writing an audit row either way. It is shared by the
// slash-command path and the confirmed-dialog path.
func (h *Handlers) FetchAndFormat(ctx context.Context, traceID, sender string, cits []ref.Citation) (string, error) {
	query := ref.CanonicalQuery(cits)

	body, err := h.lookup.FetchPassage(ctx, query)
	if err != nil {
		h.store.WriteAudit(traceID, sender, "fetch", query, "error", err.Error())
		return "", err
	}

	formatted := passage.Format(body, cits)
	if strings.TrimSpace(formatted) == "" {
		h.store.WriteAudit(traceID, sender, "fetch", query, "empty", "")
		return "The passage service returned nothing for" + dialog.ListRefs(cits) + ". Is the reference valid?", nil
	}

	h.store.WriteAudit(traceID, sender, "fetch", query, "success", "")
	return "Here's your verse!\n" + formatted, nil
}
