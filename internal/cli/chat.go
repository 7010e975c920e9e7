package cli

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/spf13/pflag"

	"github.com/oubuilding/apartment-client/internal/core/domain"
)

func chatCommand(env *Env) *Command {
	return &Command{
		Name:    "chat",
		Summary: "Chat with the administration or a resident",
		Subcommands: []*Command{
			chatContactsCommand(env),
			chatSendCommand(env),
			chatWatchCommand(env),
		},
	}
}

func chatContactsCommand(env *Env) *Command {
	return &Command{
		Name:    "contacts",
		Summary: "List who the admin can chat with",
		Run: func(ctx context.Context, _ []string) error {
			return env.open(ctx, domain.TabChat, domain.ScreenMainChat, func(ctx context.Context) error {
				contacts, err := env.Client.Chat().Contacts(ctx)
				if err != nil {
					return err
				}
				p := env.printer()
				if len(contacts) == 0 {
					p.empty("contacts")
					return nil
				}
				rows := make([][]string, 0, len(contacts))
				for _, c := range contacts {
					rows = append(rows, []string{c.Username, c.FullName()})
				}
				p.table([]string{"USERNAME", "NAME"}, rows)
				return nil
			})
		},
	}
}

func chatSendCommand(env *Env) *Command {
	var to, text string
	return &Command{
		Name:    "send",
		Summary: "Send one message",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("send", pflag.ContinueOnError)
			fs.StringVar(&to, "to", "", "username to write to (admin only)")
			fs.StringVarP(&text, "text", "t", "", "message text")
			return fs
		},
		Run: func(ctx context.Context, _ []string) error {
			if text == "" {
				return usageError("--text is required")
			}
			if _, err := env.restore(ctx); err != nil {
				return err
			}
			if err := env.Client.Navigation().Navigate(domain.TabChat, domain.ScreenChat); err != nil {
				return fail("open "+domain.ScreenChat, err)
			}
			if err := env.Client.Chat().Send(ctx, to, text); err != nil {
				return fail("send the message", err)
			}
			env.printer().ok("sent")
			return nil
		},
	}
}

func chatWatchCommand(env *Env) *Command {
	var to string
	return &Command{
		Name:    "watch",
		Summary: "Follow a conversation until interrupted",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("watch", pflag.ContinueOnError)
			fs.StringVar(&to, "to", "", "username to chat with (admin only)")
			return fs
		},
		Run: func(ctx context.Context, _ []string) error {
			if _, err := env.restore(ctx); err != nil {
				return err
			}
			if err := env.Client.Navigation().Navigate(domain.TabChat, domain.ScreenChat); err != nil {
				return fail("open "+domain.ScreenChat, err)
			}

			peer, err := env.Client.Chat().Peer(to)
			if err != nil {
				return fail("open the chat", err)
			}

			t := &transcript{p: env.printer(), seen: make(map[string]bool)}
			t.p.header("Chat with " + peer)
			conv, err := env.Client.Chat().Open(ctx, peer, t.update)
			if err != nil {
				return fail("open the chat", err)
			}
			defer conv.Close()
			<-ctx.Done()
			return nil
		},
	}
}

// transcript prints every message of a room once, oldest first.
type transcript struct {
	p printer

	mu   sync.Mutex
	seen map[string]bool
}

func (t *transcript) update(snapshot []domain.ChatMessage) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// Snapshots arrive newest first.
	ordered := slices.Clone(snapshot)
	slices.Reverse(ordered)
	for _, m := range ordered {
		if t.seen[m.ID] {
			continue
		}
		t.seen[m.ID] = true
		at := time.UnixMilli(m.Timestamp).Format("15:04")
		t.p.line("%s %s: %s", mutedStyle.Render(at), groupStyle.Render(m.Sender), m.Text)
	}
}
