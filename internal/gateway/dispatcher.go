package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/keshon/walletkeeper/internal/command"
)

// Throttle is the per-sender minimum-interval check. Allow both records the
// sighting and decides.
type Throttle interface {
	Allow(id string, now time.Time) bool
}

// AccessPolicy answers the ban question with context awareness.
type AccessPolicy interface {
	IsBanned(id string, private bool) bool
}

// Texts are the replies the pipeline itself produces; handler replies come
// from the handlers.
type Texts struct {
	TooNew            string
	UnknownCommand    string
	NoAccount         string
	WrongChannel      string
	NotAuthorized     string
	PrivateNotAllowed string
	MissingArgument   string // formatted with command and argument name
	InternalError     string
}

// DispatcherConfig wires a Dispatcher.
type DispatcherConfig struct {
	Prefix   string
	Grace    time.Duration // minimum sender account age for commands
	Registry *command.Registry
	Throttle Throttle
	Policy   AccessPolicy
	Ready    func() bool
	Texts    Texts

	// Observe, when set, sees every message that passed filtering; it feeds
	// the rain activity roster.
	Observe func(msg *command.Message)

	// Audit, when set, records a command right before its handler runs.
	Audit func(msg *command.Message, cmdName string)
}

// Dispatcher runs the per-message pipeline: filter, resolve, parse, guard,
// execute, map failures to replies. One Dispatch call handles one message;
// calls for different messages run concurrently.
type Dispatcher struct {
	cfg DispatcherConfig
}

func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	return &Dispatcher{cfg: cfg}
}

// Dispatch consumes one inbound message and returns at most one reply.
// A nil reply means silence: filtered traffic, plain chatter and bare
// prefixes all end quietly.
func (d *Dispatcher) Dispatch(ctx context.Context, msg *command.Message) *command.Reply {
	if !d.cfg.Ready() {
		return nil
	}
	if msg.Sender.Bot {
		return nil
	}

	now := msg.ReceivedAt
	if now.IsZero() {
		now = time.Now()
	}

	// The throttle records the sighting even for banned senders, so a ban
	// never resets the spam clock.
	if !d.cfg.Throttle.Allow(msg.Sender.ID, now) {
		return nil
	}
	if d.cfg.Policy.IsBanned(msg.Sender.ID, msg.Private) {
		return nil
	}
	if d.cfg.Observe != nil {
		d.cfg.Observe(msg)
	}

	if !strings.HasPrefix(msg.Content, d.cfg.Prefix) {
		return nil
	}

	// The too-new gate applies only to senders issuing commands.
	if d.cfg.Grace > 0 && now.Before(msg.Sender.CreatedAt.Add(d.cfg.Grace)) {
		return &command.Reply{Text: d.cfg.Texts.TooNew}
	}

	body := strings.TrimPrefix(msg.Content, d.cfg.Prefix)
	tokens := strings.Fields(body)
	if len(tokens) == 0 {
		return nil
	}

	desc, ok := d.cfg.Registry.Resolve(tokens[0])
	if !ok {
		return &command.Reply{Text: d.cfg.Texts.UnknownCommand}
	}

	inv := &command.Invocation{Message: msg}
	args, err := command.ParseArgs(desc, tokens[1:])
	inv.Args = args
	if err != nil {
		var missing *command.MissingArgumentError
		if errors.As(err, &missing) {
			if desc.Usage != nil {
				return d.run(ctx, desc.Name, desc.Usage, inv)
			}
			return &command.Reply{Text: fmt.Sprintf(d.cfg.Texts.MissingArgument, missing.Command, missing.Arg)}
		}
		log.Printf("[ERR] Argument parsing for %q failed: %v", desc.Name, err)
		return &command.Reply{Text: d.cfg.Texts.InternalError}
	}

	if err := command.EvaluateGuards(ctx, desc.Guards, msg); err != nil {
		return d.denial(desc.Name, msg.Sender.ID, err)
	}

	// Logged before execution so even a crashing handler leaves a trail.
	suffix := ""
	if msg.Private {
		suffix = " in private channel"
	}
	log.Printf("[INFO] COMMAND %q executed by %s (%s)%s", desc.Name, msg.Sender.ID, msg.Sender.Name, suffix)
	if d.cfg.Audit != nil {
		d.cfg.Audit(msg, desc.Name)
	}

	return d.run(ctx, desc.Name, desc.Handler, inv)
}

func (d *Dispatcher) run(ctx context.Context, name string, fn command.HandlerFunc, inv *command.Invocation) *command.Reply {
	reply, err := fn(ctx, inv)
	if err != nil {
		// Full cause stays server-side; the sender only sees a generic notice.
		log.Printf("[ERR] Command %q failed for %s: %v", name, inv.Message.Sender.ID, err)
		return &command.Reply{Text: d.cfg.Texts.InternalError}
	}
	return reply
}

func (d *Dispatcher) denial(name, senderID string, err error) *command.Reply {
	switch {
	case errors.Is(err, command.ErrNotRegistered):
		return &command.Reply{Text: d.cfg.Texts.NoAccount}
	case errors.Is(err, command.ErrWrongChannel):
		return &command.Reply{Text: d.cfg.Texts.WrongChannel}
	case errors.Is(err, command.ErrNotAuthorized):
		return &command.Reply{Text: d.cfg.Texts.NotAuthorized}
	case errors.Is(err, command.ErrPrivateNotAllowed):
		return &command.Reply{Text: d.cfg.Texts.PrivateNotAllowed}
	default:
		log.Printf("[ERR] Guard for %q failed for %s: %v", name, senderID, err)
		return &command.Reply{Text: d.cfg.Texts.InternalError}
	}
}
