package command

import "context"

// ArgKind selects how a positional token is parsed.
type ArgKind int

const (
	ArgString ArgKind = iota
	ArgInt
	ArgFloat
	ArgMention // a user reference: <@id>, <@!id> or a bare numeric id
	ArgRest    // everything remaining, joined with spaces; must be last
)

// Arg describes one positional argument of a command.
type Arg struct {
	Name     string
	Kind     ArgKind
	Optional bool
	Default  string // raw token parsed like user input; empty means no default
}

// HandlerFunc executes a resolved, parsed, guard-approved command and
// produces at most one reply.
type HandlerFunc func(ctx context.Context, inv *Invocation) (*Reply, error)

// Descriptor is the immutable registration record of one command. Guards
// run in declaration order; Usage, when set, replaces the generic
// missing-argument reply with command-specific instructions.
type Descriptor struct {
	Name        string
	Aliases     []string
	Description string
	Category    string
	Args        []Arg
	Guards      []Guard
	Handler     HandlerFunc
	Usage       HandlerFunc
}

// Invocation is what a handler receives: the triggering message plus its
// parsed arguments.
type Invocation struct {
	Message *Message
	Args    Args
}

// Args holds parsed argument values keyed by Arg.Name. Optional arguments
// without a default are simply absent.
type Args map[string]any

func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

func (a Args) String(name string) string {
	v, _ := a[name].(string)
	return v
}

func (a Args) Int(name string) int {
	v, _ := a[name].(int)
	return v
}

func (a Args) Float(name string) float64 {
	v, _ := a[name].(float64)
	return v
}

// Reply is the single outcome of a dispatch cycle. DM routes the payload to
// a direct channel with the sender; DMFallback is sent to the origin channel
// when that delivery is refused. React acknowledges the triggering message.
type Reply struct {
	Text       string
	DM         bool
	DMFallback string
	React      bool
	File       *File
}

// File is a rich payload attached to a reply.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}
