package command

import "context"

// Guard is a named predicate over the sender and delivery context. Guards
// may read shared state (account store, channel list) but never mutate it.
type Guard struct {
	Name  string
	Check func(ctx context.Context, msg *Message) error
}

// EvaluateGuards runs guards strictly in declaration order and stops at the
// first failure. The returned error is the failing guard's reason; guards
// after it are never evaluated.
func EvaluateGuards(ctx context.Context, guards []Guard, msg *Message) error {
	for _, g := range guards {
		if err := g.Check(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}
