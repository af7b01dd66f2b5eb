package command

import "time"

// Sender is the authenticated originator of an inbound message, as reported
// by the transport. Immutable for the lifetime of one message.
type Sender struct {
	ID        string
	Name      string
	Bot       bool
	CreatedAt time.Time
}

// Message is one transport event normalized for the pipeline. ChannelID and
// MessageID are opaque transport handles used only to address the reply.
type Message struct {
	Sender     Sender
	Content    string
	ChannelID  string
	MessageID  string
	Private    bool
	ReceivedAt time.Time
}
