// Package discord adapts the transport-agnostic gateway to Discord: it
// turns discordgo events into inbound messages and renders replies back
// through the session.
package discord

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/walletkeeper/internal/command"
	"github.com/keshon/walletkeeper/internal/config"
	"github.com/keshon/walletkeeper/internal/gateway"
)

const ackEmoji = "✅"

// Bot is the Discord face of the gateway.
type Bot struct {
	dg       *discordgo.Session
	cfg      *config.Config
	channels *gateway.ChannelList

	dispatcher *gateway.Dispatcher
	sequencer  *gateway.Sequencer
}

// New creates the session but does not connect; Run does.
func New(cfg *config.Config, token string, channels *gateway.ChannelList) (*Bot, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	return &Bot{dg: dg, cfg: cfg, channels: channels}, nil
}

// Attach wires the message pipeline and the bring-up sequencer. Must be
// called before Run.
func (b *Bot) Attach(dispatcher *gateway.Dispatcher, sequencer *gateway.Sequencer) {
	b.dispatcher = dispatcher
	b.sequencer = sequencer
}

// Latency reports the gateway heartbeat round trip.
func (b *Bot) Latency() time.Duration {
	return b.dg.HeartbeatLatency()
}

// Announce posts text to every allow-listed channel and returns how many
// deliveries succeeded.
func (b *Bot) Announce(text string) int {
	sent := 0
	for _, id := range b.channels.IDs() {
		if _, err := b.dg.ChannelMessageSend(id, text); err != nil {
			log.Printf("[ERR] Announcement to channel %s failed: %v", id, err)
			continue
		}
		sent++
	}
	return sent
}

// Run connects and serves events until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.dg.AddHandler(b.onReady)
	b.dg.AddHandler(b.onMessageCreate)

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.dg.Close()

	<-ctx.Done()
	log.Println("[INFO] Shutdown signal received. Cleaning up...")
	return nil
}

// Close tears the session down outside of Run, used by the fatal bring-up
// path.
func (b *Bot) Close() {
	if err := b.dg.Close(); err != nil {
		log.Println("[ERR] Session close failed:", err)
	}
}

// onReady fires on connect and on every reconnect; the sequencer makes the
// second and later calls no-ops.
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Printf("[INFO] Connected as %v, running bring-up...", r.User.Username)
	go func() {
		if err := b.sequencer.Run(context.Background()); err != nil {
			log.Println("[ERR] Bring-up failed:", err)
		}
	}()
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID {
		return
	}

	createdAt, err := discordgo.SnowflakeTimestamp(m.Author.ID)
	if err != nil {
		log.Printf("[WARN] Unparseable author id %q: %v", m.Author.ID, err)
		return
	}

	msg := &command.Message{
		Sender: command.Sender{
			ID:        m.Author.ID,
			Name:      m.Author.Username,
			Bot:       m.Author.Bot,
			CreatedAt: createdAt,
		},
		Content:    m.Content,
		ChannelID:  m.ChannelID,
		MessageID:  m.ID,
		Private:    m.GuildID == "",
		ReceivedAt: time.Now(),
	}

	// Each message gets its own dispatch; slow handlers never block the
	// event loop.
	go func() {
		reply := b.dispatcher.Dispatch(context.Background(), msg)
		if reply != nil {
			b.deliver(msg, reply)
		}
	}()
}

// deliver renders one reply: reaction on the triggering message, payload to
// the origin channel or over DM with a fallback notice.
func (b *Bot) deliver(msg *command.Message, reply *command.Reply) {
	if reply.React && !msg.Private {
		if err := b.dg.MessageReactionAdd(msg.ChannelID, msg.MessageID, ackEmoji); err != nil {
			log.Printf("[WARN] Reaction on %s failed: %v", msg.MessageID, err)
		}
	}
	if reply.Text == "" && reply.File == nil {
		return
	}

	channelID := msg.ChannelID
	if reply.DM && !msg.Private {
		dm, err := b.dg.UserChannelCreate(msg.Sender.ID)
		if err != nil {
			log.Printf("[WARN] DM channel for %s failed: %v", msg.Sender.ID, err)
			b.sendFallback(msg.ChannelID, reply)
			return
		}
		channelID = dm.ID
	}

	if err := b.send(channelID, reply); err != nil {
		if channelID != msg.ChannelID {
			// DM refused; tell the sender in the origin channel.
			log.Printf("[WARN] DM to %s failed: %v", msg.Sender.ID, err)
			b.sendFallback(msg.ChannelID, reply)
			return
		}
		log.Printf("[ERR] Reply to channel %s failed: %v", channelID, err)
	}
}

func (b *Bot) send(channelID string, reply *command.Reply) error {
	payload := &discordgo.MessageSend{Content: reply.Text}
	if reply.File != nil {
		payload.Files = []*discordgo.File{{
			Name:        reply.File.Name,
			ContentType: reply.File.ContentType,
			Reader:      bytes.NewReader(reply.File.Data),
		}}
	}
	_, err := b.dg.ChannelMessageSendComplex(channelID, payload)
	return err
}

func (b *Bot) sendFallback(channelID string, reply *command.Reply) {
	if reply.DMFallback == "" {
		return
	}
	if _, err := b.dg.ChannelMessageSend(channelID, reply.DMFallback); err != nil {
		log.Printf("[ERR] Fallback notice to channel %s failed: %v", channelID, err)
	}
}
