package commands

import (
	"context"
	"fmt"

	"github.com/keshon/walletkeeper/internal/command"
	"github.com/keshon/walletkeeper/internal/gateway"
	"github.com/keshon/walletkeeper/internal/store"
)

// requiresAccount passes only for senders with a registered account. It is
// the one guard that performs external I/O, so descriptors list it after
// the in-memory checks.
func requiresAccount(accounts store.Store) command.Guard {
	return command.Guard{
		Name: "requires_account",
		Check: func(ctx context.Context, msg *command.Message) error {
			exists, err := accounts.Exists(ctx, msg.Sender.ID)
			if err != nil {
				return fmt.Errorf("account lookup: %w", err)
			}
			if !exists {
				return command.ErrNotRegistered
			}
			return nil
		},
	}
}

// mainChannelOnly passes in direct messages and in allow-listed shared
// channels.
func mainChannelOnly(channels *gateway.ChannelList) command.Guard {
	return command.Guard{
		Name: "main_channel_only",
		Check: func(ctx context.Context, msg *command.Message) error {
			if msg.Private || channels.Allows(msg.ChannelID) {
				return nil
			}
			return command.ErrWrongChannel
		},
	}
}

// ownerOnly passes only for the configured administrator.
func ownerOnly(ownerID string) command.Guard {
	return command.Guard{
		Name: "owner_only",
		Check: func(ctx context.Context, msg *command.Message) error {
			if msg.Sender.ID != ownerID {
				return command.ErrNotAuthorized
			}
			return nil
		},
	}
}

// guildOnly rejects direct messages.
func guildOnly() command.Guard {
	return command.Guard{
		Name: "guild_only",
		Check: func(ctx context.Context, msg *command.Message) error {
			if msg.Private {
				return command.ErrPrivateNotAllowed
			}
			return nil
		},
	}
}
