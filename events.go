package chord

import (
	"github.com/WelcomerTeam/Chord/chordjson"
)

// events.go contains the structures of events received from discord that
// relate to channels, threads, stages and voice.

// Empty structure.
type void struct{}

// Hello represents a hello event when connecting.
type Hello struct {
	HeartbeatInterval int32 `json:"heartbeat_interval"`
}

// Ready represents when the client has completed the initial handshake.
type Ready struct {
	SessionID        string               `json:"session_id"`
	ResumeGatewayUrl string               `json:"resume_gateway_url"`
	Guilds           UnavailableGuildList `json:"guilds"`
	Shard            []int32              `json:"shard,omitempty"`
	User             User                 `json:"user"`
	Version          int32                `json:"v"`
}

// Resumed represents the response to a resume event.
type Resumed void

// Reconnect represents the reconnect event.
type Reconnect void

// InvalidSession represents the invalid session event.
type InvalidSession struct {
	Resumable bool `json:"d"`
}

// UnavailableGuild represents an unavailable guild.
type UnavailableGuild struct {
	ID          GuildID `json:"id"`
	Unavailable bool    `json:"unavailable"`
}

// GuildDelete represents a guild delete event.
type GuildDelete UnavailableGuild

// ChannelPinsUpdate represents a channel pins update event.
type ChannelPinsUpdate struct {
	LastPinTimestamp Timestamp `json:"last_pin_timestamp"`
	GuildID          GuildID   `json:"guild_id"`
	ChannelID        ChannelID `json:"channel_id"`
}

// ThreadListSync represents a thread list sync event. Threads arrive raw so
// they can be run through the channel decoder individually.
type ThreadListSync struct {
	ChannelIDs ChannelIDList          `json:"channel_ids,omitempty"`
	Threads    []chordjson.RawMessage `json:"threads"`
	Members    ThreadMemberList       `json:"members"`
	GuildID    GuildID                `json:"guild_id"`
}

// ThreadDelete represents a thread delete event. Only identifying fields
// arrive, never a full thread payload.
type ThreadDelete struct {
	GuildID  GuildID     `json:"guild_id"`
	ParentID ChannelID   `json:"parent_id"`
	ID       ChannelID   `json:"id"`
	Type     ChannelType `json:"type"`
}

// ThreadMemberUpdate represents a thread member update event.
type ThreadMemberUpdate ThreadMember

// ThreadMembersUpdate represents a thread members update event.
type ThreadMembersUpdate struct {
	AddedMembers     ThreadMemberList `json:"added_members,omitempty"`
	RemovedMemberIDs UserIDList       `json:"removed_member_ids,omitempty"`
	ID               ChannelID        `json:"id"`
	GuildID          GuildID          `json:"guild_id"`
	MemberCount      int32            `json:"member_count"`
}

// MessageDelete represents the message delete event.
type MessageDelete struct {
	GuildID   *GuildID  `json:"guild_id,omitempty"`
	ID        MessageID `json:"id"`
	ChannelID ChannelID `json:"channel_id"`
}

// MessageDeleteBulk represents the message bulk delete event.
type MessageDeleteBulk struct {
	GuildID   *GuildID      `json:"guild_id,omitempty"`
	IDs       MessageIDList `json:"ids"`
	ChannelID ChannelID     `json:"channel_id"`
}

// StageInstanceCreate represents a stage instance create event.
type StageInstanceCreate StageInstance

// StageInstanceUpdate represents a stage instance update event.
type StageInstanceUpdate StageInstance

// StageInstanceDelete represents a stage instance delete event.
type StageInstanceDelete StageInstance

// TypingStart represents a typing start event.
type TypingStart struct {
	GuildID   *GuildID     `json:"guild_id,omitempty"`
	Member    *GuildMember `json:"member,omitempty"`
	ChannelID ChannelID    `json:"channel_id"`
	UserID    UserID       `json:"user_id"`
	Timestamp int32        `json:"timestamp"`
}

// UserUpdate represents a user update event.
type UserUpdate User

// WebhooksUpdate represents a webhooks update event.
type WebhooksUpdate struct {
	ChannelID ChannelID `json:"channel_id"`
	GuildID   GuildID   `json:"guild_id"`
}

// InviteCreate represents the invite create event.
type InviteCreate Invite

// InviteDelete represents the invite delete event.
type InviteDelete Invite
