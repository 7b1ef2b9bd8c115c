package chord

import (
	"fmt"

	"github.com/WelcomerTeam/Chord/chordjson"
)

// channel.go contains the channel variants and their decoding.

// ChannelType represents a channel's wire type code.
type ChannelType uint16

const (
	ChannelTypeGuildText ChannelType = iota
	ChannelTypeDM
	ChannelTypeGuildVoice
	ChannelTypeGroupDM
	ChannelTypeGuildCategory
	ChannelTypeGuildNews
	ChannelTypeGuildStore
	_
	_
	_
	ChannelTypeGuildNewsThread
	ChannelTypeGuildPublicThread
	ChannelTypeGuildPrivateThread
	ChannelTypeGuildStageVoice
	_
	ChannelTypeGuildForum
)

// ChannelKind identifies the concrete variant that models a channel type.
type ChannelKind uint8

const (
	ChannelKindText ChannelKind = iota
	ChannelKindDM
	ChannelKindVoice
	ChannelKindCategory
	ChannelKindForum
	ChannelKindThread
	ChannelKindStage
)

// Kind resolves the concrete variant modelling this wire code. Codes with no
// registered variant report ok false; callers are expected to skip these
// channels rather than fail.
func (t ChannelType) Kind() (kind ChannelKind, ok bool) {
	switch t {
	case ChannelTypeGuildText, ChannelTypeGuildNews:
		return ChannelKindText, true
	case ChannelTypeDM:
		return ChannelKindDM, true
	case ChannelTypeGuildVoice:
		return ChannelKindVoice, true
	case ChannelTypeGuildCategory:
		return ChannelKindCategory, true
	case ChannelTypeGuildNewsThread, ChannelTypeGuildPublicThread, ChannelTypeGuildPrivateThread:
		return ChannelKindThread, true
	case ChannelTypeGuildStageVoice:
		return ChannelKindStage, true
	case ChannelTypeGuildForum:
		return ChannelKindForum, true
	}

	return 0, false
}

func (k ChannelKind) String() string {
	switch k {
	case ChannelKindText:
		return "text"
	case ChannelKindDM:
		return "dm"
	case ChannelKindVoice:
		return "voice"
	case ChannelKindCategory:
		return "category"
	case ChannelKindForum:
		return "forum"
	case ChannelKindThread:
		return "thread"
	case ChannelKindStage:
		return "stage"
	}

	return "unknown"
}

// VideoQualityMode represents the quality of the video.
type VideoQualityMode uint16

const (
	VideoQualityModeAuto VideoQualityMode = 1 + iota
	VideoQualityModeFull
)

// ChannelFlags represents the flags on a channel.
type ChannelFlags uint32

const (
	_ ChannelFlags = 1 << iota
	ChannelFlagsPinned
	_
	_
	ChannelFlagsRequireTag
)

// Channel is implemented by every channel variant. The variant set is closed,
// so type switches over Channel cover every case this package can produce.
type Channel interface {
	ChannelID() ChannelID
	ChannelType() ChannelType
	ChannelKind() ChannelKind

	isChannel()
}

// StateProvider resolves cached guild entities for operations that consult
// the client's view of a guild rather than the platform.
type StateProvider interface {
	GetGuildChannel(guildID GuildID, channelID ChannelID) (GuildChannel, bool)
}

// GuildChannel is implemented by channel variants that belong to a guild.
type GuildChannel interface {
	Channel

	ChannelGuildID() GuildID
	ChannelName() string
	ChannelParentID() *ChannelID

	Overwrites() []ChannelOverwrite
	OverwriteFor(id Snowflake) (ChannelOverwrite, bool)
	Category(state StateProvider) (*CategoryChannel, bool)
	PermissionsSynced(state StateProvider) bool

	Invites(s *Session) ([]Invite, error)
	CreateInvite(s *Session, params InviteParams, reason string) (*Invite, error)
	UpdateOverwrites(s *Session, overwrites []ChannelOverwrite, reason string) error
	DeleteOverwrite(s *Session, overwriteID Snowflake, reason string) error
	Delete(s *Session, reason string) error

	isGuildChannel()
}

// BaseChannel carries the fields every channel variant shares.
type BaseChannel struct {
	ID   ChannelID   `json:"id"`
	Type ChannelType `json:"type"`
}

func (c *BaseChannel) ChannelID() ChannelID {
	return c.ID
}

func (c *BaseChannel) ChannelType() ChannelType {
	return c.Type
}

func (c *BaseChannel) ChannelKind() ChannelKind {
	kind, _ := c.Type.Kind()

	return kind
}

func (c *BaseChannel) isChannel() {}

// BaseGuildChannel carries the fields shared by every guild channel variant
// except threads, which never hold their own permission overwrites.
type BaseGuildChannel struct {
	BaseChannel

	GuildID              GuildID              `json:"guild_id"`
	Name                 string               `json:"name"`
	Position             int32                `json:"position"`
	ParentID             *ChannelID           `json:"parent_id,omitempty"`
	PermissionOverwrites ChannelOverwriteList `json:"permission_overwrites"`
	LastMessageID        *MessageID           `json:"last_message_id,omitempty"`
}

func (c *BaseGuildChannel) ChannelGuildID() GuildID {
	return c.GuildID
}

func (c *BaseGuildChannel) ChannelName() string {
	return c.Name
}

func (c *BaseGuildChannel) ChannelParentID() *ChannelID {
	return c.ParentID
}

func (c *BaseGuildChannel) isGuildChannel() {}

// Overwrites materializes the channel's permission overwrites from the raw
// backing records. The slice is rebuilt in wire order on every call, so
// mutations to the channel are visible on the next access.
func (c *BaseGuildChannel) Overwrites() []ChannelOverwrite {
	overwrites := make([]ChannelOverwrite, len(c.PermissionOverwrites))
	copy(overwrites, c.PermissionOverwrites)

	return overwrites
}

// OverwriteFor returns the first overwrite targeting the given role or user.
func (c *BaseGuildChannel) OverwriteFor(id Snowflake) (ChannelOverwrite, bool) {
	for _, overwrite := range c.PermissionOverwrites {
		if overwrite.ID == id {
			return overwrite, true
		}
	}

	return ChannelOverwrite{}, false
}

// Category resolves the channel's parent category through the given cache.
func (c *BaseGuildChannel) Category(state StateProvider) (*CategoryChannel, bool) {
	return resolveCategory(state, c.GuildID, c.ParentID)
}

// PermissionsSynced reports whether the channel's overwrites structurally
// match its parent category. Channels without a resolvable category are never
// synced.
func (c *BaseGuildChannel) PermissionsSynced(state StateProvider) bool {
	category, ok := c.Category(state)
	if !ok {
		return false
	}

	return OverwritesEqual(c.Overwrites(), category.Overwrites())
}

func resolveCategory(state StateProvider, guildID GuildID, parentID *ChannelID) (*CategoryChannel, bool) {
	if parentID == nil || parentID.IsNil() {
		return nil, false
	}

	parent, ok := state.GetGuildChannel(guildID, *parentID)
	if !ok {
		return nil, false
	}

	category, ok := parent.(*CategoryChannel)

	return category, ok
}

// CategoryChannel organises guild channels. It cannot hold messages.
type CategoryChannel struct {
	BaseGuildChannel
}

// TextChannel is a guild text channel. Announcement channels share the
// variant and are distinguished by their retained wire code.
type TextChannel struct {
	BaseGuildChannel

	Topic                      string     `json:"topic,omitempty"`
	LastPinTimestamp           *Timestamp `json:"last_pin_timestamp,omitempty"`
	RateLimitPerUser           int32      `json:"rate_limit_per_user"`
	DefaultAutoArchiveDuration int32      `json:"default_auto_archive_duration,omitempty"`
	NSFW                       bool       `json:"nsfw"`
}

// IsAnnouncement reports whether the channel is an announcement channel.
func (c *TextChannel) IsAnnouncement() bool {
	return c.Type == ChannelTypeGuildNews
}

// VoiceChannel is a guild voice channel.
type VoiceChannel struct {
	BaseGuildChannel

	// RTCRegion is the voice region override. Empty means automatic.
	RTCRegion        string           `json:"rtc_region,omitempty"`
	Bitrate          int32            `json:"bitrate"`
	UserLimit        int32            `json:"user_limit"`
	VideoQualityMode VideoQualityMode `json:"video_quality_mode,omitempty"`
}

// StageChannel is a guild stage channel. It carries the voice channel fields
// and adds stage instance operations.
type StageChannel struct {
	VoiceChannel
}

// ForumChannel holds threads as posts. It cannot hold messages itself.
type ForumChannel struct {
	BaseGuildChannel

	Topic                         string                `json:"topic,omitempty"`
	AvailableTags                 ForumTagList          `json:"available_tags"`
	DefaultReactionEmoji          *ForumDefaultReaction `json:"default_reaction_emoji,omitempty"`
	RateLimitPerUser              int32                 `json:"rate_limit_per_user"`
	DefaultThreadRateLimitPerUser int32                 `json:"default_thread_rate_limit_per_user,omitempty"`
	DefaultAutoArchiveDuration    int32                 `json:"default_auto_archive_duration,omitempty"`
	Flags                         ChannelFlags          `json:"flags,omitempty"`
	NSFW                          bool                  `json:"nsfw"`
}

// DMChannel is a direct message channel. DM channels never arrive through
// the guild channel decoder.
type DMChannel struct {
	BaseChannel

	Recipients    UserList   `json:"recipients"`
	LastMessageID *MessageID `json:"last_message_id,omitempty"`
}

// Recipient returns the other party of the direct message channel.
func (c *DMChannel) Recipient() (User, bool) {
	if len(c.Recipients) == 0 {
		return User{}, false
	}

	return c.Recipients[0], true
}

// channelPayload is the flat wire shape shared by every channel kind.
// Decoding probes this first, then constructs the concrete variant.
type channelPayload struct {
	OwnerID                       *UserID               `json:"owner_id,omitempty"`
	GuildID                       *GuildID              `json:"guild_id,omitempty"`
	ThreadMember                  *ThreadMember         `json:"member,omitempty"`
	ThreadMetadata                *ThreadMetadata       `json:"thread_metadata,omitempty"`
	LastPinTimestamp              *Timestamp            `json:"last_pin_timestamp,omitempty"`
	ParentID                      *ChannelID            `json:"parent_id,omitempty"`
	LastMessageID                 *MessageID            `json:"last_message_id,omitempty"`
	DefaultReactionEmoji          *ForumDefaultReaction `json:"default_reaction_emoji,omitempty"`
	RTCRegion                     string                `json:"rtc_region"`
	Topic                         string                `json:"topic"`
	Name                          string                `json:"name"`
	PermissionOverwrites          ChannelOverwriteList  `json:"permission_overwrites"`
	Recipients                    UserList              `json:"recipients"`
	AvailableTags                 ForumTagList          `json:"available_tags"`
	AppliedTags                   List[TagID]           `json:"applied_tags"`
	ID                            ChannelID             `json:"id"`
	UserLimit                     int32                 `json:"user_limit"`
	Bitrate                       int32                 `json:"bitrate"`
	MessageCount                  int32                 `json:"message_count"`
	MemberCount                   int32                 `json:"member_count"`
	TotalMessageSent              int32                 `json:"total_message_sent"`
	RateLimitPerUser              int32                 `json:"rate_limit_per_user"`
	DefaultThreadRateLimitPerUser int32                 `json:"default_thread_rate_limit_per_user"`
	Position                      int32                 `json:"position"`
	DefaultAutoArchiveDuration    int32                 `json:"default_auto_archive_duration"`
	VideoQualityMode              VideoQualityMode      `json:"video_quality_mode"`
	Flags                         ChannelFlags          `json:"flags"`
	Type                          ChannelType           `json:"type"`
	NSFW                          bool                  `json:"nsfw"`
}

func (p *channelPayload) baseGuildChannel(guildID GuildID) BaseGuildChannel {
	return BaseGuildChannel{
		BaseChannel: BaseChannel{
			ID:   p.ID,
			Type: p.Type,
		},
		GuildID:              guildID,
		Name:                 p.Name,
		Position:             p.Position,
		ParentID:             p.ParentID,
		PermissionOverwrites: p.PermissionOverwrites,
		LastMessageID:        p.LastMessageID,
	}
}

// DecodeGuildChannel decodes a raw guild channel payload into its concrete
// variant. Unknown channel types report ok false so callers skip them; a
// payload violating the platform contract returns an error. Direct message
// payloads never arrive through this path: passing one is a caller bug, and
// it is skipped like an unknown type rather than constructed.
func DecodeGuildChannel(data []byte, guildID GuildID) (GuildChannel, bool, error) {
	var payload channelPayload

	err := chordjson.Unmarshal(data, &payload)
	if err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal channel payload: %w", err)
	}

	return buildGuildChannel(payload, guildID)
}

// DecodeChannel decodes any channel payload, including direct message
// channels.
func DecodeChannel(data []byte) (Channel, bool, error) {
	var payload channelPayload

	err := chordjson.Unmarshal(data, &payload)
	if err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal channel payload: %w", err)
	}

	if kind, ok := payload.Type.Kind(); ok && kind == ChannelKindDM {
		if payload.ID.IsNil() {
			return nil, false, fmt.Errorf("channel %d missing id: %w", payload.ID, ErrMissingRequiredField)
		}

		return newDMChannel(payload), true, nil
	}

	var guildID GuildID
	if payload.GuildID != nil {
		guildID = *payload.GuildID
	}

	return buildGuildChannel(payload, guildID)
}

func buildGuildChannel(payload channelPayload, guildID GuildID) (GuildChannel, bool, error) {
	kind, ok := payload.Type.Kind()
	if !ok {
		return nil, false, nil
	}

	if payload.ID.IsNil() {
		return nil, false, fmt.Errorf("channel missing id: %w", ErrMissingRequiredField)
	}

	// The payload's own guild id wins when the platform includes one.
	if payload.GuildID != nil && !payload.GuildID.IsNil() {
		guildID = *payload.GuildID
	}

	switch kind {
	case ChannelKindText:
		return newTextChannel(payload, guildID), true, nil
	case ChannelKindVoice:
		return newVoiceChannel(payload, guildID), true, nil
	case ChannelKindStage:
		return &StageChannel{VoiceChannel: *newVoiceChannel(payload, guildID)}, true, nil
	case ChannelKindCategory:
		return &CategoryChannel{BaseGuildChannel: payload.baseGuildChannel(guildID)}, true, nil
	case ChannelKindForum:
		return newForumChannel(payload, guildID), true, nil
	case ChannelKindThread:
		thread, err := newThread(payload, guildID)
		if err != nil {
			return nil, false, err
		}

		return thread, true, nil
	case ChannelKindDM:
		return nil, false, nil
	}

	return nil, false, nil
}

func newTextChannel(payload channelPayload, guildID GuildID) *TextChannel {
	return &TextChannel{
		BaseGuildChannel:           payload.baseGuildChannel(guildID),
		Topic:                      payload.Topic,
		LastPinTimestamp:           payload.LastPinTimestamp,
		RateLimitPerUser:           payload.RateLimitPerUser,
		DefaultAutoArchiveDuration: payload.DefaultAutoArchiveDuration,
		NSFW:                       payload.NSFW,
	}
}

func newVoiceChannel(payload channelPayload, guildID GuildID) *VoiceChannel {
	return &VoiceChannel{
		BaseGuildChannel: payload.baseGuildChannel(guildID),
		RTCRegion:        payload.RTCRegion,
		Bitrate:          payload.Bitrate,
		UserLimit:        payload.UserLimit,
		VideoQualityMode: payload.VideoQualityMode,
	}
}

func newForumChannel(payload channelPayload, guildID GuildID) *ForumChannel {
	return &ForumChannel{
		BaseGuildChannel:              payload.baseGuildChannel(guildID),
		Topic:                         payload.Topic,
		AvailableTags:                 payload.AvailableTags,
		DefaultReactionEmoji:          payload.DefaultReactionEmoji,
		RateLimitPerUser:              payload.RateLimitPerUser,
		DefaultThreadRateLimitPerUser: payload.DefaultThreadRateLimitPerUser,
		DefaultAutoArchiveDuration:    payload.DefaultAutoArchiveDuration,
		Flags:                         payload.Flags,
		NSFW:                          payload.NSFW,
	}
}

func newThread(payload channelPayload, guildID GuildID) (*Thread, error) {
	if payload.ParentID == nil || payload.ParentID.IsNil() {
		return nil, fmt.Errorf("thread %d missing parent_id: %w", payload.ID, ErrMissingRequiredField)
	}

	if payload.ThreadMetadata == nil {
		return nil, fmt.Errorf("thread %d missing thread_metadata: %w", payload.ID, ErrMissingRequiredField)
	}

	var ownerID UserID
	if payload.OwnerID != nil {
		ownerID = *payload.OwnerID
	}

	return &Thread{
		BaseChannel: BaseChannel{
			ID:   payload.ID,
			Type: payload.Type,
		},
		GuildID:          guildID,
		Name:             payload.Name,
		ParentID:         *payload.ParentID,
		OwnerID:          ownerID,
		LastMessageID:    payload.LastMessageID,
		RateLimitPerUser: payload.RateLimitPerUser,
		MessageCount:     payload.MessageCount,
		MemberCount:      payload.MemberCount,
		TotalMessageSent: payload.TotalMessageSent,
		Flags:            payload.Flags,
		AppliedTags:      payload.AppliedTags,
		Metadata:         *payload.ThreadMetadata,
		Member:           payload.ThreadMember,
	}, nil
}

func newDMChannel(payload channelPayload) *DMChannel {
	return &DMChannel{
		BaseChannel: BaseChannel{
			ID:   payload.ID,
			Type: payload.Type,
		},
		Recipients:    payload.Recipients,
		LastMessageID: payload.LastMessageID,
	}
}
