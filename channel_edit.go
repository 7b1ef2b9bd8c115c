package chord

import (
	"fmt"
)

// channel_edit.go contains the channel edit protocol. Edits accumulate into a
// sparse patch: only the fields an option touched are sent, and a cleared
// field is sent as an explicit JSON null, which the platform treats
// differently from an omitted key.

// ChannelPatch is the sparse field set of a pending edit.
type ChannelPatch map[string]interface{}

// ChannelEditOption applies one field change to a pending patch.
type ChannelEditOption func(ChannelPatch)

// WithName renames the channel.
func WithName(name string) ChannelEditOption {
	return func(patch ChannelPatch) { patch["name"] = name }
}

// WithPosition moves the channel in the guild listing.
func WithPosition(position int32) ChannelEditOption {
	return func(patch ChannelPatch) { patch["position"] = position }
}

// WithPositionCleared returns the channel to its default position.
func WithPositionCleared() ChannelEditOption {
	return func(patch ChannelPatch) { patch["position"] = nil }
}

// WithTopic sets the channel topic.
func WithTopic(topic string) ChannelEditOption {
	return func(patch ChannelPatch) { patch["topic"] = topic }
}

// WithTopicCleared removes the channel topic.
func WithTopicCleared() ChannelEditOption {
	return func(patch ChannelPatch) { patch["topic"] = nil }
}

// WithNSFW marks the channel as age restricted or not.
func WithNSFW(nsfw bool) ChannelEditOption {
	return func(patch ChannelPatch) { patch["nsfw"] = nsfw }
}

// WithRateLimitPerUser sets the per-user slowmode, in seconds. Zero disables
// it.
func WithRateLimitPerUser(seconds int32) ChannelEditOption {
	return func(patch ChannelPatch) { patch["rate_limit_per_user"] = seconds }
}

// WithRateLimitPerUserCleared removes the per-user slowmode.
func WithRateLimitPerUserCleared() ChannelEditOption {
	return func(patch ChannelPatch) { patch["rate_limit_per_user"] = nil }
}

// WithBitrate sets a voice channel's bitrate.
func WithBitrate(bitrate int32) ChannelEditOption {
	return func(patch ChannelPatch) { patch["bitrate"] = bitrate }
}

// WithUserLimit sets a voice channel's user limit. Zero means unlimited.
func WithUserLimit(limit int32) ChannelEditOption {
	return func(patch ChannelPatch) { patch["user_limit"] = limit }
}

// WithRTCRegion pins a voice channel to a region.
func WithRTCRegion(region string) ChannelEditOption {
	return func(patch ChannelPatch) { patch["rtc_region"] = region }
}

// WithRTCRegionAutomatic returns a voice channel to automatic region
// selection.
func WithRTCRegionAutomatic() ChannelEditOption {
	return func(patch ChannelPatch) { patch["rtc_region"] = nil }
}

// WithVideoQualityMode sets a voice channel's camera quality.
func WithVideoQualityMode(mode VideoQualityMode) ChannelEditOption {
	return func(patch ChannelPatch) { patch["video_quality_mode"] = mode }
}

// WithParent moves the channel under a category.
func WithParent(parentID ChannelID) ChannelEditOption {
	return func(patch ChannelPatch) { patch["parent_id"] = parentID }
}

// WithParentCleared detaches the channel from its category.
func WithParentCleared() ChannelEditOption {
	return func(patch ChannelPatch) { patch["parent_id"] = nil }
}

// WithOverwrites replaces the channel's permission overwrites.
func WithOverwrites(overwrites []ChannelOverwrite) ChannelEditOption {
	return func(patch ChannelPatch) { patch["permission_overwrites"] = ChannelOverwriteList(overwrites) }
}

// WithOverwritesCleared resets the channel's permission overwrites to the
// category's.
func WithOverwritesCleared() ChannelEditOption {
	return func(patch ChannelPatch) { patch["permission_overwrites"] = nil }
}

// WithDefaultAutoArchiveDuration sets the default archive duration, in
// minutes, applied to new threads.
func WithDefaultAutoArchiveDuration(minutes int32) ChannelEditOption {
	return func(patch ChannelPatch) { patch["default_auto_archive_duration"] = minutes }
}

// WithFlags replaces the channel's flags.
func WithFlags(flags ChannelFlags) ChannelEditOption {
	return func(patch ChannelPatch) { patch["flags"] = flags }
}

// WithAvailableTags replaces the tags usable in a forum channel.
func WithAvailableTags(tags []ForumTag) ChannelEditOption {
	return func(patch ChannelPatch) { patch["available_tags"] = ForumTagList(tags) }
}

// WithDefaultReaction sets the add-reaction emoji shown on forum posts.
func WithDefaultReaction(reaction ForumDefaultReaction) ChannelEditOption {
	return func(patch ChannelPatch) { patch["default_reaction_emoji"] = reaction }
}

// WithDefaultReactionCleared removes the forum's default reaction emoji.
func WithDefaultReactionCleared() ChannelEditOption {
	return func(patch ChannelPatch) { patch["default_reaction_emoji"] = nil }
}

// WithArchived archives or unarchives a thread.
func WithArchived(archived bool) ChannelEditOption {
	return func(patch ChannelPatch) { patch["archived"] = archived }
}

// WithLocked locks or unlocks a thread.
func WithLocked(locked bool) ChannelEditOption {
	return func(patch ChannelPatch) { patch["locked"] = locked }
}

// WithInvitable controls whether non-moderators can add members to a private
// thread.
func WithInvitable(invitable bool) ChannelEditOption {
	return func(patch ChannelPatch) { patch["invitable"] = invitable }
}

// WithAutoArchiveDuration sets a thread's archive duration, in minutes.
func WithAutoArchiveDuration(minutes int32) ChannelEditOption {
	return func(patch ChannelPatch) { patch["auto_archive_duration"] = minutes }
}

// WithAppliedTags replaces the tags applied to a forum post.
func WithAppliedTags(tags []TagID) ChannelEditOption {
	return func(patch ChannelPatch) { patch["applied_tags"] = List[TagID](tags) }
}

func editChannel(s *Session, channelID ChannelID, guildID GuildID, reason string, options []ChannelEditOption) (GuildChannel, error) {
	patch := ChannelPatch{}

	for _, option := range options {
		option(patch)
	}

	body, err := modifyChannel(s, channelID, patch, reason)
	if err != nil {
		return nil, err
	}

	channel, ok, err := DecodeGuildChannel(body, guildID)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrUnsupportedChannelType
	}

	return channel, nil
}

// Edit applies the given changes and returns the updated channel. With no
// options the channel is returned as-is and no request is made.
func (c *TextChannel) Edit(s *Session, reason string, options ...ChannelEditOption) (*TextChannel, error) {
	if len(options) == 0 {
		return c, nil
	}

	channel, err := editChannel(s, c.ID, c.GuildID, reason, options)
	if err != nil {
		return nil, err
	}

	edited, ok := channel.(*TextChannel)
	if !ok {
		return nil, fmt.Errorf("edit returned a different channel variant: %w", ErrUnsupportedChannelType)
	}

	return edited, nil
}

// Edit applies the given changes and returns the updated channel. With no
// options the channel is returned as-is and no request is made.
func (c *VoiceChannel) Edit(s *Session, reason string, options ...ChannelEditOption) (*VoiceChannel, error) {
	if len(options) == 0 {
		return c, nil
	}

	channel, err := editChannel(s, c.ID, c.GuildID, reason, options)
	if err != nil {
		return nil, err
	}

	edited, ok := channel.(*VoiceChannel)
	if !ok {
		return nil, fmt.Errorf("edit returned a different channel variant: %w", ErrUnsupportedChannelType)
	}

	return edited, nil
}

// Edit applies the given changes and returns the updated channel. With no
// options the channel is returned as-is and no request is made.
func (c *StageChannel) Edit(s *Session, reason string, options ...ChannelEditOption) (*StageChannel, error) {
	if len(options) == 0 {
		return c, nil
	}

	channel, err := editChannel(s, c.ID, c.GuildID, reason, options)
	if err != nil {
		return nil, err
	}

	edited, ok := channel.(*StageChannel)
	if !ok {
		return nil, fmt.Errorf("edit returned a different channel variant: %w", ErrUnsupportedChannelType)
	}

	return edited, nil
}

// Edit applies the given changes and returns the updated channel. With no
// options the channel is returned as-is and no request is made.
func (c *CategoryChannel) Edit(s *Session, reason string, options ...ChannelEditOption) (*CategoryChannel, error) {
	if len(options) == 0 {
		return c, nil
	}

	channel, err := editChannel(s, c.ID, c.GuildID, reason, options)
	if err != nil {
		return nil, err
	}

	edited, ok := channel.(*CategoryChannel)
	if !ok {
		return nil, fmt.Errorf("edit returned a different channel variant: %w", ErrUnsupportedChannelType)
	}

	return edited, nil
}

// Edit applies the given changes and returns the updated channel. With no
// options the channel is returned as-is and no request is made.
func (c *ForumChannel) Edit(s *Session, reason string, options ...ChannelEditOption) (*ForumChannel, error) {
	if len(options) == 0 {
		return c, nil
	}

	channel, err := editChannel(s, c.ID, c.GuildID, reason, options)
	if err != nil {
		return nil, err
	}

	edited, ok := channel.(*ForumChannel)
	if !ok {
		return nil, fmt.Errorf("edit returned a different channel variant: %w", ErrUnsupportedChannelType)
	}

	return edited, nil
}

// Edit applies the given changes and returns the updated thread. With no
// options the thread is returned as-is and no request is made.
func (t *Thread) Edit(s *Session, reason string, options ...ChannelEditOption) (*Thread, error) {
	if len(options) == 0 {
		return t, nil
	}

	channel, err := editChannel(s, t.ID, t.GuildID, reason, options)
	if err != nil {
		return nil, err
	}

	edited, ok := channel.(*Thread)
	if !ok {
		return nil, fmt.Errorf("edit returned a different channel variant: %w", ErrUnsupportedChannelType)
	}

	return edited, nil
}
