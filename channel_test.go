package chord_test

import (
	"fmt"
	"testing"

	chord "github.com/WelcomerTeam/Chord"
	"github.com/stretchr/testify/assert"
)

func assertEqual[v comparable](t assert.TestingT, a, b v) {
	assert.Equal(t, a, b)
}

func TestChannelTypeKind(t *testing.T) {
	t.Parallel()

	recognized := map[chord.ChannelType]chord.ChannelKind{
		chord.ChannelTypeGuildText:          chord.ChannelKindText,
		chord.ChannelTypeDM:                 chord.ChannelKindDM,
		chord.ChannelTypeGuildVoice:         chord.ChannelKindVoice,
		chord.ChannelTypeGuildCategory:      chord.ChannelKindCategory,
		chord.ChannelTypeGuildNews:          chord.ChannelKindText,
		chord.ChannelTypeGuildNewsThread:    chord.ChannelKindThread,
		chord.ChannelTypeGuildPublicThread:  chord.ChannelKindThread,
		chord.ChannelTypeGuildPrivateThread: chord.ChannelKindThread,
		chord.ChannelTypeGuildStageVoice:    chord.ChannelKindStage,
		chord.ChannelTypeGuildForum:         chord.ChannelKindForum,
	}

	for channelType, expected := range recognized {
		kind, ok := channelType.Kind()

		assert.True(t, ok, "expected type %d to resolve", channelType)
		assertEqual(t, expected, kind)
	}

	unrecognized := []chord.ChannelType{
		chord.ChannelTypeGroupDM,
		chord.ChannelTypeGuildStore,
		7, 8, 9, 14, 16, 99,
	}

	for _, channelType := range unrecognized {
		_, ok := channelType.Kind()

		assert.False(t, ok, "expected type %d to be unrecognized", channelType)
	}
}

func TestDecodeGuildChannelText(t *testing.T) {
	t.Parallel()

	payload := `{
		"id": "200",
		"type": 0,
		"name": "general",
		"position": 3,
		"topic": "chatter",
		"nsfw": true,
		"rate_limit_per_user": 30,
		"last_message_id": "900",
		"permission_overwrites": [
			{"id": "10", "type": 0, "allow": "1024", "deny": "0"}
		]
	}`

	channel, ok, err := chord.DecodeGuildChannel([]byte(payload), 100)

	assert.NoError(t, err)
	assert.True(t, ok)

	textChannel, isText := channel.(*chord.TextChannel)

	assert.True(t, isText)
	assertEqual(t, chord.ChannelID(200), textChannel.ID)
	assertEqual(t, chord.GuildID(100), textChannel.ChannelGuildID())
	assertEqual(t, "general", textChannel.ChannelName())
	assertEqual(t, int32(3), textChannel.Position)
	assertEqual(t, "chatter", textChannel.Topic)
	assertEqual(t, int32(30), textChannel.RateLimitPerUser)
	assert.True(t, textChannel.NSFW)
	assert.False(t, textChannel.IsAnnouncement())
	assertEqual(t, chord.ChannelKindText, textChannel.ChannelKind())

	assert.NotNil(t, textChannel.LastMessageID)
	assertEqual(t, chord.MessageID(900), *textChannel.LastMessageID)

	overwrites := textChannel.Overwrites()

	assertEqual(t, 1, len(overwrites))
	assertEqual(t, chord.Snowflake(10), overwrites[0].ID)
	assertEqual(t, chord.Int64(1024), overwrites[0].Allow)
}

func TestDecodeGuildChannelAnnouncement(t *testing.T) {
	t.Parallel()

	payload := `{"id": "201", "type": 5, "name": "news"}`

	channel, ok, err := chord.DecodeGuildChannel([]byte(payload), 100)

	assert.NoError(t, err)
	assert.True(t, ok)

	textChannel, isText := channel.(*chord.TextChannel)

	assert.True(t, isText)
	assert.True(t, textChannel.IsAnnouncement())
	assertEqual(t, chord.ChannelTypeGuildNews, textChannel.ChannelType())
	assertEqual(t, chord.ChannelKindText, textChannel.ChannelKind())
}

func TestDecodeGuildChannelVoice(t *testing.T) {
	t.Parallel()

	payload := `{
		"id": "202",
		"type": 2,
		"name": "voice",
		"bitrate": 64000,
		"user_limit": 5,
		"rtc_region": "rotterdam",
		"video_quality_mode": 2
	}`

	channel, ok, err := chord.DecodeGuildChannel([]byte(payload), 100)

	assert.NoError(t, err)
	assert.True(t, ok)

	voiceChannel, isVoice := channel.(*chord.VoiceChannel)

	assert.True(t, isVoice)
	assertEqual(t, int32(64000), voiceChannel.Bitrate)
	assertEqual(t, int32(5), voiceChannel.UserLimit)
	assertEqual(t, "rotterdam", voiceChannel.RTCRegion)
	assertEqual(t, chord.VideoQualityModeFull, voiceChannel.VideoQualityMode)
}

func TestDecodeGuildChannelStage(t *testing.T) {
	t.Parallel()

	payload := `{"id": "203", "type": 13, "name": "stage", "bitrate": 96000}`

	channel, ok, err := chord.DecodeGuildChannel([]byte(payload), 100)

	assert.NoError(t, err)
	assert.True(t, ok)

	stageChannel, isStage := channel.(*chord.StageChannel)

	assert.True(t, isStage)
	assertEqual(t, chord.ChannelKindStage, stageChannel.ChannelKind())
	assertEqual(t, int32(96000), stageChannel.Bitrate)
}

func TestDecodeGuildChannelCategory(t *testing.T) {
	t.Parallel()

	payload := `{"id": "204", "type": 4, "name": "Voice Channels"}`

	channel, ok, err := chord.DecodeGuildChannel([]byte(payload), 100)

	assert.NoError(t, err)
	assert.True(t, ok)

	_, isCategory := channel.(*chord.CategoryChannel)

	assert.True(t, isCategory)
	assertEqual(t, chord.ChannelKindCategory, channel.ChannelKind())
}

func TestDecodeGuildChannelForum(t *testing.T) {
	t.Parallel()

	payload := `{
		"id": "205",
		"type": 15,
		"name": "help",
		"topic": "post here",
		"available_tags": [
			{"id": "30", "name": "solved", "moderated": true, "emoji_id": null, "emoji_name": null}
		],
		"flags": 16
	}`

	channel, ok, err := chord.DecodeGuildChannel([]byte(payload), 100)

	assert.NoError(t, err)
	assert.True(t, ok)

	forumChannel, isForum := channel.(*chord.ForumChannel)

	assert.True(t, isForum)
	assertEqual(t, "post here", forumChannel.Topic)
	assertEqual(t, chord.ChannelFlagsRequireTag, forumChannel.Flags)
	assertEqual(t, 1, len(forumChannel.AvailableTags))
	assertEqual(t, chord.TagID(30), forumChannel.AvailableTags[0].ID)
	assert.True(t, forumChannel.AvailableTags[0].Moderated)
}

func TestDecodeGuildChannelThreadRetainsWireCode(t *testing.T) {
	t.Parallel()

	threadTypes := []chord.ChannelType{
		chord.ChannelTypeGuildNewsThread,
		chord.ChannelTypeGuildPublicThread,
		chord.ChannelTypeGuildPrivateThread,
	}

	for _, threadType := range threadTypes {
		payload := fmt.Sprintf(`{
			"id": "206",
			"type": %d,
			"name": "discussion",
			"parent_id": "200",
			"owner_id": "40",
			"message_count": 12,
			"member_count": 4,
			"thread_metadata": {
				"archived": false,
				"auto_archive_duration": 1440,
				"archive_timestamp": "2023-06-01T00:00:00Z",
				"locked": false
			}
		}`, threadType)

		channel, ok, err := chord.DecodeGuildChannel([]byte(payload), 100)

		assert.NoError(t, err)
		assert.True(t, ok)

		thread, isThread := channel.(*chord.Thread)

		assert.True(t, isThread)
		assertEqual(t, threadType, thread.ChannelType())
		assertEqual(t, chord.ChannelKindThread, thread.ChannelKind())
		assertEqual(t, chord.ChannelID(200), thread.ParentID)
		assertEqual(t, chord.UserID(40), thread.OwnerID)
		assertEqual(t, int32(12), thread.MessageCount)
		assertEqual(t, int32(1440), thread.Metadata.AutoArchiveDuration)
	}
}

func TestDecodeGuildChannelUnknownType(t *testing.T) {
	t.Parallel()

	for _, payload := range []string{
		`{"id": "207", "type": 3, "name": "group"}`,
		`{"id": "208", "type": 6, "name": "store"}`,
	} {
		channel, ok, err := chord.DecodeGuildChannel([]byte(payload), 100)

		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, channel)
	}
}

func TestDecodeGuildChannelMissingID(t *testing.T) {
	t.Parallel()

	payload := `{"type": 0, "name": "general"}`

	_, ok, err := chord.DecodeGuildChannel([]byte(payload), 100)

	assert.False(t, ok)
	assert.ErrorIs(t, err, chord.ErrMissingRequiredField)
}

func TestDecodeThreadMissingParentID(t *testing.T) {
	t.Parallel()

	payload := `{
		"id": "209",
		"type": 11,
		"name": "discussion",
		"thread_metadata": {"archived": false, "auto_archive_duration": 60, "archive_timestamp": "2023-06-01T00:00:00Z", "locked": false}
	}`

	_, ok, err := chord.DecodeGuildChannel([]byte(payload), 100)

	assert.False(t, ok)
	assert.ErrorIs(t, err, chord.ErrMissingRequiredField)
}

func TestDecodeThreadMissingMetadata(t *testing.T) {
	t.Parallel()

	payload := `{"id": "210", "type": 11, "name": "discussion", "parent_id": "200"}`

	_, ok, err := chord.DecodeGuildChannel([]byte(payload), 100)

	assert.False(t, ok)
	assert.ErrorIs(t, err, chord.ErrMissingRequiredField)
}

func TestDecodeGuildChannelPayloadGuildIDWins(t *testing.T) {
	t.Parallel()

	payload := `{"id": "211", "type": 0, "name": "general", "guild_id": "999"}`

	channel, ok, err := chord.DecodeGuildChannel([]byte(payload), 111)

	assert.NoError(t, err)
	assert.True(t, ok)
	assertEqual(t, chord.GuildID(999), channel.ChannelGuildID())
}

func TestDecodeGuildChannelSkipsDM(t *testing.T) {
	t.Parallel()

	payload := `{"id": "212", "type": 1, "recipients": [{"id": "50", "username": "someone"}]}`

	channel, ok, err := chord.DecodeGuildChannel([]byte(payload), 100)

	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, channel)
}

func TestDecodeChannelDM(t *testing.T) {
	t.Parallel()

	payload := `{
		"id": "213",
		"type": 1,
		"last_message_id": "901",
		"recipients": [{"id": "50", "username": "someone"}]
	}`

	channel, ok, err := chord.DecodeChannel([]byte(payload))

	assert.NoError(t, err)
	assert.True(t, ok)

	dmChannel, isDM := channel.(*chord.DMChannel)

	assert.True(t, isDM)
	assertEqual(t, chord.ChannelKindDM, dmChannel.ChannelKind())

	recipient, hasRecipient := dmChannel.Recipient()

	assert.True(t, hasRecipient)
	assertEqual(t, chord.UserID(50), recipient.ID)
	assertEqual(t, "someone", recipient.Username)
}

func TestDecodeChannelDMMissingID(t *testing.T) {
	t.Parallel()

	payload := `{"type": 1, "recipients": [{"id": "50", "username": "someone"}]}`

	_, ok, err := chord.DecodeChannel([]byte(payload))

	assert.False(t, ok)
	assert.ErrorIs(t, err, chord.ErrMissingRequiredField)
}

func TestDecodeChannelGuildPayload(t *testing.T) {
	t.Parallel()

	payload := `{"id": "214", "type": 0, "name": "general", "guild_id": "100"}`

	channel, ok, err := chord.DecodeChannel([]byte(payload))

	assert.NoError(t, err)
	assert.True(t, ok)

	textChannel, isText := channel.(*chord.TextChannel)

	assert.True(t, isText)
	assertEqual(t, chord.GuildID(100), textChannel.ChannelGuildID())
}

func TestDMChannelRecipientEmpty(t *testing.T) {
	t.Parallel()

	dmChannel := chord.DMChannel{}

	_, hasRecipient := dmChannel.Recipient()

	assert.False(t, hasRecipient)
}
