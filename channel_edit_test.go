package chord_test

import (
	"net/http"
	"testing"

	chord "github.com/WelcomerTeam/Chord"
	"github.com/stretchr/testify/assert"
)

func TestEditNoOptions(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession()

	channel := newMessageableChannel()

	edited, err := channel.Edit(session, "")

	assert.NoError(t, err)
	assert.Same(t, channel, edited)
	assertEqual(t, 0, len(transport.requests))
}

func TestEditSendsOnlyTouchedFields(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession(
		respond(`{"id": "200", "type": 0, "name": "renamed", "rate_limit_per_user": 30}`),
	)

	edited, err := newMessageableChannel().Edit(session, "",
		chord.WithName("renamed"),
		chord.WithRateLimitPerUser(30),
	)

	assert.NoError(t, err)
	assertEqual(t, "renamed", edited.Name)
	assertEqual(t, int32(30), edited.RateLimitPerUser)

	assertEqual(t, http.MethodPatch, transport.requests[0].method)
	assertEqual(t, "/channels/200", transport.requests[0].endpoint)

	payload := decodeBody(t, transport.requests[0].body)

	// Untouched fields stay out of the patch entirely.
	assertEqual(t, 2, len(payload))
	assertEqual(t, "renamed", payload["name"].(string))
	assertEqual(t, float64(30), payload["rate_limit_per_user"].(float64))
}

func TestEditClearedFieldsAreExplicitNulls(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession(
		respond(`{"id": "200", "type": 0, "name": "general"}`),
	)

	_, err := newMessageableChannel().Edit(session, "",
		chord.WithTopicCleared(),
		chord.WithParentCleared(),
		chord.WithPositionCleared(),
		chord.WithOverwritesCleared(),
		chord.WithRateLimitPerUserCleared(),
	)

	assert.NoError(t, err)

	payload := decodeBody(t, transport.requests[0].body)

	// A cleared field rides as a null key; omitting it would leave the field
	// untouched on the platform side.
	for _, key := range []string{"topic", "parent_id", "position", "permission_overwrites", "rate_limit_per_user"} {
		assert.Contains(t, payload, key)
		assert.Nil(t, payload[key])
	}
}

func TestEditVoiceRegionAutomatic(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession(
		respond(`{"id": "203", "type": 2, "name": "lounge", "bitrate": 96000}`),
	)

	channel := &chord.VoiceChannel{}
	channel.ID = 203
	channel.Type = chord.ChannelTypeGuildVoice
	channel.GuildID = 100

	edited, err := channel.Edit(session, "",
		chord.WithRTCRegionAutomatic(),
		chord.WithBitrate(96000),
	)

	assert.NoError(t, err)
	assertEqual(t, int32(96000), edited.Bitrate)

	payload := decodeBody(t, transport.requests[0].body)

	assert.Contains(t, payload, "rtc_region")
	assert.Nil(t, payload["rtc_region"])
	assertEqual(t, float64(96000), payload["bitrate"].(float64))
}

func TestEditVariantMismatch(t *testing.T) {
	t.Parallel()

	// A text channel edit that comes back as a voice channel is a platform
	// contract violation and must not be force-cast.
	session, _ := newScriptedSession(
		respond(`{"id": "200", "type": 2, "name": "general"}`),
	)

	_, err := newMessageableChannel().Edit(session, "", chord.WithName("general"))

	assert.ErrorIs(t, err, chord.ErrUnsupportedChannelType)
}

func TestEditReasonHeader(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession(
		respond(`{"id": "200", "type": 0, "name": "renamed"}`),
	)

	_, err := newMessageableChannel().Edit(session, "routine rename", chord.WithName("renamed"))

	assert.NoError(t, err)
	assertEqual(t, "routine+rename", transport.requests[0].headers.Get("X-Audit-Log-Reason"))
}

func TestThreadEditArchives(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession(
		respond(`{"id": "5000", "type": 11, "name": "stale", "parent_id": "200", "thread_metadata": {"archived": true, "auto_archive_duration": 1440, "archive_timestamp": "2023-06-01T00:00:00Z", "locked": true}}`),
	)

	thread := &chord.Thread{}
	thread.ID = 5000
	thread.Type = chord.ChannelTypeGuildPublicThread
	thread.GuildID = 100

	edited, err := thread.Edit(session, "",
		chord.WithArchived(true),
		chord.WithLocked(true),
	)

	assert.NoError(t, err)
	assert.True(t, edited.Metadata.Archived)
	assert.True(t, edited.Metadata.Locked)

	assertEqual(t, "/channels/5000", transport.requests[0].endpoint)

	payload := decodeBody(t, transport.requests[0].body)

	assertEqual(t, 2, len(payload))
	assertEqual(t, true, payload["archived"].(bool))
	assertEqual(t, true, payload["locked"].(bool))
}

func TestForumEditTags(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession(
		respond(`{"id": "205", "type": 15, "name": "help", "available_tags": [{"id": "30", "name": "solved", "moderated": true, "emoji_id": null, "emoji_name": null}]}`),
	)

	forum := &chord.ForumChannel{}
	forum.ID = 205
	forum.Type = chord.ChannelTypeGuildForum
	forum.GuildID = 100

	tag, err := chord.NewForumTag("solved", true, nil, nil)

	assert.NoError(t, err)

	edited, err := forum.Edit(session, "",
		chord.WithAvailableTags([]chord.ForumTag{tag}),
		chord.WithDefaultReactionCleared(),
	)

	assert.NoError(t, err)
	assertEqual(t, 1, len(edited.AvailableTags))
	assertEqual(t, chord.TagID(30), edited.AvailableTags[0].ID)

	payload := decodeBody(t, transport.requests[0].body)

	assert.Contains(t, payload, "available_tags")
	assert.Contains(t, payload, "default_reaction_emoji")
	assert.Nil(t, payload["default_reaction_emoji"])
}
