package chord_test

import (
	"net/http"
	"testing"

	chord "github.com/WelcomerTeam/Chord"
	"github.com/stretchr/testify/assert"
)

func newStage() *chord.StageChannel {
	channel := &chord.StageChannel{}
	channel.ID = 204
	channel.Type = chord.ChannelTypeGuildStageVoice
	channel.GuildID = 100

	return channel
}

func TestStartStageInstance(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession(
		respond(`{"id": "7000", "guild_id": "100", "channel_id": "204", "topic": "ama", "privacy_level": 2}`),
	)

	instance, err := newStage().StartStageInstance(session, "ama", chord.StageChannelPrivacyLevelGuildOnly, "weekly ama")

	assert.NoError(t, err)
	assertEqual(t, chord.StageInstanceID(7000), instance.ID)
	assertEqual(t, chord.ChannelID(204), instance.ChannelID)
	assertEqual(t, chord.StageChannelPrivacyLevelGuildOnly, instance.PrivacyLevel)

	assertEqual(t, http.MethodPost, transport.requests[0].method)
	assertEqual(t, "/stage-instances", transport.requests[0].endpoint)
	assertEqual(t, "weekly+ama", transport.requests[0].headers.Get("X-Audit-Log-Reason"))

	payload := decodeBody(t, transport.requests[0].body)

	assertEqual(t, "204", payload["channel_id"].(string))
	assertEqual(t, "ama", payload["topic"].(string))
	assertEqual(t, float64(2), payload["privacy_level"].(float64))
}

func TestStageInstanceFetch(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession(
		respond(`{"id": "7000", "guild_id": "100", "channel_id": "204", "topic": "ama", "privacy_level": 1}`),
	)

	instance, err := newStage().StageInstance(session)

	assert.NoError(t, err)
	assertEqual(t, "ama", instance.Topic)
	assertEqual(t, http.MethodGet, transport.requests[0].method)
	assertEqual(t, "/stage-instances/204", transport.requests[0].endpoint)
}

func TestEditStageInstance(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession(
		respond(`{"id": "7000", "guild_id": "100", "channel_id": "204", "topic": "q&a", "privacy_level": 1}`),
	)

	instance, err := newStage().EditStageInstance(session, chord.StageInstanceParams{Topic: "q&a"}, "")

	assert.NoError(t, err)
	assertEqual(t, "q&a", instance.Topic)

	assertEqual(t, http.MethodPatch, transport.requests[0].method)
	assertEqual(t, "/stage-instances/204", transport.requests[0].endpoint)

	payload := decodeBody(t, transport.requests[0].body)

	// Unset params stay out of the patch.
	assertEqual(t, 1, len(payload))
	assertEqual(t, "q&a", payload["topic"].(string))
}

func TestEndStageInstance(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession(
		respond(""),
	)

	err := newStage().EndStageInstance(session, "stage over")

	assert.NoError(t, err)
	assertEqual(t, http.MethodDelete, transport.requests[0].method)
	assertEqual(t, "/stage-instances/204", transport.requests[0].endpoint)
	assertEqual(t, "stage+over", transport.requests[0].headers.Get("X-Audit-Log-Reason"))
}

func TestStageChannelEditsAsVoice(t *testing.T) {
	t.Parallel()

	// Stage channels take the voice edit options.
	session, transport := newScriptedSession(
		respond(`{"id": "204", "type": 13, "name": "stage", "user_limit": 500}`),
	)

	edited, err := newStage().Edit(session, "", chord.WithUserLimit(500))

	assert.NoError(t, err)
	assertEqual(t, int32(500), edited.UserLimit)

	payload := decodeBody(t, transport.requests[0].body)

	assertEqual(t, float64(500), payload["user_limit"].(float64))
}
