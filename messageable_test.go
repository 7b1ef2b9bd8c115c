package chord_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	chord "github.com/WelcomerTeam/Chord"
	"github.com/stretchr/testify/assert"
)

func newMessageableChannel() *chord.TextChannel {
	channel := &chord.TextChannel{}
	channel.ID = 200
	channel.Type = chord.ChannelTypeGuildText
	channel.GuildID = 100

	return channel
}

func TestSendAlwaysCarriesDefaults(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession(
		respond(`{"id": "900", "channel_id": "200", "content": "hi"}`),
	)

	message, err := newMessageableChannel().Send(session, chord.MessageParams{
		Content: "hi",
	})

	assert.NoError(t, err)
	assertEqual(t, chord.MessageID(900), message.ID)

	assertEqual(t, http.MethodPost, transport.requests[0].method)
	assertEqual(t, "/channels/200/messages", transport.requests[0].endpoint)

	payload := decodeBody(t, transport.requests[0].body)

	// tts and allowed_mentions ride along on every send, even unset, so the
	// platform never applies its own mention defaults.
	assertEqual(t, false, payload["tts"].(bool))

	mentions, hasMentions := payload["allowed_mentions"].(map[string]interface{})

	assert.True(t, hasMentions)
	assertEqual(t, 0, len(mentions["parse"].([]interface{})))

	assert.NotContains(t, payload, "flags")
	assertEqual(t, "hi", payload["content"].(string))
}

func TestSendSilentSetsSuppressNotifications(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession(
		respond(`{"id": "901", "channel_id": "200"}`),
	)

	_, err := newMessageableChannel().Send(session, chord.MessageParams{
		Content: "quiet",
		Silent:  true,
	})

	assert.NoError(t, err)

	payload := decodeBody(t, transport.requests[0].body)

	assertEqual(t, float64(chord.MessageFlagSuppressNotifications), payload["flags"].(float64))
}

func TestSendSilentPreservesOtherFlags(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession(
		respond(`{"id": "902", "channel_id": "200"}`),
	)

	_, err := newMessageableChannel().Send(session, chord.MessageParams{
		Content: "quiet",
		Flags:   chord.MessageFlagSuppressEmbeds,
		Silent:  true,
	})

	assert.NoError(t, err)

	payload := decodeBody(t, transport.requests[0].body)

	assertEqual(t,
		float64(chord.MessageFlagSuppressEmbeds|chord.MessageFlagSuppressNotifications),
		payload["flags"].(float64),
	)
}

func TestSendCustomAllowedMentions(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession(
		respond(`{"id": "903", "channel_id": "200"}`),
	)

	_, err := newMessageableChannel().Send(session, chord.MessageParams{
		Content: "hey",
		AllowedMentions: &chord.MessageAllowedMentions{
			Parse: chord.List[chord.MessageAllowedMentionsType]{chord.MessageAllowedMentionsTypeUsers},
			Users: chord.SnowflakeList{40},
		},
	})

	assert.NoError(t, err)

	payload := decodeBody(t, transport.requests[0].body)

	mentions := payload["allowed_mentions"].(map[string]interface{})

	assertEqual(t, "users", mentions["parse"].([]interface{})[0].(string))
	assertEqual(t, "40", mentions["users"].([]interface{})[0].(string))
}

func TestHistoryDefaultsLimit(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession(
		respond(`[{"id": "900", "channel_id": "200"}, {"id": "899", "channel_id": "200"}]`),
	)

	messages, err := newMessageableChannel().History(session, chord.HistoryParams{})

	assert.NoError(t, err)
	assertEqual(t, 2, len(messages))
	assertEqual(t, chord.MessageID(900), messages[0].ID)

	assertEqual(t, http.MethodGet, transport.requests[0].method)
	assertEqual(t, "/channels/200/messages?limit=50", transport.requests[0].endpoint)
}

func TestHistoryCursors(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession(
		respond(`[]`),
		respond(`[]`),
		respond(`[]`),
	)

	channel := newMessageableChannel()

	_, err := channel.History(session, chord.HistoryParams{Cursor: chord.CursorBefore(123), Limit: 25})

	assert.NoError(t, err)

	_, err = channel.History(session, chord.HistoryParams{Cursor: chord.CursorAfter(123)})

	assert.NoError(t, err)

	_, err = channel.History(session, chord.HistoryParams{Cursor: chord.CursorAround(456), Limit: 3})

	assert.NoError(t, err)

	assertEqual(t, "/channels/200/messages?before=123&limit=25", transport.requests[0].endpoint)
	assertEqual(t, "/channels/200/messages?after=123&limit=50", transport.requests[1].endpoint)
	assertEqual(t, "/channels/200/messages?around=456&limit=3", transport.requests[2].endpoint)
}

func TestPurgeMessagesBulk(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession(
		respond(`[
			{"id": "903", "channel_id": "200", "content": "spam"},
			{"id": "902", "channel_id": "200", "content": "keep"},
			{"id": "901", "channel_id": "200", "content": "spam"}
		]`),
		respond(""),
	)

	deleted, err := newMessageableChannel().PurgeMessages(session, 100, chord.HistoryCursor{}, func(m chord.Message) bool {
		return m.Content == "spam"
	}, true, "cleanup")

	assert.NoError(t, err)
	assert.Equal(t, []chord.MessageID{903, 901}, deleted)

	assertEqual(t, 2, len(transport.requests))
	assertEqual(t, http.MethodPost, transport.requests[1].method)
	assertEqual(t, "/channels/200/messages/bulk-delete", transport.requests[1].endpoint)
	assertEqual(t, "cleanup", transport.requests[1].headers.Get("X-Audit-Log-Reason"))

	payload := decodeBody(t, transport.requests[1].body)

	ids := payload["messages"].([]interface{})

	assertEqual(t, 2, len(ids))
	assertEqual(t, "903", ids[0].(string))
	assertEqual(t, "901", ids[1].(string))
}

func TestPurgeMessagesSingleMatchFallsBack(t *testing.T) {
	t.Parallel()

	// One match never goes through bulk-delete: the platform rejects
	// single-message bulk requests.
	session, transport := newScriptedSession(
		respond(`[
			{"id": "903", "channel_id": "200", "content": "spam"},
			{"id": "902", "channel_id": "200", "content": "keep"}
		]`),
		respond(""),
	)

	deleted, err := newMessageableChannel().PurgeMessages(session, 100, chord.HistoryCursor{}, func(m chord.Message) bool {
		return m.Content == "spam"
	}, true, "")

	assert.NoError(t, err)
	assert.Equal(t, []chord.MessageID{903}, deleted)

	assertEqual(t, http.MethodDelete, transport.requests[1].method)
	assertEqual(t, "/channels/200/messages/903", transport.requests[1].endpoint)
}

func TestPurgeMessagesOneByOne(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession(
		respond(`[
			{"id": "903", "channel_id": "200"},
			{"id": "902", "channel_id": "200"},
			{"id": "901", "channel_id": "200"}
		]`),
		respond(""),
		respond(""),
		respond(""),
	)

	deleted, err := newMessageableChannel().PurgeMessages(session, 100, chord.HistoryCursor{}, nil, false, "")

	assert.NoError(t, err)
	assert.Equal(t, []chord.MessageID{903, 902, 901}, deleted)

	assertEqual(t, 4, len(transport.requests))
	assertEqual(t, "/channels/200/messages/903", transport.requests[1].endpoint)
	assertEqual(t, "/channels/200/messages/902", transport.requests[2].endpoint)
	assertEqual(t, "/channels/200/messages/901", transport.requests[3].endpoint)
}

func TestPurgeMessagesNoMatches(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession(
		respond(`[{"id": "903", "channel_id": "200", "content": "keep"}]`),
	)

	deleted, err := newMessageableChannel().PurgeMessages(session, 100, chord.HistoryCursor{}, func(m chord.Message) bool {
		return false
	}, true, "")

	assert.NoError(t, err)
	assert.Nil(t, deleted)
	assertEqual(t, 1, len(transport.requests))
}

func TestPurgeMessagesPartialFailure(t *testing.T) {
	t.Parallel()

	errDenied := errors.New("missing permissions")

	session, _ := newScriptedSession(
		respond(`[
			{"id": "903", "channel_id": "200"},
			{"id": "902", "channel_id": "200"}
		]`),
		respond(""),
		respondErr(errDenied),
	)

	deleted, err := newMessageableChannel().PurgeMessages(session, 100, chord.HistoryCursor{}, nil, false, "")

	assert.ErrorIs(t, err, errDenied)
	assert.Equal(t, []chord.MessageID{903}, deleted)
}

func TestBulkDeleteMessages(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession(
		respond(""),
	)

	err := newMessageableChannel().BulkDeleteMessages(session, []chord.MessageID{901, 902}, "raid")

	assert.NoError(t, err)
	assertEqual(t, "/channels/200/messages/bulk-delete", transport.requests[0].endpoint)
	assertEqual(t, "raid", transport.requests[0].headers.Get("X-Audit-Log-Reason"))
}

func TestTypingWhileCancelsOnReturn(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession(
		respond(""),
	)

	var seen context.Context

	err := newMessageableChannel().TypingWhile(session, func(ctx context.Context) error {
		seen = ctx

		assert.NoError(t, ctx.Err())

		return nil
	})

	assert.NoError(t, err)
	assert.ErrorIs(t, seen.Err(), context.Canceled)

	// A fast block only ever fires the initial indicator.
	assertEqual(t, 1, len(transport.requests))
	assertEqual(t, "/channels/200/typing", transport.requests[0].endpoint)
}

func TestTypingWhilePropagatesError(t *testing.T) {
	t.Parallel()

	errWork := errors.New("work failed")

	session, _ := newScriptedSession(
		respond(""),
	)

	var seen context.Context

	err := newMessageableChannel().TypingWhile(session, func(ctx context.Context) error {
		seen = ctx

		return errWork
	})

	assert.ErrorIs(t, err, errWork)
	assert.ErrorIs(t, seen.Err(), context.Canceled)
}

func TestTypingWhileTriggerFailure(t *testing.T) {
	t.Parallel()

	errTrigger := errors.New("typing rejected")

	session, _ := newScriptedSession(
		respondErr(errTrigger),
	)

	ran := false

	err := newMessageableChannel().TypingWhile(session, func(ctx context.Context) error {
		ran = true

		return nil
	})

	assert.ErrorIs(t, err, errTrigger)
	assert.False(t, ran)
}

func TestDMChannelIsMessageable(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession(
		respond(`{"id": "910", "channel_id": "300"}`),
	)

	channel := &chord.DMChannel{}
	channel.ID = 300
	channel.Type = chord.ChannelTypeDM

	var messageable chord.Messageable = channel

	message, err := messageable.Send(session, chord.MessageParams{Content: "hello"})

	assert.NoError(t, err)
	assertEqual(t, chord.MessageID(910), message.ID)
	assertEqual(t, "/channels/300/messages", transport.requests[0].endpoint)

	var threadMessageable chord.Messageable = &chord.Thread{}

	assert.NotNil(t, threadMessageable)
}
