package chord_test

import (
	"context"
	"net/http"
	"testing"

	chord "github.com/WelcomerTeam/Chord"
	"github.com/WelcomerTeam/Chord/chordjson"
	"github.com/stretchr/testify/assert"
)

// recordedRequest captures one request passed through the scripted transport.
type recordedRequest struct {
	method      string
	endpoint    string
	contentType string
	body        []byte
	headers     http.Header
}

type scriptedResponse struct {
	body []byte
	err  error
}

func respond(body string) scriptedResponse {
	return scriptedResponse{body: []byte(body)}
}

func respondErr(err error) scriptedResponse {
	return scriptedResponse{err: err}
}

// scriptedRESTInterface replays queued responses and records every request,
// so tests can assert on exactly what would have gone over the wire.
type scriptedRESTInterface struct {
	responses []scriptedResponse
	requests  []recordedRequest
}

func (rt *scriptedRESTInterface) Fetch(s *chord.Session, method, endpoint, contentType string, body []byte, headers http.Header) ([]byte, error) {
	rt.requests = append(rt.requests, recordedRequest{
		method:      method,
		endpoint:    endpoint,
		contentType: contentType,
		body:        body,
		headers:     headers,
	})

	if len(rt.responses) == 0 {
		return nil, nil
	}

	response := rt.responses[0]
	rt.responses = rt.responses[1:]

	return response.body, response.err
}

func (rt *scriptedRESTInterface) FetchBJ(s *chord.Session, method, endpoint, contentType string, body []byte, headers http.Header, response interface{}) error {
	resp, err := rt.Fetch(s, method, endpoint, contentType, body, headers)
	if err != nil {
		return err
	}

	if response != nil && len(resp) > 0 {
		return chordjson.Unmarshal(resp, response)
	}

	return nil
}

func (rt *scriptedRESTInterface) FetchJJ(s *chord.Session, method, endpoint string, payload interface{}, headers http.Header, response interface{}) error {
	body, err := chordjson.Marshal(payload)
	if err != nil {
		return err
	}

	return rt.FetchBJ(s, method, endpoint, "application/json", body, headers, response)
}

func (rt *scriptedRESTInterface) SetDebug(value bool) {}

func newScriptedSession(responses ...scriptedResponse) (*chord.Session, *scriptedRESTInterface) {
	transport := &scriptedRESTInterface{responses: responses}

	return chord.NewSession(context.Background(), "Bot token", transport), transport
}

// decodeBody unmarshals a recorded request body for key-level assertions.
func decodeBody(t *testing.T, body []byte) map[string]interface{} {
	t.Helper()

	var payload map[string]interface{}

	err := chordjson.Unmarshal(body, &payload)

	assert.NoError(t, err)

	return payload
}

func TestFollowRequiresAnnouncement(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession()

	channel := &chord.TextChannel{}
	channel.ID = 200
	channel.Type = chord.ChannelTypeGuildText

	_, err := channel.Follow(session, 300, "")

	assert.ErrorIs(t, err, chord.ErrNotAnnouncementChannel)
	assertEqual(t, 0, len(transport.requests))
}

func TestFollowAnnouncementChannel(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession(
		respond(`{"channel_id": "200", "webhook_id": "600"}`),
	)

	channel := &chord.TextChannel{}
	channel.ID = 200
	channel.Type = chord.ChannelTypeGuildNews

	followed, err := channel.Follow(session, 300, "")

	assert.NoError(t, err)
	assert.NotNil(t, followed)
	assertEqual(t, chord.ChannelID(200), followed.ChannelID)
	assertEqual(t, chord.WebhookID(600), followed.WebhookID)

	assertEqual(t, 1, len(transport.requests))
	assertEqual(t, http.MethodPost, transport.requests[0].method)
	assertEqual(t, "/channels/200/followers", transport.requests[0].endpoint)

	payload := decodeBody(t, transport.requests[0].body)

	assertEqual(t, "300", payload["webhook_channel_id"].(string))
}

func TestFetchGuildChannelsSkipsUnknown(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession(
		respond(`[
			{"id": "200", "type": 0, "name": "general"},
			{"id": "201", "type": 3, "name": "group"},
			{"id": "202", "type": 2, "name": "voice"}
		]`),
	)

	channels, err := chord.FetchGuildChannels(session, 100)

	assert.NoError(t, err)
	assertEqual(t, 2, len(channels))
	assertEqual(t, chord.ChannelID(200), channels[0].ChannelID())
	assertEqual(t, chord.ChannelID(202), channels[1].ChannelID())

	assertEqual(t, "/guilds/100/channels", transport.requests[0].endpoint)
}

func TestFetchChannelUnknownType(t *testing.T) {
	t.Parallel()

	session, _ := newScriptedSession(
		respond(`{"id": "201", "type": 3, "name": "group"}`),
	)

	_, err := chord.FetchChannel(session, 201)

	assert.ErrorIs(t, err, chord.ErrUnsupportedChannelType)
}

func TestFetchChannelDM(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession(
		respond(`{"id": "213", "type": 1, "recipients": [{"id": "50", "username": "someone"}]}`),
	)

	channel, err := chord.FetchChannel(session, 213)

	assert.NoError(t, err)

	_, isDM := channel.(*chord.DMChannel)

	assert.True(t, isDM)
	assertEqual(t, "/channels/213", transport.requests[0].endpoint)
	assertEqual(t, http.MethodGet, transport.requests[0].method)
}

func TestUpdateOverwritesRequest(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession(respond(`{}`))

	channel := &chord.TextChannel{}
	channel.ID = 200

	overwrites := []chord.ChannelOverwrite{
		{ID: 10, Type: chord.ChannelOverrideTypeRole, Allow: 1024, Deny: 0},
	}

	err := channel.UpdateOverwrites(session, overwrites, "sync")

	assert.NoError(t, err)
	assertEqual(t, 1, len(transport.requests))
	assertEqual(t, http.MethodPatch, transport.requests[0].method)
	assertEqual(t, "/channels/200", transport.requests[0].endpoint)

	payload := decodeBody(t, transport.requests[0].body)

	assertEqual(t, 1, len(payload))
	assert.Contains(t, payload, "permission_overwrites")
}

func TestUpdateOverwritesThreadNoOp(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession()

	thread := &chord.Thread{}
	thread.ID = 206
	thread.ParentID = 200

	err := thread.UpdateOverwrites(session, []chord.ChannelOverwrite{
		{ID: 10, Type: chord.ChannelOverrideTypeRole, Allow: 1024},
	}, "sync")

	assert.NoError(t, err)
	assertEqual(t, 0, len(transport.requests))
}

func TestCreateInviteAlwaysSendsLimits(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession(respond(`{"code": "abcdef"}`))

	channel := &chord.TextChannel{}
	channel.ID = 200

	invite, err := channel.CreateInvite(session, chord.InviteParams{}, "")

	assert.NoError(t, err)
	assertEqual(t, "abcdef", invite.Code)

	assertEqual(t, http.MethodPost, transport.requests[0].method)
	assertEqual(t, "/channels/200/invites", transport.requests[0].endpoint)

	payload := decodeBody(t, transport.requests[0].body)

	// Zero deliberately means unlimited, so max_age and max_uses always
	// travel.
	assertEqual(t, float64(0), payload["max_age"].(float64))
	assertEqual(t, float64(0), payload["max_uses"].(float64))
}

func TestDeleteChannelReasonHeader(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession()

	channel := &chord.TextChannel{}
	channel.ID = 200

	err := channel.Delete(session, "cleaning up")

	assert.NoError(t, err)
	assertEqual(t, http.MethodDelete, transport.requests[0].method)
	assertEqual(t, "/channels/200", transport.requests[0].endpoint)
	assertEqual(t, "cleaning+up", transport.requests[0].headers.Get("X-Audit-Log-Reason"))
}

func TestDeleteOverwriteRequest(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession()

	channel := &chord.TextChannel{}
	channel.ID = 200

	err := channel.DeleteOverwrite(session, 10, "")

	assert.NoError(t, err)
	assertEqual(t, http.MethodDelete, transport.requests[0].method)
	assertEqual(t, "/channels/200/permissions/10", transport.requests[0].endpoint)
	assert.Nil(t, transport.requests[0].headers)
}

func TestChannelWebhooks(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession(
		respond(`[{"id": "400", "type": 1, "name": "notifier", "channel_id": "200"}]`),
	)

	channel := &chord.TextChannel{}
	channel.ID = 200

	webhooks, err := channel.Webhooks(session)

	assert.NoError(t, err)
	assertEqual(t, 1, len(webhooks))
	assertEqual(t, chord.WebhookID(400), webhooks[0].ID)
	assertEqual(t, chord.WebhookTypeIncoming, webhooks[0].Type)
	assertEqual(t, "/channels/200/webhooks", transport.requests[0].endpoint)
}

func TestCreateWebhook(t *testing.T) {
	t.Parallel()

	session, transport := newScriptedSession(
		respond(`{"id": "401", "type": 1, "name": "notifier", "channel_id": "200", "token": "wh-token"}`),
	)

	channel := &chord.TextChannel{}
	channel.ID = 200

	webhook, err := channel.CreateWebhook(session, chord.WebhookParams{Name: "notifier"}, "ci alerts")

	assert.NoError(t, err)
	assertEqual(t, chord.WebhookID(401), webhook.ID)
	assertEqual(t, "wh-token", webhook.Token)

	assertEqual(t, http.MethodPost, transport.requests[0].method)
	assertEqual(t, "/channels/200/webhooks", transport.requests[0].endpoint)
	assertEqual(t, "ci+alerts", transport.requests[0].headers.Get("X-Audit-Log-Reason"))

	payload := decodeBody(t, transport.requests[0].body)

	assertEqual(t, "notifier", payload["name"].(string))
	assert.NotContains(t, payload, "avatar")
}
