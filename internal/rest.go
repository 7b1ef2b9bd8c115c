package internal

import (
	"strconv"
	"time"

	chord "github.com/WelcomerTeam/Chord"
	"github.com/WelcomerTeam/Chord/chordjson"
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
)

// RestResponse is the outer payload every http endpoint returns.
type RestResponse struct {
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
	Ok    bool        `json:"ok"`
}

type StatusEndpointResponse struct {
	Identifier string                  `json:"identifier"`
	Version    string                  `json:"version"`
	Uptime     int                     `json:"uptime"`
	Consumer   *StatusEndpointConsumer `json:"consumer,omitempty"`
}

type StatusEndpointConsumer struct {
	// ShardID, ShardCount
	Shard [2]int32 `json:"shard"`

	Status ConsumerStatus `json:"status"`

	// Latency between the last heartbeat and its acknowledgement, in
	// milliseconds.
	Latency int64 `json:"latency"`

	Guilds            int `json:"guilds"`
	UnavailableGuilds int `json:"unavailable_guilds"`

	Uptime int `json:"uptime"`

	User *chord.User `json:"user,omitempty"`
}

func (d *Daemon) newRestRouter() *router.Router {
	restRouter := router.New()

	restRouter.GET("/api/status", d.StatusEndpoint)
	restRouter.GET("/api/guilds/{guild_id}/channels", d.GuildChannelsEndpoint)
	restRouter.GET("/api/guilds/{guild_id}/channels/{channel_id}", d.GuildChannelEndpoint)
	restRouter.GET("/api/guilds/{guild_id}/threads", d.GuildThreadsEndpoint)
	restRouter.GET("/api/guilds/{guild_id}/voice_states", d.GuildVoiceStatesEndpoint)
	restRouter.GET("/api/guilds/{guild_id}/stage_instances", d.GuildStageInstancesEndpoint)
	restRouter.GET("/api/dm_channels/{channel_id}", d.DMChannelEndpoint)
	restRouter.GET("/api/users/{user_id}", d.UserEndpoint)

	return restRouter
}

// writeRestResponse handles writing a rest response to the client.
func (d *Daemon) writeRestResponse(ctx *fasthttp.RequestCtx, statusCode int, response RestResponse) {
	body, err := chordjson.Marshal(response)
	if err != nil {
		d.Logger.Warn().Err(err).Msg("Failed to marshal rest response")

		ctx.SetStatusCode(fasthttp.StatusInternalServerError)

		return
	}

	ctx.Response.Header.SetContentType("application/json;charset=UTF-8")
	ctx.SetStatusCode(statusCode)
	ctx.SetBody(body)
}

// pathSnowflake extracts a snowflake from the request path.
func pathSnowflake(ctx *fasthttp.RequestCtx, key string) (chord.Snowflake, bool) {
	value, _ := ctx.UserValue(key).(string)

	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}

	return chord.Snowflake(id), true
}

// StatusEndpoint returns the current status of the daemon and its consumer.
func (d *Daemon) StatusEndpoint(ctx *fasthttp.RequestCtx) {
	chordRestRequests.Inc()

	now := time.Now().UTC()

	response := StatusEndpointResponse{
		Identifier: d.Identifier.Load(),
		Version:    VERSION,
		Uptime:     int(now.Sub(d.StartTime).Seconds()),
	}

	if consumer := d.Consumer.Load(); consumer != nil {
		consumer.userMu.RLock()
		user := consumer.User
		consumer.userMu.RUnlock()

		unavailableGuilds := 0

		consumer.Unavailable.Range(func(_ chord.GuildID, unavailable bool) bool {
			if unavailable {
				unavailableGuilds++
			}

			return false
		})

		uptime := 0

		if start := consumer.Start.Load(); !start.IsZero() {
			uptime = int(now.Sub(start).Seconds())
		}

		consumerStatus := &StatusEndpointConsumer{
			Shard:             [2]int32{consumer.ShardID, consumer.ShardCount},
			Status:            consumer.GetStatus(),
			Latency:           consumer.LastHeartbeatAck.Load().Sub(consumer.LastHeartbeatSent.Load()).Milliseconds(),
			Guilds:            consumer.Guilds.Count(),
			UnavailableGuilds: unavailableGuilds,
			Uptime:            uptime,
		}

		if consumer.UserID.Load() != 0 {
			consumerStatus.User = &user
		}

		response.Consumer = consumerStatus
	}

	d.writeRestResponse(ctx, fasthttp.StatusOK, RestResponse{Ok: true, Data: response})
}

// GuildChannelsEndpoint returns all cached channels of a guild, threads
// included.
func (d *Daemon) GuildChannelsEndpoint(ctx *fasthttp.RequestCtx) {
	chordRestRequests.Inc()

	guildID, ok := pathSnowflake(ctx, "guild_id")
	if !ok {
		d.writeRestResponse(ctx, fasthttp.StatusBadRequest, RestResponse{Error: "invalid guild_id"})

		return
	}

	guildChannels, ok := d.State.GetAllGuildChannels(chord.GuildID(guildID))
	if !ok {
		chordRestMisses.WithLabelValues("guild_channels").Inc()

		d.writeRestResponse(ctx, fasthttp.StatusNotFound, RestResponse{Error: returnError(ErrGuildNotFound)})

		return
	}

	chordRestHits.WithLabelValues("guild_channels").Inc()

	d.writeRestResponse(ctx, fasthttp.StatusOK, RestResponse{Ok: true, Data: guildChannels})
}

// GuildChannelEndpoint returns a single cached channel.
func (d *Daemon) GuildChannelEndpoint(ctx *fasthttp.RequestCtx) {
	chordRestRequests.Inc()

	guildID, ok := pathSnowflake(ctx, "guild_id")
	if !ok {
		d.writeRestResponse(ctx, fasthttp.StatusBadRequest, RestResponse{Error: "invalid guild_id"})

		return
	}

	channelID, ok := pathSnowflake(ctx, "channel_id")
	if !ok {
		d.writeRestResponse(ctx, fasthttp.StatusBadRequest, RestResponse{Error: "invalid channel_id"})

		return
	}

	guildChannel, ok := d.State.GetGuildChannel(chord.GuildID(guildID), chord.ChannelID(channelID))
	if !ok {
		chordRestMisses.WithLabelValues("guild_channel").Inc()

		d.writeRestResponse(ctx, fasthttp.StatusNotFound, RestResponse{Error: returnError(ErrChannelNotFound)})

		return
	}

	chordRestHits.WithLabelValues("guild_channel").Inc()

	d.writeRestResponse(ctx, fasthttp.StatusOK, RestResponse{Ok: true, Data: guildChannel})
}

// GuildThreadsEndpoint returns the cached threads of a guild, optionally
// filtered to one parent channel with ?parent_id.
func (d *Daemon) GuildThreadsEndpoint(ctx *fasthttp.RequestCtx) {
	chordRestRequests.Inc()

	guildID, ok := pathSnowflake(ctx, "guild_id")
	if !ok {
		d.writeRestResponse(ctx, fasthttp.StatusBadRequest, RestResponse{Error: "invalid guild_id"})

		return
	}

	var parentID *chord.ChannelID

	if rawParentID := ctx.QueryArgs().Peek("parent_id"); len(rawParentID) > 0 {
		id, err := strconv.ParseInt(string(rawParentID), 10, 64)
		if err != nil || id <= 0 {
			d.writeRestResponse(ctx, fasthttp.StatusBadRequest, RestResponse{Error: "invalid parent_id"})

			return
		}

		channelID := chord.ChannelID(id)
		parentID = &channelID
	}

	if _, ok := d.State.GuildChannels.Inner(chord.GuildID(guildID)); !ok {
		chordRestMisses.WithLabelValues("guild_threads").Inc()

		d.writeRestResponse(ctx, fasthttp.StatusNotFound, RestResponse{Error: returnError(ErrGuildNotFound)})

		return
	}

	threads := d.State.GetGuildThreads(chord.GuildID(guildID), parentID)

	chordRestHits.WithLabelValues("guild_threads").Inc()

	d.writeRestResponse(ctx, fasthttp.StatusOK, RestResponse{Ok: true, Data: threads})
}

// GuildVoiceStatesEndpoint returns the active voice sessions of a guild.
func (d *Daemon) GuildVoiceStatesEndpoint(ctx *fasthttp.RequestCtx) {
	chordRestRequests.Inc()

	guildID, ok := pathSnowflake(ctx, "guild_id")
	if !ok {
		d.writeRestResponse(ctx, fasthttp.StatusBadRequest, RestResponse{Error: "invalid guild_id"})

		return
	}

	voiceStates, ok := d.State.GetAllVoiceStates(chord.GuildID(guildID))
	if !ok {
		chordRestMisses.WithLabelValues("guild_voice_states").Inc()

		d.writeRestResponse(ctx, fasthttp.StatusNotFound, RestResponse{Error: returnError(ErrGuildNotFound)})

		return
	}

	chordRestHits.WithLabelValues("guild_voice_states").Inc()

	d.writeRestResponse(ctx, fasthttp.StatusOK, RestResponse{Ok: true, Data: voiceStates})
}

// GuildStageInstancesEndpoint returns the live stage instances of a guild.
// Most guilds have none, so an empty list is not an error.
func (d *Daemon) GuildStageInstancesEndpoint(ctx *fasthttp.RequestCtx) {
	chordRestRequests.Inc()

	guildID, ok := pathSnowflake(ctx, "guild_id")
	if !ok {
		d.writeRestResponse(ctx, fasthttp.StatusBadRequest, RestResponse{Error: "invalid guild_id"})

		return
	}

	stageInstances := make([]chord.StageInstance, 0)

	if inner, ok := d.State.StageInstances.Inner(chord.GuildID(guildID)); ok {
		inner.Range(func(_ chord.ChannelID, stageInstance chord.StageInstance) bool {
			stageInstances = append(stageInstances, stageInstance)

			return false
		})
	}

	chordRestHits.WithLabelValues("guild_stage_instances").Inc()

	d.writeRestResponse(ctx, fasthttp.StatusOK, RestResponse{Ok: true, Data: stageInstances})
}

// DMChannelEndpoint returns a cached DM channel.
func (d *Daemon) DMChannelEndpoint(ctx *fasthttp.RequestCtx) {
	chordRestRequests.Inc()

	channelID, ok := pathSnowflake(ctx, "channel_id")
	if !ok {
		d.writeRestResponse(ctx, fasthttp.StatusBadRequest, RestResponse{Error: "invalid channel_id"})

		return
	}

	dmChannel, ok := d.State.GetDMChannel(chord.ChannelID(channelID))
	if !ok {
		chordRestMisses.WithLabelValues("dm_channel").Inc()

		d.writeRestResponse(ctx, fasthttp.StatusNotFound, RestResponse{Error: returnError(ErrChannelNotFound)})

		return
	}

	chordRestHits.WithLabelValues("dm_channel").Inc()

	d.writeRestResponse(ctx, fasthttp.StatusOK, RestResponse{Ok: true, Data: dmChannel})
}

// UserEndpoint returns a cached user.
func (d *Daemon) UserEndpoint(ctx *fasthttp.RequestCtx) {
	chordRestRequests.Inc()

	userID, ok := pathSnowflake(ctx, "user_id")
	if !ok {
		d.writeRestResponse(ctx, fasthttp.StatusBadRequest, RestResponse{Error: "invalid user_id"})

		return
	}

	user, ok := d.State.GetUser(chord.UserID(userID))
	if !ok {
		chordRestMisses.WithLabelValues("user").Inc()

		d.writeRestResponse(ctx, fasthttp.StatusNotFound, RestResponse{Error: returnError(ErrUserNotFound)})

		return
	}

	chordRestHits.WithLabelValues("user").Inc()

	d.writeRestResponse(ctx, fasthttp.StatusOK, RestResponse{Ok: true, Data: user})
}
