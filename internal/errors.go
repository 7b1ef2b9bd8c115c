package internal

import "errors"

var (
	ErrReadConfigurationFailure = errors.New("failed to read configuration")
	ErrLoadConfigurationFailure = errors.New("failed to load configuration")

	ErrConfigurationValidateToken      = errors.New("configuration missing token")
	ErrConfigurationValidatePrometheus = errors.New("configuration missing valid prometheus host")
	ErrConfigurationValidateHTTP       = errors.New("configuration missing valid http host")
)

var (
	ErrNoGatewayHandler  = errors.New("no registered handler for gateway event")
	ErrNoDispatchHandler = errors.New("no registered handler for dispatch event")
	ErrProducerMissing   = errors.New("no producer client found")
	ErrUnknownMQClient   = errors.New("no mq client with this name exists")

	// ErrMissingSessionID is returned when a voice state update carries no
	// session id to key it by.
	ErrMissingSessionID = errors.New("voice state update missing session id")

	ErrGuildNotFound   = errors.New("no guild with this id exists")
	ErrChannelNotFound = errors.New("no channel with this id exists")
	ErrUserNotFound    = errors.New("no user with this id exists")
)
