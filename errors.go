package chord

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/WelcomerTeam/Chord/chordjson"
)

var (
	ErrUnauthorized = errors.New("improper token was passed")

	// ErrMissingRequiredField is returned when a payload omits a field the
	// platform contract guarantees. This always indicates a protocol
	// violation and is never recovered from.
	ErrMissingRequiredField = errors.New("payload is missing a required field")

	// ErrUnsupportedChannelType is returned when an operation receives a
	// channel variant it cannot service.
	ErrUnsupportedChannelType = errors.New("unsupported channel type for this operation")

	// ErrNotAnnouncementChannel is returned by Follow before any request is
	// made when the receiver is not an announcement channel.
	ErrNotAnnouncementChannel = errors.New("channel must be an announcement channel to be followed")

	// ErrInvalidForumTagEmoji is returned when a forum tag carries both an
	// emoji id and an emoji name.
	ErrInvalidForumTagEmoji = errors.New("forum tag may have an emoji id or an emoji name, not both")

	// ErrInvalidForumTagName is returned when a forum tag name is empty or
	// longer than 20 characters.
	ErrInvalidForumTagName = errors.New("forum tag name must be 1-20 characters")
)

// RestError contains the error structure that is returned by discord.
type RestError struct {
	Request      *http.Request
	Response     *http.Response
	Message      *ErrorMessage
	ResponseBody []byte
}

// ErrorMessage represents a basic error message.
type ErrorMessage struct {
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
	Code    int32           `json:"code"`
}

func NewRestError(req *http.Request, resp *http.Response, body []byte) *RestError {
	var errorMessage ErrorMessage

	_ = chordjson.Unmarshal(body, &errorMessage)

	return &RestError{
		Request:      req,
		Response:     resp,
		ResponseBody: body,
		Message:      &errorMessage,
	}
}

func (r *RestError) Error() string {
	return fmt.Sprintf("%s: %s", r.Response.Status, r.Message.Message)
}
