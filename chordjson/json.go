package chordjson

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

// json is a drop-in replacement for encoding/json. Payload structs rely on
// standard library semantics for tags, embedding and custom marshalers.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RawMessage defers decoding of a payload fragment.
type RawMessage = jsoniter.RawMessage

func Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func UnmarshalReader(reader io.Reader, v any) error {
	return json.NewDecoder(reader).Decode(v)
}

func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func MarshalToWriter(writer io.Writer, v any) error {
	return json.NewEncoder(writer).Encode(v)
}
