package backend

import "encoding/json"

// Channel is a backend-owned notification channel. The client only relays
// channel searches; it never mutates channels.
type Channel struct {
	UUID            string `json:"uuid"`
	Name            string `json:"name"`
	SubscriberCount int    `json:"subscriber_count"`
}

// ChannelQuery filters channel searches.
type ChannelQuery struct {
	Name string
}

// Message describes a channel broadcast. It is submitted once and never
// retried automatically.
type Message struct {
	// ChannelUUIDs are the target channels. The wire name is the
	// backend's, hyphen included.
	ChannelUUIDs []string `json:"channel-uuid"`

	Title   string `json:"title"`
	Content string `json:"content"`

	// Action optionally attaches an interaction to the message. Valid
	// values are call, email, website, and image.
	Action      string `json:"action,omitempty"`
	ActionValue string `json:"action_value,omitempty"`
	Image       string `json:"image,omitempty"`
}

// Response is the normalized backend success envelope.
type Response struct {
	// Status is the backend's success flag; true when absent.
	Status bool

	// Message is the backend's human message; "No message provided"
	// when absent.
	Message string

	// Data is the payload, left raw for the caller to decode.
	Data json.RawMessage
}

// envelope is the wire shape of backend responses. Pointers distinguish
// absent fields from zero values so Response defaults apply correctly.
type envelope struct {
	Status  *bool           `json:"status"`
	Message *string         `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// errorEnvelope is the wire shape of backend error responses.
type errorEnvelope struct {
	Errors  json.RawMessage `json:"errors"`
	Message string          `json:"message"`
	Fault   *fault          `json:"fault"`
}

// fault is the backend's structured fault descriptor.
type fault struct {
	Faultstring string          `json:"faultstring"`
	Detail      json.RawMessage `json:"detail"`
}

// faultDetail carries the backend error code when present.
type faultDetail struct {
	Errorcode string `json:"errorcode"`
}
