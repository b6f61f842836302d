package models

import "fmt"

// Event types sent to clients
const (
	EventRegistered     = "registered"
	EventNewConnection  = "new_connection"
	EventThinkingOfYou  = "thinking_of_you"
	EventError          = "error"
	MessageTypeRegister = "register"
)

// Event is a message sent to a user over the websocket and, in reduced form, over push
type Event struct {
	Type         string      `json:"type"`
	UserID       string      `json:"userId,omitempty"`
	Connection   *Connection `json:"connection,omitempty"`
	From         string      `json:"from,omitempty"`
	Emoji        string      `json:"emoji,omitempty"`
	Message      string      `json:"message,omitempty"`
	ConnectionID string      `json:"connectionId,omitempty"`
	Timestamp    int64       `json:"timestamp,omitempty"`
}

// PushPayload is the body delivered to the platform push layer
type PushPayload struct {
	Title string          `json:"title"`
	Body  string          `json:"body"`
	Data  PushPayloadData `json:"data"`
}

// PushPayloadData carries the event details a notification click may need
type PushPayloadData struct {
	Type    string `json:"type"`
	From    string `json:"from,omitempty"`
	Emoji   string `json:"emoji,omitempty"`
	Message string `json:"message,omitempty"`
}

// PushPayload derives the push notification for the event
func (e Event) PushPayload() PushPayload {
	switch e.Type {
	case EventNewConnection:
		name := "Someone"
		if e.Connection != nil && e.Connection.PartnerName != "" {
			name = e.Connection.PartnerName
		}
		return PushPayload{
			Title: "New connection",
			Body:  fmt.Sprintf("%s connected with you", name),
			Data:  PushPayloadData{Type: e.Type, From: name},
		}
	case EventThinkingOfYou:
		return PushPayload{
			Title: "Thinking of You",
			Body:  fmt.Sprintf("%s %s %s", e.From, e.Message, e.Emoji),
			Data: PushPayloadData{
				Type:    e.Type,
				From:    e.From,
				Emoji:   e.Emoji,
				Message: e.Message,
			},
		}
	default:
		return PushPayload{
			Title: "Thinking of You",
			Body:  "Someone is thinking of you " + DefaultEmoji,
			Data:  PushPayloadData{Type: e.Type},
		}
	}
}
