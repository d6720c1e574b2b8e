package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Wire messages exchanged with the map render surface. Every envelope is
// a small JSON object with a "type" discriminator; here each kind is a
// distinct Go type dispatched through a single handler.
type Message interface{ messageType() string }

// Surface -> host: ask for the current rating of a fountain. Sent when a
// marker is first rendered and again when its popup opens.
type GetRating struct {
	ID string `json:"id"`
}

// Surface -> host: a star tap on an unlocked row. The reply carries the
// authoritative value, which may differ if a race already locked the id.
type SetRatingOnce struct {
	ID    string `json:"id"`
	Value int    `json:"value"`
}

// Surface -> host: navigate back to the menu.
type GoMenu struct{}

// Host -> surface: the authoritative rating for one fountain. Idempotent;
// safe to apply redundantly.
type RatingPushed struct {
	ID    string `json:"id"`
	Value int    `json:"value"`
}

// Host -> surface: navigation request the surface performs itself.
type Navigate struct {
	Target string `json:"target"`
}

func (GetRating) messageType() string     { return "getRating" }
func (SetRatingOnce) messageType() string { return "setRatingOnce" }
func (GoMenu) messageType() string        { return "goMenu" }
func (RatingPushed) messageType() string  { return "ratingPushed" }
func (Navigate) messageType() string      { return "navigate" }

// ErrUnknownType marks envelopes with an unrecognized discriminator.
// Callers drop such messages without a response.
var ErrUnknownType = errors.New("bridge: unknown message type")

type envelope struct {
	Type   string `json:"type"`
	ID     string `json:"id,omitempty"`
	Value  *int   `json:"value,omitempty"`
	Target string `json:"target,omitempty"`
}

// Decode parses one inbound envelope. Unparseable data or an unknown
// type yields an error; per the degradation policy both are ignored by
// the caller, never answered.
func Decode(data []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("bridge: malformed envelope: %w", err)
	}
	switch env.Type {
	case "getRating":
		if env.ID == "" {
			return nil, fmt.Errorf("bridge: getRating without id")
		}
		return GetRating{ID: env.ID}, nil
	case "setRatingOnce":
		if env.ID == "" || env.Value == nil {
			return nil, fmt.Errorf("bridge: setRatingOnce missing id or value")
		}
		return SetRatingOnce{ID: env.ID, Value: *env.Value}, nil
	case "goMenu":
		return GoMenu{}, nil
	case "ratingPushed":
		if env.ID == "" || env.Value == nil {
			return nil, fmt.Errorf("bridge: ratingPushed missing id or value")
		}
		return RatingPushed{ID: env.ID, Value: *env.Value}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
}

// Encode serializes a message with its type discriminator.
func Encode(m Message) []byte {
	env := envelope{Type: m.messageType()}
	switch v := m.(type) {
	case GetRating:
		env.ID = v.ID
	case SetRatingOnce:
		env.ID, env.Value = v.ID, &v.Value
	case RatingPushed:
		env.ID, env.Value = v.ID, &v.Value
	case Navigate:
		env.Target = v.Target
	}
	b, _ := json.Marshal(env)
	return b
}
