package commander

import (
	"context"
	"encoding/json"
	"fmt"
)

// Sender sends messages.
type Sender interface {
	Send(context.Context, []byte) error
}

// TrackCommand orders ingestion of a batch of product page URLs.
type TrackCommand struct {
	URLs []string `json:"urls"`
}

// TrackCommander sends track commands.
type TrackCommander struct {
	sender Sender
}

// NewTrackCommander returns new TrackCommander using provided sender for sending messages.
func NewTrackCommander(sender Sender) TrackCommander {
	return TrackCommander{
		sender: sender,
	}
}

// SendTrackCommand sends track command with provided product page URLs.
func (c TrackCommander) SendTrackCommand(ctx context.Context, urls []string) error {
	cmd := TrackCommand{
		URLs: urls,
	}

	cmdMsg, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("can't marshal track command: %w", err)
	}

	return c.sender.Send(ctx, cmdMsg)
}
