// Package callback encodes button intents into the compact strings carried
// by Telegram's callback_data field. The field caps out at 64 bytes, hence
// the terse tag:field format instead of a generic serialization.
package callback

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/teamtempo/tempobot/internal/domain"
)

const (
	tagGratitude = "g"
	tagFinish    = "f"
)

// Intent is a decoded button payload.
type Intent interface {
	intent()
}

// Gratitude is carried by the "Thank you!" button on the channel copy of an
// activity message. CurrentScore is the click count at the time the button
// was last rendered.
type Gratitude struct {
	CurrentScore int
}

// Finish is carried by the "Finish Activity" button on the private copy.
// MessageDate is the unix timestamp the activity was declared at;
// ChannelMessageID points at the channel copy so both can be rewritten.
type Finish struct {
	MessageDate      int64
	ChannelMessageID int
}

func (Gratitude) intent() {}
func (Finish) intent()    {}

// Encode serializes in. Gratitude becomes "g:<score>", Finish becomes
// "f:<date>:<channelMessageId>". Decode(Encode(x)) == x for every valid x.
func Encode(in Intent) (string, error) {
	switch v := in.(type) {
	case Gratitude:
		return tagGratitude + ":" + strconv.Itoa(v.CurrentScore), nil
	case Finish:
		return tagFinish + ":" + strconv.FormatInt(v.MessageDate, 10) + ":" + strconv.Itoa(v.ChannelMessageID), nil
	default:
		return "", fmt.Errorf("encode %T: %w", in, domain.ErrUnsupportedIntent)
	}
}

// Decode parses a payload produced by Encode. An unknown tag fails with
// domain.ErrUnsupportedIntent; a known tag with the wrong arity or
// non-numeric fields fails with domain.ErrMalformedCallback.
func Decode(data string) (Intent, error) {
	parts := strings.Split(data, ":")

	switch parts[0] {
	case tagGratitude:
		if len(parts) != 2 {
			return nil, fmt.Errorf("gratitude payload %q: %w", data, domain.ErrMalformedCallback)
		}
		score, err := strconv.Atoi(parts[1])
		if err != nil || score < 0 {
			return nil, fmt.Errorf("gratitude score %q: %w", parts[1], domain.ErrMalformedCallback)
		}
		return Gratitude{CurrentScore: score}, nil

	case tagFinish:
		if len(parts) != 3 {
			return nil, fmt.Errorf("finish payload %q: %w", data, domain.ErrMalformedCallback)
		}
		date, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("finish message date %q: %w", parts[1], domain.ErrMalformedCallback)
		}
		messageID, err := strconv.Atoi(parts[2])
		if err != nil {
			return nil, fmt.Errorf("finish channel message id %q: %w", parts[2], domain.ErrMalformedCallback)
		}
		return Finish{MessageDate: date, ChannelMessageID: messageID}, nil

	default:
		return nil, fmt.Errorf("decode tag %q: %w", parts[0], domain.ErrUnsupportedIntent)
	}
}
