package callback

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/teamtempo/tempobot/internal/domain"
)

// telegram rejects callback_data longer than 64 bytes
const maxCallbackDataLen = 64

func TestEncodeDecodeRoundTrip(t *testing.T) {
	intents := []Intent{
		Gratitude{CurrentScore: 0},
		Gratitude{CurrentScore: 1},
		Gratitude{CurrentScore: 1234567},
		Finish{MessageDate: 0, ChannelMessageID: 0},
		Finish{MessageDate: 1700000000, ChannelMessageID: 42},
		Finish{MessageDate: 9223372036854775807, ChannelMessageID: 2147483647},
	}

	for _, in := range intents {
		data, err := Encode(in)
		gt.NoError(t, err).Required()
		gt.Bool(t, len(data) <= maxCallbackDataLen).True()

		out, err := Decode(data)
		gt.NoError(t, err).Required()
		gt.Value(t, out).Equal(in)
	}
}

func TestEncodeWireFormat(t *testing.T) {
	data, err := Encode(Gratitude{CurrentScore: 0})
	gt.NoError(t, err)
	gt.String(t, data).Equal("g:0")

	data, err = Encode(Finish{MessageDate: 1700000000, ChannelMessageID: 17})
	gt.NoError(t, err)
	gt.String(t, data).Equal("f:1700000000:17")
}

type bogusIntent struct{}

func (bogusIntent) intent() {}

func TestEncodeUnsupportedIntent(t *testing.T) {
	_, err := Encode(bogusIntent{})
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, domain.ErrUnsupportedIntent)).True()
}

func TestDecodeUnsupportedTag(t *testing.T) {
	for _, data := range []string{"x:1", "gg:1", "", "finish:1:2"} {
		_, err := Decode(data)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, domain.ErrUnsupportedIntent)).True()
	}
}

func TestDecodeMalformedFields(t *testing.T) {
	for _, data := range []string{"g", "g:", "g:abc", "g:-1", "g:1:2", "f:1", "f:abc:2", "f:1:abc", "f:1:2:3"} {
		_, err := Decode(data)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, domain.ErrMalformedCallback)).True()
	}
}
