package activity

import (
	"strings"
	"unicode/utf16"

	"github.com/go-telegram/bot/models"
)

// Merge computes the updated channel text after giver adds their gratitude,
// working purely from the message text and its mention entities. Previously
// recorded givers are the mention spans past the gratitude separator; giver
// is appended and the list deduplicated, keeping first-seen order, so
// merging the same giver twice is a no-op on the list.
//
// Telegram reports entity offsets in UTF-16 code units, so spans are sliced
// in UTF-16 space. A status text that itself contains the separator literal
// corrupts section detection; that fragility is inherited from storing state
// in display text and is why the record store is the primary path.
func Merge(text string, entities []models.MessageEntity, giver string) string {
	sepIdx := strings.Index(text, GratitudePrefix)

	units := utf16.Encode([]rune(text))
	sepOffset := -1
	if sepIdx >= 0 {
		sepOffset = len(utf16.Encode([]rune(text[:sepIdx])))
	}

	var givers []string
	if sepOffset >= 0 {
		for _, e := range entities {
			if e.Type != models.MessageEntityTypeMention || e.Offset <= sepOffset {
				continue
			}
			if e.Offset+e.Length > len(units) {
				continue
			}
			givers = append(givers, string(utf16.Decode(units[e.Offset:e.Offset+e.Length])))
		}
	}
	givers = dedupe(append(givers, giver))

	base := text
	if sepIdx >= 0 {
		base = text[:sepIdx]
	}
	return base + GratitudePrefix + strings.Join(givers, " ")
}

func dedupe(handles []string) []string {
	seen := make(map[string]struct{}, len(handles))
	out := make([]string, 0, len(handles))
	for _, h := range handles {
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	return out
}
