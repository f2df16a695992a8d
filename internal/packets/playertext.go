package packets

import "github.com/udisondev/rotmguard-proxy/internal/codec"

// PlayerText is the C→S chat packet (id 9). The proxy only cares about
// the text field; the remaining fields round-trip verbatim through the
// router as raw bytes when the command handler doesn't consume them.
type PlayerText struct {
	Text string
}

func DecodePlayerText(body []byte) (PlayerText, error) {
	r := codec.NewReader(body)
	text, err := r.String()
	return PlayerText{Text: text}, err
}
