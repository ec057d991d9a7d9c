package legaldoc

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSONL writes records as newline-delimited JSON. HTML escaping is
// off: statutory text is full of <, > and & and the index expects them
// literal. Non-ASCII passes through as UTF-8.
func WriteJSONL(w io.Writer, records []ChunkRecord) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i := range records {
		if err := enc.Encode(&records[i]); err != nil {
			return fmt.Errorf("encode record %d: %w", i, err)
		}
	}
	return nil
}
