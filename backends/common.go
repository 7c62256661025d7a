package backends

import (
	"bytes"
	"encoding/json"

	logger "github.com/TykTechnologies/asana-mock/log"
)

var log = logger.Get()

// decodeAll joins raw JSON documents into an array and decodes it into
// target, so a nil or empty set still yields an empty slice
func decodeAll(docs [][]byte, target interface{}) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, d := range docs {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(d)
	}
	buf.WriteByte(']')
	return json.Unmarshal(buf.Bytes(), target)
}
