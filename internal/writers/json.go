package writers

import (
	"bufio"
	"encoding/json"
	"io"

	"hmerize/pkg/api"
)

func init() {
	Register("json", writeJSON)
	Register("jsonl", writeJSONL)
}

// writeJSON writes the payload as one indented JSON document.
func writeJSON(w io.Writer, payload any, _ Options) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

// writeJSONL writes one JSON value per line: one per sequence for batch
// results, one per hash for theoretical sets.
func writeJSONL(w io.Writer, payload any, _ Options) error {
	bw := bufio.NewWriterSize(w, 64<<10)
	enc := json.NewEncoder(bw)
	var err error
	switch v := payload.(type) {
	case []api.KmerResultV1:
		err = encodeEach(enc, v)
	case []api.PrimerResultV1:
		err = encodeEach(enc, v)
	case api.TheoreticalV1:
		err = encodeEach(enc, v.Hashes)
	case api.LimitsV1:
		err = enc.Encode(v)
	default:
		return unsupported("jsonl", payload)
	}
	if err != nil {
		return err
	}
	return bw.Flush()
}

func encodeEach[T any](enc *json.Encoder, list []T) error {
	for _, v := range list {
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	return nil
}
