package docstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Record is one loosely-typed entry of a collection. Numbers decode as
// json.Number so integer fields survive a round trip unchanged.
type Record map[string]any

// decodeRecords turns stored bytes into records. normalized reports content that
// was valid JSON but not a sequence of objects and was therefore discarded.
func decodeRecords(data []byte) (records []Record, normalized bool, err error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []Record{}, false, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, false, fmt.Errorf("%w: trailing data after document", ErrDecode)
	}

	items, ok := root.([]any)
	if !ok {
		return []Record{}, true, nil
	}

	records = make([]Record, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			normalized = true
			continue
		}
		records = append(records, Record(obj))
	}
	return records, normalized, nil
}

func encodeRecords(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return buf.Bytes(), nil
}
