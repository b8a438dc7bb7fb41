package leaderboard

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-leaderboard/pkg/source"
)

// Field names read from each document entry. Other fields are ignored.
const (
	FieldRank  = "rank"
	FieldScore = "score"
)

// Columns lists the rendered columns in order.
var Columns = []string{FieldRank, FieldScore}

// Record is one leaderboard entry. Its identity is its position in the list.
type Record struct {
	Rank  Value
	Score Value
}

// Cells returns the rendered cell text for the record, one entry per column.
func (r Record) Cells() []string {
	return []string{r.Rank.Text(), r.Score.Text()}
}

// Field returns the value stored under the named column.
func (r Record) Field(name string) Value {
	switch name {
	case FieldRank:
		return r.Rank
	case FieldScore:
		return r.Score
	default:
		return Value{}
	}
}

// MarshalJSON writes the present fields only, mirroring the source document.
func (r Record) MarshalJSON() ([]byte, error) {
	out := struct {
		Rank  *Value `json:"rank,omitempty"`
		Score *Value `json:"score,omitempty"`
	}{}
	if r.Rank.Present() {
		out.Rank = &r.Rank
	}
	if r.Score.Present() {
		out.Score = &r.Score
	}
	return json.Marshal(out)
}

// RecordList is the ordered sequence of records from one document. Order
// defines row order in the rendered table.
type RecordList []Record

// Decode parses a JSON array into a RecordList. Entries that are not objects
// (including null) become records with both fields absent.
func Decode(data []byte) (RecordList, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrMalformed)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	out := make(RecordList, 0, len(entries))
	for i, entry := range entries {
		record, err := decodeEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrMalformed, i, err)
		}
		out = append(out, record)
	}
	return out, nil
}

func decodeEntry(entry json.RawMessage) (Record, error) {
	trimmed := bytes.TrimSpace(entry)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Record{}, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return Record{}, err
	}

	var record Record
	if raw, ok := fields[FieldRank]; ok {
		if err := record.Rank.UnmarshalJSON(raw); err != nil {
			return Record{}, err
		}
	}
	if raw, ok := fields[FieldScore]; ok {
		if err := record.Score.UnmarshalJSON(raw); err != nil {
			return Record{}, err
		}
	}
	return record, nil
}

// DecodeYAML parses a YAML sequence into a RecordList with the same rules as
// Decode.
func DecodeYAML(data []byte) (RecordList, error) {
	var entries []any
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if entries == nil && len(bytes.TrimSpace(data)) > 0 && !isEmptyYAMLSequence(data) {
		return nil, fmt.Errorf("%w: expected a YAML sequence", ErrMalformed)
	}

	out := make(RecordList, 0, len(entries))
	for _, entry := range entries {
		fields, ok := entry.(map[string]any)
		if !ok {
			out = append(out, Record{})
			continue
		}
		var record Record
		if raw, ok := fields[FieldRank]; ok {
			record.Rank = fromYAML(raw)
		}
		if raw, ok := fields[FieldScore]; ok {
			record.Score = fromYAML(raw)
		}
		out = append(out, record)
	}
	return out, nil
}

func isEmptyYAMLSequence(data []byte) bool {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil || len(node.Content) == 0 {
		return false
	}
	return node.Content[0].Kind == yaml.SequenceNode
}

// DecodeDocument picks the decoder based on the document location.
func DecodeDocument(doc source.Document) (RecordList, error) {
	if doc.IsYAML() {
		return DecodeYAML(doc.Raw())
	}
	return Decode(doc.Raw())
}
