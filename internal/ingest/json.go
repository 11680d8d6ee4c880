package ingest

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/freight-kpi/internal/coerce"
	"github.com/sells-group/freight-kpi/internal/model"
)

// DecodeJSON reads an array of record objects keyed by the camelCase field
// names. Unknown keys are ignored. A non-object element or a nested value
// in a scalar field yields a *ValidationError.
func DecodeJSON(r io.Reader) ([]model.RawRecord, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw []json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, eris.Wrap(err, "ingest: decode json array")
	}

	out := make([]model.RawRecord, 0, len(raw))
	for i, msg := range raw {
		rec, err := decodeObject(i, msg)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	zap.L().Debug("ingest: decoded json records", zap.Int("records", len(out)))
	return out, nil
}

func decodeObject(index int, msg json.RawMessage) (model.RawRecord, error) {
	var obj map[string]any
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return model.RawRecord{}, &ValidationError{Index: index, Reason: "not an object"}
	}

	var rec model.RawRecord
	for _, f := range fieldOrder {
		v, ok := obj[string(f)]
		if !ok || v == nil {
			continue
		}
		switch v.(type) {
		case map[string]any, []any:
			return model.RawRecord{}, &ValidationError{Index: index, Field: string(f), Reason: "expected a scalar value"}
		}
		v = scalar(v)
		if looseFields[f] {
			set(&rec, f, "", v)
			continue
		}
		set(&rec, f, coerce.ToString(v), nil)
	}
	return rec, nil
}

// scalar turns json.Number into int64 when integral, float64 otherwise.
func scalar(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
