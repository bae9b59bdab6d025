package docstore

import (
	"sort"

	"github.com/google/uuid"
)

func NewID() string {
	return uuid.NewString()
}

// Clone deep-copies nested maps and slices so callers never share state with
// a backend.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Document:
		return t.Clone()
	case map[string]any:
		return map[string]any(Document(t).Clone())
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}

// WritableFields drops the keys backends manage themselves.
func WritableFields(fields Document) Document {
	out := make(Document, len(fields))
	for k, v := range fields {
		switch k {
		case FieldID, FieldCreatedAt, FieldUpdatedAt:
			continue
		}
		out[k] = cloneValue(v)
	}
	return out
}

func (d Document) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// Sort orders documents by createdAt then id. Documents without createdAt
// sort first.
func Sort(docs []Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		ci, cj := docs[i].String(FieldCreatedAt), docs[j].String(FieldCreatedAt)
		if ci != cj {
			return ci < cj
		}
		return docs[i].String(FieldID) < docs[j].String(FieldID)
	})
}
