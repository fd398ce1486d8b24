package invoice

// Record is one raw search-index record: an open mapping of field name to
// scalar value. Values are expected to be strings, numbers, or bools
// (anything a JSON search response can carry); non-scalar values are
// tolerated but treated as absent by the normalizer.
type Record map[string]any

// Clone returns a copy of the record so later mutation of the source cannot
// alter documents that were normalized from it. Nested maps and slices are
// copied one level deep; scalar values are copied by value.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, inner := range val {
			m[k] = copyValue(inner)
		}
		return m
	case []any:
		s := make([]any, len(val))
		for i, inner := range val {
			s[i] = copyValue(inner)
		}
		return s
	default:
		return v
	}
}

// Document is the uniform retrievable representation of one invoice record.
// Content is non-empty canonical text; Metadata is a copy of the raw record
// it was built from. Documents are immutable once created.
type Document struct {
	Content  string
	Metadata Record
}
