package invoice

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ContentField is the conventional field carrying pre-rendered document text.
// When present and non-empty it is used verbatim as the document body.
const ContentField = "content"

// fragmentSeparator joins "Label: value" fragments in synthesized content.
const fragmentSeparator = " | "

// knownFields is the fixed, ordered list of invoice fields used to
// synthesize content when no "content" field exists. Order is significant:
// fragments are emitted in exactly this order.
var knownFields = []struct {
	key   string
	label string
}{
	{"invoice_id", "Invoice ID"},
	{"date", "Date"},
	{"customer_name", "Customer"},
	{"address", "Address"},
	{"product", "Product"},
	{"quantity", "Quantity"},
	{"unit_price", "Unit Price"},
	{"total_amount", "Total Amount"},
	{"payment_method", "Payment Method"},
	{"status", "Status"},
}

// Normalize converts a raw search-index record into a Document.
//
// If the record carries a non-empty "content" field, that value (trimmed of
// surrounding whitespace) becomes the document body. Otherwise content is
// synthesized from the known invoice fields, in order, as "Label: value"
// fragments joined by " | ". If neither yields anything, the whole record is
// rendered generically so a non-empty record never produces an empty
// document. Malformed field values are treated as absent. Normalize never
// fails.
func Normalize(rec Record) Document {
	meta := rec.Clone()

	if raw, ok := rec[ContentField]; ok {
		if s, ok := raw.(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return Document{Content: trimmed, Metadata: meta}
			}
		}
	}

	var parts []string
	for _, f := range knownFields {
		v, ok := rec[f.key]
		if !ok {
			continue
		}
		s, ok := formatScalar(v)
		if !ok {
			continue
		}
		parts = append(parts, f.label+": "+s)
	}
	if len(parts) > 0 {
		return Document{Content: strings.Join(parts, fragmentSeparator), Metadata: meta}
	}

	return Document{Content: renderGeneric(rec), Metadata: meta}
}

// formatScalar renders a scalar field value for display. Empty strings,
// zero numbers, false bools, nil, and non-scalar values report ok=false and
// are omitted from synthesized content, matching the index's convention
// that zero-valued fields carry no information.
func formatScalar(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		return s, s != ""
	case float64:
		if val == 0 {
			return "", false
		}
		return formatFloat(val), true
	case float32:
		return formatScalar(float64(val))
	case int:
		return formatScalar(int64(val))
	case int64:
		if val == 0 {
			return "", false
		}
		return strconv.FormatInt(val, 10), true
	case bool:
		if !val {
			return "", false
		}
		return "true", true
	default:
		return "", false
	}
}

// formatFloat renders a float the way the index's original renderer did:
// whole floats keep one decimal place ("250.0"), fractional floats use the
// shortest exact representation ("19.99").
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// renderGeneric renders an arbitrary record as deterministic key=value text.
// Used only when a record has no content field and no known invoice fields.
func renderGeneric(rec Record) string {
	if len(rec) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, rec[k]))
	}
	return strings.Join(parts, ", ")
}
