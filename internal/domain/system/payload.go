package system

import "github.com/tidwall/gjson"

// Payload is a raw JSON document returned by the catalog service.
// A nil Payload means the query produced no data.
type Payload []byte

// IsEmpty reports whether the payload carries no usable data:
// nothing at all, invalid JSON, null, {} or [].
func (p Payload) IsEmpty() bool {
	if len(p) == 0 || !gjson.ValidBytes(p) {
		return true
	}
	r := gjson.ParseBytes(p)
	switch {
	case r.Type == gjson.Null:
		return true
	case r.IsObject():
		empty := true
		r.ForEach(func(_, _ gjson.Result) bool {
			empty = false
			return false
		})
		return empty
	case r.IsArray():
		return len(r.Array()) == 0
	}
	return false
}

// Objects returns each element of a JSON array payload as its own raw document.
// Non-array payloads yield nil.
func (p Payload) Objects() []Payload {
	if p.IsEmpty() {
		return nil
	}
	r := gjson.ParseBytes(p)
	if !r.IsArray() {
		return nil
	}
	items := r.Array()
	out := make([]Payload, 0, len(items))
	for _, item := range items {
		if item.IsObject() {
			out = append(out, Payload(item.Raw))
		}
	}
	return out
}
