package system

import (
	"math"
	"strconv"
	"strings"
)

const unknownCount = "??"

// UnknownStatus is the status line published when the catalog cannot resolve the target
func (t *Target) UnknownStatus() string {
	return t.DisplayName() + " - system unknown"
}

// StatusLine composes the display string for an enriched target:
//
//	<name> - [Permit ][Lock |Unlock ][<bodies>/<bodycount>]
func (t *Target) StatusLine() string {
	var b strings.Builder
	b.WriteString(t.DisplayName())
	b.WriteString(" - ")

	if v, ok := t.Attributes[AttrRequirePermit]; ok && truthy(v) {
		b.WriteString("Permit ")
	}
	if v, ok := t.Attributes[AttrCoordsLocked]; ok {
		if truthy(v) {
			b.WriteString("Lock ")
		} else {
			b.WriteString("Unlock ")
		}
	}

	b.WriteString("[")
	b.WriteString(t.countAttr(AttrBodies))
	b.WriteString("/")
	b.WriteString(t.countAttr(AttrBodyCount))
	b.WriteString("]")
	return b.String()
}

// BodyProgress returns the known and expected body counts, if both are numeric
func (t *Target) BodyProgress() (known, expected int64, ok bool) {
	known, okKnown := asCount(t.Attributes[AttrBodies])
	expected, okExpected := asCount(t.Attributes[AttrBodyCount])
	return known, expected, okKnown && okExpected
}

func (t *Target) countAttr(key string) string {
	if n, ok := asCount(t.Attributes[key]); ok {
		return strconv.FormatInt(n, 10)
	}
	return unknownCount
}

// asCount accepts whole numbers of any Go numeric type JSON decoding or callers may produce
func asCount(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float32:
		return wholeFloat(float64(n))
	case float64:
		return wholeFloat(n)
	}
	return 0, false
}

func wholeFloat(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}

func truthy(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case []interface{}:
		return len(x) > 0
	case map[string]interface{}:
		return len(x) > 0
	case float64:
		return x != 0 && !math.IsNaN(x)
	case float32:
		return x != 0 && !math.IsNaN(float64(x))
	}
	if n, ok := asCount(v); ok {
		return n != 0
	}
	return true
}
