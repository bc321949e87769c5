package system

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/andrescamacho/edsm-checker-go/internal/domain/shared"
)

// Attribute keys the lookup pipeline reads and writes in Target.Attributes.
// The map itself is open; anything else the host stores there is left alone.
const (
	AttrBodyCount     = "bodycount"
	AttrBodies        = "bodies"
	AttrCoordsLocked  = "coordslocked"
	AttrRequirePermit = "requirepermit"
	AttrDistance      = "distance"
	AttrStarClass     = "starclass"
)

// Position is a star system's galactic coordinate triple in light years
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Target describes a star system pending (or having undergone) a catalog lookup.
//
// Name and Address are the identity; a target with neither is not resolvable.
// Position is either fully known or nil, never partial.
// Once enqueued, a Target belongs to the lookup worker until its status is published.
type Target struct {
	Name       string
	Address    *int64
	Position   *Position
	Attributes map[string]interface{}
}

// NewTarget creates a target from explicit fields.
// address and position may be nil.
func NewTarget(name string, address *int64, position *Position) *Target {
	return &Target{
		Name:       name,
		Address:    address,
		Position:   position,
		Attributes: make(map[string]interface{}),
	}
}

// NewTargetFromStarPos creates a target from a journal-style StarPos list.
// starPos must be nil or hold exactly three coordinates.
func NewTargetFromStarPos(name string, address *int64, starPos []float64) (*Target, error) {
	t := NewTarget(name, address, nil)
	if err := t.SetStarPos(starPos); err != nil {
		return nil, err
	}
	return t, nil
}

// NewTargetFromJSON creates a target from a raw catalog system object
// (as returned by the system, sphere-systems and cube-systems endpoints).
func NewTargetFromJSON(raw []byte) (*Target, error) {
	if !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsObject() {
		return nil, shared.NewValidationError("payload", "expected a JSON object")
	}
	t := NewTarget("", nil, nil)
	t.Update(raw)
	return t, nil
}

// SetAddressText parses a textual system address.
// Non-numeric input fails here and leaves the current address untouched.
func (t *Target) SetAddressText(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		t.Address = nil
		return nil
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return shared.NewValidationErrorWithValue("address", text, "must be a 64-bit integer")
	}
	t.Address = &v
	return nil
}

// ParseTarget builds a target from user input: a system name and/or the text of a
// catalog address. Either may be empty, not both; a non-numeric address is rejected.
func ParseTarget(name, addressText string) (*Target, error) {
	t := NewTarget(strings.TrimSpace(name), nil, nil)
	if err := t.SetAddressText(addressText); err != nil {
		return nil, err
	}
	if !t.Resolvable() {
		return nil, shared.NewValidationError("name", "name or address is required")
	}
	return t, nil
}

// SetStarPos replaces the coordinate triple; nil clears it.
func (t *Target) SetStarPos(starPos []float64) error {
	if starPos == nil {
		t.Position = nil
		return nil
	}
	if len(starPos) != 3 {
		return shared.NewValidationErrorWithValue("star_pos", fmt.Sprint(starPos), "expected exactly 3 coordinates")
	}
	t.Position = &Position{X: starPos[0], Y: starPos[1], Z: starPos[2]}
	return nil
}

// StarPos returns the coordinate triple as a list, or nil when unknown
func (t *Target) StarPos() []float64 {
	if t.Position == nil {
		return nil
	}
	return []float64{t.Position.X, t.Position.Y, t.Position.Z}
}

// HasAddress reports whether the catalog address is known
func (t *Target) HasAddress() bool {
	return t.Address != nil
}

// Resolvable reports whether a lookup can be attempted at all
func (t *Target) Resolvable() bool {
	return t != nil && (t.Name != "" || t.Address != nil)
}

// StarClass returns the primary star class, if the host recorded one
func (t *Target) StarClass() string {
	if v, ok := t.Attributes[AttrStarClass].(string); ok {
		return v
	}
	return ""
}

// SetStarClass records the primary star class
func (t *Target) SetStarClass(class string) {
	t.attrs()[AttrStarClass] = class
}

// DisplayName is the label used in status lines: the name, else the address
func (t *Target) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	if t.Address != nil {
		return strconv.FormatInt(*t.Address, 10)
	}
	return ""
}

// Update merges a raw catalog payload into the target.
//
// Only fields present in the payload are touched. Coordinates are replaced only when all
// three axes are present. A "bodies" list is stored as its length. Payloads that are not
// JSON objects are ignored.
func (t *Target) Update(raw []byte) {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return
	}
	data := gjson.ParseBytes(raw)
	if !data.IsObject() {
		return
	}

	if name := data.Get("name"); name.Type == gjson.String {
		t.Name = name.String()
	}
	if id := data.Get("id64"); id.Exists() {
		switch id.Type {
		case gjson.Number:
			v := id.Int()
			t.Address = &v
		case gjson.String:
			if v, err := strconv.ParseInt(id.String(), 10, 64); err == nil {
				t.Address = &v
			}
		}
	}

	coords := data.Get("coords")
	if coords.IsObject() {
		x, y, z := coords.Get("x"), coords.Get("y"), coords.Get("z")
		if x.Type == gjson.Number && y.Type == gjson.Number && z.Type == gjson.Number {
			t.Position = &Position{X: x.Float(), Y: y.Float(), Z: z.Float()}
		}
	}

	attrs := t.attrs()
	copyThrough := map[string]string{
		"bodyCount":     AttrBodyCount,
		"coordsLocked":  AttrCoordsLocked,
		"requirePermit": AttrRequirePermit,
		"distance":      AttrDistance,
	}
	for field, key := range copyThrough {
		if v := data.Get(field); v.Exists() {
			attrs[key] = v.Value()
		}
	}
	if bodies := data.Get("bodies"); bodies.IsArray() {
		attrs[AttrBodies] = len(bodies.Array())
	}
}

func (t *Target) attrs() map[string]interface{} {
	if t.Attributes == nil {
		t.Attributes = make(map[string]interface{})
	}
	return t.Attributes
}

func (t *Target) String() string {
	address := "None"
	if t.Address != nil {
		address = strconv.FormatInt(*t.Address, 10)
	}
	return fmt.Sprintf("Target(name=%q, address=%s, starpos=%v, data=%v)", t.Name, address, t.StarPos(), t.Attributes)
}
