package system_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/edsm-checker-go/internal/domain/shared"
	"github.com/andrescamacho/edsm-checker-go/internal/domain/system"
)

func int64Ptr(v int64) *int64 { return &v }

func TestTarget_Update_SetsAllCoordinatesTogether(t *testing.T) {
	// Arrange
	target := system.NewTarget("Sol", nil, &system.Position{X: 1, Y: 2, Z: 3})

	// Act
	target.Update([]byte(`{"coords":{"x":10.5,"y":-20,"z":30.25}}`))

	// Assert
	require.NotNil(t, target.Position)
	assert.Equal(t, system.Position{X: 10.5, Y: -20, Z: 30.25}, *target.Position)
}

func TestTarget_Update_PartialCoordinatesLeaveTripleUnchanged(t *testing.T) {
	cases := []string{
		`{"coords":{"x":10,"y":20}}`,
		`{"coords":{"y":20,"z":30}}`,
		`{"coords":{"x":10,"z":30}}`,
		`{"coords":{"x":"10","y":20,"z":30}}`,
		`{"coords":null}`,
	}

	for _, payload := range cases {
		t.Run(payload, func(t *testing.T) {
			// Arrange
			target := system.NewTarget("Sol", nil, &system.Position{X: 1, Y: 2, Z: 3})

			// Act
			target.Update([]byte(payload))

			// Assert
			assert.Equal(t, []float64{1, 2, 3}, target.StarPos())
		})
	}
}

func TestTarget_Update_BodiesListBecomesCount(t *testing.T) {
	// Arrange
	target := system.NewTarget("Sol", nil, nil)

	// Act
	target.Update([]byte(`{"bodies":[{"id":1},{"id":2},{"id":3},{"id":4}]}`))

	// Assert
	assert.Equal(t, 4, target.Attributes[system.AttrBodies])
}

func TestTarget_Update_EmptyBodiesListIsZero(t *testing.T) {
	target := system.NewTarget("Sol", nil, nil)

	target.Update([]byte(`{"bodies":[]}`))

	assert.Equal(t, 0, target.Attributes[system.AttrBodies])
}

func TestTarget_Update_CopiesKnownAttributesVerbatim(t *testing.T) {
	// Arrange
	target := system.NewTarget("", nil, nil)

	// Act
	target.Update([]byte(`{
		"name": "Sol",
		"id64": 10477373803,
		"bodyCount": 40,
		"coordsLocked": true,
		"requirePermit": true,
		"distance": 12.5,
		"information": {"allegiance": "Federation"}
	}`))

	// Assert
	assert.Equal(t, "Sol", target.Name)
	require.NotNil(t, target.Address)
	assert.Equal(t, int64(10477373803), *target.Address)
	assert.Equal(t, float64(40), target.Attributes[system.AttrBodyCount])
	assert.Equal(t, true, target.Attributes[system.AttrCoordsLocked])
	assert.Equal(t, true, target.Attributes[system.AttrRequirePermit])
	assert.Equal(t, 12.5, target.Attributes[system.AttrDistance])
	assert.NotContains(t, target.Attributes, "information")
}

func TestTarget_Update_EmptyObjectChangesNothing(t *testing.T) {
	// Arrange
	target := system.NewTarget("Sol", int64Ptr(10477373803), &system.Position{X: 0, Y: 0, Z: 0})
	target.Attributes[system.AttrBodyCount] = float64(8)
	target.Attributes["custom"] = "kept"

	// Act
	target.Update([]byte(`{}`))

	// Assert
	assert.Equal(t, "Sol", target.Name)
	assert.Equal(t, int64(10477373803), *target.Address)
	assert.Equal(t, []float64{0, 0, 0}, target.StarPos())
	assert.Equal(t, map[string]interface{}{
		system.AttrBodyCount: float64(8),
		"custom":             "kept",
	}, target.Attributes)
}

func TestTarget_Update_NonObjectPayloadIsNoOp(t *testing.T) {
	for _, payload := range []string{``, `null`, `[]`, `[{"name":"Other"}]`, `"Sol"`, `42`, `{not json`} {
		t.Run(payload, func(t *testing.T) {
			target := system.NewTarget("Sol", int64Ptr(1), nil)

			assert.NotPanics(t, func() { target.Update([]byte(payload)) })

			assert.Equal(t, "Sol", target.Name)
			assert.Equal(t, int64(1), *target.Address)
			assert.Empty(t, target.Attributes)
		})
	}
}

func TestTarget_SetAddressText(t *testing.T) {
	target := system.NewTarget("Sol", nil, nil)

	require.NoError(t, target.SetAddressText("10477373803"))
	assert.Equal(t, int64(10477373803), *target.Address)

	err := target.SetAddressText("SOL-1")

	var validationErr *shared.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "address", validationErr.Field)
	assert.Equal(t, int64(10477373803), *target.Address, "failed assignment must not clobber the address")
}

func TestNewTargetFromStarPos_RejectsPartialTriple(t *testing.T) {
	_, err := system.NewTargetFromStarPos("Sol", nil, []float64{1, 2})
	assert.Error(t, err)

	target, err := system.NewTargetFromStarPos("Sol", nil, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, &system.Position{X: 1, Y: 2, Z: 3}, target.Position)

	target, err = system.NewTargetFromStarPos("Sol", nil, nil)
	require.NoError(t, err)
	assert.Nil(t, target.Position)
}

func TestNewTargetFromJSON(t *testing.T) {
	target, err := system.NewTargetFromJSON([]byte(`{"name":"Alpha Centauri","id64":1,"distance":4.38,"coords":{"x":3.03,"y":-0.09,"z":3.16}}`))
	require.NoError(t, err)
	assert.Equal(t, "Alpha Centauri", target.Name)
	assert.Equal(t, 4.38, target.Attributes[system.AttrDistance])
	assert.NotNil(t, target.Position)

	_, err = system.NewTargetFromJSON([]byte(`[1,2]`))
	assert.Error(t, err)
}

func TestTarget_Resolvable(t *testing.T) {
	assert.False(t, system.NewTarget("", nil, nil).Resolvable())
	assert.True(t, system.NewTarget("Sol", nil, nil).Resolvable())
	assert.True(t, system.NewTarget("", int64Ptr(42), nil).Resolvable())

	var missing *system.Target
	assert.False(t, missing.Resolvable())
}

func TestTarget_StarClass(t *testing.T) {
	target := system.NewTarget("Sol", nil, nil)
	assert.Equal(t, "", target.StarClass())

	target.SetStarClass("G")

	assert.Equal(t, "G", target.StarClass())
}

func TestParseTarget(t *testing.T) {
	target, err := system.ParseTarget(" Sol ", "10477373803")
	require.NoError(t, err)
	assert.Equal(t, "Sol", target.Name)
	require.NotNil(t, target.Address)
	assert.Equal(t, int64(10477373803), *target.Address)

	byAddress, err := system.ParseTarget("", "42")
	require.NoError(t, err)
	assert.Equal(t, "42", byAddress.DisplayName())

	_, err = system.ParseTarget("", " ")
	var verr *shared.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = system.ParseTarget("Sol", "abc")
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "address", verr.Field)
}
