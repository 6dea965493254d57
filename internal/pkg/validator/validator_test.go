package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/split-the-distance/internal/pkg/errors"
)

type sample struct {
	Lat        float64 `validate:"latitude"`
	TravelMode string  `validate:"omitempty,travelmode"`
	Optimize   string  `validate:"omitempty,optimize"`
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(&sample{Lat: 40, TravelMode: "walking", Optimize: "distance"}))

	err := Validate(&sample{Lat: 100, TravelMode: "teleport"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, "latitude", appErr.Details["lat"])
	assert.Equal(t, "travelmode", appErr.Details["travelmode"])
}
