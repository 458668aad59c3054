package geodesy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePoint(t *testing.T) {
	p, err := ParsePoint("43.472300,-80.544900")
	require.NoError(t, err)
	assert.Equal(t, Point{Lat: 43.4723, Lon: -80.5449}, p)

	p, err = ParsePoint(" 1.5 , 2 ")
	require.NoError(t, err)
	assert.Equal(t, Point{Lat: 1.5, Lon: 2}, p)
}

func TestParsePoint_RoundTrip(t *testing.T) {
	points := append([]Point{{Lat: 43.47231234567891, Lon: -80.54491234567891}, {Lat: 1e-7, Lon: -1e-7}}, fixes...)
	for _, want := range points {
		got, err := ParsePoint(want.String())
		require.NoError(t, err)
		assert.Equal(t, want, got, "via %q", want.String())
	}
}

func TestPointString(t *testing.T) {
	assert.Equal(t, "43.5,-80.25", Point{Lat: 43.5, Lon: -80.25}.String())
	assert.Equal(t, "0,0", Point{}.String())
	assert.Equal(t, "0.0000001,-179.123456789", Point{Lat: 1e-7, Lon: -179.123456789}.String())
}

func TestParsePoint_Invalid(t *testing.T) {
	for _, s := range []string{"", "43.1", "a,b", "43.1,", "91,0", "0,181", "NaN,0", "1,2,3"} {
		_, err := ParsePoint(s)
		assert.ErrorIs(t, err, ErrBadCoords, "input %q", s)
	}
}
