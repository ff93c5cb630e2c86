package api

import (
	"df-boss-monitor/internal/domain"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSnapshot(t *testing.T) {
	body := []byte(`{
		"b-2": {"locations": [["1056", "985"], [1052, 989]], "special_enemy_type": "X", "start_time": "1748772000", "end_time": 1748772600},
		"a-1": {"locations": [[1053, 990]], "special_enemy_type": "Devil Hound", "start_time": 1748772000, "end_time": 1748777400},
		"c-3": {"locations": [], "special_enemy_type": 0, "start_time": 1, "end_time": 2},
		"d-4": {"locations": [[1]], "special_enemy_type": "Short", "start_time": 1, "end_time": 2},
		"e-5": {"locations": [[1, 2]], "special_enemy_type": "NoTimes"},
		"f-6": "not an object",
		"g-7": {"locations": [[1, 2]], "special_enemy_type": null, "start_time": 1, "end_time": "soon"},
		"h-8": {"locations": [[1, 2]], "special_enemy_type": "Boss", "start_time": "NaN", "end_time": 4102444800},
		"i-9": {"locations": [[1, 2]], "special_enemy_type": "Boss", "start_time": 1, "end_time": 1e300},
		"j-10": {"locations": [[1054, 987]], "special_enemy_type": 0.0, "start_time": 1, "end_time": 4102444800},
		"k-11": {"locations": [["Inf", 2]], "special_enemy_type": "Boss", "start_time": 1, "end_time": 2}
	}`)

	records, skipped, err := ParseSnapshot(body)
	require.NoError(t, err)

	assert.Equal(t, 7, skipped)
	require.Len(t, records, 4)

	assert.Equal(t, "a-1", records[0].EventID)
	assert.Equal(t, "Devil Hound", records[0].EnemyType)
	assert.Equal(t, []domain.Point{{X: 1053, Y: 990}}, records[0].Locations)
	assert.Equal(t, time.Unix(1748777400, 0), records[0].End)

	assert.Equal(t, "b-2", records[1].EventID)
	assert.Equal(t, []domain.Point{{X: 1056, Y: 985}, {X: 1052, Y: 989}}, records[1].Locations)
	assert.Equal(t, time.Unix(1748772000, 0), records[1].Start)

	assert.Equal(t, "c-3", records[2].EventID)
	assert.Empty(t, records[2].EnemyType)
	assert.Empty(t, records[2].Locations)

	assert.Equal(t, "j-10", records[3].EventID)
	assert.Empty(t, records[3].EnemyType)
}

func TestLenientText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"Devil Hound"`, "Devil Hound"},
		{`"0"`, "0"},
		{`0`, ""},
		{`0.0`, ""},
		{`-0`, ""},
		{`7`, "7"},
		{`null`, ""},
		{`false`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var got lenientText
			require.NoError(t, got.UnmarshalJSON([]byte(tt.in)))
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestLenientInt_RejectsNonFinite(t *testing.T) {
	for _, in := range []string{`"NaN"`, `"Inf"`, `"-Infinity"`, `1e300`, `-1e19`, `9223372036854775808`} {
		var n lenientInt
		assert.Error(t, n.UnmarshalJSON([]byte(in)), in)
	}

	var n lenientInt
	require.NoError(t, n.UnmarshalJSON([]byte(`"1748772000"`)))
	assert.Equal(t, lenientInt(1748772000), n)
}

func TestParseSnapshot_BodyError(t *testing.T) {
	_, _, err := ParseSnapshot([]byte(`<html>maintenance</html>`))
	assert.Error(t, err)
}

func TestParseProfile(t *testing.T) {
	player, err := ParseProfile([]byte(`{"gpscoords": ["1054", 987, 0], "override": {"account_name": "tommy660"}}`), "14008279")
	require.NoError(t, err)

	assert.Equal(t, "14008279", player.AccountID)
	assert.Equal(t, "tommy660", player.Username)
	assert.Equal(t, domain.Point{X: 1054, Y: 987}, player.Location)
}

func TestParseProfile_UnknownName(t *testing.T) {
	player, err := ParseProfile([]byte(`{"gpscoords": [1, 2], "override": []}`), "1")
	require.NoError(t, err)
	assert.Equal(t, "Unknown", player.Username)
}

func TestParseProfile_NoLocation(t *testing.T) {
	for _, body := range []string{`{}`, `{"gpscoords": [5]}`} {
		_, err := ParseProfile([]byte(body), "1")
		assert.True(t, errors.Is(err, ErrNoLocation), body)
	}

	_, err := ParseProfile([]byte(`nope`), "1")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoLocation))
}
