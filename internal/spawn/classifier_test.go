package spawn

import (
	"df-boss-monitor/internal/domain"
	"df-boss-monitor/internal/geo"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	bunker = domain.Point{X: 1054, Y: 987}
	now    = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
)

func testClassifier() *Classifier {
	return NewClassifier(Rules{
		MajorMinMinutes: 61,
		MajorMaxMinutes: 240,
		MinorRadius:     3,
		Bunker:          bunker,
	}, zerolog.Nop())
}

func record(id, enemy string, minutes int, locs ...domain.Point) domain.SpawnRecord {
	start := now.Add(-5 * time.Minute)
	return domain.SpawnRecord{
		EventID:   id,
		EnemyType: enemy,
		Start:     start,
		End:       start.Add(time.Duration(minutes) * time.Minute),
		Locations: locs,
	}
}

func TestClassify_MajorUsesFirstLocation(t *testing.T) {
	c := testClassifier()
	rec := record("100", "Devil Hound", 90, domain.Point{X: 1053, Y: 990}, domain.Point{X: 10, Y: 10}, domain.Point{X: 20, Y: 20})

	majors, minors := c.Classify([]domain.SpawnRecord{rec}, now)

	require.Len(t, majors, 1)
	assert.Empty(t, minors)
	assert.Equal(t, "Devil Hound", majors[0].Name)
	assert.Equal(t, "100", majors[0].ID)
	assert.Equal(t, domain.Point{X: 1053, Y: 990}, majors[0].Location)
	assert.Equal(t, 90, majors[0].DurationMinutes)
	assert.Equal(t, 3, geo.Distance(bunker, majors[0].Location))
}

func TestClassify_MajorWindowBounds(t *testing.T) {
	c := testClassifier()
	far := domain.Point{X: 1, Y: 1}

	tests := []struct {
		minutes   int
		wantMajor bool
	}{
		{60, false},
		{61, true},
		{240, true},
		{241, false},
	}

	for _, tt := range tests {
		majors, minors := c.Classify([]domain.SpawnRecord{record("1", "Boss", tt.minutes, far)}, now)
		if tt.wantMajor {
			assert.Len(t, majors, 1, "minutes=%d", tt.minutes)
		} else {
			assert.Empty(t, majors, "minutes=%d", tt.minutes)
		}
		assert.Empty(t, minors, "minutes=%d", tt.minutes)
	}
}

func TestClassify_MinorExpandsQualifyingLocations(t *testing.T) {
	c := testClassifier()
	rec := record("200", "X", 10,
		domain.Point{X: 1056, Y: 985},
		domain.Point{X: 1100, Y: 900},
		domain.Point{X: 1052, Y: 989},
	)

	majors, minors := c.Classify([]domain.SpawnRecord{rec}, now)

	assert.Empty(t, majors)
	require.Len(t, minors, 2)
	assert.Equal(t, "X #1", minors[0].Name)
	assert.Equal(t, "X #2", minors[1].Name)
	assert.Equal(t, "2右2上", minors[0].BunkerDirection)
	assert.Equal(t, "2左2下", minors[1].BunkerDirection)
	assert.Equal(t, "200_0", minors[0].ID)
	assert.Equal(t, "200_1", minors[1].ID)
	assert.Equal(t, "200", minors[1].EventID)
}

func TestClassify_SingleMinorKeepsPlainName(t *testing.T) {
	c := testClassifier()
	rec := record("201", "Y", 300, bunker, domain.Point{X: 0, Y: 0})

	_, minors := c.Classify([]domain.SpawnRecord{rec}, now)

	require.Len(t, minors, 1)
	assert.Equal(t, "Y", minors[0].Name)
	assert.Equal(t, geo.AtBunker, minors[0].BunkerDirection)
}

func TestClassify_ExtremeTimesDoNotOverflow(t *testing.T) {
	rec := domain.SpawnRecord{
		EventID:   "9",
		EnemyType: "Wraith",
		Start:     time.Unix(-(1 << 62), 0),
		End:       time.Unix(1<<62, 0),
		Locations: []domain.Point{bunker},
	}

	majors, minors := testClassifier().Classify([]domain.SpawnRecord{rec}, now)

	assert.Empty(t, majors)
	require.Len(t, minors, 1)
	assert.Positive(t, minors[0].DurationMinutes)
}

func TestClassify_Drops(t *testing.T) {
	c := testClassifier()
	expired := record("4", "Late", 90, bunker)
	expired.End = now

	records := []domain.SpawnRecord{
		record("1", "0", 10, bunker),
		record("2", "", 90, bunker),
		record("3", "NoLocations", 90),
		expired,
		record("5", "Far", 10, domain.Point{X: 1058, Y: 987}),
	}

	majors, minors := c.Classify(records, now)

	assert.Empty(t, majors)
	assert.Empty(t, minors)
}

func TestFindNearby(t *testing.T) {
	c := testClassifier()
	player := domain.Point{X: 500, Y: 500}

	records := []domain.SpawnRecord{
		record("1", "Major", 120, domain.Point{X: 501, Y: 499}),
		record("2", "Minor", 10, domain.Point{X: 503, Y: 500}, domain.Point{X: 497, Y: 503}),
		record("3", "Far", 10, domain.Point{X: 504, Y: 500}),
		record("4", "0", 10, player),
	}

	nearby := c.FindNearby(records, player, 3, now)

	require.Len(t, nearby, 3)
	assert.Equal(t, "Major", nearby[0].Name)
	assert.Equal(t, "Minor #1", nearby[1].Name)
	assert.Equal(t, "Minor #2", nearby[2].Name)
	assert.Empty(t, nearby[0].BunkerDirection)
}
