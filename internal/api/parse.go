package api

import (
	"bytes"
	"df-boss-monitor/internal/domain"
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"time"
)

// rawRecord mirrors one boss map entry. The endpoint mixes numbers and numeric
// strings freely, so every scalar goes through a lenient type.
type rawRecord struct {
	Locations        []rawPoint  `json:"locations"`
	SpecialEnemyType lenientText `json:"special_enemy_type"`
	StartTime        *lenientInt `json:"start_time"`
	EndTime          *lenientInt `json:"end_time"`
}

type rawPoint []lenientInt

type rawProfile struct {
	GPSCoords []lenientInt    `json:"gpscoords"`
	Override  json.RawMessage `json:"override"`
}

type rawOverride struct {
	AccountName string `json:"account_name"`
}

type lenientInt int64

func (n *lenientInt) UnmarshalJSON(b []byte) error {
	f, err := parseNumber(bytes.Trim(b, `"`))
	if err != nil {
		return err
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return fmt.Errorf("number out of range: %s", b)
	}
	*n = lenientInt(f)
	return nil
}

// parseNumber accepts finite numbers only; NaN and Inf are malformed.
func parseNumber(b []byte) (float64, error) {
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a number: %s", b)
	}
	return f, nil
}

// lenientText accepts strings, numbers and null; null, false and numeric zero become "".
type lenientText string

func (t *lenientText) UnmarshalJSON(b []byte) error {
	switch {
	case bytes.Equal(b, []byte("null")), bytes.Equal(b, []byte("false")):
		*t = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = lenientText(s)
	default:
		f, err := parseNumber(b)
		if err != nil {
			return fmt.Errorf("unexpected enemy type: %s", b)
		}
		if f == 0 {
			*t = ""
			return nil
		}
		*t = lenientText(b)
	}
	return nil
}

// ParseSnapshot decodes the boss map body. Only an undecodable body is an error;
// malformed records are skipped and counted. Records come back ordered by event id.
func ParseSnapshot(body []byte) ([]domain.SpawnRecord, int, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, 0, err
	}

	records := make([]domain.SpawnRecord, 0, len(raw))
	skipped := 0
	for _, id := range slices.Sorted(maps.Keys(raw)) {
		rec, ok := parseRecord(id, raw[id])
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

func parseRecord(id string, msg json.RawMessage) (domain.SpawnRecord, bool) {
	var r rawRecord
	if err := json.Unmarshal(msg, &r); err != nil {
		return domain.SpawnRecord{}, false
	}
	if r.StartTime == nil || r.EndTime == nil {
		return domain.SpawnRecord{}, false
	}

	locs := make([]domain.Point, 0, len(r.Locations))
	for _, p := range r.Locations {
		if len(p) < 2 {
			return domain.SpawnRecord{}, false
		}
		locs = append(locs, domain.Point{X: int(p[0]), Y: int(p[1])})
	}

	return domain.SpawnRecord{
		EventID:   id,
		EnemyType: string(r.SpecialEnemyType),
		Start:     time.Unix(int64(*r.StartTime), 0),
		End:       time.Unix(int64(*r.EndTime), 0),
		Locations: locs,
	}, true
}

// ParseProfile extracts the player's coordinates and display name.
func ParseProfile(body []byte, accountID string) (*domain.PlayerLocation, error) {
	var p rawProfile
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	if len(p.GPSCoords) < 2 {
		return nil, ErrNoLocation
	}

	username := "Unknown"
	var o rawOverride
	if len(p.Override) > 0 && json.Unmarshal(p.Override, &o) == nil && o.AccountName != "" {
		username = o.AccountName
	}

	return &domain.PlayerLocation{
		AccountID: accountID,
		Username:  username,
		Location:  domain.Point{X: int(p.GPSCoords[0]), Y: int(p.GPSCoords[1])},
	}, nil
}
