package ranking

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tinytelemetry/pairs/internal/model"
)

// DateLayout is ISO-8601 in UTC with millisecond precision.
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

type wireEntry struct {
	Name string `json:"name"`
	Time int64  `json:"time"`
	Date string `json:"date"`
}

// Encode renders entries in the persisted format: an ordered list of
// {name, time in ms, ISO-8601 date}.
func Encode(entries []model.RankingEntry) ([]byte, error) {
	out := make([]wireEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, wireEntry{
			Name: e.Name,
			Time: e.Time.Milliseconds(),
			Date: e.Date.UTC().Format(DateLayout),
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

// Decode parses the persisted format. Any invalid entry makes the whole
// payload malformed. The result is sorted and truncated.
func Decode(data []byte) ([]model.RankingEntry, error) {
	var in []wireEntry
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedRankings, err)
	}

	entries := make([]model.RankingEntry, 0, len(in))
	for i, w := range in {
		if strings.TrimSpace(w.Name) == "" {
			return nil, fmt.Errorf("%w: entry %d has no name", model.ErrMalformedRankings, i)
		}
		if w.Time < 0 {
			return nil, fmt.Errorf("%w: entry %d has negative time", model.ErrMalformedRankings, i)
		}
		date, err := time.Parse(time.RFC3339Nano, w.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d date: %v", model.ErrMalformedRankings, i, err)
		}
		entries = append(entries, model.RankingEntry{
			Name: clampName(w.Name),
			Time: time.Duration(w.Time) * time.Millisecond,
			Date: date,
		})
	}
	return normalize(entries), nil
}
