package ranking

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinytelemetry/pairs/internal/model"
)

func TestEncodeFormat(t *testing.T) {
	data, err := Encode([]model.RankingEntry{
		{Name: "alice", Time: 1234 * time.Millisecond, Date: time.Date(2026, 3, 1, 12, 0, 0, 5e6, time.UTC)},
	})
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "alice", raw[0]["name"])
	assert.EqualValues(t, 1234, raw[0]["time"])
	assert.Equal(t, "2026-03-01T12:00:00.005Z", raw[0]["date"])
}

func TestDecodeRoundTripOrder(t *testing.T) {
	in := []model.RankingEntry{
		{Name: "slow", Time: 9 * time.Second, Date: day},
		{Name: "fast", Time: 2 * time.Second, Date: day},
	}
	data, err := Encode(in)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	want := []model.RankingEntry{in[1], in[0]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decoded mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":      `{{`,
		"object":        `{"name":"a"}`,
		"blank name":    `[{"name":" ","time":1,"date":"2026-03-01T12:00:00.000Z"}]`,
		"negative time": `[{"name":"a","time":-1,"date":"2026-03-01T12:00:00.000Z"}]`,
		"bad date":      `[{"name":"a","time":1,"date":"yesterday"}]`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(payload))
			assert.True(t, errors.Is(err, model.ErrMalformedRankings), "got %v", err)
		})
	}
}

func TestDecodeEmptyList(t *testing.T) {
	got, err := Decode([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, got)
}
