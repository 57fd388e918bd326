// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

package config

import (
	"encoding/json"
	"errors"
	"math"
	"time"
)

// Duration is a time.Duration with JSON marshal/unmarshal using [time.ParseDuration] format.
// A JSON number is interpreted as a number of minutes.
type Duration struct {
	time.Duration
}

// Minutes returns a duration of n minutes, saturating at the limits of [time.Duration].
func Minutes(n float64) *Duration { return &Duration{Duration: minutes(n)} }

func minutes(n float64) time.Duration {
	switch d := n * float64(time.Minute); {
	case d >= math.MaxInt64:
		return math.MaxInt64
	case d <= math.MinInt64:
		return math.MinInt64
	default:
		return time.Duration(d)
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch v := v.(type) {
	case float64:
		d.Duration = minutes(v)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(v)
		return err
	default:
		return errors.New("invalid duration")
	}
}
