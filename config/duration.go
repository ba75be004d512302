package config

import (
	"encoding/json"
	"fmt"
	"time"
)

// Seconds is a time.Duration that (de)serialises as a plain float number
// of seconds, matching the units the INI tuning options are documented
// in (spec.md table: "RTT and timing scalars ... seconds unless noted").
type Seconds time.Duration

// UnmarshalJSON accepts either a float (seconds) or a Go duration string
// ("3s", "200ms"), so diagnostics dumps stay readable without forcing
// every caller through time.ParseDuration.
func (s *Seconds) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*s = Seconds(time.Duration(f * float64(time.Second)))
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		d, err := time.ParseDuration(str)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", str, err)
		}
		*s = Seconds(d)
		return nil
	}

	return fmt.Errorf("duration must be a number of seconds or a duration string")
}

// MarshalJSON renders the duration as a float number of seconds.
func (s Seconds) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(s).Seconds())
}

// Duration returns the underlying time.Duration.
func (s Seconds) Duration() time.Duration { return time.Duration(s) }

func (s Seconds) String() string { return time.Duration(s).String() }
