package history

import (
	"fmt"
	"strings"
	"time"
)

// Trend is the delta between the two most recent runs of a project.
type Trend struct {
	Current      Snapshot
	Previous     Snapshot
	HasPrevious  bool
	MissingDelta int
	UnusedDelta  int
}

// ComputeTrend loads the run history and compares the newest snapshot
// against its predecessor. With fewer than one run it returns an
// error; with exactly one, HasPrevious is false.
func (s *Store) ComputeTrend(projectKey string) (Trend, error) {
	snapshots, err := s.LoadSnapshots(projectKey, time.Time{})
	if err != nil {
		return Trend{}, err
	}
	if len(snapshots) == 0 {
		return Trend{}, fmt.Errorf("no recorded runs for project %q", projectKey)
	}

	trend := Trend{Current: snapshots[len(snapshots)-1]}
	if len(snapshots) < 2 {
		return trend, nil
	}

	trend.Previous = snapshots[len(snapshots)-2]
	trend.HasPrevious = true
	trend.MissingDelta = trend.Current.MissingCount - trend.Previous.MissingCount
	trend.UnusedDelta = trend.Current.UnusedCount - trend.Previous.UnusedCount
	return trend, nil
}

// Format renders the trend as console lines.
func (t Trend) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Latest run %s (%s): %d missing, %d unused, %d files\n",
		t.Current.RunID,
		t.Current.Timestamp.Format(time.RFC3339),
		t.Current.MissingCount,
		t.Current.UnusedCount,
		t.Current.FilesScanned,
	)
	if !t.HasPrevious {
		b.WriteString("No previous run to compare against.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Missing: %s   Unused: %s\n", formatDelta(t.MissingDelta), formatDelta(t.UnusedDelta))
	return b.String()
}

func formatDelta(delta int) string {
	switch {
	case delta > 0:
		return fmt.Sprintf("+%d", delta)
	case delta < 0:
		return fmt.Sprintf("%d", delta)
	default:
		return "±0"
	}
}
