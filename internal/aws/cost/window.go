package cost

import "time"

const dateLayout = "2006-01-02"

// ReportingWindow is a closed range of calendar dates, always one full month.
type ReportingWindow struct {
	Start time.Time
	End   time.Time
}

// PreviousMonth returns the calendar month before the month containing now.
// The day-of-month of now does not matter.
func PreviousMonth(now time.Time) ReportingWindow {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := firstOfMonth.AddDate(0, 0, -1)
	start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	return ReportingWindow{Start: start, End: end}
}

// QueryEnd is the exclusive end date Cost Explorer expects for this window.
func (w ReportingWindow) QueryEnd() time.Time {
	return w.End.AddDate(0, 0, 1)
}

func (w ReportingWindow) StartDate() string { return w.Start.Format(dateLayout) }

func (w ReportingWindow) EndDate() string { return w.End.Format(dateLayout) }

func (w ReportingWindow) String() string {
	return w.StartDate() + " - " + w.EndDate()
}

// MarshalYAML keeps the window readable in --output yaml.
func (w ReportingWindow) MarshalYAML() (any, error) {
	return map[string]string{"start": w.StartDate(), "end": w.EndDate()}, nil
}

func (w ReportingWindow) MarshalJSON() ([]byte, error) {
	return []byte(`{"start":"` + w.StartDate() + `","end":"` + w.EndDate() + `"}`), nil
}
