package wtransfer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

const dateFormat = "2006-01-02 15:04:05"

// ParseEpoch reads either a Julian date (e.g. "2461041.5") or a UTC date.
func ParseEpoch(s string) (time.Time, error) {
	if jd, err := strconv.ParseFloat(s, 64); err == nil {
		return julian.JDToTime(jd).UTC(), nil
	}
	for _, layout := range []string{time.RFC3339, dateFormat, "2006-01-02"} {
		if dt, err := time.Parse(layout, s); err == nil {
			return dt.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("could not parse epoch `%s`: expected a Julian date, RFC3339 or %s", s, dateFormat)
}

// Epoch returns the calendar date reached t normalized time units after departure.
func (c Constants) Epoch(departure time.Time, t float64) time.Time {
	return departure.Add(time.Duration(c.Days(t) * 24 * float64(time.Hour)))
}

// WriteCSV writes the samples of res as CSV records of t, days, x, y, r and,
// if departure is set, the Julian date of each sample.
func WriteCSV(w io.Writer, res TransferResult, c Constants, departure time.Time) error {
	dated := !departure.IsZero()
	cw := csv.NewWriter(w)
	hdr := []string{"t", "days", "x", "y", "r"}
	if dated {
		hdr = append(hdr, "jd")
	}
	if err := cw.Write(hdr); err != nil {
		return err
	}
	record := make([]string, len(hdr))
	for _, s := range res.Samples {
		record[0] = strconv.FormatFloat(s.T, 'f', 6, 64)
		record[1] = strconv.FormatFloat(c.Days(s.T), 'f', 4, 64)
		record[2] = strconv.FormatFloat(s.X, 'f', 8, 64)
		record[3] = strconv.FormatFloat(s.Y, 'f', 8, 64)
		record[4] = strconv.FormatFloat(s.R(), 'f', 8, 64)
		if dated {
			record[5] = strconv.FormatFloat(julian.TimeToJD(c.Epoch(departure, s.T)), 'f', 5, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
