// Package spicetime implements the ET/UTC time codec: ISO-8601 parsing,
// formatted output, and the J2000 TDB anchor (spec §4.3). Calendar<->Julian
// Day conversion is delegated to github.com/soniakeys/meeus/v3/julian, the
// same library used elsewhere in this module family for reference-time
// decoding.
package spicetime

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/soniakeys/meeus/v3/julian"
)

// J2000JD is the Julian Day of the J2000 TDB epoch
// (2000-01-01T12:00:00 TDB), treated as UTC by this toy codec (spec §3, §4.3).
const J2000JD = 2451545.0

// ParseError reports an ISO-8601 string this codec cannot parse
// (spec §7: domain.parse).
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("spicetime: cannot parse %q as ISO-8601 UTC", e.Input)
}

var isoPattern = regexp.MustCompile(
	`^(\d{4})-(\d{2})-(\d{2})T(\d{2}):(\d{2}):(\d{2})(\.\d+)?(Z|[+-]\d{2}:\d{2})$`,
)

// StringToET parses an ISO-8601/RFC3339 UTC timestamp
// (YYYY-MM-DDTHH:MM:SS[.fff](Z|+-HH:MM)) into ephemeris time: seconds past
// the J2000 TDB epoch.
func StringToET(s string) (float64, error) {
	m := isoPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, &ParseError{Input: s}
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])
	second, _ := strconv.Atoi(m[6])

	frac := 0.0
	if m[7] != "" {
		frac, _ = strconv.ParseFloat(m[7], 64)
	}

	offsetSeconds, err := parseOffset(m[8])
	if err != nil {
		return 0, &ParseError{Input: s}
	}

	dayFrac := (float64(hour)*3600 + float64(minute)*60 + float64(second) + frac - float64(offsetSeconds)) / 86400.0
	jd := julian.CalendarGregorianToJD(year, month, float64(day)+dayFrac)

	return (jd - J2000JD) * 86400.0, nil
}

func parseOffset(tz string) (int, error) {
	if tz == "Z" {
		return 0, nil
	}
	if len(tz) != 6 {
		return 0, errors.New("spicetime: malformed offset")
	}
	sign := 1
	if tz[0] == '-' {
		sign = -1
	}
	hh, err := strconv.Atoi(tz[1:3])
	if err != nil {
		return 0, err
	}
	mm, err := strconv.Atoi(tz[4:6])
	if err != nil {
		return 0, err
	}
	return sign * (hh*3600 + mm*60), nil
}

// ETToUTC renders et as an ISO-8601 UTC string
// "YYYY-MM-DDTHH:MM:SS[.fff...]Z" at the given fractional-second precision,
// prec in [0, 12]. format is accepted for interface symmetry with CSPICE's
// et2utc but only "ISOC" is meaningful in the reference (spec §4.3).
func ETToUTC(et float64, format string, prec int) (string, error) {
	if prec < 0 || prec > 12 {
		return "", fmt.Errorf("spicetime: precision %d out of range [0,12]", prec)
	}

	jd := et/86400.0 + J2000JD
	year, month, dayFrac := julian.JDToCalendar(jd)

	day := int(dayFrac)
	fracOfDay := dayFrac - float64(day)

	totalSeconds := fracOfDay * 86400.0
	// Round at the requested precision before splitting into h/m/s so that
	// e.g. 59.9996s at prec=3 rounds up into the next minute correctly.
	scale := math.Pow10(prec)
	roundedTotal := math.Round(totalSeconds*scale) / scale

	if roundedTotal >= 86400.0 {
		// Rounding pushed past the end of the day: re-derive the calendar
		// date from the rounded Julian Day itself (rather than bumping day
		// in place) so month/year boundaries roll over correctly, e.g.
		// 2024-01-31 rounding up becomes 2024-02-01, not 2024-01-32.
		rolledJD := jd + (roundedTotal-totalSeconds)/86400.0
		year, month, dayFrac = julian.JDToCalendar(rolledJD)
		day = int(dayFrac)
		fracOfDay = dayFrac - float64(day)
		roundedTotal = math.Round(fracOfDay*86400.0*scale) / scale
	}

	hour := int(roundedTotal / 3600)
	roundedTotal -= float64(hour) * 3600
	minute := int(roundedTotal / 60)
	roundedTotal -= float64(minute) * 60
	second := roundedTotal

	secWhole := int(second)
	secFrac := second - float64(secWhole)

	base := fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d", year, month, day, hour, minute, secWhole)
	if prec == 0 {
		return base + "Z", nil
	}
	fracStr := strconv.FormatFloat(secFrac, 'f', prec, 64)
	// FormatFloat renders "0.123"; drop the leading "0" to append ".123".
	return base + fracStr[1:] + "Z", nil
}

// Timout renders et using the same ISO form as ETToUTC at fixed precision 3.
// Real SPICE picture-formatting (arbitrary "YYYY Mon DD HR:MN:SC" templates)
// is out of scope (spec §4.3, §1 Non-goals).
func Timout(et float64, picture string) (string, error) {
	return ETToUTC(et, "ISOC", 3)
}
