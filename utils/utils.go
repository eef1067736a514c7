package utils

import (
	"fmt"
	"regexp"
	"runtime"
	"strconv"
)

var seasonPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

func ErrorWithTrace(e error) error {
	_, file, line, _ := runtime.Caller(1)
	return fmt.Errorf("%s:%d\n\t%w", file, line, e)
}

// IsInvalidSeason reports whether season is not of the form "2019-20" with
// the suffix naming the year after the prefix.
func IsInvalidSeason(season string) bool {
	m := seasonPattern.FindStringSubmatch(season)
	if m == nil {
		return true
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	return (start+1)%100 != end
}
