package integration_test

import (
	"strconv"
	"strings"
)

// reportValue parses the value in front of the colon of a report line.
func reportValue(line string) (int64, error) {
	head, _, _ := strings.Cut(line, ":")
	return strconv.ParseInt(head, 10, 64)
}
