package plan

import (
	"strconv"
	"strings"
)

// unitSteps is the number of 1024 divisions from each unit down to GB.
var unitSteps = map[string]int{
	"GB": 0,
	"MB": 1,
	"KB": 2,
	"B":  3,
}

// SizeToGB converts a human-readable size such as "512 MB" to gigabytes,
// dividing by 1024 for each unit step below GB. Units are matched without
// regard to case. Empty or unparseable sizes, and unknown units, count as 0.
func SizeToGB(s string) float64 {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return 0
	}
	n, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0
	}
	steps, ok := unitSteps[strings.ToUpper(fields[1])]
	if !ok {
		return 0
	}
	for i := 0; i < steps; i++ {
		n /= 1024
	}
	return n
}
