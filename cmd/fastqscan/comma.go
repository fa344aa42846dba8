package main

import "strconv"

// comma formats an int64 with thousands separators, adapted from
// sfletc-scramTrimmer's Comma helper for the CLI's summary output.
func comma(value int64) string {
	str := strconv.FormatInt(value, 10)
	result := ""
	count := 0
	for i := len(str) - 1; i >= 0; i-- {
		if count > 0 && count%3 == 0 {
			result = "," + result
		}
		result = string(str[i]) + result
		count++
	}
	return result
}
