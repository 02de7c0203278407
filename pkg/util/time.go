package util

import (
	"strconv"
	"strings"
	"time"
)

// ParseDuration parses a duration string, supporting a "d" (day) suffix
// in addition to the units understood by time.ParseDuration.
// ParseDuration 解析时长字符串，在 time.ParseDuration 基础上额外支持 "d"（天）后缀
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "d") {
		daysStr := strings.TrimSuffix(s, "d")
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return 0, err
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	// If it is pure numbers, default to seconds
	// 如果是纯数字，默认为秒
	if _, err := strconv.Atoi(s); err == nil {
		s += "s"
	}
	return time.ParseDuration(s)
}
