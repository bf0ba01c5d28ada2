package game

import (
	"fmt"
	"time"
)

// FormatTime renders d as "<seconds>.<hundredths>s", truncating toward zero.
// 1234ms is "1.23s".
func FormatTime(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	return fmt.Sprintf("%d.%02ds", ms/1000, (ms%1000)/10)
}
