package session

import "time"

// Clock 抽象时间来源，便于测试注入假时钟。
type Clock interface {
	Now() time.Time
}

// RealClock 使用系统时钟。
type RealClock struct{}

// Now 返回当前系统时间。
func (RealClock) Now() time.Time {
	return time.Now()
}
