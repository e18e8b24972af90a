package mstime

import "time"

const (
	nanosecondsInMillisecond = int64(time.Millisecond / time.Nanosecond)
	millisecondsInSecond     = int64(time.Second / time.Millisecond)
)

// Now returns the current local time, with precision reduced to milliseconds.
func Now() time.Time {
	return ReduceToMillisecondPrecision(time.Now())
}

// UnixMilliToTime converts the given number of milliseconds since the Unix
// epoch to a time.Time.
func UnixMilliToTime(ms int64) time.Time {
	seconds := ms / millisecondsInSecond
	nanoseconds := (ms - seconds*millisecondsInSecond) * nanosecondsInMillisecond
	return time.Unix(seconds, nanoseconds)
}

// TimeToUnixMilli converts the given time to the number of milliseconds
// since the Unix epoch.
func TimeToUnixMilli(t time.Time) int64 {
	return t.UnixNano() / nanosecondsInMillisecond
}

// ReduceToMillisecondPrecision truncates any sub-millisecond precision off
// the given time.
func ReduceToMillisecondPrecision(t time.Time) time.Time {
	nanoseconds := (int64(t.Nanosecond()) / nanosecondsInMillisecond) * nanosecondsInMillisecond
	return time.Unix(t.Unix(), nanoseconds)
}
