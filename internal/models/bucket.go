// internal/models/bucket.go
package models

import (
	"fmt"
	"strings"
	"time"
)

// WeekdayBucket is the day granularity at which prices and recurring blocks vary.
type WeekdayBucket string

const (
	BucketWeekdays WeekdayBucket = "weekdays"
	BucketSaturday WeekdayBucket = "saturday"
	BucketSunday   WeekdayBucket = "sunday"
)

var weekdayBuckets = []WeekdayBucket{BucketWeekdays, BucketSaturday, BucketSunday}

func WeekdayBuckets() []WeekdayBucket {
	return append([]WeekdayBucket(nil), weekdayBuckets...)
}

// BucketFor maps a civil date to its bucket.
func BucketFor(date time.Time) WeekdayBucket {
	switch date.Weekday() {
	case time.Saturday:
		return BucketSaturday
	case time.Sunday:
		return BucketSunday
	default:
		return BucketWeekdays
	}
}

func ParseWeekdayBucket(value string) (WeekdayBucket, error) {
	bucket := WeekdayBucket(strings.ToLower(strings.TrimSpace(value)))
	if !bucket.Valid() {
		return "", fmt.Errorf("weekday bucket must be one of weekdays, saturday, sunday")
	}
	return bucket, nil
}

func (b WeekdayBucket) Valid() bool {
	switch b {
	case BucketWeekdays, BucketSaturday, BucketSunday:
		return true
	}
	return false
}

// Order sorts buckets in calendar order for change listings.
func (b WeekdayBucket) Order() int {
	for i, bucket := range weekdayBuckets {
		if bucket == b {
			return i
		}
	}
	return len(weekdayBuckets)
}
