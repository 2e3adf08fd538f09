package pricing

import (
	"fmt"
	"sort"

	"github.com/codr1/courtside/internal/models"
)

type slotKey struct {
	bucket models.WeekdayBucket
	start  models.TimeOfDay
}

// Diff describes how newRules differ from oldRules for one court type. Rules
// are compared by bucket and start time; output is ordered by bucket then time.
func Diff(oldRules, newRules []models.PriceRule) []string {
	before := indexRules(oldRules)
	after := indexRules(newRules)

	keys := make([]slotKey, 0, len(before)+len(after))
	for key := range before {
		keys = append(keys, key)
	}
	for key := range after {
		if _, ok := before[key]; !ok {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].bucket != keys[j].bucket {
			return keys[i].bucket.Order() < keys[j].bucket.Order()
		}
		return keys[i].start < keys[j].start
	})

	var changes []string
	for _, key := range keys {
		oldRule, hadOld := before[key]
		newRule, hasNew := after[key]
		switch {
		case hadOld && hasNew:
			if oldRule.Amount != newRule.Amount {
				changes = append(changes, fmt.Sprintf("%s %s: %d -> %d", key.bucket, key.start, oldRule.Amount, newRule.Amount))
			}
		case hasNew:
			changes = append(changes, fmt.Sprintf("%s %s: added at %d", key.bucket, key.start, newRule.Amount))
		default:
			changes = append(changes, fmt.Sprintf("%s %s: removed (was %d)", key.bucket, key.start, oldRule.Amount))
		}
	}
	return changes
}

func indexRules(rules []models.PriceRule) map[slotKey]models.PriceRule {
	index := make(map[slotKey]models.PriceRule, len(rules))
	for _, rule := range rules {
		index[slotKey{bucket: rule.Bucket, start: rule.Start}] = rule
	}
	return index
}
