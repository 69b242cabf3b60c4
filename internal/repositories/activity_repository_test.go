// file: internal/repositories/activity_repository_test.go
package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHourWindowClauseWithinSameDay(t *testing.T) {
	clause := hourWindowClause(9, 17)
	assert.Equal(t,
		`EXTRACT(HOUR FROM created_at) >= $2 AND EXTRACT(HOUR FROM created_at) < $3`,
		clause)
}

func TestHourWindowClauseWrapsPastMidnight(t *testing.T) {
	// With $2=23 and $3=1 this must admit hour 23 (first disjunct) and
	// hour 0 (second disjunct) while rejecting hour 2, which takes an OR
	// over the two day edges rather than a single range.
	clause := hourWindowClause(23, 1)
	assert.Equal(t,
		`(EXTRACT(HOUR FROM created_at) >= $2 OR EXTRACT(HOUR FROM created_at) < $3)`,
		clause)
}

func TestHourWindowClauseEmptyWindow(t *testing.T) {
	// Equal bounds form an empty half-open range, not a full wrap.
	clause := hourWindowClause(4, 4)
	assert.Equal(t,
		`EXTRACT(HOUR FROM created_at) >= $2 AND EXTRACT(HOUR FROM created_at) < $3`,
		clause)
}
