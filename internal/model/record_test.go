package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateRangeContains(t *testing.T) {
	r := DateRange{
		Start: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	tests := []struct {
		date time.Time
		want bool
	}{
		{time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2023, 2, 14, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC), false},
		{time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.Contains(tt.date), "Contains(%s)", tt.date.Format("2006-01-02"))
	}
}

func TestAccountIsRoot(t *testing.T) {
	assert.True(t, Account{ID: "r"}.IsRoot())
	assert.False(t, Account{ID: "a", ParentID: "r"}.IsRoot())
}
