package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/diulnf/lostfound-api/models"
)

func TestFoundStatus_CanTransition(t *testing.T) {
	tests := []struct {
		name string
		from models.FoundStatus
		to   models.FoundStatus
		want bool
	}{
		{"reported to stored", models.FoundStatusReported, models.FoundStatusStored, true},
		{"reported to resolved skips storage", models.FoundStatusReported, models.FoundStatusResolved, false},
		{"stored to resolved", models.FoundStatusStored, models.FoundStatusResolved, true},
		{"re-store is idempotent", models.FoundStatusStored, models.FoundStatusStored, true},
		{"resolved is terminal", models.FoundStatusResolved, models.FoundStatusStored, false},
		{"resolved cannot re-resolve", models.FoundStatusResolved, models.FoundStatusResolved, false},
		{"no moving backwards", models.FoundStatusStored, models.FoundStatusReported, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestFoundStatus_Valid(t *testing.T) {
	assert.True(t, models.FoundStatusReported.Valid())
	assert.True(t, models.FoundStatusStored.Valid())
	assert.True(t, models.FoundStatusResolved.Valid())
	assert.False(t, models.FoundStatus("archived").Valid())
	assert.False(t, models.FoundStatus("").Valid())
}
