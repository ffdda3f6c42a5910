package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hotel/internal/domains/room/model"
)

func TestRecomputeRoomStatus(t *testing.T) {
	tests := []struct {
		name             string
		underMaintenance bool
		checkedIn        int
		want             model.Status
	}{
		{name: "idle room", want: model.StatusAvailable},
		{name: "guest checked in", checkedIn: 1, want: model.StatusOccupied},
		{name: "flagged for maintenance", underMaintenance: true, want: model.StatusMaintenance},
		{name: "occupied wins over maintenance", underMaintenance: true, checkedIn: 1, want: model.StatusOccupied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.RecomputeRoomStatus(tt.underMaintenance, tt.checkedIn))
		})
	}
}
