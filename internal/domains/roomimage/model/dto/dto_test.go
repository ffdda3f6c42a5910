package dto_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"hotel/internal/domains/roomimage/model/dto"
	"hotel/shared/failure"
)

func TestReorderRequest_Check(t *testing.T) {
	tests := []struct {
		name    string
		images  []dto.ReorderItem
		wantErr string
	}{
		{
			name:   "valid",
			images: []dto.ReorderItem{{ID: "a", Order: 1}, {ID: "b", Order: 0}},
		},
		{
			name:    "duplicate id",
			images:  []dto.ReorderItem{{ID: "a", Order: 1}, {ID: "a", Order: 2}},
			wantErr: "image a is listed more than once",
		},
		{
			name:    "duplicate order",
			images:  []dto.ReorderItem{{ID: "a", Order: 1}, {ID: "b", Order: 1}},
			wantErr: "two images cannot share the same order",
		},
		{
			name:    "negative order",
			images:  []dto.ReorderItem{{ID: "a", Order: -1}},
			wantErr: "order must be greater than or equal to 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := dto.ReorderRequest{Images: tt.images}

			err := req.Check()
			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			assert.EqualError(t, err, tt.wantErr)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestUpdateImageRequest_Check(t *testing.T) {
	order := 2
	yes, no := true, false

	assert.Error(t, (&dto.UpdateImageRequest{}).Check())
	assert.Error(t, (&dto.UpdateImageRequest{IsPrimary: &no}).Check())
	assert.NoError(t, (&dto.UpdateImageRequest{IsPrimary: &yes}).Check())
	assert.NoError(t, (&dto.UpdateImageRequest{Order: &order}).Check())
}
