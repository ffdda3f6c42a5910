package s3

import (
	"errors"
	"fmt"
	"hotel/config"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "no such key", err: &types.NoSuchKey{}, want: true},
		{name: "head not found", err: &types.NotFound{}, want: true},
		{name: "wrapped generic api error", err: fmt.Errorf("delete: %w", &smithy.GenericAPIError{Code: "NoSuchKey"}), want: true},
		{name: "access denied", err: &smithy.GenericAPIError{Code: "AccessDenied"}, want: false},
		{name: "plain error", err: errors.New("timeout"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNotFound(tt.err))
		})
	}
}

func TestKeyFromURL(t *testing.T) {
	cfg := &config.Config{}
	cfg.External.S3.PublicDomain = "https://cdn.hotel.test/"
	cfg.External.S3.APIEndpoint = "https://s3.hotel.test"
	cfg.External.S3.BucketName = "rooms"

	svc := &s3Impl{Config: cfg}

	assert.Equal(t, "room_images/abc.jpg", svc.KeyFromURL("https://cdn.hotel.test/room_images/abc.jpg"))
	assert.Equal(t, "room_images/abc.jpg", svc.KeyFromURL("https://s3.hotel.test/rooms/room_images/abc.jpg"))
	assert.Empty(t, svc.KeyFromURL("https://elsewhere.test/abc.jpg"))
}
