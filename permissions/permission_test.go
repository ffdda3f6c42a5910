package permissions_test

import (
	"hotel/permissions"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	tests := []struct {
		name       string
		path       string
		method     string
		capability permissions.Capability
		skip       bool
	}{
		{name: "health is public", path: "/health", method: http.MethodGet, skip: true},
		{name: "subrouter index with trailing slash", path: "/v1/bookings/", method: http.MethodPost, capability: permissions.CapabilityBookingsManage},
		{name: "check in", path: "/v1/bookings/{id}/check-in", method: http.MethodPost, capability: permissions.CapabilityBookingsManage},
		{name: "image reorder", path: "/v1/rooms/{id}/images/reorder", method: http.MethodPost, capability: permissions.CapabilityRoomImagesManage},
		{name: "room delete", path: "/v1/rooms/{id}", method: http.MethodDelete, capability: permissions.CapabilityRoomsDelete},
		{name: "unknown route", path: "/v1/unknown", method: http.MethodGet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perm := data.FindPermissions(tt.path, tt.method)

			assert.Equal(t, tt.capability, perm.Capability)
			assert.Equal(t, tt.skip, perm.Skip)
		})
	}
}

func TestEveryEndpointUsesKnownCapability(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	for _, endpoint := range data.Endpoints {
		if endpoint.Capability == "" {
			continue
		}

		assert.True(t, permissions.RoleAdmin.Can(endpoint.Capability), "%s %s uses unknown capability %q", endpoint.Method, endpoint.Path, endpoint.Capability)
	}
}

func TestRoles(t *testing.T) {
	t.Run("closed role set", func(t *testing.T) {
		for _, value := range []string{"admin", "manager", "receptionist", "staff"} {
			_, ok := permissions.ParseRole(value)
			assert.True(t, ok, value)
		}

		_, ok := permissions.ParseRole("guest")
		assert.False(t, ok)

		_, ok = permissions.ParseRole("")
		assert.False(t, ok)
	})

	t.Run("capability matrix", func(t *testing.T) {
		assert.True(t, permissions.RoleAdmin.Can(permissions.CapabilityRoomsDelete))
		assert.False(t, permissions.RoleManager.Can(permissions.CapabilityRoomsDelete))
		assert.True(t, permissions.RoleManager.Can(permissions.CapabilityDiscountsManage))
		assert.True(t, permissions.RoleReceptionist.Can(permissions.CapabilityBookingsManage))
		assert.False(t, permissions.RoleReceptionist.Can(permissions.CapabilityRoomImagesManage))
		assert.True(t, permissions.RoleStaff.Can(permissions.CapabilityBookingServicesManage))
		assert.False(t, permissions.RoleStaff.Can(permissions.CapabilityPaymentsManage))
	})

	t.Run("capabilities returns a copy", func(t *testing.T) {
		caps := permissions.RoleStaff.Capabilities()
		caps[0] = permissions.CapabilityRoomsDelete

		assert.False(t, permissions.RoleStaff.Can(permissions.CapabilityRoomsDelete))
	})
}
