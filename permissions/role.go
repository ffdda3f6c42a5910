package permissions

import "slices"

type Role string

const (
	RoleAdmin        Role = "admin"
	RoleManager      Role = "manager"
	RoleReceptionist Role = "receptionist"
	RoleStaff        Role = "staff"
)

type Capability string

const (
	CapabilityRoomsRead             Capability = "rooms.read"
	CapabilityRoomsManage           Capability = "rooms.manage"
	CapabilityRoomsDelete           Capability = "rooms.delete"
	CapabilityRoomImagesManage      Capability = "room_images.manage"
	CapabilityGuestsRead            Capability = "guests.read"
	CapabilityGuestsManage          Capability = "guests.manage"
	CapabilityBookingsRead          Capability = "bookings.read"
	CapabilityBookingsManage        Capability = "bookings.manage"
	CapabilityDiscountsRead         Capability = "discounts.read"
	CapabilityDiscountsManage       Capability = "discounts.manage"
	CapabilityServicesRead          Capability = "services.read"
	CapabilityServicesManage        Capability = "services.manage"
	CapabilityBookingServicesManage Capability = "booking_services.manage"
	CapabilityPaymentsRead          Capability = "payments.read"
	CapabilityPaymentsManage        Capability = "payments.manage"
)

var allCapabilities = []Capability{
	CapabilityRoomsRead,
	CapabilityRoomsManage,
	CapabilityRoomsDelete,
	CapabilityRoomImagesManage,
	CapabilityGuestsRead,
	CapabilityGuestsManage,
	CapabilityBookingsRead,
	CapabilityBookingsManage,
	CapabilityDiscountsRead,
	CapabilityDiscountsManage,
	CapabilityServicesRead,
	CapabilityServicesManage,
	CapabilityBookingServicesManage,
	CapabilityPaymentsRead,
	CapabilityPaymentsManage,
}

var roleCapabilities = map[Role][]Capability{
	RoleAdmin: allCapabilities,
	RoleManager: slices.DeleteFunc(slices.Clone(allCapabilities), func(c Capability) bool {
		return c == CapabilityRoomsDelete
	}),
	RoleReceptionist: {
		CapabilityRoomsRead,
		CapabilityGuestsRead,
		CapabilityGuestsManage,
		CapabilityBookingsRead,
		CapabilityBookingsManage,
		CapabilityDiscountsRead,
		CapabilityServicesRead,
		CapabilityBookingServicesManage,
		CapabilityPaymentsRead,
		CapabilityPaymentsManage,
	},
	RoleStaff: {
		CapabilityRoomsRead,
		CapabilityBookingsRead,
		CapabilityServicesRead,
		CapabilityBookingServicesManage,
	},
}

// ParseRole accepts only the closed set of staff roles.
func ParseRole(value string) (Role, bool) {
	role := Role(value)
	_, ok := roleCapabilities[role]

	return role, ok
}

func (r Role) Can(capability Capability) bool {
	return slices.Contains(roleCapabilities[r], capability)
}

func (r Role) Capabilities() []Capability {
	return slices.Clone(roleCapabilities[r])
}
