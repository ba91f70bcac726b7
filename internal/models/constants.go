package models

const (
	// DeviceTypeIOS is sent with login/register so the backend knows
	// which push channel the client's notification token belongs to.
	DeviceTypeIOS = 1

	// DefaultRole is the account role requested when registering.
	DefaultRole = 10

	// ReservationDateLayout is the backend's reservation timestamp format.
	ReservationDateLayout = "2006-01-02 15:04:05"

	// DefaultTimeZone is the zone reservation timestamps are formatted in.
	DefaultTimeZone = "Europe/Madrid"

	// DefaultNoPeople is the party size a new booking draft starts with.
	DefaultNoPeople = 1
)

// Local storage keys for the persisted token stores.
const (
	AccountTokenKey = "account_token"
	PushTokenKey    = "push_token"
)
