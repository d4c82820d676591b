package constants

// Fiber locals keys.
const (
	LocalsAuthUser = "authUser"
)
