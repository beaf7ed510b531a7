package systemd

import (
	"errors"
	"strings"

	godbus "github.com/godbus/dbus/v5"
)

var permissionErrors = map[string]struct{}{
	"org.freedesktop.DBus.Error.AccessDenied":                      {},
	"org.freedesktop.DBus.Error.InteractiveAuthorizationRequired": {},
	"org.freedesktop.systemd1.AccessDenied":                        {},
}

// IsPermissionError reports whether err was caused by missing privileges on
// the bus.
func IsPermissionError(err error) bool {
	if err == nil {
		return false
	}
	var busErr godbus.Error
	if errors.As(err, &busErr) {
		if _, ok := permissionErrors[busErr.Name]; ok {
			return true
		}
	}
	var busErrPtr *godbus.Error
	if errors.As(err, &busErrPtr) && busErrPtr != nil {
		if _, ok := permissionErrors[busErrPtr.Name]; ok {
			return true
		}
	}
	msg := err.Error()
	return strings.Contains(msg, "AccessDenied") ||
		strings.Contains(msg, "Access denied") ||
		strings.Contains(msg, "InteractiveAuthorizationRequired")
}
