package notify

import (
	"errors"
	"fmt"
)

// ErrSettingMissing means a notification setting row that the preference
// initializer guarantees was absent. That is a bug upstream, never a user
// state, so dispatch surfaces it instead of defaulting.
var ErrSettingMissing = errors.New("notification setting missing for user")

// DeviceRegistrationError is returned when the push provider rejects a device
// registration. Response carries the raw provider body for diagnostics.
type DeviceRegistrationError struct {
	Response []byte
}

func (e *DeviceRegistrationError) Error() string {
	return fmt.Sprintf("push provider rejected device registration: %s", e.Response)
}

// NotificationDeliveryError is returned when the push provider rejects a send
// request. Not retried here; the caller (normally the task queue) owns retries.
type NotificationDeliveryError struct {
	Response []byte
}

func (e *NotificationDeliveryError) Error() string {
	return fmt.Sprintf("push delivery failed: %s", e.Response)
}

// TemplateNotFoundError means the rendering step asked for a template that is
// not in the template set. A content defect, not a transient fault.
type TemplateNotFoundError struct {
	Name string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("notification template not found: %s", e.Name)
}
