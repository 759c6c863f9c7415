package domain

// Notification type slugs. Seeded at startup; per-user settings are created
// from whatever types exist at user-creation time.
const (
	NotificationFollow  = "follow"
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationMention = "mention"
)

// Delivery channels.
const (
	ChannelPush  = "push"
	ChannelEmail = "email"
)

// Device platforms accepted at registration.
const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
)

// Push backend selectors.
const (
	BackendPushwoosh = "pushwoosh"
	BackendFCM       = "fcm"
)

// Subject type tags for the polymorphic notification subject.
const (
	SubjectPost    = "post"
	SubjectComment = "comment"
	SubjectUser    = "user"
)
