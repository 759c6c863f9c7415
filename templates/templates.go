// Package templates embeds the notification message templates. Channel
// directories live under notifications/<push|email>; file names match
// notification type slugs unless a notification carries an override.
package templates

import "embed"

//go:embed notifications
var FS embed.FS
