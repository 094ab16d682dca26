package templates

import (
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithLoginURL(url string) Option { return func(d *EmailData) { d.LoginURL = url } }

// NewBaseEmailData fills the common fields, then applies opts.
func NewBaseEmailData(siteName, typ, name, recipient string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		RecipientEmail: recipient,
		Type:           typ,
		SiteName:       siteName,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// NewMemberWelcomeData is sent to members registered by an admin. It never
// carries the password.
func NewMemberWelcomeData(siteName, name, email, loginURL string, opts ...Option) map[string]any {
	opts = append([]Option{WithLoginURL(loginURL)}, opts...)
	return ToMap(NewBaseEmailData(siteName, MemberWelcome, name, email, opts...))
}
