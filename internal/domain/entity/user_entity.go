package entity

// User is the aggregate root for the member domain.
// Password holds the bcrypt hash, never the plain text.
// AccessToken is issued once at creation and never changes.
type User struct {
	ID          string
	Name        string
	Email       string
	Password    string
	AccessToken string
	IsAdmin     bool
}
