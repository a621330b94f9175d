package inquiry

import "time"

// Inquiry is a sponsorship request submitted through one of the site forms.
type Inquiry struct {
	ID        string    `json:"id" bson:"id"`
	FirstName string    `json:"firstName" bson:"firstName"`
	LastName  string    `json:"lastName" bson:"lastName"`
	Company   string    `json:"company" bson:"company"`
	Email     string    `json:"email" bson:"email"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Message   string    `json:"message,omitempty" bson:"message,omitempty"`
	Source    string    `json:"source" bson:"source"`
	ClientIP  string    `json:"-" bson:"clientIp,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	Forwarded bool      `json:"forwarded" bson:"forwarded"`
}
