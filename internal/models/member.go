package models

import "time"

// Membership programmes.
const (
	MembershipGeneral = "General Member"
	MembershipYouth   = "Kisan Youth Leadership Program"
)

// Member application status values.
const (
	MemberStatusPending     = "Pending"
	MemberStatusUnderReview = "Under Review"
	MemberStatusApproved    = "Approved"
	MemberStatusRejected    = "Rejected"
)

// Identity document types accepted with an application.
const (
	DocumentAadhaar    = "Aadhaar"
	DocumentPAN        = "PAN"
	DocumentRationCard = "Ration Card"
	DocumentOther      = "Other"
	DocumentNone       = "Not Provided"
)

// MemberApplication is a registration submitted by a prospective member.
// Age, Education and Experience apply to the youth programme only.
type MemberApplication struct {
	Name           string
	Village        string
	City           string
	PhoneNumber    string
	Details        string
	MembershipType string
	DocumentType   string
	DocumentName   string
	DocumentPhoto  []byte
	Age            string
	Education      string
	Experience     string
}

// IsYouth reports whether the application is for the youth programme.
func (a *MemberApplication) IsYouth() bool {
	return a.MembershipType == MembershipYouth
}

// Member is the registered member returned by the registration endpoint.
type Member struct {
	ID             string    `json:"id"`
	ApplicationID  string    `json:"applicationId"`
	Name           string    `json:"name"`
	Village        string    `json:"village"`
	City           string    `json:"city"`
	PhoneNumber    string    `json:"phoneNumber"`
	Details        string    `json:"details,omitempty"`
	MembershipType string    `json:"membershipType"`
	Age            string    `json:"age,omitempty"`
	Education      string    `json:"education,omitempty"`
	Experience     string    `json:"experience,omitempty"`
	DocumentType   string    `json:"documentType"`
	DocumentID     string    `json:"documentId,omitempty"`
	DocumentName   string    `json:"documentName,omitempty"`
	Status         string    `json:"status"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Document is an identity document photo uploaded with an application.
// Data is served by the document endpoint and never embedded in member JSON.
type Document struct {
	ID          string    `json:"id"`
	MemberID    string    `json:"memberId"`
	Name        string    `json:"name"`
	ContentType string    `json:"contentType"`
	Size        int       `json:"size"`
	Data        []byte    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ValidMemberStatus reports whether status is one of the review statuses.
func ValidMemberStatus(status string) bool {
	switch status {
	case MemberStatusPending, MemberStatusUnderReview, MemberStatusApproved, MemberStatusRejected:
		return true
	}
	return false
}

// RegistrationResult is the response body of a successful registration.
type RegistrationResult struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Member  *Member `json:"member"`
	// Strategy names the transport that produced the result.
	Strategy string `json:"-"`
}
