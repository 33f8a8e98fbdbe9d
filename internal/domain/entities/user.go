package entities

import "time"

// Profile field keys as stored in the users collection.
const (
	ProfileFirstName          = "firstName"
	ProfileLastName           = "lastName"
	ProfileEmail              = "email"
	ProfilePhone              = "phoneNo"
	ProfileGender             = "gender"
	ProfileAge                = "age"
	ProfileCarModel           = "carModel"
	ProfileCarNumber          = "carNumber"
	ProfileRegistrationNumber = "registrationNumber"
	ProfileAadharNumber       = "aadharNumber"
	ProfileDescription        = "description"
)

// ProfileFields is a user's editable profile. Any key may be absent; profiles
// are filled in gradually and an incomplete one is still a valid profile.
type ProfileFields map[string]string

// User is the authenticated caller as the identity provider sees it.
type User struct {
	ID        string        `json:"id"`
	Profile   ProfileFields `json:"profile"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewUser creates a User with a copy of profile.
func NewUser(id string, profile ProfileFields) *User {
	cp := make(ProfileFields, len(profile))
	for k, v := range profile {
		cp[k] = v
	}
	return &User{
		ID:        id,
		Profile:   cp,
		UpdatedAt: time.Now(),
	}
}

// ContactProfile is the denormalized owner profile stored on a ride record.
// Driver-only fields (car, registration) are empty for passengers who never
// filled them in.
type ContactProfile struct {
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Gender             string `json:"gender"`
	Age                string `json:"age"`
	CarModel           string `json:"car_model"`
	CarNumber          string `json:"car_number"`
	RegistrationNumber string `json:"registration_number"`
	AadharNumber       string `json:"aadhar_number"`
	Description        string `json:"description"`
}

// SnapshotContactProfile copies the user's current profile into a value that
// shares nothing with it. Missing fields become "".
func SnapshotContactProfile(u *User) ContactProfile {
	if u == nil {
		return ContactProfile{}
	}
	// Indexing a nil or sparse map yields "", which is the fallback we want.
	p := u.Profile
	return ContactProfile{
		FirstName:          p[ProfileFirstName],
		LastName:           p[ProfileLastName],
		Email:              p[ProfileEmail],
		Phone:              p[ProfilePhone],
		Gender:             p[ProfileGender],
		Age:                p[ProfileAge],
		CarModel:           p[ProfileCarModel],
		CarNumber:          p[ProfileCarNumber],
		RegistrationNumber: p[ProfileRegistrationNumber],
		AadharNumber:       p[ProfileAadharNumber],
		Description:        p[ProfileDescription],
	}
}
