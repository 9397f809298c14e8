package domain

import "time"

type Gender string

const (
	GenderMan       Gender = "man"
	GenderWoman     Gender = "woman"
	GenderNonBinary Gender = "non-binary"
)

type GenderPreference string

const (
	PreferMen      GenderPreference = "men"
	PreferWomen    GenderPreference = "women"
	PreferEveryone GenderPreference = "everyone"
)

// TargetGender maps a preference onto the candidate gender it selects.
// The second result is false when no gender filter applies.
func (p GenderPreference) TargetGender() (Gender, bool) {
	switch p {
	case PreferMen:
		return GenderMan, true
	case PreferWomen:
		return GenderWoman, true
	}
	return "", false
}

type User struct {
	ID                  int               `json:"id" db:"id"`
	Email               *string           `json:"email,omitempty" db:"email"`
	FirstName           *string           `json:"first_name" db:"first_name"`
	LastName            *string           `json:"last_name" db:"last_name"`
	ProfileImageURL     *string           `json:"profile_image_url" db:"profile_image_url"`
	Bio                 *string           `json:"bio" db:"bio"`
	Age                 *int              `json:"age" db:"age"`
	Location            *string           `json:"location" db:"location"`
	Gender              *Gender           `json:"gender" db:"gender"`
	GenderPreference    *GenderPreference `json:"gender_preference" db:"gender_preference"`
	OnboardingCompleted bool              `json:"onboarding_completed" db:"onboarding_completed"`
	CreatedAt           time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at" db:"updated_at"`
}

// PublicProfile is what other users may see about a user.
type PublicProfile struct {
	ID              int     `json:"id"`
	FirstName       *string `json:"first_name"`
	LastName        *string `json:"last_name"`
	ProfileImageURL *string `json:"profile_image_url"`
	Bio             *string `json:"bio"`
	Age             *int    `json:"age"`
	Location        *string `json:"location"`
	Gender          *Gender `json:"gender"`
}

func (u *User) PublicProfile() *PublicProfile {
	return &PublicProfile{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		ProfileImageURL: u.ProfileImageURL,
		Bio:             u.Bio,
		Age:             u.Age,
		Location:        u.Location,
		Gender:          u.Gender,
	}
}

// CandidateFilter narrows discovery queries.
type CandidateFilter struct {
	Gender *Gender
}

// CandidateFilterFor builds the discovery filter from the requester's preference.
func CandidateFilterFor(u *User) CandidateFilter {
	var f CandidateFilter
	if u.GenderPreference == nil {
		return f
	}
	if g, ok := u.GenderPreference.TargetGender(); ok {
		f.Gender = &g
	}
	return f
}
