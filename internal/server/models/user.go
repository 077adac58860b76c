// Package models defines server-side data models persisted by the repositories.
package models

import "time"

// Gender values accepted by the directory.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Profile defaults applied at registration.
const (
	DefaultAbout      = "I am a developer"
	DefaultProfilePic = "https://t4.ftcdn.net/jpg/00/64/67/27/360_F_64672736_U5kpdGs9keUll8CRQ3p3YaEv2M6qkVY5.jpg"
	MaxSkills         = 5
)

type User struct {
	ID           string    `bson:"_id"`
	FirstName    string    `bson:"first_name"`
	LastName     string    `bson:"last_name"`
	Email        string    `bson:"email"`
	PasswordHash []byte    `bson:"password_hash"`
	Gender       string    `bson:"gender"`
	About        string    `bson:"about"`
	Skills       []string  `bson:"skills"`
	ProfilePic   string    `bson:"profile_pic"`
	PhotoKey     string    `bson:"photo_key,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

// Mini strips the user down to the public projection used in lists.
func (u *User) Mini() UserMini {
	return UserMini{
		ID:         u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Gender:     u.Gender,
		About:      u.About,
		Skills:     u.Skills,
		ProfilePic: u.ProfilePic,
		PhotoKey:   u.PhotoKey,
		CreatedAt:  u.CreatedAt,
	}
}

// UserMini is the public projection of a user.
type UserMini struct {
	ID         string    `bson:"_id"`
	FirstName  string    `bson:"first_name"`
	LastName   string    `bson:"last_name"`
	Gender     string    `bson:"gender"`
	About      string    `bson:"about"`
	Skills     []string  `bson:"skills"`
	ProfilePic string    `bson:"profile_pic"`
	PhotoKey   string    `bson:"photo_key,omitempty"`
	CreatedAt  time.Time `bson:"created_at"`
}

// UserFilter narrows a directory query. ExcludeIDs is always honoured;
// Gender and Skill are optional.
type UserFilter struct {
	ExcludeIDs []string
	Gender     string
	Skill      string
}

// ProfileUpdate is the closed set of fields a user may change on their own
// profile. Nil fields are left as they are.
type ProfileUpdate struct {
	FirstName    *string
	LastName     *string
	PasswordHash []byte
	ProfilePic   *string
	About        *string
	Skills       *[]string
}

// Empty reports whether the update changes nothing.
func (u ProfileUpdate) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.PasswordHash == nil &&
		u.ProfilePic == nil && u.About == nil && u.Skills == nil
}
