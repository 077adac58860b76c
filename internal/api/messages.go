// Package api holds the wire contract of the devmatch gRPC service: message
// types, the service descriptor and a typed client.
package api

import "time"

type User struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Gender     string    `json:"gender"`
	About      string    `json:"about"`
	Skills     []string  `json:"skills"`
	ProfilePic string    `json:"profilePic"`
	CreatedAt  time.Time `json:"createdAt"`
}

type ConnectionRequest struct {
	ID         string    `json:"id"`
	FromUserID string    `json:"fromUserId"`
	ToUserID   string    `json:"toUserId"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Page and Limit are passed through as typed by the caller; the server
// normalizes them.
type PageParams struct {
	Page  string `json:"page,omitempty"`
	Limit string `json:"limit,omitempty"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type RegisterRequest struct {
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	Email      string   `json:"email"`
	Password   string   `json:"password"`
	Gender     string   `json:"gender"`
	About      string   `json:"about,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	ProfilePic string   `json:"profilePic,omitempty"`
}

type RegisterResponse struct {
	User User `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}

type ConnectRequest struct {
	ToUserID string `json:"toUserId"`
	Status   string `json:"status"`
}

type ReviewRequest struct {
	RequestID string `json:"requestId"`
	Status    string `json:"status"`
}

type ConnectionResponse struct {
	Request ConnectionRequest `json:"request"`
}

type ListReceivedRequest struct {
	PageParams
	Status string `json:"status,omitempty"`
}

type ListSentRequest struct {
	PageParams
	Status string `json:"status,omitempty"`
}

type ListConnectionsRequest struct {
	PageParams
}

type RequestItem struct {
	Request ConnectionRequest `json:"request"`
	User    User              `json:"user"`
}

type RequestList struct {
	Items []RequestItem `json:"items"`
	Total int64         `json:"total"`
	Page  int64         `json:"page"`
	Limit int64         `json:"limit"`
}

type FeedRequest struct {
	PageParams
	Gender string `json:"gender,omitempty"`
	Skill  string `json:"skill,omitempty"`
}

type UserList struct {
	Items []User `json:"items"`
	Total int64  `json:"total"`
	Page  int64  `json:"page"`
	Limit int64  `json:"limit"`
}

type StatusRequest struct {
	UserID string `json:"userId"`
}

type StatusResponse struct {
	State     string `json:"state"`
	RequestID string `json:"requestId,omitempty"`
}

// GetProfileRequest with an empty UserID returns the caller's own profile.
type GetProfileRequest struct {
	UserID string `json:"userId,omitempty"`
}

// UpdateProfileRequest leaves nil fields untouched. An empty UserID means
// the caller.
type UpdateProfileRequest struct {
	UserID     string    `json:"userId,omitempty"`
	FirstName  *string   `json:"firstName,omitempty"`
	LastName   *string   `json:"lastName,omitempty"`
	Password   *string   `json:"password,omitempty"`
	ProfilePic *string   `json:"profilePic,omitempty"`
	About      *string   `json:"about,omitempty"`
	Skills     *[]string `json:"skills,omitempty"`
}

type ProfileResponse struct {
	User User `json:"user"`
}

type PictureUploadRequest struct{}

type PictureUploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// DeleteAccountRequest with an empty UserID deletes the caller. Every
// request the account takes part in is removed with it.
type DeleteAccountRequest struct {
	UserID string `json:"userId,omitempty"`
}

type DeleteAccountResponse struct{}
