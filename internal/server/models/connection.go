package models

import "time"

type ConnectionStatus string

const (
	StatusInterested ConnectionStatus = "interested"
	StatusIgnored    ConnectionStatus = "ignored"
	StatusAccepted   ConnectionStatus = "accepted"
	StatusRejected   ConnectionStatus = "rejected"
)

func (s ConnectionStatus) Valid() bool {
	switch s {
	case StatusInterested, StatusIgnored, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// ConnectionRequest is a directed edge between two users. At most one exists
// per unordered pair.
type ConnectionRequest struct {
	ID         string           `bson:"_id"`
	FromUserID string           `bson:"from_user_id"`
	ToUserID   string           `bson:"to_user_id"`
	Status     ConnectionStatus `bson:"status"`
	CreatedAt  time.Time        `bson:"created_at"`
	UpdatedAt  time.Time        `bson:"updated_at"`
}

// Counterpart returns the other side of the request as seen by userID.
func (r *ConnectionRequest) Counterpart(userID string) string {
	if r.FromUserID == userID {
		return r.ToUserID
	}
	return r.FromUserID
}

// Direction selects which side of a request the user must be on.
type Direction string

const (
	DirectionFrom Direction = "from"
	DirectionTo   Direction = "to"
	DirectionAny  Direction = "any"
)

// ListFilter selects requests for one user. An empty Status matches all.
type ListFilter struct {
	Direction Direction
	Status    ConnectionStatus
	Skip      int64
	Limit     int64
}

// RequestWithUser pairs a request with the public profile of the other side.
type RequestWithUser struct {
	Request *ConnectionRequest
	User    UserMini
}

type RequestPage struct {
	Items []RequestWithUser
	Total int64
	Page  int64
	Limit int64
}

type UserPage struct {
	Items []UserMini
	Total int64
	Page  int64
	Limit int64
}

// RelationState is the pair status as seen by one of its users.
type RelationState string

const (
	RelationNone      RelationState = "none"
	RelationSent      RelationState = "sent"
	RelationReceived  RelationState = "received"
	RelationConnected RelationState = "connected"
	RelationIgnored   RelationState = "ignored"
	RelationRejected  RelationState = "rejected"
)

type Relation struct {
	State     RelationState
	RequestID string
}
