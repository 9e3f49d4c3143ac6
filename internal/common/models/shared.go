package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContextKey string

const (
	UserIDKey    ContextKey = "user_id"
	RequestIDKey ContextKey = "request_id"
)

// DefaultUserID is the caller id used when a request carries none.
const DefaultUserID = "default-user"

// UserIDFrom returns the caller id stored on ctx, or DefaultUserID.
func UserIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok && id != "" {
		return id
	}
	return DefaultUserID
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

type AuditAction string

const (
	AuditActionCreate   AuditAction = "CREATE"
	AuditActionUpdate   AuditAction = "UPDATE"
	AuditActionDelete   AuditAction = "DELETE"
	AuditActionFavorite AuditAction = "FAVORITE"
	AuditActionRun      AuditAction = "RUN"
)

type Change struct {
	Old interface{} `bson:"old" json:"old"`
	New interface{} `bson:"new" json:"new"`
}

type AuditLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Action    AuditAction        `bson:"action" json:"action"`
	Entity    string             `bson:"entity" json:"entity"`       // reports, dashboards or folders
	EntityID  string             `bson:"entity_id" json:"entityId"`  // The ID of the item being modified
	ActorID   string             `bson:"actor_id" json:"actorId"`    // User ID who performed the action
	RequestID string             `bson:"request_id,omitempty" json:"requestId,omitempty"`
	Changes   map[string]Change  `bson:"changes,omitempty" json:"changes,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

type Log struct {
	Message      string    `bson:"message" json:"message"`
	Level        string    `bson:"level" json:"level"`
	LogLevelId   int       `bson:"log_level_id" json:"log_level_id"`
	Caller       string    `bson:"caller,omitempty" json:"caller,omitempty"`
	UserId       string    `bson:"user_id,omitempty" json:"user_id,omitempty"`
	RequestId    string    `bson:"request_id,omitempty" json:"request_id,omitempty"`
	AppId        string    `bson:"app_id" json:"app_id"`
	CreatedOnUtc time.Time `bson:"created_on_utc" json:"created_on_utc"`
}
