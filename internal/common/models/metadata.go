package models

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson"
)

type Visibility string

const (
	VisibilityPrivate Visibility = "PRIVATE"
	VisibilityShared  Visibility = "SHARED"
	VisibilityPublic  Visibility = "PUBLIC"
)

const (
	MaxNameLength        = 255
	MaxDescriptionLength = 1000
)

// ParseVisibility is case-insensitive; blank means PRIVATE.
func ParseVisibility(s string) (Visibility, error) {
	switch v := Visibility(strings.ToUpper(strings.TrimSpace(s))); v {
	case "":
		return VisibilityPrivate, nil
	case VisibilityPrivate, VisibilityShared, VisibilityPublic:
		return v, nil
	}
	return "", fmt.Errorf("visibility must be one of PRIVATE, SHARED, PUBLIC")
}

// CanRead reports whether userID may see an item owned by owner.
func CanRead(owner string, v Visibility, userID string) bool {
	return owner == userID || v == VisibilityShared || v == VisibilityPublic
}

// CheckName trims a required name and records a message under key when it
// is blank or too long.
func CheckName(fields map[string]string, key, value string) string {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		fields[key] = key + " is required"
	case utf8.RuneCountInString(value) > MaxNameLength:
		fields[key] = fmt.Sprintf("%s must be at most %d characters", key, MaxNameLength)
	}
	return value
}

func CheckDescription(fields map[string]string, key, value string) string {
	value = strings.TrimSpace(value)
	if utf8.RuneCountInString(value) > MaxDescriptionLength {
		fields[key] = fmt.Sprintf("%s must be at most %d characters", key, MaxDescriptionLength)
	}
	return value
}

// ListQuery selects reports, dashboards or folders. Zero fields do not
// constrain the result.
type ListQuery struct {
	Owner        string
	ReadableBy   string
	Visibility   Visibility
	Favorite     bool
	FolderID     string
	NameContains string
}

// Filter renders the query for collections storing created_by, visibility,
// favorite, folder_id and name.
func (q ListQuery) Filter() bson.M {
	filter := bson.M{}
	if q.Owner != "" {
		filter["created_by"] = q.Owner
	}
	if q.ReadableBy != "" {
		filter["$or"] = []bson.M{
			{"created_by": q.ReadableBy},
			{"visibility": bson.M{"$in": []Visibility{VisibilityShared, VisibilityPublic}}},
		}
	}
	if q.Visibility != "" {
		filter["visibility"] = q.Visibility
	}
	if q.Favorite {
		filter["favorite"] = true
	}
	if q.FolderID != "" {
		filter["folder_id"] = q.FolderID
	}
	if q.NameContains != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(q.NameContains), "$options": "i"}
	}
	return filter
}

// Matches evaluates the query against a single item, mirroring Filter.
func (q ListQuery) Matches(owner string, v Visibility, favorite bool, folderID, name string) bool {
	if q.Owner != "" && owner != q.Owner {
		return false
	}
	if q.ReadableBy != "" && !CanRead(owner, v, q.ReadableBy) {
		return false
	}
	if q.Visibility != "" && v != q.Visibility {
		return false
	}
	if q.Favorite && !favorite {
		return false
	}
	if q.FolderID != "" && folderID != q.FolderID {
		return false
	}
	if q.NameContains != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(q.NameContains)) {
		return false
	}
	return true
}
