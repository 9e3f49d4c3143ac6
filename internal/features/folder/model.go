package folder

import (
	"time"

	common_models "crm-analytics/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Folder groups reports and dashboards. Deleting one leaves its contents in place.
type Folder struct {
	ID          primitive.ObjectID       `json:"id" bson:"_id,omitempty"`
	Name        string                   `json:"name" bson:"name"`
	Description string                   `json:"description" bson:"description"`
	CreatedBy   string                   `json:"createdBy" bson:"created_by"`
	Visibility  common_models.Visibility `json:"visibility" bson:"visibility"`
	Favorite    bool                     `json:"favorite" bson:"favorite"`
	CreatedAt   time.Time                `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time                `json:"updatedAt" bson:"updated_at"`
}

type FolderRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Visibility  string `json:"visibility"`
}
