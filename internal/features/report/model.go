package report

import (
	"time"

	common_models "crm-analytics/internal/common/models"
	"crm-analytics/internal/crm"
	"crm-analytics/internal/features/execution"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Chart describes how a report is plotted on a dashboard tile.
type Chart struct {
	Type  string `json:"type" bson:"type"`
	XAxis string `json:"xAxis" bson:"x_axis"`
	YAxis string `json:"yAxis" bson:"y_axis"`
}

// Report is a saved definition. Module never changes after creation.
type Report struct {
	ID          primitive.ObjectID       `json:"id" bson:"_id,omitempty"`
	Name        string                   `json:"reportName" bson:"name"`
	Description string                   `json:"description" bson:"description"`
	CreatedBy   string                   `json:"createdBy" bson:"created_by"`
	FolderID    string                   `json:"folderId,omitempty" bson:"folder_id,omitempty"`
	FolderName  string                   `json:"folderName" bson:"-"`
	Module      crm.Module               `json:"module" bson:"module"`
	Definition  execution.Definition     `json:"definition" bson:"definition"`
	Charts      []Chart                  `json:"charts" bson:"charts"`
	Visibility  common_models.Visibility `json:"visibility" bson:"visibility"`
	Favorite    bool                     `json:"favorite" bson:"favorite"`
	CreatedAt   time.Time                `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time                `json:"updatedAt" bson:"updated_at"`
	LastRunAt   *time.Time               `json:"lastRunAt,omitempty" bson:"last_run_at,omitempty"`
}

// ExecutionRequest rebuilds the ad-hoc request a saved report stands for.
func (r *Report) ExecutionRequest() execution.Request {
	return execution.Request{Module: string(r.Module), Definition: r.Definition}
}

type ReportRequest struct {
	ReportName  string               `json:"reportName"`
	Description string               `json:"description"`
	FolderID    string               `json:"folderId"`
	Module      string               `json:"module"`
	Definition  execution.Definition `json:"definition"`
	Charts      []Chart              `json:"charts"`
	Visibility  string               `json:"visibility"`
}
