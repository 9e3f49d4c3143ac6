package dashboard

import (
	"time"

	common_models "crm-analytics/internal/common/models"
	"crm-analytics/internal/features/execution"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	XRangeAutomatic = "automatic"
	XRangeCustom    = "custom"
)

var chartTypes = map[string]bool{
	"bar":    true,
	"line":   true,
	"pie":    true,
	"donut":  true,
	"table":  true,
	"metric": true,
}

// Tile places one report on a dashboard. Order is dense and zero-based.
type Tile struct {
	ID          string   `json:"id" bson:"id"`
	DashboardID string   `json:"dashboardId" bson:"dashboard_id"`
	ReportID    string   `json:"reportId" bson:"report_id"`
	ReportName  string   `json:"reportName" bson:"-"`
	FolderID    string   `json:"folderId,omitempty" bson:"folder_id,omitempty"`
	ChartType   string   `json:"chartType" bson:"chart_type"`
	XAxis       string   `json:"xAxis" bson:"x_axis"`
	YAxis       string   `json:"yAxis" bson:"y_axis"`
	XRange      string   `json:"xRange" bson:"x_range"`
	XMin        *float64 `json:"xMin,omitempty" bson:"x_min,omitempty"`
	XMax        *float64 `json:"xMax,omitempty" bson:"x_max,omitempty"`
	Order       int      `json:"order" bson:"order"`
}

type Dashboard struct {
	ID          primitive.ObjectID       `json:"id" bson:"_id,omitempty"`
	Name        string                   `json:"name" bson:"name"`
	Description string                   `json:"description" bson:"description"`
	CreatedBy   string                   `json:"createdBy" bson:"created_by"`
	FolderID    string                   `json:"folderId,omitempty" bson:"folder_id,omitempty"`
	FolderName  string                   `json:"folderName" bson:"-"`
	Visibility  common_models.Visibility `json:"visibility" bson:"visibility"`
	Favorite    bool                     `json:"favorite" bson:"favorite"`
	Tiles       []Tile                   `json:"tiles" bson:"tiles"`
	CreatedAt   time.Time                `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time                `json:"updatedAt" bson:"updated_at"`
}

// TileRequest is one submitted tile. Its position in the list is its order.
type TileRequest struct {
	ReportID  string   `json:"reportId"`
	FolderID  string   `json:"folderId"`
	ChartType string   `json:"chartType"`
	XAxis     string   `json:"xAxis"`
	YAxis     string   `json:"yAxis"`
	XRange    string   `json:"xRange"`
	XMin      *float64 `json:"xMin"`
	XMax      *float64 `json:"xMax"`
}

type DashboardRequest struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	FolderID    string        `json:"folderId"`
	Visibility  string        `json:"visibility"`
	Tiles       []TileRequest `json:"tiles"`
}

// TileData is the rendered content of one tile. Exactly one of Result and
// Error is set.
type TileData struct {
	TileID     string            `json:"tileId"`
	ReportID   string            `json:"reportId"`
	ReportName string            `json:"reportName"`
	ChartType  string            `json:"chartType"`
	XAxis      string            `json:"xAxis"`
	YAxis      string            `json:"yAxis"`
	Order      int               `json:"order"`
	Result     *execution.Result `json:"result,omitempty"`
	Error      string            `json:"error,omitempty"`
}

type DashboardData struct {
	DashboardID string     `json:"dashboardId"`
	Name        string     `json:"name"`
	Tiles       []TileData `json:"tiles"`
	RenderedAt  time.Time  `json:"renderedAt"`
}
