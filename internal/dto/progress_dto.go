package dto

import "encoding/json"

// SetProgressRequest carries a partial update; nil fields are left untouched.
type SetProgressRequest struct {
	Progress       *float64         `json:"progress"`
	Badges         *[]string        `json:"badges"`
	RecentActivity *json.RawMessage `json:"recentActivity"`
}

type ProgressResponse struct {
	Progress       float64         `json:"progress"`
	Badges         []string        `json:"badges"`
	RecentActivity json.RawMessage `json:"recentActivity"`
}
