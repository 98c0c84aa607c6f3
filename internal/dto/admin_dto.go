package dto

import "time"

type ListUsersQuery struct {
	Page   int
	Limit  int
	Role   string
	Status string
}

type UserSummary struct {
	ID           string     `json:"id"`
	Role         string     `json:"role"`
	Status       string     `json:"status"`
	DisplayName  string     `json:"displayName"`
	Email        *string    `json:"email"`
	JoinedDate   time.Time  `json:"joinedDate"`
	LastModified *time.Time `json:"lastModified,omitempty"`
	ModifiedBy   *string    `json:"modifiedBy,omitempty"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

type ListUsersResponse struct {
	Users      []UserSummary `json:"users"`
	Pagination Pagination    `json:"pagination"`
}

type UpdateUserRequest struct {
	Role   string `json:"role"`
	Status string `json:"status"`
	Reason string `json:"reason"`
}

type RecentActivity struct {
	NewUsers int64 `json:"newUsers"`
	NewPosts int64 `json:"newPosts"`
}

type SystemHealth struct {
	Status    string  `json:"status"`
	Uptime    float64 `json:"uptime"`
	Timestamp string  `json:"timestamp"`
}

type SystemStatsResponse struct {
	TotalUsers       int64            `json:"totalUsers"`
	TotalPosts       int64            `json:"totalPosts"`
	PendingReports   int64            `json:"pendingReports"`
	RoleDistribution map[string]int64 `json:"roleDistribution"`
	RecentActivity   RecentActivity   `json:"recentActivity"`
	SystemHealth     SystemHealth     `json:"systemHealth"`
}

type CommunityStatsResponse struct {
	Period         string  `json:"period"`
	TotalUsers     int64   `json:"totalUsers"`
	ActiveUsers    int     `json:"activeUsers"`
	TotalPosts     int64   `json:"totalPosts"`
	TotalComments  int64   `json:"totalComments"`
	EngagementRate float64 `json:"engagementRate"`
}
