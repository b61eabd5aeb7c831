package model

// Route is a logical page of the admin client.
type Route string

const (
	RouteAuth      Route = "auth"
	RouteDashboard Route = "dashboard"
	RouteSchedule  Route = "schedule"
	RouteTools     Route = "tools"
)

// Path returns the client path for the route.
func (r Route) Path() string {
	return "/" + string(r)
}

// MenuItem is one card on the dashboard.
type MenuItem struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Route       Route      `json:"route"`
	Permission  Permission `json:"-"`
}

// DashboardMenu lists the dashboard cards in display order.
var DashboardMenu = []MenuItem{
	{Title: "Schedule Projection", Description: "View and manage class schedules", Route: RouteSchedule, Permission: PermissionScheduleRead},
	{Title: "Manage Teachers", Description: "Add and edit teacher information", Route: RouteTools, Permission: PermissionTeachersRead},
	{Title: "Manage Sections", Description: "Configure class sections", Route: RouteTools, Permission: PermissionSectionsRead},
	{Title: "System Settings", Description: "Configure system preferences", Route: RouteTools, Permission: PermissionSettingsRead},
}
