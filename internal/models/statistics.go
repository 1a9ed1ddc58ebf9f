package models

// StaffJobCount is one row of the top-staff leaderboard.
type StaffJobCount struct {
	ID        string `bun:"id" json:"id"`
	FirstName string `bun:"first_name" json:"first_name"`
	LastName  string `bun:"last_name" json:"last_name"`
	Jobs      int    `bun:"jobs" json:"jobs"`
}

// DayOrderCount is one row of the busiest-days leaderboard.
type DayOrderCount struct {
	Date  string `bun:"cleaning_date" json:"date"`
	Count int    `bun:"order_count" json:"count"`
}

type Statistics struct {
	TotalOrders int             `json:"totalOrders"`
	TopStaff    []StaffJobCount `json:"topEmployees"`
	BusiestDays []DayOrderCount `json:"busiestDays"`
}
