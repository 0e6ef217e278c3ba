package domain

import "github.com/google/uuid"

type LeaderboardEntry struct {
	Rank           int        `json:"rank" db:"-"`
	UserID         uuid.UUID  `json:"user_id" db:"id"`
	Name           string     `json:"name" db:"name"`
	EmployeeNumber string     `json:"employee_number" db:"employee_number"`
	Department     Department `json:"department" db:"department"`
	Designation    string     `json:"designation" db:"designation"`
	CreditPoints   int        `json:"credit_points" db:"credit_points"`
	Ideas          int        `json:"ideas" db:"ideas"`
}

type DepartmentLeaderboardEntry struct {
	Rank                int        `json:"rank" db:"-"`
	Department          Department `json:"department" db:"department"`
	TotalIdeas          int        `json:"total_ideas" db:"total_ideas"`
	ApprovedIdeas       int        `json:"approved_ideas" db:"approved_ideas"`
	ImplementedIdeas    int        `json:"implemented_ideas" db:"implemented_ideas"`
	TotalSavings        float64    `json:"total_savings" db:"total_savings"`
	EmployeeCount       int        `json:"employee_count" db:"employee_count"`
	AvgIdeasPerEmployee float64    `json:"avg_ideas_per_employee" db:"-"`
	TotalCreditPoints   int        `json:"total_credit_points" db:"total_credit_points"`
}

type RecalculationResult struct {
	User       *User `json:"user"`
	OldPoints  int   `json:"old_points"`
	NewPoints  int   `json:"new_points"`
	Difference int   `json:"difference"`
}

type RecalculationSummary struct {
	Processed int `json:"processed"`
	Changed   int `json:"changed"`
	Failed    int `json:"failed"`
}
