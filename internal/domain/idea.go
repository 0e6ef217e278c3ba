package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type IdeaStatus string

const (
	StatusSubmitted    IdeaStatus = "submitted"
	StatusUnderReview  IdeaStatus = "under_review"
	StatusApproved     IdeaStatus = "approved"
	StatusRejected     IdeaStatus = "rejected"
	StatusImplementing IdeaStatus = "implementing"
	StatusImplemented  IdeaStatus = "implemented"
)

// ReviewStatuses are the values a reviewer may assign. Transitions between
// them are unrestricted.
var ReviewStatuses = []IdeaStatus{
	StatusUnderReview,
	StatusApproved,
	StatusRejected,
	StatusImplementing,
	StatusImplemented,
}

func (s IdeaStatus) IsValid() bool {
	return s == StatusSubmitted || s.IsReviewStatus()
}

// IsReviewStatus reports whether a reviewer may assign s. Submitted is only
// an initial status.
func (s IdeaStatus) IsReviewStatus() bool {
	for _, v := range ReviewStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Benefit string

const (
	BenefitCostSaving   Benefit = "cost_saving"
	BenefitSafety       Benefit = "safety"
	BenefitQuality      Benefit = "quality"
	BenefitProductivity Benefit = "productivity"
	BenefitOthers       Benefit = "others"
)

func (b Benefit) IsValid() bool {
	switch b {
	case BenefitCostSaving, BenefitSafety, BenefitQuality, BenefitProductivity, BenefitOthers:
		return true
	}
	return false
}

type Department string

const (
	DeptEngineering    Department = "Engineering"
	DeptQuality        Department = "Quality"
	DeptManufacturing  Department = "Manufacturing"
	DeptManagement     Department = "Management"
	DeptAdministration Department = "Administration"
	DeptHR             Department = "HR"
	DeptFinance        Department = "Finance"
)

func (d Department) IsValid() bool {
	switch d {
	case DeptEngineering, DeptQuality, DeptManufacturing, DeptManagement,
		DeptAdministration, DeptHR, DeptFinance:
		return true
	}
	return false
}

// Idea is an improvement proposal. SubmittedByEmployeeNumber is a copy of
// the submitter's employee number taken at write time and must match
// Submitter.EmployeeNumber when the idea is created.
type Idea struct {
	ID                        uuid.UUID      `json:"id" db:"id"`
	Title                     string         `json:"title" db:"title"`
	Problem                   string         `json:"problem" db:"problem"`
	Improvement               string         `json:"improvement" db:"improvement"`
	Benefit                   Benefit        `json:"benefit" db:"benefit"`
	Department                Department     `json:"department" db:"department"`
	EstimatedSavings          *float64       `json:"estimated_savings,omitempty" db:"estimated_savings"`
	ActualSavings             *float64       `json:"actual_savings,omitempty" db:"actual_savings"`
	Tags                      pq.StringArray `json:"tags" db:"tags"`
	Images                    IdeaImages     `json:"images" db:"images"`
	Status                    IdeaStatus     `json:"status" db:"status"`
	SubmittedBy               uuid.UUID      `json:"submitted_by" db:"submitted_by"`
	SubmittedByEmployeeNumber string         `json:"submitted_by_employee_number" db:"submitted_by_employee_number"`
	ReviewedBy                *uuid.UUID     `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ReviewedAt                *time.Time     `json:"reviewed_at,omitempty" db:"reviewed_at"`
	ReviewComments            *string        `json:"review_comments,omitempty" db:"review_comments"`
	ImplementationDate        *time.Time     `json:"implementation_date,omitempty" db:"implementation_date"`
	IsActive                  bool           `json:"is_active" db:"is_active"`
	CreatedAt                 time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt                 time.Time      `json:"updated_at" db:"updated_at"`

	Submitter *UserSummary `json:"submitter,omitempty" db:"-"`
	Reviewer  *UserSummary `json:"reviewer,omitempty" db:"-"`
}

// IdeaImage is the metadata of an already-stored attachment.
type IdeaImage struct {
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mimetype"`
	Size         int64     `json:"size"`
	UploadDate   time.Time `json:"upload_date"`
	URL          string    `json:"url,omitempty"`
}

type IdeaImages []IdeaImage

func (i IdeaImages) Value() (driver.Value, error) {
	if i == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(i)
}

func (i *IdeaImages) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*i = IdeaImages{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("idea images: unsupported scan type")
	}
	return json.Unmarshal(data, i)
}

type CreateIdeaInput struct {
	Title            string     `json:"title" form:"title" validate:"required,max=200"`
	Problem          string     `json:"problem" form:"problem" validate:"required,max=2000"`
	Improvement      string     `json:"improvement" form:"improvement" validate:"required,max=2000"`
	Benefit          Benefit    `json:"benefit" form:"benefit" validate:"required,benefit"`
	Department       Department `json:"department" form:"department" validate:"required,department"`
	EstimatedSavings *float64   `json:"estimated_savings,omitempty" form:"estimated_savings" validate:"omitempty,min=0"`
	Tags             []string   `json:"tags,omitempty" form:"tags" validate:"omitempty,dive,max=50"`
	Status           IdeaStatus `json:"status,omitempty" form:"status" validate:"omitempty,idea_status"`
}

// UpdateIdeaInput carries the fields a submitter may edit. Status and review
// fields are intentionally absent.
type UpdateIdeaInput struct {
	Title            *string     `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Problem          *string     `json:"problem,omitempty" validate:"omitempty,min=1,max=2000"`
	Improvement      *string     `json:"improvement,omitempty" validate:"omitempty,min=1,max=2000"`
	Benefit          *Benefit    `json:"benefit,omitempty" validate:"omitempty,benefit"`
	Department       *Department `json:"department,omitempty" validate:"omitempty,department"`
	EstimatedSavings *float64    `json:"estimated_savings,omitempty" validate:"omitempty,min=0"`
	Tags             *[]string   `json:"tags,omitempty" validate:"omitempty,dive,max=50"`
}

// Fields lists the edited field names in a stable order.
func (in UpdateIdeaInput) Fields() []string {
	var fields []string
	if in.Title != nil {
		fields = append(fields, "title")
	}
	if in.Problem != nil {
		fields = append(fields, "problem")
	}
	if in.Improvement != nil {
		fields = append(fields, "improvement")
	}
	if in.Benefit != nil {
		fields = append(fields, "benefit")
	}
	if in.Department != nil {
		fields = append(fields, "department")
	}
	if in.EstimatedSavings != nil {
		fields = append(fields, "estimated_savings")
	}
	if in.Tags != nil {
		fields = append(fields, "tags")
	}
	return fields
}

type UpdateIdeaStatusInput struct {
	Status         IdeaStatus `json:"status" validate:"required,review_status"`
	ReviewComments *string    `json:"review_comments,omitempty" validate:"omitempty,max=1000"`
	ActualSavings  *float64   `json:"actual_savings,omitempty" validate:"omitempty,min=0"`
}

type IdeaFilter struct {
	Status                    *IdeaStatus
	Department                *Department
	Benefit                   *Benefit
	SubmittedBy               *uuid.UUID
	SubmittedByEmployeeNumber string
	Search                    string
}

type StatusStat struct {
	Status       IdeaStatus `json:"status" db:"status"`
	Count        int64      `json:"count" db:"count"`
	TotalSavings float64    `json:"total_savings" db:"total_savings"`
}

type DepartmentStat struct {
	Department   Department `json:"department" db:"department"`
	Count        int64      `json:"count" db:"count"`
	TotalSavings float64    `json:"total_savings" db:"total_savings"`
}

type BenefitStat struct {
	Benefit Benefit `json:"benefit" db:"benefit"`
	Count   int64   `json:"count" db:"count"`
}

type IdeaStats struct {
	Status     []StatusStat     `json:"status_stats"`
	Department []DepartmentStat `json:"department_stats"`
	Benefit    []BenefitStat    `json:"benefit_stats"`
}
