package domain

import (
	"regexp"
	"time"
)

// ProjectStatus is the workflow state of a project. Any status may move to any
// other status; there is no enforced ordering.
type ProjectStatus string

const (
	StatusPlanning   ProjectStatus = "planning"
	StatusInProgress ProjectStatus = "in-progress"
	StatusCompleted  ProjectStatus = "completed"
	StatusOnHold     ProjectStatus = "on-hold"
	StatusCancelled  ProjectStatus = "cancelled"
)

// ProjectStatuses lists the valid statuses in display order.
var ProjectStatuses = []ProjectStatus{
	StatusPlanning,
	StatusInProgress,
	StatusCompleted,
	StatusOnHold,
	StatusCancelled,
}

func (s ProjectStatus) Valid() bool {
	for _, v := range ProjectStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// Deliverable is one ordered item of work inside a project.
type Deliverable struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
}

// Project is a unit of work for a client.
type Project struct {
	ID           string
	Name         string
	Description  string
	ClientID     string
	Status       ProjectStatus
	Priority     Priority
	Budget       *float64
	StartDate    *time.Time
	EndDate      *time.Time
	Deliverables []Deliverable
	TeamMembers  []string
	Tags         []string
	IsActive     bool
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasMember reports whether userID is in the team.
func (p *Project) HasMember(userID string) bool {
	for _, m := range p.TeamMembers {
		if m == userID {
			return true
		}
	}
	return false
}

// ProjectChanges holds the fields of a project update. Nil fields are left untouched.
type ProjectChanges struct {
	Name         *string
	Description  *string
	ClientID     *string
	Status       *ProjectStatus
	Priority     *Priority
	Budget       *float64
	StartDate    *time.Time
	EndDate      *time.Time
	Deliverables []Deliverable
	TeamMembers  []string
	Tags         []string
	IsActive     *bool
}

// Apply returns a copy of p with the changes merged in.
func (ch ProjectChanges) Apply(p Project) Project {
	if ch.Name != nil {
		p.Name = *ch.Name
	}
	if ch.Description != nil {
		p.Description = *ch.Description
	}
	if ch.ClientID != nil {
		p.ClientID = *ch.ClientID
	}
	if ch.Status != nil {
		p.Status = *ch.Status
	}
	if ch.Priority != nil {
		p.Priority = *ch.Priority
	}
	if ch.Budget != nil {
		p.Budget = ch.Budget
	}
	if ch.StartDate != nil {
		p.StartDate = ch.StartDate
	}
	if ch.EndDate != nil {
		p.EndDate = ch.EndDate
	}
	if ch.Deliverables != nil {
		p.Deliverables = ch.Deliverables
	}
	if ch.TeamMembers != nil {
		p.TeamMembers = ch.TeamMembers
	}
	if ch.Tags != nil {
		p.Tags = ch.Tags
	}
	if ch.IsActive != nil {
		p.IsActive = *ch.IsActive
	}
	return p
}

// MsgEndBeforeStart is shared by the input schema and the stored-record check.
const MsgEndBeforeStart = "End date must be after start date"

// CheckDateRange enforces endDate >= startDate on a merged record.
func CheckDateRange(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return &ValidationError{Errors: []string{MsgEndBeforeStart}}
	}
	return nil
}

var idPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// IsValidID reports whether s is a well-formed record id (24 hex characters).
func IsValidID(s string) bool {
	return idPattern.MatchString(s)
}
