package model

// Project status values.
const (
	ProjectStatusActive    = "active"
	ProjectStatusOnHold    = "on_hold"
	ProjectStatusCompleted = "completed"
	ProjectStatusArchived  = "archived"
)

// DefaultProjectColor is used when a project is created without one.
const DefaultProjectColor = "#3B82F6"

// Project is a grouping container for related tasks.
type Project struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	Status      string `json:"status,omitempty"`
}

// ApplyDefaults fills colour and status on a new project.
func (p *Project) ApplyDefaults() {
	if p.Color == "" {
		p.Color = DefaultProjectColor
	}
	if p.Status == "" {
		p.Status = ProjectStatusActive
	}
}
