package domain

// Scope (team, optional project) 分區; project 為 nil 時是獨立的 team-level scope
type Scope struct {
	TeamID    string  `json:"team_id"`
	ProjectID *string `json:"project_id,omitempty"`
}

// NewScope empty project means team-level
func NewScope(teamID, projectID string) Scope {
	s := Scope{TeamID: teamID}
	if projectID != "" {
		p := projectID
		s.ProjectID = &p
	}
	return s
}

// Valid scope must name a team
func (s Scope) Valid() bool {
	return s.TeamID != ""
}

// Project project id or empty string
func (s Scope) Project() string {
	if s.ProjectID == nil {
		return ""
	}
	return *s.ProjectID
}

// Matches strict equality, no wildcard
func (s Scope) Matches(m *Message) bool {
	if m == nil || m.TeamID != s.TeamID {
		return false
	}
	if s.ProjectID == nil || m.ProjectID == nil {
		return s.ProjectID == nil && m.ProjectID == nil
	}
	return *s.ProjectID == *m.ProjectID
}
