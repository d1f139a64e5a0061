package model

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusWaitlist  Status = "waitlist"
	StatusRejected  Status = "rejected"
)

var Statuses = []Status{StatusPending, StatusConfirmed, StatusWaitlist, StatusRejected}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

type Track string

const (
	TrackWeb        Track = "web"
	TrackMobile     Track = "mobile"
	TrackAI         Track = "ai"
	TrackBlockchain Track = "blockchain"
)

var Tracks = []Track{TrackWeb, TrackMobile, TrackAI, TrackBlockchain}

func (t Track) Valid() bool {
	for _, v := range Tracks {
		if t == v {
			return true
		}
	}
	return false
}

type Experience string

const (
	ExperienceBeginner     Experience = "beginner"
	ExperienceIntermediate Experience = "intermediate"
	ExperienceAdvanced     Experience = "advanced"
)

var Experiences = []Experience{ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced}

func (e Experience) Valid() bool {
	for _, v := range Experiences {
		if e == v {
			return true
		}
	}
	return false
}

// Registration is the intake payload submitted by a team.
type Registration struct {
	TeamName   string     `json:"teamName" validate:"required,min=2,max=50"`
	TeamLeader string     `json:"teamLeader" validate:"required,min=2,max=50"`
	Email      string     `json:"email" validate:"required,email"`
	Phone      string     `json:"phone" validate:"required,phone"`
	College    string     `json:"college" validate:"required,min=2,max=100"`
	Members    []string   `json:"members" validate:"max=3,dive,max=50"`
	Experience Experience `json:"experience" validate:"required,oneof=beginner intermediate advanced"`
	Track      Track      `json:"track" validate:"required,oneof=web mobile ai blockchain"`
	Idea       string     `json:"idea" validate:"max=1000"`
}

// Team is a stored registration as exposed to clients. It never carries the confirmation token.
type Team struct {
	ID               string     `json:"id"`
	TeamName         string     `json:"teamName"`
	TeamLeader       string     `json:"teamLeader"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	College          string     `json:"college"`
	Members          []string   `json:"members"`
	Experience       Experience `json:"experience"`
	Track            Track      `json:"track"`
	Idea             string     `json:"idea"`
	RegistrationDate time.Time  `json:"registrationDate"`
	Status           Status     `json:"status"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// TeamSummary is returned by intake.
type TeamSummary struct {
	ID               string     `json:"id"`
	TeamName         string     `json:"teamName"`
	TeamLeader       string     `json:"teamLeader"`
	Email            string     `json:"email"`
	College          string     `json:"college"`
	Track            Track      `json:"track"`
	Experience       Experience `json:"experience"`
	RegistrationDate time.Time  `json:"registrationDate"`
	Status           Status     `json:"status"`
}

type TeamFilter struct {
	Track      Track
	Experience Experience
}

type TeamPage struct {
	Teams       []*Team `json:"teams"`
	CurrentPage int     `json:"currentPage"`
	TotalPages  int     `json:"totalPages"`
	TotalTeams  int64   `json:"totalTeams"`
	HasNextPage bool    `json:"hasNextPage"`
	HasPrevPage bool    `json:"hasPrevPage"`
}

type CategoryCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type Stats struct {
	TotalTeams          int64            `json:"totalTeams"`
	TrackStats          []*CategoryCount `json:"trackStats"`
	ExperienceStats     []*CategoryCount `json:"experienceStats"`
	RecentRegistrations int64            `json:"recentRegistrations"`
}
