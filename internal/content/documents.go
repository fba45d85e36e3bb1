package content

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Doc identifies one externally hosted JSON document.
type Doc string

const (
	DocEvents       Doc = "events"
	DocTeam         Doc = "team"
	DocGSoC         Doc = "gsoc"
	DocCompetitions Doc = "competitions"
	DocProjects     Doc = "projects"
	DocResources    Doc = "resources"
)

// AllDocs lists every document in preload order.
var AllDocs = []Doc{DocEvents, DocTeam, DocGSoC, DocCompetitions, DocProjects, DocResources}

var endpoints = map[Doc]string{
	DocEvents:       "/events/events.json",
	DocTeam:         "/team/json/all_members.json",
	DocGSoC:         "/gsoc/gsoc.json",
	DocCompetitions: "/compete/compete.json",
	DocProjects:     "/projectsData.json",
	DocResources:    "/resources/resources.json",
}

var labels = map[Doc]string{
	DocEvents:       "Events",
	DocTeam:         "Team",
	DocGSoC:         "GSoC",
	DocCompetitions: "Competitions",
	DocProjects:     "Projects",
	DocResources:    "Resources",
}

// Endpoint returns the path of d relative to the content base URL.
func (d Doc) Endpoint() string { return endpoints[d] }

// Label is the human name used in preload progress.
func (d Doc) Label() string { return labels[d] }

// Valid reports whether d is a known document.
func (d Doc) Valid() bool {
	_, ok := endpoints[d]
	return ok
}

// EventsDoc is /events/events.json.
type EventsDoc struct {
	Events []Event `json:"events"`
}

type Event struct {
	ID          any    `json:"id,omitempty"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// CompetitionsDoc is /compete/compete.json.
type CompetitionsDoc struct {
	Competitions []Competition `json:"competitions"`
}

type Competition struct {
	ID           any    `json:"id,omitempty"`
	Name         string `json:"name"`
	TypicalMonth string `json:"typicalMonth"`
	Category     string `json:"category"`
	Duration     string `json:"duration,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// ResourcesDoc is /resources/resources.json.
type ResourcesDoc struct {
	Categories []ResourceCategory `json:"categories"`
}

type ResourceCategory struct {
	ID        any        `json:"id,omitempty"`
	Name      string     `json:"name"`
	Icon      string     `json:"icon,omitempty"`
	Resources []Resource `json:"resources"`
}

type Resource struct {
	Title string `json:"title"`
	Link  string `json:"link"`
	Type  string `json:"type,omitempty"`
	Note  string `json:"note,omitempty"`
}

// Member is one entry of /team/json/all_members.json.
type Member struct {
	Name        string `json:"name"`
	Position    string `json:"position,omitempty"`
	Designation string `json:"designation,omitempty"`
	Image       string `json:"image,omitempty"`
	LinkedIn    string `json:"linkedin,omitempty"`
	Instagram   string `json:"instagram,omitempty"`
}

// HasRole reports whether the member's position contains role, ignoring case.
func (m Member) HasRole(role string) bool {
	return m.Position != "" && strings.Contains(strings.ToLower(m.Position), strings.ToLower(role))
}

// GSoCDoc is /gsoc/gsoc.json.
type GSoCDoc struct {
	Years []GSoCYear `json:"years"`
}

type GSoCYear struct {
	Year       Year        `json:"year"`
	Selections []Selection `json:"selections"`
}

type Selection struct {
	Name         string `json:"name"`
	Organization string `json:"organization,omitempty"`
	Project      string `json:"project,omitempty"`
}

// TotalSelections sums selections across all years.
func (d GSoCDoc) TotalSelections() int {
	n := 0
	for _, y := range d.Years {
		n += len(y.Selections)
	}
	return n
}

// Year accepts both "2024" and 2024.
type Year string

func (y *Year) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*y = Year(s)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*y = Year(strconv.FormatInt(n, 10))
	return nil
}

// Project is one entry of /projectsData.json.
type Project struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"Link,omitempty"`
}
