package runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"kpterm/internal/content"
)

// ContentSource is the read side of the content client used by data
// commands. *content.Client satisfies it.
type ContentSource interface {
	Events(ctx context.Context) (content.EventsDoc, error)
	Team(ctx context.Context) ([]content.Member, error)
	GSoC(ctx context.Context) (content.GSoCDoc, error)
	Competitions(ctx context.Context) (content.CompetitionsDoc, error)
	Projects(ctx context.Context) ([]content.Project, error)
	Resources(ctx context.Context) (content.ResourcesDoc, error)
	Raw(ctx context.Context, d content.Doc) ([]byte, error)
}

const (
	eventsFallback    = "Visit /events page for event details."
	competeFallback   = "Visit /compete page for competition details."
	resourcesFallback = "Visit /resources page for learning materials."
	teamFallback      = "Visit /teams page for team details."
	gsocFallback      = "Visit /gsoc page for GSoC details."
	projectsFallback  = "Visit github.com/KamandPrompt for our projects."
)

var teamRoles = []string{"Coordinator", "Co-coordinator", "Mentor", "Domain Lead"}

// catFiles maps the virtual file names shown by ls to documents.
var catFiles = map[string]content.Doc{
	"gsoc.json":      content.DocGSoC,
	"compete.json":   content.DocCompetitions,
	"events.json":    content.DocEvents,
	"resources.json": content.DocResources,
	"team.json":      content.DocTeam,
	"projects.json":  content.DocProjects,
}

var lsDirs = []string{"home/", "gsoc/", "teams/", "contact/", "compete/", "events/", "resources/"}

// fallback logs a failed fetch and returns the command's info fallback.
func fallback(cmd string, err error, text string) CommandResult {
	slog.Warn("runtime: content unavailable", "command", cmd, "err", err)
	return Info(text)
}

func heading(title string, rule int) string {
	return "\n" + title + "\n" + strings.Repeat("━", rule) + "\n\n"
}

func contentCommands(src ContentSource) []CommandSpec {
	return []CommandSpec{
		{
			Name:        "compete",
			Description: "List competitions",
			Category:    CategoryInfo,
			Execute: func(ctx context.Context, _ string, _ []string) (CommandResult, error) {
				doc, err := src.Competitions(ctx)
				if err != nil {
					return fallback("compete", err, competeFallback), nil
				}
				var b strings.Builder
				b.WriteString(heading("COMPETITIONS", 16))
				for i, c := range firstN(doc.Competitions, 5) {
					fmt.Fprintf(&b, "%d. %s\n   └─ %s | %s\n\n", i+1, c.Name, c.TypicalMonth, c.Category)
				}
				b.WriteString("Type 'cd compete' to see the full list!")
				return Info(b.String()), nil
			},
		},
		{
			Name:        "events",
			Description: "List events",
			Category:    CategoryInfo,
			Execute: func(ctx context.Context, _ string, _ []string) (CommandResult, error) {
				doc, err := src.Events(ctx)
				if err != nil {
					return fallback("events", err, eventsFallback), nil
				}
				var b strings.Builder
				b.WriteString(heading("EVENTS & WORKSHOPS", 22))
				for i, e := range firstN(doc.Events, 5) {
					fmt.Fprintf(&b, "%d. %s\n   └─ %s | %s\n\n", i+1, e.Title, e.Date, e.Category)
				}
				b.WriteString("Type 'cd events' to see the full list!")
				return Info(b.String()), nil
			},
		},
		{
			Name:        "resources",
			Description: "List learning resources",
			Category:    CategoryInfo,
			Execute: func(ctx context.Context, _ string, _ []string) (CommandResult, error) {
				doc, err := src.Resources(ctx)
				if err != nil {
					return fallback("resources", err, resourcesFallback), nil
				}
				var b strings.Builder
				b.WriteString(heading("LEARNING RESOURCES", 22))
				for i, c := range doc.Categories {
					fmt.Fprintf(&b, "%d. %s\n   └─ %d resources\n\n", i+1, c.Name, len(c.Resources))
				}
				b.WriteString("Type 'cd resources' to see all resources!")
				return Info(b.String()), nil
			},
		},
	}
}

// rosterCommands are the data commands listed after the static info pages.
func rosterCommands(src ContentSource) (team, gsoc, projects CommandSpec) {
	team = CommandSpec{
		Name:        "team",
		Description: "Meet our team",
		Category:    CategoryInfo,
		Execute: func(ctx context.Context, _ string, _ []string) (CommandResult, error) {
			members, err := src.Team(ctx)
			if err != nil {
				return fallback("team", err, teamFallback), nil
			}
			var b strings.Builder
			b.WriteString(heading("TEAM KAMAND PROMPT", 21))
			for _, role := range teamRoles {
				var names []string
				for _, m := range members {
					if m.HasRole(role) {
						names = append(names, m.Name)
					}
				}
				if len(names) == 0 {
					continue
				}
				fmt.Fprintf(&b, ">  %sS\n", strings.ToUpper(role))
				for _, n := range names {
					fmt.Fprintf(&b, "    └─ %s\n", n)
				}
				b.WriteString("\n")
			}
			b.WriteString("Type 'cd teams' to see full team page!")
			return Info(b.String()), nil
		},
	}
	gsoc = CommandSpec{
		Name:        "gsoc",
		Description: "GSoC selections info",
		Category:    CategoryInfo,
		Execute: func(ctx context.Context, _ string, _ []string) (CommandResult, error) {
			doc, err := src.GSoC(ctx)
			if err != nil {
				return fallback("gsoc", err, gsocFallback), nil
			}
			var b strings.Builder
			b.WriteString(heading("GOOGLE SUMMER OF CODE", 25))
			fmt.Fprintf(&b, "Total Selections: %d\n\n", doc.TotalSelections())
			b.WriteString("By Year:\n")
			for _, y := range firstN(doc.Years, 4) {
				fmt.Fprintf(&b, "  > %s - %d selections\n", y.Year, len(y.Selections))
				for _, s := range firstN(y.Selections, 2) {
					fmt.Fprintf(&b, "     └─ %s\n", s.Name)
				}
				if n := len(y.Selections); n > 2 {
					fmt.Fprintf(&b, "     ... and %d more\n", n-2)
				}
				b.WriteString("\n")
			}
			b.WriteString("Type 'cd gsoc' to see all selections!")
			return Success(b.String()), nil
		},
	}
	projects = CommandSpec{
		Name:        "projects",
		Description: "Our projects",
		Category:    CategoryInfo,
		Execute: func(ctx context.Context, _ string, _ []string) (CommandResult, error) {
			list, err := src.Projects(ctx)
			if err != nil {
				return fallback("projects", err, projectsFallback), nil
			}
			var b strings.Builder
			b.WriteString(heading("OUR PROJECTS", 15))
			for i, p := range list {
				fmt.Fprintf(&b, "%d. %s\n   └─ %s...\n\n", i+1, p.Title, truncateRunes(p.Description, 80))
			}
			b.WriteString("Visit: github.com/KamandPrompt")
			return Info(b.String()), nil
		},
	}
	return team, gsoc, projects
}

func fileCommands(src ContentSource) []CommandSpec {
	return []CommandSpec{
		{
			Name:        "ls",
			Description: "List files & directories",
			Category:    CategoryInfo,
			Execute: func(context.Context, string, []string) (CommandResult, error) {
				return Info(listing()), nil
			},
		},
		{
			Name:        "cat",
			Usage:       "cat [file]",
			Description: "Read file content",
			Category:    CategoryInfo,
			Execute: func(ctx context.Context, args string, _ []string) (CommandResult, error) {
				if args == "" {
					return Failure(KindBadUsage, "usage: cat [file]"), nil
				}
				notFound := Failure(KindRemoteFetch, fmt.Sprintf("cat: %s: No such file or directory", args))
				d, ok := catFiles[strings.ToLower(strings.TrimSpace(args))]
				if !ok {
					return notFound, nil
				}
				raw, err := src.Raw(ctx, d)
				if err != nil {
					slog.Warn("runtime: cat", "doc", d, "err", err)
					return notFound, nil
				}
				var out bytes.Buffer
				if err := json.Indent(&out, raw, "", "  "); err != nil {
					return notFound, nil
				}
				return Info(out.String()), nil
			},
		},
	}
}

func listing() string {
	all := make([]string, 0, len(lsDirs)+len(catFiles))
	all = append(all, lsDirs...)
	for name := range catFiles {
		all = append(all, name)
	}
	sort.Strings(all)
	return strings.Join(all, "   ")
}

func firstN[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
