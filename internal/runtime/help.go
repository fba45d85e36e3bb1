package runtime

import (
	"fmt"
	"strings"
)

// Control describes a command the Dispatcher resolves before the registry.
// Controls have no Execute; they exist so help can list them.
type Control struct {
	Label       string
	Description string
	Category    Category
	// Example is printed on its own line under the description.
	Example string
}

// Controls is the fixed table of dispatcher-level commands.
var Controls = []Control{
	{Label: "cd [dir]", Description: "Navigate to directory (page)", Category: CategoryNavigation, Example: "Ex: cd gsoc, cd teams, cd resources"},
	{Label: "echo [msg]", Description: "Echo a message", Category: CategoryFun},
	{Label: "cowsay [msg]", Description: "Cow says something", Category: CategoryFun},
	{Label: "sudo [cmd]", Description: "Try running as root", Category: CategoryFun},
	{Label: "rm -rf /", Description: "Delete everything... or not", Category: CategoryFun},
}

var helpSections = []struct {
	cat   Category
	title string
}{
	{CategoryInfo, "INFO COMMANDS"},
	{CategoryNavigation, "NAVIGATION"},
	{CategoryFun, "FUN COMMANDS"},
}

func renderHelp(reg *Registry) string {
	var b strings.Builder
	b.WriteString("\nAvailable Commands:\n")
	b.WriteString(strings.Repeat("━", 46))
	b.WriteString("\n\n")

	var byCat map[Category][]CommandSpec
	if reg != nil {
		byCat = reg.ByCategory()
	}
	for _, sec := range helpSections {
		var rows []string
		for _, c := range byCat[sec.cat] {
			rows = append(rows, helpRow(c.Label(), c.Description))
		}
		for _, c := range Controls {
			if c.Category != sec.cat {
				continue
			}
			rows = append(rows, helpRow(c.Label, c.Description))
			if c.Example != "" {
				rows = append(rows, strings.Repeat(" ", 14)+c.Example)
			}
		}
		if len(rows) == 0 {
			continue
		}
		b.WriteString(sec.title)
		b.WriteString("\n")
		b.WriteString(strings.Join(rows, "\n"))
		b.WriteString("\n\n")
	}
	b.WriteString("Type any command and press Enter!\n")
	return b.String()
}

func helpRow(label, desc string) string {
	return fmt.Sprintf("  %-11s %s", label, desc)
}
