package runtime

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// dateLayout mirrors the browser's Date.toString.
const dateLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"

// Deps are the collaborators the built-in commands need.
type Deps struct {
	Content ContentSource
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewDefaultRegistry builds the registry of every built-in command.
func NewDefaultRegistry(deps Deps) (*Registry, error) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	var reg *Registry
	help := CommandSpec{
		Name:        "help",
		Description: "Show this help message",
		Category:    CategoryInfo,
		Execute: func(context.Context, string, []string) (CommandResult, error) {
			return Success(renderHelp(reg)), nil
		},
	}

	team, gsoc, projects := rosterCommands(deps.Content)
	specs := []CommandSpec{help}
	specs = append(specs, contentCommands(deps.Content)...)
	specs = append(specs,
		static("about", "About Kamand Prompt", CategoryInfo, Info(aboutText)),
		team,
		static("contact", "Contact information", CategoryInfo, Info(contactText)),
		static("socials", "Social media links", CategoryInfo, Info(socialsText)),
		gsoc,
		projects,
		static("skills", "Tech stack we use", CategoryInfo, Info(skillsText)),
		static("join", "How to join us", CategoryInfo, Success(joinText)),
	)
	specs = append(specs, fileCommands(deps.Content)...)
	specs = append(specs,
		static("whoami", "Who are you?", CategoryFun, Info("A curious visitor exploring Kamand Prompt")),
		CommandSpec{
			Name:        "date",
			Description: "Current date & time",
			Category:    CategoryFun,
			Execute: func(context.Context, string, []string) (CommandResult, error) {
				return Info(deps.Now().Format(dateLayout)), nil
			},
		},
		static("fastfetch", "System information", CategoryFun, Info(fastfetchArt)),
		static("matrix", "Enter the matrix", CategoryFun, Success(matrixText)),
		static("clear", "Clear terminal", CategoryFun, CommandResult{Output: ClearSentinel, Type: TypeClear}),
		static("exit", "Close terminal", CategoryFun, CommandResult{Output: ExitSentinel, Type: TypeExit}),
		historyCommand(),
	)

	r, err := NewRegistry(specs...)
	if err != nil {
		return nil, err
	}
	reg = r
	return reg, nil
}

// static wraps a fixed result as a command.
func static(name, desc string, cat Category, res CommandResult) CommandSpec {
	return CommandSpec{
		Name:        name,
		Description: desc,
		Category:    cat,
		Execute: func(context.Context, string, []string) (CommandResult, error) {
			return res, nil
		},
	}
}

func historyCommand() CommandSpec {
	return CommandSpec{
		Name:        "history",
		Description: "Command history",
		Category:    CategoryFun,
		Execute: func(_ context.Context, _ string, history []string) (CommandResult, error) {
			return Info(formatHistory(history)), nil
		},
	}
}

func formatHistory(history []string) string {
	if len(history) == 0 {
		return "No commands in history yet."
	}
	lines := make([]string, len(history))
	for i, cmd := range history {
		lines[i] = fmt.Sprintf("  %d  %s", i+1, cmd)
	}
	return strings.Join(lines, "\n")
}
