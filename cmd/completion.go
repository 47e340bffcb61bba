package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nibzard/todo-go/internal/config"
)

// commandNames are offered by the completion scripts.
var commandNames = []string{
	"add", "list", "ls", "drafts", "update", "edit", "toggle", "done",
	"promote", "delete", "rm", "status", "export", "tui", "interactive",
	"log", "config", "schema", "completion", "version", "help",
}

// completionCommand prints a shell completion script.
func completionCommand(_ *config.Config, args []string) error {
	if len(args) == 0 {
		return errors.New("missing shell: expected bash, zsh or fish")
	}
	if len(args) > 1 {
		return fmt.Errorf("unexpected arguments: %v", args[1:])
	}

	words := strings.Join(commandNames, " ")
	switch strings.ToLower(args[0]) {
	case "bash":
		fmt.Printf(bashCompletion, words)
	case "zsh":
		fmt.Printf(zshCompletion, words)
	case "fish":
		fmt.Printf(fishCompletion, words)
	default:
		return fmt.Errorf("unsupported shell %q: expected bash, zsh or fish", args[0])
	}
	return nil
}

const bashCompletion = `# todo bash completion
_todo() {
  local cur="${COMP_WORDS[COMP_CWORD]}"
  if [ "$COMP_CWORD" -eq 1 ]; then
    COMPREPLY=($(compgen -W "%s" -- "$cur"))
  fi
}
complete -F _todo todo
`

const zshCompletion = `#compdef todo
# todo zsh completion
_todo() {
  if (( CURRENT == 2 )); then
    compadd -- %s
  fi
}
compdef _todo todo
`

const fishCompletion = `# todo fish completion
complete -c todo -f -n "__fish_use_subcommand" -a "%s"
`
