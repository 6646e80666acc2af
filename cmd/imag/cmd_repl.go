package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"imaginarium/internal/logging"
	"imaginarium/internal/ontology"
	"imaginarium/internal/parser"
	"imaginarium/internal/verify"
)

var replWatch bool

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive authoring session",
	Long: `Statements typed at the prompt mutate the ontology. Commands:
  :generate [N] <kind>   invent N individuals of the kind
  :tests <kind>          run the registered tests against a fresh invention
  :buttons               list button bindings; type a button name to run it
  :reload                reload the definitions directory from scratch
  :quit                  leave

With --watch the definitions directory is reloaded automatically whenever a
.gen file changes.`,
	RunE: runRepl,
}

func init() {
	replCmd.Flags().BoolVar(&replWatch, "watch", false, "reload definitions on change")
}

// replSession serializes access to the ontology between the prompt loop and
// the watcher.
type replSession struct {
	mu  sync.Mutex
	ont *ontology.Ontology
	p   *parser.Parser
	log *logging.Logger
}

func (s *replSession) reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ont, s.p = newSession()
	fmt.Printf("loaded %d kinds, %d verbs\n", len(s.ont.Nouns()), len(s.ont.Verbs()))
}

func runRepl(cmd *cobra.Command, args []string) error {
	session := &replSession{log: logging.Get(logging.CategoryRepl)}
	session.ont, session.p = newSession()

	if session.ont.Description != "" {
		fmt.Println(session.ont.Description)
	}
	if session.ont.Instructions != "" {
		fmt.Println(session.ont.Instructions)
	}

	if replWatch {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("starting watcher: %w", err)
		}
		defer watcher.Close()
		if err := watcher.Add(cfg.Definitions.Dir); err != nil {
			return fmt.Errorf("watching %s: %w", cfg.Definitions.Dir, err)
		}
		go func() {
			for {
				select {
				case event, ok := <-watcher.Events:
					if !ok {
						return
					}
					if strings.HasSuffix(event.Name, ".gen") &&
						event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) != 0 {
						session.log.Info("definitions changed: %s", event.Name)
						fmt.Printf("\n%s changed, reloading\n> ", event.Name)
						session.reload()
					}
				case err, ok := <-watcher.Errors:
					if !ok {
						return
					}
					logger.Warn("watcher error", zap.Error(err))
				}
			}
		}()
	}

	in := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for in.Scan() {
		line := strings.TrimSpace(in.Text())
		if line != "" {
			if quit := session.execute(line); quit {
				return nil
			}
		}
		fmt.Print("> ")
	}
	return in.Err()
}

// execute runs one REPL line; returns true to quit.
func (s *replSession) execute(line string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.HasPrefix(line, ":") {
		return s.command(strings.Fields(line[1:]))
	}

	// A bare button name runs its bound command.
	for _, b := range s.ont.Buttons() {
		if strings.EqualFold(b.Name, line) {
			fmt.Printf("(%s)\n", b.Command)
			return s.command(strings.Fields(strings.TrimPrefix(b.Command, ":")))
		}
	}

	if err := s.p.ParseAndExecute(line); err != nil {
		var gram *parser.GrammaticalError
		if errors.As(err, &gram) {
			fmt.Println(gram.Detail())
		} else {
			fmt.Println(err)
		}
	}
	return false
}

func (s *replSession) command(fields []string) bool {
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "quit", "exit", "q":
		return true
	case "reload":
		s.mu.Unlock()
		s.reload()
		s.mu.Lock()
	case "buttons":
		for _, b := range s.ont.Buttons() {
			fmt.Printf("%-20s %s\n", b.Name, b.Command)
		}
	case "generate":
		count := 1
		kindArgs := fields[1:]
		if len(kindArgs) > 1 {
			if n, err := parseCount(kindArgs[0]); err == nil {
				count = n
				kindArgs = kindArgs[1:]
			}
		}
		if len(kindArgs) == 0 {
			fmt.Println("usage: :generate [N] <kind>")
			return false
		}
		inv, err := generateInvention(s.ont, strings.Join(kindArgs, " "), nil, count, 0)
		if err != nil {
			fmt.Println(err)
			return false
		}
		if inv == nil {
			fmt.Println("no invention satisfies the ontology")
			return false
		}
		for _, ind := range inv.Individuals {
			if desc := inv.Description(ind); desc != "" {
				fmt.Println(desc)
			}
		}
	case "tests":
		if len(fields) < 2 {
			fmt.Println("usage: :tests <kind>")
			return false
		}
		inv, err := generateInvention(s.ont, strings.Join(fields[1:], " "), nil, 1, 0)
		if err != nil {
			fmt.Println(err)
			return false
		}
		if inv == nil {
			fmt.Println("no invention satisfies the ontology")
			return false
		}
		for _, r := range verify.NewChecker(inv).RunTests() {
			status := "ok"
			if !r.Passed {
				status = "FAIL"
			}
			fmt.Printf("%-4s %s\n", status, r.Message)
		}
	default:
		fmt.Printf("unknown command :%s\n", fields[0])
	}
	return false
}

func parseCount(s string) (int, error) {
	var n int
	_, err := fmt.Sscanf(s, "%d", &n)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("not a count: %q", s)
	}
	return n, nil
}
