// Package repl is the interactive shell: build an example set
// incrementally, run the synthesizer, inspect the result, repeat.
package repl

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/rxforge/rxforge/internal/anneal"
	"github.com/rxforge/rxforge/internal/examples"
	"github.com/rxforge/rxforge/internal/report"
	"github.com/rxforge/rxforge/internal/score"
	"github.com/rxforge/rxforge/internal/storage"
)

// REPL represents the interactive shell
type REPL struct {
	store    storage.Store
	rl       *readline.Instance
	ctx      context.Context
	cfg      anneal.Config
	commands map[string]CommandHandler

	positives []string
	negatives []string
	last      *anneal.Result
}

// CommandHandler handles a specific command
type CommandHandler func(args []string) error

// Config holds REPL configuration
type Config struct {
	// Store is optional; 'save' is unavailable without it.
	Store storage.Store
	Run   anneal.Config
}

// New creates a new REPL instance
func New(cfg *Config) (*REPL, error) {
	run := cfg.Run
	if err := run.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run config: %w", err)
	}

	r := &REPL{
		store: cfg.Store,
		cfg:   run,
	}
	r.registerCommands()
	return r, nil
}

// Run starts the REPL loop
func (r *REPL) Run(ctx context.Context) error {
	r.ctx = ctx

	cyan := color.New(color.FgCyan).SprintFunc()
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            cyan("rx> "),
		HistoryFile:       "",
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()
	r.rl = rl

	r.printWelcome()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			} else if err == io.EOF {
				fmt.Println("\nGoodbye!")
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := r.processInput(line); err != nil {
			if err == io.EOF {
				return nil
			}
			red := color.New(color.FgRed).SprintFunc()
			fmt.Printf("%s %v\n", red("Error:"), err)
		}
	}
}

// processInput processes a single line of input
func (r *REPL) processInput(line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}

	command := parts[0]
	args := parts[1:]

	if handler, ok := r.commands[command]; ok {
		return handler(args)
	}

	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Printf("%s Unknown command %q. Use 'help' for available commands.\n", yellow("Note:"), command)
	return nil
}

// registerCommands registers all built-in commands
func (r *REPL) registerCommands() {
	r.commands = map[string]CommandHandler{
		"help":    r.cmdHelp,
		"?":       r.cmdHelp,
		"pos":     r.cmdPos,
		"+":       r.cmdPos,
		"neg":     r.cmdNeg,
		"-":       r.cmdNeg,
		"list":    r.cmdList,
		"clear":   r.cmdClear,
		"profile": r.cmdProfile,
		"seed":    r.cmdSeed,
		"synth":   r.cmdSynth,
		"save":    r.cmdSave,
		"exit":    r.cmdExit,
		"quit":    r.cmdExit,
	}
}

// printWelcome prints the welcome message
func (r *REPL) printWelcome() {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Printf("\n%s\n", cyan("rxforge interactive shell"))
	fmt.Println("Build an example set, then 'synth' to search for a pattern.")
	fmt.Println()
	fmt.Println("Type 'help' for available commands, 'exit' to quit")
	fmt.Println()
}

func (r *REPL) cmdPos(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: pos <string>")
	}
	r.positives = append(r.positives, strings.Join(args, " "))
	fmt.Printf("  %d positive(s), %d negative(s)\n", len(r.positives), len(r.negatives))
	return nil
}

func (r *REPL) cmdNeg(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: neg <string>")
	}
	r.negatives = append(r.negatives, strings.Join(args, " "))
	fmt.Printf("  %d positive(s), %d negative(s)\n", len(r.positives), len(r.negatives))
	return nil
}

func (r *REPL) cmdList(args []string) error {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	for _, p := range r.positives {
		fmt.Printf("  %s %q\n", green("+"), p)
	}
	for _, n := range r.negatives {
		fmt.Printf("  %s %q\n", red("-"), n)
	}
	if len(r.positives) == 0 && len(r.negatives) == 0 {
		gray := color.New(color.FgHiBlack).SprintFunc()
		fmt.Printf("  %s\n", gray("no examples yet"))
	}
	return nil
}

func (r *REPL) cmdClear(args []string) error {
	r.positives = nil
	r.negatives = nil
	r.last = nil
	fmt.Println("  examples cleared")
	return nil
}

func (r *REPL) cmdProfile(args []string) error {
	if len(args) == 0 {
		fmt.Printf("  profile: %s\n", r.cfg.Profile)
		return nil
	}
	p := score.Profile(args[0])
	if !p.IsValid() {
		return fmt.Errorf("unknown profile %q (minimal, readable, balanced)", args[0])
	}
	r.cfg.Profile = p
	fmt.Printf("  profile: %s\n", p)
	return nil
}

func (r *REPL) cmdSeed(args []string) error {
	if len(args) == 0 {
		fmt.Printf("  seed: %d\n", r.cfg.Seed)
		return nil
	}
	seed, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("seed must be an integer: %w", err)
	}
	r.cfg.Seed = seed
	fmt.Printf("  seed: %d\n", seed)
	return nil
}

func (r *REPL) cmdSynth(args []string) error {
	set, err := examples.New(r.positives, r.negatives)
	if err != nil {
		return err
	}

	ctrl, err := anneal.New(set, r.cfg)
	if err != nil {
		return err
	}
	printer := report.NewProgressPrinter(os.Stdout, 10)
	ctrl.OnProgress(printer.Update)

	result, err := ctrl.Run(r.ctx)
	printer.Finish()
	if err != nil {
		return err
	}
	r.last = result
	report.WriteText(os.Stdout, set, result)
	return nil
}

func (r *REPL) cmdSave(args []string) error {
	if r.store == nil {
		return fmt.Errorf("no run-history database configured")
	}
	if r.last == nil {
		return fmt.Errorf("nothing to save; run 'synth' first")
	}
	set, err := examples.New(r.positives, r.negatives)
	if err != nil {
		return err
	}
	id, err := r.store.SaveRun(r.ctx, set, r.cfg, r.last)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s saved run %s\n", green("✓"), id)
	return nil
}

// cmdHelp shows help information
func (r *REPL) cmdHelp(args []string) error {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("\n%s\n\n", cyan("Available Commands:"))

	commands := []struct {
		name string
		desc string
	}{
		{"pos <s>, + <s>", "Add a positive example"},
		{"neg <s>, - <s>", "Add a negative example"},
		{"list", "Show the current example set"},
		{"clear", "Drop all examples"},
		{"profile [name]", "Show or set the fitness profile"},
		{"seed [n]", "Show or set the random seed"},
		{"synth", "Run pattern synthesis on the current examples"},
		{"save", "Persist the last result to run history"},
		{"help, ?", "Show this help message"},
		{"exit, quit", "Exit the shell"},
	}
	for _, cmd := range commands {
		fmt.Printf("  %-16s %s\n", green(cmd.name), cmd.desc)
	}
	fmt.Println()
	return nil
}

// cmdExit exits the REPL
func (r *REPL) cmdExit(args []string) error {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("\n%s Goodbye!\n", green("✓"))
	r.rl.Close()
	return io.EOF
}
