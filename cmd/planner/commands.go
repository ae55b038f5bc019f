package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/mulhim/planner/internal/coach"
	"github.com/mulhim/planner/internal/errors"
	"github.com/mulhim/planner/internal/nutrition"
	"github.com/mulhim/planner/internal/profile"
	"github.com/mulhim/planner/internal/report"
	"github.com/mulhim/planner/internal/workout"
)

var (
	errUsage          = errors.NewSentinel("usage: planner <command> [arguments]")
	errUnknownCommand = errors.NewSentinel("unknown command")
	errNoProfile      = errors.NewSentinel("no profile saved, run the profile command first")
)

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = []command{
	{name: "profile", usage: "profile <file.json>", run: runProfile},
	{name: "plan", usage: "plan [-regenerate] [-json] [-html file]", run: runPlan},
	{name: "complete", usage: "complete <session-id> [exercise-id]", run: runComplete},
	{name: "regenerate", usage: "regenerate <session-id>", run: runRegenerate},
	{name: "assess", usage: "assess <file.json>", run: runAssess},
	{name: "nutrition", usage: "nutrition [-html file]", run: runNutrition},
	{name: "meals", usage: "meals [-import file.json] [-toggle item-id] [-add name] [-html file]", run: runMeals},
	{name: "sync", usage: "sync", run: runSync},
	{name: "daemon", usage: "daemon", run: runDaemon},
}

func lookupCommand(args []string) (command, error) {
	if len(args) == 0 {
		var b strings.Builder
		for _, c := range commands {
			b.WriteString("\n  planner " + c.usage)
		}
		return command{}, fmt.Errorf("%w%s", errUsage, b.String())
	}
	i := slices.IndexFunc(commands, func(c command) bool { return c.name == args[0] })
	if i < 0 {
		return command{}, errors.Wrap(errUnknownCommand, args[0], slog.String("command", args[0]))
	}
	return commands[i], nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func wrongArgs(usage string) error {
	return fmt.Errorf("%w: usage: planner %s", errUsage, usage)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err = json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// render writes markdown to stdout and, when htmlPath is set, the HTML rendering to that file.
func (a *app) render(htmlPath string, write func(w io.Writer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	if _, err := a.stdout.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	if htmlPath == "" {
		return nil
	}
	f, err := os.Create(htmlPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", htmlPath, err)
	}
	if err = report.HTML(f, buf.Bytes()); err != nil {
		return errors.Join(fmt.Errorf("render html: %w", err), f.Close())
	}
	return f.Close()
}

func runProfile(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return wrongArgs("profile <file.json>")
	}
	var p profile.FitnessProfile
	if err := readJSON(args[0], &p); err != nil {
		return err
	}
	saved, err := a.service.SaveProfile(ctx, p)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.stdout, "profile saved: goal %s, level %s, %d days, BMI %.1f\n",
		saved.Goal, saved.FitnessLevel, saved.AvailableDays, saved.BMI())
	return err
}

func runPlan(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("plan")
	regenerate := fs.Bool("regenerate", false, "generate a new plan even if this week already has one")
	asJSON := fs.Bool("json", false, "print the plan as JSON")
	htmlPath := fs.String("html", "", "also write the plan as HTML to this file")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	var (
		plan *workout.WeeklyPlan
		err  error
	)
	if *regenerate {
		plan, err = a.service.GenerateWeeklyPlan(ctx)
	} else {
		plan, err = a.service.EnsureWeeklyPlan(ctx)
	}
	if err != nil {
		return err
	}
	if plan == nil {
		return errNoProfile
	}
	if *asJSON {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	}
	return a.render(*htmlPath, func(w io.Writer) error {
		return report.WeeklyPlanMarkdown(w, *plan, a.lang)
	})
}

func runComplete(ctx context.Context, a *app, args []string) error {
	var (
		session workout.WorkoutSession
		err     error
	)
	switch len(args) {
	case 1:
		session, err = a.service.ToggleSessionCompletion(ctx, args[0])
	case 2: //nolint:mnd // session and exercise id.
		session, err = a.service.ToggleExerciseCompletion(ctx, args[0], args[1])
	default:
		return wrongArgs("complete <session-id> [exercise-id]")
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.stdout, "%s: %d/%d exercises done, completed %t\n",
		session.Name, len(session.CompletedExercises), len(session.Exercises), session.Completed)
	return err
}

func runRegenerate(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return wrongArgs("regenerate <session-id>")
	}
	session, err := a.service.RegenerateSession(ctx, args[0])
	if err != nil {
		return err
	}
	for _, e := range session.MainExercises() {
		if _, err = fmt.Fprintf(a.stdout, "%s\t%s\t%dx%s\n", e.ID, e.Name, e.Sets, e.Reps); err != nil {
			return err
		}
	}
	return nil
}

func runAssess(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return wrongArgs("assess <file.json>")
	}
	var assessment nutrition.NutritionAssessment
	if err := readJSON(args[0], &assessment); err != nil {
		return err
	}
	plan, err := a.service.SaveNutritionAssessment(ctx, assessment)
	if err != nil {
		return err
	}
	return report.NutritionPlanMarkdown(a.stdout, plan, a.lang)
}

func runNutrition(_ context.Context, a *app, args []string) error {
	fs := newFlagSet("nutrition")
	htmlPath := fs.String("html", "", "also write the nutrition plan as HTML to this file")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	plan, ok := a.service.NutritionPlan()
	if !ok {
		return coach.ErrNoPlan
	}
	return a.render(*htmlPath, func(w io.Writer) error {
		return report.NutritionPlanMarkdown(w, plan, a.lang)
	})
}

func runMeals(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("meals")
	importPath := fs.String("import", "", "replace the meal plan with the one in this JSON file")
	toggle := fs.String("toggle", "", "check or uncheck a grocery item")
	add := fs.String("add", "", "add a grocery item")
	htmlPath := fs.String("html", "", "also write the meal plan as HTML to this file")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	if *importPath != "" {
		var p nutrition.WeeklyMealPlan
		if err := readJSON(*importPath, &p); err != nil {
			return err
		}
		if _, err := a.service.SaveMealPlan(ctx, p); err != nil {
			return err
		}
	}
	if *toggle != "" {
		if _, err := a.service.ToggleGroceryItem(ctx, *toggle); err != nil {
			return err
		}
	}
	if *add != "" {
		if _, err := a.service.AddGroceryItem(ctx, *add); err != nil {
			return err
		}
	}

	plan, ok := a.service.MealPlan()
	if !ok {
		return coach.ErrNoPlan
	}
	var groceries *nutrition.GroceryList
	if list, found := a.service.GroceryList(); found {
		groceries = &list
	}
	return a.render(*htmlPath, func(w io.Writer) error {
		return report.MealPlanMarkdown(w, plan, groceries, a.lang)
	})
}

func runSync(ctx context.Context, a *app, _ []string) error {
	n, err := a.service.FlushOutbox(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.stdout, "pushed %d documents\n", n)
	return err
}

func runDaemon(ctx context.Context, a *app, _ []string) error {
	if _, err := a.service.FlushOutbox(ctx); err != nil {
		if errors.Is(err, coach.ErrSyncDisabled) {
			return err
		}
		a.logger.LogAttrs(ctx, slog.LevelWarn, "initial flush failed", errors.SlogError(err))
	}
	if err := a.service.StartSchedule(a.cfg.SyncSchedule); err != nil {
		return err
	}
	<-ctx.Done()
	a.logger.LogAttrs(ctx, slog.LevelInfo, "sync daemon stopping")
	return nil
}
