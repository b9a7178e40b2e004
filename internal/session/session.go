// Package session implements the interactive tutor loop: lesson display,
// SQL prompt, meta commands, and course progression. It is a thin
// presentation shell over the repository, dataset builder, and validator.
package session

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/sqlean/sqlean/internal/config"
	"github.com/sqlean/sqlean/internal/content"
	"github.com/sqlean/sqlean/internal/dataset"
	"github.com/sqlean/sqlean/internal/errors"
	"github.com/sqlean/sqlean/internal/observability"
	"github.com/sqlean/sqlean/internal/query"
	"github.com/sqlean/sqlean/internal/validator"
	"github.com/sqlean/sqlean/pkg/types"
)

// outcome reports how a single lesson ended.
type outcome int

const (
	outcomePassed outcome = iota
	outcomeQuit
)

// Session drives one learner through the course.
type Session struct {
	cfg       *config.Config
	repo      *content.Repository
	builder   *dataset.Builder
	exec      *query.Executor
	validator *validator.Validator
	stats     *observability.SessionStats

	in  *bufio.Scanner
	out io.Writer
}

// New creates a session reading learner input from in and writing to out.
func New(cfg *config.Config, repo *content.Repository, builder *dataset.Builder, in io.Reader, out io.Writer) *Session {
	exec := query.NewExecutor(cfg.Query.Timeout)
	return &Session{
		cfg:       cfg,
		repo:      repo,
		builder:   builder,
		exec:      exec,
		validator: validator.New(exec),
		stats:     observability.NewSessionStats(),
		in:        bufio.NewScanner(in),
		out:       out,
	}
}

// Stats exposes the session's attempt statistics.
func (s *Session) Stats() *observability.SessionStats {
	return s.stats
}

// Run walks the course from its first lesson.
func (s *Session) Run(ctx context.Context) error {
	moduleID, lessonID, ok := s.repo.First()
	if !ok {
		// Load rejects empty manifests and empty modules, so an empty
		// course here means a repository invariant broke.
		return errors.NewInternalError("course has no lessons", nil)
	}
	return s.RunFrom(ctx, moduleID, lessonID)
}

// RunFrom walks the course starting at the given lesson, advancing on every
// pass until the course ends or the learner quits.
func (s *Session) RunFrom(ctx context.Context, moduleID string, lessonID int) error {
	fmt.Fprintln(s.out, "Welcome to sqlean!")
	fmt.Fprintln(s.out)

	completed := false
	for {
		module, err := s.repo.Module(moduleID)
		if err != nil {
			return err
		}
		lesson, err := s.repo.Lesson(moduleID, lessonID)
		if err != nil {
			return err
		}

		s.displayLesson(module, lesson)

		result, err := s.runLesson(ctx, module, lesson)
		if err != nil {
			return err
		}
		if result == outcomeQuit {
			break
		}

		nextModule, nextLesson, ok := s.repo.Next(moduleID, lessonID)
		if !ok {
			completed = true
			break
		}
		fmt.Fprintln(s.out, "Moving to the next lesson...")
		fmt.Fprintln(s.out)
		moduleID, lessonID = nextModule, nextLesson
	}

	if completed {
		fmt.Fprintln(s.out, "Congratulations! You have completed the entire course!")
	}
	s.printSummary()
	fmt.Fprintln(s.out, "Goodbye!")
	return nil
}

// runLesson is the inner prompt loop for a single exercise.
func (s *Session) runLesson(ctx context.Context, module *content.Module, lesson *content.Lesson) (outcome, error) {
	var buffer []string

	for {
		if err := ctx.Err(); err != nil {
			return outcomeQuit, nil
		}

		promptText := "sql> "
		if len(buffer) > 0 {
			promptText = "...> "
		}
		fmt.Fprint(s.out, promptText)

		if !s.in.Scan() {
			return outcomeQuit, s.in.Err()
		}
		line := strings.TrimSpace(s.in.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, `\`) && len(buffer) == 0 {
			quit, err := s.handleMetaCommand(ctx, line, module, lesson)
			if err != nil {
				return outcomeQuit, err
			}
			if quit {
				return outcomeQuit, nil
			}
			continue
		}

		// Buffer lines until the statement terminator arrives
		buffer = append(buffer, line)
		if !strings.HasSuffix(line, ";") {
			continue
		}
		userQuery := strings.Join(buffer, " ")
		buffer = nil

		verdict, err := s.attempt(ctx, module, lesson, userQuery)
		if err != nil {
			return outcomeQuit, err
		}

		if verdict.Passed {
			fmt.Fprintln(s.out, "PASS "+verdict.Message)
			return outcomePassed, nil
		}
		fmt.Fprintln(s.out, "FAIL "+verdict.Message)
		s.echoUserRows(ctx, module, userQuery, verdict.EngineError)
	}
}

// attempt builds a fresh sandbox, validates the query, and records stats.
func (s *Session) attempt(ctx context.Context, module *content.Module, lesson *content.Lesson, userQuery string) (types.Verdict, error) {
	db, err := s.builder.Build(ctx, module.Dataset)
	if err != nil {
		// Setup failures are the lesson's fault, not the learner's
		log.Printf("session: dataset build failed for %s: %v", module.Dataset, err)
		return types.Verdict{}, fmt.Errorf("this lesson is misconfigured: %w", err)
	}
	defer db.Close()

	rebuild := func(ctx context.Context) (*sql.DB, error) {
		return s.builder.Build(ctx, module.Dataset)
	}

	start := time.Now()
	verdict := s.validator.Validate(ctx, &lesson.Validation, userQuery, db, rebuild)
	s.stats.RecordAttempt(
		fmt.Sprintf("%s:%d", module.ID, lesson.ID),
		verdict.Passed, verdict.EngineError, time.Since(start))

	return verdict, nil
}

// echoUserRows shows the learner what their read-only query actually
// returned, which is usually the fastest way to spot the mistake.
func (s *Session) echoUserRows(ctx context.Context, module *content.Module, userQuery string, engineError bool) {
	if engineError || !query.ReturnsRows(userQuery) {
		return
	}

	db, err := s.builder.Build(ctx, module.Dataset)
	if err != nil {
		return
	}
	defer db.Close()

	result := s.exec.Execute(ctx, db, userQuery)
	if result.Failed() || !result.HasRows() {
		return
	}

	fmt.Fprintln(s.out, "This is what your query returned:")
	if result.RowCount() == 0 {
		fmt.Fprintln(s.out, "(no rows)")
		return
	}
	renderTable(s.out, result.Columns, result.Rows, s.cfg.Display.MaxRows)
}

// handleMetaCommand processes a backslash command. Returns true on \quit.
func (s *Session) handleMetaCommand(ctx context.Context, command string, module *content.Module, lesson *content.Lesson) (bool, error) {
	switch command {
	case `\help`:
		fmt.Fprintln(s.out, `Meta commands:
  \hint    Show a hint for the current exercise.
  \schema  Show the schema for the current database.
  \solve   Show the solution query (does not pass the lesson).
  \quit    Exit the tutor.`)

	case `\hint`:
		hint := lesson.Hint
		if hint == "" {
			hint = "No hint available for this exercise."
		}
		fmt.Fprintln(s.out, "Hint: "+hint)

	case `\schema`:
		db, err := s.builder.Build(ctx, module.Dataset)
		if err != nil {
			return false, fmt.Errorf("this lesson is misconfigured: %w", err)
		}
		defer db.Close()
		info, err := dataset.Introspect(ctx, db)
		if err != nil {
			fmt.Fprintln(s.out, "Error: could not load schema.")
			return false, nil
		}
		fmt.Fprintln(s.out, info)

	case `\solve`:
		fmt.Fprintln(s.out, "Solution: "+lesson.Validation.SolutionQuery)

	case `\quit`:
		return true, nil

	default:
		fmt.Fprintf(s.out, "Unknown command %s. Type \\help for commands.\n", command)
	}
	return false, nil
}

// displayLesson prints the lesson header, concept text, and exercise.
func (s *Session) displayLesson(module *content.Module, lesson *content.Lesson) {
	fmt.Fprintf(s.out, "=== %s: %s ===\n\n", module.Title, lesson.Title)
	fmt.Fprintln(s.out, lesson.Text)
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Exercise: "+lesson.Exercise)
	if lesson.SchemaSnippet != "" {
		fmt.Fprintln(s.out, "Schema: "+lesson.SchemaSnippet)
	}
	fmt.Fprintln(s.out, `Type your SQL query below, ending with ';'. Type \help for commands.`)
}

// printSummary writes per-lesson attempt stats at the end of the session.
func (s *Session) printSummary() {
	summary := s.stats.Summary()
	if len(summary) == 0 {
		return
	}
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Session summary:")
	for _, lesson := range summary {
		fmt.Fprintf(s.out, "  %-16s attempts=%d passes=%d errors=%d time=%s\n",
			lesson.Lesson, lesson.Attempts, lesson.Passes, lesson.EngineErrors,
			lesson.TotalDuration.Round(time.Millisecond))
	}
}
