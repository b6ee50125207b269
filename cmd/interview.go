package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pders01/interview/internal/answerfile"
	"github.com/pders01/interview/internal/canonical"
	"github.com/pders01/interview/internal/config"
	"github.com/pders01/interview/internal/errors"
	"github.com/pders01/interview/internal/interview"
	"github.com/pders01/interview/internal/logging"
	"github.com/pders01/interview/internal/models"
	"github.com/pders01/interview/internal/options"
	"github.com/pders01/interview/internal/oracle"
	"github.com/pders01/interview/internal/planner"
	"github.com/pders01/interview/internal/validate"
)

// Commands typed at the prompt.
const (
	commandBack    = ":retour"
	commandSkip    = ":passer"
	commandRestart = ":recommencer"
	commandQuit    = ":quitter"
)

var (
	interviewRemote bool
	interviewSave   bool
	interviewOutput string
)

func init() {
	rootCmd.Flags().BoolVar(&interviewRemote, "remote", false, "Ask the configured next-question service instead of the built-in step table")
	rootCmd.Flags().BoolVar(&interviewSave, "save", false, "Save answers to the answers directory when the interview completes")
	rootCmd.Flags().StringVarP(&interviewOutput, "output", "o", "", "Save answers to this file when the interview completes")
}

func runInterview(cmd *cobra.Command, args []string) error {
	logger, err := logging.New(config.GetLogJSON(), config.GetLogLevel())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	o, d, err := newOracle(logger)
	if err != nil {
		return err
	}

	engine := interview.New(o,
		interview.WithDescriber(d),
		interview.WithLogger(logger),
		interview.WithSkipText(config.GetSkipText()))

	ctx := context.Background()
	if cmd != nil && cmd.Context() != nil {
		ctx = cmd.Context()
	}

	out := stdout(cmd)
	completed, err := converse(ctx, engine, stdin(cmd), out)
	if err != nil || !completed {
		return err
	}

	path := interviewOutput
	if path == "" && interviewSave {
		path = filepath.Join(config.GetAnswersDir(), answerfile.FileName(time.Now()))
	}
	if path == "" {
		return nil
	}
	if err := answerfile.Save(path, answerfile.Build(engine.Banner().Title, engine.Answers(), time.Now())); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nRéponses enregistrées : %s\n", path)
	return nil
}

// newOracle returns the question source and the description source.
func newOracle(logger *zap.Logger) (interview.Oracle, interview.Describer, error) {
	if !interviewRemote {
		local := planner.NewLocalOracle(planner.BenefitsSteps(), planner.BenefitsMeta, logger)
		return local, local, nil
	}

	url := config.GetOracleURL()
	if !oracle.IsAvailable(url) {
		fmt.Fprintf(os.Stderr, "Warning: next-question service at %s is not reachable\n", url)
	}
	client, err := oracle.NewClient(url,
		oracle.WithTimeout(config.GetOracleTimeout()),
		oracle.WithPaths(config.GetNextQuestionPath(), config.GetQuestionnairePath()),
		oracle.WithLogger(logger))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create oracle client: %w", err)
	}
	return client, client, nil
}

// converse runs the prompt loop until the interview completes, the user
// quits or input ends. It reports whether the interview completed.
func converse(ctx context.Context, e *interview.Engine, in io.Reader, out io.Writer) (bool, error) {
	scanner := bufio.NewScanner(in)

	if err := start(ctx, scanner, out, e.Start); err != nil {
		return false, err
	}
	printBanner(out, e.Banner())

	for !e.Completed() {
		q := e.Current()
		printQuestion(out, q)
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return false, scanner.Err()
		}

		var err error
		switch line := strings.TrimSpace(scanner.Text()); line {
		case commandQuit:
			return false, nil
		case commandBack:
			if !e.GoBack() {
				fmt.Fprintln(out, "Vous êtes déjà à la première question.")
			}
		case commandSkip:
			err = e.Skip(ctx)
		case commandRestart:
			if err := restart(ctx, scanner, out, e); err != nil {
				return false, err
			}
			printBanner(out, e.Banner())
		default:
			err = e.Answer(ctx, parseInput(*q, line))
		}
		if err != nil {
			fmt.Fprintf(out, "%s\n\n", errors.UserMessage(err))
		}
	}

	msgs := e.Messages()
	fmt.Fprintf(out, "\n%s\n\n%s\n", msgs[len(msgs)-1].Text, e.Summary())
	return true, nil
}

// start calls begin until it succeeds or the user declines to retry.
func start(ctx context.Context, scanner *bufio.Scanner, out io.Writer, begin func(context.Context) error) error {
	err := begin(ctx)
	for err != nil {
		if !retry(scanner, out, err) {
			return fmt.Errorf("failed to start interview: %w", err)
		}
		err = begin(ctx)
	}
	return nil
}

// restart begins the interview again. A failed restart leaves the engine
// uninitialized, so the user is asked before starting over.
func restart(ctx context.Context, scanner *bufio.Scanner, out io.Writer, e *interview.Engine) error {
	err := e.Restart(ctx)
	if err == nil {
		return nil
	}
	if !retry(scanner, out, err) {
		return fmt.Errorf("failed to restart interview: %w", err)
	}
	return start(ctx, scanner, out, e.Start)
}

func retry(scanner *bufio.Scanner, out io.Writer, err error) bool {
	fmt.Fprintln(out, errors.UserMessage(err))
	fmt.Fprint(out, "Réessayer ? (o/n) ")
	if !scanner.Scan() || !confirmed(scanner.Text()) {
		fmt.Fprintln(out)
		return false
	}
	return true
}

func confirmed(answer string) bool {
	switch canonical.String(answer) {
	case "o", "oui", "y", "yes":
		return true
	default:
		return false
	}
}

func printBanner(out io.Writer, meta oracle.Meta) {
	if meta.Title == "" {
		return
	}
	fmt.Fprintf(out, "%s\n%s\n", meta.Title, strings.Repeat("=", len([]rune(meta.Title))))
	if meta.Description != "" {
		fmt.Fprintln(out, meta.Description)
	}
	fmt.Fprintln(out)
}

func printQuestion(out io.Writer, q *models.Question) {
	label := q.Label
	if q.Unit != "" {
		label = fmt.Sprintf("%s (%s)", label, q.Unit)
	}
	fmt.Fprintln(out, label)

	switch q.Type {
	case models.TypeSelect, models.TypeMultiSelect:
		for i, opt := range q.Options {
			fmt.Fprintf(out, "  %d. %s\n", i+1, opt.Label)
		}
		if q.Type == models.TypeMultiSelect {
			fmt.Fprintln(out, "  (numéros ou libellés séparés par des virgules)")
		}
	case models.TypeBoolean:
		fmt.Fprintln(out, "  (Oui/Non)")
	case models.TypeDate:
		fmt.Fprintln(out, "  (JJ/MM/AAAA)")
	}
	if !q.Required {
		fmt.Fprintf(out, "  (facultatif, %s pour passer)\n", commandSkip)
	}
}

// parseInput maps a typed line to validation input. Options can be picked
// by their number.
func parseInput(q models.Question, line string) validate.Input {
	switch q.Type {
	case models.TypeSelect, models.TypeBoolean:
		return validate.Input{Choice: pick(q.Options, line)}
	case models.TypeMultiSelect:
		var choices []string
		for _, part := range strings.Split(line, ",") {
			if part = strings.TrimSpace(part); part != "" {
				choices = append(choices, pick(q.Options, part))
			}
		}
		return validate.Input{Choices: choices}
	default:
		return validate.Input{Text: line}
	}
}

func pick(opts []options.Option, choice string) string {
	n, err := strconv.Atoi(strings.TrimSpace(choice))
	if err != nil || n < 1 || n > len(opts) {
		return choice
	}
	return opts[n-1].Value
}
