package session

import (
	"fmt"
	"io"
	"strings"

	"github.com/justapithecus/hilt/types"
)

const (
	ruleHeavy = "======================================================================"
	ruleLight = "----------------------------------------------------------------------"
)

func writeIntro(w io.Writer, task types.Task) {
	fmt.Fprintln(w, ruleHeavy)
	switch task {
	case types.TaskClassify:
		fmt.Fprintln(w, "CLASSIFICATION: semantic similarity labeling")
		fmt.Fprintln(w, ruleHeavy)
		fmt.Fprintln(w, "You will label whether sentence pairs are semantically similar.")
		fmt.Fprintln(w, "For each item you will see a base sentence and a test sentence.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  t / true  - the sentences ARE semantically similar")
		fmt.Fprintln(w, "  f / false - the sentences are NOT semantically similar")
	case types.TaskRank:
		fmt.Fprintln(w, "RANKING: pairwise similarity comparison")
		fmt.Fprintln(w, ruleHeavy)
		fmt.Fprintln(w, "You will choose which of two sentences is more similar to a base sentence.")
		fmt.Fprintln(w, "For each item you will see a base sentence and candidates (a) and (b).")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  a - sentence (a) is more similar to the base")
		fmt.Fprintln(w, "  b - sentence (b) is more similar to the base")
	}
	fmt.Fprintln(w, "  s / skip  - skip the current item")
	fmt.Fprintln(w, "  h / help  - show the help menu")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Press Ctrl+C to exit at any time; completed items are saved as you go.")
	fmt.Fprintln(w)
}

func writeHelpMenu(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, ruleHeavy)
	fmt.Fprintln(w, "HELP MENU")
	fmt.Fprintln(w, ruleHeavy)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  1 - task-specific help")
	fmt.Fprintln(w, "  2 - recall the introduction message")
	fmt.Fprintln(w, "  3 - general help")
	fmt.Fprintln(w)
}

func writeTaskHelp(w io.Writer, task types.Task) {
	switch task {
	case types.TaskClassify:
		fmt.Fprintln(w, "CLASSIFICATION HELP")
		fmt.Fprintln(w, ruleLight)
		fmt.Fprintln(w, "Decide whether the test sentence has a similar meaning to the base.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  Base: 'The cat sits on the mat'")
		fmt.Fprintln(w, "  Test: 'A feline rests on the rug'")
		fmt.Fprintln(w, "  -> t (similar meaning)")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  Base: 'I love programming'")
		fmt.Fprintln(w, "  Test: 'The weather is cold today'")
		fmt.Fprintln(w, "  -> f (different meaning)")
	case types.TaskRank:
		fmt.Fprintln(w, "RANKING HELP")
		fmt.Fprintln(w, ruleLight)
		fmt.Fprintln(w, "Choose which candidate sentence is more similar to the base.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  Base: 'The weather is nice today'")
		fmt.Fprintln(w, "  (a):  'It's a beautiful sunny day'")
		fmt.Fprintln(w, "  (b):  'I need to buy groceries'")
		fmt.Fprintln(w, "  -> a")
	}
	fmt.Fprintln(w)
}

func writeGeneralHelp(w io.Writer) {
	lines := []string{
		"GENERAL HELP",
		ruleLight,
		"",
		"Keyboard shortcuts:",
		"  h      - show the help menu",
		"  s      - skip the current item",
		"  Ctrl+C - exit; completed items are already saved",
		"",
		"Validation:",
		"  - text is folded to 7-bit ASCII for console compatibility",
		"  - records with missing/empty fields or over-length text are skipped",
		"  - skipped items are logged with redacted previews, never full text",
		"",
		"Reproducibility:",
		"  - items are shuffled with the --seed value (default 42)",
		"  - the same seed always produces the same order",
		"",
		"Metrics:",
		"  - accuracy:  overall fraction of correct labels",
		"  - precision: of items labeled X, how many were actually X",
		"  - recall:    of actual X items, how many were labeled X",
		"  - F1:        harmonic mean of precision and recall",
	}
	fmt.Fprintln(w, strings.Join(lines, "\n"))
	fmt.Fprintln(w)
}
