package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kkernick/MG-GA/genetic"
	"github.com/kkernick/MG-GA/metric"
	"github.com/kkernick/MG-GA/mingen"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	statStyle  = lipgloss.NewStyle().Faint(true)
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	tableStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// formatCount renders a state count, spelling out the unbounded sentinel.
func formatCount(n uint64) string {
	if n == ^uint64(0) {
		return "beyond counting"
	}
	return fmt.Sprintf("%d", n)
}

func renderSearchProgress(p mingen.Progress) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("MinGen"))
	b.WriteByte('\n')
	b.WriteString(statStyle.Render(fmt.Sprintf("States: %d/%s (pruning not accounted for)",
		p.States, formatCount(p.Distinct))))
	b.WriteByte('\n')
	if math.IsInf(p.Best, 1) {
		b.WriteString(statStyle.Render("Score: searching for a first candidate"))
	} else {
		b.WriteString(statStyle.Render(fmt.Sprintf("Score (smaller is better): %g", p.Best)))
	}
	b.WriteByte('\n')
	if p.Table != nil {
		b.WriteString(tableStyle.Render(strings.TrimRight(p.Table.Render(), "\n")))
		b.WriteByte('\n')
	}
	return b.String()
}

func renderOptimizerProgress(p genetic.Progress) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Genetic"))
	b.WriteByte('\n')
	b.WriteString(statStyle.Render(fmt.Sprintf("Generation: %d/%d", p.Generation, p.Generations)))
	b.WriteByte('\n')
	if !math.IsInf(p.Best, -1) {
		b.WriteString(statStyle.Render(fmt.Sprintf("Fitness (larger is better): %g", p.Best)))
		b.WriteByte('\n')
	}
	if p.Table != nil {
		b.WriteString(tableStyle.Render(strings.TrimRight(p.Table.Render(), "\n")))
		b.WriteByte('\n')
	}
	return b.String()
}

func printCacheStats(cs metric.CacheStats) {
	fmt.Printf("Match cache: %d hits at a rate of %.3f (%d trims)\n",
		cs.MatchHits, cs.MatchRate, cs.Trims)
	fmt.Printf("Score cache: %d hits at a rate of %.3f\n", cs.ScoreHits, cs.ScoreRate)
}

func printSearchResult(res *mingen.Result) {
	if res.AlreadyAnonymous {
		fmt.Println("Input already meets the k-anonymity threshold.")
		return
	}

	fmt.Println(titleStyle.Render("=== RESULTS ==="))
	for _, t := range res.Tables {
		fmt.Println(t.Render())
	}
	if res.Suboptimal {
		fmt.Println(warnStyle.Render("Search was cut short; a better table may exist."))
	}
	fmt.Printf("Score (smaller is better): %g across %d instances\n", res.Score, len(res.Tables))
	fmt.Printf("States: %d of %s in %s\n",
		res.Stats.States, formatCount(res.Stats.Distinct), res.Stats.Duration)
	printCacheStats(res.Stats.Cache)
}

func printOptimizerResult(res *genetic.Result) {
	if res.AlreadyAnonymous {
		fmt.Println("Input already meets the k-anonymity threshold.")
		return
	}

	fmt.Println(titleStyle.Render("=== RESULTS ==="))
	for _, t := range res.Tables {
		fmt.Println(t.Render())
	}
	if !res.Anonymous {
		fmt.Println(warnStyle.Render(
			"WARNING: the best table is not k-anonymous. Increase generations or population."))
	}
	fmt.Printf("Fitness (larger is better): %g across %d instances, score %g\n",
		res.Fitness, len(res.Tables), res.Score)
	fmt.Printf("Tables evaluated: %d of %s possible\n",
		res.Stats.States, formatCount(res.Stats.Distinct))
	printCacheStats(res.Stats.Cache)
}
