package mingen_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kkernick/MG-GA/domain"
	"github.com/kkernick/MG-GA/metric"
	"github.com/kkernick/MG-GA/mingen"
	"github.com/kkernick/MG-GA/table"
)

// mkTrio builds the smallest interesting input: unique names force full
// suppression, and the lone age 20 can only hide behind suppression, since
// the single pairwise range equals the span and is no candidate.
func mkTrio(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New(
		[]table.Spec{
			{Name: "Name", Kind: table.String, Sensitivity: table.Quasi},
			{Name: "Age", Kind: table.Integer, Sensitivity: table.Quasi},
		},
		[][]string{{"A", "10"}, {"B", "20"}, {"C", "10"}})
	require.NoError(t, err)
	return tbl
}

// mkPeople builds the full fixture: names, an integer age, a sex, two
// hierarchy-backed columns, and a sensitive salary.
func mkPeople(t *testing.T) *table.Table {
	t.Helper()
	edu := domain.New("Education")
	edu.Add("Undergraduate", "Bachelors")
	edu.Add("Graduate", "Masters")
	edu.Add("Graduate", "PhD")
	job := domain.New("Job")
	job.Add("Blue Collar", "Mechanic")
	job.Add("Blue Collar", "Plumber")
	job.Add("White Collar", "Engineer")
	job.Add("White Collar", "Doctor")

	tbl, err := table.New(
		[]table.Spec{
			{Name: "Name", Kind: table.String, Sensitivity: table.Quasi},
			{Name: "Age", Kind: table.Integer, Sensitivity: table.Quasi},
			{Name: "Sex", Kind: table.String, Sensitivity: table.Quasi},
			{Name: "Education", Kind: table.String, Sensitivity: table.Quasi, Hierarchy: edu},
			{Name: "Job", Kind: table.String, Sensitivity: table.Quasi, Hierarchy: job},
			{Name: "Salary", Kind: table.Integer, Sensitivity: table.Sensitive},
		},
		[][]string{
			{"Bob", "25", "M", "Bachelors", "Mechanic", "40000"},
			{"Carol", "30", "F", "Masters", "Engineer", "60000"},
			{"Dave", "25", "M", "Bachelors", "Plumber", "35000"},
			{"Erin", "40", "F", "PhD", "Doctor", "90000"},
		})
	require.NoError(t, err)
	return tbl
}

// TestNew_Validation covers the constructor rejects.
func TestNew_Validation(t *testing.T) {
	_, err := mingen.New(nil, mingen.DefaultOptions())
	assert.ErrorIs(t, err, mingen.ErrNilTable)

	empty, err := table.New(
		[]table.Spec{{Name: "X", Kind: table.String, Sensitivity: table.Quasi}}, nil)
	require.NoError(t, err)
	_, err = mingen.New(empty, mingen.DefaultOptions())
	assert.ErrorIs(t, err, mingen.ErrNoRows)

	opts := mingen.DefaultOptions()
	opts.K = 0
	_, err = mingen.New(mkTrio(t), opts)
	assert.ErrorIs(t, err, mingen.ErrBadK)
}

// TestSearch_AlreadyAnonymous verifies the short circuit: an input meeting
// the threshold comes back untouched.
func TestSearch_AlreadyAnonymous(t *testing.T) {
	tbl, err := table.New(
		[]table.Spec{{Name: "X", Kind: table.String, Sensitivity: table.Quasi}},
		[][]string{{"A"}, {"A"}})
	require.NoError(t, err)

	s, err := mingen.New(tbl, mingen.DefaultOptions())
	require.NoError(t, err)
	res, err := s.Run()
	require.NoError(t, err)

	assert.True(t, res.AlreadyAnonymous)
	require.Len(t, res.Tables, 1)
	assert.True(t, tbl.Equal(res.Tables[0]))
	assert.Zero(t, res.Score)
}

// TestSearch_SuppressionIdempotent verifies that a fully suppressed table
// is a fixed point: it is anonymous as given and nothing is searched.
func TestSearch_SuppressionIdempotent(t *testing.T) {
	tbl := mkTrio(t)
	for _, c := range tbl.Quasi() {
		for r := 0; r < tbl.Rows(); r++ {
			require.NoError(t, tbl.SetCell(r, c, table.Suppressed))
		}
	}

	s, err := mingen.New(tbl, mingen.DefaultOptions())
	require.NoError(t, err)
	res, err := s.Run()
	require.NoError(t, err)
	assert.True(t, res.AlreadyAnonymous)
	assert.True(t, tbl.Equal(res.Tables[0]))
}

// TestSearch_BruteForceParity checks pruning soundness the hard way: a
// plain enumeration of the whole mutation space must agree with the pruned
// search on the best score and on how many tables reach it.
func TestSearch_BruteForceParity(t *testing.T) {
	tbl := mkTrio(t)
	bestScore, bestCount := bruteForce(t, tbl, 2, metric.MinimalDistortion)

	s, err := mingen.New(tbl, mingen.DefaultOptions())
	require.NoError(t, err)
	res, err := s.Run()
	require.NoError(t, err)

	assert.False(t, res.AlreadyAnonymous)
	assert.False(t, res.Suboptimal)
	assert.Equal(t, bestScore, res.Score)
	assert.Len(t, res.Tables, bestCount)

	// Here the optimum is knowable by hand: every name suppressed, the
	// age 20 suppressed, and exactly one of the two tens kept. Keeping
	// both tens pins the middle row to its own index by elimination.
	assert.Equal(t, 5.0, res.Score)
	assert.Equal(t, 2, bestCount)
}

// TestSearch_CertaintyParity repeats the parity check under the certainty
// metric. With no hierarchies and no candidate ranges every mutation is a
// suppression, so certainty charges one unit per wildcard and lands on the
// same optimum as distortion.
func TestSearch_CertaintyParity(t *testing.T) {
	tbl := mkTrio(t)
	bestScore, bestCount := bruteForce(t, tbl, 2, metric.Certainty)

	opts := mingen.DefaultOptions()
	opts.Metric = metric.Certainty
	s, err := mingen.New(tbl, opts)
	require.NoError(t, err)
	res, err := s.Run()
	require.NoError(t, err)

	assert.Equal(t, bestScore, res.Score)
	assert.Len(t, res.Tables, bestCount)
	assert.Equal(t, 5.0, res.Score)
}

// bruteForce enumerates every assignment of cell mutations and returns the
// best anonymous score and how many tables reach it.
func bruteForce(t *testing.T, tbl *table.Table, k int, m metric.Metric) (float64, int) {
	t.Helper()
	e := metric.NewEngine(tbl, m, true)

	type cell struct{ r, c int }
	var cells []cell
	for _, c := range tbl.Quasi() {
		for r := 0; r < tbl.Rows(); r++ {
			cells = append(cells, cell{r, c})
		}
	}

	w := tbl.Clone()
	best, count := math.Inf(1), 0
	var walk func(int)
	walk = func(i int) {
		if i == len(cells) {
			ok, err := e.KAnonymity(w, k, w.Cols()-1)
			require.NoError(t, err)
			if !ok {
				return
			}
			sc, err := e.Score(w, math.Inf(1))
			require.NoError(t, err)
			if sc < best {
				best, count = sc, 0
			}
			if sc == best {
				count++
			}
			return
		}
		pos := cells[i]
		prev := w.Cell(pos.r, pos.c)
		for _, mut := range tbl.Mutations(pos.r, pos.c, nil) {
			require.NoError(t, w.SetCell(pos.r, pos.c, mut))
			walk(i + 1)
		}
		require.NoError(t, w.SetCell(pos.r, pos.c, prev))
	}
	walk(0)
	return best, count
}

// TestSearch_Capped verifies that a state cap cuts the search short and
// flags the result.
func TestSearch_Capped(t *testing.T) {
	opts := mingen.DefaultOptions()
	opts.MaxStates = 20
	opts.Seed = 42

	s, err := mingen.New(mkTrio(t), opts)
	require.NoError(t, err)
	res, err := s.Run()
	require.NoError(t, err)

	assert.True(t, res.Suboptimal)
	// The cap is a soft bound; a record between checks can nudge past it.
	assert.Less(t, res.Stats.States, uint64(25))
}

// TestSearch_EndToEnd runs the exhaustive search over the full fixture and
// checks the known optimum: rows pair up two and two, names suppressed,
// ages widened, educations and jobs lifted one level.
func TestSearch_EndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("exhaustive search over the full fixture")
	}
	tbl := mkPeople(t)

	s, err := mingen.New(tbl, mingen.DefaultOptions())
	require.NoError(t, err)
	res, err := s.Run()
	require.NoError(t, err)

	assert.False(t, res.AlreadyAnonymous)
	assert.False(t, res.Suboptimal)
	assert.Equal(t, 12.0, res.Score, "four names, two ages, two educations, four jobs")
	require.NotEmpty(t, res.Tables)

	verify := metric.NewEngine(tbl, metric.MinimalDistortion, true)
	for _, got := range res.Tables {
		ok, err := verify.KAnonymity(got, 2, got.Cols()-1)
		require.NoError(t, err)
		assert.True(t, ok)

		sc, err := verify.Score(got, math.Inf(1))
		require.NoError(t, err)
		assert.Equal(t, res.Score, sc)

		for r := 0; r < got.Rows(); r++ {
			assert.Equal(t, table.Suppressed, got.Cell(r, 0), "unique names cannot survive")
			assert.Equal(t, tbl.Cell(r, 2), got.Cell(r, 2), "sexes already pair up")
			assert.Equal(t, tbl.Cell(r, 5), got.Cell(r, 5), "sensitive cells are untouchable")
		}
	}

	assert.Greater(t, res.Stats.Cache.ScoreRate, 0.5, "the caches carry the search")
}

// TestSearch_EndToEndCertainty runs the exhaustive search over the full
// fixture under the certainty metric. The optimum is not hand-computed;
// instead every tied table is re-verified against a fresh engine.
func TestSearch_EndToEndCertainty(t *testing.T) {
	if testing.Short() {
		t.Skip("exhaustive search over the full fixture")
	}
	tbl := mkPeople(t)

	opts := mingen.DefaultOptions()
	opts.Metric = metric.Certainty
	s, err := mingen.New(tbl, opts)
	require.NoError(t, err)
	res, err := s.Run()
	require.NoError(t, err)

	assert.False(t, res.AlreadyAnonymous)
	assert.False(t, res.Suboptimal)
	assert.Greater(t, res.Score, 0.0)
	require.NotEmpty(t, res.Tables)

	verify := metric.NewEngine(tbl, metric.Certainty, true)
	for _, got := range res.Tables {
		ok, err := verify.KAnonymity(got, 2, got.Cols()-1)
		require.NoError(t, err)
		assert.True(t, ok)

		sc, err := verify.Score(got, math.Inf(1))
		require.NoError(t, err)
		assert.Equal(t, res.Score, sc)

		for r := 0; r < got.Rows(); r++ {
			assert.Equal(t, table.Suppressed, got.Cell(r, 0), "unique names cannot survive")
			assert.Equal(t, tbl.Cell(r, 5), got.Cell(r, 5), "sensitive cells are untouchable")
		}
	}
}

// TestSearch_Snapshot verifies that progress reporting settles on the
// final result.
func TestSearch_Snapshot(t *testing.T) {
	s, err := mingen.New(mkTrio(t), mingen.DefaultOptions())
	require.NoError(t, err)
	res, err := s.Run()
	require.NoError(t, err)

	p := s.Snapshot()
	assert.Equal(t, res.Score, p.Best)
	assert.Equal(t, res.Stats.States, p.States)
	assert.Equal(t, res.Stats.Distinct, p.Distinct)
	require.NotNil(t, p.Table)

	e := metric.NewEngine(mkTrio(t), metric.MinimalDistortion, false)
	sc, err := e.Score(p.Table, math.Inf(1))
	require.NoError(t, err)
	assert.Equal(t, res.Score, sc)
}
