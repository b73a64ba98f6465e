package table_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kkernick/MG-GA/domain"
	"github.com/kkernick/MG-GA/table"
)

// mkEducated builds a fixture with a hierarchy-backed column.
func mkEducated(t *testing.T) *table.Table {
	t.Helper()
	edu := domain.New("Education")
	edu.Add("Undergraduate", "Bachelors")
	edu.Add("Graduate", "Masters")
	edu.Add("Graduate", "PhD")

	tbl, err := table.New(
		[]table.Spec{
			{Name: "Education", Kind: table.String, Sensitivity: table.Quasi, Hierarchy: edu},
			{Name: "Age", Kind: table.Integer, Sensitivity: table.Quasi},
		},
		[][]string{
			{"Bachelors", "25"},
			{"Masters", "30"},
			{"PhD", "40"},
		})
	require.NoError(t, err)
	return tbl
}

// TestMutations_Hierarchy verifies the candidate order for a hierarchy
// value: suppression, the value, then its ancestors.
func TestMutations_Hierarchy(t *testing.T) {
	tbl := mkEducated(t)
	assert.Equal(t, []string{"*", "Masters", "Graduate"}, tbl.Mutations(1, 0, nil))
	assert.Equal(t, []string{"*", "Bachelors", "Undergraduate"}, tbl.Mutations(0, 0, nil))
}

// TestMutations_Integer verifies that integer cells offer every containing
// candidate range.
func TestMutations_Integer(t *testing.T) {
	tbl := mkEducated(t)
	assert.Equal(t, []string{"*", "25", "[25-30]"}, tbl.Mutations(0, 1, nil))
	assert.Equal(t, []string{"*", "30", "[25-30]", "[30-40]"}, tbl.Mutations(1, 1, nil))
	assert.Equal(t, []string{"*", "40", "[30-40]"}, tbl.Mutations(2, 1, nil))
}

// TestMutations_SuppressedIsTerminal verifies that a suppressed cell can
// only stay suppressed.
func TestMutations_SuppressedIsTerminal(t *testing.T) {
	tbl := mkEducated(t)
	require.NoError(t, tbl.SetCell(0, 0, table.Suppressed))
	assert.Equal(t, []string{table.Suppressed}, tbl.Mutations(0, 0, nil))
}

// TestMutations_RangeCell verifies that a range-form cell only widens into
// candidate ranges that strictly contain it.
func TestMutations_RangeCell(t *testing.T) {
	tbl, err := table.New(
		[]table.Spec{{Name: "Age", Kind: table.Integer, Sensitivity: table.Quasi}},
		[][]string{{"[25-30]"}, {"40"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"*", "[25-30]"}, tbl.Mutations(0, 0, nil))
}

// TestMutations_NonQuasi verifies that ignored and sensitive columns have
// no mutation space.
func TestMutations_NonQuasi(t *testing.T) {
	tbl, err := table.New(
		[]table.Spec{{Name: "Salary", Kind: table.Integer, Sensitivity: table.Sensitive}},
		[][]string{{"40000"}})
	require.NoError(t, err)
	assert.Nil(t, tbl.Mutations(0, 0, nil))
	assert.Equal(t, uint64(1), tbl.Distinct())
}

// TestMutations_Shuffled verifies that a shuffled draw is a permutation of
// the deterministic set.
func TestMutations_Shuffled(t *testing.T) {
	tbl := mkEducated(t)
	plain := tbl.Mutations(1, 1, nil)
	shuffled := tbl.Mutations(1, 1, rand.New(rand.NewSource(7)))
	assert.ElementsMatch(t, plain, shuffled)
}

// TestDistinct verifies the mutation-space product over quasi cells only.
func TestDistinct(t *testing.T) {
	tbl := mkEducated(t)
	// Education cells offer 3 candidates each, ages offer 3, 4 and 3.
	assert.Equal(t, uint64(3*3*3*3*4*3), tbl.Distinct())
}

// TestRandom verifies that random tables stay within the legal mutation
// space of the original.
func TestRandom(t *testing.T) {
	tbl := mkEducated(t)
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 10; i++ {
		got := tbl.Random(rng)
		for _, c := range tbl.Quasi() {
			for r := 0; r < tbl.Rows(); r++ {
				assert.Contains(t, tbl.Mutations(r, c, nil), got.Cell(r, c))
			}
		}
	}
}
