package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kkernick/MG-GA/domain"
)

const hierarchies = `
Education/Undergraduate: Bachelors
Education/Graduate: Masters, PhD

Job/Blue Collar: Mechanic, Plumber
Job/White Collar: Engineer, Doctor
`

// TestParse_BuildsTrees verifies that the definition syntax yields one tree
// per distinct root, with values attached under their paths.
func TestParse_BuildsTrees(t *testing.T) {
	ds, err := domain.Parse(strings.NewReader(hierarchies))
	require.NoError(t, err)
	require.Len(t, ds, 2)
	assert.Equal(t, "Education", ds[0].Name())
	assert.Equal(t, "Job", ds[1].Name())
}

// TestFind_PathOrder verifies that Find returns the value first, then each
// ancestor, excluding the root.
func TestFind_PathOrder(t *testing.T) {
	ds, err := domain.Parse(strings.NewReader(hierarchies))
	require.NoError(t, err)
	edu := ds[0]

	assert.Equal(t, []string{"PhD", "Graduate"}, edu.Find("PhD"))
	assert.Equal(t, []string{"Graduate"}, edu.Find("Graduate"))
	assert.Empty(t, edu.Find("Kindergarten"), "absent values have no path")
}

// TestBreadth verifies sibling counts at every level, including the value
// itself.
func TestBreadth(t *testing.T) {
	ds, err := domain.Parse(strings.NewReader(hierarchies))
	require.NoError(t, err)
	edu := ds[0]

	assert.Equal(t, 2, edu.Breadth("Masters"), "Masters and PhD share a level")
	assert.Equal(t, 1, edu.Breadth("Bachelors"), "Bachelors is an only child")
	assert.Equal(t, 2, edu.Breadth("Graduate"), "two categories under the root")
	assert.Equal(t, 0, edu.Breadth("Kindergarten"), "absent values have no breadth")
}

// TestParse_BadLine verifies that a definition without a separator reports
// ErrBadLine with its line number.
func TestParse_BadLine(t *testing.T) {
	_, err := domain.Parse(strings.NewReader("Education/Graduate Masters"))
	require.ErrorIs(t, err, domain.ErrBadLine)
	assert.Contains(t, err.Error(), "line 1")
}

// TestParseFile_Empty verifies that an empty path means no hierarchies, not
// an error.
func TestParseFile_Empty(t *testing.T) {
	ds, err := domain.ParseFile("")
	require.NoError(t, err)
	assert.Nil(t, ds)
}

// TestNilDomain verifies that a nil tree behaves as absent everywhere.
func TestNilDomain(t *testing.T) {
	var d *domain.Domain
	assert.True(t, d.Empty())
	assert.Empty(t, d.Name())
	assert.Nil(t, d.Find("anything"))
	assert.Zero(t, d.Breadth("anything"))
}

// TestAdd_SharedPrefix verifies that Add reuses intermediate nodes instead
// of duplicating them.
func TestAdd_SharedPrefix(t *testing.T) {
	d := domain.New("Job")
	d.Add("Blue Collar", "Mechanic")
	d.Add("Blue Collar", "Plumber")

	assert.Equal(t, []string{"Mechanic", "Blue Collar"}, d.Find("Mechanic"))
	assert.Equal(t, 2, d.Breadth("Mechanic"))
	assert.Equal(t, 1, d.Breadth("Blue Collar"))
}
