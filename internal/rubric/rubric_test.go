package rubric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRubric = `{
  "A": {
    "A10": {"name": "A10", "points_per_subitem": [2], "desc_per_subitem": ["tenth"]},
    "A2": {"name": "A2", "points_per_subitem": [5, 5], "desc_per_subitem": ["compiles", "runs"]}
  },
  "B": {
    "B1": {"name": "B1", "points_per_subitem": [3, 2], "desc_per_subitem": ["style", "comments"], "deducting_from": 10}
  },
  "late_penalty": 0.2
}`

func TestParse(t *testing.T) {
	r, err := Parse([]byte(sampleRubric))
	require.NoError(t, err)

	require.Len(t, r.Tables, 2)
	assert.Equal(t, "A", r.Tables[0].Key)
	assert.Equal(t, "B", r.Tables[1].Key)

	require.Len(t, r.Tables[0].Items, 2)
	assert.Equal(t, "A2", r.Tables[0].Items[0].Key, "natural order puts A2 before A10")
	assert.Equal(t, "A10", r.Tables[0].Items[1].Key)
	assert.Equal(t, []Subitem{{5, "compiles"}, {5, "runs"}}, r.Tables[0].Items[0].Subitems)

	require.NotNil(t, r.LatePenalty)
	assert.InDelta(t, 0.2, *r.LatePenalty, 1e-9)

	assert.Equal(t, 3, r.ItemCount())
	// 10 + 2 + 10 (deductive item counts its deducting_from total)
	assert.Equal(t, 22, r.TotalPoints())
}

func TestParse_MisalignedSubitems(t *testing.T) {
	_, err := Parse([]byte(`{"A": {"A1": {"name": "A1", "points_per_subitem": [1, 2], "desc_per_subitem": ["only one"]}}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 point values but 1 descriptions")
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`{not json`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse rubric")
}

func TestItemPoints(t *testing.T) {
	r, err := Parse([]byte(sampleRubric))
	require.NoError(t, err)
	require.Len(t, r.Tables, 2)

	additive := r.Tables[0].Items[0]
	assert.False(t, additive.Deductive())
	assert.Equal(t, 10, additive.Points())

	deductive := r.Tables[1].Items[0]
	assert.True(t, deductive.Deductive())
	assert.Equal(t, 10, deductive.Points(), "deducting_from caps the item, not its subitems")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantValid bool
		wantPath  string
	}{
		{
			name:      "valid rubric",
			data:      sampleRubric,
			wantValid: true,
		},
		{
			name:     "missing name",
			data:     `{"A": {"A1": {"points_per_subitem": [1], "desc_per_subitem": ["x"]}}}`,
			wantPath: "/A/A1",
		},
		{
			name:     "points must be integers",
			data:     `{"A": {"A1": {"name": "A1", "points_per_subitem": ["five"], "desc_per_subitem": ["x"]}}}`,
			wantPath: "/A/A1/points_per_subitem/0",
		},
		{
			name:     "late penalty must be a number",
			data:     `{"A": {"A1": {"name": "A1", "points_per_subitem": [1], "desc_per_subitem": ["x"]}}, "late_penalty": "lots"}`,
			wantPath: "/late_penalty",
		},
		{
			name: "empty rubric",
			data: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Validate([]byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.Valid)
			if tt.wantValid {
				assert.Empty(t, result.Issues)
				return
			}
			require.NotEmpty(t, result.Issues)
			if tt.wantPath != "" {
				var paths []string
				for _, issue := range result.Issues {
					paths = append(paths, issue.Path)
				}
				assert.Contains(t, paths, tt.wantPath)
			}
		})
	}
}

func TestValidate_MalformedJSON(t *testing.T) {
	_, err := Validate([]byte(`{"A": `))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing rubric JSON")
}
