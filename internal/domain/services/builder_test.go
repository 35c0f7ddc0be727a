package services

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/lore-graph/internal/domain/entities"
)

func boolPtr(b bool) *bool { return &b }

func aliceAndBrack() *entities.Dataset {
	return &entities.Dataset{
		Entities: []entities.Entity{
			{ID: "A", Label: "Alice", Category: entities.CategoryCharacter},
			{ID: "B", Label: "Brack", Category: entities.CategoryCharacter},
		},
		Relationships: []entities.Relationship{
			{Source: "A", Target: "B", Type: "Allied With"},
		},
	}
}

func sampleDataset() *entities.Dataset {
	return &entities.Dataset{
		Title: "Campaign Four",
		Entities: []entities.Entity{
			{ID: "Halandil_Fang", Label: "Halandil Fang", Category: entities.CategoryCharacter, Group: "Fang Family",
				Attributes: map[string]string{"Race": "Orc", "Class": "Bard"}},
			{ID: "Thimble", Label: "Thimble", Category: entities.CategoryCharacter, Group: "Crow Keepers",
				Style: entities.EntityStyle{Image: "https://example.org/thimble.png"}},
			{ID: "Sundered_Houses", Label: "Sundered Houses", Category: entities.CategoryFaction},
			{ID: "Shadia_Fang", Label: "Shadia Fang", Category: entities.CategoryCharacter, Group: "Fang Family",
				Style: entities.EntityStyle{Color: "#123456", Size: 12}},
		},
		Relationships: []entities.Relationship{
			{Source: "Shadia_Fang", Target: "Halandil_Fang", Type: "Family"},
			{Source: "Halandil_Fang", Target: "Sundered_Houses", Type: "member_of"},
			{Source: "Thimble", Target: "Halandil_Fang", Type: "Ally", Directed: boolPtr(false)},
			{Source: "Shadia_Fang", Target: "Halandil_Fang", Type: "Complicated", Style: entities.RelationshipStyle{Width: 5, Dashes: true}},
			{Source: "Thimble", Target: "Sundered_Houses", Type: "Family", Description: "adopted"},
		},
	}
}

func TestGraphBuilder_Build_Example(t *testing.T) {
	b := NewGraphBuilder(DefaultBuilderConfig())

	doc, err := b.Build(aliceAndBrack())

	require.NoError(t, err)
	require.Len(t, doc.Nodes, 2)
	require.Len(t, doc.Edges, 1)
	assert.Equal(t, "A", doc.Nodes[0].ID)
	assert.Equal(t, "Alice", doc.Nodes[0].Label)
	assert.Equal(t, "Brack", doc.Nodes[1].Label)
	assert.Equal(t, "Allied With", doc.Edges[0].Type)
	assert.Equal(t, "A", doc.Edges[0].Source)
	assert.Equal(t, "B", doc.Edges[0].Target)
	assert.Equal(t, []string{"Allied With"}, doc.Config.Legend)
}

func TestGraphBuilder_Build_DanglingEndpoint(t *testing.T) {
	ds := aliceAndBrack()
	ds.Relationships = append(ds.Relationships, entities.Relationship{Source: "A", Target: "C", Type: "Opposed To"})

	doc, err := NewGraphBuilder(DefaultBuilderConfig()).Build(ds)

	require.Error(t, err)
	assert.Nil(t, doc)

	var dve *entities.DataValidationError
	require.True(t, errors.As(err, &dve))
	assert.Equal(t, entities.RecordRelationship, dve.Kind)
	assert.Equal(t, 1, dve.Index)
	assert.Equal(t, "target", dve.Field)
	assert.Contains(t, err.Error(), `"C"`)
	assert.Equal(t, `relationship[1] "A -> C": target: unknown entity "C"`, err.Error())
}

func TestGraphBuilder_Build_DuplicateID(t *testing.T) {
	ds := &entities.Dataset{
		Entities: []entities.Entity{
			{ID: "A", Label: "Alice", Category: entities.CategoryCharacter},
			{ID: "A", Label: "Another Alice", Category: entities.CategoryCharacter, Line: 9},
		},
	}

	doc, err := NewGraphBuilder(DefaultBuilderConfig()).Build(ds)

	require.Error(t, err)
	assert.Nil(t, doc)

	var dve *entities.DataValidationError
	require.True(t, errors.As(err, &dve))
	assert.Equal(t, "A", dve.Ref)
	assert.Equal(t, 1, dve.Index)
	assert.Equal(t, 9, dve.Line)
	assert.Contains(t, err.Error(), `duplicate id "A"`)
	assert.Contains(t, err.Error(), "first declared at entity[0]")
}

func TestGraphBuilder_Build_RemovedEntityRefails(t *testing.T) {
	b := NewGraphBuilder(DefaultBuilderConfig())
	ds := aliceAndBrack()

	_, err := b.Build(ds)
	require.NoError(t, err)

	ds.Entities = ds.Entities[:1]
	doc, err := b.Build(ds)

	require.Error(t, err)
	assert.Nil(t, doc)
	assert.Contains(t, err.Error(), `unknown entity "B"`)
}

func TestGraphBuilder_Build_CollectsAllProblems(t *testing.T) {
	ds := &entities.Dataset{
		Entities: []entities.Entity{
			{ID: "A", Label: "Alice", Category: entities.CategoryCharacter},
			{ID: "A", Label: "Again", Category: entities.CategoryCharacter},
		},
		Relationships: []entities.Relationship{
			{Source: "X", Target: "Y", Type: "Enemy"},
		},
	}

	_, err := NewGraphBuilder(DefaultBuilderConfig()).Build(ds)

	var all entities.ValidationErrors
	require.True(t, errors.As(err, &all))
	require.Len(t, all, 3)
	assert.Equal(t, "id", all[0].Field)
	assert.Equal(t, "source", all[1].Field)
	assert.Equal(t, "target", all[2].Field)
}

func TestGraphBuilder_Validate_MalformedRecords(t *testing.T) {
	tests := []struct {
		name     string
		ds       *entities.Dataset
		expected map[string]string // field -> message fragment
	}{
		{
			name: "entity missing fields",
			ds: &entities.Dataset{Entities: []entities.Entity{
				{},
			}},
			expected: map[string]string{
				"id":       "is required",
				"label":    "is required",
				"category": "is required",
			},
		},
		{
			name: "entity bad values",
			ds: &entities.Dataset{Entities: []entities.Entity{
				{ID: "X", Label: "X", Category: "location", Style: entities.EntityStyle{Color: "red", Size: -1, Shape: "blob"}},
			}},
			expected: map[string]string{
				"category":    `must be one of [character faction], got "location"`,
				"style.color": `must be a hex color, got "red"`,
				"style.size":  "must be at least 0",
				"style.shape": `got "blob"`,
			},
		},
		{
			name: "blank id",
			ds: &entities.Dataset{Entities: []entities.Entity{
				{ID: "  ", Label: "Blank", Category: entities.CategoryFaction},
			}},
			expected: map[string]string{
				"id": "must not be blank",
			},
		},
		{
			name: "relationship missing type",
			ds: &entities.Dataset{
				Entities: []entities.Entity{
					{ID: "A", Label: "Alice", Category: entities.CategoryCharacter},
				},
				Relationships: []entities.Relationship{
					{Source: "A", Target: "A"},
				},
			},
			expected: map[string]string{
				"type": "is required",
			},
		},
		{
			name: "relationship blank type and bad color",
			ds: &entities.Dataset{
				Entities: []entities.Entity{
					{ID: "A", Label: "Alice", Category: entities.CategoryCharacter},
				},
				Relationships: []entities.Relationship{
					{Source: "A", Target: "A", Type: " ", Style: entities.RelationshipStyle{Color: "#GGGGGG"}},
				},
			},
			expected: map[string]string{
				"type":        "must not be blank",
				"style.color": "must be a hex color",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := NewGraphBuilder(DefaultBuilderConfig()).Validate(tt.ds)
			require.Len(t, errs, len(tt.expected))

			for _, e := range errs {
				fragment, ok := tt.expected[e.Field]
				require.True(t, ok, "unexpected field %q: %s", e.Field, e.Error())
				assert.Contains(t, e.Message, fragment)
			}
		})
	}
}

func TestGraphBuilder_Build_Deterministic(t *testing.T) {
	b := NewGraphBuilder(DefaultBuilderConfig())

	first, err := b.Build(sampleDataset())
	require.NoError(t, err)
	second, err := b.Build(sampleDataset())
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("documents differ (-first +second):\n%s", diff)
	}

	a, err := json.Marshal(first)
	require.NoError(t, err)
	c, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, a, c)
}

func TestGraphBuilder_Build_LegendFirstSeen(t *testing.T) {
	doc, err := NewGraphBuilder(DefaultBuilderConfig()).Build(sampleDataset())
	require.NoError(t, err)

	assert.Equal(t, []string{"Family", "member_of", "Ally", "Complicated"}, doc.Config.Legend)
	require.Len(t, doc.Config.LegendStyles, 4)
	assert.Equal(t, entities.LegendEntry{Type: "Family", Label: "Family", Color: "#00BFFF", Width: 3}, doc.Config.LegendStyles[0])
	assert.Equal(t, "Member Of", doc.Config.LegendStyles[1].Label)
	assert.Equal(t, "#FFD700", doc.Config.LegendStyles[1].Color)
	assert.Equal(t, []entities.Category{entities.CategoryCharacter, entities.CategoryFaction}, doc.Config.Categories)
	assert.Equal(t, []string{"Fang Family", "Crow Keepers"}, doc.Config.Groups)
}

func TestGraphBuilder_Build_MultiEdge(t *testing.T) {
	doc, err := NewGraphBuilder(DefaultBuilderConfig()).Build(sampleDataset())
	require.NoError(t, err)

	var between []entities.Edge
	for _, e := range doc.Edges {
		if e.Source == "Shadia_Fang" && e.Target == "Halandil_Fang" {
			between = append(between, e)
		}
	}
	require.Len(t, between, 2)
	assert.NotEqual(t, between[0].ID, between[1].ID)
	assert.Equal(t, "Family", between[0].Type)
	assert.Equal(t, "Complicated", between[1].Type)
}

func TestGraphBuilder_Build_Styles(t *testing.T) {
	doc, err := NewGraphBuilder(DefaultBuilderConfig()).Build(sampleDataset())
	require.NoError(t, err)

	hal, thimble, houses, shadia := doc.Nodes[0], doc.Nodes[1], doc.Nodes[2], doc.Nodes[3]

	assert.Equal(t, "#FF0000", hal.Color)
	assert.Equal(t, "dot", hal.Shape)
	assert.Equal(t, 25, hal.Size)

	assert.Equal(t, "circularImage", thimble.Shape)
	assert.Equal(t, 60, thimble.Size)
	assert.Equal(t, "https://example.org/thimble.png", thimble.Image)

	assert.Equal(t, "#FFD700", houses.Color)
	assert.Equal(t, "diamond", houses.Shape)

	assert.Equal(t, "#123456", shadia.Color)
	assert.Equal(t, 12, shadia.Size)

	family, memberOf, ally, complicated := doc.Edges[0], doc.Edges[1], doc.Edges[2], doc.Edges[3]
	assert.Equal(t, "#00BFFF", family.Color)
	assert.Equal(t, 3, family.Width)
	assert.Equal(t, "to", family.Arrows)
	assert.Equal(t, "Member Of", memberOf.Label)
	assert.Equal(t, "member_of", memberOf.Type)
	assert.Empty(t, ally.Arrows)
	assert.False(t, ally.Directed())
	assert.Equal(t, 5, complicated.Width)
	assert.True(t, complicated.Dashes)
	assert.Equal(t, "#8A2BE2", complicated.Color)
	assert.Equal(t, "adopted", doc.Edges[4].Title)
}

func TestGraphBuilder_Build_NodeTitle(t *testing.T) {
	doc, err := NewGraphBuilder(DefaultBuilderConfig()).Build(sampleDataset())
	require.NoError(t, err)

	assert.Equal(t, "Halandil Fang\nCategory: character\nGroup: Fang Family\nClass: Bard\nRace: Orc", doc.Nodes[0].Title)
}

func TestGraphBuilder_Build_ConfigOverrides(t *testing.T) {
	cfg := DefaultBuilderConfig()
	cfg.HumanizeLabels = false
	cfg.Directed = false
	cfg.Relationships["member_of"] = EdgeStyle{Color: "#ABCDEF"}

	doc, err := NewGraphBuilder(cfg).Build(sampleDataset())
	require.NoError(t, err)

	assert.Equal(t, "member_of", doc.Edges[1].Label)
	assert.Equal(t, "#ABCDEF", doc.Edges[1].Color)
	assert.Equal(t, 1, doc.Edges[1].Width)
	assert.Empty(t, doc.Edges[0].Arrows)
	assert.False(t, doc.Config.Directed)
}

func TestGraphBuilder_Build_Empty(t *testing.T) {
	doc, err := NewGraphBuilder(DefaultBuilderConfig()).Build(&entities.Dataset{})
	require.NoError(t, err)

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"nodes":[]`)
	assert.Contains(t, string(data), `"edges":[]`)
	assert.Contains(t, string(data), `"legend":[]`)
}

func TestGraphBuilder_Build_NilDataset(t *testing.T) {
	_, err := NewGraphBuilder(DefaultBuilderConfig()).Build(nil)
	require.Error(t, err)
}

func TestEdgeID_Stable(t *testing.T) {
	r := entities.Relationship{Source: "A", Target: "B", Type: "Ally"}
	assert.Equal(t, edgeID(0, &r), edgeID(0, &r))
	assert.NotEqual(t, edgeID(0, &r), edgeID(1, &r))
	assert.Len(t, edgeID(0, &r), 36)
}
