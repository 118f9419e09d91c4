package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipesizer/pipesizer/pkg/types"
	"github.com/pipesizer/pipesizer/sizer/internal/catalog"
	"github.com/pipesizer/pipesizer/sizer/internal/engine"
)

const grove = `
name: north grove
sprinkler_id: spr-150
input:
  farm_size_ha: 4
  total_trees: 600
  water_per_tree_liters: 40
  number_of_zones: 3
  simultaneous_zones: 1
  branch: {longest_m: 40, total_m: 1200}
  main: {longest_m: 150, total_m: 150}
  irrigation_minutes: 60
  static_head_m: 5
  pressure_head_m: 10
  emitters_per_branch: 10
current:
  pipes:
    branch: pvc-25
    main: pvc-90
  pump: pump-a
zones:
  - zone_id: low
  - zone_id: hill
    input:
      static_head_m: 22
      main: {longest_m: 260}
  - sprinkler_id: spr-80
`

func testCatalog() types.Catalog {
	return types.Catalog{
		Pipes:      []types.Pipe{{ID: "pvc-25", SizeMM: 25}},
		Pumps:      []types.Pump{{ID: "pump-a"}},
		Sprinklers: []types.Sprinkler{{ID: "spr-150"}, {ID: "spr-80"}},
	}
}

func TestParse(t *testing.T) {
	p, err := Parse([]byte(grove))
	require.NoError(t, err)

	assert.Equal(t, "north grove", p.Name)
	assert.Equal(t, 600, p.Input.TotalTrees)
	assert.Equal(t, 1.0, p.Input.EmittersPerTree, "defaulted")
	require.NotNil(t, p.Input.Main)
	assert.Equal(t, 150.0, p.Input.Main.LongestM)
	assert.Nil(t, p.Input.Secondary)
	assert.Equal(t, "pvc-25", p.CurrentPipeIDs[types.RoleBranch])
	assert.Equal(t, "pump-a", p.CurrentPumpID)

	require.Len(t, p.Zones, 3)
	assert.Equal(t, "low", p.Zones[0].ID)
	assert.Equal(t, p.Input, p.Zones[0].Input, "zone without overrides inherits the project input")
	assert.Equal(t, "spr-150", p.Zones[0].SprinklerID)

	hill := p.Zones[1]
	assert.Equal(t, 22.0, hill.Input.StaticHeadM)
	assert.Equal(t, 600, hill.Input.TotalTrees)
	assert.Equal(t, 260.0, hill.Input.Main.LongestM)
	assert.Equal(t, 150.0, hill.Input.Main.TotalM, "unset nested field inherited")
	assert.Equal(t, 150.0, p.Input.Main.LongestM, "project input untouched by zone override")

	assert.Equal(t, "zone-3", p.Zones[2].ID)
	assert.Equal(t, "spr-80", p.Zones[2].SprinklerID)
}

func TestParse_Defaults(t *testing.T) {
	p, err := Parse([]byte("input:\n  total_trees: 10\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, p.Input.NumberOfZones)
	assert.Equal(t, 1, p.Input.SimultaneousZones)
	assert.Empty(t, p.Zones)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "input: [", "parse yaml"},
		{"unknown role", "current:\n  pipes:\n    lateral: x\n", `unknown role "lateral"`},
		{"duplicate zone", "zones:\n  - zone_id: a\n  - zone_id: a\n", `duplicate zone_id "a"`},
		{"bad zone input", "zones:\n  - zone_id: a\n    input:\n      total_trees: many\n", `zones[0] "a"`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestRequest_ResolvesIDs(t *testing.T) {
	p, err := Parse([]byte(grove))
	require.NoError(t, err)

	req, warnings := p.Request(testCatalog())

	require.NotNil(t, req.Sprinkler)
	assert.Equal(t, "spr-150", req.Sprinkler.ID)
	assert.Equal(t, map[types.Role]string{types.RoleBranch: "pvc-25"}, req.CurrentPipeIDs)
	assert.Equal(t, "pump-a", req.CurrentPumpID)

	require.Len(t, warnings, 1)
	assert.Equal(t, "project_unknown_id", warnings[0].Key)
	assert.Equal(t, "pvc-90", warnings[0].Subject)

	require.Len(t, req.Zones, 3)
	assert.Equal(t, "spr-150", req.Zones[0].Sprinkler.ID)
	assert.Equal(t, "spr-80", req.Zones[2].Sprinkler.ID)
	assert.Equal(t, 22.0, req.Zones[1].Input.StaticHeadM)
}

func TestRequest_UnknownSprinklerFallsBack(t *testing.T) {
	p, err := Parse([]byte("sprinkler_id: nope\ninput:\n  total_trees: 10\n"))
	require.NoError(t, err)

	req, warnings := p.Request(testCatalog())
	assert.Nil(t, req.Sprinkler)
	require.Len(t, warnings, 1)
	assert.Equal(t, "nope", warnings[0].Subject)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.yaml")
	require.NoError(t, os.WriteFile(path, []byte(grove), 0o600))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, p.Zones, 3)

	_, err = Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExampleProjectComputes(t *testing.T) {
	examples := filepath.Join("..", "..", "..", "examples")
	snap, err := catalog.Load(filepath.Join(examples, "catalog.yaml"))
	require.NoError(t, err)
	assert.Empty(t, snap.Warnings)

	p, err := Load(filepath.Join(examples, "project.yaml"))
	require.NoError(t, err)
	req, warnings := p.Request(snap.Catalog)
	assert.Empty(t, warnings)
	require.NotNil(t, req.Sprinkler)
	assert.Equal(t, "micro-90", req.Sprinkler.ID)

	res, err := engine.NewEngine().Compute(snap.Catalog, req)
	require.NoError(t, err)
	assert.Len(t, res.Zones, 3)
	assert.Equal(t, []string{"upper"}, res.CriticalZones)
	assert.NotNil(t, res.SelectedPump)
}
