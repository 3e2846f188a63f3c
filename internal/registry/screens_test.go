package registry_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowbit/flowbit-api/internal/registry"
)

func TestLoadAndLookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"logisticsco": [
			{"name": "Shipments", "route": "/shipments", "icon": "truck"},
			{"name": "Tickets", "route": "/tickets"}
		]
	}`), 0o644))

	reg, err := registry.Load(path)
	require.NoError(t, err)

	screens := reg.ScreensFor("logisticsco")
	require.Len(t, screens, 2)
	require.Equal(t, "Shipments", screens[0].Name)
	require.Equal(t, "/shipments", screens[0].Route)
	require.Equal(t, "truck", screens[0].Icon)
	require.Empty(t, screens[1].Icon)
}

func TestUnknownTenantGetsEmptyList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"logisticsco": []}`), 0o644))

	reg, err := registry.Load(path)
	require.NoError(t, err)

	screens := reg.ScreensFor("retailgmbh")
	require.NotNil(t, screens)
	require.Empty(t, screens)
}

func TestMissingFileYieldsEmptyRegistry(t *testing.T) {
	reg, err := registry.Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	require.Empty(t, reg.ScreensFor("logisticsco"))

	reg, err = registry.Load("")
	require.NoError(t, err)
	require.Empty(t, reg.ScreensFor("logisticsco"))
}

func TestMalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"logisticsco": "not a list"}`), 0o644))

	_, err := registry.Load(path)
	require.Error(t, err)
}
