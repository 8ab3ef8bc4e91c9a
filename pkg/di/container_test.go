package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hultner-technologies/recordkit/pkg/config"
	"github.com/hultner-technologies/recordkit/pkg/record"
	"github.com/hultner-technologies/recordkit/pkg/schema"
)

func TestContainer_OpenStore(t *testing.T) {
	srv, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	testCases := []struct {
		name string
		cfg  func() *config.Config
	}{
		{
			name: "pebble",
			cfg: func() *config.Config {
				c := config.DefaultConfig()
				c.DataDir = filepath.Join(t.TempDir(), "data")
				return c
			},
		},
		{
			name: "redis",
			cfg: func() *config.Config {
				c := config.DefaultConfig()
				c.Backend = config.BackendRedis
				c.Redis.Addr = srv.Addr()
				c.Format = "yaml"
				return c
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewContainer()
			require.NoError(t, c.SetConfig(tc.cfg()))

			records, err := c.OpenStore()
			require.NoError(t, err)
			defer records.Close()

			ev, err := record.Create(schema.Event, record.Values{"location": "Stockholm", "date": "2018-12-12"})
			require.NoError(t, err)

			ctx := context.Background()
			id, err := records.Save(ctx, ev)
			require.NoError(t, err)

			back, err := records.Load(ctx, schema.Event, id)
			require.NoError(t, err)
			assert.True(t, record.Equal(ev, back))
		})
	}
}

func TestContainer_SetConfigRejectsInvalid(t *testing.T) {
	c := NewContainer()
	cfg := config.DefaultConfig()
	cfg.Backend = "bolt"

	assert.Error(t, c.SetConfig(cfg))
	assert.Equal(t, config.BackendPebble, c.Config().Backend)
}

func TestContainer_Registry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shapes.yaml")
	shapes := "shapes:\n  - name: venue\n    fields:\n      - {name: name, kind: string, required: true}\n"
	require.NoError(t, os.WriteFile(path, []byte(shapes), 0600))

	cfg := config.DefaultConfig()
	cfg.ShapesFile = path

	c := NewContainer()
	require.NoError(t, c.SetConfig(cfg))

	reg, err := c.Registry()
	require.NoError(t, err)
	assert.Equal(t, []string{"event", "venue"}, reg.Names())

	again, err := c.Registry()
	require.NoError(t, err)
	assert.Same(t, reg, again)

	cfg = config.DefaultConfig()
	cfg.ShapesFile = filepath.Join(t.TempDir(), "missing.yaml")
	require.NoError(t, c.SetConfig(cfg))
	_, err = c.Registry()
	assert.Error(t, err)
}

func TestContainer_NewServer(t *testing.T) {
	c := NewContainer()
	srv, err := c.NewServer(nil)
	require.NoError(t, err)
	assert.NotNil(t, srv.Router())
}
