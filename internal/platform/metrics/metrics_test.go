package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m := New()

	m.ObserveCommand("sign_in", "ok", time.Now())
	m.ObserveCommand("sign_in", "session_limit_reached", time.Now())
	m.ObserveCommand("sign_in", "ok", time.Now())
	m.IncrementSessionsOpened()
	m.IncrementCountriesRemoved()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CommandsTotal.WithLabelValues("sign_in", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommandsTotal.WithLabelValues("sign_in", "session_limit_reached")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsOpened))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CountriesRemoved))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.GuestQueries))

	t.Run("separate instances do not share registries", func(t *testing.T) {
		other := New()
		assert.Equal(t, 0.0, testutil.ToFloat64(other.SessionsOpened))
	})

	t.Run("textfile export", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "geoshell.prom")
		require.NoError(t, m.WriteTextfile(path))
		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "geoshell_countries_removed_total 1")
	})
}
