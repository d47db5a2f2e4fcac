package dig_container

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/startupsl/backend/apps/api/echo"
	"github.com/startupsl/backend/core"
	"github.com/startupsl/backend/core/stats"
	"github.com/startupsl/backend/storage/cache"
)

func TestNew(t *testing.T) {
	c := New(core.NewTestConfig)

	err := c.Invoke(func(server *echoapi.Server, cc stats.Cache, closer *Closer) {
		assert.Equal(t, cache.Nop{}, cc)

		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NoError(t, closer.Close())
	})
	require.NoError(t, err)
}

func TestCloser_Close(t *testing.T) {
	var calls []int
	closer := new(Closer)
	closer.add(func() error { calls = append(calls, 1); return nil })
	closer.add(func() error { calls = append(calls, 2); return assert.AnError })

	assert.Equal(t, assert.AnError, closer.Close())
	assert.Equal(t, []int{2, 1}, calls)
}
