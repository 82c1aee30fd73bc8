//go:build unit

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vehicle-reservation/internal/usecase/commands"
	"vehicle-reservation/internal/usecase/tokens"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ commands.Metrics = (*Collector)(nil)
	_ tokens.Metrics   = (*Collector)(nil)
)

func TestCollector_CommitOutcome(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.CommitOutcome(commands.OutcomeConfirmed)
	c.CommitOutcome(commands.OutcomeConfirmed)
	c.CommitOutcome(commands.OutcomeConflict)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.commitOutcomes.WithLabelValues(commands.OutcomeConfirmed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.commitOutcomes.WithLabelValues(commands.OutcomeConflict)))
}

func TestCollector_PostCommitInconsistency(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.PostCommitInconsistency()

	assert.Equal(t, 1.0, testutil.ToFloat64(c.inconsistencies))
}

func TestCollector_TokenRotation(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.TokenRotation(tokens.OutcomeRotated)
	c.TokenRotation(tokens.OutcomeReused)

	assert.Equal(t, 2, testutil.CollectAndCount(c.tokenRotations))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.PaymentDuration(150*time.Millisecond, commands.OutcomeConfirmed)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "reservation_payment_duration_seconds_count"))
}
