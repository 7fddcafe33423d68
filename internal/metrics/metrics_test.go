package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordTransition(t *testing.T) {
	before := testutil.ToFloat64(TransitionsTotal.WithLabelValues("activated"))
	RecordTransition("activated")
	assert.Equal(t, before+1, testutil.ToFloat64(TransitionsTotal.WithLabelValues("activated")))
}

func TestRecordSweep(t *testing.T) {
	runs := testutil.ToFloat64(SweepRunsTotal)
	expired := testutil.ToFloat64(SweepSubscriptionsTotal.WithLabelValues("expired"))
	cleared := testutil.ToFloat64(SweepLegacyUsersTotal.WithLabelValues("cleared"))

	RecordSweep(3, 1, 2, 0, 250*time.Millisecond)

	assert.Equal(t, runs+1, testutil.ToFloat64(SweepRunsTotal))
	assert.Equal(t, expired+3, testutil.ToFloat64(SweepSubscriptionsTotal.WithLabelValues("expired")))
	assert.Equal(t, cleared+2, testutil.ToFloat64(SweepLegacyUsersTotal.WithLabelValues("cleared")))
}

func TestRecordProductsToggledIgnoresZero(t *testing.T) {
	before := testutil.ToFloat64(ProductsToggledTotal.WithLabelValues("deactivated"))
	RecordProductsToggled(false, 0)
	RecordProductsToggled(false, 4)
	assert.Equal(t, before+4, testutil.ToFloat64(ProductsToggledTotal.WithLabelValues("deactivated")))
}
