package observability

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordDBQuery_CountsErrorsOnly(t *testing.T) {
	errCounter := DefaultMetrics.DBQueryErrors.WithLabelValues("postgres", "insert")
	before := testutil.ToFloat64(errCounter)

	RecordDBQuery("postgres", "insert", 0.01, nil)
	assert.Equal(t, before, testutil.ToFloat64(errCounter))

	RecordDBQuery("postgres", "insert", 0.02, errors.New("connection reset"))
	assert.Equal(t, before+1, testutil.ToFloat64(errCounter))
}

func TestRecordDBQuery_ObservesDuration(t *testing.T) {
	RecordDBQuery("clickhouse", "get_all", 0.05, nil)

	count := testutil.CollectAndCount(DefaultMetrics.DBQueryDuration)
	assert.Greater(t, count, 0)
}

func TestRecordTradeRejected_IncrementsReason(t *testing.T) {
	counter := DefaultMetrics.TradesRejected.WithLabelValues("missing_id")
	before := testutil.ToFloat64(counter)

	RecordTradeRejected("missing_id")
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
