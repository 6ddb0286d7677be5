package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordCartOperation(t *testing.T) {
	okBefore := testutil.ToFloat64(CartOperations.WithLabelValues("add", "ok"))
	errBefore := testutil.ToFloat64(CartOperations.WithLabelValues("add", "error"))

	RecordCartOperation("add", nil)
	RecordCartOperation("add", errors.New("boom"))
	RecordCartOperation("add", nil)

	assert.Equal(t, okBefore+2, testutil.ToFloat64(CartOperations.WithLabelValues("add", "ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(CartOperations.WithLabelValues("add", "error")))
}

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/api/v1/products", "200"))

	RecordHTTPRequest("GET", "/api/v1/products", 200, 15*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/api/v1/products", "200")))
}
