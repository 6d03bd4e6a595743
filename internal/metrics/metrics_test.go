package metrics

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestRecordSignIn(t *testing.T) {
	c := SignInTotal.WithLabelValues("google", "success")
	before := counterValue(t, c)

	RecordSignIn("google", "success")
	RecordSignIn("google", "success")

	assert.Equal(t, before+2, counterValue(t, c))
}

func TestRecordAccountCreatedAndKeySetFetch(t *testing.T) {
	created := AccountsCreatedTotal.WithLabelValues("apple")
	fetched := KeySetFetchTotal.WithLabelValues("apple", "error")
	createdBefore, fetchedBefore := counterValue(t, created), counterValue(t, fetched)

	RecordAccountCreated("apple")
	RecordKeySetFetch("apple", "error")

	assert.Equal(t, createdBefore+1, counterValue(t, created))
	assert.Equal(t, fetchedBefore+1, counterValue(t, fetched))
}
