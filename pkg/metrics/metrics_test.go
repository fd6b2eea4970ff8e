// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-keymaster.
//
// go-keymaster is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jeremyhahn/go-keymaster/pkg/types"
)

func TestRecordOperation(t *testing.T) {
	OperationsTotal.Reset()

	RecordOperation("generate_key", types.ErrorOK)
	RecordOperation("generate_key", types.ErrorUnknown)
	RecordOperation("begin", types.ErrorOK)

	success := testutil.ToFloat64(OperationsTotal.WithLabelValues("generate_key", StatusSuccess))
	failure := testutil.ToFloat64(OperationsTotal.WithLabelValues("generate_key", StatusError))
	assert.Equal(t, 1.0, success)
	assert.Equal(t, 1.0, failure)

	assert.Equal(t, 3, testutil.CollectAndCount(OperationsTotal))
}

func TestObserveDuration(t *testing.T) {
	OperationDuration.Reset()

	ObserveDuration("finish", 42*time.Millisecond)

	assert.Equal(t, 1, testutil.CollectAndCount(OperationDuration))
}

func TestRecordTransportError(t *testing.T) {
	TransportErrorsTotal.Reset()

	RecordTransportError(types.ErrorSecureHWBusy)
	RecordTransportError(types.ErrorSecureHWBusy)

	count := testutil.ToFloat64(
		TransportErrorsTotal.WithLabelValues(types.ErrorSecureHWBusy.Error()))
	assert.Equal(t, 2.0, count)
}
