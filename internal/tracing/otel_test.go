package tracing_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"dispatch/internal/tracing"
)

func TestInitTracer_ExportsSpansOnShutdown(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := tracing.InitTracer("dispatch-test", &buf)
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "claim-order")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "claim-order")
	assert.Contains(t, buf.String(), "dispatch-test")
}
