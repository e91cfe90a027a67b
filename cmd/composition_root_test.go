package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/kafka"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
)

func TestCompositionRoot_MemoryDriverServesOrders(t *testing.T) {
	distanceService := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","rows":[{"elements":[{"status":"OK","distance":{"value":1234}}]}]}`))
	}))
	defer distanceService.Close()

	cfg := validConfig()
	cfg.StorageDriver = StorageDriverMemory
	cfg.DistanceMatrixURL = distanceService.URL

	app := NewCompositionRoot(cfg, nil, nil, kafka.NopPublisher{}, nil)
	e, err := httpin.NewRouter(app.CreateHTTPServer(), nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/orders",
		strings.NewReader(`{"origin":["1.0","2.0"],"destination":["1.5","2.5"]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var created httpin.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 1234, created.Distance)

	takeCmd, err := commands.NewTakeOrderCommand(created.ID)
	require.NoError(t, err)
	takeHandler := app.CreateTakeOrderCommandHandler()
	require.NoError(t, takeHandler.Handle(t.Context(), takeCmd))

	count, err := app.CreateCountUnassignedOrdersQueryHandler().Handle(t.Context(), queries.NewCountUnassignedOrdersQuery())
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.NotNil(t, app.CreateJobManager())
}
