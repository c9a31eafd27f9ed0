package shipapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidfleet/controller/internal/adapters/apiclient"
	"github.com/voidfleet/controller/internal/adapters/shipapi"
	"github.com/voidfleet/controller/internal/application/agentcontroller"
	"github.com/voidfleet/controller/internal/domain/fleet"
	"github.com/voidfleet/controller/internal/domain/routing"
	"github.com/voidfleet/controller/internal/domain/shared"
)

func newTestHandle(t *testing.T, mux *http.ServeMux) (*shipapi.Handle, *agentcontroller.Controller) {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	client := apiclient.New(srv.URL, shared.NewMockClock(time.Unix(1_700_000_000, 0)))
	controller := agentcontroller.New(agentcontroller.Deps{})
	controller.PutShip(fleet.Ship{Symbol: "SHIP-1", Nav: fleet.Nav{WaypointSymbol: "X1-AB-START"}})
	return shipapi.NewHandle("SHIP-1", "tok", client, controller), controller
}

func TestHandle_Orbit_UpdatesSnapshotNavStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/my/ships/SHIP-1/orbit", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	h, _ := newTestHandle(t, mux)

	require.NoError(t, h.Orbit(context.Background()))
	assert.Equal(t, fleet.NavStatusInOrbit, h.Snapshot().Nav.Status)
}

func TestHandle_Dock_UpdatesSnapshotNavStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/my/ships/SHIP-1/dock", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	h, _ := newTestHandle(t, mux)

	require.NoError(t, h.Dock(context.Background()))
	assert.Equal(t, fleet.NavStatusDocked, h.Snapshot().Nav.Status)
}

func TestHandle_Navigate_SetsFlightModeThenRoutesInTransit(t *testing.T) {
	arrival := time.Unix(1_700_001_000, 0).UTC()
	var flightModeSet string
	mux := http.NewServeMux()
	mux.HandleFunc("/my/ships/SHIP-1/nav", func(w http.ResponseWriter, r *http.Request) {
		flightModeSet = "called"
		w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/my/ships/SHIP-1/navigate", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"nav":{"route":{"arrival":"` + arrival.Format(time.RFC3339) + `"}}}}`))
	})
	h, _ := newTestHandle(t, mux)

	got, err := h.Navigate(context.Background(), "X1-AB-DEST", routing.EdgeModeBurn)
	require.NoError(t, err)
	assert.True(t, arrival.Equal(got))
	assert.Equal(t, "called", flightModeSet)

	s := h.Snapshot()
	assert.Equal(t, fleet.NavStatusInTransit, s.Nav.Status)
	require.NotNil(t, s.Nav.Route)
	assert.Equal(t, "X1-AB-DEST", s.Nav.Route.DestinationSymbol)
}

func TestHandle_Refuel_ToppsOffFuelToCapacity(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/my/ships/SHIP-1/refuel", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	h, controller := newTestHandle(t, mux)
	s, _ := controller.Ship("SHIP-1")
	s.Fuel = fleet.Fuel{Current: 10, Capacity: 100}
	controller.PutShip(s)

	require.NoError(t, h.Refuel(context.Background(), 0))
	assert.Equal(t, 100, h.Snapshot().Fuel.Current)
}

func TestHandle_WaitForTransit_ReturnsImmediatelyWithNoRoute(t *testing.T) {
	h, _ := newTestHandle(t, http.NewServeMux())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.NoError(t, h.WaitForTransit(ctx))
}

func TestHandle_SetCooldown_PersistsToController(t *testing.T) {
	h, controller := newTestHandle(t, http.NewServeMux())
	expiry := time.Now().Add(time.Minute)
	h.SetCooldown(fleet.Cooldown{Expiration: &expiry})

	s, _ := controller.Ship("SHIP-1")
	require.NotNil(t, s.Cooldown.Expiration)
	assert.True(t, expiry.Equal(*s.Cooldown.Expiration))
}
