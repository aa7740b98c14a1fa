package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/landregistry/internal/database"
	apierrors "github.com/stwalsh4118/landregistry/internal/errors"
	"github.com/stwalsh4118/landregistry/internal/logger"
	"github.com/stwalsh4118/landregistry/internal/middleware"
	"github.com/stwalsh4118/landregistry/internal/models"
	"github.com/stwalsh4118/landregistry/internal/repository"
	"github.com/stwalsh4118/landregistry/internal/services"
)

// Kigali city centre and a point roughly 2.2 km east of it.
const (
	kigaliLat = -1.9441
	kigaliLng = 30.0619
	eastLng   = 30.0819

	ownerAddress = "0x1111111111111111111111111111111111111111"
	heirAddress  = "0x3333333333333333333333333333333333333333"
	adminAddress = "0x000000000000000000000000000000000000dEaD"
)

type testEnv struct {
	db             *database.Database
	router         *gin.Engine
	parcels        repository.ParcelRepository
	expropriations repository.ExpropriationRepository
	users          repository.UserRepository
}

// newTestEnv wires the full API against a migrated in-memory database.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.NewTestDB(context.Background())
	require.NoError(t, err)
	t.Cleanup(db.Close)

	log := logger.Nop()
	env := &testEnv{
		db:             db,
		parcels:        repository.NewParcelRepository(db),
		expropriations: repository.NewExpropriationRepository(db),
		users:          repository.NewUserRepository(db),
	}
	requests := repository.NewInheritanceRequestRepository(db)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))

	RegisterRoutes(router.Group("/api/v1"),
		NewParcelHandler(services.NewParcelService(env.parcels, nil, log)),
		NewExpropriationHandler(services.NewExpropriationService(env.expropriations, log)),
		NewInheritanceHandler(services.NewInheritanceService(requests, env.parcels, env.users, nil, log)),
	)
	env.router = router
	return env
}

// insertParcel stores a parcel centred on lat/lng. mutate may adjust it
// before insertion.
func (e *testEnv) insertParcel(t *testing.T, seq int, lat, lng float64, mutate func(*models.LandParcel)) *models.LandParcel {
	t.Helper()

	location := models.NewPoint(lat, lng)
	parcel := &models.LandParcel{
		ParcelID:           fmt.Sprintf("LP-2026-%04d", seq),
		OwnerAddress:       ownerAddress,
		OwnerName:          "Registry Administrator",
		OwnerEmail:         "admin@landregistry.rw",
		LandUse:            models.LandUseResidential,
		Status:             models.ParcelStatusActive,
		ComplianceStatus:   models.ComplianceCompliant,
		ComplianceScore:    90,
		District:           "Gasabo",
		Sector:             "Kimironko",
		Area:               1000,
		EstimatedValue:     decimal.RequireFromString("50000000.00"),
		Fines:              decimal.Zero,
		Credits:            decimal.Zero,
		Location:           location,
		Latitude:           lat,
		Longitude:          lng,
		Boundary:           models.SquareAround(location, 0.001),
		LastInspectionDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		NextInspectionDate: time.Date(2099, 1, 10, 0, 0, 0, 0, time.UTC),
	}
	if mutate != nil {
		mutate(parcel)
	}
	require.NoError(t, e.parcels.Create(context.Background(), parcel))
	return parcel
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var payload *bytes.Reader
	switch b := body.(type) {
	case nil:
		payload = bytes.NewReader(nil)
	case string:
		payload = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, path, payload)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apierrors.ErrorDetail {
	t.Helper()
	return decode[apierrors.ErrorResponse](t, w).Error
}
