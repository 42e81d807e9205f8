package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"wanderlens/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAttractionsFinder is a mock implementation of the AttractionsFinder interface
type MockAttractionsFinder struct {
	mock.Mock
}

func (m *MockAttractionsFinder) NearbyAttractions(ctx context.Context, center models.Coordinate, radiusM int) ([]models.PlaceCandidate, error) {
	args := m.Called(ctx, center, radiusM)
	var candidates []models.PlaceCandidate
	if v := args.Get(0); v != nil {
		candidates = v.([]models.PlaceCandidate)
	}
	return candidates, args.Error(1)
}

func TestAttractionsHandler_NearbyAttractions(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name            string
		query           string
		mockCenter      models.Coordinate
		mockRadius      int
		mockCandidates  []models.PlaceCandidate
		mockError       error
		callService     bool
		expectedStatus  int
		expectedError   string
		expectedCount   float64
		expectedFirstID string
	}{
		{
			name:           "missing query parameters",
			query:          "",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "missing required query parameters 'lat' and 'lon'",
		},
		{
			name:           "malformed latitude",
			query:          "lat=abc&lon=2.2945",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid latitude format",
		},
		{
			name:           "malformed longitude",
			query:          "lat=48.8584&lon=east",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid longitude format",
		},
		{
			name:           "out of range coordinates",
			query:          "lat=91&lon=2.2945",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "coordinates out of range",
		},
		{
			name:           "invalid radius",
			query:          "lat=48.8584&lon=2.2945&radius=-5",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid radius format",
		},
		{
			name:       "successful lookup with explicit radius",
			query:      "lat=48.8584&lon=2.2945&radius=500",
			mockCenter: models.Coordinate{Lat: 48.8584, Lon: 2.2945},
			mockRadius: 500,
			mockCandidates: []models.PlaceCandidate{
				{ID: "201552362", Name: "Louvre Museum", Type: "museum", Lat: 48.8606, Lon: 2.3376},
			},
			callService:     true,
			expectedStatus:  http.StatusOK,
			expectedCount:   1,
			expectedFirstID: "201552362",
		},
		{
			name:           "radius defaults to 1000",
			query:          "lat=48.8584&lon=2.2945",
			mockCenter:     models.Coordinate{Lat: 48.8584, Lon: 2.2945},
			mockRadius:     defaultRadiusM,
			mockCandidates: []models.PlaceCandidate{},
			callService:    true,
			expectedStatus: http.StatusOK,
			expectedCount:  0,
		},
		{
			name:           "upstream failure",
			query:          "lat=48.8584&lon=2.2945",
			mockCenter:     models.Coordinate{Lat: 48.8584, Lon: 2.2945},
			mockRadius:     defaultRadiusM,
			mockError:      assert.AnError,
			callService:    true,
			expectedStatus: http.StatusBadGateway,
			expectedError:  "failed to fetch attractions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockAttractionsFinder)
			h := NewAttractionsHandler(mockSvc)

			if tt.callService {
				mockSvc.On("NearbyAttractions", mock.Anything, tt.mockCenter, tt.mockRadius).
					Return(tt.mockCandidates, tt.mockError)
			}

			url := "/attractions"
			if tt.query != "" {
				url += "?" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, url, nil)
			w := httptest.NewRecorder()

			c, _ := gin.CreateTestContext(w)
			c.Request = req

			h.NearbyAttractions(c)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var body map[string]interface{}
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, body["error"])
			} else {
				assert.Equal(t, tt.expectedCount, body["count"])
				attractions := body["attractions"].([]interface{})
				assert.Len(t, attractions, int(tt.expectedCount))
				if tt.expectedFirstID != "" {
					first := attractions[0].(map[string]interface{})
					assert.Equal(t, tt.expectedFirstID, first["id"])
				}
				center := body["center"].(map[string]interface{})
				assert.Equal(t, tt.mockCenter.Lat, center["lat"])
				assert.Equal(t, float64(tt.mockRadius), body["radius"])
			}

			mockSvc.AssertExpectations(t)
		})
	}
}
