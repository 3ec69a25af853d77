package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"sgprep/internal/jwt_token"
	"sgprep/internal/operation"
	"sgprep/internal/operation/handler/mocks"
	dErrors "sgprep/pkg/domain-errors"
	"sgprep/pkg/testutil"
)

// newRouter wires the handler behind its full middleware chain with a mocked
// workflow service and a real JWT validator.
func newRouter(t *testing.T) (http.Handler, *mocks.MockService, string) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockService(ctrl)

	jwtService := jwttoken.NewJWTService("test-signing-key", "sgprep", "sgprep-api")
	token, err := jwtService.GenerateAccessToken("jdoe", uuid.New(), time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(mockService, logger, jwttoken.NewJWTServiceAdapter(jwtService))

	r := chi.NewRouter()
	h.Register(r)
	return r, mockService, token
}

func TestAuthRequired(t *testing.T) {
	router, _, _ := newRouter(t)

	rec := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/api/operations/OP-1/eligibility", nil))
	testutil.AssertStatus(t, rec, http.StatusUnauthorized)

	req := testutil.WithBearer(testutil.NewJSONRequest(t, http.MethodGet, "/api/operations/OP-1/eligibility", nil), "not-a-jwt")
	rec = testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rec, http.StatusUnauthorized)
}

func TestGetEligibility(t *testing.T) {
	t.Run("returns the view", func(t *testing.T) {
		router, mockService, token := newRouter(t)
		view := operation.EligibilityView{
			CirculationPeriod: operation.CirculationPeriodView{EndDate: "2026-03-15"},
		}
		mockService.EXPECT().GetEligibility(gomock.Any(), "OP-1").Return(view, nil)

		req := testutil.WithBearer(testutil.NewJSONRequest(t, http.MethodGet, "/api/operations/OP-1/eligibility", nil), token)
		rec := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rec, http.StatusOK)

		got := testutil.UnmarshalResponse[operation.EligibilityView](t, rec)
		assert.Equal(t, "2026-03-15", got.CirculationPeriod.EndDate)
	})

	t.Run("not found maps to 404 with the envelope", func(t *testing.T) {
		router, mockService, token := newRouter(t)
		mockService.EXPECT().GetEligibility(gomock.Any(), "OP-1").
			Return(operation.EligibilityView{}, dErrors.New(dErrors.CodeNotFound, "the eligibility submission doesn't exist"))

		req := testutil.WithBearer(testutil.NewJSONRequest(t, http.MethodGet, "/api/operations/OP-1/eligibility", nil), token)
		rec := testutil.DoRequest(router, req)
		testutil.AssertStatusAndError(t, rec, http.StatusNotFound, "not_found")
		assert.Equal(t, "the eligibility submission doesn't exist", testutil.UnmarshalErrorResponse(t, rec)["error_description"])
	})
}

func TestCreateEligibility(t *testing.T) {
	body := map[string]any{
		"docType": "Minutes",
		"circulationPeriod": map[string]any{
			"endDate": "2026-03-15",
			"meeting": map[string]any{"date": "2026-03-10", "startTime": "09:00"},
		},
	}

	t.Run("put answers 201 with the created submission", func(t *testing.T) {
		router, mockService, token := newRouter(t)
		mockService.EXPECT().CreateEligibility(gomock.Any(), "OP-1", gomock.Any()).
			DoAndReturn(func(_ any, _ string, req operation.EligibilityRequest) (*operation.EligibilitySubmission, error) {
				assert.Equal(t, operation.DocTypeMinutes, req.DocType)
				require.NotNil(t, req.CirculationPeriod)
				assert.Equal(t, "2026-03-15", req.CirculationPeriod.EndDate)
				end := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
				return &operation.EligibilitySubmission{EndDate: &end, StartTimeSet: true}, nil
			})

		req := testutil.WithBearer(testutil.NewJSONRequest(t, http.MethodPut, "/api/operations/OP-1/eligibility", body), token)
		rec := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rec, http.StatusCreated)

		got := testutil.UnmarshalResponse[operation.EligibilitySubmission](t, rec)
		assert.True(t, got.StartTimeSet)
		assert.NotNil(t, got.EndDate)
	})

	t.Run("invariant violation surfaces as 500 without details", func(t *testing.T) {
		router, mockService, token := newRouter(t)
		mockService.EXPECT().CreateEligibility(gomock.Any(), "OP-1", gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeInvariant, "an eligibility submission already exists for this operation"))

		req := testutil.WithBearer(testutil.NewJSONRequest(t, http.MethodPut, "/api/operations/OP-1/eligibility", body), token)
		rec := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rec, http.StatusInternalServerError)
		assert.Empty(t, testutil.UnmarshalErrorResponse(t, rec)["error_description"])
	})

	t.Run("validation failure answers 400", func(t *testing.T) {
		router, mockService, token := newRouter(t)
		mockService.EXPECT().CreateEligibility(gomock.Any(), "OP-1", gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeValidation, "the date of the meeting is needed"))

		req := testutil.WithBearer(testutil.NewJSONRequest(t, http.MethodPut, "/api/operations/OP-1/eligibility", body), token)
		rec := testutil.DoRequest(router, req)
		testutil.AssertStatusAndError(t, rec, http.StatusBadRequest, "validation_failed")
		assert.Equal(t, "the date of the meeting is needed", testutil.UnmarshalErrorResponse(t, rec)["error_description"])
	})

	t.Run("malformed body answers 400 without reaching the service", func(t *testing.T) {
		router, _, token := newRouter(t)
		req := testutil.WithBearer(testutil.NewRequestWithBody(t, http.MethodPut, "/api/operations/OP-1/eligibility", "{not json"), token)
		rec := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rec, http.StatusBadRequest)
	})
}

func TestAmendEligibility(t *testing.T) {
	body := map[string]any{"docType": "Minutes"}

	t.Run("post answers 200 with no body", func(t *testing.T) {
		router, mockService, token := newRouter(t)
		mockService.EXPECT().AmendEligibility(gomock.Any(), "OP-1", gomock.Any()).Return(nil)

		req := testutil.WithBearer(testutil.NewJSONRequest(t, http.MethodPost, "/api/operations/OP-1/eligibility", body), token)
		rec := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rec, http.StatusOK)
		assert.Zero(t, rec.Body.Len())
	})

	t.Run("amend of a missing submission answers 404", func(t *testing.T) {
		router, mockService, token := newRouter(t)
		mockService.EXPECT().AmendEligibility(gomock.Any(), "OP-1", gomock.Any()).
			Return(dErrors.New(dErrors.CodeNotFound, "the eligibility submission doesn't exist"))

		req := testutil.WithBearer(testutil.NewJSONRequest(t, http.MethodPost, "/api/operations/OP-1/eligibility", body), token)
		rec := testutil.DoRequest(router, req)
		testutil.AssertStatusAndError(t, rec, http.StatusNotFound, "not_found")
	})
}

func TestDisclose(t *testing.T) {
	t.Run("success answers 200", func(t *testing.T) {
		router, mockService, token := newRouter(t)
		mockService.EXPECT().DiscloseProjectProfile(gomock.Any(), "OP-1").Return(nil)

		req := testutil.WithBearer(testutil.NewJSONRequest(t, http.MethodPost, "/api/operations/OP-1/documents/project-profile/disclosure", nil), token)
		rec := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rec, http.StatusOK)
	})

	t.Run("downstream unavailability answers 503", func(t *testing.T) {
		router, mockService, token := newRouter(t)
		mockService.EXPECT().DiscloseProjectProfile(gomock.Any(), "OP-1").
			Return(dErrors.New(dErrors.CodeUnavailable, "a downstream service is unavailable"))

		req := testutil.WithBearer(testutil.NewJSONRequest(t, http.MethodPost, "/api/operations/OP-1/documents/project-profile/disclosure", nil), token)
		rec := testutil.DoRequest(router, req)
		testutil.AssertStatusAndError(t, rec, http.StatusServiceUnavailable, "unavailable")
	})
}

func TestReferenceEndpoints(t *testing.T) {
	t.Run("project profile template forwards the lang query", func(t *testing.T) {
		router, mockService, token := newRouter(t)
		mockService.EXPECT().ProjectProfileTemplate(gomock.Any(), "OP-1", "es").Return("<html>plantilla</html>", nil)

		req := testutil.WithBearer(testutil.NewJSONRequest(t, http.MethodGet, "/api/operations/OP-1/project-profile?lang=es", nil), token)
		rec := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rec, http.StatusOK)

		got := testutil.UnmarshalResponse[map[string]string](t, rec)
		assert.Equal(t, "<html>plantilla</html>", (*got)["template"])
	})

	t.Run("roles endpoint returns the role list", func(t *testing.T) {
		router, mockService, token := newRouter(t)
		mockService.EXPECT().UserRoles(gomock.Any(), "OP-1").Return([]string{"TeamLeader", "Reviewer"}, nil)

		req := testutil.WithBearer(testutil.NewJSONRequest(t, http.MethodGet, "/api/operations/OP-1/roles/me", nil), token)
		rec := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rec, http.StatusOK)

		got := testutil.UnmarshalResponse[map[string][]string](t, rec)
		assert.Equal(t, []string{"TeamLeader", "Reviewer"}, (*got)["roles"])
	})
}
