package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cooliehub/internal/platform/middleware"
	"cooliehub/internal/receipts/ledger"
	"cooliehub/internal/receipts/models"
	"cooliehub/internal/receipts/payment"
	"cooliehub/internal/receipts/service"
	"cooliehub/internal/receipts/store/snapshot"
	"cooliehub/internal/receipts/view"
	"cooliehub/pkg/platform/httputil"
	"cooliehub/pkg/testutil"
)

type declineGateway struct {
	status payment.Status
	err    error
}

func (g declineGateway) Authorize(context.Context, payment.Charge) (payment.Result, error) {
	return payment.Result{Status: g.status}, g.err
}

type fixture struct {
	router http.Handler
	ledger *ledger.Ledger
	view   *view.State
}

func newFixture(t *testing.T, gateway payment.Gateway) fixture {
	t.Helper()
	if gateway == nil {
		gateway = payment.NewSimulated(payment.WithDelay(0))
	}
	logger := testLogger()
	l := ledger.Load(context.Background(), snapshot.NewMemory(), logger)
	v := view.NewState()
	svc := service.New(l, gateway, v, service.WithLogger(logger))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	New(svc, l, v, logger).Register(r)
	return fixture{router: r, ledger: l, view: v}
}

type submissionBody struct {
	Receipt ReceiptResponse `json:"receipt"`
	Form    map[string]any  `json:"form"`
	Warning string          `json:"warning"`
}

func TestWorkerSubmissionEndToEnd(t *testing.T) {
	f := newFixture(t, nil)
	today := models.FormatDate(time.Now())

	testutil.Given(t, "an empty ledger", func(t *testing.T) {
		testutil.When(t, "Ravi submits the worker form", func(t *testing.T) {
			rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/submissions/worker", map[string]any{
				"name": "Ravi", "mobile": "9876543210", "village": "Mandoddi", "agree": true,
			}))
			testutil.AssertStatus(t, rr, http.StatusCreated)
			body := testutil.UnmarshalResponse[submissionBody](t, rr)

			testutil.Then(t, "a paid insurance receipt is issued", func(t *testing.T) {
				assert.Equal(t, 150, body.Receipt.Amount)
				assert.Equal(t, "Insurance Registration Assistance", body.Receipt.Type)
				assert.Equal(t, "Ravi", body.Receipt.Name)
				assert.Equal(t, "9876543210", body.Receipt.Mobile)
				assert.Equal(t, "Mandoddi", body.Receipt.Village)
				assert.True(t, models.IsReceiptNumber(body.Receipt.ReceiptNo))
				assert.Contains(t, []string{today, models.FormatDate(time.Now())}, body.Receipt.Date)
				assert.Empty(t, body.Warning)
			})

			testutil.And(t, "the form resets to its blank defaults", func(t *testing.T) {
				assert.Equal(t, map[string]any{
					"name": "", "mobile": "", "village": "", "aadhaar": "", "agree": true,
				}, body.Form)
			})

			testutil.And(t, "the receipt is listed and shown", func(t *testing.T) {
				require.Equal(t, 1, f.ledger.Len())

				list := testutil.UnmarshalResponse[ReceiptListResponse](t,
					testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/receipts")))
				assert.Equal(t, 1, list.Count)
				assert.Equal(t, body.Receipt, list.Receipts[0])

				current := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/receipts/current"))
				testutil.AssertStatus(t, current, http.StatusOK)
				assert.Equal(t, body.Receipt, *testutil.UnmarshalResponse[ReceiptResponse](t, current))
			})
		})
	})
}

func TestFarmerSubmissionEndToEnd(t *testing.T) {
	f := newFixture(t, nil)

	rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/submissions/farmer", map[string]any{
		"name": "Lakshmi", "mobile": "9123456780", "village": "Mandoddi",
		"need": "12 workers for planting tomorrow", "date": "2025-08-16",
	}))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	body := testutil.UnmarshalResponse[submissionBody](t, rr)

	assert.Equal(t, 0, body.Receipt.Amount)
	assert.Equal(t, "Farmer Request Logged (No Fee)", body.Receipt.Type)
	require.NotNil(t, body.Receipt.Extra)
	assert.Equal(t, "12 workers for planting tomorrow", body.Receipt.Extra.Farmer)
	assert.Equal(t, map[string]any{"name": "", "mobile": "", "village": "", "need": "", "date": ""}, body.Form)
}

func TestWorkerAgreeDefaultsToTrue(t *testing.T) {
	f := newFixture(t, nil)
	rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/submissions/worker", map[string]any{
		"name": "Ravi", "mobile": "9876543210", "village": "Mandoddi",
	}))
	testutil.AssertStatus(t, rr, http.StatusCreated)
}

func TestSubmissionValidation(t *testing.T) {
	f := newFixture(t, nil)

	testutil.When(t, "the agreement is unticked and mobile is short", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/submissions/worker", map[string]any{
			"name": "Ravi", "mobile": "98765", "village": "Mandoddi", "agree": false,
		}))

		testutil.Then(t, "field errors are returned and nothing is recorded", func(t *testing.T) {
			testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
			body := testutil.UnmarshalResponse[httputil.ErrorResponse](t, rr)
			assert.Equal(t, "must be exactly 10 digits", body.Fields["mobile"])
			assert.Equal(t, "consent is required", body.Fields["agree"])
			assert.Equal(t, 0, f.ledger.Len())
		})
	})

	testutil.When(t, "the body has unknown fields", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/submissions/farmer", map[string]any{
			"name": "Lakshmi", "wages": 500,
		}))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
	})

	testutil.When(t, "a field is too long", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/submissions/farmer", map[string]any{
			"name": strings.Repeat("a", 201), "mobile": "9123456780", "village": "Mandoddi", "need": "weeding",
		}))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
	})

	testutil.When(t, "the content type is not JSON", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodPost, "/submissions/worker")
		req.Header.Set("Content-Type", "text/plain")
		testutil.AssertStatus(t, testutil.DoRequest(f.router, req), http.StatusUnsupportedMediaType)
	})
}

func TestPaymentFailuresEchoForm(t *testing.T) {
	cases := []struct {
		name    string
		gateway payment.Gateway
		status  int
		code    string
	}{
		{"declined", declineGateway{status: payment.StatusDecline}, http.StatusPaymentRequired, "payment_declined"},
		{"gateway error", declineGateway{status: payment.StatusError}, http.StatusBadGateway, "payment_failed"},
		{"unreachable", declineGateway{err: errors.New("dial tcp: refused")}, http.StatusBadGateway, "payment_failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, tc.gateway)
			rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/submissions/worker", map[string]any{
				"name": "Ravi", "mobile": "9876543210", "village": "Mandoddi", "agree": true,
			}))
			testutil.AssertStatusAndError(t, rr, tc.status, tc.code)

			body := testutil.UnmarshalResponse[struct {
				Form models.WorkerForm `json:"form"`
			}](t, rr)
			assert.Equal(t, "Ravi", body.Form.Name)
			assert.Equal(t, 0, f.ledger.Len())
		})
	}
}

func TestViewAndDismissReceipt(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.ledger.Append(context.Background(), models.Record{
		Type: models.ServiceInsuranceRegistration, Name: "Ravi", Mobile: "9876543210",
		Village: "Mandoddi", Amount: 150, Date: "15/08/2025", ReceiptNo: "CHF-482913",
	})
	require.NoError(t, err)

	testutil.Given(t, "no receipt is open", func(t *testing.T) {
		testutil.AssertStatus(t,
			testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/receipts/current")),
			http.StatusNoContent)
	})

	testutil.When(t, "a receipt is viewed from the listing", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/receipts/CHF-482913"))
		testutil.AssertStatus(t, rr, http.StatusOK)

		testutil.Then(t, "it becomes the current receipt", func(t *testing.T) {
			current, ok := f.view.Current()
			require.True(t, ok)
			assert.Equal(t, "CHF-482913", current.ReceiptNo)
		})
	})

	testutil.When(t, "the receipt is dismissed", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodDelete, "/receipts/current"))
		testutil.AssertStatus(t, rr, http.StatusNoContent)

		testutil.Then(t, "the ledger is untouched", func(t *testing.T) {
			_, ok := f.view.Current()
			assert.False(t, ok)
			assert.Equal(t, 1, f.ledger.Len())
		})
	})

	t.Run("unknown and malformed receipt numbers", func(t *testing.T) {
		testutil.AssertStatusAndError(t,
			testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/receipts/CHF-000001")),
			http.StatusNotFound, "not_found")
		testutil.AssertStatusAndError(t,
			testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/receipts/42")),
			http.StatusBadRequest, "bad_request")
	})
}

func TestBlankForms(t *testing.T) {
	f := newFixture(t, nil)
	worker := testutil.UnmarshalResponse[models.WorkerForm](t,
		testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/forms/worker")))
	assert.Equal(t, models.BlankWorkerForm(), *worker)

	farmer := testutil.UnmarshalResponse[models.FarmerForm](t,
		testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/forms/farmer")))
	assert.Equal(t, models.BlankFarmerForm(), *farmer)
}

func TestListIsNewestFirst(t *testing.T) {
	f := newFixture(t, nil)
	for _, name := range []string{"Ravi", "Sita", "Anil"} {
		rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/submissions/worker", map[string]any{
			"name": name, "mobile": "9876543210", "village": "Mandoddi",
		}))
		testutil.AssertStatus(t, rr, http.StatusCreated)
	}
	list := testutil.UnmarshalResponse[ReceiptListResponse](t,
		testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/receipts")))
	require.Equal(t, 3, list.Count)
	assert.Equal(t, "Anil", list.Receipts[0].Name)
	assert.Equal(t, "Ravi", list.Receipts[2].Name)
}
