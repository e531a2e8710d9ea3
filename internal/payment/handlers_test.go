package payment

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
)

func newApp(svc *Service) *fiber.App {
	app := fiber.New()
	RegisterRoutes(app.Group("/api"), svc)
	return app
}

func TestCreateCheckoutSessionHandler(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT title, paid FROM journeys`).
		WithArgs("journey-1").
		WillReturnRows(pgxmock.NewRows([]string{"title", "paid"}).AddRow("Paris", false))

	app := newApp(newService(mock, &fakeGateway{created: CheckoutSession{ID: "cs_test_123"}}))
	req := httptest.NewRequest("POST", "/api/journeys/journey-1/create-checkout-session", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["id"] != "cs_test_123" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestCreateCheckoutSessionHandlerJourneyMissing(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT title, paid FROM journeys`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	app := newApp(newService(mock, &fakeGateway{}))
	resp, err := app.Test(httptest.NewRequest("POST", "/api/journeys/missing/create-checkout-session", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCreateCheckoutSessionHandlerAlreadyPaid(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT title, paid FROM journeys`).
		WithArgs("journey-1").
		WillReturnRows(pgxmock.NewRows([]string{"title", "paid"}).AddRow("Paris", true))

	app := newApp(newService(mock, &fakeGateway{}))
	resp, err := app.Test(httptest.NewRequest("POST", "/api/journeys/journey-1/create-checkout-session", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	raw, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(raw), "Journey is already paid for") {
		t.Fatalf("unexpected body: %s", raw)
	}
}

func TestCheckoutStatusHandlerProcessing(t *testing.T) {
	gw := &fakeGateway{session: CheckoutSession{ID: "cs_test_123", PaymentStatus: "unpaid", JourneyID: "journey-1"}}
	app := newApp(newService(newMock(t), gw))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/checkout-session/cs_test_123", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "processing" {
		t.Fatalf("unexpected status: %v", body["status"])
	}
	if _, ok := body["journey"]; ok {
		t.Fatalf("processing answers must not carry a journey")
	}
}

func TestCheckoutStatusHandlerComplete(t *testing.T) {
	mock := newMock(t)
	gw := &fakeGateway{session: CheckoutSession{ID: "cs_test_123", PaymentStatus: "paid", JourneyID: "journey-1"}}

	mock.ExpectQuery(`SELECT id, title, paid, shareable_token`).
		WithArgs("journey-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "paid", "shareable_token"}).
			AddRow("journey-1", "Paris", true, strPtr("tok-abc")))
	mock.ExpectQuery(`SELECT id, title, note, image_url, icon_name, external_url, position`).
		WithArgs("journey-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "note", "image_url", "icon_name", "external_url", "position"}))

	app := newApp(newService(mock, gw))
	resp, err := app.Test(httptest.NewRequest("GET", "/api/checkout-session/cs_test_123", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Status  string `json:"status"`
		Journey *struct {
			ID             string  `json:"id"`
			ShareableToken *string `json:"shareableToken"`
		} `json:"journey"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "complete" || body.Journey == nil {
		t.Fatalf("unexpected body: %+v", body)
	}
	if body.Journey.ShareableToken == nil || *body.Journey.ShareableToken != "tok-abc" {
		t.Fatalf("complete status should expose the token")
	}
}

func TestCheckoutStatusHandlerSessionMissing(t *testing.T) {
	app := newApp(newService(newMock(t), &fakeGateway{getErr: ErrSessionNotFound}))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/checkout-session/cs_missing", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestWebhookHandler(t *testing.T) {
	mock := newMock(t)
	gw := &fakeGateway{event: Event{
		Type:    "checkout.session.completed",
		Session: CheckoutSession{ID: "cs_test_123", JourneyID: "journey-1"},
	}}
	mock.ExpectExec(`UPDATE journeys`).
		WithArgs("journey-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	app := newApp(newService(mock, gw))
	req := httptest.NewRequest("POST", "/api/webhooks/stripe", strings.NewReader(`{"id":"evt_1"}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body map[string]bool
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body["received"] {
		t.Fatalf("unexpected body: %v", body)
	}
	if string(gw.lastBody) != `{"id":"evt_1"}` {
		t.Fatalf("gateway must see the raw request body, got %q", gw.lastBody)
	}
}

func TestWebhookHandlerMissingSignature(t *testing.T) {
	app := newApp(newService(newMock(t), &fakeGateway{}))

	resp, err := app.Test(httptest.NewRequest("POST", "/api/webhooks/stripe", strings.NewReader(`{}`)))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	raw, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(raw), "Missing stripe-signature header") {
		t.Fatalf("unexpected body: %s", raw)
	}
}

func TestWebhookHandlerInvalidSignature(t *testing.T) {
	app := newApp(newService(newMock(t), &fakeGateway{verifyErr: errGateway}))

	req := httptest.NewRequest("POST", "/api/webhooks/stripe", strings.NewReader(`{}`))
	req.Header.Set("Stripe-Signature", "bad")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	raw, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(raw), "Invalid signature") {
		t.Fatalf("unexpected body: %s", raw)
	}
}

func TestWebhookHandlerMissingMetadata(t *testing.T) {
	gw := &fakeGateway{event: Event{
		Type:    "checkout.session.completed",
		Session: CheckoutSession{ID: "cs_test_123"},
	}}
	app := newApp(newService(newMock(t), gw))

	req := httptest.NewRequest("POST", "/api/webhooks/stripe", strings.NewReader(`{}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	raw, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(raw), "No journeyId in metadata") {
		t.Fatalf("unexpected body: %s", raw)
	}
}
