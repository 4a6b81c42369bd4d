package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"companions/internal/domain"
)

func validForm() map[string]any {
	return map[string]any{
		"name":           "Lucía Fernández",
		"age":            27,
		"city":           "  santa cruz de tenerife ",
		"phone":          "+34600111222",
		"description":    "Elegante y discreta, disponible entre semana.",
		"price_per_hour": 150,
		"characteristics": map[string]any{
			"height_cm":  168,
			"hair_color": "castaño",
		},
	}
}

func TestRegisterCompanion_CreatesProfile(t *testing.T) {
	env := newTestEnv()
	rr := httptest.NewRecorder()

	env.app.RegisterCompanion(rr, newRequest(http.MethodPost, "/companions/register", validForm(), companionSession("user_1")))

	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got %d, want 201 (%s)", rr.Code, rr.Body.String())
	}
	body := decodeBody(t, rr)
	if body["next"] != env.app.Routes.Redirects.VerificationUpload {
		t.Fatalf("expected next=%q, got %#v", env.app.Routes.Redirects.VerificationUpload, body["next"])
	}
	c, err := env.companions.GetByAuthID(t.Context(), "user_1")
	if err != nil {
		t.Fatalf("companion not stored: %v", err)
	}
	if c.CitySlug != "santa-cruz-de-tenerife" {
		t.Fatalf("unexpected city slug %q", c.CitySlug)
	}
	if c.City != "Santa Cruz De Tenerife" {
		t.Fatalf("unexpected display city %q", c.City)
	}
	if c.Slug == "" || c.Slug[:13] != "lucia-fernand" {
		t.Fatalf("unexpected slug %q", c.Slug)
	}
}

func TestRegisterCompanion_RejectsClients(t *testing.T) {
	env := newTestEnv()
	rr := httptest.NewRecorder()

	env.app.RegisterCompanion(rr, newRequest(http.MethodPost, "/companions/register", validForm(), clientSession("user_2")))

	if rr.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: got %d, want 403", rr.Code)
	}
}

func TestRegisterCompanion_Duplicate(t *testing.T) {
	env := newTestEnv(domain.Companion{ID: "c9", AuthID: "user_1", Slug: "existing"})
	rr := httptest.NewRecorder()

	env.app.RegisterCompanion(rr, newRequest(http.MethodPost, "/companions/register", validForm(), companionSession("user_1")))

	if rr.Code != http.StatusConflict {
		t.Fatalf("unexpected status: got %d, want 409", rr.Code)
	}
}

func TestRegisterCompanion_ValidationErrors(t *testing.T) {
	env := newTestEnv()
	form := validForm()
	form["age"] = 17
	form["phone"] = "600111222"
	rr := httptest.NewRecorder()

	env.app.RegisterCompanion(rr, newRequest(http.MethodPost, "/companions/register", form, companionSession("user_1")))

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status: got %d, want 422", rr.Code)
	}
	body := decodeBody(t, rr)
	fields := body["error"].(map[string]any)["fields"].(map[string]any)
	if fields["age"] != "min" || fields["phone"] != "e164" {
		t.Fatalf("unexpected field errors: %#v", fields)
	}
}

func TestRegisterCompanion_UnknownFieldRejected(t *testing.T) {
	env := newTestEnv()
	form := validForm()
	form["plan"] = "vip"
	rr := httptest.NewRecorder()

	env.app.RegisterCompanion(rr, newRequest(http.MethodPost, "/companions/register", form, companionSession("user_1")))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d, want 400", rr.Code)
	}
}

func TestListCompanions_HidesPhoneAndPaginates(t *testing.T) {
	env := newTestEnv(
		domain.Companion{ID: "c1", AuthID: "a1", Slug: "ana", CitySlug: "madrid", Phone: "+34600000001"},
		domain.Companion{ID: "c2", AuthID: "a2", Slug: "bea", CitySlug: "sevilla", Phone: "+34600000002"},
	)
	rr := httptest.NewRecorder()

	env.app.ListCompanions(rr, newRequest(http.MethodGet, "/companions?city=Madrid&page=2&per_page=10", nil, nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d, want 200", rr.Code)
	}
	body := decodeBody(t, rr)
	items := body["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected 1 companion in madrid, got %d", len(items))
	}
	if _, ok := items[0].(map[string]any)["phone"]; ok {
		t.Fatalf("phone must not be listed: %#v", items[0])
	}
	if body["page"] != float64(2) || body["per_page"] != float64(10) {
		t.Fatalf("unexpected paging: page=%v per_page=%v", body["page"], body["per_page"])
	}
}

func TestListCompanions_BadFilter(t *testing.T) {
	env := newTestEnv()
	for _, q := range []string{"min_age=abc", "per_page=500", "page=0", "max_price=-1"} {
		rr := httptest.NewRecorder()
		env.app.ListCompanions(rr, newRequest(http.MethodGet, "/companions?"+q, nil, nil))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: unexpected status %d, want 400", q, rr.Code)
		}
	}
}

func TestGetCompanion_RecordsViewForOthersOnly(t *testing.T) {
	env := newTestEnv(domain.Companion{ID: "c1", AuthID: "owner", Slug: "ana", Phone: "+34600000001"})

	rr := httptest.NewRecorder()
	env.app.GetCompanion(rr, withParams(newRequest(http.MethodGet, "/companions/ana", nil, clientSession("visitor")), "slug", "ana"))
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d, want 200", rr.Code)
	}

	rr = httptest.NewRecorder()
	env.app.GetCompanion(rr, withParams(newRequest(http.MethodGet, "/companions/ana", nil, companionSession("owner")), "slug", "ana"))
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d, want 200", rr.Code)
	}

	if len(env.analytics.events) != 1 {
		t.Fatalf("expected a single recorded view, got %d", len(env.analytics.events))
	}
	ev := env.analytics.events[0]
	if ev.Type != domain.EventProfileView || ev.ViewerAuthID != "visitor" || ev.CompanionID != "c1" {
		t.Fatalf("unexpected event: %#v", ev)
	}
}

func TestGetCompanion_BlockedViewerSeesNotFound(t *testing.T) {
	env := newTestEnv(domain.Companion{ID: "c1", AuthID: "owner", Slug: "ana"})
	env.companions.blocked["c1"] = map[string]bool{"stalker": true}
	rr := httptest.NewRecorder()

	env.app.GetCompanion(rr, withParams(newRequest(http.MethodGet, "/companions/ana", nil, clientSession("stalker")), "slug", "ana"))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got %d, want 404", rr.Code)
	}
}

func TestUpdateOwnProfile_RequiresProfile(t *testing.T) {
	env := newTestEnv()
	rr := httptest.NewRecorder()

	env.app.UpdateOwnProfile(rr, newRequest(http.MethodPut, "/dashboard/profile", validForm(), companionSession("nobody")))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got %d, want 404", rr.Code)
	}
}
