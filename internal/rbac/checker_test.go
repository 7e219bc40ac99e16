package rbac_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quizdoc/quizdoc/internal/rbac"
)

func TestCheckerRoleVocabulary(t *testing.T) {
	c := rbac.NewChecker(nil)

	cases := []struct {
		role string
		perm string
		want bool
	}{
		{"learner", "category:list", true},
		{"learner", "test:submit", true},
		{"learner", "learning:update", true}, // via learning:*
		{"learner", "learning:reset", true},
		{"learner", "category:create", false},
		{"learner", "flag:review", false},
		{"learner", "question:import", false},
		{"admin", "question:import", true}, // via *
		{"admin", "learning:reset", true},
		{"", "category:list", false},
		{"unknown", "category:list", false},
	}
	for _, tc := range cases {
		if got := c.Has(tc.role, tc.perm); got != tc.want {
			t.Errorf("Has(%q, %q) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
}

func TestRequireMiddleware(t *testing.T) {
	called := false
	h := rbac.Require("flag:review")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	// Learner lacks flag:review.
	req := httptest.NewRequest(http.MethodGet, "/flags", nil)
	req = req.WithContext(rbac.WithRole(req.Context(), "learner"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if called || rec.Code != http.StatusForbidden {
		t.Fatalf("learner passed flag:review guard, code %d", rec.Code)
	}

	// Admin wildcard passes.
	req = httptest.NewRequest(http.MethodGet, "/flags", nil)
	req = req.WithContext(rbac.WithRole(req.Context(), "admin"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("admin blocked by flag:review guard, code %d", rec.Code)
	}

	// No role in context at all.
	called = false
	req = httptest.NewRequest(http.MethodGet, "/flags", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if called || rec.Code != http.StatusForbidden {
		t.Fatalf("missing role passed guard, code %d", rec.Code)
	}
}
