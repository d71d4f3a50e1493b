package handlers_test

import (
	"net/http"
	"testing"
)

func TestProfileUpdate(t *testing.T) {
	f := newFixture(t)
	tok := f.seedUser(t, "u1", "ada@example.com", "user")
	f.seedUser(t, "u2", "bob@example.com", "user")

	resp := f.do(t, "PUT", "/api/v1/users/me", tok, `{"name":"Ada Lovelace"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	data, _ := decodeBody(t, resp)["data"].(map[string]any)
	if data["name"] != "Ada Lovelace" {
		t.Fatalf("unexpected profile: %v", data)
	}

	resp = f.do(t, "PUT", "/api/v1/users/me", tok, `{"email":"bob@example.com"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for taken email, got %d", resp.StatusCode)
	}

	resp = f.do(t, "PUT", "/api/v1/users/me", tok, `{"email":"not-an-email"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed email, got %d", resp.StatusCode)
	}
}

func TestProfileRoleEscalationBlocked(t *testing.T) {
	f := newFixture(t)
	tok := f.seedUser(t, "u1", "ada@example.com", "user")

	resp := f.do(t, "PUT", "/api/v1/users/me", tok, `{"role":"admin"}`)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if decodeBody(t, resp)["message"] != "you cannot assign yourself the admin role" {
		t.Fatal("unexpected escalation message")
	}

	// The role claim inside the session token is ignored; the row decides.
	forged := f.auth.Tokens.Issue("u1", "admin")
	resp = f.do(t, "GET", "/api/v1/admin/users", forged, "")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for forged role claim, got %d", resp.StatusCode)
	}
}

func TestAccountSelfDelete(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "a1", "root@example.com", "admin")
	tok := f.seedUser(t, "u1", "ada@example.com", "user")
	f.seedBook(t, "b1", "Porco's Pasta", "pasta", "u1", true)
	f.do(t, "POST", "/api/v1/library/b1", tok, "")

	resp := f.do(t, "DELETE", "/api/v1/users/me", tok, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ck := sessionCookie(resp); ck == nil || ck.Value != "" {
		t.Fatal("account deletion must clear the session cookie")
	}

	// The token is now orphaned.
	resp = f.do(t, "GET", "/api/v1/users/me", tok, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 after deletion, got %d", resp.StatusCode)
	}

	// The shared book survives without an owner.
	resp = f.do(t, "GET", "/api/v1/books/b1", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("book must survive owner deletion, got %d", resp.StatusCode)
	}
	if decodeBody(t, resp)["userId"] != nil {
		t.Fatal("ownership must be nulled")
	}
}

func TestLastAdminCannotSelfDelete(t *testing.T) {
	f := newFixture(t)
	tok := f.seedUser(t, "a1", "root@example.com", "admin")

	resp := f.do(t, "DELETE", "/api/v1/users/me", tok, "")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if decodeBody(t, resp)["message"] != "cannot delete the last remaining admin account" {
		t.Fatal("unexpected last-admin message")
	}
}
