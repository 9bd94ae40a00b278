package auth

import (
	"net/http"
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("hash should not equal the plaintext")
	}
	if !CheckPassword(hash, "hunter2") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "hunter3") {
		t.Fatal("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	signed, err := tokens.Generate(User{ID: 42, Role: RoleManager})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	session, err := tokens.Verify(signed)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if session.UserID != 42 || session.Role != RoleManager {
		t.Fatalf("session = %+v", session)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	tokens := NewTokens("test-secret", -time.Minute)
	signed, err := tokens.Generate(User{ID: 1, Role: RoleOwner})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := tokens.Verify(signed); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	signed, err := NewTokens("secret-a", time.Hour).Generate(User{ID: 1, Role: RoleOwner})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := NewTokens("secret-b", time.Hour).Verify(signed); err == nil {
		t.Fatal("token signed with another secret accepted")
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "standard", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer tok", want: "tok"},
		{name: "missing header", header: "", wantErr: true},
		{name: "wrong scheme", header: "Basic dXNlcg==", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := http.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			got, err := BearerToken(r)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("BearerToken: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCan(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		resource Resource
		action   Action
		want     bool
	}{
		{"owner deletes loans", RoleOwner, ResourceLoans, ActionDelete, true},
		{"manager reads sales", RoleManager, ResourceSales, ActionRead, true},
		{"manager blocked from accounts", RoleManager, ResourceAccounts, ActionRead, false},
		{"manager blocked from equity", RoleManager, ResourceEquity, ActionCreate, false},
		{"manager cannot delete employees", RoleManager, ResourceEmployees, ActionDelete, false},
		{"manager updates employees", RoleManager, ResourceEmployees, ActionUpdate, true},
		{"cashier records sale", RoleCashier, ResourceSales, ActionCreate, true},
		{"cashier cannot delete sale", RoleCashier, ResourceSales, ActionDelete, false},
		{"cashier reads schedule", RoleCashier, ResourceSchedules, ActionRead, true},
		{"cashier cannot edit schedule", RoleCashier, ResourceSchedules, ActionUpdate, false},
		{"cashier blocked from invoices", RoleCashier, ResourceInvoices, ActionRead, false},
		{"unknown role denied", Role("ghost"), ResourceSales, ActionRead, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Can(tt.role, tt.resource, tt.action); got != tt.want {
				t.Fatalf("Can(%s, %s, %s) = %v, want %v", tt.role, tt.resource, tt.action, got, tt.want)
			}
		})
	}
}
