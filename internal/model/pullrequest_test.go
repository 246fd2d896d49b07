package model

import "testing"

func TestAccountIsBot(t *testing.T) {
	tests := []struct {
		name    string
		account *Account
		want    bool
	}{
		{"nil account", nil, false},
		{"user", &Account{Login: "alice", Type: "User"}, false},
		{"bot", &Account{Login: "renovate[bot]", Type: AccountTypeBot}, true},
		{"empty type", &Account{Login: "alice"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.account.IsBot(); got != tt.want {
				t.Errorf("IsBot() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccountLoginOrEmpty(t *testing.T) {
	var missing *Account
	if got := missing.LoginOrEmpty(); got != "" {
		t.Errorf("expected empty login for nil account, got %q", got)
	}
	a := &Account{Login: "bob"}
	if got := a.LoginOrEmpty(); got != "bob" {
		t.Errorf("expected 'bob', got %q", got)
	}
}

func TestRepositoryFullName(t *testing.T) {
	r := Repository{Owner: "acme", Name: "widgets"}
	if got := r.FullName(); got != "acme/widgets" {
		t.Errorf("expected 'acme/widgets', got %q", got)
	}
}
