package webhook

import (
	"context"
	"errors"
	"testing"

	"github.com/verlic/zapcentral/internal/storage/model"
)

func TestNormalizeDigits(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"+55 (11) 99999-9999", "5511999999999"},
		{"5511999999999", "5511999999999"},
		{"", ""},
		{"abc", ""},
	}
	for _, tt := range tests {
		if got := NormalizeDigits(tt.in); got != tt.want {
			t.Errorf("NormalizeDigits(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func authorizedFixture(phone string) model.AuthorizedNumber {
	return model.AuthorizedNumber{ID: "auth-" + phone, InstanceID: "inst-1", PhoneNumber: phone, IsActive: true}
}

func TestResolveExactMatch(t *testing.T) {
	repo := &fakeAuthorizedRepo{numbers: []model.AuthorizedNumber{authorizedFixture("5511999999999")}}
	resolver := NewResolver(repo)

	num, ok, err := resolver.Resolve(context.Background(), "inst-1", "5511999999999")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !ok {
		t.Fatal("expected match")
	}
	if num.PhoneNumber != "5511999999999" {
		t.Errorf("matched = %q", num.PhoneNumber)
	}
}

func TestResolveStripsCountryCode(t *testing.T) {
	// Cadastro legado sem DDI; remetente chega com 55
	repo := &fakeAuthorizedRepo{numbers: []model.AuthorizedNumber{authorizedFixture("11999999999")}}
	resolver := NewResolver(repo)

	if _, ok, _ := resolver.Resolve(context.Background(), "inst-1", "5511999999999"); !ok {
		t.Fatal("expected match via strip country code")
	}
}

func TestResolveAddsCountryCode(t *testing.T) {
	// Cadastro com DDI; remetente chega com 11 dígitos sem 55
	repo := &fakeAuthorizedRepo{numbers: []model.AuthorizedNumber{authorizedFixture("5511999999999")}}
	resolver := NewResolver(repo)

	if _, ok, _ := resolver.Resolve(context.Background(), "inst-1", "11999999999"); !ok {
		t.Fatal("expected match via add country code")
	}
}

func TestResolveSuffixFallback(t *testing.T) {
	// Cadastro em formato exótico; só os últimos 9 dígitos coincidem
	repo := &fakeAuthorizedRepo{numbers: []model.AuthorizedNumber{authorizedFixture("05511999999999")}}
	resolver := NewResolver(repo)

	if _, ok, _ := resolver.Resolve(context.Background(), "inst-1", "5511999999999"); !ok {
		t.Fatal("expected match via suffix")
	}
}

func TestResolveIgnoresInactive(t *testing.T) {
	num := authorizedFixture("5511999999999")
	num.IsActive = false
	repo := &fakeAuthorizedRepo{numbers: []model.AuthorizedNumber{num}}
	resolver := NewResolver(repo)

	if _, ok, _ := resolver.Resolve(context.Background(), "inst-1", "5511999999999"); ok {
		t.Fatal("inactive number must not authorize")
	}
}

func TestResolveIgnoresOtherInstance(t *testing.T) {
	num := authorizedFixture("5511999999999")
	num.InstanceID = "inst-2"
	repo := &fakeAuthorizedRepo{numbers: []model.AuthorizedNumber{num}}
	resolver := NewResolver(repo)

	if _, ok, _ := resolver.Resolve(context.Background(), "inst-1", "5511999999999"); ok {
		t.Fatal("authorization must be scoped by instance")
	}
}

func TestResolveNoMatch(t *testing.T) {
	repo := &fakeAuthorizedRepo{}
	resolver := NewResolver(repo)

	if _, ok, _ := resolver.Resolve(context.Background(), "inst-1", "5511999999999"); ok {
		t.Fatal("expected no match")
	}
}

func TestResolvePropagatesRepoError(t *testing.T) {
	repo := &fakeAuthorizedRepo{findErr: errors.New("banco indisponível")}
	resolver := NewResolver(repo)

	_, ok, err := resolver.Resolve(context.Background(), "inst-1", "5511999999999")
	if err == nil {
		t.Fatal("expected error")
	}
	if ok {
		t.Error("repo failure must not authorize")
	}
}

func TestResolveNormalizesSender(t *testing.T) {
	repo := &fakeAuthorizedRepo{numbers: []model.AuthorizedNumber{authorizedFixture("5511999999999")}}
	resolver := NewResolver(repo)

	if _, ok, _ := resolver.Resolve(context.Background(), "inst-1", "+55 (11) 99999-9999"); !ok {
		t.Fatal("expected match after normalization")
	}
}
