package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/verlic/zapcentral/internal/config"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New(config.EvolutionConfig{BaseURL: server.URL, APIKey: "test-key"}, zap.NewNop())
	if client == nil {
		t.Fatal("expected configured client")
	}
	return client, server
}

func TestCreateInstance(t *testing.T) {
	var received map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/instance/create" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("apikey") != "test-key" {
			t.Errorf("apikey header = %q", r.Header.Get("apikey"))
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatal(err)
		}
		json.NewEncoder(w).Encode(InstanceInfo{Name: "vendas", Status: "created"})
	}))

	info, err := client.CreateInstance(context.Background(), "vendas")
	if err != nil {
		t.Fatal(err)
	}
	if info.Name != "vendas" {
		t.Errorf("name = %q, want vendas", info.Name)
	}
	if received["instanceName"] != "vendas" {
		t.Errorf("sent instanceName = %v", received["instanceName"])
	}
	if received["integration"] != "WHATSAPP-BAILEYS" {
		t.Errorf("sent integration = %v", received["integration"])
	}
}

func TestConnectionStateNestedInstance(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/instance/connectionState/vendas" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"instance":{"instanceName":"vendas","state":"open"}}`))
	}))

	if state := client.ConnectionState(context.Background(), "vendas"); state != "open" {
		t.Errorf("state = %q, want open", state)
	}
}

func TestConnectionStateTransportErrorFallsBack(t *testing.T) {
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	if state := client.ConnectionState(context.Background(), "vendas"); state != "disconnected" {
		t.Errorf("state = %q, want disconnected", state)
	}
}

func TestSendText(t *testing.T) {
	var received map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/message/sendText/vendas" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusCreated)
	}))

	if err := client.SendText(context.Background(), "vendas", "5511999999999", "olá"); err != nil {
		t.Fatal(err)
	}
	if received["number"] != "5511999999999" {
		t.Errorf("number = %v", received["number"])
	}
	if received["text"] != "olá" {
		t.Errorf("text = %v", received["text"])
	}
}

func TestSendTextStatusError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "instance not found", http.StatusNotFound)
	}))

	if err := client.SendText(context.Background(), "fantasma", "5511999999999", "olá"); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestSetWebhookEvents(t *testing.T) {
	var received struct {
		Webhook struct {
			Enabled bool     `json:"enabled"`
			URL     string   `json:"url"`
			Events  []string `json:"events"`
		} `json:"webhook"`
	}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusOK)
	}))

	if err := client.SetWebhook(context.Background(), "vendas", "https://console.local/api/webhook/evolution"); err != nil {
		t.Fatal(err)
	}
	if !received.Webhook.Enabled {
		t.Error("webhook should be enabled")
	}
	if len(received.Webhook.Events) != 3 {
		t.Fatalf("events = %v", received.Webhook.Events)
	}
}

func TestFetchInstancePhoneNumber(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("instanceName"); got != "vendas" {
			t.Errorf("instanceName query = %q", got)
		}
		w.Write([]byte(`[{"name":"vendas","ownerJid":"5511988887777@s.whatsapp.net","connectionStatus":"open"}]`))
	}))

	info, err := client.FetchInstance(context.Background(), "vendas")
	if err != nil {
		t.Fatal(err)
	}
	if got := info.PhoneNumber(); got != "5511988887777" {
		t.Errorf("phone = %q, want 5511988887777", got)
	}
}

func TestNilClientIsNoOp(t *testing.T) {
	var client *Client

	if _, err := client.CreateInstance(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}
	if state := client.ConnectionState(context.Background(), "x"); state != "" {
		t.Errorf("state = %q, want empty", state)
	}
	if err := client.SendText(context.Background(), "x", "y", "z"); err != nil {
		t.Fatal(err)
	}
	list, err := client.FetchInstances(context.Background())
	if err != nil || list != nil {
		t.Errorf("list = %v, err = %v", list, err)
	}
}
