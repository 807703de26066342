package instance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verlic/zapcentral/internal/config"
	"github.com/verlic/zapcentral/internal/gateway"
	"github.com/verlic/zapcentral/internal/metrics"
	"github.com/verlic/zapcentral/internal/storage"
	"github.com/verlic/zapcentral/internal/storage/model"
)

type fakeInstanceRepo struct {
	byID   map[string]model.Instance
	byName map[string]model.Instance
}

func newFakeInstanceRepo() *fakeInstanceRepo {
	return &fakeInstanceRepo{
		byID:   map[string]model.Instance{},
		byName: map[string]model.Instance{},
	}
}

func (f *fakeInstanceRepo) Create(ctx context.Context, instance model.Instance) (model.Instance, error) {
	if instance.ID == "" {
		instance.ID = uuid.New().String()
	}
	instance.CreatedAt = time.Now()
	instance.UpdatedAt = instance.CreatedAt
	f.byID[instance.ID] = instance
	f.byName[instance.InstanceName] = instance
	return instance, nil
}

func (f *fakeInstanceRepo) GetByID(ctx context.Context, id string) (model.Instance, error) {
	instance, ok := f.byID[id]
	if !ok {
		return model.Instance{}, storage.ErrNotFound
	}
	return instance, nil
}

func (f *fakeInstanceRepo) GetByName(ctx context.Context, name string) (model.Instance, error) {
	instance, ok := f.byName[name]
	if !ok {
		return model.Instance{}, storage.ErrNotFound
	}
	return instance, nil
}

func (f *fakeInstanceRepo) List(ctx context.Context) ([]model.Instance, error) {
	var out []model.Instance
	for _, instance := range f.byID {
		out = append(out, instance)
	}
	return out, nil
}

func (f *fakeInstanceRepo) Update(ctx context.Context, instance model.Instance) (model.Instance, error) {
	if _, ok := f.byID[instance.ID]; !ok {
		return model.Instance{}, storage.ErrNotFound
	}
	instance.UpdatedAt = time.Now()
	f.byID[instance.ID] = instance
	f.byName[instance.InstanceName] = instance
	return instance, nil
}

func (f *fakeInstanceRepo) Delete(ctx context.Context, id string) error {
	instance, ok := f.byID[id]
	if !ok {
		return storage.ErrNotFound
	}
	delete(f.byID, id)
	delete(f.byName, instance.InstanceName)
	return nil
}

type fakeBotStatusRepo struct{}

func (f *fakeBotStatusRepo) Upsert(ctx context.Context, status model.BotStatus) (model.BotStatus, error) {
	return status, nil
}

func (f *fakeBotStatusRepo) GetByInstanceID(ctx context.Context, instanceID string) (model.BotStatus, error) {
	return model.BotStatus{}, storage.ErrNotFound
}

func (f *fakeBotStatusRepo) DeleteByInstanceID(ctx context.Context, instanceID string) error {
	return nil
}

type fakeMetricRepo struct {
	created []model.Metric
}

func (f *fakeMetricRepo) Create(ctx context.Context, metric model.Metric) error {
	f.created = append(f.created, metric)
	return nil
}

func (f *fakeMetricRepo) Summary(ctx context.Context, since time.Time) (map[model.MetricType]model.MetricSummary, error) {
	return nil, nil
}

func (f *fakeMetricRepo) TotalsByDay(ctx context.Context, kind model.MetricType, since time.Time) ([]model.DayTotal, error) {
	return nil, nil
}

func (f *fakeMetricRepo) ListRecent(ctx context.Context, kind model.MetricType, limit int) ([]model.Metric, error) {
	return nil, nil
}

func newTestGateway(t *testing.T, handler http.Handler) *gateway.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return gateway.New(config.EvolutionConfig{BaseURL: srv.URL, APIKey: "test-key"}, zap.NewNop())
}

type fakeMessageRepo struct{}

func (f *fakeMessageRepo) Create(ctx context.Context, message model.Message) (model.Message, error) {
	return message, nil
}

func (f *fakeMessageRepo) List(ctx context.Context, filter model.MessageFilter) ([]model.Message, int64, error) {
	return nil, 0, nil
}

func (f *fakeMessageRepo) ListConversation(ctx context.Context, instanceID, phoneNumber string, limit int) ([]model.Message, error) {
	return nil, nil
}

func (f *fakeMessageRepo) Stats(ctx context.Context) (model.MessageStats, error) {
	return model.MessageStats{}, nil
}

func (f *fakeMessageRepo) TopSenders(ctx context.Context, limit int) ([]model.SenderCount, error) {
	return nil, nil
}

func (f *fakeMessageRepo) DeleteByInstanceID(ctx context.Context, instanceID string) error {
	return nil
}

func newService(repo *fakeInstanceRepo, gw *gateway.Client) (*Service, *fakeMetricRepo) {
	metricRepo := &fakeMetricRepo{}
	rec := metrics.NewRecorder(metricRepo, zap.NewNop())
	svc := NewService(repo, &fakeMessageRepo{}, &fakeBotStatusRepo{}, gw, rec, "http://console.local", zap.NewNop())
	return svc, metricRepo
}

func TestCreateWithoutGateway(t *testing.T) {
	repo := newFakeInstanceRepo()
	svc, metricRepo := newService(repo, nil)

	instance, err := svc.Create(context.Background(), "vendas")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if instance.Status != model.InstanceStatusDisconnected {
		t.Errorf("status = %s, esperado disconnected", instance.Status)
	}
	if instance.QRCode != "" {
		t.Errorf("qr code deveria estar vazio sem gateway")
	}
	if len(metricRepo.created) != 1 || metricRepo.created[0].MetricType != model.MetricAPIRequest {
		t.Errorf("métrica api_request não registrada")
	}
}

func TestCreateRejectsEmptyAndDuplicateNames(t *testing.T) {
	repo := newFakeInstanceRepo()
	svc, _ := newService(repo, nil)

	if _, err := svc.Create(context.Background(), "  "); !errors.Is(err, ErrInvalidName) {
		t.Errorf("nome vazio: err = %v, esperado ErrInvalidName", err)
	}

	if _, err := svc.Create(context.Background(), "vendas"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(context.Background(), "vendas"); !errors.Is(err, ErrNameTaken) {
		t.Errorf("nome duplicado: err = %v, esperado ErrNameTaken", err)
	}
}

func TestCreateRegistersWebhookAndQRCode(t *testing.T) {
	var webhookBody map[string]any

	mux := http.NewServeMux()
	mux.HandleFunc("/instance/create", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"instance": map[string]any{"instanceName": "vendas"}})
	})
	mux.HandleFunc("/webhook/set/vendas", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&webhookBody)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/instance/connect/vendas", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"base64": "data:image/png;base64,abc123"})
	})

	repo := newFakeInstanceRepo()
	svc, _ := newService(repo, newTestGateway(t, mux))

	instance, err := svc.Create(context.Background(), "vendas")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if instance.QRCode != "data:image/png;base64,abc123" {
		t.Errorf("qr code = %q", instance.QRCode)
	}
	if webhookBody == nil {
		t.Fatal("webhook não foi configurado no gateway")
	}
}

func TestGetRefreshesQRWhenDisconnected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/instance/connectionState/vendas", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"instance": map[string]any{"state": "close"}})
	})
	mux.HandleFunc("/instance/connect/vendas", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"code": "raw-pairing-payload", "pairingCode": "ABCD-1234"})
	})

	repo := newFakeInstanceRepo()
	created, _ := repo.Create(context.Background(), model.Instance{InstanceName: "vendas", Status: model.InstanceStatusConnected})
	svc, _ := newService(repo, newTestGateway(t, mux))

	detail, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if detail.Status != model.InstanceStatusDisconnected {
		t.Errorf("status = %s, esperado disconnected", detail.Status)
	}
	if detail.QRCodeRaw != "raw-pairing-payload" {
		t.Errorf("qrCodeRaw = %q", detail.QRCodeRaw)
	}
	if detail.PairingCode != "ABCD-1234" {
		t.Errorf("pairingCode = %q", detail.PairingCode)
	}
	// sem base64 do gateway, o PNG é gerado localmente
	if !strings.HasPrefix(detail.QRCode, "data:image/png;base64,") {
		t.Errorf("qr code não renderizado: %q", detail.QRCode)
	}
}

func TestStatusMapsConnectingState(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/instance/connectionState/vendas", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"instance": map[string]any{"state": "connecting"}})
	})

	repo := newFakeInstanceRepo()
	created, _ := repo.Create(context.Background(), model.Instance{InstanceName: "vendas", Status: model.InstanceStatusDisconnected})
	svc, _ := newService(repo, newTestGateway(t, mux))

	status, err := svc.Status(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status != model.InstanceStatusConnecting {
		t.Errorf("status = %s, esperado connecting", status)
	}

	persisted, _ := repo.GetByID(context.Background(), created.ID)
	if persisted.Status != model.InstanceStatusConnecting {
		t.Errorf("status persistido = %s, esperado connecting", persisted.Status)
	}
}

func TestActionInvalid(t *testing.T) {
	mux := http.NewServeMux()
	repo := newFakeInstanceRepo()
	created, _ := repo.Create(context.Background(), model.Instance{InstanceName: "vendas"})
	svc, _ := newService(repo, newTestGateway(t, mux))

	if _, err := svc.Action(context.Background(), created.ID, "explode"); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("err = %v, esperado ErrInvalidAction", err)
	}
}

func TestActionDisconnect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/instance/logout/vendas", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		w.WriteHeader(http.StatusOK)
	})

	repo := newFakeInstanceRepo()
	created, _ := repo.Create(context.Background(), model.Instance{InstanceName: "vendas", Status: model.InstanceStatusConnected})
	svc, metricRepo := newService(repo, newTestGateway(t, mux))

	result, err := svc.Action(context.Background(), created.ID, "disconnect")
	if err != nil {
		t.Fatalf("Action: %v", err)
	}
	if result.Status != model.InstanceStatusDisconnected {
		t.Errorf("status = %s", result.Status)
	}

	stored, _ := repo.GetByID(context.Background(), created.ID)
	if stored.Status != model.InstanceStatusDisconnected {
		t.Errorf("status persistido = %s", stored.Status)
	}

	found := false
	for _, m := range metricRepo.created {
		if m.MetricType == model.MetricBotStopped {
			found = true
		}
	}
	if !found {
		t.Error("métrica bot_stopped não registrada")
	}
}

func TestDeleteRemovesEvenWhenGatewayFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/instance/delete/vendas", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	repo := newFakeInstanceRepo()
	created, _ := repo.Create(context.Background(), model.Instance{InstanceName: "vendas"})
	svc, _ := newService(repo, newTestGateway(t, mux))

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(context.Background(), created.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Error("instância deveria ter sido removida do banco")
	}
}
