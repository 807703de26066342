package webhook

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verlic/zapcentral/internal/ai"
	"github.com/verlic/zapcentral/internal/storage"
	"github.com/verlic/zapcentral/internal/storage/model"
)

var errFakeNotFound = fmt.Errorf("fake: %w", storage.ErrNotFound)

type fakeInstanceRepo struct {
	instances map[string]model.Instance // por nome
	updates   []model.Instance
	updateErr error
}

func newFakeInstanceRepo(instances ...model.Instance) *fakeInstanceRepo {
	repo := &fakeInstanceRepo{instances: map[string]model.Instance{}}
	for _, inst := range instances {
		repo.instances[inst.InstanceName] = inst
	}
	return repo
}

func (f *fakeInstanceRepo) Create(ctx context.Context, inst model.Instance) (model.Instance, error) {
	f.instances[inst.InstanceName] = inst
	return inst, nil
}

func (f *fakeInstanceRepo) GetByID(ctx context.Context, id string) (model.Instance, error) {
	for _, inst := range f.instances {
		if inst.ID == id {
			return inst, nil
		}
	}
	return model.Instance{}, errFakeNotFound
}

func (f *fakeInstanceRepo) GetByName(ctx context.Context, name string) (model.Instance, error) {
	if inst, ok := f.instances[name]; ok {
		return inst, nil
	}
	return model.Instance{}, errFakeNotFound
}

func (f *fakeInstanceRepo) List(ctx context.Context) ([]model.Instance, error) {
	var out []model.Instance
	for _, inst := range f.instances {
		out = append(out, inst)
	}
	return out, nil
}

func (f *fakeInstanceRepo) Update(ctx context.Context, inst model.Instance) (model.Instance, error) {
	if f.updateErr != nil {
		return model.Instance{}, f.updateErr
	}
	f.instances[inst.InstanceName] = inst
	f.updates = append(f.updates, inst)
	return inst, nil
}

func (f *fakeInstanceRepo) Delete(ctx context.Context, id string) error { return nil }

type fakeAuthorizedRepo struct {
	numbers []model.AuthorizedNumber
	findErr error
}

func (f *fakeAuthorizedRepo) Create(ctx context.Context, n model.AuthorizedNumber) (model.AuthorizedNumber, error) {
	f.numbers = append(f.numbers, n)
	return n, nil
}

func (f *fakeAuthorizedRepo) GetByID(ctx context.Context, id string) (model.AuthorizedNumber, error) {
	for _, n := range f.numbers {
		if n.ID == id {
			return n, nil
		}
	}
	return model.AuthorizedNumber{}, errFakeNotFound
}

func (f *fakeAuthorizedRepo) FindActive(ctx context.Context, instanceID, phone string) (model.AuthorizedNumber, error) {
	if f.findErr != nil {
		return model.AuthorizedNumber{}, f.findErr
	}
	for _, n := range f.numbers {
		if n.InstanceID == instanceID && n.IsActive && n.PhoneNumber == phone {
			return n, nil
		}
	}
	return model.AuthorizedNumber{}, errFakeNotFound
}

func (f *fakeAuthorizedRepo) FindActiveBySuffix(ctx context.Context, instanceID, suffix string) (model.AuthorizedNumber, error) {
	if f.findErr != nil {
		return model.AuthorizedNumber{}, f.findErr
	}
	for _, n := range f.numbers {
		if n.InstanceID == instanceID && n.IsActive && strings.HasSuffix(n.PhoneNumber, suffix) {
			return n, nil
		}
	}
	return model.AuthorizedNumber{}, errFakeNotFound
}

func (f *fakeAuthorizedRepo) List(ctx context.Context, instanceID string) ([]model.AuthorizedNumber, error) {
	return f.numbers, nil
}

func (f *fakeAuthorizedRepo) NamesByPhone(ctx context.Context, phones []string) (map[string]string, error) {
	return map[string]string{}, nil
}

func (f *fakeAuthorizedRepo) Update(ctx context.Context, n model.AuthorizedNumber) (model.AuthorizedNumber, error) {
	return n, nil
}

func (f *fakeAuthorizedRepo) Delete(ctx context.Context, id string) error { return nil }

type fakeMessageRepo struct {
	messages  []model.Message
	createErr error
}

func (f *fakeMessageRepo) Create(ctx context.Context, msg model.Message) (model.Message, error) {
	if f.createErr != nil {
		return model.Message{}, f.createErr
	}
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	f.messages = append(f.messages, msg)
	return msg, nil
}

func (f *fakeMessageRepo) List(ctx context.Context, filter model.MessageFilter) ([]model.Message, int64, error) {
	return f.messages, int64(len(f.messages)), nil
}

func (f *fakeMessageRepo) ListConversation(ctx context.Context, instanceID, phone string, limit int) ([]model.Message, error) {
	var out []model.Message
	for _, m := range f.messages {
		if m.InstanceID == instanceID && m.PhoneNumber == phone {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) Stats(ctx context.Context) (model.MessageStats, error) {
	return model.MessageStats{}, nil
}

func (f *fakeMessageRepo) TopSenders(ctx context.Context, limit int) ([]model.SenderCount, error) {
	return nil, nil
}

func (f *fakeMessageRepo) DeleteByInstanceID(ctx context.Context, instanceID string) error { return nil }

func (f *fakeMessageRepo) byDirection(direction model.MessageDirection) []model.Message {
	var out []model.Message
	for _, m := range f.messages {
		if m.Direction == direction {
			out = append(out, m)
		}
	}
	return out
}

type fakeMetricRepo struct {
	metrics []model.Metric
}

func (f *fakeMetricRepo) Create(ctx context.Context, m model.Metric) error {
	f.metrics = append(f.metrics, m)
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

func (f *fakeMetricRepo) countOf(kind model.MetricType) int {
	count := 0
	for _, m := range f.metrics {
		if m.MetricType == kind {
			count++
		}
	}
	return count
}

type fakeBotStatusRepo struct {
	upserts []model.BotStatus
	current map[string]model.BotStatus
}

func (f *fakeBotStatusRepo) Upsert(ctx context.Context, s model.BotStatus) (model.BotStatus, error) {
	if f.current == nil {
		f.current = map[string]model.BotStatus{}
	}
	f.upserts = append(f.upserts, s)
	f.current[s.InstanceID] = s
	return s, nil
}

func (f *fakeBotStatusRepo) GetByInstanceID(ctx context.Context, instanceID string) (model.BotStatus, error) {
	if s, ok := f.current[instanceID]; ok {
		return s, nil
	}
	return model.BotStatus{}, errFakeNotFound
}

func (f *fakeBotStatusRepo) DeleteByInstanceID(ctx context.Context, instanceID string) error {
	return nil
}

type fakeWebhookLogRepo struct {
	logs []model.WebhookLog
}

func (f *fakeWebhookLogRepo) Create(ctx context.Context, l model.WebhookLog) (model.WebhookLog, error) {
	f.logs = append(f.logs, l)
	return l, nil
}

func (f *fakeWebhookLogRepo) List(ctx context.Context, event, instanceName string, limit int) ([]model.WebhookLog, error) {
	return f.logs, nil
}

func (f *fakeWebhookLogRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type fakeConfigRepo struct {
	values map[string]string
}

func (f *fakeConfigRepo) Get(ctx context.Context, key string) (model.SystemConfig, error) {
	if v, ok := f.values[key]; ok {
		return model.SystemConfig{Key: key, Value: v}, nil
	}
	return model.SystemConfig{}, errFakeNotFound
}

func (f *fakeConfigRepo) GetAll(ctx context.Context) ([]model.SystemConfig, error) { return nil, nil }

func (f *fakeConfigRepo) Upsert(ctx context.Context, key, value string) error {
	if f.values == nil {
		f.values = map[string]string{}
	}
	f.values[key] = value
	return nil
}

type fakeGenerator struct {
	reply  ai.Reply
	err    error
	calls  int
	prompt string
	turns  []ai.Turn
	asked  string
}

func (f *fakeGenerator) Generate(ctx context.Context, systemPrompt string, history []ai.Turn, userMessage string) (ai.Reply, error) {
	f.calls++
	f.prompt = systemPrompt
	f.turns = history
	f.asked = userMessage
	return f.reply, f.err
}

type fakeSender struct {
	calls []struct {
		Instance string
		Phone    string
		Text     string
	}
	err error
}

func (f *fakeSender) SendText(ctx context.Context, instanceName, phoneNumber, text string) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, struct {
		Instance string
		Phone    string
		Text     string
	}{instanceName, phoneNumber, text})
	return nil
}

type fakeContextStore struct {
	history  map[string][]ai.Turn
	appended []ai.Turn
}

func (f *fakeContextStore) Load(ctx context.Context, instanceID, phone string) []ai.Turn {
	return f.history[instanceID+":"+phone]
}

func (f *fakeContextStore) Append(ctx context.Context, instanceID, phone string, turns ...ai.Turn) {
	if f.history == nil {
		f.history = map[string][]ai.Turn{}
	}
	key := instanceID + ":" + phone
	f.history[key] = append(f.history[key], turns...)
	f.appended = append(f.appended, turns...)
}
