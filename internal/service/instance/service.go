package instance

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/verlic/zapcentral/internal/gateway"
	"github.com/verlic/zapcentral/internal/metrics"
	"github.com/verlic/zapcentral/internal/storage"
	"github.com/verlic/zapcentral/internal/storage/model"
)

var (
	ErrInvalidName   = errors.New("nome da instância inválido")
	ErrNameTaken     = errors.New("já existe uma instância com este nome")
	ErrInvalidAction = errors.New("ação inválida")
	ErrNoGateway     = errors.New("Evolution API não configurada")
)

type Service struct {
	repo      storage.InstanceRepository
	messages  storage.MessageRepository
	botStatus storage.BotStatusRepository
	gw        *gateway.Client
	rec       *metrics.Recorder
	baseURL   string
	log       *zap.Logger
}

func NewService(
	repo storage.InstanceRepository,
	messages storage.MessageRepository,
	botStatus storage.BotStatusRepository,
	gw *gateway.Client,
	rec *metrics.Recorder,
	baseURL string,
	log *zap.Logger,
) *Service {
	return &Service{
		repo:      repo,
		messages:  messages,
		botStatus: botStatus,
		gw:        gw,
		rec:       rec,
		baseURL:   strings.TrimRight(baseURL, "/"),
		log:       log,
	}
}

// Detail junta a instância persistida aos artefatos de pareamento que
// só existem em memória (código bruto e pairing code do gateway).
type Detail struct {
	model.Instance
	QRCodeRaw   string `json:"qrCodeRaw,omitempty"`
	PairingCode string `json:"pairingCode,omitempty"`
}

// Create registra a instância no gateway (quando configurado), aponta o
// webhook de eventos para o console e captura o primeiro QR code.
func (s *Service) Create(ctx context.Context, instanceName string) (model.Instance, error) {
	instanceName = strings.TrimSpace(instanceName)
	if instanceName == "" {
		return model.Instance{}, ErrInvalidName
	}

	if _, err := s.repo.GetByName(ctx, instanceName); err == nil {
		return model.Instance{}, ErrNameTaken
	}

	var qrCode string
	if s.gw != nil {
		if _, err := s.gw.CreateInstance(ctx, instanceName); err != nil {
			return model.Instance{}, err
		}

		webhookURL := s.baseURL + "/api/webhook/evolution"
		if err := s.gw.SetWebhook(ctx, instanceName, webhookURL); err != nil {
			s.log.Warn("instance: erro ao configurar webhook no gateway",
				zap.String("instance", instanceName),
				zap.Error(err),
			)
		}

		if qr, err := s.gw.QRCode(ctx, instanceName); err == nil {
			qrCode = renderQR(qr)
		} else {
			s.log.Warn("instance: erro ao obter qr code inicial", zap.Error(err))
		}
	}

	instance, err := s.repo.Create(ctx, model.Instance{
		InstanceName: instanceName,
		Status:       model.InstanceStatusDisconnected,
		QRCode:       qrCode,
	})
	if err != nil {
		return model.Instance{}, err
	}

	s.rec.Count(ctx, model.MetricAPIRequest, map[string]any{"action": "create_instance"})
	return instance, nil
}

// List retorna as instâncias, sincronizando o status de cada uma com o
// gateway quando configurado. Falha de sincronização de uma instância
// não derruba a listagem.
func (s *Service) List(ctx context.Context) ([]model.Instance, error) {
	instances, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.gw == nil {
		return instances, nil
	}

	for i, inst := range instances {
		status := statusFromState(s.gw.ConnectionState(ctx, inst.InstanceName))

		changed := inst.Status != status
		inst.Status = status
		if status == model.InstanceStatusConnected {
			if info, err := s.gw.FetchInstance(ctx, inst.InstanceName); err == nil {
				if phone := info.PhoneNumber(); phone != "" && phone != inst.PhoneNumber {
					inst.PhoneNumber = phone
					changed = true
				}
			}
			// QR não faz sentido com a sessão ativa
			if inst.QRCode != "" {
				inst.QRCode = ""
				changed = true
			}
		}

		if changed {
			updated, err := s.repo.Update(ctx, inst)
			if err != nil {
				s.log.Warn("instance: erro ao sincronizar status",
					zap.String("instance", inst.InstanceName),
					zap.Error(err),
				)
				continue
			}
			inst = updated
		}
		instances[i] = inst
	}

	return instances, nil
}

// Get retorna a instância e, quando ela não está conectada, busca um QR
// code novo no gateway para o operador parear.
func (s *Service) Get(ctx context.Context, id string) (Detail, error) {
	instance, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	if s.gw == nil {
		return Detail{Instance: instance}, nil
	}

	detail := Detail{Instance: instance}

	status := statusFromState(s.gw.ConnectionState(ctx, instance.InstanceName))
	detail.Status = status
	instance.Status = status

	if status != model.InstanceStatusConnected {
		if qr, err := s.gw.QRCode(ctx, instance.InstanceName); err == nil {
			detail.QRCode = renderQR(qr)
			detail.QRCodeRaw = qr.Code
			detail.PairingCode = qr.PairingCode
			instance.QRCode = detail.QRCode
		}
	}

	if _, err := s.repo.Update(ctx, instance); err != nil {
		s.log.Warn("instance: erro ao persistir status atualizado", zap.Error(err))
	}

	return detail, nil
}

// Status consulta só o estado de conexão, sem tocar em QR.
func (s *Service) Status(ctx context.Context, id string) (model.InstanceStatus, error) {
	instance, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if s.gw == nil {
		return instance.Status, nil
	}

	status := statusFromState(s.gw.ConnectionState(ctx, instance.InstanceName))
	if status != instance.Status {
		instance.Status = status
		if _, err := s.repo.Update(ctx, instance); err != nil {
			s.log.Warn("instance: erro ao persistir status", zap.Error(err))
		}
	}
	return status, nil
}

// ActionResult é a resposta das ações de operador sobre a instância.
type ActionResult struct {
	Success     bool                 `json:"success"`
	Status      model.InstanceStatus `json:"status,omitempty"`
	QRCode      string               `json:"qrCode,omitempty"`
	QRCodeRaw   string               `json:"qrCodeRaw,omitempty"`
	PairingCode string               `json:"pairingCode,omitempty"`
}

// Action executa restart, disconnect ou connect contra o gateway.
func (s *Service) Action(ctx context.Context, id, action string) (ActionResult, error) {
	instance, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ActionResult{}, err
	}
	if s.gw == nil {
		return ActionResult{}, ErrNoGateway
	}

	switch action {
	case "restart":
		if err := s.gw.Restart(ctx, instance.InstanceName); err != nil {
			return ActionResult{}, err
		}
		s.rec.Count(ctx, model.MetricBotStarted, map[string]any{"instanceId": id})
		s.rec.Count(ctx, model.MetricAPIRequest, map[string]any{"action": "instance_restart"})
		return ActionResult{Success: true, Status: instance.Status}, nil

	case "disconnect":
		if err := s.gw.Logout(ctx, instance.InstanceName); err != nil {
			return ActionResult{}, err
		}
		instance.Status = model.InstanceStatusDisconnected
		if _, err := s.repo.Update(ctx, instance); err != nil {
			s.log.Warn("instance: erro ao persistir desconexão", zap.Error(err))
		}
		s.rec.Count(ctx, model.MetricBotStopped, map[string]any{"instanceId": id})
		s.rec.Count(ctx, model.MetricAPIRequest, map[string]any{"action": "instance_disconnect"})
		return ActionResult{Success: true, Status: model.InstanceStatusDisconnected}, nil

	case "connect":
		qr, err := s.gw.QRCode(ctx, instance.InstanceName)
		if err != nil {
			return ActionResult{}, err
		}
		rendered := renderQR(qr)
		instance.QRCode = rendered
		if _, err := s.repo.Update(ctx, instance); err != nil {
			s.log.Warn("instance: erro ao persistir qr code", zap.Error(err))
		}
		s.rec.Count(ctx, model.MetricAPIRequest, map[string]any{"action": "instance_connect"})
		return ActionResult{
			Success:     true,
			QRCode:      rendered,
			QRCodeRaw:   qr.Code,
			PairingCode: qr.PairingCode,
		}, nil

	default:
		return ActionResult{}, ErrInvalidAction
	}
}

// Delete remove a instância no gateway e no banco. Mensagens e bot
// status são removidos explicitamente; números autorizados caem via
// cascade da foreign key.
func (s *Service) Delete(ctx context.Context, id string) error {
	instance, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if s.gw != nil {
		if err := s.gw.Delete(ctx, instance.InstanceName); err != nil {
			s.log.Warn("instance: erro ao deletar no gateway",
				zap.String("instance", instance.InstanceName),
				zap.Error(err),
			)
		}
	}

	if err := s.messages.DeleteByInstanceID(ctx, id); err != nil {
		return err
	}
	if err := s.botStatus.DeleteByInstanceID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.rec.Count(ctx, model.MetricAPIRequest, map[string]any{"action": "delete_instance"})
	return nil
}

// statusFromState traduz o estado reportado pelo gateway. Só "open"
// significa sessão ativa; "connecting" aparece durante o pareamento.
func statusFromState(state string) model.InstanceStatus {
	switch state {
	case "open":
		return model.InstanceStatusConnected
	case "connecting":
		return model.InstanceStatusConnecting
	default:
		return model.InstanceStatusDisconnected
	}
}

// renderQR prefere o PNG pronto do gateway; quando só o código bruto
// vem na resposta, gera o PNG localmente.
func renderQR(qr gateway.QRCode) string {
	if qr.Base64 != "" {
		return qr.Base64
	}
	if qr.Code == "" {
		return ""
	}
	png, err := qrcode.Encode(qr.Code, qrcode.Medium, 256)
	if err != nil {
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
