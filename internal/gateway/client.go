package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/verlic/zapcentral/internal/config"
)

// Client fala com o gateway Evolution API. Quando o gateway não está
// configurado o cliente é nil-safe: toda operação retorna o valor zero
// sem erro, assim o console continua funcionando em modo degradado.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *zap.Logger
}

func New(cfg config.EvolutionConfig, log *zap.Logger) *Client {
	if !cfg.IsConfigured() {
		log.Warn("gateway: Evolution API não configurada, operando em modo degradado")
		return nil
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// InstanceInfo é o formato que o gateway retorna para uma instância.
type InstanceInfo struct {
	Name             string `json:"name"`
	InstanceName     string `json:"instanceName,omitempty"`
	InstanceID       string `json:"instanceId,omitempty"`
	ID               string `json:"id,omitempty"`
	Status           string `json:"status,omitempty"`
	ConnectionStatus string `json:"connectionStatus,omitempty"`
	Owner            string `json:"owner,omitempty"`
	OwnerJID         string `json:"ownerJid,omitempty"`
	ProfileName      string `json:"profileName,omitempty"`
	ProfilePicURL    string `json:"profilePicUrl,omitempty"`
}

// PhoneNumber extrai o número do ownerJid (formato "5511999999999@s.whatsapp.net").
func (i InstanceInfo) PhoneNumber() string {
	jid := i.OwnerJID
	if jid == "" {
		jid = i.Owner
	}
	if jid == "" {
		return ""
	}
	if at := strings.Index(jid, "@"); at >= 0 {
		return jid[:at]
	}
	return jid
}

type QRCode struct {
	Base64      string `json:"base64"`
	Code        string `json:"code"`
	PairingCode string `json:"pairingCode,omitempty"`
}

func (c *Client) CreateInstance(ctx context.Context, instanceName string) (InstanceInfo, error) {
	if c == nil {
		return InstanceInfo{}, nil
	}

	body := map[string]any{
		"instanceName": instanceName,
		"integration":  "WHATSAPP-BAILEYS",
		"qrcode":       true,
	}

	var info InstanceInfo
	if err := c.do(ctx, http.MethodPost, "/instance/create", body, &info); err != nil {
		return InstanceInfo{}, fmt.Errorf("gateway: criar instância: %w", err)
	}
	return info, nil
}

// ConnectionState retorna "open", "connecting" ou "close"; em erro de
// transporte devolve "disconnected" sem propagar, igual ao console.
func (c *Client) ConnectionState(ctx context.Context, instanceName string) string {
	if c == nil {
		return ""
	}

	var out struct {
		State    string `json:"state"`
		Instance struct {
			State string `json:"state"`
		} `json:"instance"`
	}
	if err := c.do(ctx, http.MethodGet, "/instance/connectionState/"+url.PathEscape(instanceName), nil, &out); err != nil {
		c.log.Warn("gateway: erro ao consultar estado", zap.String("instance", instanceName), zap.Error(err))
		return "disconnected"
	}

	if out.Instance.State != "" {
		return out.Instance.State
	}
	if out.State != "" {
		return out.State
	}
	return "disconnected"
}

func (c *Client) QRCode(ctx context.Context, instanceName string) (QRCode, error) {
	if c == nil {
		return QRCode{}, nil
	}

	var qr QRCode
	if err := c.do(ctx, http.MethodGet, "/instance/connect/"+url.PathEscape(instanceName), nil, &qr); err != nil {
		return QRCode{}, fmt.Errorf("gateway: obter qr code: %w", err)
	}
	return qr, nil
}

func (c *Client) FetchInstances(ctx context.Context) ([]InstanceInfo, error) {
	if c == nil {
		return nil, nil
	}

	var list []InstanceInfo
	if err := c.do(ctx, http.MethodGet, "/instance/fetchInstances", nil, &list); err != nil {
		return nil, fmt.Errorf("gateway: listar instâncias: %w", err)
	}
	return list, nil
}

// FetchInstance consulta uma instância pelo nome. O gateway responde
// com um array mesmo filtrando por nome.
func (c *Client) FetchInstance(ctx context.Context, instanceName string) (InstanceInfo, error) {
	if c == nil {
		return InstanceInfo{}, nil
	}

	var list []InstanceInfo
	path := "/instance/fetchInstances?instanceName=" + url.QueryEscape(instanceName)
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return InstanceInfo{}, fmt.Errorf("gateway: consultar instância: %w", err)
	}
	if len(list) == 0 {
		return InstanceInfo{}, nil
	}
	return list[0], nil
}

func (c *Client) Delete(ctx context.Context, instanceName string) error {
	if c == nil {
		return nil
	}
	if err := c.do(ctx, http.MethodDelete, "/instance/delete/"+url.PathEscape(instanceName), nil, nil); err != nil {
		return fmt.Errorf("gateway: deletar instância: %w", err)
	}
	return nil
}

func (c *Client) Logout(ctx context.Context, instanceName string) error {
	if c == nil {
		return nil
	}
	if err := c.do(ctx, http.MethodDelete, "/instance/logout/"+url.PathEscape(instanceName), nil, nil); err != nil {
		return fmt.Errorf("gateway: desconectar instância: %w", err)
	}
	return nil
}

func (c *Client) Restart(ctx context.Context, instanceName string) error {
	if c == nil {
		return nil
	}
	if err := c.do(ctx, http.MethodPost, "/instance/restart/"+url.PathEscape(instanceName), nil, nil); err != nil {
		return fmt.Errorf("gateway: reiniciar instância: %w", err)
	}
	return nil
}

func (c *Client) SendText(ctx context.Context, instanceName, phoneNumber, text string) error {
	if c == nil {
		return nil
	}

	body := map[string]any{
		"number": phoneNumber,
		"text":   text,
	}
	if err := c.do(ctx, http.MethodPost, "/message/sendText/"+url.PathEscape(instanceName), body, nil); err != nil {
		return fmt.Errorf("gateway: enviar mensagem: %w", err)
	}
	return nil
}

func (c *Client) SetWebhook(ctx context.Context, instanceName, webhookURL string) error {
	if c == nil {
		return nil
	}

	body := map[string]any{
		"webhook": map[string]any{
			"enabled": true,
			"url":     webhookURL,
			"events": []string{
				"MESSAGES_UPSERT",
				"CONNECTION_UPDATE",
				"QRCODE_UPDATED",
			},
		},
	}
	if err := c.do(ctx, http.MethodPost, "/webhook/set/"+url.PathEscape(instanceName), body, nil); err != nil {
		return fmt.Errorf("gateway: configurar webhook: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
