package webhook

// Tipos frouxos para o payload do gateway. A Evolution API já mudou o
// formato do webhook mais de uma vez, então todo campo é opcional e a
// extração sonda os caminhos conhecidos em ordem fixa em vez de exigir
// um esquema único.

type Envelope struct {
	Event    string `json:"event"`
	Instance string `json:"instance"`
	Data     *Data  `json:"data,omitempty"`

	// Localizadores legados vistos em revisões antigas do gateway.
	Sender    string `json:"sender,omitempty"`
	From      string `json:"from,omitempty"`
	RemoteJID string `json:"remoteJid,omitempty"`
}

type Data struct {
	Key         *Key            `json:"key,omitempty"`
	Message     *MessagePayload `json:"message,omitempty"`
	Participant string          `json:"participant,omitempty"`
	PushName    string          `json:"pushName,omitempty"`
	State       string          `json:"state,omitempty"`
	QRCode      *QRCodePayload  `json:"qrcode,omitempty"`

	Sender    string `json:"sender,omitempty"`
	From      string `json:"from,omitempty"`
	RemoteJID string `json:"remoteJid,omitempty"`
}

type Key struct {
	RemoteJID   string `json:"remoteJid,omitempty"`
	FromMe      bool   `json:"fromMe,omitempty"`
	ID          string `json:"id,omitempty"`
	Participant string `json:"participant,omitempty"`
}

type MessagePayload struct {
	Conversation        string        `json:"conversation,omitempty"`
	ExtendedTextMessage *TextWrapper  `json:"extendedTextMessage,omitempty"`
	ImageMessage        *MediaWrapper `json:"imageMessage,omitempty"`
	VideoMessage        *MediaWrapper `json:"videoMessage,omitempty"`
	DocumentMessage     *MediaWrapper `json:"documentMessage,omitempty"`
}

type TextWrapper struct {
	Text string `json:"text,omitempty"`
}

type MediaWrapper struct {
	Caption string `json:"caption,omitempty"`
}

type QRCodePayload struct {
	Base64 string `json:"base64,omitempty"`
}
