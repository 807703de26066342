package webhook

import "testing"

func TestPhoneFromJID(t *testing.T) {
	tests := []struct {
		name string
		jid  string
		want string
	}{
		{"contato normal", "5511999999999@s.whatsapp.net", "5511999999999"},
		{"formato antigo", "5511999999999@c.us", "5511999999999"},
		{"grupo", "5511999999999@g.us", ""},
		{"broadcast", "status@broadcast", ""},
		{"alias interno", "123456789@lid", ""},
		{"apenas dígitos", "5511999999999", "5511999999999"},
		{"vazio", "", ""},
		{"sem dígitos", "abc@s.whatsapp.net", ""},
		{"nome de contato", "Maria Silva", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := phoneFromJID(tt.jid); got != tt.want {
				t.Errorf("phoneFromJID(%q) = %q, want %q", tt.jid, got, tt.want)
			}
		})
	}
}

func TestExtractSenderID(t *testing.T) {
	tests := []struct {
		name   string
		env    *Envelope
		want   string
		wantOK bool
	}{
		{
			name: "remoteJid na key",
			env: &Envelope{Data: &Data{Key: &Key{
				RemoteJID: "5511988887777@s.whatsapp.net",
			}}},
			want:   "5511988887777",
			wantOK: true,
		},
		{
			name: "lid com participant na key",
			env: &Envelope{Data: &Data{Key: &Key{
				RemoteJID:   "98765@lid",
				Participant: "5511977776666@s.whatsapp.net",
			}}},
			want:   "5511977776666",
			wantOK: true,
		},
		{
			name: "lid com participant no data",
			env: &Envelope{Data: &Data{
				Key:         &Key{RemoteJID: "98765@lid"},
				Participant: "5511966665555@s.whatsapp.net",
			}},
			want:   "5511966665555",
			wantOK: true,
		},
		{
			name: "lid sem participant",
			env: &Envelope{Data: &Data{Key: &Key{
				RemoteJID: "98765@lid",
			}}},
			wantOK: false,
		},
		{
			name: "localizador legado na raiz",
			env: &Envelope{
				RemoteJID: "5511955554444@s.whatsapp.net",
			},
			want:   "5511955554444",
			wantOK: true,
		},
		{
			name: "campo sender do data",
			env: &Envelope{Data: &Data{
				Sender: "5511944443333@s.whatsapp.net",
			}},
			want:   "5511944443333",
			wantOK: true,
		},
		{
			name: "key tem prioridade sobre data.sender",
			env: &Envelope{Data: &Data{
				Key:    &Key{RemoteJID: "5511911111111@s.whatsapp.net"},
				Sender: "5511922222222@s.whatsapp.net",
			}},
			want:   "5511911111111",
			wantOK: true,
		},
		{
			name:   "envelope vazio",
			env:    &Envelope{},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractSenderID(tt.env)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("sender = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractContentPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		msg    *MessagePayload
		want   string
		wantOK bool
	}{
		{
			name:   "conversation simples",
			msg:    &MessagePayload{Conversation: "oi"},
			want:   "oi",
			wantOK: true,
		},
		{
			name:   "texto estendido",
			msg:    &MessagePayload{ExtendedTextMessage: &TextWrapper{Text: "bom dia"}},
			want:   "bom dia",
			wantOK: true,
		},
		{
			name:   "legenda de imagem",
			msg:    &MessagePayload{ImageMessage: &MediaWrapper{Caption: "olha essa foto"}},
			want:   "olha essa foto",
			wantOK: true,
		},
		{
			name:   "legenda de vídeo",
			msg:    &MessagePayload{VideoMessage: &MediaWrapper{Caption: "vídeo"}},
			want:   "vídeo",
			wantOK: true,
		},
		{
			name:   "legenda de documento",
			msg:    &MessagePayload{DocumentMessage: &MediaWrapper{Caption: "contrato"}},
			want:   "contrato",
			wantOK: true,
		},
		{
			name: "conversation vence texto estendido",
			msg: &MessagePayload{
				Conversation:        "plain",
				ExtendedTextMessage: &TextWrapper{Text: "extended"},
			},
			want:   "plain",
			wantOK: true,
		},
		{
			name: "texto vence legenda",
			msg: &MessagePayload{
				ExtendedTextMessage: &TextWrapper{Text: "texto"},
				ImageMessage:        &MediaWrapper{Caption: "legenda"},
			},
			want:   "texto",
			wantOK: true,
		},
		{
			name:   "imagem sem legenda",
			msg:    &MessagePayload{ImageMessage: &MediaWrapper{}},
			wantOK: false,
		},
		{
			name:   "mensagem vazia",
			msg:    &MessagePayload{},
			wantOK: false,
		},
		{
			name:   "nil",
			msg:    nil,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractContent(tt.msg)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("content = %q, want %q", got, tt.want)
			}
		})
	}
}
