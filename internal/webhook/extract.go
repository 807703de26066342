package webhook

import (
	"regexp"
	"strings"
)

var digitsBeforeAt = regexp.MustCompile(`^(\d+)@`)
var onlyDigits = regexp.MustCompile(`^\d+$`)

// phoneFromJID extrai o número de um JID do WhatsApp
// ("5511999999999@s.whatsapp.net" → "5511999999999"). Grupos,
// listas de transmissão e aliases internos (@lid) não carregam número
// neste campo e retornam vazio.
func phoneFromJID(jid string) string {
	if jid == "" {
		return ""
	}
	if strings.Contains(jid, "@g.us") || strings.Contains(jid, "@lid") || strings.Contains(jid, "@broadcast") {
		return ""
	}
	if m := digitsBeforeAt.FindStringSubmatch(jid); m != nil {
		return m[1]
	}
	if onlyDigits.MatchString(jid) {
		return jid
	}
	return ""
}

// senderJID devolve o identificador bruto do remetente, sondando os
// localizadores conhecidos em ordem fixa: data.key.remoteJid,
// data.remoteJid, data.sender, data.from e por fim os campos legados
// na raiz do envelope.
func senderJID(env *Envelope) string {
	if env.Data != nil {
		if env.Data.Key != nil && env.Data.Key.RemoteJID != "" {
			return env.Data.Key.RemoteJID
		}
		if env.Data.RemoteJID != "" {
			return env.Data.RemoteJID
		}
		if env.Data.Sender != "" {
			return env.Data.Sender
		}
		if env.Data.From != "" {
			return env.Data.From
		}
	}
	if env.RemoteJID != "" {
		return env.RemoteJID
	}
	if env.Sender != "" {
		return env.Sender
	}
	return env.From
}

// ExtractSenderID resolve o número do remetente. Para JIDs @lid o
// número real só aparece no campo participant, então ele é a segunda
// tentativa. Retorna ("", false) quando nenhuma fonte resolve.
func ExtractSenderID(env *Envelope) (string, bool) {
	jid := senderJID(env)
	if jid == "" {
		return "", false
	}

	if strings.Contains(jid, "@lid") {
		var participant string
		if env.Data != nil {
			if env.Data.Key != nil && env.Data.Key.Participant != "" {
				participant = env.Data.Key.Participant
			} else if env.Data.Participant != "" {
				participant = env.Data.Participant
			}
		}
		if phone := phoneFromJID(participant); phone != "" {
			return phone, true
		}
		return "", false
	}

	if phone := phoneFromJID(jid); phone != "" {
		return phone, true
	}
	return "", false
}

// IsGroupOrBroadcast identifica origem de grupo ou lista de transmissão.
func IsGroupOrBroadcast(env *Envelope) bool {
	jid := senderJID(env)
	return strings.Contains(jid, "@g.us") || strings.Contains(jid, "@broadcast")
}

// ExtractContent resolve o texto da mensagem. Formas de texto puro vêm
// antes das legendas de mídia: conversation, extendedTextMessage.text,
// depois caption de imagem, vídeo e documento.
func ExtractContent(msg *MessagePayload) (string, bool) {
	if msg == nil {
		return "", false
	}
	if msg.Conversation != "" {
		return msg.Conversation, true
	}
	if msg.ExtendedTextMessage != nil && msg.ExtendedTextMessage.Text != "" {
		return msg.ExtendedTextMessage.Text, true
	}
	if msg.ImageMessage != nil && msg.ImageMessage.Caption != "" {
		return msg.ImageMessage.Caption, true
	}
	if msg.VideoMessage != nil && msg.VideoMessage.Caption != "" {
		return msg.VideoMessage.Caption, true
	}
	if msg.DocumentMessage != nil && msg.DocumentMessage.Caption != "" {
		return msg.DocumentMessage.Caption, true
	}
	return "", false
}
