package parser

import (
	"fmt"
	"strings"
	"time"
)

// HelpMessage explains the accepted message formats to the end user.
func HelpMessage() string {
	return "📅 *AgendAI - Como criar compromissos:*\n\n" +
		"Envie no formato:\n" +
		"*título | data | hora início - hora fim*\n\n" +
		"Exemplos:\n" +
		"• Dentista | 15/03 | 10:00 - 11:00\n" +
		"• Reunião | amanhã | 14:00 - 15:30\n" +
		"• Call com cliente | hoje | 16:00 - 17:00\n" +
		"• Médico | 20/03/2026 | 09:00 - 10:00\n\n" +
		"Ou no formato natural:\n" +
		"• Dentista dia 15/03 às 10:00 - 11:00"
}

// ConfirmationMessage renders the chat reply after an appointment was created.
func ConfirmationMessage(cmd Command, location string) string {
	var b strings.Builder
	b.WriteString("✅ Compromisso criado com sucesso!\n\n")
	fmt.Fprintf(&b, "📌 *%s*\n", cmd.Title)
	fmt.Fprintf(&b, "📅 %s\n", cmd.Start.Format("02/01/2006"))
	fmt.Fprintf(&b, "🕐 %s - %s\n", cmd.Start.Format("15:04"), cmd.End.Format("15:04"))
	if location != "" {
		fmt.Fprintf(&b, "📍 %s\n", location)
	}
	b.WriteString("\nVocê receberá um lembrete antes do compromisso.")
	return b.String()
}

// UnregisteredMessage is sent when the sender's number has no account.
func UnregisteredMessage() string {
	return "❌ Seu número não está cadastrado no AgendAI.\n\n" +
		"Acesse nosso site para criar sua conta e cadastre seu telefone nas configurações.\n\n" +
		"🌐 agendai.com"
}

// NotUnderstoodMessage is sent when no grammar matched the message.
func NotUnderstoodMessage() string {
	return "🤔 Não consegui entender o compromisso.\n\n" + HelpMessage()
}

// TextOnlyMessage is sent in reply to non-text media messages.
func TextOnlyMessage() string {
	return "📱 Por enquanto, aceito apenas mensagens de texto. " + HelpMessage()
}

// AgendaHeader prefixes the upcoming appointment listing.
const AgendaHeader = "📅 *Seus próximos compromissos:*\n\n"

// AgendaEmptyMessage is sent when the user has no future appointments.
const AgendaEmptyMessage = "📅 Você não tem compromissos futuros agendados."

// AgendaLine renders one numbered entry of the agenda listing.
func AgendaLine(position int, title string, start time.Time, location string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. *%s*\n", position, title)
	fmt.Fprintf(&b, "   📅 %s às %s\n", start.Format("02/01/2006"), start.Format("15:04"))
	if location != "" {
		fmt.Fprintf(&b, "   📍 %s\n", location)
	}
	b.WriteString("\n")
	return b.String()
}
