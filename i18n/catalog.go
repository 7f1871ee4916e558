package i18n

import (
	"golang.org/x/text/language"
)

// Message keys used across the thread-opening flow.
const (
	KeyThreadOpenFailed        = "thread.open.failed"
	KeyThreadOpenNotMember     = "thread.open.not_member"
	KeyThreadOpenNoTagSelected = "thread.open.no_tag_selected"
	KeyThreadOpenAlreadyExists = "thread.open.already_exists"
	KeyThreadOpenSuccess       = "thread.open.success"
	KeyMessageDelivered        = "thread.message.delivered"
	KeyThreadClosed            = "thread.closed"
	KeyTagPrompt               = "tag.prompt"
	KeyTagPromptTimedOut       = "tag.prompt.timed_out"
	KeyDeflectionLog           = "deflection.log"
)

type catalog struct {
	tag      language.Tag
	messages map[string]string
}

// builtinCatalogs hold the shipped translations. The first entry is the
// fallback language.
var builtinCatalogs = []catalog{
	{
		tag: language.AmericanEnglish,
		messages: map[string]string{
			KeyThreadOpenFailed:        "Something went wrong while opening your thread. Please try again later.",
			KeyThreadOpenNotMember:     "You need to be a member of the server to contact the staff team.",
			KeyThreadOpenNoTagSelected: "No category was chosen, so your message was not sent. Please send it again.",
			KeyThreadOpenAlreadyExists: "A thread for {user} is already open.",
			KeyThreadOpenSuccess:       "Opened a thread for {user}.",
			KeyMessageDelivered:        "Your message has been delivered to the staff team.",
			KeyThreadClosed:            "Your thread has been closed by the staff team.",
			KeyTagPrompt:               "Please choose a category for your request:",
			KeyTagPromptTimedOut:       "Category selection timed out. Please send your message again.",
			KeyDeflectionLog:           "Auto-replied to {user} (category: {tag}).",
		},
	},
	{
		tag: language.German,
		messages: map[string]string{
			KeyThreadOpenFailed:        "Beim Öffnen deines Threads ist etwas schiefgelaufen. Bitte versuche es später erneut.",
			KeyThreadOpenNotMember:     "Du musst Mitglied des Servers sein, um das Team zu kontaktieren.",
			KeyThreadOpenNoTagSelected: "Es wurde keine Kategorie gewählt, deine Nachricht wurde nicht gesendet. Bitte sende sie erneut.",
			KeyThreadOpenAlreadyExists: "Für {user} ist bereits ein Thread offen.",
			KeyThreadOpenSuccess:       "Thread für {user} geöffnet.",
			KeyMessageDelivered:        "Deine Nachricht wurde an das Team übermittelt.",
			KeyThreadClosed:            "Dein Thread wurde vom Team geschlossen.",
			KeyTagPrompt:               "Bitte wähle eine Kategorie für dein Anliegen:",
			KeyTagPromptTimedOut:       "Die Kategorieauswahl ist abgelaufen. Bitte sende deine Nachricht erneut.",
			KeyDeflectionLog:           "Automatische Antwort an {user} (Kategorie: {tag}).",
		},
	},
}
