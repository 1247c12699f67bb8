// Package locale holds the per-language copy used by emails and the
// terminal confirmation pages. Adding a language means adding one entry to
// the registry; no call site branches on the language code.
package locale

import "strings"

const (
	ES = "es"
	EN = "en"

	// Default is the signup language when none is supplied.
	Default = ES
)

// Copy is every localized string one language needs.
type Copy struct {
	Code string

	// Confirmation email
	ConfirmSubject string
	ConfirmIntro   string
	ConfirmButton  string
	ConfirmIgnore  string

	// Newsletter email
	NewsletterSubject string // fmt verb: post title
	ReadMoreButton    string
	ReadingTime       string // fmt verb: minutes
	UnsubscribeLabel  string

	// Intake API messages
	SubscribePendingMsg string
	SubscribeActiveMsg  string
	DownloadReadyMsg    string

	// Terminal pages
	ConfirmedTitle      string
	ConfirmedBody       string
	AlreadyTitle        string
	AlreadyBody         string
	InvalidTokenTitle   string
	InvalidTokenBody    string
	UnsubBlockedTitle   string
	UnsubBlockedBody    string
	UnsubscribedTitle   string
	UnsubscribedBody    string
	AlreadyUnsubTitle   string
	AlreadyUnsubBody    string
	InternalErrorTitle  string
	InternalErrorBody   string
	BackToSite          string
}

var registry = map[string]Copy{
	ES: {
		Code:              ES,
		ConfirmSubject:    "Confirma tu suscripción al boletín",
		ConfirmIntro:      "Gracias por suscribirte. Haz clic en el botón para confirmar tu correo:",
		ConfirmButton:     "Confirmar suscripción",
		ConfirmIgnore:     "Si no solicitaste esta suscripción, ignora este correo.",
		NewsletterSubject: "Nuevo artículo: %s",
		ReadMoreButton:    "Leer artículo completo",
		ReadingTime:       "%d min de lectura",
		UnsubscribeLabel:  "Cancelar suscripción",

		SubscribePendingMsg: "Revisa tu correo y confirma la suscripción para activarla.",
		SubscribeActiveMsg:  "Tu suscripción ya está activa.",
		DownloadReadyMsg:    "Tu descarga está lista.",

		ConfirmedTitle:     "¡Suscripción confirmada!",
		ConfirmedBody:      "Tu correo ha sido verificado. A partir de ahora recibirás nuestro boletín.",
		AlreadyTitle:       "Suscripción ya confirmada",
		AlreadyBody:        "Tu suscripción ya estaba activa. No hace falta hacer nada más.",
		InvalidTokenTitle:  "Enlace no válido",
		InvalidTokenBody:   "El enlace de confirmación no es válido o ya fue utilizado.",
		UnsubBlockedTitle:  "Suscripción cancelada previamente",
		UnsubBlockedBody:   "Esta dirección canceló su suscripción. Para volver a recibir el boletín, suscríbete de nuevo desde el sitio.",
		UnsubscribedTitle:  "Suscripción cancelada",
		UnsubscribedBody:   "No recibirás más correos del boletín. Lamentamos verte partir.",
		AlreadyUnsubTitle:  "Suscripción ya cancelada",
		AlreadyUnsubBody:   "Esta dirección ya no recibe el boletín.",
		InternalErrorTitle: "Algo salió mal",
		InternalErrorBody:  "No pudimos procesar tu solicitud. Inténtalo de nuevo más tarde.",
		BackToSite:         "Volver al sitio",
	},
	EN: {
		Code:              EN,
		ConfirmSubject:    "Confirm your newsletter subscription",
		ConfirmIntro:      "Thanks for subscribing. Click the button below to confirm your email:",
		ConfirmButton:     "Confirm subscription",
		ConfirmIgnore:     "If you did not request this subscription, you can ignore this email.",
		NewsletterSubject: "New article: %s",
		ReadMoreButton:    "Read the full article",
		ReadingTime:       "%d min read",
		UnsubscribeLabel:  "Unsubscribe",

		SubscribePendingMsg: "Check your inbox and confirm the subscription to activate it.",
		SubscribeActiveMsg:  "Your subscription is already active.",
		DownloadReadyMsg:    "Your download is ready.",

		ConfirmedTitle:     "Subscription confirmed!",
		ConfirmedBody:      "Your email has been verified. You will receive our newsletter from now on.",
		AlreadyTitle:       "Already confirmed",
		AlreadyBody:        "Your subscription was already active. Nothing else to do.",
		InvalidTokenTitle:  "Invalid link",
		InvalidTokenBody:   "This confirmation link is not valid or has already been used.",
		UnsubBlockedTitle:  "Previously unsubscribed",
		UnsubBlockedBody:   "This address unsubscribed earlier. To receive the newsletter again, sign up once more on the site.",
		UnsubscribedTitle:  "Unsubscribed",
		UnsubscribedBody:   "You will no longer receive newsletter emails. Sorry to see you go.",
		AlreadyUnsubTitle:  "Already unsubscribed",
		AlreadyUnsubBody:   "This address no longer receives the newsletter.",
		InternalErrorTitle: "Something went wrong",
		InternalErrorBody:  "We could not process your request. Please try again later.",
		BackToSite:         "Back to the site",
	},
}

// Normalize lowercases a language code and falls back to the default for
// anything outside the registry.
func Normalize(code string) string {
	c := strings.ToLower(strings.TrimSpace(code))
	if _, ok := registry[c]; ok {
		return c
	}
	return Default
}

// Supported reports whether the code names a registered language.
func Supported(code string) bool {
	_, ok := registry[strings.ToLower(strings.TrimSpace(code))]
	return ok
}

// Get returns the copy table for a language, defaulting when unknown.
func Get(code string) Copy {
	return registry[Normalize(code)]
}

// Codes lists the registered language codes.
func Codes() []string {
	return []string{ES, EN}
}
