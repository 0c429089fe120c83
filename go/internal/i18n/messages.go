// Package i18n holds the user-facing strings of the dashboard.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys are the English strings.
const (
	MsgRetry         = "Could not reach the server. Please try again."
	MsgServerError   = "Server error"
	MsgServerErrorAt = "Server error: %d, %s"
	MsgWaiting       = "Waiting for other players to join and organizer to start the game"
	MsgRoundStatus   = "%s with %d cards, %d tricks bid so far"
	MsgOutOfSync     = "Error! Dashboard and server state are out of sync."
	MsgGameOver      = "Game over"
	MsgNotBid        = "not bid yet"
	MsgBidFor        = "bid for %d tricks"
	MsgPlayerStats   = "%s: %d cards, %s, %d tricks won"
	MsgOwnStats      = "Your bid: %s. Tricks won: %d"
	MsgBidPlaced     = "Bid placed."
	MsgCardPlayed    = "Card played."
	MsgRoundFinished = "Round finished."
	MsgConnecting    = "Connection problem, retrying in %s"
)

var supported = []language.Tag{
	language.English,
	language.German,
	language.French,
}

var matcher = language.NewMatcher(supported)

var translations = map[language.Tag]map[string]string{
	language.German: {
		MsgRetry:         "Der Server ist nicht erreichbar. Bitte erneut versuchen.",
		MsgServerError:   "Serverfehler",
		MsgServerErrorAt: "Serverfehler: %d, %s",
		MsgWaiting:       "Warte auf weitere Spieler und den Spielstart durch den Organisator",
		MsgRoundStatus:   "%s mit %d Karten, bisher %d Stiche angesagt",
		MsgOutOfSync:     "Fehler! Anzeige und Serverzustand passen nicht zusammen.",
		MsgGameOver:      "Spiel beendet",
		MsgNotBid:        "noch nicht angesagt",
		MsgBidFor:        "%d Stiche angesagt",
		MsgPlayerStats:   "%s: %d Karten, %s, %d Stiche gewonnen",
		MsgOwnStats:      "Deine Ansage: %s. Gewonnene Stiche: %d",
		MsgBidPlaced:     "Ansage abgegeben.",
		MsgCardPlayed:    "Karte gespielt.",
		MsgRoundFinished: "Runde beendet.",
		MsgConnecting:    "Verbindungsproblem, neuer Versuch in %s",
	},
	language.French: {
		MsgRetry:         "Impossible de joindre le serveur. Veuillez réessayer.",
		MsgServerError:   "Erreur du serveur",
		MsgServerErrorAt: "Erreur du serveur : %d, %s",
		MsgWaiting:       "En attente des autres joueurs et du lancement de la partie par l'organisateur",
		MsgRoundStatus:   "%s avec %d cartes, %d plis annoncés pour l'instant",
		MsgOutOfSync:     "Erreur ! L'affichage et l'état du serveur ne correspondent plus.",
		MsgGameOver:      "Partie terminée",
		MsgNotBid:        "pas encore annoncé",
		MsgBidFor:        "%d plis annoncés",
		MsgPlayerStats:   "%s : %d cartes, %s, %d plis gagnés",
		MsgOwnStats:      "Ton annonce : %s. Plis gagnés : %d",
		MsgBidPlaced:     "Annonce enregistrée.",
		MsgCardPlayed:    "Carte jouée.",
		MsgRoundFinished: "Manche terminée.",
		MsgConnecting:    "Problème de connexion, nouvel essai dans %s",
	},
}

func init() {
	for tag, msgs := range translations {
		for key, msg := range msgs {
			if err := message.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
}

// Localizer formats messages for one language.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// New picks the best supported language for pref, which may be an
// Accept-Language value or a POSIX locale such as "de_DE.UTF-8".
func New(pref string) *Localizer {
	pref = strings.SplitN(pref, ".", 2)[0]
	pref = strings.ReplaceAll(pref, "_", "-")
	tag, _ := language.MatchStrings(matcher, pref)
	base, _ := tag.Base()
	tag = language.Make(base.String())
	return &Localizer{tag: tag, printer: message.NewPrinter(tag)}
}

// Language is the matched language.
func (l *Localizer) Language() language.Tag { return l.tag }

// T formats key with args in the localizer's language.
func (l *Localizer) T(key string, args ...any) string {
	return l.printer.Sprintf(key, args...)
}
