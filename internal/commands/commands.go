// Package commands implements the chat-prefix command surface: slash
// commands typed into the game's chat box are intercepted before they
// ever reach the server and produce local side effects instead.
//
// Grounded on the original proxy's module/commands.rs (/hi, /autonexus,
// /devmode, toggles) and module/con.rs (the server shortname table and
// the Reconnect-packet side effect of /con).
package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/udisondev/rotmguard-proxy/internal/config"
)

// Notification color palette for /hi's sanity-ping reply.
var hiColors = [4]uint32{0xff8080, 0x80ffac, 0x80c6ff, 0xc480ff}

// colorPicker is swappable in tests; production wiring uses a simple
// round-robin index cursor starting from zero rather than crypto
// randomness (a sanity ping has no security property to protect).
var colorPicker = newCursor()

type cursor struct{ n uint32 }

func newCursor() *cursor { return &cursor{} }
func (c *cursor) next(mod int) int {
	c.n++
	return int(c.n % uint32(mod))
}

// Reconnect is the short-name -> real address table for /con, grounded on
// con.rs's SERVERS map.
var Reconnect = map[string]string{
	"eue":   "54.37.233.186",
	"eusw":  "188.245.188.173",
	"use2":  "169.62.129.97",
	"eun":   "37.187.113.253",
	"use":   "104.251.144.25",
	"usw4":  "108.61.193.186",
	"usn":   "108.61.238.101",
	"usmw2": "67.207.88.39",
	"usmw":  "45.77.153.55",
	"uss":   "199.247.21.174",
	"usw":   "45.76.18.184",
	"uss3":  "45.63.110.174",
	"usw3":  "149.28.105.183",
	"ussw":  "149.28.164.60",
	"usnw":  "45.32.128.62",
	"aus":   "149.28.220.181",
	"euw":   "51.15.207.189",
	"euw2":  "37.187.174.40",
	"a":     "51.178.34.162",
}

const reconnectPort = 2050

// Notification is a requested notification-packet injection.
type Notification struct {
	Color uint32
	Text  string
}

// ShowEffect is a requested show-effect injection targeting the self
// object.
type ShowEffect struct {
	EffectType uint8
	Duration   float32
}

// ReconnectInfo is a requested Reconnect-packet injection.
type ReconnectInfo struct {
	Host    string
	Port    uint16
	GameID  uint32
	KeyTime uint32
}

// Effect bundles every side effect a command can request; the caller
// (the session's packet router) turns these into actual wire packets.
type Effect struct {
	Notifications []Notification
	ShowEffects   []ShowEffect
	Reconnect     *ReconnectInfo
	ToggleAntipush bool
	ToggleFakeSlow bool
	ToggleAntilag  bool
	DamageReport   string // non-empty when /dmg was invoked; arg is id|name|""
}

const (
	colorGreen = 0x00ff00
	colorRed   = 0xff0000
	colorBlue  = 0x0000ff
)

// Handler dispatches chat text beginning with '/'. It never forwards the
// original PlayerText on a match; unmatched slash text is reported back
// to the caller as unhandled so the router can forward it verbatim, per
// spec §6.4.
type Handler struct {
	settings *config.Settings
}

func New(settings *config.Settings) *Handler {
	return &Handler{settings: settings}
}

// IsCommand reports whether text should be intercepted at all: it must
// start with '/' followed by an alphanumeric.
func IsCommand(text string) bool {
	if len(text) < 2 || text[0] != '/' {
		return false
	}
	c := text[1]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// Handle parses and executes a chat command. handled is false for an
// unrecognised verb, meaning the caller should forward the original text.
func (h *Handler) Handle(text string) (handled bool, effect Effect) {
	fields := strings.Fields(text)
	verb := strings.ToLower(fields[0])
	args := fields[1:]

	switch verb {
	case "/hi", "/rotmguard":
		idx := colorPicker.next(len(hiColors))
		return true, Effect{
			Notifications: []Notification{{Color: hiColors[idx], Text: "hi :)"}},
			ShowEffects: []ShowEffect{
				{EffectType: 1, Duration: 5.0},
				{EffectType: 37, Duration: 0.5},
			},
		}

	case "/autonexus":
		if len(args) == 0 {
			return true, Effect{Notifications: []Notification{{
				Color: colorBlue,
				Text:  fmt.Sprintf("Autonexus threshold is %d HP.", h.settings.AutonexusHP()),
			}}}
		}
		n, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || n < 0 {
			return true, Effect{Notifications: []Notification{{Color: colorRed, Text: "usage: /autonexus [hp]"}}}
		}
		h.settings.SetAutonexusHP(n)
		return true, Effect{Notifications: []Notification{{
			Color: colorGreen,
			Text:  fmt.Sprintf("Autonexus threshold set to %d HP.", n),
		}}}

	case "/devmode":
		v := !h.settings.DevMode()
		h.settings.SetDevMode(v)
		return true, Effect{Notifications: []Notification{{Color: colorBlue, Text: fmt.Sprintf("dev mode: %v", v)}}}

	case "/ap", "/antipush":
		return true, Effect{ToggleAntipush: true}

	case "/slow":
		return true, Effect{ToggleFakeSlow: true}

	case "/antilag":
		return true, Effect{ToggleAntilag: true}

	case "/dmg":
		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}
		return true, Effect{DamageReport: arg}

	case "/con":
		if len(args) == 0 {
			return true, Effect{Notifications: []Notification{{Color: colorBlue, Text: "usage: /con <server>"}}}
		}
		addr, ok := Reconnect[strings.ToLower(args[0])]
		if !ok {
			return true, Effect{Notifications: []Notification{{Color: colorRed, Text: "invalid server"}}}
		}
		return true, Effect{Reconnect: &ReconnectInfo{
			Host:    addr,
			Port:    reconnectPort,
			GameID:  0xfffffffe,
			KeyTime: 0xffffffff,
		}}
	}

	return false, Effect{}
}
