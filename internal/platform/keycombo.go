package platform

import (
	"strconv"
	"strings"
)

// Modifier identifies one of the four supported modifier keys.
type Modifier int

const (
	ModCtrl Modifier = iota
	ModAlt
	ModShift
	ModMeta
)

// modifierVK maps each modifier to its left-side virtual-key code.
var modifierVK = map[Modifier]uint32{
	ModCtrl:  vkControl,
	ModAlt:   vkMenu,
	ModShift: vkShift,
	ModMeta:  vkLWin,
}

// Combo is a parsed `+`-delimited key combo: zero or more modifiers pressed
// down in order, one main key pressed and released, then the modifiers
// released in reverse.
type Combo struct {
	Modifiers []Modifier
	Key       namedKey
}

// namedKey pairs a virtual-key code with whether synthesizing it requires
// the extended-key flag.
type namedKey struct {
	VK       uint32
	Extended bool
}

// ParseCombo parses a combo string like "ctrl+shift+a" into its modifier set
// and main key. Token matching is case-insensitive.
func ParseCombo(s string) (Combo, bool) {
	parts := strings.Split(s, "+")
	if len(parts) == 0 {
		return Combo{}, false
	}

	var combo Combo
	for i, raw := range parts {
		token := strings.ToLower(strings.TrimSpace(raw))
		if token == "" {
			// "ctrl++" style combos name the literal "+" key as the final token.
			if i == len(parts)-1 {
				token = "plus"
			} else {
				return Combo{}, false
			}
		}

		if mod, ok := modifierByName[token]; ok && i < len(parts)-1 {
			combo.Modifiers = append(combo.Modifiers, mod)
			continue
		}

		key, ok := namedKeys[token]
		if !ok {
			return Combo{}, false
		}
		combo.Key = key
		if i != len(parts)-1 {
			return Combo{}, false
		}
	}

	if combo.Key.VK == 0 {
		return Combo{}, false
	}
	return combo, true
}

// ModifierVK returns the virtual-key code used to synthesize m.
func ModifierVK(m Modifier) uint32 { return modifierVK[m] }

var modifierByName = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"shift":   ModShift,
	"meta":    ModMeta,
	"win":     ModMeta,
	"cmd":     ModMeta,
	"super":   ModMeta,
}

// Real Windows virtual-key codes (winuser.h).
const (
	vkBack       = 0x08
	vkTab        = 0x09
	vkReturn     = 0x0D
	vkShift      = 0x10
	vkControl    = 0x11
	vkMenu       = 0x12
	vkPause      = 0x13
	vkCapital    = 0x14
	vkEscape     = 0x1B
	vkSpace      = 0x20
	vkPrior      = 0x21
	vkNext       = 0x22
	vkEnd        = 0x23
	vkHome       = 0x24
	vkLeft       = 0x25
	vkUp         = 0x26
	vkRight      = 0x27
	vkDown       = 0x28
	vkPrintScrn  = 0x2C
	vkInsert     = 0x2D
	vkDelete     = 0x2E
	vkLWin       = 0x5B
	vkRWin       = 0x5C
	vkApps       = 0x5D
	vkNumpad0    = 0x60
	vkMultiply   = 0x6A
	vkAdd        = 0x6B
	vkSeparator  = 0x6C
	vkSubtract   = 0x6D
	vkDecimal    = 0x6E
	vkDivide     = 0x6F
	vkF1         = 0x70
	vkF24        = 0x87
	vkNumlock    = 0x90
	vkScroll     = 0x91
	vkLShift     = 0xA0
	vkRShift     = 0xA1
	vkLControl   = 0xA2
	vkRControl   = 0xA3
	vkLMenu      = 0xA4
	vkRMenu      = 0xA5
	vkVolumeMute = 0xAD
	vkVolumeDown = 0xAE
	vkVolumeUp   = 0xAF
	vkMediaNext  = 0xB0
	vkMediaPrev  = 0xB1
	vkMediaStop  = 0xB2
	vkMediaPlay  = 0xB3
	vkOEM1       = 0xBA // ;:
	vkOEMPlus    = 0xBB // =+
	vkOEMComma   = 0xBC // ,<
	vkOEMMinus   = 0xBD // -_
	vkOEMPeriod  = 0xBE // .>
	vkOEM2       = 0xBF // /?
	vkOEM3       = 0xC0 // `~
	vkOEM4       = 0xDB // [{
	vkOEM5       = 0xDC // \|
	vkOEM6       = 0xDD // ]}
	vkOEM7       = 0xDE // '"
)

// namedKeys maps 129 lower-cased key names to their virtual-key code and
// whether they require the extended-key flag when synthesized.
var namedKeys = buildNamedKeys()

func buildNamedKeys() map[string]namedKey {
	m := map[string]namedKey{
		"backspace": {vkBack, false},
		"tab":       {vkTab, false},
		"enter":     {vkReturn, false},
		"return":    {vkReturn, false},
		"pause":     {vkPause, false},
		"capslock":  {vkCapital, false},
		"esc":       {vkEscape, false},
		"escape":    {vkEscape, false},
		"space":     {vkSpace, false},
		"pageup":    {vkPrior, true},
		"pagedown":  {vkNext, true},
		"end":       {vkEnd, true},
		"home":      {vkHome, true},
		"left":      {vkLeft, true},
		"up":        {vkUp, true},
		"right":     {vkRight, true},
		"down":      {vkDown, true},
		"printscreen": {vkPrintScrn, true},
		"insert":      {vkInsert, true},
		"delete":      {vkDelete, true},
		"del":         {vkDelete, true},
		"win":         {vkLWin, false},
		"rightwin":    {vkRWin, true},
		"apps":        {vkApps, false},
		"numlock":     {vkNumlock, true},
		"scrolllock":  {vkScroll, false},
		"leftshift":   {vkLShift, false},
		"rightshift":  {vkRShift, false},
		"leftctrl":    {vkLControl, false},
		"rightctrl":   {vkRControl, true},
		"leftalt":     {vkLMenu, false},
		"rightalt":    {vkRMenu, true},
		"volumemute":  {vkVolumeMute, false},
		"volumedown":  {vkVolumeDown, false},
		"volumeup":    {vkVolumeUp, false},
		"medianext":   {vkMediaNext, false},
		"mediaprev":   {vkMediaPrev, false},
		"mediastop":   {vkMediaStop, false},
		"mediaplay":   {vkMediaPlay, false},
		"playpause":   {vkMediaPlay, false},
		"semicolon":   {vkOEM1, false},
		"plus":        {vkOEMPlus, false},
		"equals":      {vkOEMPlus, false},
		"comma":       {vkOEMComma, false},
		"minus":       {vkOEMMinus, false},
		"period":      {vkOEMPeriod, false},
		"slash":       {vkOEM2, false},
		"backtick":    {vkOEM3, false},
		"tilde":       {vkOEM3, false},
		"openbracket": {vkOEM4, false},
		"backslash":   {vkOEM5, false},
		"closebracket": {vkOEM6, false},
		"quote":        {vkOEM7, false},
		"numdivide":    {vkDivide, true},
		"nummultiply":  {vkMultiply, false},
		"numsubtract":  {vkSubtract, false},
		"numadd":       {vkAdd, false},
		"numdecimal":   {vkDecimal, false},
		"numseparator": {vkSeparator, false},
	}

	// a-z
	for c := byte('a'); c <= 'z'; c++ {
		m[string(rune(c))] = namedKey{VK: uint32('A' + (c - 'a')), Extended: false}
	}
	// 0-9
	for c := byte('0'); c <= '9'; c++ {
		m[string(rune(c))] = namedKey{VK: uint32(c), Extended: false}
	}
	// numpad0-numpad9
	for i := 0; i <= 9; i++ {
		m["numpad"+string(rune('0'+i))] = namedKey{VK: uint32(vkNumpad0 + i), Extended: false}
	}
	// f1-f24
	for i := 1; i <= 24; i++ {
		vk := uint32(vkF1 + i - 1)
		m["f"+strconv.Itoa(i)] = namedKey{VK: vk, Extended: false}
	}

	return m
}
