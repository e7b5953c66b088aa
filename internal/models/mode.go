package models

import "time"

// Operating modes. The latest ModeEvent defines the current mode; an empty
// history means AUTO.
const (
	ModeManual = 0
	ModeAuto   = 1
)

// ModeName maps a mode value to its display name.
func ModeName(mode int) string {
	if mode == ModeAuto {
		return "AUTO"
	}
	return "MANUAL"
}

// ModeEvent records one AUTO/MANUAL switch.
type ModeEvent struct {
	ID         int       `json:"id"`
	Mode       int       `json:"mode"` // 1 = AUTO, 0 = MANUAL
	ModeName   string    `json:"mode_name,omitempty"`
	SelectedAt time.Time `json:"selected_at"`
}
