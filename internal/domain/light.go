package domain

import "fmt"

const (
	MinLight = 1
	MaxLight = 4
)

// AllLights returns every addressable light id in ascending order.
func AllLights() []int {
	ids := make([]int, 0, MaxLight-MinLight+1)
	for i := MinLight; i <= MaxLight; i++ {
		ids = append(ids, i)
	}
	return ids
}

func ValidLight(id int) bool {
	return id >= MinLight && id <= MaxLight
}

// LightKey is the key the relay firmware and the web UI use for a light.
func LightKey(id int) string {
	return fmt.Sprintf("light%d", id)
}

// LightStatus is the last known on/off state per light id.
type LightStatus map[int]bool

// RelayInfo is the network information reported by the relay board.
type RelayInfo struct {
	IP     string `json:"ip"`
	WiFi   string `json:"wifi"`
	Signal int    `json:"signal"`
	MAC    string `json:"mac"`
}

// RelayStatus is one status report of the relay board.
type RelayStatus struct {
	Lights LightStatus
	Info   RelayInfo
}
