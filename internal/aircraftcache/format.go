package aircraftcache

import "fmt"

func formatACID(acid int, icao uint32) string {
	return fmt.Sprintf("%d (%06X)", acid, icao)
}
