// Package env provides host identity for ground side tools.
package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

const appID = "tuppersat-r2d1"

// MachineID retrieves an ID identifying the machine, hashed with the
// application ID so the raw ID never leaves the host. The hostname is
// used when the machine ID is unavailable.
func MachineID() string {
	id, err := machineid.ProtectedID(appID)
	if err != nil {
		glog.Warningf("machine id unavailable: %v", err)
		if id, err = os.Hostname(); err != nil {
			return "unknown"
		}
	}
	return id
}

// ClientID creates an MQTT client ID unique to this host.
func ClientID(prefix string) string {
	id := MachineID()
	if len(id) > 12 {
		id = id[:12]
	}
	return prefix + "-" + id
}
