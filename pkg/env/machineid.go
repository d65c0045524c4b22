package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// appID is the key of machineid.ProtectedID.
const appID = "dcsbios"

// MachineID retrieves the unique ID identifying the machine.
// It falls back to the host name if the machine ID is unavailable.
func MachineID() string {
	id, err := machineid.ProtectedID(appID)
	if err == nil {
		return id
	}
	glog.Warningf("machine id unavailable: %v", err)
	if host, err := os.Hostname(); err == nil {
		return host
	}
	return appID
}
