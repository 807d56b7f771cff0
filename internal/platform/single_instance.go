// Package platform keeps a single timer running per user.
package platform

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"sync"
	"time"
)

// ErrAlreadyRunning indicates another process already owns the timer.
var ErrAlreadyRunning = errors.New("timer already running in another process")

const (
	minGuardPort = 20000
	maxGuardPort = 39999

	ownerTimeout = 500 * time.Millisecond
)

// Owner describes the process holding the timer. The guard hands it to any
// process that finds the lock taken.
type Owner struct {
	PID        int    `json:"pid"`
	StatusAddr string `json:"status_addr,omitempty"`
}

// AlreadyRunningError reports the process that owns the timer.
type AlreadyRunningError struct {
	Address string
	Owner   Owner
}

func (err *AlreadyRunningError) Error() string {
	if err.Owner.StatusAddr == "" {
		return fmt.Sprintf("%s (pid %d)", ErrAlreadyRunning, err.Owner.PID)
	}
	return fmt.Sprintf("%s (pid %d, control it at http://%s)", ErrAlreadyRunning, err.Owner.PID, err.Owner.StatusAddr)
}

func (err *AlreadyRunningError) Unwrap() error {
	return ErrAlreadyRunning
}

// InstanceGuard keeps the single-timer lock for the lifetime of the process.
type InstanceGuard struct {
	listener net.Listener
	owner    Owner
	wg       sync.WaitGroup
}

// AcquireSingleInstance binds a localhost port derived from appName. A second
// caller with the same name gets an error wrapping ErrAlreadyRunning until
// Release; it is an *AlreadyRunningError when the holder could be asked who
// it is.
func AcquireSingleInstance(appName string, owner Owner) (*InstanceGuard, error) {
	address := fmt.Sprintf("127.0.0.1:%d", GuardPort(appName))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		if existing, ok := queryOwner(address); ok {
			return nil, &AlreadyRunningError{Address: address, Owner: existing}
		}
		return nil, fmt.Errorf("%w (%s): %v", ErrAlreadyRunning, address, err)
	}

	guard := &InstanceGuard{listener: listener, owner: owner}
	guard.wg.Add(1)
	go guard.serve()
	return guard, nil
}

func (guard *InstanceGuard) serve() {
	defer guard.wg.Done()
	for {
		conn, err := guard.listener.Accept()
		if err != nil {
			return
		}
		_ = conn.SetWriteDeadline(time.Now().Add(ownerTimeout))
		_ = json.NewEncoder(conn).Encode(guard.owner)
		_ = conn.Close()
	}
}

func queryOwner(address string) (Owner, bool) {
	conn, err := net.DialTimeout("tcp", address, ownerTimeout)
	if err != nil {
		return Owner{}, false
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(ownerTimeout))

	var owner Owner
	if err := json.NewDecoder(conn).Decode(&owner); err != nil || owner.PID == 0 {
		return Owner{}, false
	}
	return owner, true
}

// Release frees the lock. It is safe on a nil guard.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	err := guard.listener.Close()
	guard.wg.Wait()
	guard.listener = nil
	return err
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil || guard.listener == nil {
		return ""
	}
	return guard.listener.Addr().String()
}

// GuardPort maps appName onto the guard port range.
func GuardPort(appName string) int {
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	rangeSize := maxGuardPort - minGuardPort + 1
	return minGuardPort + int(hash.Sum32()%uint32(rangeSize))
}
