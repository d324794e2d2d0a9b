// Package id generates trade identifiers.
package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ErrTimeRange is returned for times a ULID cannot carry.
var ErrTimeRange = errors.New("time outside ULID range")

var (
	mu   sync.Mutex
	mono io.Reader
)

func init() {
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// Monotonic entropy keeps IDs minted in the same millisecond increasing.
	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New returns a ULID stamped with the current time.
func New() string {
	s, err := At(time.Now())
	if err != nil {
		// the current time is always in range; only an entropy
		// overflow within one millisecond gets here
		panic(err)
	}
	return s
}

// At returns a ULID stamped with t, so trades logged after the fact
// still sort by the time they were opened. Times before the Unix epoch
// or past the ULID maximum are rejected with ErrTimeRange.
func At(t time.Time) (string, error) {
	if t.Before(time.Unix(0, 0)) || t.After(ulid.Time(ulid.MaxTime())) {
		return "", fmt.Errorf("%w: %s", ErrTimeRange, t.UTC().Format(time.RFC3339))
	}

	mu.Lock()
	defer mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(t.UTC()), mono)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Time extracts the timestamp a ULID was stamped with.
func Time(s string) (time.Time, error) {
	id, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(id.Time()).UTC(), nil
}
