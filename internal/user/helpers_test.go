package user

import (
	"fmt"
	"sync/atomic"
	"time"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type seqIDs struct{ n atomic.Int64 }

func (g *seqIDs) NewID() string {
	return fmt.Sprintf("id-%d", g.n.Add(1))
}

func strPtr(s string) *string { return &s }

var testNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
