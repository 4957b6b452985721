package audit

import (
	"log"
	"path/filepath"
	"sync"

	"github.com/elektrokombinacija/logibots/internal/core"
)

// Entry is one audit record. Kind selects which optional fields are set.
type Entry struct {
	Kind    string      `json:"kind"`
	Cycle   int         `json:"cycle"`
	Robot   string      `json:"robot,omitempty"`
	From    *core.Point `json:"from,omitempty"`
	To      *core.Point `json:"to,omitempty"`
	Battery int         `json:"battery,omitempty"`
	Chest   string      `json:"chest,omitempty"`
	Item    string      `json:"item,omitempty"`
	Qty     int         `json:"qty,omitempty"`
	Port    string      `json:"port,omitempty"`
	Order   string      `json:"order,omitempty"`
	Reason  string      `json:"reason,omitempty"`
	State   string      `json:"state,omitempty"`
}

// Recorder implements the engine's audit port over a compressed JSONL
// stream. Write failures are logged once and then dropped so a full disk
// can never fail a tick.
type Recorder struct {
	w      *JSONLZstdWriter
	logger *log.Logger

	mu       sync.Mutex
	warned   bool
	moved    map[core.RobotID]int
	failures int
}

// NewRecorder creates a recorder writing under dir.
func NewRecorder(dir string, logger *log.Logger) *Recorder {
	return &Recorder{
		w:      NewJSONLZstdWriter(filepath.Join(dir, "movements"), "movements"),
		logger: logger,
		moved:  make(map[core.RobotID]int),
	}
}

func (r *Recorder) write(e Entry) {
	if err := r.w.Write(e); err != nil {
		r.mu.Lock()
		if !r.warned && r.logger != nil {
			r.logger.Printf("audit: dropping records: %v", err)
			r.warned = true
		}
		r.mu.Unlock()
	}
}

func (r *Recorder) Movement(cycle int, robot core.RobotID, from, to core.Point, battery int) {
	r.mu.Lock()
	r.moved[robot]++
	r.mu.Unlock()
	r.write(Entry{Kind: "move", Cycle: cycle, Robot: string(robot), From: &from, To: &to, Battery: battery})
}

func (r *Recorder) Load(cycle int, robot core.RobotID, chest core.ChestID, item core.Item, qty int) {
	r.write(Entry{Kind: "load", Cycle: cycle, Robot: string(robot), Chest: string(chest), Item: string(item), Qty: qty})
}

func (r *Recorder) Unload(cycle int, robot core.RobotID, chest core.ChestID, item core.Item, qty int) {
	r.write(Entry{Kind: "unload", Cycle: cycle, Robot: string(robot), Chest: string(chest), Item: string(item), Qty: qty})
}

func (r *Recorder) StateChange(cycle int, robot core.RobotID, from, to core.RobotState) {
	r.write(Entry{Kind: "state", Cycle: cycle, Robot: string(robot), Reason: from.String(), State: to.String()})
}

func (r *Recorder) OrderFailed(cycle int, order core.OrderID, reason string) {
	r.mu.Lock()
	r.failures++
	r.mu.Unlock()
	r.write(Entry{Kind: "order_failed", Cycle: cycle, Order: string(order), Reason: reason})
}

func (r *Recorder) Recharge(cycle int, robot core.RobotID, port core.PortID, qty int) {
	r.write(Entry{Kind: "recharge", Cycle: cycle, Robot: string(robot), Port: string(port), Qty: qty})
}

// Close writes a final summary record and closes the stream.
func (r *Recorder) Close() error {
	r.mu.Lock()
	steps := 0
	for _, n := range r.moved {
		steps += n
	}
	summary := map[string]any{
		"kind":           "summary",
		"robots_moved":   len(r.moved),
		"total_steps":    steps,
		"order_failures": r.failures,
	}
	r.mu.Unlock()
	_ = r.w.Write(summary)
	return r.w.Close()
}
