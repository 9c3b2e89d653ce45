package quest

// Manager owns quest statuses and progression order. Statuses always
// form a completed prefix, at most one active quest, then a locked
// suffix, in registry order. All quests start locked; activation is
// driven externally when a quest's instructions are dismissed.
//
// Lookups never fail hard: missing ids return a false second value.
// The Manager is not safe for concurrent use; the owning session
// serializes access.
type Manager struct {
	defs   []Definition
	status map[int]Status
}

// NewManager copies defs into fresh per-session state so that replays
// never leak status across sessions.
func NewManager(defs []Definition) (*Manager, error) {
	if err := validate(defs); err != nil {
		return nil, err
	}
	m := &Manager{
		defs:   make([]Definition, len(defs)),
		status: make(map[int]Status, len(defs)),
	}
	copy(m.defs, defs)
	for _, d := range m.defs {
		m.status[d.ID] = StatusLocked
	}
	return m, nil
}

// All returns every quest with its current status, in registry order.
func (m *Manager) All() []Quest {
	out := make([]Quest, 0, len(m.defs))
	for _, d := range m.defs {
		out = append(out, Quest{Definition: d, Status: m.status[d.ID]})
	}
	return out
}

// ByID looks up a quest by id.
func (m *Manager) ByID(id int) (Quest, bool) {
	for _, d := range m.defs {
		if d.ID == id {
			return Quest{Definition: d, Status: m.status[d.ID]}, true
		}
	}
	return Quest{}, false
}

// Current returns the single active quest, if any.
func (m *Manager) Current() (Quest, bool) {
	for _, d := range m.defs {
		if m.status[d.ID] == StatusActive {
			return Quest{Definition: d, Status: StatusActive}, true
		}
	}
	return Quest{}, false
}

// Activate transitions the given quest from locked to active. It is a
// no-op unless the quest is locked, is the first quest after the
// completed prefix, and nothing else is active — this guards against
// double-activation from duplicate UI events and against skipping
// ahead in the registry.
func (m *Manager) Activate(id int) {
	if _, active := m.Current(); active {
		return
	}
	for _, d := range m.defs {
		switch m.status[d.ID] {
		case StatusCompleted:
			continue
		case StatusLocked:
			if d.ID == id {
				m.status[id] = StatusActive
			}
			return
		default:
			return
		}
	}
}

// Next returns the first locked quest after the completed prefix, if
// no quest is currently active.
func (m *Manager) Next() (Definition, bool) {
	if _, active := m.Current(); active {
		return Definition{}, false
	}
	for _, d := range m.defs {
		if m.status[d.ID] == StatusLocked {
			return d, true
		}
	}
	return Definition{}, false
}

// CompleteCurrent transitions the active quest to completed and
// returns the definition immediately following in registry order.
// With no active quest, or no quest remaining, it returns false.
func (m *Manager) CompleteCurrent() (Definition, bool) {
	cur, ok := m.Current()
	if !ok {
		return Definition{}, false
	}
	m.status[cur.ID] = StatusCompleted
	return m.Next()
}

// CompletedCount reports how many quests have been completed.
func (m *Manager) CompletedCount() int {
	n := 0
	for _, d := range m.defs {
		if m.status[d.ID] == StatusCompleted {
			n++
		}
	}
	return n
}

// Len is the registry size.
func (m *Manager) Len() int {
	return len(m.defs)
}
